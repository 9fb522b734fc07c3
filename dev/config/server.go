package config

// SERVER_YML is the server configuration used with --dev when no config file
// is given. Environment variables still take precedence over it.
const SERVER_YML = `
listener:
  port: 3000

store:
  driver: sqlite
  operationTimeout: 5s

sqlite:
  path: dev/contacts.db

cors:
  allowedOrigins:
    - "*"

monitor:
  interval: 10s
`
