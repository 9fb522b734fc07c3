package shared

import "time"

const (
	MongoDBDriver = "mongodb"
	SQLiteDriver  = "sqlite"
)

type ServerConfig struct {
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Server   PublicConfig   `mapstructure:"server"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Monitor  MonitorConfig  `mapstructure:"monitor" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type StoreConfig struct {
	Driver           string        `mapstructure:"driver" validate:"required,oneof=mongodb sqlite"`
	OperationTimeout time.Duration `mapstructure:"operationTimeout" validate:"required"`
}

type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database" validate:"required"`
	Collection     string        `mapstructure:"collection" validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connectTimeout" validate:"required"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PublicConfig struct {
	PublicURL string `mapstructure:"publicURL" validate:"required,url"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins" validate:"required,min=1"`
}

type MonitorConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"required"`
}
