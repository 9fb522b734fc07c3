package cmd

import (
	"fmt"
	"os"
	"strings"

	devConfig "github.com/Daskott/contacts/dev/config"
	"github.com/Daskott/contacts/shared"
	"github.com/Daskott/contacts/utils"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"listener.port":          "PORT",
	"store.driver":           "STORE_DRIVER",
	"mongodb.uri":            "MONGODB_URI",
	"mongodb.database":       "MONGODB_DATABASE",
	"sqlite.path":            "SQLITE_PATH",
	"server.publicURL":       "RENDER_URL",
	"cors.allowedOrigins":    "CORS_ALLOWED_ORIGINS",
	"monitor.interval":       "MONITOR_INTERVAL",
	"store.operationTimeout": "STORE_OPERATION_TIMEOUT",
}

// serverConfig reads .env, the config file and environment variables into a
// validated ServerConfig.
func serverConfig() (*shared.ServerConfig, error) {
	if utils.FileExist(".env") {
		if err := godotenv.Load(); err != nil {
			return nil, formattedError("error reading .env: %v", err)
		}
	}

	config := viper.New()
	config.SetDefault("listener.port", 3000)
	config.SetDefault("store.driver", shared.MongoDBDriver)
	config.SetDefault("store.operationTimeout", "5s")
	config.SetDefault("mongodb.database", "contactsdb")
	config.SetDefault("mongodb.collection", "contacts")
	config.SetDefault("mongodb.connectTimeout", "5s")
	config.SetDefault("sqlite.path", "data/contacts.db")
	config.SetDefault("cors.allowedOrigins", []string{"*"})
	config.SetDefault("monitor.interval", "30s")

	for key, env := range envBindings {
		if err := config.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	switch {
	case cfgFile != "":
		config.SetConfigFile(cfgFile)
		if err := config.ReadInConfig(); err != nil {
			return nil, formattedError("error reading config file: %v", err)
		}
		fmt.Fprintln(os.Stderr, "Using config file:", config.ConfigFileUsed())
	case isDevEnv:
		config.SetConfigType("yaml")
		if err := config.ReadConfig(strings.NewReader(devConfig.SERVER_YML)); err != nil {
			return nil, err
		}
	}

	if config.GetString("server.publicURL") == "" {
		config.Set("server.publicURL", fmt.Sprintf("http://localhost:%d", config.GetInt("listener.port")))
	}

	serverConfig := &shared.ServerConfig{}
	if err := config.Unmarshal(serverConfig); err != nil {
		return nil, formattedError("error parsing config: %v", err)
	}

	if err := validator.New().Struct(serverConfig); err != nil {
		return nil, formattedError("invalid config: %v", err)
	}

	if serverConfig.Store.Driver == shared.MongoDBDriver && serverConfig.MongoDB.URI == "" {
		return nil, formattedError("must set the env var 'MONGODB_URI' or 'mongodb.uri' when store.driver is %q", shared.MongoDBDriver)
	}

	return serverConfig, nil
}
