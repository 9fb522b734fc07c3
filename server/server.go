package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Daskott/contacts/database"
	"github.com/Daskott/contacts/server/logger"
	"github.com/Daskott/contacts/shared"
	"github.com/Daskott/contacts/store"
)

var logg = logger.NewLogger()

// Start connects the configured store, serves HTTP until SIGINT or SIGTERM
// and then shuts down gracefully. A store that is unreachable at start does
// not stop the server; the monitor keeps retrying it.
func Start(config *shared.ServerConfig, devMode bool) {
	conn, contactStore := NewStore(config)

	ctx, cancel := context.WithTimeout(context.Background(), config.Store.OperationTimeout)
	if err := conn.Connect(ctx); err != nil {
		logg.Errorf("Store connection failed, serving with database %s: %v", conn.State(), err)
	}
	cancel()

	monitor, err := database.NewMonitor(conn, config.Monitor.Interval, config.Store.OperationTimeout)
	fatalOnError(err)
	monitor.Start()

	environment := "production"
	if devMode {
		environment = "development"
	}

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%v", config.Listener.Port),
		Handler: NewRouter(RouterOptions{
			Store:          contactStore,
			Conn:           conn,
			DevMode:        devMode,
			Environment:    environment,
			PublicURL:      config.Server.PublicURL,
			AllowedOrigins: config.CORS.AllowedOrigins,
		}),
	}

	go serve(httpServer)

	logg.Infof("API documentation available at %s/api-docs/", config.Server.PublicURL)

	// Listen for syscall signals for process to interrupt/quit
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cleanup(monitor, httpServer, conn)
}

// NewStore builds the connection and contact store for the configured driver.
func NewStore(config *shared.ServerConfig) (database.Conn, store.Seeder) {
	if config.Store.Driver == shared.SQLiteDriver {
		handle := database.NewSQLiteHandle(config.SQLite.Path)
		return handle, store.NewSQLContactStore(handle, config.Store.OperationTimeout)
	}

	handle := database.NewHandle(config.MongoDB.URI, config.MongoDB.Database, config.MongoDB.ConnectTimeout)
	return handle, store.NewMongoContactStore(handle, config.MongoDB.Collection, config.Store.OperationTimeout)
}
