package server

import (
	"net/http"
	"time"

	"github.com/Daskott/contacts/database"
	"github.com/Daskott/contacts/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type RouterOptions struct {
	Store          store.ContactStore
	Conn           database.Conn
	DevMode        bool
	Environment    string
	PublicURL      string
	AllowedOrigins []string
}

// NewRouter wires every route of the service behind the shared middlewares.
func NewRouter(opts RouterOptions) http.Handler {
	contacts := NewContactHandler(opts.Store, opts.DevMode)
	doc := NewAPIDocument(opts.PublicURL)
	metricSet := metrics.NewSet()

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(routeNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(routeNotFound)
	router.Use(metricsMiddleware(metricSet))

	router.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, map[string]interface{}{
			"message":       "Contacts API",
			"documentation": "/api-docs/",
			"endpoints": map[string]string{
				"contacts": "/contacts",
				"health":   "/health",
				"docs":     "/docs.json",
			},
			"database": stateOf(opts.Conn),
		}, http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, map[string]interface{}{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
			"environment": opts.Environment,
			"database":    stateOf(opts.Conn),
		}, http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		metricSet.WritePrometheus(rw)
		metrics.WriteProcessMetrics(rw)
	}).Methods(http.MethodGet)

	router.HandleFunc("/docs.json", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, doc, http.StatusOK)
	}).Methods(http.MethodGet)

	router.Handle("/api-docs", http.RedirectHandler("/api-docs/index.html", http.StatusMovedPermanently))
	router.Handle("/api-docs/", http.RedirectHandler("/api-docs/index.html", http.StatusMovedPermanently))
	router.PathPrefix("/api-docs/").Handler(httpSwagger.Handler(httpSwagger.URL("/docs.json")))

	contactsRouter := router.PathPrefix("/contacts").Subrouter()
	contactsRouter.HandleFunc("", contacts.listContacts).Methods(http.MethodGet)
	contactsRouter.HandleFunc("", contacts.createContact).Methods(http.MethodPost)
	contactsRouter.HandleFunc("/{id}", contacts.findContact).Methods(http.MethodGet)
	contactsRouter.HandleFunc("/{id}", contacts.updateContact).Methods(http.MethodPut)
	contactsRouter.HandleFunc("/{id}", contacts.deleteContact).Methods(http.MethodDelete)

	cors := handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(opts.DevMode),
	)

	return requestIDMiddleware(loggingMiddleware(cors(recovery(serverErrorOnPanic(router)))))
}

func stateOf(conn database.Conn) database.State {
	if conn == nil {
		return database.Uninitialized
	}
	return conn.State()
}

// recoveryLogger routes recovered panics to the service logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(args ...interface{}) {
	logg.Error(args...)
}
