package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Daskott/contacts/database"
)

type ResponsePayload struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	ID      string      `json:"id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Message)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Message, payLoad.Errors)
	}

	writeJSON(rw, payLoad, statusCode)
}

func writeJSON(rw http.ResponseWriter, body interface{}, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		logg.Errorf("writeJSON: %v", err)
	}
}

func removeUnknownFields(args map[string]json.RawMessage, validFields map[string]bool) {
	for key := range args {
		if !validFields[key] {
			delete(args, key)
		}
	}
}

func routeNotFound(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Message: "Route not found"}, http.StatusNotFound)
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("Contacts server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(monitor *database.Monitor, server *http.Server, conn database.Conn) {
	// Stop store liveness checks before the connection goes away
	if monitor != nil {
		monitor.Stop()
	}

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Errorf("Contacts server shutdown failed:%+s", err)
	}

	if err := conn.Close(ctxShutDown); err != nil {
		logg.Errorf("Closing store connection failed: %v", err)
	}

	logg.Infof("Contacts server stopped properly")
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
