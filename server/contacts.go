package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/store"
	"github.com/gorilla/mux"
)

// ContactHandler serves the /contacts routes on top of a ContactStore.
type ContactHandler struct {
	store store.ContactStore
	// exposeErrors adds the underlying error text to 500 responses
	exposeErrors bool
}

func NewContactHandler(contactStore store.ContactStore, exposeErrors bool) *ContactHandler {
	return &ContactHandler{store: contactStore, exposeErrors: exposeErrors}
}

func (h *ContactHandler) listContacts(rw http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(rw, "list contacts", err)
		return
	}

	count := len(contacts)
	writeResponse(rw, ResponsePayload{Success: true, Count: &count, Data: contacts}, http.StatusOK)
}

func (h *ContactHandler) findContact(rw http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(rw, "find contact", err)
		return
	}

	contact, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		h.writeError(rw, "find contact", err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact}, http.StatusOK)
}

func (h *ContactHandler) createContact(rw http.ResponseWriter, r *http.Request) {
	input := models.ContactInput{}

	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil && !errors.Is(err, io.EOF) {
		writeResponse(rw, ResponsePayload{Message: "Invalid request body", Error: err.Error()}, http.StatusBadRequest)
		return
	}

	contact, err := models.NewContact(input)
	if err != nil {
		h.writeError(rw, "create contact", err)
		return
	}

	id, err := h.store.Insert(r.Context(), contact)
	if err != nil {
		h.writeError(rw, "create contact", err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, ID: id, Message: "Contact created successfully"}, http.StatusCreated)
}

func (h *ContactHandler) updateContact(rw http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(rw, "update contact", err)
		return
	}

	data := make(map[string]json.RawMessage)
	err = json.NewDecoder(r.Body).Decode(&data)
	if err != nil && !errors.Is(err, io.EOF) {
		writeResponse(rw, ResponsePayload{Message: "Invalid request body", Error: err.Error()}, http.StatusBadRequest)
		return
	}

	removeUnknownFields(data, models.PatchableFields())

	patch, err := models.NewContactPatch(data)
	if err != nil {
		h.writeError(rw, "update contact", err)
		return
	}

	contact, err := h.store.UpdateByID(r.Context(), id, patch)
	if err != nil {
		h.writeError(rw, "update contact", err)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact, Message: "Contact updated successfully"}, http.StatusOK)
}

func (h *ContactHandler) deleteContact(rw http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(rw, "delete contact", err)
		return
	}

	deleted, err := h.store.DeleteByID(r.Context(), id)
	if err != nil {
		h.writeError(rw, "delete contact", err)
		return
	}

	if !deleted {
		h.writeError(rw, "delete contact", models.ErrNotFound)
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Message: "Contact deleted successfully"}, http.StatusOK)
}

// writeError maps err onto the response status and body.
func (h *ContactHandler) writeError(rw http.ResponseWriter, op string, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeResponse(rw, ResponsePayload{Message: "Validation failed", Errors: validationErr.Errors}, http.StatusBadRequest)
	case errors.Is(err, models.ErrInvalidID):
		writeResponse(rw, ResponsePayload{Message: "Invalid contact ID format"}, http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		writeResponse(rw, ResponsePayload{Message: "Contact not found"}, http.StatusNotFound)
	default:
		logg.Errorf("%s: %v", op, err)

		payload := ResponsePayload{Message: "Server error"}
		if h.exposeErrors {
			payload.Error = err.Error()
		}
		writeResponse(rw, payload, http.StatusInternalServerError)
	}
}
