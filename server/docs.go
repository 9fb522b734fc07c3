package server

import (
	"net/http"

	"github.com/Daskott/contacts/version"
	"github.com/getkin/kin-openapi/openapi3"
)

func contactSchemas() (input, contact *openapi3.Schema) {
	input = openapi3.NewObjectSchema().
		WithProperty("firstName", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("lastName", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("favoriteColor", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("birthday", openapi3.NewStringSchema().WithFormat("date"))
	input.Required = []string{"firstName", "lastName", "email", "favoriteColor", "birthday"}
	input.Example = map[string]interface{}{
		"firstName":     "John",
		"lastName":      "Doe",
		"email":         "john.doe@example.com",
		"favoriteColor": "Blue",
		"birthday":      "1990-05-15",
	}

	contact = openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema().WithPattern("^[0-9a-fA-F]{24}$")).
		WithProperty("firstName", openapi3.NewStringSchema()).
		WithProperty("lastName", openapi3.NewStringSchema()).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
		WithProperty("favoriteColor", openapi3.NewStringSchema()).
		WithProperty("birthday", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("createdAt", openapi3.NewDateTimeSchema()).
		WithProperty("updatedAt", openapi3.NewDateTimeSchema())

	return input, contact
}

func envelope(fields map[string]*openapi3.Schema) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().WithProperty("success", openapi3.NewBoolSchema())
	for name, field := range fields {
		schema.WithProperty(name, field)
	}
	return schema
}

func newOperation(id, summary string) *openapi3.Operation {
	return &openapi3.Operation{
		Tags:        []string{"Contacts"},
		OperationID: id,
		Summary:     summary,
		Responses:   openapi3.NewResponsesWithCapacity(4),
	}
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.Response {
	return openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema)
}

// NewAPIDocument describes the contacts routes as an OpenAPI 3 document.
func NewAPIDocument(serverURL string) *openapi3.T {
	inputSchema, contactSchema := contactSchemas()
	inputRef := openapi3.NewSchemaRef("#/components/schemas/ContactInput", inputSchema)
	contactRef := openapi3.NewSchemaRef("#/components/schemas/Contact", contactSchema)

	errorBody := envelope(map[string]*openapi3.Schema{
		"message": openapi3.NewStringSchema(),
		"error":   openapi3.NewStringSchema(),
		"errors":  openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()),
	})
	messageBody := envelope(map[string]*openapi3.Schema{"message": openapi3.NewStringSchema()})
	contactBody := envelope(nil).WithPropertyRef("data", contactRef)
	idParam := openapi3.NewPathParameter("id").
		WithDescription("Contact ID (24 hex characters)").
		WithSchema(openapi3.NewStringSchema().WithPattern("^[0-9a-fA-F]{24}$"))

	list := newOperation("listContacts", "Retrieve all contacts")
	list.AddResponse(http.StatusOK, jsonResponse("A list of contacts", envelope(map[string]*openapi3.Schema{
		"count": openapi3.NewIntegerSchema(),
	}).WithProperty("data", openapi3.NewArraySchema().WithItems(contactSchema))))
	list.AddResponse(http.StatusInternalServerError, jsonResponse("Server error", errorBody))

	create := newOperation("createContact", "Create a new contact")
	create.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(inputRef),
	}
	create.AddResponse(http.StatusCreated, jsonResponse("Contact created successfully", envelope(map[string]*openapi3.Schema{
		"id":      openapi3.NewStringSchema(),
		"message": openapi3.NewStringSchema(),
	})))
	create.AddResponse(http.StatusBadRequest, jsonResponse("Bad request - missing or invalid fields", errorBody))
	create.AddResponse(http.StatusInternalServerError, jsonResponse("Server error", errorBody))

	get := newOperation("getContact", "Get a contact by ID")
	get.AddParameter(idParam)
	get.AddResponse(http.StatusOK, jsonResponse("Contact details", contactBody))
	get.AddResponse(http.StatusBadRequest, jsonResponse("Invalid contact ID format", errorBody))
	get.AddResponse(http.StatusNotFound, jsonResponse("Contact not found", errorBody))
	get.AddResponse(http.StatusInternalServerError, jsonResponse("Server error", errorBody))

	update := newOperation("updateContact", "Update a contact")
	update.AddParameter(idParam)
	update.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithDescription("Any subset of the contact fields").
			WithJSONSchema(openapi3.NewObjectSchema().
				WithProperty("firstName", openapi3.NewStringSchema().WithMinLength(1)).
				WithProperty("lastName", openapi3.NewStringSchema().WithMinLength(1)).
				WithProperty("email", openapi3.NewStringSchema().WithFormat("email")).
				WithProperty("favoriteColor", openapi3.NewStringSchema().WithMinLength(1)).
				WithProperty("birthday", openapi3.NewStringSchema().WithFormat("date"))),
	}
	update.AddResponse(http.StatusOK, jsonResponse("Contact updated successfully",
		envelope(map[string]*openapi3.Schema{"message": openapi3.NewStringSchema()}).WithPropertyRef("data", contactRef)))
	update.AddResponse(http.StatusBadRequest, jsonResponse("Invalid contact ID format or field value", errorBody))
	update.AddResponse(http.StatusNotFound, jsonResponse("Contact not found", errorBody))
	update.AddResponse(http.StatusInternalServerError, jsonResponse("Server error", errorBody))

	remove := newOperation("deleteContact", "Delete a contact")
	remove.AddParameter(idParam)
	remove.AddResponse(http.StatusOK, jsonResponse("Contact deleted successfully", messageBody))
	remove.AddResponse(http.StatusBadRequest, jsonResponse("Invalid contact ID format", errorBody))
	remove.AddResponse(http.StatusNotFound, jsonResponse("Contact not found", errorBody))
	remove.AddResponse(http.StatusInternalServerError, jsonResponse("Server error", errorBody))

	paths := openapi3.NewPaths()
	paths.Set("/contacts", &openapi3.PathItem{Get: list, Post: create})
	paths.Set("/contacts/{id}", &openapi3.PathItem{Get: get, Put: update, Delete: remove})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Contacts API",
			Version:     version.Version,
			Description: "A simple API to manage contacts",
		},
		Servers: openapi3.Servers{{URL: serverURL, Description: "Contacts server"}},
		Paths:   paths,
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"ContactInput": openapi3.NewSchemaRef("", inputSchema),
				"Contact":      openapi3.NewSchemaRef("", contactSchema),
			},
		},
	}
}
