package models

import (
	"encoding/json"
	"strings"
)

type Contact struct {
	BaseModel
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	FavoriteColor string `json:"favoriteColor"`
	Birthday      Date   `json:"birthday"`
}

// ContactInput is the client supplied body of a create request.
type ContactInput struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,coarse_email"`
	FavoriteColor string `json:"favoriteColor" validate:"required"`
	Birthday      string `json:"birthday" validate:"required,iso_date"`
}

// patchRules maps every updatable field to the rule its new value must satisfy.
var patchRules = []struct {
	field string
	rule  string
}{
	{"firstName", "required"},
	{"lastName", "required"},
	{"email", "required,coarse_email"},
	{"favoriteColor", "required"},
	{"birthday", "required,iso_date"},
}

// PatchableFields returns the set of keys accepted by an update.
func PatchableFields() map[string]bool {
	fields := make(map[string]bool, len(patchRules))
	for _, r := range patchRules {
		fields[r.field] = true
	}
	return fields
}

func normalize(field, value string) string {
	value = strings.TrimSpace(value)
	if field == "email" {
		value = strings.ToLower(value)
	}
	return value
}

// NewContact validates input and returns the unsaved contact it describes.
// Values are trimmed and the email lower-cased before validation.
func NewContact(input ContactInput) (*Contact, error) {
	input.FirstName = normalize("firstName", input.FirstName)
	input.LastName = normalize("lastName", input.LastName)
	input.Email = normalize("email", input.Email)
	input.FavoriteColor = normalize("favoriteColor", input.FavoriteColor)
	input.Birthday = normalize("birthday", input.Birthday)

	if err := validate.Struct(input); err != nil {
		return nil, toValidationError(err)
	}

	birthday, err := ParseDate(input.Birthday)
	if err != nil {
		return nil, newValidationError(fieldMessage("birthday", "iso_date"))
	}

	return &Contact{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		FavoriteColor: input.FavoriteColor,
		Birthday:      birthday,
	}, nil
}

// ContactPatch holds the fields supplied by a partial update. Nil means untouched.
type ContactPatch struct {
	FirstName     *string
	LastName      *string
	Email         *string
	FavoriteColor *string
	Birthday      *Date
}

// NewContactPatch validates the known keys of an update body. Unknown keys are
// ignored; a known key that is null, empty or malformed is a ValidationError.
func NewContactPatch(body map[string]json.RawMessage) (*ContactPatch, error) {
	patch := &ContactPatch{}
	var msgs []string

	for _, r := range patchRules {
		raw, ok := body[r.field]
		if !ok {
			continue
		}

		var value *string
		if err := json.Unmarshal(raw, &value); err != nil {
			msgs = append(msgs, r.field+" must be a string")
			continue
		}

		if value == nil {
			msgs = append(msgs, fieldMessage(r.field, "required"))
			continue
		}

		normalized := normalize(r.field, *value)
		if err := validate.Var(normalized, r.rule); err != nil {
			msgs = append(msgs, fieldMessage(r.field, failedTag(err)))
			continue
		}

		patch.set(r.field, normalized)
	}

	if len(msgs) > 0 {
		return nil, newValidationError(msgs...)
	}

	return patch, nil
}

func (p *ContactPatch) set(field, value string) {
	switch field {
	case "firstName":
		p.FirstName = &value
	case "lastName":
		p.LastName = &value
	case "email":
		p.Email = &value
	case "favoriteColor":
		p.FavoriteColor = &value
	case "birthday":
		date, _ := ParseDate(value)
		p.Birthday = &date
	}
}

func (p *ContactPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the supplied values keyed by their JSON name.
func (p *ContactPatch) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.FirstName != nil {
		fields["firstName"] = *p.FirstName
	}
	if p.LastName != nil {
		fields["lastName"] = *p.LastName
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.FavoriteColor != nil {
		fields["favoriteColor"] = *p.FavoriteColor
	}
	if p.Birthday != nil {
		fields["birthday"] = p.Birthday.Time
	}
	return fields
}

// Apply merges the supplied fields into contact.
func (p *ContactPatch) Apply(contact *Contact) {
	if p.FirstName != nil {
		contact.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		contact.LastName = *p.LastName
	}
	if p.Email != nil {
		contact.Email = *p.Email
	}
	if p.FavoriteColor != nil {
		contact.FavoriteColor = *p.FavoriteColor
	}
	if p.Birthday != nil {
		contact.Birthday = *p.Birthday
	}
}
