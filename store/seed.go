package store

import (
	"context"

	"github.com/Daskott/contacts/server/models"
)

// SampleContacts are the contacts inserted by Seed.
var SampleContacts = []models.ContactInput{
	{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", FavoriteColor: "Blue", Birthday: "1990-05-15"},
	{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", FavoriteColor: "Green", Birthday: "1985-08-22"},
	{FirstName: "Bob", LastName: "Johnson", Email: "bob.johnson@example.com", FavoriteColor: "Red", Birthday: "1992-12-10"},
}

type SeedResult struct {
	Removed  int64
	Inserted []string
}

// Seed inserts SampleContacts, emptying the store first when reset is set.
func Seed(ctx context.Context, seeder Seeder, reset bool) (*SeedResult, error) {
	result := &SeedResult{}

	if reset {
		removed, err := seeder.DeleteAll(ctx)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	for _, input := range SampleContacts {
		contact, err := models.NewContact(input)
		if err != nil {
			return nil, err
		}

		id, err := seeder.Insert(ctx, contact)
		if err != nil {
			return result, err
		}
		result.Inserted = append(result.Inserted, id)
	}

	return result, nil
}
