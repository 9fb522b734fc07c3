package store

import (
	"context"
	"errors"
	"time"

	"github.com/Daskott/contacts/server/models"
	pkgerrors "github.com/pkg/errors"
)

// DefaultTimeout bounds every store call when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// ContactStore persists contacts in a single collection.
type ContactStore interface {
	// List returns every contact, newest first.
	List(ctx context.Context) ([]*models.Contact, error)
	// FindByID returns models.ErrNotFound when no contact has the id.
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	// Insert stores contact and returns the id assigned to it.
	Insert(ctx context.Context, contact *models.Contact) (string, error)
	// UpdateByID merges patch into the contact, refreshes updatedAt and
	// returns the merged contact.
	UpdateByID(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error)
	// DeleteByID reports whether a contact was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Seeder is a ContactStore that can also be emptied.
type Seeder interface {
	ContactStore
	DeleteAll(ctx context.Context) (int64, error)
}

// wrapErr classifies a driver error as models.ErrStoreUnavailable, keeping
// errors that are already classified.
func wrapErr(op string, err error) error {
	if errors.Is(err, models.ErrNotInitialized) ||
		errors.Is(err, models.ErrStoreUnavailable) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidID) {
		return err
	}

	return pkgerrors.Wrapf(models.ErrStoreUnavailable, "%s: %v", op, err)
}

// nextUpdatedAt returns now, or one millisecond past previous when the clock
// has not moved beyond it.
func nextUpdatedAt(now, previous time.Time) time.Time {
	if floor := previous.Add(time.Millisecond); now.Before(floor) {
		return floor
	}
	return now
}

func timestamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
