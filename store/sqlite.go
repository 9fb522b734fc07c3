package store

import (
	"context"
	"errors"
	"time"

	"github.com/Daskott/contacts/database"
	"github.com/Daskott/contacts/server/models"
	"gorm.io/gorm"
)

// GormProvider hands out the gorm handle of a connected database.
type GormProvider interface {
	DB() (*gorm.DB, error)
}

func rowToModel(row *database.Contact) *models.Contact {
	return &models.Contact{
		BaseModel: models.BaseModel{
			ID:        row.ID,
			CreatedAt: row.CreatedAt.UTC(),
			UpdatedAt: row.UpdatedAt.UTC(),
		},
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Email:         row.Email,
		FavoriteColor: row.FavoriteColor,
		Birthday:      models.NewDate(row.Birthday.UTC()),
	}
}

// SQLContactStore keeps contacts in the embedded SQLite database.
type SQLContactStore struct {
	provider GormProvider
	timeout  time.Duration
	now      func() time.Time
}

func NewSQLContactStore(provider GormProvider, timeout time.Duration) *SQLContactStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &SQLContactStore{provider: provider, timeout: timeout, now: time.Now}
}

func (s *SQLContactStore) db(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	db, err := s.provider.DB()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return db.WithContext(ctx), cancel, nil
}

func (s *SQLContactStore) List(ctx context.Context) ([]*models.Contact, error) {
	db, cancel, err := s.db(ctx)
	if err != nil {
		return nil, wrapErr("list contacts", err)
	}
	defer cancel()

	rows := []database.Contact{}
	if err := db.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, wrapErr("list contacts", err)
	}

	contacts := make([]*models.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, rowToModel(&rows[i]))
	}

	return contacts, nil
}

func (s *SQLContactStore) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}

	db, cancel, err := s.db(ctx)
	if err != nil {
		return nil, wrapErr("find contact", err)
	}
	defer cancel()

	row := database.Contact{}
	err = db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("find contact "+id, err)
	}

	return rowToModel(&row), nil
}

func (s *SQLContactStore) Insert(ctx context.Context, contact *models.Contact) (string, error) {
	db, cancel, err := s.db(ctx)
	if err != nil {
		return "", wrapErr("insert contact", err)
	}
	defer cancel()

	now := timestamp(s.now)
	row := database.Contact{
		ID:            models.NewID(),
		FirstName:     contact.FirstName,
		LastName:      contact.LastName,
		Email:         contact.Email,
		FavoriteColor: contact.FavoriteColor,
		Birthday:      contact.Birthday.Time,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := db.Create(&row).Error; err != nil {
		return "", wrapErr("insert contact", err)
	}

	return row.ID, nil
}

// UpdateByID reads, merges and saves the row inside one transaction.
func (s *SQLContactStore) UpdateByID(ctx context.Context, id string, patch *models.ContactPatch) (*models.Contact, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return nil, err
	}

	db, cancel, err := s.db(ctx)
	if err != nil {
		return nil, wrapErr("update contact", err)
	}
	defer cancel()

	var updated *models.Contact
	err = db.Transaction(func(tx *gorm.DB) error {
		row := database.Contact{}
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}

		contact := rowToModel(&row)
		patch.Apply(contact)

		row.FirstName = contact.FirstName
		row.LastName = contact.LastName
		row.Email = contact.Email
		row.FavoriteColor = contact.FavoriteColor
		row.Birthday = contact.Birthday.Time
		row.UpdatedAt = nextUpdatedAt(timestamp(s.now), row.UpdatedAt.UTC())

		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		updated = rowToModel(&row)
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("update contact "+id, err)
	}

	return updated, nil
}

func (s *SQLContactStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	id, err := models.ParseID(id)
	if err != nil {
		return false, err
	}

	db, cancel, err := s.db(ctx)
	if err != nil {
		return false, wrapErr("delete contact", err)
	}
	defer cancel()

	res := db.Delete(&database.Contact{}, "id = ?", id)
	if res.Error != nil {
		return false, wrapErr("delete contact "+id, res.Error)
	}

	return res.RowsAffected > 0, nil
}

func (s *SQLContactStore) DeleteAll(ctx context.Context) (int64, error) {
	db, cancel, err := s.db(ctx)
	if err != nil {
		return 0, wrapErr("delete contacts", err)
	}
	defer cancel()

	res := db.Where("1 = 1").Delete(&database.Contact{})
	if res.Error != nil {
		return 0, wrapErr("delete contacts", res.Error)
	}

	return res.RowsAffected, nil
}
