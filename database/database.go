package database

import (
	"context"
	"errors"
	"time"

	"github.com/Daskott/contacts/server/logger"
)

var logg = logger.NewLogger()

// ErrConnection is returned by Connect when the store cannot be reached.
var ErrConnection = errors.New("unable to connect to store")

type State string

const (
	Uninitialized State = "uninitialized"
	Connected     State = "connected"
	Failed        State = "failed"
)

// Conn is a long lived store connection shared across requests.
type Conn interface {
	Connect(ctx context.Context) error
	Check(ctx context.Context) error
	State() State
	Close(ctx context.Context) error
}

// Contact is the relational row backing a contact in the embedded store.
type Contact struct {
	ID            string    `gorm:"primaryKey;size:24"`
	FirstName     string    `gorm:"not null"`
	LastName      string    `gorm:"not null"`
	Email         string    `gorm:"not null"`
	FavoriteColor string    `gorm:"not null"`
	Birthday      time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:false"`
}
