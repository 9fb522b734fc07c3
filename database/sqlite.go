package database

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/Daskott/contacts/server/models"
	"github.com/Daskott/contacts/utils"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLiteHandle owns the embedded gorm database used for local development.
type SQLiteHandle struct {
	path string

	mu      sync.RWMutex
	db      *gorm.DB
	state   State
	lastErr error
}

func NewSQLiteHandle(path string) *SQLiteHandle {
	return &SQLiteHandle{path: path, state: Uninitialized}
}

// Connect opens the database file, creating its directory and the contacts
// table when missing.
func (h *SQLiteHandle) Connect(ctx context.Context) error {
	if h.path == "" {
		return h.fail(errors.Wrap(ErrConnection, "no SQLite path configured"))
	}

	if err := utils.CreateDirIfNotExist(filepath.Dir(h.path)); err != nil {
		return h.fail(errors.Wrapf(ErrConnection, "create data dir: %v", err))
	}

	db, err := gorm.Open(sqlite.Open(h.path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return h.fail(errors.Wrapf(ErrConnection, "open %s: %v", h.path, err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return h.fail(errors.Wrapf(ErrConnection, "open %s: %v", h.path, err))
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return h.fail(errors.Wrapf(ErrConnection, "ping: %v", err))
	}

	if err := db.WithContext(ctx).AutoMigrate(&Contact{}); err != nil {
		_ = sqlDB.Close()
		return h.fail(errors.Wrapf(ErrConnection, "migrate: %v", err))
	}

	h.mu.Lock()
	previous := h.db
	h.db = db
	h.state = Connected
	h.lastErr = nil
	h.mu.Unlock()

	closeGormDB(previous)

	logg.Infof("Opened SQLite database %s", h.path)
	return nil
}

func (h *SQLiteHandle) fail(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	closeGormDB(h.db)
	h.db = nil
	h.state = Failed
	h.lastErr = err

	return err
}

// DB returns the gorm handle bound to no particular context.
func (h *SQLiteHandle) DB() (*gorm.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state == Failed {
		return nil, errors.Wrapf(models.ErrStoreUnavailable, "sqlite: %v", h.lastErr)
	}

	if h.db == nil {
		return nil, models.ErrNotInitialized
	}

	return h.db, nil
}

func (h *SQLiteHandle) Check(ctx context.Context) error {
	h.mu.RLock()
	db, state, lastErr := h.db, h.state, h.lastErr
	h.mu.RUnlock()

	if db == nil {
		if state == Failed {
			return errors.Wrapf(models.ErrStoreUnavailable, "sqlite: %v", lastErr)
		}
		return models.ErrNotInitialized
	}

	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		h.state = Failed
		h.lastErr = err
		return errors.Wrapf(models.ErrStoreUnavailable, "ping: %v", err)
	}

	h.state = Connected
	h.lastErr = nil
	return nil
}

func (h *SQLiteHandle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *SQLiteHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.db == nil {
		return nil
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}
	h.db = nil
	h.state = Uninitialized

	return err
}

func closeGormDB(db *gorm.DB) {
	if db == nil {
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
