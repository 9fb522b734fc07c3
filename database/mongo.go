package database

import (
	"context"
	"sync"
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Handle owns the MongoDB client and tracks whether it is usable.
type Handle struct {
	uri            string
	dbName         string
	connectTimeout time.Duration

	mu      sync.RWMutex
	client  *mongo.Client
	state   State
	lastErr error
}

func NewHandle(uri, dbName string, connectTimeout time.Duration) *Handle {
	return &Handle{
		uri:            uri,
		dbName:         dbName,
		connectTimeout: connectTimeout,
		state:          Uninitialized,
	}
}

// Connect dials the server and pings the primary. On failure the handle is
// left without a client in the Failed state.
func (h *Handle) Connect(ctx context.Context) error {
	if h.uri == "" {
		return h.fail(errors.Wrap(ErrConnection, "no MongoDB URI configured"))
	}

	ctx, cancel := context.WithTimeout(ctx, h.connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(h.uri).
		SetConnectTimeout(h.connectTimeout).
		SetServerSelectionTimeout(h.connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return h.fail(errors.Wrapf(ErrConnection, "connect: %v", err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return h.fail(errors.Wrapf(ErrConnection, "ping: %v", err))
	}

	h.mu.Lock()
	previous := h.client
	h.client = client
	h.state = Connected
	h.lastErr = nil
	h.mu.Unlock()

	if previous != nil {
		_ = previous.Disconnect(context.Background())
	}

	logg.Infof("Connected to MongoDB database %q", h.dbName)
	return nil
}

func (h *Handle) fail(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client != nil {
		_ = h.client.Disconnect(context.Background())
		h.client = nil
	}
	h.state = Failed
	h.lastErr = err

	return err
}

// Collection returns the named collection of the configured database.
func (h *Handle) Collection(name string) (*mongo.Collection, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state == Failed {
		return nil, errors.Wrapf(models.ErrStoreUnavailable, "collection %s: %v", name, h.lastErr)
	}

	if h.client == nil {
		return nil, models.ErrNotInitialized
	}

	return h.client.Database(h.dbName).Collection(name), nil
}

// Check pings the server and records the outcome in the handle state.
func (h *Handle) Check(ctx context.Context) error {
	h.mu.RLock()
	client, state, lastErr := h.client, h.state, h.lastErr
	h.mu.RUnlock()

	if client == nil {
		if state == Failed {
			return errors.Wrapf(models.ErrStoreUnavailable, "ping: %v", lastErr)
		}
		return models.ErrNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, h.connectTimeout)
	defer cancel()

	err := client.Ping(ctx, readpref.Primary())

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

func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.client == nil {
		return nil
	}

	err := h.client.Disconnect(ctx)
	h.client = nil
	h.state = Uninitialized

	return err
}
