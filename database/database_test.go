package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Daskott/contacts/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleConnectWithoutURI(t *testing.T) {
	handle := NewHandle("", "contactsdb", time.Second)
	assert.Equal(t, Uninitialized, handle.State())

	err := handle.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, Failed, handle.State())

	_, err = handle.Collection("contacts")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, models.ErrNotInitialized)
}

func TestHandleCollectionBeforeConnect(t *testing.T) {
	handle := NewHandle("mongodb://127.0.0.1:1", "contactsdb", time.Second)

	_, err := handle.Collection("contacts")
	assert.ErrorIs(t, err, models.ErrNotInitialized)
	assert.ErrorIs(t, handle.Check(context.Background()), models.ErrNotInitialized)
}

func TestHandleConnectUnreachable(t *testing.T) {
	handle := NewHandle("mongodb://127.0.0.1:1/?directConnection=true", "contactsdb", 200*time.Millisecond)

	err := handle.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, Failed, handle.State())

	_, err = handle.Collection("contacts")
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
	assert.ErrorIs(t, handle.Check(context.Background()), models.ErrStoreUnavailable)
	assert.NoError(t, handle.Close(context.Background()))
}

func TestSQLiteHandleLifecycle(t *testing.T) {
	handle := NewSQLiteHandle(filepath.Join(t.TempDir(), "nested", "contacts.db"))

	_, err := handle.DB()
	assert.ErrorIs(t, err, models.ErrNotInitialized)

	require.NoError(t, handle.Connect(context.Background()))
	assert.Equal(t, Connected, handle.State())

	db, err := handle.DB()
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&Contact{}))

	assert.NoError(t, handle.Check(context.Background()))

	require.NoError(t, handle.Close(context.Background()))
	assert.Equal(t, Uninitialized, handle.State())

	_, err = handle.DB()
	assert.ErrorIs(t, err, models.ErrNotInitialized)
}

func TestSQLiteHandleWithoutPath(t *testing.T) {
	handle := NewSQLiteHandle("")

	assert.ErrorIs(t, handle.Connect(context.Background()), ErrConnection)
	assert.Equal(t, Failed, handle.State())

	_, err := handle.DB()
	assert.ErrorIs(t, err, models.ErrStoreUnavailable)
}

type fakeConn struct {
	mu         sync.Mutex
	state      State
	connectErr error
	checkErr   error
	connects   int
	checks     int
}

func (c *fakeConn) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if c.connectErr != nil {
		c.state = Failed
		return c.connectErr
	}
	c.state = Connected
	return nil
}

func (c *fakeConn) Check(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks++
	if c.checkErr != nil {
		c.state = Failed
	}
	return c.checkErr
}

func (c *fakeConn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeConn) Close(ctx context.Context) error { return nil }

func (c *fakeConn) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects, c.checks
}

func TestMonitorProbe(t *testing.T) {
	conn := &fakeConn{state: Failed}
	monitor, err := NewMonitor(conn, time.Hour, time.Second)
	require.NoError(t, err)

	// not connected: reconnect instead of ping
	monitor.Probe()
	connects, checks := conn.counts()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 0, checks)
	assert.Equal(t, Connected, conn.State())

	// connected: ping only
	monitor.Probe()
	connects, checks = conn.counts()
	assert.Equal(t, 1, connects)
	assert.Equal(t, 1, checks)

	// a failed ping marks the connection, the next probe reconnects
	conn.checkErr = models.ErrStoreUnavailable
	monitor.Probe()
	assert.Equal(t, Failed, conn.State())

	monitor.Probe()
	connects, _ = conn.counts()
	assert.Equal(t, 2, connects)
}

func TestMonitorRunsInBackground(t *testing.T) {
	conn := &fakeConn{state: Uninitialized}
	monitor, err := NewMonitor(conn, 50*time.Millisecond, time.Second)
	require.NoError(t, err)

	monitor.Start()
	defer monitor.Stop()

	assert.Eventually(t, func() bool {
		connects, checks := conn.counts()
		return connects == 1 && checks >= 1
	}, 2*time.Second, 10*time.Millisecond)
}
