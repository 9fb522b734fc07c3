package database

import (
	"context"
	"time"

	"github.com/Daskott/contacts/server/cron"
	"github.com/go-co-op/gocron"
)

const monitorJobTag = "store-monitor"

// Monitor periodically checks a Conn, reconnecting it when it is not usable.
type Monitor struct {
	conn      Conn
	timeout   time.Duration
	scheduler *gocron.Scheduler
}

func NewMonitor(conn Conn, interval, timeout time.Duration) (*Monitor, error) {
	monitor := &Monitor{
		conn:      conn,
		timeout:   timeout,
		scheduler: cron.NewScheduler("UTC"),
	}

	_, err := monitor.scheduler.Every(interval).SingletonMode().Tag(monitorJobTag).Do(monitor.Probe)
	if err != nil {
		return nil, err
	}

	return monitor, nil
}

// Start runs the checks in the background; the first one happens immediately.
func (m *Monitor) Start() {
	logg.Info("Starting store monitor")
	m.scheduler.StartAsync()
}

func (m *Monitor) Stop() {
	logg.Info("Stopping store monitor")
	m.scheduler.Stop()
}

// Probe performs a single check of the connection.
func (m *Monitor) Probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	previous := m.conn.State()
	if previous != Connected {
		if err := m.conn.Connect(ctx); err != nil {
			logg.Warnf("Store reconnect failed: %v", err)
			return
		}
		logg.Infof("Store reconnected (was %s)", previous)
		return
	}

	if err := m.conn.Check(ctx); err != nil {
		logg.Errorf("Store health check failed: %v", err)
	}
}
