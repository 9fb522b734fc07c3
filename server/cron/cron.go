package cron

import (
	"time"

	"github.com/go-co-op/gocron"
)

// NewScheduler returns a scheduler running in timeZone, falling back to UTC
// when the zone cannot be loaded.
func NewScheduler(timeZone string) *gocron.Scheduler {
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		location = time.UTC
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.TagsUnique()

	return scheduler
}
