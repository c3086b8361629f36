// Package scheduler runs the periodic snapshot task: every interval it
// checks the keyspace's dirty flag and saves only if something changed,
// the way the teacher's taskManager registers its periodic jobs with
// gocron.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/pkg/log"
)

// Scheduler owns the gocron instance backing the snapshot job.
type Scheduler struct {
	s gocron.Scheduler
}

// Start builds and starts a Scheduler that saves ks to snapshotPath
// every interval, skipping the write whenever the keyspace isn't dirty.
func Start(ks *keyspace.Keyspace, snapshotPath string, interval time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !ks.IsDirty() {
				return
			}
			if err := ks.Save(snapshotPath); err != nil {
				log.Errorf("scheduler: snapshot save failed: %s", err.Error())
				return
			}
			ks.ClearDirty()
			log.Debugf("scheduler: snapshot saved to %s", snapshotPath)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("registering snapshot job: %w", err)
	}

	s.Start()
	return &Scheduler{s: s}, nil
}

// Shutdown stops the scheduler's background goroutine.
func (sch *Scheduler) Shutdown() error {
	return sch.s.Shutdown()
}
