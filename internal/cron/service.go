// Package cron schedules recurring housekeeping work. The only job
// today is SQLite maintenance for the task store.
package cron

import (
	"fmt"
	"log"
	"time"

	rcron "github.com/robfig/cron/v3"
)

// Service runs named jobs on cron schedules with seconds granularity.
type Service struct {
	cron *rcron.Cron
}

func NewService() *Service {
	return &Service{cron: rcron.New(rcron.WithSeconds())}
}

// AddJob registers fn under the given cron spec. Job errors are logged,
// not propagated; a failing run never stops the schedule.
func (s *Service) AddJob(name, spec string, fn func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		started := time.Now()
		if err := fn(); err != nil {
			log.Printf("[cron] job %s error: %v", name, err)
			return
		}
		log.Printf("[cron] job %s ok (%s)", name, time.Since(started).Round(time.Millisecond))
	})
	if err != nil {
		return fmt.Errorf("register job %s (%s): %w", name, spec, err)
	}
	return nil
}

func (s *Service) Start() {
	s.cron.Start()
	log.Printf("[cron] started with %d jobs", len(s.cron.Entries()))
}

func (s *Service) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.Printf("[cron] stop timeout waiting for running jobs")
	}
	log.Printf("[cron] stopped")
}
