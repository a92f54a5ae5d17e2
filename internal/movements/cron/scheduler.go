package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aeromov/movements-backend/internal/movements/service"
)

// Scheduler owns the nightly stats job. The Firestore collection is the
// source of truth; the job rebuilds the Postgres aggregates from it.
type Scheduler struct {
	svc  *service.MovementService
	cron *cron.Cron
}

func NewScheduler(svc *service.MovementService) *Scheduler {
	return &Scheduler{
		svc:  svc,
		cron: cron.New(cron.WithSeconds()),
	}
}

// Start registers the nightly job (12:00 AM) and starts the cron loop.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("0 0 0 * * *", func() {
		s.runNightly()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (stats recompute nightly at 12:00AM)")
	s.cron.Start()
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runNightly() {
	log.Println("Nightly stats recompute started...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	days, err := s.svc.RecomputeDailyStats(ctx)
	if err != nil {
		log.Printf("Stats recompute failed: %v", err)
		return
	}

	log.Printf("Stats recompute completed: %d days at %s", days, time.Now().Format(time.RFC1123))
}
