package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// LeagueService is the slice of the service the scheduled jobs need.
type LeagueService interface {
	StandingsDigest() (string, error)
	SaveAccounts() error
}

type Scheduler struct {
	s             gocron.Scheduler
	leagueService LeagueService
	sendMessage   func(string) error
	autosaveEvery time.Duration
}

func NewScheduler(leagueService LeagueService, sendMessage func(string) error, autosaveEvery time.Duration) (*Scheduler, error) {
	location, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		slog.Error("Failed to load location", "error", err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		leagueService: leagueService,
		sendMessage:   sendMessage,
		autosaveEvery: autosaveEvery,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Standings digest - Monday 9:00, after the weekend matches settle
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
		gocron.NewTask(s.sendStandings),
	)
	if err != nil {
		return fmt.Errorf("failed to create standings job: %w", err)
	}

	// Account autosave
	_, err = s.s.NewJob(
		gocron.DurationJob(s.autosaveEvery),
		gocron.NewTask(s.autosave),
	)
	if err != nil {
		return fmt.Errorf("failed to create autosave job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) sendStandings() {
	digest, err := s.leagueService.StandingsDigest()
	if err != nil {
		slog.Error("Failed to build standings digest", "error", err)
		return
	}
	s.sendMessage(digest)
}

func (s *Scheduler) autosave() {
	if err := s.leagueService.SaveAccounts(); err != nil {
		slog.Error("Failed to autosave accounts", "error", err)
	}
}
