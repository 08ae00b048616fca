package service

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tdorado/ligabot/internal/account"
	"github.com/tdorado/ligabot/internal/config"
	"github.com/tdorado/ligabot/internal/repository/memory"
	"github.com/tdorado/ligabot/internal/store"
)

const (
	adminChat = int64(100)
	anaChat   = int64(200)
	brunoChat = int64(300)
)

func newService(t *testing.T) *LeagueService {
	return newServiceWithBudget(t, 10000)
}

func newServiceWithBudget(t *testing.T, budget int) *LeagueService {
	t.Helper()
	repo := memory.NewRepository()
	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	return NewLeagueService(repo, fileStore, config.League{InitialBudget: budget, RosterCap: 11})
}

// seedLeague signs in an admin with one tournament and two seeded players,
// plus two enrolled users.
func seedLeague(t *testing.T) *LeagueService {
	t.Helper()
	s := newService(t)

	steps := []struct {
		run  func() (string, error)
		name string
	}{
		{func() (string, error) { return s.Login(adminChat, "tdorado", "admin") }, "login admin"},
		{func() (string, error) { return s.CreateTournament(adminChat, "Primera") }, "create tournament"},
		{func() (string, error) { return s.CreateTeam(adminChat, "Primera", "Boca") }, "create team"},
		{func() (string, error) { return s.CreatePlayer(adminChat, "Primera", "Boca", "Riquelme") }, "create riquelme"},
		{func() (string, error) { return s.CreatePlayer(adminChat, "Primera", "Boca", "Palermo") }, "create palermo"},
		{func() (string, error) { return s.Login(anaChat, "ana", "user") }, "login ana"},
		{func() (string, error) { return s.Join(anaChat, "Primera") }, "ana joins"},
		{func() (string, error) { return s.Login(brunoChat, "bruno", "user") }, "login bruno"},
		{func() (string, error) { return s.Join(brunoChat, "Primera") }, "bruno joins"},
	}
	for _, step := range steps {
		if _, err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
	}
	return s
}

const refreshBatch = `{
	"Primera": {
		"Boca": {
			"Riquelme": {"normal_goals": 2, "yellow_cards": 1},
			"Palermo": {"normal_goals": 1}
		}
	}
}`

func TestRefreshBuySellFlow(t *testing.T) {
	s := seedLeague(t)

	reply, err := s.Refresh(adminChat, refreshBatch)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(reply, "2 players") {
		t.Fatalf("refresh reply = %q, want applied count of 2", reply)
	}

	reply, err = s.Buy(anaChat, "Primera", "Riquelme")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if !strings.Contains(reply, "1070") || !strings.Contains(reply, "8930") {
		t.Fatalf("buy reply = %q, want price 1070 and funds 8930", reply)
	}

	reply, err = s.Sell(anaChat, "Primera", "Riquelme")
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !strings.Contains(reply, "10000") {
		t.Fatalf("sell reply = %q, want funds restored to 10000", reply)
	}
}

func TestBuySurfacesInsufficientFunds(t *testing.T) {
	s := newServiceWithBudget(t, 1000)
	setup := []struct {
		run  func() (string, error)
		name string
	}{
		{func() (string, error) { return s.Login(adminChat, "tdorado", "admin") }, "login admin"},
		{func() (string, error) { return s.CreateTournament(adminChat, "Primera") }, "create tournament"},
		{func() (string, error) { return s.CreateTeam(adminChat, "Primera", "Boca") }, "create team"},
		{func() (string, error) { return s.CreatePlayer(adminChat, "Primera", "Boca", "Riquelme") }, "create player"},
		{func() (string, error) { return s.Refresh(adminChat, refreshBatch) }, "refresh"},
		{func() (string, error) { return s.Login(anaChat, "ana", "user") }, "login ana"},
		{func() (string, error) { return s.Join(anaChat, "Primera") }, "join"},
	}
	for _, step := range setup {
		if _, err := step.run(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
	}

	// Riquelme costs 1070 after the refresh; the budget is 1000.
	_, err := s.Buy(anaChat, "Primera", "Riquelme")
	if !errors.Is(err, account.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := s.Funds(anaChat, "Primera"); err != nil {
		t.Fatalf("funds: %v", err)
	}
}

func TestBuyResolvesFuzzyPlayerName(t *testing.T) {
	s := seedLeague(t)

	reply, err := s.Buy(anaChat, "Primera", "riquelm")
	if err != nil {
		t.Fatalf("fuzzy buy: %v", err)
	}
	if !strings.Contains(reply, "Riquelme") {
		t.Fatalf("reply = %q, want resolved name Riquelme", reply)
	}

	if _, err := s.Buy(anaChat, "Primera", "Maradona"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestStandingsLeaderFirst(t *testing.T) {
	s := seedLeague(t)
	if _, err := s.Refresh(adminChat, refreshBatch); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := s.Buy(anaChat, "Primera", "Riquelme"); err != nil { // 35 pts
		t.Fatalf("ana buy: %v", err)
	}
	if _, err := s.Buy(brunoChat, "Primera", "Palermo"); err != nil { // 20 pts
		t.Fatalf("bruno buy: %v", err)
	}

	reply, err := s.Standings("Primera")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if !strings.Contains(reply, "1. *ana* - 35 pts") {
		t.Fatalf("standings = %q, want ana leading with 35 pts", reply)
	}
	if !strings.Contains(reply, "2. *bruno* - 20 pts") {
		t.Fatalf("standings = %q, want bruno second with 20 pts", reply)
	}
}

func TestScheduledReadsDuringRefresh(t *testing.T) {
	s := seedLeague(t)
	if _, err := s.Buy(anaChat, "Primera", "Riquelme"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	// The digest and autosave run on the scheduler goroutine while the bot
	// loop applies refreshes; both must serialize on the service.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if _, err := s.Refresh(adminChat, refreshBatch); err != nil {
				t.Errorf("refresh: %v", err)
				return
			}
		}
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if _, err := s.StandingsDigest(); err != nil {
			t.Fatalf("digest: %v", err)
		}
		if err := s.SaveAccounts(); err != nil {
			t.Fatalf("autosave: %v", err)
		}
	}

	reply, err := s.Standings("Primera")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if !strings.Contains(reply, "1. *ana* - 35 pts") {
		t.Fatalf("standings = %q, want ana at 35 pts", reply)
	}
}

func TestWhoHasReportsOwners(t *testing.T) {
	s := seedLeague(t)
	if _, err := s.Buy(anaChat, "Primera", "Riquelme"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	reply, err := s.WhoHas("Primera", "Riquelme")
	if err != nil {
		t.Fatalf("whohas: %v", err)
	}
	if !strings.Contains(reply, "Boca") || !strings.Contains(reply, "ana") {
		t.Fatalf("reply = %q, want team Boca and owner ana", reply)
	}

	reply, err = s.WhoHas("Primera", "Palermo")
	if err != nil {
		t.Fatalf("whohas free agent: %v", err)
	}
	if !strings.Contains(reply, "Free agent") {
		t.Fatalf("reply = %q, want free agent", reply)
	}
}

func TestCommandsRequireProperRole(t *testing.T) {
	s := seedLeague(t)

	if _, err := s.CreateTournament(anaChat, "Segunda"); !errors.Is(err, ErrNotAdministrator) {
		t.Fatalf("expected ErrNotAdministrator, got %v", err)
	}
	if _, err := s.Buy(adminChat, "Primera", "Riquelme"); !errors.Is(err, ErrNotUser) {
		t.Fatalf("expected ErrNotUser, got %v", err)
	}
	if _, err := s.Refresh(int64(999), "{}"); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestSaveAccountsPersistsLeague(t *testing.T) {
	s := seedLeague(t)
	if _, err := s.Refresh(adminChat, refreshBatch); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := s.Buy(anaChat, "Primera", "Riquelme"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	if err := s.SaveAccounts(); err != nil {
		t.Fatalf("save: %v", err)
	}

	accounts, err := s.store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(accounts) != 3 {
		t.Fatalf("persisted accounts = %d, want 3", len(accounts))
	}
}

func TestRulesShowsWeightTable(t *testing.T) {
	s := newService(t)
	rules := s.Rules()
	for _, want := range []string{"normal goals adds 20", "red cards subtracts 10", "Base price: 1000"} {
		if !strings.Contains(rules, want) {
			t.Fatalf("rules = %q, missing %q", rules, want)
		}
	}
}
