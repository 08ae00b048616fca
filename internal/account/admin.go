package account

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tdorado/ligabot/internal/league"
	"github.com/tdorado/ligabot/internal/scoring"
)

var (
	// ErrTournamentExists indicates a duplicate tournament name under one
	// administrator.
	ErrTournamentExists = errors.New("tournament already exists")
	// ErrUnknownTournament indicates an operation against a tournament ID the
	// administrator does not own.
	ErrUnknownTournament = errors.New("unknown tournament")
)

// Administrator owns live tournaments by stable ID and, per tournament, the
// ordered list of enrolled users. The list order is the ranking order: after
// every refresh it is re-sorted ascending by recomputed points.
type Administrator struct {
	name        string
	mu          sync.Mutex
	tournaments map[string]*league.Tournament
	enrolled    map[string][]*User
}

func NewAdministrator(name string) *Administrator {
	return &Administrator{
		name:        name,
		tournaments: make(map[string]*league.Tournament),
		enrolled:    make(map[string][]*User),
	}
}

func (a *Administrator) Name() string {
	return a.name
}

func (a *Administrator) Role() Role {
	return RoleAdministrator
}

// AddTournament registers a fresh tournament with an empty enrolled list.
func (a *Administrator) AddTournament(name string) (*league.Tournament, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.tournaments {
		if t.Name() == name {
			return nil, fmt.Errorf("%w: %q", ErrTournamentExists, name)
		}
	}
	t := league.NewTournament(name)
	a.tournaments[t.ID()] = t
	a.enrolled[t.ID()] = nil
	return t, nil
}

// Tournament looks up an owned tournament by ID.
func (a *Administrator) Tournament(id string) (*league.Tournament, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tournaments[id]
	return t, ok
}

// TournamentByName looks up an owned tournament by display name.
func (a *Administrator) TournamentByName(name string) (*league.Tournament, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.tournaments {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Tournaments returns the owned tournaments sorted by name.
func (a *Administrator) Tournaments() []*league.Tournament {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sortedTournaments()
}

func (a *Administrator) sortedTournaments() []*league.Tournament {
	tournaments := make([]*league.Tournament, 0, len(a.tournaments))
	for _, t := range a.tournaments {
		tournaments = append(tournaments, t)
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].Name() < tournaments[j].Name() })
	return tournaments
}

// Enroll adds a user to a tournament and opens the user's funds ledger with
// the given budget and roster cap. Enrolling twice is a no-op.
func (a *Administrator) Enroll(tournamentID string, u *User, budget, rosterCap int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.tournaments[tournamentID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTournament, tournamentID)
	}
	for _, enrolled := range a.enrolled[tournamentID] {
		if enrolled == u {
			return nil
		}
	}
	u.Enroll(tournamentID, budget, rosterCap)
	a.enrolled[tournamentID] = append(a.enrolled[tournamentID], u)
	return nil
}

// Users returns the enrolled users of a tournament in ranking order.
func (a *Administrator) Users(tournamentID string) []*User {
	a.mu.Lock()
	defer a.mu.Unlock()
	users := a.enrolled[tournamentID]
	out := make([]*User, len(users))
	copy(out, users)
	return out
}

// Export runs visit under the registry lock, once per owned tournament in
// name order, with that tournament's users in ranking order. Refresh batches
// mutate player counters inside this same lock, so a snapshot taken through
// Export never captures a partially applied batch.
func (a *Administrator) Export(visit func(t *league.Tournament, users []*User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.sortedTournaments() {
		enrolled := a.enrolled[t.ID()]
		users := make([]*User, len(enrolled))
		copy(users, enrolled)
		visit(t, users)
	}
}

// ApplyFullRefresh applies an administrator batch keyed by tournament name,
// then recomputes every enrolled user's points from the unified player view
// and re-sorts the enrolled list. The lock spans apply, recompute and resort,
// so standings readers never observe fresh team stats next to stale user
// points. Batch slices naming tournaments this administrator does not own
// are skipped and counted.
func (a *Administrator) ApplyFullRefresh(data map[string]map[string]map[string]scoring.StatVector) (league.RefreshReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var report league.RefreshReport
	seen := make(map[string]bool, len(data))

	for _, t := range a.sortedTournaments() {
		slice, ok := data[t.Name()]
		if !ok {
			continue
		}
		seen[t.Name()] = true

		r, err := t.ApplyRefresh(slice)
		if err != nil {
			return report, err
		}
		report.Add(r)

		unified := t.UnifiedPlayers()
		users := a.enrolled[t.ID()]
		points := make(map[*User]int, len(users))
		for _, u := range users {
			points[u] = u.RecomputePoints(t.ID(), unified)
		}
		sort.SliceStable(users, func(i, j int) bool { return points[users[i]] < points[users[j]] })
	}

	for name := range data {
		if !seen[name] {
			report.SkippedTournaments++
		}
	}
	return report, nil
}

// RestoreEnrollment re-links a persisted user to a tournament without opening
// a fresh ledger, for the store codec. Append order must match the persisted
// ranking order.
func (a *Administrator) RestoreEnrollment(tournamentID string, u *User) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.tournaments[tournamentID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTournament, tournamentID)
	}
	a.enrolled[tournamentID] = append(a.enrolled[tournamentID], u)
	return nil
}

// RestoreTournament re-attaches a persisted tournament, for the store codec.
func (a *Administrator) RestoreTournament(t *league.Tournament) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tournaments[t.ID()] = t
	if _, ok := a.enrolled[t.ID()]; !ok {
		a.enrolled[t.ID()] = nil
	}
}
