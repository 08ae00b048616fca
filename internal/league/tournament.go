package league

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tdorado/ligabot/internal/scoring"
)

// ErrTeamExists indicates a duplicate team name within one tournament.
var ErrTeamExists = errors.New("team already exists")

// RefreshReport accounts for what a refresh batch actually touched. Skips are
// not errors, but they are observable for diagnostics.
type RefreshReport struct {
	AppliedPlayers     int
	SkippedTournaments int
	SkippedTeams       int
	SkippedPlayers     int
}

// Add folds another report into this one.
func (r *RefreshReport) Add(other RefreshReport) {
	r.AppliedPlayers += other.AppliedPlayers
	r.SkippedTournaments += other.SkippedTournaments
	r.SkippedTeams += other.SkippedTeams
	r.SkippedPlayers += other.SkippedPlayers
}

// Skipped reports whether any batch entry was dropped.
func (r RefreshReport) Skipped() bool {
	return r.SkippedTournaments > 0 || r.SkippedTeams > 0 || r.SkippedPlayers > 0
}

// Tournament owns the real teams of one competition. Each tournament carries
// a stable ID distinct from its display name, so registries hold one live
// instance per ID instead of re-resolving value copies by name.
type Tournament struct {
	id    string
	name  string
	teams map[string]*Team
}

func NewTournament(name string) *Tournament {
	return &Tournament{
		id:    uuid.NewString(),
		name:  name,
		teams: make(map[string]*Team),
	}
}

// RestoreTournament rebuilds a tournament with a known ID, for the store codec.
func RestoreTournament(id, name string) *Tournament {
	return &Tournament{id: id, name: name, teams: make(map[string]*Team)}
}

func (t *Tournament) ID() string {
	return t.id
}

func (t *Tournament) Name() string {
	return t.name
}

// AddTeam creates an empty team roster.
func (t *Tournament) AddTeam(name string) (*Team, error) {
	if _, ok := t.teams[name]; ok {
		return nil, fmt.Errorf("%w: %q in tournament %q", ErrTeamExists, name, t.name)
	}
	team := NewTeam(name)
	t.teams[name] = team
	return team, nil
}

// Team looks up a team roster by exact name.
func (t *Tournament) Team(name string) (*Team, bool) {
	team, ok := t.teams[name]
	return team, ok
}

func (t *Tournament) HasTeam(name string) bool {
	_, ok := t.teams[name]
	return ok
}

// Teams returns the rosters sorted by team name.
func (t *Tournament) Teams() []*Team {
	teams := make([]*Team, 0, len(t.teams))
	for _, team := range t.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].name < teams[j].name })
	return teams
}

// ApplyRefresh applies a statistics batch to every matching team and player.
// The whole batch is validated first; a negative counter anywhere fails the
// call and nothing is applied. Teams and players named in the batch but
// absent from the ledger are skipped, never created.
func (t *Tournament) ApplyRefresh(data map[string]map[string]scoring.StatVector) (RefreshReport, error) {
	for teamName, players := range data {
		for playerName, stats := range players {
			if err := stats.Validate(); err != nil {
				return RefreshReport{}, fmt.Errorf("refresh %s/%s/%s: %w", t.name, teamName, playerName, err)
			}
		}
	}

	var report RefreshReport
	for teamName, players := range data {
		team, ok := t.teams[teamName]
		if !ok {
			report.SkippedTeams++
			report.SkippedPlayers += len(players)
			continue
		}
		for playerName, stats := range players {
			if team.ApplyStatUpdate(playerName, stats) {
				report.AppliedPlayers++
			} else {
				report.SkippedPlayers++
			}
		}
	}
	return report, nil
}

// UnifiedPlayers flattens every team's roster into one name-to-player view.
// Player names are expected unique tournament-wide; on a collision the player
// from the later team in name order shadows the earlier one, so the result is
// deterministic.
func (t *Tournament) UnifiedPlayers() map[string]*Player {
	unified := make(map[string]*Player)
	for _, team := range t.Teams() {
		for name, p := range team.players {
			unified[name] = p
		}
	}
	return unified
}
