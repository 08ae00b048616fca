package league

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tdorado/ligabot/internal/scoring"
)

// ErrPlayerExists indicates a duplicate player name within one team.
var ErrPlayerExists = errors.New("player already exists")

// Team is a real team's roster, keyed by unique player name.
type Team struct {
	name    string
	players map[string]*Player
}

func NewTeam(name string) *Team {
	return &Team{name: name, players: make(map[string]*Player)}
}

func (t *Team) Name() string {
	return t.name
}

// AddPlayer creates the canonical record for a player name.
func (t *Team) AddPlayer(name string) (*Player, error) {
	if _, ok := t.players[name]; ok {
		return nil, fmt.Errorf("%w: %q in team %q", ErrPlayerExists, name, t.name)
	}
	p := NewPlayer(name)
	t.players[name] = p
	return p, nil
}

// FindPlayer reports the player by name. Absence is a normal outcome during
// refresh of teams whose real roster changed.
func (t *Team) FindPlayer(name string) (*Player, bool) {
	p, ok := t.players[name]
	return p, ok
}

// Players returns the roster sorted by player name.
func (t *Team) Players() []*Player {
	players := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].name < players[j].name })
	return players
}

// ApplyStatUpdate refreshes one player. It reports false when the player is
// not on the roster; the entry is skipped and the rest of the batch proceeds.
func (t *Team) ApplyStatUpdate(playerName string, stats scoring.StatVector) bool {
	p, ok := t.players[playerName]
	if !ok {
		return false
	}
	p.Refresh(stats)
	return true
}
