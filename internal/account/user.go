package account

import (
	"errors"
	"sort"
	"sync"

	"github.com/tdorado/ligabot/internal/league"
)

// ErrInsufficientFunds covers every recoverable buy failure: not enough
// funds, the player already owned, or a full roster. The caller surfaces it
// as a user-facing message; no state changes on this path.
var ErrInsufficientFunds = errors.New("insufficient funds or roster unavailable")

// ErrNotEnrolled indicates a ledger operation for a tournament the user never
// joined.
var ErrNotEnrolled = errors.New("not enrolled in tournament")

// ledger is one user's budget and holdings for one tournament. points is the
// cached roster total: buys and sells adjust it, a refresh recompute replaces
// it, and standings reads return it without touching player counters. Player
// counters mutate only under the owning registry's lock, so the cache is what
// keeps concurrent standings and snapshot readers off a half-applied batch.
type ledger struct {
	funds  int
	cap    int // 0 means uncapped
	points int
	roster map[string]*league.Player
}

// User is a fantasy participant. Per tournament it owns a set of canonical
// player references and an integer funds balance.
type User struct {
	name    string
	mu      sync.Mutex
	ledgers map[string]*ledger // keyed by tournament ID
}

func NewUser(name string) *User {
	return &User{name: name, ledgers: make(map[string]*ledger)}
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Role() Role {
	return RoleUser
}

// Enroll opens a funds ledger for a tournament. Re-enrolling is a no-op so a
// repeated join cannot reset funds.
func (u *User) Enroll(tournamentID string, budget, rosterCap int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.ledgers[tournamentID]; ok {
		return
	}
	u.ledgers[tournamentID] = &ledger{
		funds:  budget,
		cap:    rosterCap,
		roster: make(map[string]*league.Player),
	}
}

// Enrolled reports whether the user has a ledger for the tournament.
func (u *User) Enrolled(tournamentID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.ledgers[tournamentID]
	return ok
}

// Buy debits the player's current price and adds the player to the roster.
// The check and the mutation run under the user's lock, so two buys cannot
// interleave on the same ledger.
func (u *User) Buy(tournamentID string, p *league.Player) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	l, ok := u.ledgers[tournamentID]
	if !ok {
		return ErrNotEnrolled
	}
	if _, owned := l.roster[p.Name()]; owned {
		return ErrInsufficientFunds
	}
	if l.cap > 0 && len(l.roster) >= l.cap {
		return ErrInsufficientFunds
	}
	price := p.Price()
	if l.funds < price {
		return ErrInsufficientFunds
	}

	l.funds -= price
	l.points += p.Points()
	l.roster[p.Name()] = p
	return nil
}

// Sell removes the player from the roster and refunds the player's current
// price, not the purchase price; price drift between buy and sell is the
// user's gain or loss. Selling a player not on the roster is a no-op.
func (u *User) Sell(tournamentID string, p *league.Player) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	l, ok := u.ledgers[tournamentID]
	if !ok {
		return ErrNotEnrolled
	}
	if _, owned := l.roster[p.Name()]; !owned {
		return nil
	}
	delete(l.roster, p.Name())
	l.funds += p.Price()
	l.points -= p.Points()
	return nil
}

// AvailableFunds returns the remaining budget for a tournament.
func (u *User) AvailableFunds(tournamentID string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if l, ok := u.ledgers[tournamentID]; ok {
		return l.funds
	}
	return 0
}

// Points returns the cached roster total for a tournament. It never reads
// player counters, so it is safe to call while a refresh batch is mid-apply;
// the value is either the pre-batch or the post-recompute total, never a mix.
func (u *User) Points(tournamentID string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.ledgers[tournamentID]
	if !ok {
		return 0
	}
	return l.points
}

// RecomputePoints sums the points of owned player names that still appear in
// the unified tournament view and replaces the cached total. The registry
// calls it under its own lock after the whole batch is applied, so the ranking
// sort and later Points reads see values consistent with the batch.
func (u *User) RecomputePoints(tournamentID string, unified map[string]*league.Player) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.ledgers[tournamentID]
	if !ok {
		return 0
	}
	total := 0
	for name := range l.roster {
		if p, ok := unified[name]; ok {
			total += p.Points()
		}
	}
	l.points = total
	return total
}

// Owns reports roster membership by player name.
func (u *User) Owns(tournamentID, playerName string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.ledgers[tournamentID]
	if !ok {
		return false
	}
	_, owned := l.roster[playerName]
	return owned
}

// Roster returns the owned players sorted by name.
func (u *User) Roster(tournamentID string) []*league.Player {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.ledgers[tournamentID]
	if !ok {
		return nil
	}
	players := make([]*league.Player, 0, len(l.roster))
	for _, p := range l.roster {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name() < players[j].Name() })
	return players
}

// RosterCap returns the configured roster limit for a tournament ledger.
func (u *User) RosterCap(tournamentID string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if l, ok := u.ledgers[tournamentID]; ok {
		return l.cap
	}
	return 0
}

// LedgerTournaments returns the tournament IDs the user is enrolled in,
// sorted for deterministic iteration.
func (u *User) LedgerTournaments() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	ids := make([]string, 0, len(u.ledgers))
	for id := range u.ledgers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RestoreLedger rebuilds a persisted ledger, for the store codec.
func (u *User) RestoreLedger(tournamentID string, funds, rosterCap int, roster []*league.Player) {
	u.mu.Lock()
	defer u.mu.Unlock()
	l := &ledger{funds: funds, cap: rosterCap, roster: make(map[string]*league.Player, len(roster))}
	for _, p := range roster {
		l.roster[p.Name()] = p
		l.points += p.Points()
	}
	u.ledgers[tournamentID] = l
}
