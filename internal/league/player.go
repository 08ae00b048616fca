package league

import "github.com/tdorado/ligabot/internal/scoring"

// Player models a real footballer inside a real tournament. Identity is the
// name; one canonical instance exists per name within a team, so roster
// references and ledger lookups always observe the same stats.
type Player struct {
	name  string
	stats scoring.StatVector
	price int
}

// NewPlayer creates a player with empty stats at the base price.
func NewPlayer(name string) *Player {
	return &Player{name: name, price: scoring.BasePrice}
}

func (p *Player) Name() string {
	return p.name
}

// Stats returns a copy of the current counters.
func (p *Player) Stats() scoring.StatVector {
	return p.stats
}

// Points is the weighted fantasy score for the current counters.
func (p *Player) Points() int {
	return p.stats.Points()
}

// Price is the current buy/sell price. It never drops below the base price.
func (p *Player) Price() int {
	return p.price
}

// Refresh replaces the counters with a new absolute snapshot and recomputes
// the price. Ledgers read the new price from the next buy or sell on;
// completed purchases are not retroactively repriced.
func (p *Player) Refresh(stats scoring.StatVector) {
	p.stats.Replace(stats)
	p.price = scoring.Price(p.stats)
}
