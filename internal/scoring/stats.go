package scoring

import (
	"errors"
	"fmt"
)

// Stat identifies one of the tracked per-player counters.
type Stat int

const (
	NormalGoals Stat = iota
	PenaltyGoals
	PenaltySaves
	GoalkeeperGoals
	YellowCards
	RedCards
	GoalsAgainst

	// NumStats is the number of tracked stat kinds.
	NumStats
)

var statNames = [NumStats]string{
	NormalGoals:     "normal_goals",
	PenaltyGoals:    "penalty_goals",
	PenaltySaves:    "saves",
	GoalkeeperGoals: "goalkeeper_goals",
	YellowCards:     "yellow_cards",
	RedCards:        "red_cards",
	GoalsAgainst:    "goals_against",
}

// ErrNegativeStat indicates a stat counter below zero in a refresh batch.
var ErrNegativeStat = errors.New("stat value must not be negative")

// ErrUnknownStat indicates a stat name outside the tracked set.
var ErrUnknownStat = errors.New("unknown stat")

func (s Stat) String() string {
	if s < 0 || s >= NumStats {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// ParseStat maps a stat name back to its Stat value.
func ParseStat(name string) (Stat, error) {
	for s, n := range statNames {
		if n == name {
			return Stat(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStat, name)
}

// Stats returns every tracked stat kind in declaration order.
func Stats() []Stat {
	all := make([]Stat, NumStats)
	for i := range all {
		all[i] = Stat(i)
	}
	return all
}

// StatVector holds the cumulative counters for one player in the current
// tournament state. There is no historical log; each slot is the latest total.
type StatVector [NumStats]int

// Get returns the counter for one stat kind.
func (v StatVector) Get(s Stat) int {
	return v[s]
}

// Set overwrites the counter for one stat kind.
func (v *StatVector) Set(s Stat, value int) {
	v[s] = value
}

// Replace overwrites every counter with the values from other. Refresh
// batches carry absolute totals, not deltas, so re-applying the same batch
// is a no-op.
func (v *StatVector) Replace(other StatVector) {
	*v = other
}

// Validate rejects vectors with negative counters. Refresh callers check the
// whole batch before applying any of it.
func (v StatVector) Validate() error {
	for s, value := range v {
		if value < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeStat, Stat(s), value)
		}
	}
	return nil
}

// Points is the signed weighted sum of all counters.
func (v StatVector) Points() int {
	total := 0
	for s, value := range v {
		total += value * weightTable[s].Ranking
	}
	return total
}

// PriceContribution is the price delta over the base price, from the
// price-eligible counters only.
func (v StatVector) PriceContribution() int {
	total := 0
	for s, value := range v {
		total += value * weightTable[s].PriceCenti
	}
	return total
}

// Price is the full player price for a stat vector.
func Price(v StatVector) int {
	return BasePrice + v.PriceContribution()
}

// StatLine is the wire shape of one player's counters in a refresh batch.
type StatLine struct {
	NormalGoals     int `json:"normal_goals"`
	PenaltyGoals    int `json:"penalty_goals"`
	PenaltySaves    int `json:"saves"`
	GoalkeeperGoals int `json:"goalkeeper_goals"`
	YellowCards     int `json:"yellow_cards"`
	RedCards        int `json:"red_cards"`
	GoalsAgainst    int `json:"goals_against"`
}

// Line converts a StatVector to its wire shape.
func (v StatVector) Line() StatLine {
	return StatLine{
		NormalGoals:     v[NormalGoals],
		PenaltyGoals:    v[PenaltyGoals],
		PenaltySaves:    v[PenaltySaves],
		GoalkeeperGoals: v[GoalkeeperGoals],
		YellowCards:     v[YellowCards],
		RedCards:        v[RedCards],
		GoalsAgainst:    v[GoalsAgainst],
	}
}

// Vector converts a wire stat line to a StatVector.
func (l StatLine) Vector() StatVector {
	var v StatVector
	v[NormalGoals] = l.NormalGoals
	v[PenaltyGoals] = l.PenaltyGoals
	v[PenaltySaves] = l.PenaltySaves
	v[GoalkeeperGoals] = l.GoalkeeperGoals
	v[YellowCards] = l.YellowCards
	v[RedCards] = l.RedCards
	v[GoalsAgainst] = l.GoalsAgainst
	return v
}
