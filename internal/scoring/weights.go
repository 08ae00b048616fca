package scoring

// BasePrice is the minimum price of any player.
const BasePrice = 1000

// Weight carries the scoring configuration for one stat kind. Ranking is the
// signed points-per-unit multiplier. PriceCenti is the price-per-unit
// multiplier already scaled by 100, so price arithmetic stays integral; a
// zero PriceCenti marks the stat as not price-eligible.
type Weight struct {
	Ranking    int
	PriceCenti int
}

var weightTable = [NumStats]Weight{
	NormalGoals:     {Ranking: 20, PriceCenti: 35},
	PenaltyGoals:    {Ranking: 10, PriceCenti: 10},
	PenaltySaves:    {Ranking: 20, PriceCenti: 20},
	GoalkeeperGoals: {Ranking: 60, PriceCenti: 35},
	YellowCards:     {Ranking: -5, PriceCenti: 0},
	RedCards:        {Ranking: -10, PriceCenti: 0},
	GoalsAgainst:    {Ranking: -20, PriceCenti: 0},
}

// RankingWeight returns the points-per-unit multiplier for a stat kind.
func RankingWeight(s Stat) int {
	return weightTable[s].Ranking
}

// PriceWeightCenti returns the ×100-scaled price multiplier for a stat kind.
// Zero means the stat does not contribute to price.
func PriceWeightCenti(s Stat) int {
	return weightTable[s].PriceCenti
}
