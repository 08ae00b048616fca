package league

import "sort"

// StandingsRow is one entry in a ranking projection.
type StandingsRow struct {
	Name   string
	Points int
}

// Standings returns a copy of rows sorted ascending by points. The sort is
// stable, so ties keep their input order. Ascending mirrors how enrolled
// users are kept ordered after a refresh.
func Standings(rows []StandingsRow) []StandingsRow {
	sorted := make([]StandingsRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Points < sorted[j].Points })
	return sorted
}
