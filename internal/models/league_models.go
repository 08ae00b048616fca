package models

// PlayerInfo is one row of a team or roster table.
type PlayerInfo struct {
	Name   string
	Team   string
	Points int
	Price  int
}

// StandingsEntry is one user's row in a tournament ranking, Position 1 being
// the leader.
type StandingsEntry struct {
	Position int
	UserName string
	Points   int
}

// WhoHasResult describes a fuzzy player lookup across a whole tournament.
type WhoHasResult struct {
	Found      bool
	PlayerName string
	TeamName   string
	Points     int
	Price      int
	Owners     []string
}

// TournamentSummary is the header line of a tournament report.
type TournamentSummary struct {
	ID    string
	Name  string
	Teams int
	Users int
}
