package store

import (
	"fmt"
	"sort"

	"github.com/tdorado/ligabot/internal/account"
	"github.com/tdorado/ligabot/internal/league"
	"github.com/tdorado/ligabot/internal/scoring"
)

type snapshotV1 struct {
	Version        int             `json:"version"`
	Administrators []adminSnapshot `json:"administrators"`
	Users          []userSnapshot  `json:"users"`
}

type adminSnapshot struct {
	Name        string               `json:"name"`
	Tournaments []tournamentSnapshot `json:"tournaments"`
}

type tournamentSnapshot struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Teams    []teamSnapshot `json:"teams"`
	Enrolled []string       `json:"enrolled"` // user names in ranking order
}

type teamSnapshot struct {
	Name    string           `json:"name"`
	Players []playerSnapshot `json:"players"`
}

type playerSnapshot struct {
	Name  string           `json:"name"`
	Stats scoring.StatLine `json:"stats"`
}

type userSnapshot struct {
	Name    string           `json:"name"`
	Ledgers []ledgerSnapshot `json:"ledgers"`
}

type ledgerSnapshot struct {
	TournamentID string   `json:"tournament_id"`
	Funds        int      `json:"funds"`
	RosterCap    int      `json:"roster_cap"`
	Roster       []string `json:"roster"` // player names
}

func encodeSnapshot(accounts []account.Account) (snapshotV1, error) {
	snap := snapshotV1{Version: snapshotVersion}

	for _, acc := range accounts {
		switch a := acc.(type) {
		case *account.Administrator:
			snap.Administrators = append(snap.Administrators, encodeAdmin(a))
		case *account.User:
			snap.Users = append(snap.Users, encodeUser(a))
		default:
			return snapshotV1{}, fmt.Errorf("unknown account type %T for %q", acc, acc.Name())
		}
	}

	sort.Slice(snap.Administrators, func(i, j int) bool { return snap.Administrators[i].Name < snap.Administrators[j].Name })
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].Name < snap.Users[j].Name })
	return snap, nil
}

// encodeAdmin reads tournaments through Export so the snapshot is taken
// inside the registry lock and never sees a refresh batch halfway through.
func encodeAdmin(a *account.Administrator) adminSnapshot {
	out := adminSnapshot{Name: a.Name()}
	a.Export(func(t *league.Tournament, users []*account.User) {
		ts := tournamentSnapshot{ID: t.ID(), Name: t.Name()}
		for _, team := range t.Teams() {
			teamSnap := teamSnapshot{Name: team.Name()}
			for _, p := range team.Players() {
				teamSnap.Players = append(teamSnap.Players, playerSnapshot{
					Name:  p.Name(),
					Stats: p.Stats().Line(),
				})
			}
			ts.Teams = append(ts.Teams, teamSnap)
		}
		for _, u := range users {
			ts.Enrolled = append(ts.Enrolled, u.Name())
		}
		out.Tournaments = append(out.Tournaments, ts)
	})
	return out
}

func encodeUser(u *account.User) userSnapshot {
	out := userSnapshot{Name: u.Name()}
	for _, id := range u.LedgerTournaments() {
		ls := ledgerSnapshot{
			TournamentID: id,
			Funds:        u.AvailableFunds(id),
			RosterCap:    u.RosterCap(id),
		}
		for _, p := range u.Roster(id) {
			ls.Roster = append(ls.Roster, p.Name())
		}
		out.Ledgers = append(out.Ledgers, ls)
	}
	return out
}

func decodeSnapshot(snap snapshotV1) ([]account.Account, error) {
	// Rebuild tournaments first so user rosters can re-link to the canonical
	// player instances.
	players := make(map[string]map[string]*league.Player) // tournament ID -> player name
	tournaments := make(map[string]*account.Administrator)

	accounts := make([]account.Account, 0, len(snap.Administrators)+len(snap.Users))
	for _, as := range snap.Administrators {
		admin := account.NewAdministrator(as.Name)
		for _, ts := range as.Tournaments {
			tour := league.RestoreTournament(ts.ID, ts.Name)
			unified := make(map[string]*league.Player)
			for _, teamSnap := range ts.Teams {
				team, err := tour.AddTeam(teamSnap.Name)
				if err != nil {
					return nil, fmt.Errorf("restoring team %q: %w", teamSnap.Name, err)
				}
				for _, ps := range teamSnap.Players {
					p, err := team.AddPlayer(ps.Name)
					if err != nil {
						return nil, fmt.Errorf("restoring player %q: %w", ps.Name, err)
					}
					p.Refresh(ps.Stats.Vector())
					unified[ps.Name] = p
				}
			}
			admin.RestoreTournament(tour)
			players[ts.ID] = unified
			tournaments[ts.ID] = admin
		}
		accounts = append(accounts, admin)
	}

	users := make(map[string]*account.User, len(snap.Users))
	for _, us := range snap.Users {
		u := account.NewUser(us.Name)
		for _, ls := range us.Ledgers {
			roster := make([]*league.Player, 0, len(ls.Roster))
			for _, name := range ls.Roster {
				p, ok := players[ls.TournamentID][name]
				if !ok {
					return nil, fmt.Errorf("user %q owns unknown player %q in tournament %s", us.Name, name, ls.TournamentID)
				}
				roster = append(roster, p)
			}
			u.RestoreLedger(ls.TournamentID, ls.Funds, ls.RosterCap, roster)
		}
		users[us.Name] = u
		accounts = append(accounts, u)
	}

	// Enrollment lists are restored last, preserving the persisted ranking
	// order.
	for _, as := range snap.Administrators {
		for _, ts := range as.Tournaments {
			admin := tournaments[ts.ID]
			for _, name := range ts.Enrolled {
				u, ok := users[name]
				if !ok {
					return nil, fmt.Errorf("tournament %q enrolls unknown user %q", ts.Name, name)
				}
				if err := admin.RestoreEnrollment(ts.ID, u); err != nil {
					return nil, fmt.Errorf("restoring enrollment for %q: %w", name, err)
				}
			}
		}
	}

	return accounts, nil
}
