package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tdorado/ligabot/internal/account"
	"github.com/tdorado/ligabot/internal/config"
	"github.com/tdorado/ligabot/internal/league"
	"github.com/tdorado/ligabot/internal/models"
	"github.com/tdorado/ligabot/internal/repository/memory"
	"github.com/tdorado/ligabot/internal/scoring"
	"github.com/tdorado/ligabot/internal/store"
)

var (
	ErrNotSignedIn        = errors.New("not signed in, use /login first")
	ErrNotAdministrator   = errors.New("command requires an administrator account")
	ErrNotUser            = errors.New("command requires a user account")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
)

// LeagueService fronts the whole league: account sign-in, season setup,
// statistic refreshes, buy/sell and the report surface. Methods return
// Markdown-formatted strings ready for the bot to send.
type LeagueService struct {
	repo   *memory.Repository
	store  *store.FileStore
	league config.League
	mu     sync.Mutex // one league-wide lock; the bot loop and the scheduler jobs run on separate goroutines
}

func NewLeagueService(repo *memory.Repository, fileStore *store.FileStore, leagueCfg config.League) *LeagueService {
	return &LeagueService{repo: repo, store: fileStore, league: leagueCfg}
}

// Login binds a chat to an account, creating it on first use. Role is only
// consulted at creation time; an existing name keeps its kind.
func (s *LeagueService) Login(chatID int64, name, role string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.repo.GetAccount(name)
	if !ok {
		switch strings.ToLower(role) {
		case "admin", "administrator":
			acc = account.NewAdministrator(name)
		case "user":
			acc = account.NewUser(name)
		default:
			return "", fmt.Errorf("unknown role %q, use admin or user", role)
		}
		s.repo.SaveAccount(acc)
		slog.Info("Account created", "name", name, "role", acc.Role())
	}

	s.repo.Bind(chatID, acc.Name())
	return fmt.Sprintf("Signed in as *%s* (%s).", acc.Name(), acc.Role()), nil
}

// CreateTournament registers a fresh tournament under the signed-in
// administrator.
func (s *LeagueService) CreateTournament(chatID int64, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, err := s.signedAdmin(chatID)
	if err != nil {
		return "", err
	}
	t, err := admin.AddTournament(name)
	if err != nil {
		return "", err
	}
	slog.Info("Tournament created", "tournament", name, "id", t.ID(), "admin", admin.Name())
	return fmt.Sprintf("Tournament *%s* created.", t.Name()), nil
}

// CreateTeam adds an empty team roster to a tournament.
func (s *LeagueService) CreateTeam(chatID int64, tournamentName, teamName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, err := s.signedAdmin(chatID)
	if err != nil {
		return "", err
	}
	t, ok := admin.TournamentByName(tournamentName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTournamentNotFound, tournamentName)
	}
	if _, err := t.AddTeam(teamName); err != nil {
		return "", err
	}
	return fmt.Sprintf("Team *%s* added to *%s*.", teamName, t.Name()), nil
}

// CreatePlayer adds a player record to a team.
func (s *LeagueService) CreatePlayer(chatID int64, tournamentName, teamName, playerName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, err := s.signedAdmin(chatID)
	if err != nil {
		return "", err
	}
	t, ok := admin.TournamentByName(tournamentName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTournamentNotFound, tournamentName)
	}
	team, ok := t.Team(teamName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTeamNotFound, teamName)
	}
	p, err := team.AddPlayer(playerName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Player *%s* added to %s (base price %d).", p.Name(), team.Name(), p.Price()), nil
}

// Refresh applies a nested tournament → team → player → stats JSON batch on
// behalf of the signed-in administrator, then recomputes points and
// re-ranks every affected tournament's users.
func (s *LeagueService) Refresh(chatID int64, payload string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, err := s.signedAdmin(chatID)
	if err != nil {
		return "", err
	}

	var batch map[string]map[string]map[string]scoring.StatLine
	if err := json.Unmarshal([]byte(payload), &batch); err != nil {
		return "", fmt.Errorf("parsing refresh batch: %w", err)
	}

	data := make(map[string]map[string]map[string]scoring.StatVector, len(batch))
	for tourName, teams := range batch {
		data[tourName] = make(map[string]map[string]scoring.StatVector, len(teams))
		for teamName, players := range teams {
			data[tourName][teamName] = make(map[string]scoring.StatVector, len(players))
			for playerName, line := range players {
				data[tourName][teamName][playerName] = line.Vector()
			}
		}
	}

	report, err := admin.ApplyFullRefresh(data)
	if err != nil {
		return "", fmt.Errorf("applying refresh: %w", err)
	}
	if report.Skipped() {
		slog.Warn("Refresh batch had unknown entries",
			"admin", admin.Name(),
			"skipped_tournaments", report.SkippedTournaments,
			"skipped_teams", report.SkippedTeams,
			"skipped_players", report.SkippedPlayers)
	}
	slog.Info("Refresh applied", "admin", admin.Name(), "players", report.AppliedPlayers)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔄 Refresh applied to %d players.\n", report.AppliedPlayers))
	if report.Skipped() {
		sb.WriteString(fmt.Sprintf("Skipped: %d tournaments, %d teams, %d players not in the ledger.",
			report.SkippedTournaments, report.SkippedTeams, report.SkippedPlayers))
	}
	return sb.String(), nil
}

// Join enrolls the signed-in user in a tournament with the configured budget
// and roster cap.
func (s *LeagueService) Join(chatID int64, tournamentName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.signedUser(chatID)
	if err != nil {
		return "", err
	}
	admin, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	if err := admin.Enroll(t.ID(), user, s.league.InitialBudget, s.league.RosterCap); err != nil {
		return "", err
	}
	return fmt.Sprintf("Joined *%s* with %d funds (roster cap %d).",
		t.Name(), user.AvailableFunds(t.ID()), s.league.RosterCap), nil
}

// Buy purchases a player at the current price for the signed-in user.
func (s *LeagueService) Buy(chatID int64, tournamentName, playerName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.signedUser(chatID)
	if err != nil {
		return "", err
	}
	_, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	p, err := resolvePlayer(t, playerName)
	if err != nil {
		return "", err
	}
	if err := user.Buy(t.ID(), p); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Bought *%s* for %d. Funds remaining: %d.",
		p.Name(), p.Price(), user.AvailableFunds(t.ID())), nil
}

// Sell removes a player from the signed-in user's roster, refunding the
// current price.
func (s *LeagueService) Sell(chatID int64, tournamentName, playerName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.signedUser(chatID)
	if err != nil {
		return "", err
	}
	_, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	p, err := resolvePlayer(t, playerName)
	if err != nil {
		return "", err
	}
	owned := user.Owns(t.ID(), p.Name())
	if err := user.Sell(t.ID(), p); err != nil {
		return "", err
	}
	if !owned {
		return fmt.Sprintf("*%s* was not on your roster; nothing sold.", p.Name()), nil
	}
	return fmt.Sprintf("💰 Sold *%s* for %d. Funds remaining: %d.",
		p.Name(), p.Price(), user.AvailableFunds(t.ID())), nil
}

// Funds reports the signed-in user's remaining budget for a tournament.
func (s *LeagueService) Funds(chatID int64, tournamentName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.signedUser(chatID)
	if err != nil {
		return "", err
	}
	_, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	if !user.Enrolled(t.ID()) {
		return "", account.ErrNotEnrolled
	}
	return fmt.Sprintf("Available funds in *%s*: %d", t.Name(), user.AvailableFunds(t.ID())), nil
}

// MyTeam reports the signed-in user's roster, points and funds.
func (s *LeagueService) MyTeam(chatID int64, tournamentName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.signedUser(chatID)
	if err != nil {
		return "", err
	}
	_, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	if !user.Enrolled(t.ID()) {
		return "", account.ErrNotEnrolled
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s — %s*\n\n", user.Name(), t.Name()))
	roster := user.Roster(t.ID())
	if len(roster) == 0 {
		sb.WriteString("No players yet. Use /buy to build your roster.\n")
	}
	rows := make([]models.PlayerInfo, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, models.PlayerInfo{
			Name:   p.Name(),
			Team:   teamOf(t, p),
			Points: p.Points(),
			Price:  p.Price(),
		})
	}
	writePlayerRows(&sb, rows)
	sb.WriteString(fmt.Sprintf("\nTotal points: %d\n", user.Points(t.ID())))
	sb.WriteString(fmt.Sprintf("Available funds: %d", user.AvailableFunds(t.ID())))
	return sb.String(), nil
}

// Players reports one real team's table with points and prices.
func (s *LeagueService) Players(tournamentName, teamName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	team, ok := t.Team(teamName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTeamNotFound, teamName)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽ *%s — %s*\n\n", t.Name(), team.Name()))
	writePlayerRows(&sb, playerRows(team.Name(), team.Players()))
	return sb.String(), nil
}

// Standings reports a tournament's user ranking, leader first.
func (s *LeagueService) Standings(tournamentName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}
	return formatStandings(summarize(admin, t), standingsEntries(admin, t)), nil
}

// StandingsDigest reports every tournament's standings, for the scheduled
// broadcast.
func (s *LeagueService) StandingsDigest() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sections []string
	for _, admin := range s.repo.Administrators() {
		for _, t := range admin.Tournaments() {
			sections = append(sections, formatStandings(summarize(admin, t), standingsEntries(admin, t)))
		}
	}
	if len(sections) == 0 {
		return "", ErrTournamentNotFound
	}
	return strings.Join(sections, "\n"), nil
}

// WhoHas finds a player by fuzzy name across a tournament and reports the
// users holding them.
func (s *LeagueService) WhoHas(tournamentName, playerName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin, t, err := s.findTournament(tournamentName)
	if err != nil {
		return "", err
	}

	result := searchPlayer(admin, t, playerName)
	if !result.Found {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s)\n", result.PlayerName, result.TeamName))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("%d pts, price %d\n", result.Points, result.Price))
	if len(result.Owners) == 0 {
		sb.WriteString("Free agent")
	} else {
		sb.WriteString("Owned by: " + strings.Join(result.Owners, ", "))
	}
	return sb.String(), nil
}

// Rules renders the weight table.
func (s *LeagueService) Rules() string {
	var sb strings.Builder
	sb.WriteString("📖 *Scoring rules*\n\n")
	for _, stat := range scoring.Stats() {
		ranking := scoring.RankingWeight(stat)
		verb := "adds"
		if ranking < 0 {
			verb = "subtracts"
		}
		sb.WriteString(fmt.Sprintf("%s %s %d points", statLabel(stat), verb, abs(ranking)))
		if centi := scoring.PriceWeightCenti(stat); centi > 0 {
			sb.WriteString(fmt.Sprintf(" and %d to the price", centi))
		}
		sb.WriteString(".\n")
	}
	sb.WriteString(fmt.Sprintf("\nBase price: %d.", scoring.BasePrice))
	return sb.String()
}

// SaveAccounts flushes the live accounts to the file store.
func (s *LeagueService) SaveAccounts() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(s.repo.Accounts()); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	slog.Info("Accounts saved", "path", s.store.Path())
	return nil
}

func (s *LeagueService) signedAdmin(chatID int64) (*account.Administrator, error) {
	acc, ok := s.repo.SignedAccount(chatID)
	if !ok {
		return nil, ErrNotSignedIn
	}
	admin, ok := acc.(*account.Administrator)
	if !ok {
		return nil, ErrNotAdministrator
	}
	return admin, nil
}

func (s *LeagueService) signedUser(chatID int64) (*account.User, error) {
	acc, ok := s.repo.SignedAccount(chatID)
	if !ok {
		return nil, ErrNotSignedIn
	}
	user, ok := acc.(*account.User)
	if !ok {
		return nil, ErrNotUser
	}
	return user, nil
}

// findTournament scans every administrator for a tournament by display name.
func (s *LeagueService) findTournament(name string) (*account.Administrator, *league.Tournament, error) {
	for _, admin := range s.repo.Administrators() {
		if t, ok := admin.TournamentByName(name); ok {
			return admin, t, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrTournamentNotFound, name)
}

func standingsEntries(admin *account.Administrator, t *league.Tournament) []models.StandingsEntry {
	users := admin.Users(t.ID())
	rows := make([]league.StandingsRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, league.StandingsRow{Name: u.Name(), Points: u.Points(t.ID())})
	}
	sorted := league.Standings(rows)

	// The engine keeps rankings ascending; readers expect the leader first,
	// so the projection walks the sorted rows from the end.
	entries := make([]models.StandingsEntry, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		entries = append(entries, models.StandingsEntry{
			Position: len(sorted) - i,
			UserName: sorted[i].Name,
			Points:   sorted[i].Points,
		})
	}
	return entries
}

func summarize(admin *account.Administrator, t *league.Tournament) models.TournamentSummary {
	return models.TournamentSummary{
		ID:    t.ID(),
		Name:  t.Name(),
		Teams: len(t.Teams()),
		Users: len(admin.Users(t.ID())),
	}
}

func playerRows(teamName string, players []*league.Player) []models.PlayerInfo {
	rows := make([]models.PlayerInfo, 0, len(players))
	for _, p := range players {
		rows = append(rows, models.PlayerInfo{
			Name:   p.Name(),
			Team:   teamName,
			Points: p.Points(),
			Price:  p.Price(),
		})
	}
	return rows
}

func writePlayerRows(sb *strings.Builder, rows []models.PlayerInfo) {
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("▫️ %s - %d pts (price %d)\n", r.Name, r.Points, r.Price))
	}
}

func formatStandings(sum models.TournamentSummary, entries []models.StandingsEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *%s Standings*\n", sum.Name))
	sb.WriteString(fmt.Sprintf("_%d teams, %d users_\n\n", sum.Teams, sum.Users))
	if len(entries) == 0 {
		sb.WriteString("No users enrolled yet.\n")
		return sb.String()
	}
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. *%s* - %d pts\n", e.Position, e.UserName, e.Points))
	}
	return sb.String()
}

func statLabel(s scoring.Stat) string {
	return strings.ReplaceAll(s.String(), "_", " ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
