package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// LeagueService is the command surface the handler dispatches to.
type LeagueService interface {
	Login(chatID int64, name, role string) (string, error)
	CreateTournament(chatID int64, name string) (string, error)
	CreateTeam(chatID int64, tournament, team string) (string, error)
	CreatePlayer(chatID int64, tournament, team, player string) (string, error)
	Refresh(chatID int64, payload string) (string, error)
	Join(chatID int64, tournament string) (string, error)
	Buy(chatID int64, tournament, player string) (string, error)
	Sell(chatID int64, tournament, player string) (string, error)
	Funds(chatID int64, tournament string) (string, error)
	MyTeam(chatID int64, tournament string) (string, error)
	Players(tournament, team string) (string, error)
	Standings(tournament string) (string, error)
	WhoHas(tournament, player string) (string, error)
	Rules() string
}

type Handler struct {
	leagueService LeagueService
}

func NewHandler(leagueService LeagueService) *Handler {
	return &Handler{leagueService: leagueService}
}

const helpText = `Available commands:
/login <name> <admin|user> - Sign in, creating the account on first use
/rules - Show the scoring rules
/standings <tournament> - Current user ranking
/players <tournament> <team> - Team table with points and prices
/whohas <tournament> <player> - Find a player and their owners

User commands:
/join <tournament> - Enroll with the starting budget
/buy <tournament> <player> - Buy a player at the current price
/sell <tournament> <player> - Sell a player at the current price
/funds <tournament> - Remaining budget
/myteam <tournament> - Your roster and points

Administrator commands:
/newtournament <name> - Create a tournament
/newteam <tournament> <team> - Add a team
/newplayer <tournament> <team> <player> - Add a player
/refresh <json> - Apply a statistics batch`

func (h *Handler) HandleCommand(update tgbotapi.Update) tgbotapi.MessageConfig {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.Fields(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to LigaBot! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "rules":
		msg.Text = h.leagueService.Rules()
	case "login":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.Login(chatID, args[0], args[1])
		}, "Usage: /login <name> <admin|user>")
	case "newtournament":
		h.reply(&msg, args, 1, func() (string, error) {
			return h.leagueService.CreateTournament(chatID, strings.Join(args, " "))
		}, "Usage: /newtournament <name>")
	case "newteam":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.CreateTeam(chatID, args[0], strings.Join(args[1:], " "))
		}, "Usage: /newteam <tournament> <team>")
	case "newplayer":
		h.reply(&msg, args, 3, func() (string, error) {
			return h.leagueService.CreatePlayer(chatID, args[0], args[1], strings.Join(args[2:], " "))
		}, "Usage: /newplayer <tournament> <team> <player>")
	case "refresh":
		payload := update.Message.CommandArguments()
		if strings.TrimSpace(payload) == "" {
			msg.Text = "Usage: /refresh <json batch>"
			return msg
		}
		h.reply(&msg, args, 0, func() (string, error) {
			return h.leagueService.Refresh(chatID, payload)
		}, "")
	case "join":
		h.reply(&msg, args, 1, func() (string, error) {
			return h.leagueService.Join(chatID, strings.Join(args, " "))
		}, "Usage: /join <tournament>")
	case "buy":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.Buy(chatID, args[0], strings.Join(args[1:], " "))
		}, "Usage: /buy <tournament> <player>")
	case "sell":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.Sell(chatID, args[0], strings.Join(args[1:], " "))
		}, "Usage: /sell <tournament> <player>")
	case "funds":
		h.reply(&msg, args, 1, func() (string, error) {
			return h.leagueService.Funds(chatID, args[0])
		}, "Usage: /funds <tournament>")
	case "myteam":
		h.reply(&msg, args, 1, func() (string, error) {
			return h.leagueService.MyTeam(chatID, args[0])
		}, "Usage: /myteam <tournament>")
	case "players":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.Players(args[0], strings.Join(args[1:], " "))
		}, "Usage: /players <tournament> <team>")
	case "standings":
		h.reply(&msg, args, 1, func() (string, error) {
			return h.leagueService.Standings(args[0])
		}, "Usage: /standings <tournament>")
	case "whohas":
		h.reply(&msg, args, 2, func() (string, error) {
			return h.leagueService.WhoHas(args[0], strings.Join(args[1:], " "))
		}, "Usage: /whohas <tournament> <player>")
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

// reply runs a service call when enough arguments were given, rendering
// either the report or the failure as the message text.
func (h *Handler) reply(msg *tgbotapi.MessageConfig, args []string, minArgs int, run func() (string, error), usage string) {
	if len(args) < minArgs {
		msg.Text = usage
		return
	}
	text, err := run()
	if err != nil {
		msg.Text = fmt.Sprintf("⚠️ %v", err)
		return
	}
	msg.Text = text
}
