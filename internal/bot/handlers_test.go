package bot

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLeagueService is a mock for the LeagueService interface.
type MockLeagueService struct {
	mock.Mock
}

func (m *MockLeagueService) Login(chatID int64, name, role string) (string, error) {
	args := m.Called(chatID, name, role)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) CreateTournament(chatID int64, name string) (string, error) {
	args := m.Called(chatID, name)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) CreateTeam(chatID int64, tournament, team string) (string, error) {
	args := m.Called(chatID, tournament, team)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) CreatePlayer(chatID int64, tournament, team, player string) (string, error) {
	args := m.Called(chatID, tournament, team, player)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Refresh(chatID int64, payload string) (string, error) {
	args := m.Called(chatID, payload)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Join(chatID int64, tournament string) (string, error) {
	args := m.Called(chatID, tournament)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Buy(chatID int64, tournament, player string) (string, error) {
	args := m.Called(chatID, tournament, player)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Sell(chatID int64, tournament, player string) (string, error) {
	args := m.Called(chatID, tournament, player)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Funds(chatID int64, tournament string) (string, error) {
	args := m.Called(chatID, tournament)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) MyTeam(chatID int64, tournament string) (string, error) {
	args := m.Called(chatID, tournament)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Players(tournament, team string) (string, error) {
	args := m.Called(tournament, team)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Standings(tournament string) (string, error) {
	args := m.Called(tournament)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) WhoHas(tournament, player string) (string, error) {
	args := m.Called(tournament, player)
	return args.String(0), args.Error(1)
}

func (m *MockLeagueService) Rules() string {
	args := m.Called()
	return args.String(0)
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	length := strings.Index(text, " ")
	if length < 0 {
		length = len(text)
	}
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: length},
			},
		},
	}
}

func TestHandleBuyDispatchesWithJoinedPlayerName(t *testing.T) {
	svc := new(MockLeagueService)
	svc.On("Buy", int64(42), "Primera", "Juan Roman Riquelme").Return("bought", nil)
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(42, "/buy Primera Juan Roman Riquelme"))

	assert.Equal(t, "bought", msg.Text)
	svc.AssertExpectations(t)
}

func TestHandleBuyMissingArgsShowsUsage(t *testing.T) {
	svc := new(MockLeagueService)
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(42, "/buy Primera"))

	assert.Contains(t, msg.Text, "Usage: /buy")
	svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleServiceErrorRendersMessage(t *testing.T) {
	svc := new(MockLeagueService)
	svc.On("Standings", "Primera").Return("", errors.New("tournament not found"))
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(42, "/standings Primera"))

	assert.Contains(t, msg.Text, "tournament not found")
}

func TestHandleRefreshPassesRawPayload(t *testing.T) {
	svc := new(MockLeagueService)
	payload := `{"Primera": {"Boca": {"Riquelme": {"normal_goals": 1}}}}`
	svc.On("Refresh", int64(7), payload).Return("done", nil)
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(7, "/refresh "+payload))

	assert.Equal(t, "done", msg.Text)
	svc.AssertExpectations(t)
}

func TestHandleUnknownCommand(t *testing.T) {
	svc := new(MockLeagueService)
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(42, "/transferwindow"))

	assert.Contains(t, msg.Text, "Unknown command")
}

func TestHandleRules(t *testing.T) {
	svc := new(MockLeagueService)
	svc.On("Rules").Return("rules text")
	h := NewHandler(svc)

	msg := h.HandleCommand(commandUpdate(42, "/rules"))

	assert.Equal(t, "rules text", msg.Text)
}
