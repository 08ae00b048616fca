package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	TelegramBot TelegramBot
	Store       Store
	League      League
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type Store struct {
	Path string `envconfig:"STORE_PATH" default:"data/accounts.json"`
}

type League struct {
	InitialBudget   int `envconfig:"INITIAL_BUDGET" default:"10000"`
	RosterCap       int `envconfig:"ROSTER_CAP" default:"11"`
	AutosaveMinutes int `envconfig:"AUTOSAVE_MINUTES" default:"15"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
