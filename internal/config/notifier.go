package config

type Notifier struct {
	Enabled bool   `env:"NOTIFIER_ENABLED" envDefault:"false"`
	Token   string `env:"NOTIFIER_TOKEN" json:"-"`
	ChatID  int64  `env:"NOTIFIER_CHAT_ID"`
}

// Bot is the operators' Telegram console.
type Bot struct {
	Enabled bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token   string `env:"BOT_TOKEN" json:"-"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}
