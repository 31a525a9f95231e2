package notifier

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Notify sends one deal event to the operators chat.
func (b *TelegramBot) Notify(ctx context.Context, event entity.Event) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		FormatEvent(event),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText sends a plain text message.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

func FormatEvent(e entity.Event) string {
	var sb strings.Builder

	switch e.Type {
	case entity.EventMatched:
		fmt.Fprintf(&sb, "%s <b>Deal matched</b>\n\n", flagIcon(e.ProfitFlag))
		fmt.Fprintf(&sb, "🏠 <b>Deal:</b> %s\n", location(e))
		fmt.Fprintf(&sb, "🤝 <b>Buyer:</b> %s\n", html.EscapeString(e.BuyerName))
	case entity.EventStatusChanged:
		fmt.Fprintf(&sb, "%s <b>Status changed</b>\n\n", flagIcon(e.ProfitFlag))
		fmt.Fprintf(&sb, "🏠 <b>Deal:</b> %s\n", location(e))
		fmt.Fprintf(&sb, "🔁 <b>Status:</b> %s → %s\n", e.From, e.To)
	default:
		fmt.Fprintf(&sb, "<b>%s</b>\n\n🏠 <b>Deal:</b> %s\n", html.EscapeString(string(e.Type)), location(e))
	}

	if e.Spread != nil {
		fmt.Fprintf(&sb, "💰 <b>Spread:</b> $%.0f\n", *e.Spread)
	}
	fmt.Fprintf(&sb, "📊 <b>Priority:</b> %.0f\n", e.Score)
	fmt.Fprintf(&sb, "🆔 <code>%s</code>", html.EscapeString(e.DealID))

	return sb.String()
}

func location(e entity.Event) string {
	parts := make([]string, 0, 2) //nolint:mnd
	if e.Address != "" {
		parts = append(parts, e.Address)
	}
	if e.City != "" {
		parts = append(parts, e.City)
	}
	if len(parts) == 0 {
		return "—"
	}
	return html.EscapeString(strings.Join(parts, ", "))
}

func flagIcon(f value.ProfitFlag) string {
	switch f {
	case value.FlagGreen:
		return "🟢"
	case value.FlagOrange:
		return "🟠"
	case value.FlagRed:
		return "🔴"
	default:
		return "⚪"
	}
}
