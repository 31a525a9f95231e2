package handler

import (
	"cmp"
	"fmt"
	"html"
	"log/slog"
	"slices"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/value"
	"dealflow/pkg/contextx"
	"dealflow/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const pipelineLimit = 500

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, StartMessage)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	state := "🔴 paused"
	if h.processor.IsRunning() {
		state = "🟢 running"
	}

	text := fmt.Sprintf("📊 <b>Processor</b>\n\n<b>State:</b> %s\n<b>Statuses:</b> %s",
		state,
		joinStatuses(h.processor.Statuses()),
	)

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

func (h *Handler) OnResume(ctx *th.Context, msg telego.Message) error {
	if h.processor.IsRunning() {
		return h.send(ctx, msg.Chat.ID, "Processor is already running")
	}

	if err := h.processor.Start(h.baseCtx); err != nil {
		return h.send(ctx, msg.Chat.ID, fmt.Sprintf("Failed to start processor: %v", err))
	}

	logger(ctx).Info("processor resumed from bot", slog.Int64("user-id", msg.From.ID))

	return h.send(ctx, msg.Chat.ID, "Processor started")
}

func (h *Handler) OnPause(ctx *th.Context, msg telego.Message) error {
	if !h.processor.IsRunning() {
		return h.send(ctx, msg.Chat.ID, "Processor is not running")
	}

	h.processor.Stop()

	logger(ctx).Info("processor paused from bot", slog.Int64("user-id", msg.From.ID))

	return h.send(ctx, msg.Chat.ID, "Processor stopped")
}

func (h *Handler) OnRunOnce(ctx *th.Context, msg telego.Message) error {
	res := h.processor.RunOnce(ctx)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(
		"✅ <b>Batch done</b>\n\nProcessed: %d\nMatched: %d\nFailed: %d\nSkipped: %d",
		res.Processed, res.Matched, res.Failed, res.Skipped,
	))
}

func (h *Handler) OnDeal(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Usage: /deal <code>ID</code>")
	}

	d, err := h.svc.GetDeal(ctx, args[1])
	if err != nil {
		logger(ctx).Error("svc.GetDeal", slog.String("deal-id", args[1]), logx.Error(err))
		return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf("⚠️ Deal <code>%s</code> not found", html.EscapeString(args[1])))
	}

	return h.sendHTML(ctx, msg.Chat.ID, DealCard(d))
}

func (h *Handler) OnPipeline(ctx *th.Context, msg telego.Message) error {
	text, keyboard, err := h.pipelinePage(ctx, 1)
	if err != nil {
		logger(ctx).Error("pipelinePage", logx.Error(err))
		return h.send(ctx, msg.Chat.ID, PipelineError)
	}

	_, err = ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:      telego.ChatID{ID: msg.Chat.ID},
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

func (h *Handler) OnPipelineCallback(ctx *th.Context, query telego.CallbackQuery) error {
	var page int
	if _, err := fmt.Sscanf(query.Data, pipelineCallbackPrefix+":%d", &page); err != nil || page < 1 {
		page = 1
	}

	text, keyboard, err := h.pipelinePage(ctx, page)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(PipelineError).WithShowAlert())
		return err
	}

	// Telegram rejects an edit that changes nothing; the page is still shown.
	if _, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger(ctx).Debug("EditMessageText", logx.Error(err))
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))
}

func (h *Handler) pipelinePage(ctx *th.Context, page int) (string, *telego.InlineKeyboardMarkup, error) {
	deals, err := h.svc.ListDeals(ctx, h.processor.Statuses(), pipelineLimit)
	if err != nil {
		return "", nil, fmt.Errorf("svc.ListDeals: %w", err)
	}

	if len(deals) == 0 {
		return PipelineEmpty, nil, nil
	}

	SortByPriority(deals)

	totalPages := (len(deals) + PipelinePageSize - 1) / PipelinePageSize
	page = min(max(page, 1), totalPages)

	start := (page - 1) * PipelinePageSize
	end := min(start+PipelinePageSize, len(deals))

	var sb strings.Builder
	fmt.Fprintf(&sb, PipelineHeaderTemplate, page, totalPages)

	for _, d := range deals[start:end] {
		fmt.Fprintf(&sb, PipelineItemTemplate,
			flagIcon(d.ProfitFlag),
			d.ID,
			html.EscapeString(cmp.Or(d.Address, d.City)),
			d.Status,
			d.PriorityScore,
		)
	}

	return sb.String(), createPaginationKeyboard(page, totalPages), nil
}

// SortByPriority orders deals by score, highest first, ties by id.
func SortByPriority(deals []entity.Deal) {
	slices.SortStableFunc(deals, func(a, b entity.Deal) int {
		if c := cmp.Compare(b.PriorityScore, a.PriorityScore); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func createPaginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s:%d", pipelineCallbackPrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s:%d", pipelineCallbackPrefix, page+1)))
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(buttons...),
	)
}

func (h *Handler) OnListStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, "📋 <b>Polled statuses:</b> "+joinStatuses(h.processor.Statuses()))
}

// OnAddStatus usage: /addstatus NEGOTIATING
func (h *Handler) OnAddStatus(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Usage: /addstatus <code>STATUS</code>")
	}

	s, err := value.ParseStatus(strings.Join(args[1:], " "))
	if err != nil || s.IsTerminal() {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Unknown or terminal status")
	}

	h.processor.AddStatus(s)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf("✅ <code>%s</code> added", s))
}

func (h *Handler) OnRemoveStatus(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)
	if len(args) < 2 {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Usage: /removestatus <code>STATUS</code>")
	}

	s, err := value.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, "❌ Unknown status")
	}

	h.processor.RemoveStatus(s)

	return h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf("✅ <code>%s</code> removed", s))
}

// OnSetStatus replaces the polled set; without arguments restores defaults.
// Usage: /setstatus NEW SCORED CONTACTED
func (h *Handler) OnSetStatus(ctx *th.Context, msg telego.Message) error {
	statuses, invalid := ParseStatusArgs(strings.Fields(msg.Text)[1:])

	h.processor.SetStatuses(statuses)

	text := "✅ Polled statuses: " + joinStatuses(h.processor.Statuses())
	if len(invalid) > 0 {
		text += fmt.Sprintf("\n\n⚠️ Skipped: %s", html.EscapeString(strings.Join(invalid, ", ")))
	}

	return h.sendHTML(ctx, msg.Chat.ID, text)
}

// ParseStatusArgs parses non-terminal statuses and returns the rejected
// arguments separately.
func ParseStatusArgs(args []string) ([]value.Status, []string) {
	var (
		statuses []value.Status
		invalid  []string
	)

	for _, arg := range args {
		s, err := value.ParseStatus(arg)
		if err != nil || s.IsTerminal() {
			invalid = append(invalid, arg)
			continue
		}
		if !slices.Contains(statuses, s) {
			statuses = append(statuses, s)
		}
	}

	return statuses, invalid
}

func DealCard(d *entity.Deal) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s <b>%s</b>\n", flagIcon(d.ProfitFlag), html.EscapeString(cmp.Or(d.Address, d.City)))
	fmt.Fprintf(&sb, "<code>%s</code> · %s\n\n", d.ID, d.Status)
	fmt.Fprintf(&sb, "<b>Asking:</b> %s\n", money(d.AskingPrice))
	fmt.Fprintf(&sb, "<b>ARV:</b> %s\n", money(d.ARV))
	fmt.Fprintf(&sb, "<b>Repairs:</b> %s\n", money(d.Repairs))
	fmt.Fprintf(&sb, "<b>MAO:</b> %s\n", money(d.MAO))
	fmt.Fprintf(&sb, "<b>Spread:</b> %s\n", money(d.Spread))
	fmt.Fprintf(&sb, "<b>Confidence:</b> %d\n", d.Confidence)
	fmt.Fprintf(&sb, "<b>Priority:</b> %.0f (%s)", d.PriorityScore, html.EscapeString(d.PriorityReason))

	if d.ValuationNote != "" {
		fmt.Fprintf(&sb, "\n<i>%s</i>", html.EscapeString(d.ValuationNote))
	}

	return sb.String()
}

func money(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("$%.0f", *v)
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

func joinStatuses(statuses []value.Status) string {
	if len(statuses) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})
	return err
}

func (h *Handler) send(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: chatID},
		Text:   text,
	})
	return err
}
