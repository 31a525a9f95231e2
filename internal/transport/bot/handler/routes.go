package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"dealflow/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnResume, th.CommandEqual("resume"))
	adminGroup.HandleMessage(h.OnPause, th.CommandEqual("pause"))
	adminGroup.HandleMessage(h.OnRunOnce, th.CommandEqual("runonce"))
	adminGroup.HandleMessage(h.OnDeal, th.CommandEqual("deal"))
	adminGroup.HandleMessage(h.OnPipeline, th.CommandEqual("pipeline"))
	adminGroup.HandleMessage(h.OnListStatus, th.CommandEqual("liststatus"))
	adminGroup.HandleMessage(h.OnAddStatus, th.CommandEqual("addstatus"))
	adminGroup.HandleMessage(h.OnRemoveStatus, th.CommandEqual("removestatus"))
	adminGroup.HandleMessage(h.OnSetStatus, th.CommandEqual("setstatus"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnPipelineCallback, th.CallbackDataPrefix(pipelineCallbackPrefix))
}
