package handler

const (
	StartMessage = `🏠 <b>Dealflow</b>

/status — processor state
/resume — start the processor
/pause — stop the processor
/runonce — process one batch now
/deal <code>ID</code> — deal card
/pipeline — deals by priority
/liststatus — polled statuses
/addstatus <code>STATUS</code>
/removestatus <code>STATUS</code>
/setstatus <code>STATUS</code> ...`

	PipelinePageSize = 10

	PipelineHeaderTemplate = "📋 <b>Pipeline</b> (page %d/%d)\n\n"
	PipelineItemTemplate   = "%s <code>%s</code> %s · %s · %.0f\n"
	PipelineEmpty          = "📋 Pipeline is empty"
	PipelineError          = "❌ Failed to load deals"

	pipelineCallbackPrefix = "pipeline_page"
)
