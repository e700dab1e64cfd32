package pipeline

// Event is a domain event published by the runner and consumed by handlers.
type Event interface{ Name() string }

// Event names used in the pipeline.
const (
	EventRunStarted        = "RunStarted"
	EventDocumentOptimized = "DocumentOptimized"
	EventDocumentSkipped   = "DocumentSkipped"
	EventDocumentFailed    = "DocumentFailed"
	EventDocumentRemoved   = "DocumentRemoved"
	EventIndexWritten      = "IndexWritten"
	EventRunCompleted      = "RunCompleted"
)

// RunStarted is published before discovery.
type RunStarted struct {
	RunID   string
	Trigger string
}

func (RunStarted) Name() string { return EventRunStarted }

// DocumentOptimized is published after an optimized document was written.
type DocumentOptimized struct {
	RunID             string
	Path              string
	Tokens            int
	FrontmatterStatus string
}

func (DocumentOptimized) Name() string { return EventDocumentOptimized }

// DocumentSkipped is published for unchanged documents in incremental runs.
type DocumentSkipped struct {
	RunID string
	Path  string
}

func (DocumentSkipped) Name() string { return EventDocumentSkipped }

// DocumentFailed is published when a single document could not be processed.
type DocumentFailed struct {
	RunID string
	Path  string
	Err   error
}

func (DocumentFailed) Name() string { return EventDocumentFailed }

// DocumentRemoved is published when the output of a vanished source is deleted.
type DocumentRemoved struct {
	RunID string
	Path  string
}

func (DocumentRemoved) Name() string { return EventDocumentRemoved }

// IndexWritten is published after the llms.txt index was rewritten.
type IndexWritten struct {
	Path    string
	Entries int
}

func (IndexWritten) Name() string { return EventIndexWritten }

// RunCompleted is published once a full run finished, including canceled runs.
type RunCompleted struct {
	Report *Report
}

func (RunCompleted) Name() string { return EventRunCompleted }
