package clockvid

import "time"

// EventType identifies an event delivered to an EventHandler.
type EventType string

// Event types.
const (
	EventTypeStageProgress   EventType = "stage_progress"
	EventTypeRenderProgress  EventType = "render_progress"
	EventTypeRenderComplete  EventType = "render_complete"
	EventTypeOverlayComplete EventType = "overlay_complete"
	EventTypeWarning         EventType = "warning"
	EventTypeError           EventType = "error"
	EventTypeBatchComplete   EventType = "batch_complete"
)

// Event is implemented by every event type.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// EventHandler receives events. Returned errors are ignored; a handler must
// not block for long since it runs on the pipeline goroutine.
type EventHandler func(Event) error

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType { return e.EventType }

// Timestamp returns when the event was created.
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// NewTimestamp returns the current time in UTC.
func NewTimestamp() time.Time {
	return time.Now().UTC()
}

// StageProgressEvent marks a pipeline stage transition.
type StageProgressEvent struct {
	BaseEvent
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// RenderProgressEvent reports timer rendering progress.
type RenderProgressEvent struct {
	BaseEvent
	CurrentFrame uint64  `json:"current_frame"`
	TotalFrames  uint64  `json:"total_frames"`
	Percent      float32 `json:"percent"`
	FPS          float32 `json:"fps"`
	ETASeconds   int64   `json:"eta_seconds"`
	Label        string  `json:"label"`
}

// RenderCompleteEvent is sent when a timer video is finished.
type RenderCompleteEvent struct {
	BaseEvent
	OutputFile      string  `json:"output_file"`
	Frames          uint64  `json:"frames"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// OverlayCompleteEvent is sent when an input's overlay has been written.
type OverlayCompleteEvent struct {
	BaseEvent
	InputFile   string `json:"input_file"`
	OutputFile  string `json:"output_file"`
	OutputSize  uint64 `json:"output_size"`
	TotalFrames uint64 `json:"total_frames"`
	HasAudio    bool   `json:"has_audio"`
}

// WarningEvent carries a non-fatal message.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent describes a failed stage.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// BatchCompleteEvent summarises a batch.
type BatchCompleteEvent struct {
	BaseEvent
	SuccessfulCount int    `json:"successful_count"`
	TotalFiles      int    `json:"total_files"`
	TotalFrames     uint64 `json:"total_frames"`
}
