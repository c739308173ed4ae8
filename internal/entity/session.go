package entity

import "time"

type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
)

func (t Tool) Valid() bool { return t == ToolBrush || t == ToolEraser }

type SessionStatus string

const (
	StatusAwaitingUpload SessionStatus = "awaiting_upload"
	StatusIdle           SessionStatus = "idle"
	StatusEditing        SessionStatus = "editing"
	StatusError          SessionStatus = "error"
)

const (
	DefaultBrushSize = 40
	MinBrushSize     = 5
	MaxBrushSize     = 100
)

// ClampBrushSize keeps size inside the brush slider range.
func ClampBrushSize(size int) int {
	if size < MinBrushSize {
		return MinBrushSize
	}
	if size > MaxBrushSize {
		return MaxBrushSize
	}
	return size
}

type ViewportState struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Snapshot is an immutable copy of the observable session state.
type Snapshot struct {
	ID             string        `json:"id"`
	Status         SessionStatus `json:"status"`
	Busy           bool          `json:"busy"`
	Error          string        `json:"error,omitempty"`
	Prompt         string        `json:"prompt"`
	Image          *ImageMeta    `json:"image,omitempty"`
	HistoryLength  int           `json:"history_length"`
	HistoryIndex   int           `json:"history_index"`
	CanUndo        bool          `json:"can_undo"`
	CanRedo        bool          `json:"can_redo"`
	CanStartOver   bool          `json:"can_start_over"`
	CanDownload    bool          `json:"can_download"`
	Viewport       ViewportState `json:"viewport"`
	Tool           Tool          `json:"tool"`
	BrushSize      int           `json:"brush_size"`
	MaskHasContent bool          `json:"mask_has_content"`
	Version        uint64        `json:"version"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type CreateSessionResponse struct {
	ID       string    `json:"id"`
	Snapshot *Snapshot `json:"snapshot"`
}
