package entity

type PointerKind string

const (
	PointerDown  PointerKind = "down"
	PointerMove  PointerKind = "move"
	PointerUp    PointerKind = "up"
	PointerLeave PointerKind = "leave"
)

// PointerTarget tells which surface received the event: the mask paints,
// the viewport container pans.
type PointerTarget string

const (
	TargetMask     PointerTarget = "mask"
	TargetViewport PointerTarget = "viewport"
)

// PointerEvent unifies mouse and touch input. Coordinates are relative to
// the viewport container.
type PointerEvent struct {
	Kind      PointerKind   `json:"kind" binding:"required"`
	Target    PointerTarget `json:"target"`
	ClientX   float64       `json:"client_x"`
	ClientY   float64       `json:"client_y"`
	IsPrimary bool          `json:"is_primary"`
	Button    int           `json:"button"`
}

type ZoomDirection string

const (
	ZoomIn  ZoomDirection = "in"
	ZoomOut ZoomDirection = "out"
)

type ZoomRequest struct {
	PivotX    float64       `json:"pivot_x"`
	PivotY    float64       `json:"pivot_y"`
	DeltaY    float64       `json:"delta_y"`
	Direction ZoomDirection `json:"direction"`
}

type EditRequest struct {
	Prompt string `json:"prompt"`
}

type ToolRequest struct {
	Tool      Tool `json:"tool"`
	BrushSize int  `json:"brush_size"`
}
