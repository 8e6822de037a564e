package shape

import "encoding/json"

// Kind discriminates the shape union. Geometry, resize and update-field
// logic switch exhaustively on it; an unrecognized kind is inert (never
// hit-tested, never persisted).
type Kind string

const (
	KindRect          Kind = "rect"
	KindCircle        Kind = "circle"
	KindLine          Kind = "line"
	KindArrow         Kind = "arrow"
	KindDiamond       Kind = "diamond"
	KindEllipse       Kind = "ellipse"
	KindParallelogram Kind = "parallelogram"
	KindEraser        Kind = "eraser"
)

// Coordinate is a point on the canvas, also used as an eraser stroke sample.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is one geometric primitive, or an eraser action record. Only the
// fields belonging to Kind are meaningful; the rest stay zero. ID is the
// durable identifier assigned by the relay once the shape has been
// persisted; nil means the shape is local-only and must not be the target
// of an update message.
type Shape struct {
	ID   *int64
	Kind Kind

	// rect, parallelogram
	X, Y, Width, Height float64

	// circle, diamond, ellipse
	CenterX, CenterY float64

	// circle
	Radius float64

	// ellipse
	RadiusX, RadiusY float64

	// line, arrow
	StartX, StartY, EndX, EndY float64

	// parallelogram
	Skew float64

	// eraser
	Points []Coordinate
}

// WithID returns a copy of s carrying the given durable id.
func (s Shape) WithID(id int64) Shape {
	s.ID = &id
	return s
}

// wireShape is the flat JSON representation shared with the relay and the
// persistence layer. Kind-specific fields are emitted selectively by
// MarshalJSON so a circle never carries rect fields on the wire.
type wireShape struct {
	ID      *int64       `json:"id,omitempty"`
	Type    Kind         `json:"type"`
	X       *float64     `json:"x,omitempty"`
	Y       *float64     `json:"y,omitempty"`
	Width   *float64     `json:"width,omitempty"`
	Height  *float64     `json:"height,omitempty"`
	CenterX *float64     `json:"centerX,omitempty"`
	CenterY *float64     `json:"centerY,omitempty"`
	Radius  *float64     `json:"radius,omitempty"`
	RadiusX *float64     `json:"radiusX,omitempty"`
	RadiusY *float64     `json:"radiusY,omitempty"`
	StartX  *float64     `json:"startX,omitempty"`
	StartY  *float64     `json:"startY,omitempty"`
	EndX    *float64     `json:"endX,omitempty"`
	EndY    *float64     `json:"endY,omitempty"`
	Skew    *float64     `json:"skew,omitempty"`
	Points  []Coordinate `json:"points,omitempty"`
}

func f(v float64) *float64 { return &v }

func (s Shape) MarshalJSON() ([]byte, error) {
	w := wireShape{ID: s.ID, Type: s.Kind}
	switch s.Kind {
	case KindRect:
		w.X, w.Y, w.Width, w.Height = f(s.X), f(s.Y), f(s.Width), f(s.Height)
	case KindCircle:
		w.CenterX, w.CenterY, w.Radius = f(s.CenterX), f(s.CenterY), f(s.Radius)
	case KindLine, KindArrow:
		w.StartX, w.StartY, w.EndX, w.EndY = f(s.StartX), f(s.StartY), f(s.EndX), f(s.EndY)
	case KindDiamond:
		w.CenterX, w.CenterY, w.Width, w.Height = f(s.CenterX), f(s.CenterY), f(s.Width), f(s.Height)
	case KindEllipse:
		w.CenterX, w.CenterY, w.RadiusX, w.RadiusY = f(s.CenterX), f(s.CenterY), f(s.RadiusX), f(s.RadiusY)
	case KindParallelogram:
		w.X, w.Y, w.Width, w.Height, w.Skew = f(s.X), f(s.Y), f(s.Width), f(s.Height), f(s.Skew)
	case KindEraser:
		w.Points = s.Points
	}
	return json.Marshal(w)
}

func (s *Shape) UnmarshalJSON(data []byte) error {
	var w wireShape
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Shape{ID: w.ID, Kind: w.Type, Points: w.Points}
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	out.X, out.Y = deref(w.X), deref(w.Y)
	out.Width, out.Height = deref(w.Width), deref(w.Height)
	out.CenterX, out.CenterY = deref(w.CenterX), deref(w.CenterY)
	out.Radius = deref(w.Radius)
	out.RadiusX, out.RadiusY = deref(w.RadiusX), deref(w.RadiusY)
	out.StartX, out.StartY = deref(w.StartX), deref(w.StartY)
	out.EndX, out.EndY = deref(w.EndX), deref(w.EndY)
	out.Skew = deref(w.Skew)
	*s = out
	return nil
}
