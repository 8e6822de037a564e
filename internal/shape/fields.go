package shape

// UpdateFields returns the geometric fields carried by realtime and durable
// update messages for this shape's kind. Eraser actions and unknown kinds
// have no updatable fields.
func (s Shape) UpdateFields() map[string]float64 {
	switch s.Kind {
	case KindRect:
		return map[string]float64{"x": s.X, "y": s.Y, "width": s.Width, "height": s.Height}
	case KindCircle:
		return map[string]float64{"centerX": s.CenterX, "centerY": s.CenterY, "radius": s.Radius}
	case KindLine, KindArrow:
		return map[string]float64{"startX": s.StartX, "startY": s.StartY, "endX": s.EndX, "endY": s.EndY}
	case KindDiamond:
		return map[string]float64{"centerX": s.CenterX, "centerY": s.CenterY, "width": s.Width, "height": s.Height}
	case KindEllipse:
		return map[string]float64{"centerX": s.CenterX, "centerY": s.CenterY, "radiusX": s.RadiusX, "radiusY": s.RadiusY}
	case KindParallelogram:
		return map[string]float64{"x": s.X, "y": s.Y, "width": s.Width, "height": s.Height, "skew": s.Skew}
	default:
		return map[string]float64{}
	}
}

// ApplyUpdate overwrites only the fields present in the update, restricted
// to the fields valid for the shape's kind. Applying the same update twice
// is idempotent.
func (s *Shape) ApplyUpdate(fields map[string]float64) {
	set := func(key string, dst *float64) {
		if v, ok := fields[key]; ok {
			*dst = v
		}
	}
	switch s.Kind {
	case KindRect:
		set("x", &s.X)
		set("y", &s.Y)
		set("width", &s.Width)
		set("height", &s.Height)
	case KindCircle:
		set("centerX", &s.CenterX)
		set("centerY", &s.CenterY)
		set("radius", &s.Radius)
	case KindLine, KindArrow:
		set("startX", &s.StartX)
		set("startY", &s.StartY)
		set("endX", &s.EndX)
		set("endY", &s.EndY)
	case KindDiamond:
		set("centerX", &s.CenterX)
		set("centerY", &s.CenterY)
		set("width", &s.Width)
		set("height", &s.Height)
	case KindEllipse:
		set("centerX", &s.CenterX)
		set("centerY", &s.CenterY)
		set("radiusX", &s.RadiusX)
		set("radiusY", &s.RadiusY)
	case KindParallelogram:
		set("x", &s.X)
		set("y", &s.Y)
		set("width", &s.Width)
		set("height", &s.Height)
		set("skew", &s.Skew)
	}
}

// Equal reports structural equality over the fields of the shape's kind,
// ignoring the durable id. Used to reconcile a server-assigned id with the
// matching id-less local shape.
func (s Shape) Equal(other Shape) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case KindRect:
		return s.X == other.X && s.Y == other.Y && s.Width == other.Width && s.Height == other.Height
	case KindCircle:
		return s.CenterX == other.CenterX && s.CenterY == other.CenterY && s.Radius == other.Radius
	case KindLine, KindArrow:
		return s.StartX == other.StartX && s.StartY == other.StartY && s.EndX == other.EndX && s.EndY == other.EndY
	case KindDiamond:
		return s.CenterX == other.CenterX && s.CenterY == other.CenterY && s.Width == other.Width && s.Height == other.Height
	case KindEllipse:
		return s.CenterX == other.CenterX && s.CenterY == other.CenterY && s.RadiusX == other.RadiusX && s.RadiusY == other.RadiusY
	case KindParallelogram:
		return s.X == other.X && s.Y == other.Y && s.Width == other.Width && s.Height == other.Height && s.Skew == other.Skew
	default:
		return false
	}
}

// Translate moves the shape by (dx, dy) in place.
func (s *Shape) Translate(dx, dy float64) {
	switch s.Kind {
	case KindRect, KindParallelogram:
		s.X += dx
		s.Y += dy
	case KindCircle, KindDiamond, KindEllipse:
		s.CenterX += dx
		s.CenterY += dy
	case KindLine, KindArrow:
		s.StartX += dx
		s.StartY += dy
		s.EndX += dx
		s.EndY += dy
	}
}

// Representative returns the coordinate the relay uses for coarse
// server-side erase matching: position for rect/parallelogram, center for
// circle/diamond/ellipse, start point for line/arrow.
func (s Shape) Representative() (Coordinate, bool) {
	switch s.Kind {
	case KindRect, KindParallelogram:
		return Coordinate{X: s.X, Y: s.Y}, true
	case KindCircle, KindDiamond, KindEllipse:
		return Coordinate{X: s.CenterX, Y: s.CenterY}, true
	case KindLine, KindArrow:
		return Coordinate{X: s.StartX, Y: s.StartY}, true
	default:
		return Coordinate{}, false
	}
}
