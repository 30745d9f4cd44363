// Package geom holds the screen-space primitives shared by every layout.
package geom

type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Shrink insets the rectangle on each side, clamping to zero size.
func (r Rect) Shrink(in Insets) Rect {
	r.X += in.Left
	r.Y += in.Top
	r.W -= in.Left + in.Right
	r.H -= in.Top + in.Bottom
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// Scale multiplies origin and size by an output scale factor.
func (r Rect) Scale(f float64) Rect {
	if f == 1 || f == 0 {
		return r
	}
	return Rect{
		X: int(float64(r.X) * f),
		Y: int(float64(r.Y) * f),
		W: int(float64(r.W) * f),
		H: int(float64(r.H) * f),
	}
}

// Split divides the rectangle along the orientation axis in the ratio
// (ratio, 1-ratio). The first rectangle is the left or top one.
func (r Rect) Split(o Orientation, ratio float64) (Rect, Rect) {
	if o == Horizontal {
		lw := int(float64(r.W) * ratio)
		return Rect{X: r.X, Y: r.Y, W: lw, H: r.H},
			Rect{X: r.X + lw, Y: r.Y, W: r.W - lw, H: r.H}
	}
	th := int(float64(r.H) * ratio)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: th},
		Rect{X: r.X, Y: r.Y + th, W: r.W, H: r.H - th}
}

type Insets struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Orientation is the axis a split divides space along. Horizontal
// places children side by side, Vertical stacks them.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) Other() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Direction is the side of a split an operation targets: Backward is
// left or up, Forward is right or down, depending on orientation.
type Direction uint8

const (
	Backward Direction = iota
	Forward
)

func (d Direction) Other() Direction {
	if d == Backward {
		return Forward
	}
	return Backward
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}
