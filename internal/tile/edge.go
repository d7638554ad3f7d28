package tile

// Sides of a tile, clockwise from the top.
const (
	Top = iota
	Right
	Bottom
	Left
)

// Opposite returns the side facing side across a shared border.
func Opposite(side int) int {
	return (side + 2) % 4
}

// Edge is one boundary of a tile read clockwise.
type Edge []bool

// Reversed returns a copy of e in the opposite direction.
func (e Edge) Reversed() Edge {
	out := make(Edge, len(e))
	for i, v := range e {
		out[len(e)-1-i] = v
	}
	return out
}

// Equal reports whether both edges hold the same pixels in the same order.
func (e Edge) Equal(o Edge) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i] != o[i] {
			return false
		}
	}
	return true
}

// Fits reports whether e can sit against o on a shared border: both are read
// clockwise around their own tiles, so they must agree with o reversed.
func (e Edge) Fits(o Edge) bool {
	if len(e) != len(o) {
		return false
	}
	n := len(o)
	for i := range e {
		if e[i] != o[n-1-i] {
			return false
		}
	}
	return true
}

// Matches reports whether e equals o in either direction. It answers whether
// two edges could ever meet, regardless of how either tile is oriented.
func (e Edge) Matches(o Edge) bool {
	return e.Equal(o) || e.Fits(o)
}

func (e Edge) String() string {
	b := make([]byte, len(e))
	for i, v := range e {
		if v {
			b[i] = '#'
		} else {
			b[i] = '.'
		}
	}
	return string(b)
}
