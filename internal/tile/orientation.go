package tile

import "fmt"

// Orientation is one of the eight ways a tile can be placed: the grid is
// mirrored first (when Mirrored is set) and then turned Rotation quarter
// turns clockwise.
type Orientation struct {
	Rotation int  `json:"rotation"`
	Mirrored bool `json:"mirrored"`
}

var orientations = [8]Orientation{
	{0, false}, {1, false}, {2, false}, {3, false},
	{0, true}, {1, true}, {2, true}, {3, true},
}

// Orientations returns all eight orientations in search order: the four
// rotations of the original grid, then the four rotations of its mirror.
func Orientations() []Orientation {
	out := orientations
	return out[:]
}

func (o Orientation) normalized() Orientation {
	return Orientation{Rotation: mod4(o.Rotation), Mirrored: o.Mirrored}
}

func (o Orientation) String() string {
	if o.Mirrored {
		return fmt.Sprintf("mirror+rot%d", mod4(o.Rotation))
	}
	return fmt.Sprintf("rot%d", mod4(o.Rotation))
}

func mod4(n int) int {
	return ((n % 4) + 4) % 4
}
