package types

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Headings are compass degrees: 0 points up the screen (negative Y) and
// values grow clockwise.

// TurnSide is the rotation direction an operator asked for.
type TurnSide int

const (
	TurnShortest TurnSide = iota
	TurnLeft
	TurnRight
)

func (s TurnSide) String() string {
	switch s {
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "shortest"
	}
}

func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingVector returns the unit vector pointing along heading h.
func HeadingVector(h float64) Vec2 {
	r := h * math.Pi / 180
	return Vec2{math.Sin(r), -math.Cos(r)}
}

// VectorHeading returns the heading of v. The zero vector has heading 0.
func VectorHeading(v Vec2) float64 {
	if v.IsZero() {
		return 0
	}
	return NormalizeHeading(math.Atan2(v.X, -v.Y) * 180 / math.Pi)
}

// HeadingSignedTurn returns the shortest rotation from one heading to
// another in (-180, 180]; positive values turn right.
func HeadingSignedTurn(from, to float64) float64 {
	d := NormalizeHeading(to - from)
	if d > 180 {
		d -= 360
	}
	return d
}

func HeadingDifference(a, b float64) float64 {
	return math.Abs(HeadingSignedTurn(a, b))
}

// RotateTowards turns from towards to by at most maxStep degrees along the
// shorter direction.
func RotateTowards(from, to, maxStep float64) float64 {
	d := HeadingSignedTurn(from, to)
	if math.Abs(d) <= maxStep {
		return NormalizeHeading(to)
	}
	if d < 0 {
		maxStep = -maxStep
	}
	return NormalizeHeading(from + maxStep)
}

// ResolveTurn returns the heading to rotate to, expressed relative to
// current so that its sign gives the rotation direction. When side
// disagrees with the shortest turn the target is offset by a full turn.
func ResolveTurn(current, target float64, side TurnSide) float64 {
	d := HeadingSignedTurn(current, target)
	switch {
	case side == TurnRight && d < 0:
		d += 360
	case side == TurnLeft && d > 0:
		d -= 360
	}
	return current + d
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
