package conflict

import (
	"atc-tower/internal/game/aircraft"
	"atc-tower/pkg/types"
)

const (
	// MinSeparation is the distance below which two aircraft are flagged
	// as conflicting.
	MinSeparation = 60.0
	// Lookahead is how far ahead, in seconds, positions are projected when
	// looking for conflicts.
	Lookahead = 10.0
)

type Pair struct {
	A, B *aircraft.Aircraft
}

// Collides reports whether the hit regions of two active aircraft overlap.
func Collides(ac1, ac2 *aircraft.Aircraft) bool {
	if !ac1.IsActive() || !ac2.IsActive() {
		return false
	}
	return ac1.Position.DistanceTo(ac2.Position) < ac1.Perf.HitRadius+ac2.Perf.HitRadius
}

func CheckSeparation(ac1, ac2 *aircraft.Aircraft) bool {
	return ac1.Position.DistanceTo(ac2.Position) < MinSeparation
}

// PredictConflict projects both aircraft along their headings for
// futureTimeSeconds and checks separation at the projected positions.
// Returns: (isConflict, projectedPos1, projectedPos2)
func PredictConflict(ac1, ac2 *aircraft.Aircraft, futureTimeSeconds float64) (bool, types.Vec2, types.Vec2) {
	// Simple linear projection, ignoring turns in progress.
	p1 := ac1.Position.Add(types.HeadingVector(ac1.Heading).Scale(ac1.Speed * futureTimeSeconds))
	p2 := ac2.Position.Add(types.HeadingVector(ac2.Heading).Scale(ac2.Speed * futureTimeSeconds))
	if p1.DistanceTo(p2) < MinSeparation {
		return true, p1, p2
	}
	return false, types.Vec2{}, types.Vec2{}
}

// Check flags conflicting aircraft and returns every colliding pair. Only
// active aircraft take part.
func Check(fleet []*aircraft.Aircraft) []Pair {
	for _, ac := range fleet {
		ac.IsConflicting = false
	}

	var collisions []Pair
	for i, ac1 := range fleet {
		if !ac1.IsActive() {
			continue
		}
		for _, ac2 := range fleet[i+1:] {
			if !ac2.IsActive() {
				continue
			}
			if Collides(ac1, ac2) {
				collisions = append(collisions, Pair{ac1, ac2})
			}
			if CheckSeparation(ac1, ac2) {
				ac1.IsConflicting, ac2.IsConflicting = true, true
			} else if ok, _, _ := PredictConflict(ac1, ac2, Lookahead); ok {
				ac1.IsConflicting, ac2.IsConflicting = true, true
			}
		}
	}
	return collisions
}
