// Package session tracks one game run from map load to its end.
package session

import (
	"fmt"
	"math"

	"atc-tower/internal/config"

	"github.com/labstack/gommon/log"
)

type EndReason int

const (
	NotEnded EndReason = iota
	Collision
	EmergencyFailed
	TimerComplete
)

var EndReasonStringMap = map[EndReason]string{
	NotEnded:        "NOT_ENDED",
	Collision:       "COLLISION",
	EmergencyFailed: "EMERGENCY_FAILED",
	TimerComplete:   "TIMER_COMPLETE",
}

func (r EndReason) String() string {
	if s, ok := EndReasonStringMap[r]; ok {
		return s
	}
	return fmt.Sprintf("EndReason(%d)", int(r))
}

// Describe returns the end-screen text for r.
func (r EndReason) Describe() string {
	switch r {
	case Collision:
		return "Aircraft Collision"
	case EmergencyFailed:
		return "Emergency Situation Botched"
	case TimerComplete:
		return "Mission Complete!"
	default:
		return ""
	}
}

type Session struct {
	Settings config.Settings

	Elapsed   float64
	EndReason EndReason

	Landings   int
	Departures int
	Missed     int
}

func New(settings config.Settings) *Session {
	return &Session{Settings: settings}
}

// Reset starts the session over, as when the map is loaded again.
func (s *Session) Reset() {
	*s = Session{Settings: s.Settings}
}

func (s *Session) IsOver() bool {
	return s.EndReason != NotEnded
}

func (s *Session) Victory() bool {
	return s.EndReason == TimerComplete
}

// Tick advances the session clock and ends a timed session once its
// duration has elapsed.
func (s *Session) Tick(dt float64) {
	if s.IsOver() {
		return
	}
	s.Elapsed += dt
	if d := s.Settings.DurationSeconds(); d > 0 && s.Elapsed >= d {
		s.ReportGameOver(TimerComplete)
	}
}

// ReportGameOver ends the session. Only the first reported reason counts.
func (s *Session) ReportGameOver(reason EndReason) {
	if s.IsOver() || reason == NotEnded {
		return
	}
	s.EndReason = reason
	if reason == TimerComplete {
		log.Infof("session complete after %s: %d landings, %d departures", s.FormatElapsed(), s.Landings, s.Departures)
	} else {
		log.Warnf("GAME OVER after %s: %s", s.FormatElapsed(), reason.Describe())
	}
}

// FormatElapsed renders the elapsed time as MM:SS.
func (s *Session) FormatElapsed() string {
	t := math.Floor(s.Elapsed)
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
