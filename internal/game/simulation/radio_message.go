package simulation

import (
	"time"

	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

type RadioMessage struct {
	Timestamp time.Time
	GameTime  float64
	Callsign  types.Callsign
	Message   string
	IsUrgent  bool
}

func (s *Simulation) AddRadioMessage(callsign types.Callsign, message string, isUrgent bool) {
	msg := RadioMessage{
		Timestamp: time.Now(),
		GameTime:  s.Session.Elapsed,
		Callsign:  callsign,
		Message:   message,
		IsUrgent:  isUrgent,
	}
	s.RadioLog = append(s.RadioLog, msg)

	if len(s.RadioLog) > s.maxRadioLogSize {
		s.RadioLog = s.RadioLog[len(s.RadioLog)-s.maxRadioLogSize:]
	}
	if isUrgent {
		log.Warnf("RADIO %s", message)
	} else {
		log.Debugf("RADIO %s", message)
	}
}

// Transmit logs a controller instruction and the pilot's reply.
func (s *Simulation) Transmit(callsign types.Callsign, instruction, response string) {
	s.AddRadioMessage(callsign, instruction, false)
	s.AddRadioMessage(callsign, response, false)
}
