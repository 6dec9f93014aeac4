package aircraft

import (
	"errors"
	"fmt"

	"atc-tower/internal/game/airspace"
	"atc-tower/internal/game/command"
	"atc-tower/pkg/types"

	"github.com/labstack/gommon/log"
)

var (
	ErrCannotComply    = errors.New("cannot comply")
	ErrUnknownWaypoint = errors.New("unknown waypoint")
	ErrRemoved         = errors.New("aircraft no longer in the airspace")
)

// ExecuteCommand applies an instruction. A command that does not fit the
// current state, or names a waypoint that does not exist, leaves the
// aircraft untouched and returns an error.
func (ac *Aircraft) ExecuteCommand(cmd command.Command) error {
	if !ac.IsActive() {
		return ErrRemoved
	}
	if err := cmd.Validate(); err != nil {
		return err
	}

	var err error
	switch cmd.Type {
	case command.Taxi:
		err = ac.handleTaxi(cmd)
	case command.Takeoff:
		err = ac.handleTakeoff(cmd)
	case command.Land:
		err = ac.handleLanding(cmd)
	case command.Turn:
		err = ac.handleTurn(cmd)
	case command.Hold:
		err = ac.handleHold(cmd)
	case command.Continue:
		err = ac.handleContinue(cmd)
	}
	if err != nil {
		log.Warnf("%s: %q rejected: %v", ac.ID, cmd, err)
		return err
	}
	log.Infof("%s: %q accepted, now %s", ac.ID, cmd, ac.State)
	return nil
}

func (ac *Aircraft) cannotComply(cmd command.Command) error {
	return fmt.Errorf("%w: %s while %s", ErrCannotComply, cmd.Type, ac.State)
}

func (ac *Aircraft) resolve(name string) (types.Vec2, error) {
	p, ok := ac.env.ResolveWaypoint(name)
	if !ok || p.IsZero() {
		return types.Vec2{}, fmt.Errorf("%q: %w", name, ErrUnknownWaypoint)
	}
	return p, nil
}

func (ac *Aircraft) handleTaxi(cmd command.Command) error {
	if ac.State != Parked {
		return ac.cannotComply(cmd)
	}
	p, err := ac.resolve(cmd.Location)
	if err != nil {
		return err
	}

	ac.State = Taxiing
	ac.takeoffPoint = nil
	ac.taxiToGate = cmd.Sub == command.ToGate
	ac.setDestination(p)
	return nil
}

func (ac *Aircraft) handleTakeoff(cmd command.Command) error {
	if ac.State != ReadyForTakeoff {
		return ac.cannotComply(cmd)
	}
	rwy, err := ac.resolve(cmd.Location)
	if err != nil {
		return err
	}
	end, err := ac.resolve(airspace.TakeoffWaypoint(cmd.Location))
	if err != nil {
		return err
	}

	ac.State = Taxiing
	ac.runway = cmd.Location
	ac.takeoffPoint = &end
	ac.taxiToGate = false
	ac.departureHeading = nil
	if hdg, ok := cmd.Sub.DepartureHeading(); ok {
		ac.departureHeading = &hdg
	}
	ac.setDestination(rwy)
	return nil
}

func (ac *Aircraft) handleLanding(cmd command.Command) error {
	if ac.State != InAir {
		return ac.cannotComply(cmd)
	}
	rwy, err := ac.resolve(cmd.Location)
	if err != nil {
		return err
	}
	// The rollout point must exist too, or the aircraft would stop on the runway.
	if _, err := ac.resolve(airspace.TakeoffWaypoint(cmd.Location)); err != nil {
		return err
	}

	ac.State = Landing
	ac.runway = cmd.Location
	ac.departure = nil
	ac.Intent.FlyingCap = ac.Perf.LandingSpeed
	ac.setDestination(rwy)
	return nil
}

func (ac *Aircraft) handleTurn(cmd command.Command) error {
	if ac.State != InAir {
		return ac.cannotComply(cmd)
	}
	hdg, err := cmd.Heading()
	if err != nil {
		return err
	}

	resolved := types.ResolveTurn(ac.Heading, hdg, cmd.Sub.Side())
	ac.setDestination(ac.Position.Add(types.HeadingVector(resolved).Scale(ac.Perf.TurnDistance)))
	ac.Intent.TargetHeading = resolved
	ac.Intent.TurnRemaining = resolved - ac.Heading
	return nil
}

func (ac *Aircraft) handleHold(cmd command.Command) error {
	switch ac.State {
	case ReadyForTakeoff, Parked:
		return ac.cannotComply(cmd)
	case Holding:
		return nil
	}
	ac.resumeState = ac.State
	ac.State = Holding
	return nil
}

func (ac *Aircraft) handleContinue(cmd command.Command) error {
	if ac.State != Holding {
		return ac.cannotComply(cmd)
	}
	ac.State = ac.resumeState
	return nil
}
