// Package config holds the settings a game run is started with.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

type TrafficLevel int

const (
	TrafficLow TrafficLevel = iota
	TrafficMedium
	TrafficHigh
)

var TrafficLevelStringMap = map[TrafficLevel]string{
	TrafficLow:    "low",
	TrafficMedium: "medium",
	TrafficHigh:   "high",
}

func (l TrafficLevel) String() string {
	if s, ok := TrafficLevelStringMap[l]; ok {
		return s
	}
	return fmt.Sprintf("TrafficLevel(%d)", int(l))
}

func ParseTrafficLevel(s string) (TrafficLevel, error) {
	for l, name := range TrafficLevelStringMap {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return TrafficMedium, fmt.Errorf("%q: unknown traffic level", s)
}

func (l TrafficLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *TrafficLevel) UnmarshalText(b []byte) error {
	v, err := ParseTrafficLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

type Settings struct {
	Airport         string       `json:"airport"`
	DurationMinutes float64      `json:"duration_minutes"` // <= 0 plays until a game over
	Traffic         TrafficLevel `json:"traffic"`
	Emergencies     bool         `json:"emergencies"`
	Seed            int64        `json:"seed"`
	TickRate        float64      `json:"tick_rate"`

	LogLevel string `json:"log_level"`
	LogDir   string `json:"log_dir"`
	APIAddr  string `json:"api_addr"`
}

func Default() Settings {
	return Settings{
		Airport:         "KLIT",
		DurationMinutes: -1,
		Traffic:         TrafficMedium,
		TickRate:        60,
		LogLevel:        "info",
		APIAddr:         ":8080",
	}
}

// DurationSeconds returns the session length, or a value <= 0 for an
// unlimited session.
func (s Settings) DurationSeconds() float64 {
	if s.DurationMinutes <= 0 {
		return -1
	}
	return s.DurationMinutes * 60
}

func (s Settings) Validate() error {
	var errs []error
	if s.Airport == "" {
		errs = append(errs, errors.New("airport must be set"))
	}
	if s.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick rate %.1f must be positive", s.TickRate))
	}
	if _, ok := TrafficLevelStringMap[s.Traffic]; !ok {
		errs = append(errs, fmt.Errorf("invalid traffic level %d", int(s.Traffic)))
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, fmt.Errorf("%q: invalid log level", s.LogLevel))
	}
	return errors.Join(errs...)
}

// LoadFile overlays the JSON settings file at path onto s.
func (s *Settings) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Parse builds Settings from defaults, an optional -config JSON file and
// command-line flags, in increasing order of precedence.
func Parse(name string, args []string) (Settings, error) {
	s := Default()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to a JSON settings file.")
	airport := fs.String("airport", s.Airport, "Airport to control (KLIT, KMDW, KATL, KDTS).")
	duration := fs.Float64("duration", s.DurationMinutes, "Session length in minutes; <= 0 for unlimited.")
	traffic := fs.String("traffic", s.Traffic.String(), "Traffic level: low, medium or high.")
	emergencies := fs.Bool("emergencies", s.Emergencies, "Allow aircraft to declare emergencies.")
	seed := fs.Int64("seed", s.Seed, "Random seed; 0 seeds from the clock.")
	tickRate := fs.Float64("tickrate", s.TickRate, "Simulation ticks per second.")
	logLevel := fs.String("loglevel", s.LogLevel, "Log level: debug, info, warn, error or off.")
	logDir := fs.String("logdir", s.LogDir, "Directory for rotated log files; empty logs to stderr only.")
	apiAddr := fs.String("api", s.APIAddr, "Listen address for the HTTP control API.")
	if err := fs.Parse(args); err != nil {
		return s, err
	}

	if *configFile != "" {
		if err := s.LoadFile(*configFile); err != nil {
			return s, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "airport":
			s.Airport = strings.ToUpper(*airport)
		case "duration":
			s.DurationMinutes = *duration
		case "traffic":
			s.Traffic, err = ParseTrafficLevel(*traffic)
		case "emergencies":
			s.Emergencies = *emergencies
		case "seed":
			s.Seed = *seed
		case "tickrate":
			s.TickRate = *tickRate
		case "loglevel":
			s.LogLevel = *logLevel
		case "logdir":
			s.LogDir = *logDir
		case "api":
			s.APIAddr = *apiAddr
		}
	})
	if err != nil {
		return s, err
	}
	return s, s.Validate()
}
