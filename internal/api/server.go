// Package api exposes a running simulation over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"atc-tower/internal/game/command"
	"atc-tower/internal/game/simulation"
	"atc-tower/pkg/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/gommon/log"
)

// Controller is the simulation as seen from request handlers, which run
// on their own goroutines.
type Controller interface {
	Snapshot() (simulation.Snapshot, error)
	Post(fn func(*simulation.Simulation))
}

type Server struct {
	ctl Controller
}

// New constructs the HTTP router wired to the simulation.
func New(ctl Controller) http.Handler {
	s := &Server{ctl: ctl}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/state", s.handleState)
	r.Get("/options", s.handleOptions)
	r.Post("/select", s.handleSelect)
	r.Post("/command", s.handleCommand)
	r.Post("/pause", s.handlePause)
	r.Post("/resume", s.handleResume)
	r.Post("/restart", s.handleRestart)

	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctl.Snapshot()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctl.Snapshot()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cmd := command.ParseType(r.URL.Query().Get("command"))
	sub := command.ParseSubCommand(r.URL.Query().Get("sub"))

	writeJSON(w, http.StatusOK, map[string][]string{
		"commands":     command.TypeOptions(),
		"sub_commands": command.SubCommandOptions(cmd),
		"locations":    command.LocationOptions(cmd, sub, snap.Runways, snap.Gates),
	})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Callsign string `json:"callsign"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	if req.Callsign == "" {
		s.ctl.Post(func(sim *simulation.Simulation) { sim.Deselect() })
		writeAccepted(w)
		return
	}
	cs := types.Callsign(req.Callsign)
	if ok, err := s.known(cs); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	} else if !ok {
		writeJSONError(w, http.StatusNotFound, "no such aircraft")
		return
	}
	s.ctl.Post(func(sim *simulation.Simulation) { _ = sim.SelectCallsign(cs) })
	writeAccepted(w)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Callsign   string `json:"callsign,omitempty"`
		Command    string `json:"command"`
		SubCommand string `json:"sub_command"`
		Location   string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	cmd := command.Command{
		Type:     command.ParseType(req.Command),
		Sub:      command.ParseSubCommand(req.SubCommand),
		Location: req.Location,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if snap, err := s.ctl.Snapshot(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	} else if snap.GameOver {
		writeJSONError(w, http.StatusConflict, "game over")
		return
	}

	cs := types.Callsign(req.Callsign)
	if cs != "" {
		if ok, err := s.known(cs); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		} else if !ok {
			writeJSONError(w, http.StatusNotFound, "no such aircraft")
			return
		}
	}

	s.ctl.Post(func(sim *simulation.Simulation) {
		if cs != "" {
			if err := sim.SelectCallsign(cs); err != nil {
				return
			}
		}
		if err := sim.Dispatcher.Execute(cmd.Type, cmd.Sub, cmd.Location); err != nil {
			log.Infof("api: %s: %v", cmd, err)
		}
	})
	writeAccepted(w)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.ctl.Post(func(sim *simulation.Simulation) { sim.Pause() })
	writeAccepted(w)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.ctl.Post(func(sim *simulation.Simulation) { sim.Resume() })
	writeAccepted(w)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.ctl.Post(func(sim *simulation.Simulation) { sim.Restart() })
	writeAccepted(w)
}

func (s *Server) known(cs types.Callsign) (bool, error) {
	snap, err := s.ctl.Snapshot()
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(snap.Aircraft, func(ac simulation.AircraftView) bool { return ac.Callsign == cs }), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAccepted answers requests that are applied on the next tick.
func writeAccepted(w http.ResponseWriter) {
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debugf("api: %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
