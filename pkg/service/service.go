// Package service exposes the reset and configuration requests over HTTP.
package service

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/tigerbot-team/tigerbot/odometry/pkg/angle"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/odometry"
	"github.com/tigerbot-team/tigerbot/odometry/pkg/publish"
)

type Resetter interface {
	ResetToOrigin()
	ResetToPose(x, y, theta float64)
}

type ModeSetter interface {
	Set(odometry.Mode)
}

type LatestSource interface {
	Latest(topic string) (publish.Message, bool)
}

// Events passed to Server.OnAck.
const (
	AckReset      = "reset"
	AckGivenReset = "given_reset"
)

type Server struct {
	Resets Resetter
	Modes  ModeSetter
	Latest LatestSource
	// Stream, if set, is mounted at /ws.
	Stream http.Handler
	// OnAck, if set, is called after each successful reset.
	OnAck func(event string)
}

type givenResetRequest struct {
	X           *float64          `json:"x"`
	Y           *float64          `json:"y"`
	Theta       *float64          `json:"theta"`
	Orientation *angle.Quaternion `json:"orientation"`
}

type modeRequest struct {
	Method json.RawMessage `json:"method"`
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/reset", post(s.handleReset))
	mux.HandleFunc("/given_reset", post(s.handleGivenReset))
	mux.HandleFunc("/integration_method", post(s.handleMode))
	mux.HandleFunc("/odometry", s.handleLatest)
	if s.Stream != nil {
		mux.Handle("/ws", s.Stream)
	}
	return mux
}

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}\n"))
}

func (s *Server) acked(event string) {
	if s.OnAck != nil {
		s.OnAck(event)
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Resets.ResetToOrigin()
	log.Info("Position reset to origin")
	s.acked(AckReset)
	ack(w)
}

func (s *Server) handleGivenReset(w http.ResponseWriter, r *http.Request) {
	var req givenResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.X == nil || req.Y == nil {
		http.Error(w, "x and y are required", http.StatusBadRequest)
		return
	}
	var theta float64
	switch {
	case req.Theta != nil && req.Orientation != nil:
		http.Error(w, "give theta or orientation, not both", http.StatusBadRequest)
		return
	case req.Theta != nil:
		theta = *req.Theta
	case req.Orientation != nil:
		theta = angle.YawFromQuaternion(*req.Orientation)
	default:
		http.Error(w, "theta or orientation is required", http.StatusBadRequest)
		return
	}

	s.Resets.ResetToPose(*req.X, *req.Y, theta)
	log.WithFields(log.Fields{
		"x":     *req.X,
		"y":     *req.Y,
		"theta": theta,
	}).Info("Pose reset")
	s.acked(AckGivenReset)
	ack(w)
}

// handleMode always acknowledges; values that aren't a known mode are
// dropped.
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Method) > 0 {
		raw := string(req.Method)
		var str string
		if json.Unmarshal(req.Method, &str) == nil {
			raw = str
		}
		if m, ok := odometry.ParseMode(raw); ok {
			s.Modes.Set(m)
			log.WithField("method", m).Info("Integration method set")
		}
	}
	ack(w)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	m, ok := s.Latest.Latest(publish.TopicCustomOdometry)
	if !ok {
		http.Error(w, "no odometry yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.Data); err != nil {
		log.WithError(err).Warn("Failed to write odometry response")
	}
}
