package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"lpstats/internal/badges"
	"lpstats/internal/engine"
	"lpstats/internal/events"
	"lpstats/internal/notify"
)

type Server struct {
	Engine    *engine.Engine
	Store     engine.Store
	Evaluator *badges.Evaluator
	Hub       *notify.Hub
}

type pitchPayload struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	Website      string    `json:"website"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
}

type reviewerPayload struct {
	JoinedAt    time.Time  `json:"joinedAt"`
	Anniversary *time.Time `json:"anniversary"`
}

type reviewRequest struct {
	ReviewID    string          `json:"reviewId"`
	ReviewerID  string          `json:"reviewerId"`
	PitchID     string          `json:"pitchId"`
	Rating      string          `json:"overallLpRating"`
	Comments    string          `json:"comments"`
	SubmittedAt time.Time       `json:"submittedAt"`
	IsEdit      bool            `json:"isEdit"`
	Pitch       pitchPayload    `json:"pitch"`
	Reviewer    reviewerPayload `json:"reviewer"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ReviewID == "" {
		req.ReviewID = uuid.New().String()
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}
	if req.Pitch.ID == "" {
		req.Pitch.ID = req.PitchID
	}

	ev := events.ReviewEvent{
		ReviewID:    req.ReviewID,
		ReviewerID:  req.ReviewerID,
		PitchID:     req.PitchID,
		Rating:      events.Rating(req.Rating),
		Comments:    req.Comments,
		SubmittedAt: req.SubmittedAt,
		IsEdit:      req.IsEdit,
	}
	pitch := events.Pitch{
		ID:           req.Pitch.ID,
		BusinessName: req.Pitch.BusinessName,
		Website:      req.Pitch.Website,
		Description:  req.Pitch.Description,
		CreatedAt:    req.Pitch.CreatedAt,
	}
	reviewer := events.Reviewer{
		ID:          req.ReviewerID,
		JoinedAt:    req.Reviewer.JoinedAt,
		Anniversary: req.Reviewer.Anniversary,
	}

	result, err := s.Engine.OnReviewSubmitted(r.Context(), ev, pitch, reviewer)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		log.Printf("[Server] review submission failed: %v\n", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "review could not be recorded, please retry"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     result.Snapshot,
		"newBadges": result.NewBadges,
	})
}

// handleDeclareWinner handles POST /pitches/{id}/winner.
func (s *Server) handleDeclareWinner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(r.URL.Path, "/")
	if len(parts) != 4 || parts[3] != "winner" || parts[2] == "" {
		http.Error(w, "Pitch ID required", http.StatusBadRequest)
		return
	}
	pitchID := parts[2]

	result, err := s.Engine.OnWinnerDeclared(r.Context(), events.WinnerDeclaration{
		PitchID:    pitchID,
		DeclaredAt: time.Now(),
	})
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		log.Printf("[Server] winner declaration failed: %v\n", err)
		http.Error(w, "Error declaring winner", http.StatusInternalServerError)
		return
	}

	type outcome struct {
		UserID    string          `json:"userId"`
		Stats     any             `json:"stats,omitempty"`
		NewBadges []badges.Earned `json:"newBadges,omitempty"`
		Error     string          `json:"error,omitempty"`
	}
	outcomes := make([]outcome, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		out := outcome{UserID: o.UserID, NewBadges: o.NewBadges}
		if o.Snapshot != nil {
			out.Stats = o.Snapshot
		}
		if o.Err != nil {
			out.Error = o.Err.Error()
		}
		outcomes = append(outcomes, out)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pitchId":        result.PitchID,
		"perUserResults": outcomes,
	})
}

// handleStats handles GET /stats/{userID} and POST /stats/{userID}/init.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 || parts[2] == "" {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}
	userID := parts[2]

	if len(parts) == 4 && parts[3] == "init" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap, err := s.Engine.InitializeSnapshot(r.Context(), userID)
		if err != nil {
			log.Printf("[Server] snapshot init failed: %v\n", err)
			http.Error(w, "Error initializing stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, snap)
		return
	}

	snap, err := s.Store.Snapshot(r.Context(), userID)
	if err != nil {
		http.Error(w, "Stats not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleBadges handles GET /badges/{userID} (earned) and
// GET /badges/{userID}/progress (full registry with progress).
func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 || parts[2] == "" {
		http.Error(w, "User ID required", http.StatusBadRequest)
		return
	}
	userID := parts[2]

	earned, err := s.Store.EarnedBadges(r.Context(), userID)
	if err != nil {
		log.Printf("[Server] badges read failed: %v\n", err)
		http.Error(w, "Error loading badges", http.StatusInternalServerError)
		return
	}

	if len(parts) == 4 && parts[3] == "progress" {
		snap, err := s.Store.Snapshot(r.Context(), userID)
		if err != nil {
			http.Error(w, "Stats not found", http.StatusNotFound)
			return
		}
		earnedSet := make(map[badges.BadgeID]bool, len(earned))
		for _, b := range earned {
			earnedSet[badges.BadgeID(b.BadgeID)] = true
		}
		ctx := badges.UserContext{Now: time.Now(), BadgeCount: len(earned)}
		writeJSON(w, http.StatusOK, s.Evaluator.ProgressAll(snap, ctx, earnedSet))
		return
	}

	if earned == nil {
		earned = []badges.Earned{}
	}
	writeJSON(w, http.StatusOK, earned)
}

// handleNotifications upgrades to a WebSocket and streams badge awards
// for the user given in the ?user= query parameter.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "user query parameter required", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[Server] websocket accept failed: %v\n", err)
		return
	}
	defer conn.CloseNow()

	client := &notify.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	s.Hub.Register(client)
	defer s.Hub.Unregister(client)

	// The client never sends application data; CloseRead drains incoming
	// frames and cancels the context when the connection drops.
	ctx := conn.CloseRead(r.Context())
	client.WritePump(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Server] encode error: %v\n", err)
	}
}
