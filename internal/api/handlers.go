package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Higherpines/SkoreBot/internal/state"
	"github.com/Higherpines/SkoreBot/pkg/models"
)

// Handler serves the read-only query surface over the state store.
// Nothing here mutates notification flags; handlers only see copies.
type Handler struct {
	store      *state.Store
	sportNames map[string]string
}

// NewHandler creates a new query handler
func NewHandler(store *state.Store, sportNames map[string]string) *Handler {
	return &Handler{
		store:      store,
		sportNames: sportNames,
	}
}

// HandleGetGame returns the current state for one game
// GET /api/v1/games/{game_id}
func (h *Handler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}

	st, ok := h.store.Get(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	writeJSON(w, st)
}

// HandleUpcoming returns scheduled games for a sport sorted by start time
// GET /api/v1/sports/{sport}/upcoming
func (h *Handler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	sportKey := chi.URLParam(r, "sport")
	if _, ok := h.sportNames[sportKey]; !ok {
		http.Error(w, "unknown sport", http.StatusNotFound)
		return
	}

	upcoming := h.store.UpcomingFor(sportKey)
	writeJSON(w, map[string]interface{}{
		"sport": sportKey,
		"games": gamesOf(upcoming),
		"count": len(upcoming),
	})
}

// HandleNextGame returns the next scheduled game for a sport
// GET /api/v1/sports/{sport}/next
func (h *Handler) HandleNextGame(w http.ResponseWriter, r *http.Request) {
	sportKey := chi.URLParam(r, "sport")
	if _, ok := h.sportNames[sportKey]; !ok {
		http.Error(w, "unknown sport", http.StatusNotFound)
		return
	}

	upcoming := h.store.UpcomingFor(sportKey)
	if len(upcoming) == 0 {
		http.Error(w, "no upcoming games", http.StatusNotFound)
		return
	}

	writeJSON(w, upcoming[0].Game)
}

// HandleScores returns every tracked game for a sport with current scores
// GET /api/v1/sports/{sport}/scores
func (h *Handler) HandleScores(w http.ResponseWriter, r *http.Request) {
	sportKey := chi.URLParam(r, "sport")
	if _, ok := h.sportNames[sportKey]; !ok {
		http.Error(w, "unknown sport", http.StatusNotFound)
		return
	}

	all := h.store.AllFor(sportKey)
	writeJSON(w, map[string]interface{}{
		"sport": sportKey,
		"games": gamesOf(all),
		"count": len(all),
	})
}

// HandleHealth reports liveness and tracked game count
// GET /healthz
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":        "ok",
		"tracked_games": h.store.Len(),
	})
}

// gamesOf strips states down to their Game views for responses; flags and
// the seen-event ledger are scheduler internals
func gamesOf(states []models.GameState) []models.Game {
	games := make([]models.Game, 0, len(states))
	for _, st := range states {
		games = append(games, st.Game)
	}
	return games
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
