package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mastermind-arena/internal/arena"

	"github.com/go-chi/chi/v5"
)

type GameHandlers struct {
	coord *arena.Coordinator
}

func NewGameHandlers(coord *arena.Coordinator) *GameHandlers {
	return &GameHandlers{coord: coord}
}

func gameIDParam(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "game_id"), 10, 64)
	return id, err == nil
}

func (h *GameHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.coord.Games(r.Context(), limit, offset)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *GameHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.Game(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, snap)
	}
}

type joinRequest struct {
	Address string `json:"address"`
}

func (h *GameHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req joinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.JoinGame(r.Context(), id, req.Address)
		if err != nil {
			metricJoinErrors.Add(1)
			WriteServiceError(w, err)
			return
		}
		metricJoinTotal.Add(1)
		WriteJSON(w, http.StatusOK, snap)
	}
}

type commitRequest struct {
	Address    string `json:"address"`
	Commitment string `json:"commitment"`
}

func (h *GameHandlers) Commit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req commitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.CommitMove(r.Context(), id, req.Address, req.Commitment)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricCommitTotal.Add(1)
		WriteJSON(w, http.StatusOK, snap)
	}
}

type revealRequest struct {
	Address string `json:"address"`
	Move    uint8  `json:"move"`
	Salt    string `json:"salt"`
}

func (h *GameHandlers) Reveal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req revealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.RevealMove(r.Context(), id, req.Address, req.Move, req.Salt)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricRevealTotal.Add(1)
		WriteJSON(w, http.StatusOK, snap)
	}
}
