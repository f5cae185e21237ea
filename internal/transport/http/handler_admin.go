package httptransport

import (
	"net/http"
	"time"

	"mastermind-arena/internal/arena"
	"mastermind-arena/internal/store"
)

// AdminHandlers carries the operator surface. Routes are mounted
// behind AdminAuthMiddleware; coordinator calls still pass the token
// through so the capability check lives in one place.
type AdminHandlers struct {
	store store.Store
	coord *arena.Coordinator
}

func NewAdminHandlers(st store.Store, coord *arena.Coordinator) *AdminHandlers {
	return &AdminHandlers{store: st, coord: coord}
}

type createGameRequest struct {
	EntryFee   int64 `json:"entry_fee"`
	MaxPlayers int   `json:"max_players"`
}

func (h *AdminHandlers) CreateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGameRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		snap, err := h.coord.CreateGame(r.Context(), AdminToken(r), req.EntryFee, req.MaxPlayers)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, snap)
	}
}

func (h *AdminHandlers) CancelGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		snap, err := h.coord.CancelGame(r.Context(), AdminToken(r), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, snap)
	}
}

type finalizeRequest struct {
	WinnersA []string `json:"winners_a"`
	WinnersB []string `json:"winners_b"`
	Lucky    string   `json:"lucky_player"`
}

func (h *AdminHandlers) FinalizeRound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req finalizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		snap, err := h.coord.FinalizeRound(r.Context(), AdminToken(r), id, req.WinnersA, req.WinnersB, req.Lucky)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricFinalizeTotal.Add(1)
		WriteJSON(w, http.StatusOK, snap)
	}
}

type distributeRequest struct {
	Winners []string `json:"winners"`
}

func (h *AdminHandlers) DistributePrize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := gameIDParam(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req distributeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		snap, err := h.coord.DistributePrize(r.Context(), AdminToken(r), id, req.Winners)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricDistributeTotal.Add(1)
		WriteJSON(w, http.StatusOK, snap)
	}
}

func (h *AdminHandlers) Ledger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		f := store.LedgerFilter{
			Address: r.URL.Query().Get("address"),
			RefID:   r.URL.Query().Get("ref_id"),
		}
		if v := r.URL.Query().Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &t
			}
		}
		if v := r.URL.Query().Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &t
			}
		}
		items, err := h.store.ListLedgerEntries(r.Context(), f, limit, offset)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}
