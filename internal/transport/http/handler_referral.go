package httptransport

import (
	"encoding/json"
	"net/http"

	"mastermind-arena/internal/referral"
)

type ReferralHandlers struct {
	svc *referral.Service
}

func NewReferralHandlers(svc *referral.Service) *ReferralHandlers {
	return &ReferralHandlers{svc: svc}
}

type addressRequest struct {
	Address string `json:"address"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
		return false
	}
	return true
}

func (h *ReferralHandlers) Code() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addressRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		code, err := h.svc.GetOrCreateCode(r.Context(), req.Address)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"code": code})
	}
}

type useCodeRequest struct {
	Address string `json:"address"`
	Code    string `json:"code"`
}

func (h *ReferralHandlers) Use() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req useCodeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := h.svc.Register(r.Context(), req.Code, req.Address); err != nil {
			WriteServiceError(w, err)
			return
		}
		metricReferralUseTotal.Add(1)
		WriteJSON(w, http.StatusOK, map[string]any{
			"ok":             true,
			"referrer_bonus": referral.ReferrerBonus,
			"referee_bonus":  referral.RefereeBonus,
		})
	}
}

func (h *ReferralHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.svc.Stats(r.Context(), r.URL.Query().Get("address"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, stats)
	}
}

func (h *ReferralHandlers) ClaimMedals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addressRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		claimed, err := h.svc.ClaimMedals(r.Context(), req.Address)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricMedalClaimTotal.Add(1)
		WriteJSON(w, http.StatusOK, map[string]int64{"claimed": claimed})
	}
}

type socialRequest struct {
	Address  string `json:"address"`
	Provider string `json:"provider"`
}

func (h *ReferralHandlers) LinkSocial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req socialRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		links, err := h.svc.LinkSocial(r.Context(), req.Address, req.Provider)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, links)
	}
}

func (h *ReferralHandlers) UnlinkSocial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req socialRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		links, err := h.svc.UnlinkSocial(r.Context(), req.Address, req.Provider)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, links)
	}
}

func (h *ReferralHandlers) SocialState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links, err := h.svc.Socials(r.Context(), r.URL.Query().Get("address"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, links)
	}
}
