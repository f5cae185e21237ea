package httptransport

import (
	"errors"
	"net/http"

	"mastermind-arena/internal/app/public"
	"mastermind-arena/internal/arena"
	"mastermind-arena/internal/referral"
	"mastermind-arena/internal/store"
	"mastermind-arena/internal/vault"
)

// MapError translates service sentinels into an HTTP status and a
// stable error code. Anything unrecognized is a 500 with the detail
// kept out of the response.
func MapError(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, arena.ErrUnauthorized):
		return http.StatusUnauthorized, arena.ErrUnauthorized.Error()
	case errors.Is(err, arena.ErrNotActivePlayer):
		return http.StatusForbidden, arena.ErrNotActivePlayer.Error()

	case errors.Is(err, arena.ErrGameNotFound):
		return http.StatusNotFound, arena.ErrGameNotFound.Error()
	case errors.Is(err, public.ErrPlayerNotFound):
		return http.StatusNotFound, public.ErrPlayerNotFound.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, store.ErrNotFound.Error()

	case errors.Is(err, store.ErrInsufficientFunds):
		return http.StatusConflict, store.ErrInsufficientFunds.Error()
	case errors.Is(err, store.ErrAlreadyReferred):
		return http.StatusConflict, store.ErrAlreadyReferred.Error()
	case errors.Is(err, arena.ErrGameNotJoinable):
		return http.StatusConflict, arena.ErrGameNotJoinable.Error()
	case errors.Is(err, arena.ErrGameFull):
		return http.StatusConflict, arena.ErrGameFull.Error()
	case errors.Is(err, arena.ErrAlreadyJoined):
		return http.StatusConflict, arena.ErrAlreadyJoined.Error()
	case errors.Is(err, arena.ErrWrongPhase):
		return http.StatusConflict, arena.ErrWrongPhase.Error()
	case errors.Is(err, arena.ErrAlreadyCommitted):
		return http.StatusConflict, arena.ErrAlreadyCommitted.Error()
	case errors.Is(err, arena.ErrAlreadyRevealed):
		return http.StatusConflict, arena.ErrAlreadyRevealed.Error()
	case errors.Is(err, arena.ErrGameNotCancellable):
		return http.StatusConflict, arena.ErrGameNotCancellable.Error()
	case errors.Is(err, arena.ErrGameNotFinished):
		return http.StatusConflict, arena.ErrGameNotFinished.Error()
	case errors.Is(err, arena.ErrAlreadyDistributed):
		return http.StatusConflict, arena.ErrAlreadyDistributed.Error()

	case errors.Is(err, arena.ErrInvalidReveal):
		return http.StatusBadRequest, arena.ErrInvalidReveal.Error()
	case errors.Is(err, arena.ErrInvalidRequest):
		return http.StatusBadRequest, arena.ErrInvalidRequest.Error()
	case errors.Is(err, vault.ErrInvalidAmount):
		return http.StatusBadRequest, vault.ErrInvalidAmount.Error()
	case errors.Is(err, referral.ErrInvalidAddress):
		return http.StatusBadRequest, referral.ErrInvalidAddress.Error()
	case errors.Is(err, referral.ErrInvalidCode):
		return http.StatusBadRequest, referral.ErrInvalidCode.Error()
	case errors.Is(err, referral.ErrSelfReferral):
		return http.StatusBadRequest, referral.ErrSelfReferral.Error()
	case errors.Is(err, referral.ErrUnknownProvider):
		return http.StatusBadRequest, referral.ErrUnknownProvider.Error()
	case errors.Is(err, public.ErrInvalidRequest):
		return http.StatusBadRequest, public.ErrInvalidRequest.Error()

	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
