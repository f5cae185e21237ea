package arena

import "errors"

// Sentinel errors returned by coordinator operations. The transport
// layer maps these onto HTTP statuses; kinds survive wrapping via
// errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrGameNotFound       = errors.New("game_not_found")
	ErrGameNotJoinable    = errors.New("game_not_joinable")
	ErrGameFull           = errors.New("game_full")
	ErrAlreadyJoined      = errors.New("already_joined")
	ErrNotActivePlayer    = errors.New("not_active_player")
	ErrWrongPhase         = errors.New("wrong_phase")
	ErrAlreadyCommitted   = errors.New("already_committed")
	ErrAlreadyRevealed    = errors.New("already_revealed")
	ErrInvalidReveal      = errors.New("invalid_reveal")
	ErrGameNotCancellable = errors.New("game_not_cancellable")
	ErrGameNotFinished    = errors.New("game_not_finished")
	ErrAlreadyDistributed = errors.New("already_distributed")
	ErrInternal           = errors.New("internal_error")
)
