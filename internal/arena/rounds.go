package arena

import (
	"context"
	"strings"
	"time"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"

	"github.com/rs/zerolog/log"
)

// CommitMove records a player's commitment hash for the current round.
// One commitment per player per round; when every active player has
// committed the reveal window opens early.
func (c *Coordinator) CommitMove(ctx context.Context, gameID uint64, addr, commitment string) (GameSnapshot, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return GameSnapshot{}, err
	}
	commitment = strings.ToLower(strings.TrimSpace(commitment))
	if len(commitment) != 64 {
		return GameSnapshot{}, ErrInvalidRequest
	}
	rt, err := c.runtime(gameID)
	if err != nil {
		return GameSnapshot{}, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusOngoing || rt.phase != phaseCommitOpen {
		return GameSnapshot{}, ErrWrongPhase
	}
	if !rt.active[addr] {
		return GameSnapshot{}, ErrNotActivePlayer
	}
	if _, ok := rt.commits[addr]; ok {
		return GameSnapshot{}, ErrAlreadyCommitted
	}
	rt.commits[addr] = commitment

	if len(rt.commits) == len(rt.activePlayersLocked()) {
		rt.phase = phaseRevealOpen
		rt.commitDeadline = time.Time{}
		rt.revealDeadline = time.Now().Add(c.cfg.RevealWindow)
		log.Info().Uint64("game_id", rt.id).Uint8("round", rt.currentRound).Msg("all committed, reveal window open")
	}
	return rt.snapshotLocked(), nil
}

// RevealMove opens a commitment. The (move, salt) pair must hash back
// to the stored commitment for this game and round. When every
// committed player has revealed, the round awaits adjudication.
func (c *Coordinator) RevealMove(ctx context.Context, gameID uint64, addr string, move uint8, salt string) (GameSnapshot, error) {
	addr, err := normalizeAddress(addr)
	if err != nil {
		return GameSnapshot{}, err
	}
	m, err := game.ParseMove(move)
	if err != nil {
		return GameSnapshot{}, ErrInvalidReveal
	}
	rt, rerr := c.runtime(gameID)
	if rerr != nil {
		return GameSnapshot{}, rerr
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusOngoing || rt.phase != phaseRevealOpen {
		return GameSnapshot{}, ErrWrongPhase
	}
	if !rt.active[addr] {
		return GameSnapshot{}, ErrNotActivePlayer
	}
	commitment, ok := rt.commits[addr]
	if !ok {
		return GameSnapshot{}, ErrInvalidReveal
	}
	if _, ok := rt.reveals[addr]; ok {
		return GameSnapshot{}, ErrAlreadyRevealed
	}
	if !game.VerifyCommitment(commitment, m, salt, rt.id, rt.currentRound) {
		return GameSnapshot{}, ErrInvalidReveal
	}
	rt.reveals[addr] = m

	if len(rt.reveals) == len(rt.commits) {
		rt.phase = phaseAwaitFinalize
		rt.revealDeadline = time.Time{}
		rt.finalizeDeadline = time.Now().Add(c.cfg.FinalizeGrace)
		log.Info().Uint64("game_id", rt.id).Uint8("round", rt.currentRound).Msg("all revealed, awaiting finalize")
	}
	return rt.snapshotLocked(), nil
}

// FinalizeRound applies an adjudicated result. Admin only. Survivors
// are the union of both winner lists plus the lucky bye; every named
// survivor must be an active player. Accepted once reveals are open so
// an adjudicator watching the table does not have to wait for the
// reveal window to lapse.
func (c *Coordinator) FinalizeRound(ctx context.Context, adminToken string, gameID uint64, winnersA, winnersB []string, lucky string) (GameSnapshot, error) {
	if err := c.checkAdmin(adminToken); err != nil {
		return GameSnapshot{}, err
	}
	rt, err := c.runtime(gameID)
	if err != nil {
		return GameSnapshot{}, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusOngoing {
		return GameSnapshot{}, ErrWrongPhase
	}
	if rt.phase != phaseRevealOpen && rt.phase != phaseAwaitFinalize {
		return GameSnapshot{}, ErrWrongPhase
	}

	survivorSet := map[string]bool{}
	for _, list := range [][]string{winnersA, winnersB} {
		for _, raw := range list {
			a, err := normalizeAddress(raw)
			if err != nil {
				return GameSnapshot{}, err
			}
			survivorSet[a] = true
		}
	}
	luckyAddr := ""
	if lucky != "" {
		luckyAddr, err = normalizeAddress(lucky)
		if err != nil {
			return GameSnapshot{}, err
		}
		survivorSet[luckyAddr] = true
	}
	for a := range survivorSet {
		if !rt.active[a] {
			return GameSnapshot{}, ErrInvalidRequest
		}
	}

	outcome := game.RoundOutcome{Lucky: luckyAddr}
	for _, a := range rt.activePlayersLocked() {
		if survivorSet[a] {
			outcome.Survivors = append(outcome.Survivors, a)
		} else {
			outcome.Eliminated = append(outcome.Eliminated, a)
		}
	}
	rec := c.applyOutcomeLocked(rt, outcome)

	log.Info().Uint64("game_id", rt.id).Uint8("round", rt.currentRound).
		Int("survivors", len(outcome.Survivors)).Int("eliminated", len(outcome.Eliminated)).
		Str("status", rt.status).Msg("round finalized")
	c.persist(ctx, rec)
	return rt.snapshotLocked(), nil
}
