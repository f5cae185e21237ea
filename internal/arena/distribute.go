package arena

import (
	"context"

	"mastermind-arena/internal/game"
	"mastermind-arena/internal/store"

	"github.com/rs/zerolog/log"
)

// winnerMedalBonus is the pending-medal grant for taking a tournament.
const winnerMedalBonus = 100

// DistributePrize pays out a finished game's pool. Admin only, and
// strictly once: the distributed flag is checked and set under the
// game lock before any credit moves. Winners are ranked, first place
// taking the top share plus any rounding dust, the medal bonus and the
// win counter.
func (c *Coordinator) DistributePrize(ctx context.Context, adminToken string, gameID uint64, winners []string) (GameSnapshot, error) {
	if err := c.checkAdmin(adminToken); err != nil {
		return GameSnapshot{}, err
	}
	if len(winners) == 0 || len(winners) > game.MaxWinners {
		return GameSnapshot{}, ErrInvalidRequest
	}
	rt, err := c.runtime(gameID)
	if err != nil {
		return GameSnapshot{}, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.status != store.GameStatusFinished {
		return GameSnapshot{}, ErrGameNotFinished
	}
	if rt.prizeDistributed {
		return GameSnapshot{}, ErrAlreadyDistributed
	}

	ranked := make([]string, 0, len(winners))
	seen := map[string]bool{}
	isPlayer := map[string]bool{}
	for _, p := range rt.players {
		isPlayer[p] = true
	}
	for _, raw := range winners {
		addr, err := normalizeAddress(raw)
		if err != nil {
			return GameSnapshot{}, err
		}
		if !isPlayer[addr] || seen[addr] {
			return GameSnapshot{}, ErrInvalidRequest
		}
		seen[addr] = true
		ranked = append(ranked, addr)
	}

	rt.prizeDistributed = true

	fee, shares := game.ComputePayouts(rt.pool, len(ranked), c.cfg.PlatformFeeBps)
	for i, addr := range ranked {
		if _, err := c.vault.CreditFromPool(ctx, addr, rt.id, shares[i]); err != nil {
			log.Error().Err(err).Uint64("game_id", rt.id).Str("address", addr).Int64("amount", shares[i]).Msg("payout credit failed")
		}
	}
	if fee > 0 && c.cfg.OperatorAddress != "" {
		if _, err := c.vault.CreditRake(ctx, c.cfg.OperatorAddress, rt.id, fee); err != nil {
			log.Error().Err(err).Uint64("game_id", rt.id).Int64("fee", fee).Msg("rake credit failed")
		}
	}

	top := ranked[0]
	if err := c.store.CreditPendingMedals(ctx, top, winnerMedalBonus); err != nil {
		log.Error().Err(err).Str("address", top).Msg("winner medal grant failed")
	}
	if err := c.store.BumpGamesWon(ctx, top); err != nil {
		log.Error().Err(err).Str("address", top).Msg("bump games won failed")
	}

	rt.pool = 0
	log.Info().Uint64("game_id", rt.id).Str("winner", top).Int64("fee", fee).Ints64("shares", shares).Msg("prize distributed")
	c.persist(ctx, rt.recordLocked())
	return rt.snapshotLocked(), nil
}
