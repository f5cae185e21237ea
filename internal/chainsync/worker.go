package chainsync

import (
	"context"
	"time"

	"mastermind-arena/internal/chain"
	"mastermind-arena/internal/store"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Worker periodically pulls on-chain medal balances and lifetime
// counters for every known player into the chain_stats cache, so
// leaderboard reads never block on RPC.
type Worker struct {
	reader chain.Reader
	store  store.Store
	sched  gocron.Scheduler
}

func NewWorker(reader chain.Reader, st store.Store) *Worker {
	return &Worker{reader: reader, store: st}
}

// Start schedules the sync loop and runs one pass immediately.
func (w *Worker) Start(ctx context.Context, interval time.Duration) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	w.sched = sched
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			w.SyncOnce(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}
	sched.Start()
	return nil
}

func (w *Worker) Stop() {
	if w.sched != nil {
		_ = w.sched.Shutdown()
	}
}

// SyncOnce refreshes every known player. A player that fails to read
// keeps its previous cached row.
func (w *Worker) SyncOnce(ctx context.Context) {
	players, err := w.store.ListPlayers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("chain sync: list players failed")
		return
	}
	synced, failed := 0, 0
	for _, addr := range players {
		if err := w.syncPlayer(ctx, addr); err != nil {
			failed++
			log.Debug().Err(err).Str("address", addr).Msg("chain sync: player skipped")
			continue
		}
		synced++
	}
	log.Info().Int("synced", synced).Int("failed", failed).Msg("chain sync pass complete")
}

func (w *Worker) syncPlayer(ctx context.Context, addr string) error {
	stats, err := w.reader.PlayerStats(ctx, addr)
	if err != nil {
		return err
	}
	medals, err := w.reader.MedalBalance(ctx, addr)
	if err != nil {
		return err
	}
	return w.store.PutChainStats(ctx, store.ChainStats{
		Address:     addr,
		GamesPlayed: stats.GamesPlayed,
		GamesWon:    stats.GamesWon,
		Medals:      medals,
		SyncedAt:    time.Now(),
	})
}
