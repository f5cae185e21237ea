package main

import (
	"context"
	"net/http"
	"time"

	"mastermind-arena/internal/arena"
	"mastermind-arena/internal/chain"
	"mastermind-arena/internal/chainsync"
	"mastermind-arena/internal/config"
	"mastermind-arena/internal/logging"
	"mastermind-arena/internal/store"
	httptransport "mastermind-arena/internal/transport/http"
	"mastermind-arena/internal/vault"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	chainCfg, err := config.LoadChain()
	if err != nil {
		log.Fatal().Err(err).Msg("load chain config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if cfg.PostgresDSN == "" {
		log.Warn().Msg("POSTGRES_DSN empty, running on in-memory store")
	}

	v := vault.New(st)
	coord := arena.NewCoordinator(st, v, arena.Config{
		AdminKey:        cfg.AdminAPIKey,
		OperatorAddress: cfg.OperatorAddress,
		PlatformFeeBps:  cfg.PlatformFeeBps,
		CommitWindow:    time.Duration(cfg.CommitWindowSecs) * time.Second,
		RevealWindow:    time.Duration(cfg.RevealWindowSecs) * time.Second,
		FinalizeGrace:   time.Duration(cfg.FinalizeGraceSecs) * time.Second,
	})
	if err := coord.Restore(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("restore game sequence failed")
	}
	coord.StartJanitor(context.Background(), 0)

	var reader chain.Reader
	if chainCfg.Enabled() {
		ethReader, err := chain.Dial(context.Background(), chainCfg.RPCURL, chainCfg.ContractAddress)
		if err != nil {
			log.Error().Err(err).Msg("chain dial failed, continuing without chain data")
		} else {
			reader = ethReader
			worker := chainsync.NewWorker(reader, st)
			interval := time.Duration(chainCfg.SyncIntervalSec) * time.Second
			if err := worker.Start(context.Background(), interval); err != nil {
				log.Error().Err(err).Msg("chain sync start failed")
			}
		}
	} else {
		log.Info().Msg("chain reader disabled, medals served from pending balances only")
	}

	r := httptransport.NewRouter(st, cfg, coord, v, reader)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
