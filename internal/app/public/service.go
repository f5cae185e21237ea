package public

import (
	"context"
	"errors"
	"sort"
	"strings"

	"mastermind-arena/internal/activity"
	"mastermind-arena/internal/chain"
	"mastermind-arena/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	leaderboardMaxRows     = 200
	leaderboardDefaultRows = 50
)

// Service is the read-only facade over player data: leaderboard and
// profile views assembled from the store plus the chain-stats cache.
// The chain reader is optional; with no reader and no cached row a
// player's on-chain medals count as zero.
type Service struct {
	store  store.Store
	reader chain.Reader
}

func NewService(st store.Store, reader chain.Reader) *Service {
	return &Service{store: st, reader: reader}
}

// Leaderboard ranks every known player. sortBy is one of "medals",
// "games" or "referrals"; ties break on total medals. A player whose
// rows cannot be loaded is skipped, never failing the whole board.
func (s *Service) Leaderboard(ctx context.Context, sortBy string, limit int) (*LeaderboardResponse, error) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	switch sortBy {
	case "":
		sortBy = "medals"
	case "medals", "games", "referrals":
	default:
		return nil, ErrInvalidRequest
	}
	if limit <= 0 {
		limit = leaderboardDefaultRows
	}
	if limit > leaderboardMaxRows {
		limit = leaderboardMaxRows
	}

	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]LeaderboardItem, 0, len(players))
	for _, addr := range players {
		item, err := s.buildItem(ctx, addr)
		if err != nil {
			log.Warn().Err(err).Str("address", addr).Msg("leaderboard row skipped")
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var ka, kb int64
		switch sortBy {
		case "games":
			ka, kb = a.GamesPlayed, b.GamesPlayed
		case "referrals":
			ka, kb = a.ReferredCount, b.ReferredCount
		default:
			ka, kb = a.TotalMedals, b.TotalMedals
		}
		if ka != kb {
			return ka > kb
		}
		return a.TotalMedals > b.TotalMedals
	})

	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return &LeaderboardResponse{Items: items, SortBy: sortBy, Limit: limit}, nil
}

// PlayerProfile assembles everything public about one player.
func (s *Service) PlayerProfile(ctx context.Context, addr string) (*PlayerProfile, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if addr == "" {
		return nil, ErrInvalidRequest
	}
	stats, err := s.store.PlayerStats(ctx, addr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	ref, err := s.store.GetReferral(ctx, addr)
	if err != nil {
		return nil, err
	}
	socials, err := s.store.Socials(ctx, addr)
	if err != nil {
		return nil, err
	}
	balance, err := s.store.VaultBalance(ctx, addr)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	chainMedals := s.chainMedals(ctx, addr)
	total := chainMedals + ref.PendingMedals
	referred := int64(len(ref.Referred))
	score := activity.Score(total, stats.GamesPlayed, referred, int64(socials.Count()))

	return &PlayerProfile{
		Address:       addr,
		VaultBalance:  balance,
		PendingMedals: ref.PendingMedals,
		ChainMedals:   chainMedals,
		TotalMedals:   total,
		GamesPlayed:   stats.GamesPlayed,
		GamesWon:      stats.GamesWon,
		ReferralCode:  ref.Code,
		ReferredCount: referred,
		Socials:       SocialState{Gmail: socials.Gmail, X: socials.X, Discord: socials.Discord},
		Score:         score,
		Tier:          activity.TierFor(score),
	}, nil
}

func (s *Service) buildItem(ctx context.Context, addr string) (LeaderboardItem, error) {
	stats, err := s.store.PlayerStats(ctx, addr)
	if err != nil {
		return LeaderboardItem{}, err
	}
	ref, err := s.store.GetReferral(ctx, addr)
	if err != nil {
		return LeaderboardItem{}, err
	}
	socials, err := s.store.Socials(ctx, addr)
	if err != nil {
		return LeaderboardItem{}, err
	}
	total := s.chainMedals(ctx, addr) + ref.PendingMedals
	referred := int64(len(ref.Referred))
	score := activity.Score(total, stats.GamesPlayed, referred, int64(socials.Count()))
	return LeaderboardItem{
		Address:       addr,
		TotalMedals:   total,
		GamesPlayed:   stats.GamesPlayed,
		GamesWon:      stats.GamesWon,
		ReferredCount: referred,
		Score:         score,
		Tier:          activity.TierFor(score),
	}, nil
}

// chainMedals prefers the synced cache and falls back to a live read,
// then to zero. On-chain data is additive here, never load-bearing.
func (s *Service) chainMedals(ctx context.Context, addr string) int64 {
	if cs, err := s.store.ChainStats(ctx, addr); err == nil && cs != nil {
		return cs.Medals
	}
	if s.reader != nil {
		if medals, err := s.reader.MedalBalance(ctx, addr); err == nil {
			return medals
		}
	}
	return 0
}
