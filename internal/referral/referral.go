package referral

import (
	"context"
	"errors"
	"strings"

	"mastermind-arena/internal/store"
)

// Pending-medal rewards for a successful referral.
const (
	ReferrerBonus = 20
	RefereeBonus  = 10
)

var (
	ErrInvalidAddress  = errors.New("invalid_address")
	ErrInvalidCode     = errors.New("invalid_code")
	ErrSelfReferral    = errors.New("self_referral")
	ErrAlreadyReferred = store.ErrAlreadyReferred
	ErrUnknownProvider = errors.New("unknown_provider")
)

type Stats struct {
	Address       string   `json:"address"`
	Code          string   `json:"code"`
	ReferredCount int      `json:"referred_count"`
	Referred      []string `json:"referred"`
	PendingMedals int64    `json:"pending_medals"`
}

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CodeFor derives the stable referral code from a lowercased address:
// MM-<chars 2..8>-<last 4>.
func CodeFor(addr string) string {
	return "MM-" + addr[2:8] + "-" + addr[len(addr)-4:]
}

// NormalizeAddress lowercases and sanity-checks an address. Codes are
// sliced out of it, so short or unprefixed input is rejected here
// rather than producing garbage codes.
func NormalizeAddress(addr string) (string, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if len(addr) < 12 || !strings.HasPrefix(addr, "0x") {
		return "", ErrInvalidAddress
	}
	return addr, nil
}

func (s *Service) GetOrCreateCode(ctx context.Context, addr string) (string, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return "", err
	}
	if err := s.store.RegisterPlayer(ctx, addr); err != nil {
		return "", err
	}
	return s.store.SetReferralCode(ctx, addr, CodeFor(addr))
}

func (s *Service) Register(ctx context.Context, code, newAddr string) error {
	newAddr, err := NormalizeAddress(newAddr)
	if err != nil {
		return err
	}
	code = strings.TrimSpace(code)
	referrer, err := s.store.FindReferrerByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if referrer == newAddr {
		return ErrSelfReferral
	}
	return s.store.AddReferral(ctx, referrer, newAddr, ReferrerBonus, RefereeBonus)
}

func (s *Service) Stats(ctx context.Context, addr string) (Stats, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return Stats{}, err
	}
	rec, err := s.store.GetReferral(ctx, addr)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Address:       addr,
		Code:          rec.Code,
		ReferredCount: len(rec.Referred),
		Referred:      rec.Referred,
		PendingMedals: rec.PendingMedals,
	}, nil
}

// ClaimMedals drains the pending balance; a second immediate claim
// returns zero.
func (s *Service) ClaimMedals(ctx context.Context, addr string) (int64, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return 0, err
	}
	return s.store.ClaimPendingMedals(ctx, addr)
}

func (s *Service) LinkSocial(ctx context.Context, addr, provider string) (store.SocialLinks, error) {
	return s.setSocial(ctx, addr, provider, true)
}

func (s *Service) UnlinkSocial(ctx context.Context, addr, provider string) (store.SocialLinks, error) {
	return s.setSocial(ctx, addr, provider, false)
}

func (s *Service) setSocial(ctx context.Context, addr, provider string, linked bool) (store.SocialLinks, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return store.SocialLinks{}, err
	}
	links, err := s.store.SetSocial(ctx, addr, strings.ToLower(strings.TrimSpace(provider)), linked)
	if errors.Is(err, store.ErrNotFound) {
		return links, ErrUnknownProvider
	}
	return links, err
}

func (s *Service) Socials(ctx context.Context, addr string) (store.SocialLinks, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return store.SocialLinks{}, err
	}
	return s.store.Socials(ctx, addr)
}
