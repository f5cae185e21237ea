package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is the default backing: a single-process store guarded by one
// mutex. It keeps the same semantics as the Postgres backing so tests
// and small deployments run without a database.
type Memory struct {
	mu sync.Mutex

	vaults    map[string]*VaultAccount
	ledger    []LedgerEntry
	games     map[uint64]GameRecord
	players   map[string]*PlayerStats
	joinOrder []string
	referrals map[string]*ReferralRecord
	byCode    map[string]string
	socials   map[string]SocialLinks
	chain     map[string]ChainStats
}

func NewMemory() *Memory {
	return &Memory{
		vaults:    map[string]*VaultAccount{},
		games:     map[uint64]GameRecord{},
		players:   map[string]*PlayerStats{},
		referrals: map[string]*ReferralRecord{},
		byCode:    map[string]string{},
		socials:   map[string]SocialLinks{},
		chain:     map[string]ChainStats{},
	}
}

func (m *Memory) EnsureVault(_ context.Context, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureVaultLocked(addr)
	return nil
}

func (m *Memory) ensureVaultLocked(addr string) *VaultAccount {
	v := m.vaults[addr]
	if v == nil {
		v = &VaultAccount{Address: addr, UpdatedAt: time.Now()}
		m.vaults[addr] = v
	}
	return v
}

func (m *Memory) VaultBalance(_ context.Context, addr string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vaults[addr]
	if v == nil {
		return 0, ErrNotFound
	}
	return v.Balance, nil
}

func (m *Memory) Credit(_ context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, ErrInsufficientFunds
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.ensureVaultLocked(addr)
	v.Balance += amount
	v.UpdatedAt = time.Now()
	m.appendLedgerLocked(addr, entryType, amount, refType, refID)
	return v.Balance, nil
}

func (m *Memory) Debit(_ context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, ErrInsufficientFunds
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.vaults[addr]
	if v == nil || v.Balance < amount {
		return 0, ErrInsufficientFunds
	}
	v.Balance -= amount
	v.UpdatedAt = time.Now()
	m.appendLedgerLocked(addr, entryType, -amount, refType, refID)
	return v.Balance, nil
}

func (m *Memory) appendLedgerLocked(addr, entryType string, amount int64, refType, refID string) {
	m.ledger = append(m.ledger, LedgerEntry{
		ID:        NewID(),
		Address:   addr,
		Type:      entryType,
		Amount:    amount,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: time.Now(),
	})
}

func (m *Memory) ListLedgerEntries(_ context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []LedgerEntry{}
	// newest first, matching the Postgres ORDER BY created_at DESC
	for i := len(m.ledger) - 1; i >= 0; i-- {
		e := m.ledger[i]
		if f.Address != "" && e.Address != f.Address {
			continue
		}
		if f.RefID != "" && e.RefID != f.RefID {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		out = append(out, e)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) UpsertGame(_ context.Context, g GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.UpdatedAt = time.Now()
	if prev, ok := m.games[g.ID]; ok {
		g.CreatedAt = prev.CreatedAt
	} else if g.CreatedAt.IsZero() {
		g.CreatedAt = g.UpdatedAt
	}
	g.Players = append([]string(nil), g.Players...)
	m.games[g.ID] = g
	return nil
}

func (m *Memory) GetGame(_ context.Context, id uint64) (*GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	g.Players = append([]string(nil), g.Players...)
	return &g, nil
}

func (m *Memory) ListGames(_ context.Context, limit, offset int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uint64, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := []GameRecord{}
	for _, id := range ids {
		if offset > 0 {
			offset--
			continue
		}
		g := m.games[id]
		g.Players = append([]string(nil), g.Players...)
		out = append(out, g)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) RegisterPlayer(_ context.Context, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerPlayerLocked(addr)
	return nil
}

func (m *Memory) registerPlayerLocked(addr string) *PlayerStats {
	p := m.players[addr]
	if p == nil {
		p = &PlayerStats{Address: addr}
		m.players[addr] = p
		m.joinOrder = append(m.joinOrder, addr)
	}
	return p
}

func (m *Memory) ListPlayers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.joinOrder...), nil
}

func (m *Memory) PlayerStats(_ context.Context, addr string) (PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.players[addr]
	if p == nil {
		return PlayerStats{}, ErrNotFound
	}
	return *p, nil
}

func (m *Memory) BumpGamesPlayed(_ context.Context, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerPlayerLocked(addr).GamesPlayed++
	return nil
}

func (m *Memory) BumpGamesWon(_ context.Context, addr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerPlayerLocked(addr).GamesWon++
	return nil
}

func (m *Memory) SetReferralCode(_ context.Context, addr, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ensureReferralLocked(addr)
	if r.Code != "" {
		return r.Code, nil
	}
	r.Code = code
	m.byCode[code] = addr
	return code, nil
}

func (m *Memory) ensureReferralLocked(addr string) *ReferralRecord {
	r := m.referrals[addr]
	if r == nil {
		r = &ReferralRecord{Address: addr}
		m.referrals[addr] = r
	}
	return r
}

func (m *Memory) GetReferral(_ context.Context, addr string) (ReferralRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.referrals[addr]
	if r == nil {
		return ReferralRecord{Address: addr}, nil
	}
	cp := *r
	cp.Referred = append([]string(nil), r.Referred...)
	return cp, nil
}

func (m *Memory) FindReferrerByCode(_ context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	addr, ok := m.byCode[code]
	if !ok {
		return "", ErrNotFound
	}
	return addr, nil
}

func (m *Memory) AddReferral(_ context.Context, referrer, referee string, referrerBonus, refereeBonus int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ensureReferralLocked(referrer)
	for _, a := range r.Referred {
		if a == referee {
			return ErrAlreadyReferred
		}
	}
	r.Referred = append(r.Referred, referee)
	r.PendingMedals += referrerBonus
	m.ensureReferralLocked(referee).PendingMedals += refereeBonus
	m.registerPlayerLocked(referee)
	return nil
}

func (m *Memory) CreditPendingMedals(_ context.Context, addr string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureReferralLocked(addr).PendingMedals += amount
	return nil
}

func (m *Memory) ClaimPendingMedals(_ context.Context, addr string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ensureReferralLocked(addr)
	claimed := r.PendingMedals
	r.PendingMedals = 0
	return claimed, nil
}

func (m *Memory) Socials(_ context.Context, addr string) (SocialLinks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.socials[addr], nil
}

func (m *Memory) SetSocial(_ context.Context, addr, provider string, linked bool) (SocialLinks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.socials[addr]
	switch provider {
	case "gmail":
		s.Gmail = linked
	case "x":
		s.X = linked
	case "discord":
		s.Discord = linked
	default:
		return s, ErrNotFound
	}
	m.socials[addr] = s
	m.registerPlayerLocked(addr)
	return s, nil
}

func (m *Memory) PutChainStats(_ context.Context, cs ChainStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cs.SyncedAt.IsZero() {
		cs.SyncedAt = time.Now()
	}
	m.chain[cs.Address] = cs
	return nil
}

func (m *Memory) ChainStats(_ context.Context, addr string) (*ChainStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.chain[addr]
	if !ok {
		return nil, ErrNotFound
	}
	return &cs, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
