package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres backs the store with a database via the pgx stdlib driver.
// Balance and medal mutations run in SELECT ... FOR UPDATE transactions
// so concurrent requests serialize per row.
type Postgres struct {
	DB *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{DB: db}, nil
}

func (s *Postgres) EnsureVault(ctx context.Context, addr string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO vaults (address, balance) VALUES ($1, 0) ON CONFLICT (address) DO NOTHING`, addr)
	return err
}

func (s *Postgres) VaultBalance(ctx context.Context, addr string) (int64, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT balance FROM vaults WHERE address = $1`, addr)
	var bal int64
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return bal, nil
}

func (s *Postgres) Credit(ctx context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, ErrInsufficientFunds
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO vaults (address, balance) VALUES ($1, 0) ON CONFLICT (address) DO NOTHING`, addr); err != nil {
		return 0, err
	}
	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM vaults WHERE address = $1 FOR UPDATE`, addr)
	if err := row.Scan(&bal); err != nil {
		return 0, err
	}
	newBal := bal + amount
	if _, err := tx.ExecContext(ctx, `UPDATE vaults SET balance = $1, updated_at = now() WHERE address = $2`, newBal, addr); err != nil {
		return 0, err
	}
	if err := recordLedgerEntry(ctx, tx, addr, entryType, amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

func (s *Postgres) Debit(ctx context.Context, addr string, amount int64, entryType, refType, refID string) (int64, error) {
	if amount < 0 {
		return 0, ErrInsufficientFunds
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var bal int64
	row := tx.QueryRowContext(ctx, `SELECT balance FROM vaults WHERE address = $1 FOR UPDATE`, addr)
	if err := row.Scan(&bal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	if bal < amount {
		return 0, ErrInsufficientFunds
	}
	newBal := bal - amount
	if _, err := tx.ExecContext(ctx, `UPDATE vaults SET balance = $1, updated_at = now() WHERE address = $2`, newBal, addr); err != nil {
		return 0, err
	}
	if err := recordLedgerEntry(ctx, tx, addr, entryType, -amount, refType, refID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newBal, nil
}

func recordLedgerEntry(ctx context.Context, tx *sql.Tx, addr, entryType string, amount int64, refType, refID string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO ledger_entries (id, address, type, amount, ref_type, ref_id) VALUES ($1,$2,$3,$4,$5,$6)`,
		NewID(), addr, entryType, amount, refType, refID)
	return err
}

func (s *Postgres) ListLedgerEntries(ctx context.Context, f LedgerFilter, limit, offset int) ([]LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	where := "WHERE 1=1"
	args := []any{}
	if f.Address != "" {
		args = append(args, f.Address)
		where += fmt.Sprintf(" AND address = $%d", len(args))
	}
	if f.RefID != "" {
		args = append(args, f.RefID)
		where += fmt.Sprintf(" AND ref_id = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	args = append(args, limit, offset)
	q := `SELECT id, address, type, amount, ref_type, ref_id, created_at FROM ledger_entries ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.Address, &e.Type, &e.Amount, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) UpsertGame(ctx context.Context, g GameRecord) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (id, entry_fee, max_players, status, current_round, players_count, pool, prize_distributed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    current_round = EXCLUDED.current_round,
		    players_count = EXCLUDED.players_count,
		    pool = EXCLUDED.pool,
		    prize_distributed = EXCLUDED.prize_distributed,
		    updated_at = now()
	`, g.ID, g.EntryFee, g.MaxPlayers, g.Status, g.CurrentRound, g.PlayersCount, g.Pool, g.PrizeDistributed)
	if err != nil {
		return err
	}
	for _, p := range g.Players {
		if _, err := tx.ExecContext(ctx, `INSERT INTO game_players (game_id, address) VALUES ($1,$2) ON CONFLICT DO NOTHING`, g.ID, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Postgres) GetGame(ctx context.Context, id uint64) (*GameRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, entry_fee, max_players, status, current_round, players_count, pool, prize_distributed, created_at, updated_at
		FROM games WHERE id = $1`, id)
	var g GameRecord
	if err := row.Scan(&g.ID, &g.EntryFee, &g.MaxPlayers, &g.Status, &g.CurrentRound, &g.PlayersCount, &g.Pool, &g.PrizeDistributed, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT address FROM game_players WHERE game_id = $1 ORDER BY joined_at ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		g.Players = append(g.Players, a)
	}
	return &g, rows.Err()
}

func (s *Postgres) ListGames(ctx context.Context, limit, offset int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, entry_fee, max_players, status, current_round, players_count, pool, prize_distributed, created_at, updated_at
		FROM games ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameRecord{}
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.ID, &g.EntryFee, &g.MaxPlayers, &g.Status, &g.CurrentRound, &g.PlayersCount, &g.Pool, &g.PrizeDistributed, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Postgres) RegisterPlayer(ctx context.Context, addr string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO players (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`, addr)
	return err
}

func (s *Postgres) ListPlayers(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT address FROM players ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Postgres) PlayerStats(ctx context.Context, addr string) (PlayerStats, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT address, games_played, games_won FROM players WHERE address = $1`, addr)
	var p PlayerStats
	if err := row.Scan(&p.Address, &p.GamesPlayed, &p.GamesWon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlayerStats{}, ErrNotFound
		}
		return PlayerStats{}, err
	}
	return p, nil
}

func (s *Postgres) BumpGamesPlayed(ctx context.Context, addr string) error {
	return s.bumpPlayerCounter(ctx, addr, "games_played")
}

func (s *Postgres) BumpGamesWon(ctx context.Context, addr string) error {
	return s.bumpPlayerCounter(ctx, addr, "games_won")
}

func (s *Postgres) bumpPlayerCounter(ctx context.Context, addr, column string) error {
	if column != "games_played" && column != "games_won" {
		return fmt.Errorf("unknown counter %q", column)
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO players (address, `+column+`) VALUES ($1, 1)
		ON CONFLICT (address) DO UPDATE SET `+column+` = players.`+column+` + 1`, addr)
	return err
}

func (s *Postgres) SetReferralCode(ctx context.Context, addr, code string) (string, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO referrals (address, code) VALUES ($1, $2) ON CONFLICT (address) DO NOTHING`, addr, code); err != nil {
		return "", err
	}
	var stored sql.NullString
	row := tx.QueryRowContext(ctx, `SELECT code FROM referrals WHERE address = $1 FOR UPDATE`, addr)
	if err := row.Scan(&stored); err != nil {
		return "", err
	}
	if !stored.Valid || stored.String == "" {
		if _, err := tx.ExecContext(ctx, `UPDATE referrals SET code = $1 WHERE address = $2`, code, addr); err != nil {
			return "", err
		}
		stored = sql.NullString{String: code, Valid: true}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return stored.String, nil
}

func (s *Postgres) GetReferral(ctx context.Context, addr string) (ReferralRecord, error) {
	rec := ReferralRecord{Address: addr}
	var code sql.NullString
	row := s.DB.QueryRowContext(ctx, `SELECT code, pending_medals FROM referrals WHERE address = $1`, addr)
	if err := row.Scan(&code, &rec.PendingMedals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, nil
		}
		return rec, err
	}
	rec.Code = code.String
	rows, err := s.DB.QueryContext(ctx, `SELECT referee FROM referred WHERE referrer = $1 ORDER BY created_at ASC`, addr)
	if err != nil {
		return rec, err
	}
	defer rows.Close()
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return rec, err
		}
		rec.Referred = append(rec.Referred, a)
	}
	return rec, rows.Err()
}

func (s *Postgres) FindReferrerByCode(ctx context.Context, code string) (string, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT address FROM referrals WHERE code = $1`, code)
	var addr string
	if err := row.Scan(&addr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return addr, nil
}

func (s *Postgres) AddReferral(ctx context.Context, referrer, referee string, referrerBonus, refereeBonus int64) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO referred (referrer, referee) VALUES ($1,$2) ON CONFLICT DO NOTHING`, referrer, referee)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrAlreadyReferred
	}
	if err := creditPendingMedalsTx(ctx, tx, referrer, referrerBonus); err != nil {
		return err
	}
	if err := creditPendingMedalsTx(ctx, tx, referee, refereeBonus); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO players (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`, referee); err != nil {
		return err
	}
	return tx.Commit()
}

func creditPendingMedalsTx(ctx context.Context, tx *sql.Tx, addr string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO referrals (address, pending_medals) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET pending_medals = referrals.pending_medals + $2`, addr, amount)
	return err
}

func (s *Postgres) CreditPendingMedals(ctx context.Context, addr string, amount int64) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO referrals (address, pending_medals) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET pending_medals = referrals.pending_medals + $2`, addr, amount)
	return err
}

func (s *Postgres) ClaimPendingMedals(ctx context.Context, addr string) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var pending int64
	row := tx.QueryRowContext(ctx, `SELECT pending_medals FROM referrals WHERE address = $1 FOR UPDATE`, addr)
	if err := row.Scan(&pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	if pending == 0 {
		return 0, tx.Rollback()
	}
	if _, err := tx.ExecContext(ctx, `UPDATE referrals SET pending_medals = 0 WHERE address = $1`, addr); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return pending, nil
}

func (s *Postgres) Socials(ctx context.Context, addr string) (SocialLinks, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT gmail, x, discord FROM socials WHERE address = $1`, addr)
	var sl SocialLinks
	if err := row.Scan(&sl.Gmail, &sl.X, &sl.Discord); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SocialLinks{}, nil
		}
		return SocialLinks{}, err
	}
	return sl, nil
}

func (s *Postgres) SetSocial(ctx context.Context, addr, provider string, linked bool) (SocialLinks, error) {
	switch provider {
	case "gmail", "x", "discord":
	default:
		return SocialLinks{}, ErrNotFound
	}
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return SocialLinks{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO socials (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`, addr); err != nil {
		return SocialLinks{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE socials SET `+provider+` = $1, updated_at = now() WHERE address = $2`, linked, addr); err != nil {
		return SocialLinks{}, err
	}
	var sl SocialLinks
	row := tx.QueryRowContext(ctx, `SELECT gmail, x, discord FROM socials WHERE address = $1`, addr)
	if err := row.Scan(&sl.Gmail, &sl.X, &sl.Discord); err != nil {
		return SocialLinks{}, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO players (address) VALUES ($1) ON CONFLICT (address) DO NOTHING`, addr); err != nil {
		return SocialLinks{}, err
	}
	return sl, tx.Commit()
}

func (s *Postgres) PutChainStats(ctx context.Context, cs ChainStats) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO chain_stats (address, games_played, games_won, medals, synced_at)
		VALUES ($1,$2,$3,$4,now())
		ON CONFLICT (address) DO UPDATE
		SET games_played = EXCLUDED.games_played,
		    games_won = EXCLUDED.games_won,
		    medals = EXCLUDED.medals,
		    synced_at = now()
	`, cs.Address, cs.GamesPlayed, cs.GamesWon, cs.Medals)
	return err
}

func (s *Postgres) ChainStats(ctx context.Context, addr string) (*ChainStats, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT address, games_played, games_won, medals, synced_at FROM chain_stats WHERE address = $1`, addr)
	var cs ChainStats
	if err := row.Scan(&cs.Address, &cs.GamesPlayed, &cs.GamesWon, &cs.Medals, &cs.SyncedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cs, nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}

func (s *Postgres) Close() error {
	return s.DB.Close()
}
