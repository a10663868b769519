package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/ports"
)

const uniqueViolation = "23505"

// DepositRepository is the Postgres-backed deposit ledger. The UNIQUE
// constraint on hash is the authoritative duplicate-submission guard.
type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

// EnsureSchema creates the deposits table and its indexes.
func (r *DepositRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS deposits (
			id            BIGSERIAL PRIMARY KEY,
			hash          TEXT NOT NULL UNIQUE,
			date          TIMESTAMPTZ NOT NULL,
			exchange_rate DOUBLE PRECISION NOT NULL,
			amount_usdt   DOUBLE PRECISION NOT NULL,
			amount_rub    DOUBLE PRECISION NOT NULL,
			user_id       BIGINT NOT NULL,
			processed_by  BIGINT,
			status        TEXT NOT NULL DEFAULT 'pending',
			team_name     TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			processed_at  TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_deposits_user_id ON deposits (user_id);
		CREATE INDEX IF NOT EXISTS idx_deposits_status ON deposits (status);
		CREATE INDEX IF NOT EXISTS idx_deposits_date ON deposits (date);
	`)
	if err != nil {
		return fmt.Errorf("deposits schema: %w", err)
	}
	return nil
}

// Save inserts a ledger row. A hash collision maps to ErrDuplicateDeposit.
func (r *DepositRepository) Save(ctx context.Context, rec *domain.DepositRecord) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO deposits (hash, date, exchange_rate, amount_usdt, amount_rub, user_id, status, team_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		rec.Hash, rec.Date, rec.ExchangeRate, rec.AmountUsdt, rec.AmountRub, rec.UserID, rec.Status, nullString(rec.TeamName),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateDeposit
		}
		return fmt.Errorf("deposit insert: %w", err)
	}
	return nil
}

// GetByHash returns the ledger row for a transaction hash.
func (r *DepositRepository) GetByHash(ctx context.Context, hash string) (*domain.DepositRecord, error) {
	rec, err := scanDeposit(r.db.QueryRow(ctx, `
		SELECT id, hash, date, exchange_rate, amount_usdt, amount_rub, user_id, processed_by, status, team_name, created_at, processed_at
		FROM deposits WHERE hash = $1`, hash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}
		return nil, fmt.Errorf("deposit get: %w", err)
	}
	return rec, nil
}

// SetStatus flips a pending row to its processed state. The status guard in
// the WHERE clause makes the flip a compare-and-swap: a row that was already
// processed is left untouched and reported as an invalid transition.
func (r *DepositRepository) SetStatus(ctx context.Context, hash string, status domain.DepositStatus, processedBy int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deposits
		SET status = $1, processed_by = $2, processed_at = now()
		WHERE hash = $3 AND status = 'pending'`,
		status, processedBy, hash)
	if err != nil {
		return fmt.Errorf("deposit status update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByHash(ctx, hash); getErr != nil {
			return getErr
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

// List returns ledger rows matching the filter, newest first.
func (r *DepositRepository) List(ctx context.Context, filter ports.ListDepositsFilter) ([]*domain.DepositRecord, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UserID != 0 {
		add("user_id = $%d", filter.UserID)
	}
	if !filter.DateFrom.IsZero() {
		add("date >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		add("date <= $%d", filter.DateTo)
	}

	query := `
		SELECT id, hash, date, exchange_rate, amount_usdt, amount_rub, user_id, processed_by, status, team_name, created_at, processed_at
		FROM deposits`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("deposit list: %w", err)
	}
	defer rows.Close()

	var out []*domain.DepositRecord
	for rows.Next() {
		rec, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("deposit scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Stats aggregates the whole ledger in one pass.
func (r *DepositRepository) Stats(ctx context.Context) (*domain.DepositStats, error) {
	var stats domain.DepositStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COALESCE(SUM(amount_usdt) FILTER (WHERE status = 'approved'), 0),
			COALESCE(SUM(amount_rub) FILTER (WHERE status = 'approved'), 0)
		FROM deposits`,
	).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.TotalUsdtApproved, &stats.TotalRubApproved)
	if err != nil {
		return nil, fmt.Errorf("deposit stats: %w", err)
	}
	return &stats, nil
}

func scanDeposit(row pgx.Row) (*domain.DepositRecord, error) {
	var (
		rec         domain.DepositRecord
		processedBy *int64
		teamName    *string
		processedAt *time.Time
	)
	err := row.Scan(&rec.ID, &rec.Hash, &rec.Date, &rec.ExchangeRate, &rec.AmountUsdt, &rec.AmountRub,
		&rec.UserID, &processedBy, &rec.Status, &teamName, &rec.CreatedAt, &processedAt)
	if err != nil {
		return nil, err
	}
	if processedBy != nil {
		rec.ProcessedBy = *processedBy
	}
	if teamName != nil {
		rec.TeamName = *teamName
	}
	if processedAt != nil {
		rec.ProcessedAt = *processedAt
	}
	return &rec, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
