package settings

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// The table holds at most one row per tenant schema, pinned by id = true.

func (r *repoPG) Get(ctx context.Context) (*HospitalSettings, error) {
	var s HospitalSettings
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT hospital_name, address, phone, email, currency, low_stock_threshold, updated_at
		FROM hospital_settings WHERE id = TRUE`).
		Scan(&s.HospitalName, &s.Address, &s.Phone, &s.Email, &s.Currency,
			&s.LowStockThreshold, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Upsert(ctx context.Context, s *HospitalSettings) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO hospital_settings (id, hospital_name, address, phone, email, currency, low_stock_threshold)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			hospital_name = EXCLUDED.hospital_name,
			address = EXCLUDED.address,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			currency = EXCLUDED.currency,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			updated_at = NOW()`,
		s.HospitalName, s.Address, s.Phone, s.Email, s.Currency, s.LowStockThreshold)
	return err
}
