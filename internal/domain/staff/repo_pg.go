package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

const memberCols = `id, user_id, first_name, last_name, role, specialization,
	phone, email, active, created_at, updated_at`

func (r *repoPG) scanMember(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.UserID, &m.FirstName, &m.LastName, &m.Role,
		&m.Specialization, &m.Phone, &m.Email, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (id, user_id, first_name, last_name, role, specialization, phone, email, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.UserID, m.FirstName, m.LastName, m.Role, m.Specialization,
		m.Phone, m.Email, m.Active)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.scanMember(r.conn(ctx).QueryRow(ctx, `SELECT `+memberCols+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) GetByUserID(ctx context.Context, userID string) (*Member, error) {
	return r.scanMember(r.conn(ctx).QueryRow(ctx, `SELECT `+memberCols+` FROM staff WHERE user_id = $1`, userID))
}

func (r *repoPG) Update(ctx context.Context, m *Member) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET first_name=$2, last_name=$3, role=$4, specialization=$5,
			phone=$6, email=$7, active=$8, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.FirstName, m.LastName, m.Role, m.Specialization,
		m.Phone, m.Email, m.Active)
	return err
}

func (r *repoPG) List(ctx context.Context, role string, limit, offset int) ([]*Member, int, error) {
	where := ``
	args := []interface{}{}
	if role != "" {
		where = ` WHERE role = $1`
		args = append(args, role)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM staff`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + memberCols + ` FROM staff` + where +
		fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Member
	for rows.Next() {
		m, err := r.scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}
