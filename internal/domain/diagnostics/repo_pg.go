package diagnostics

import (
	"context"
	"fmt"
	"strings"

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

// =========== LabTest Repository ===========

type labTestRepoPG struct{ pool *pgxpool.Pool }

func NewLabTestRepoPG(pool *pgxpool.Pool) LabTestRepository { return &labTestRepoPG{pool: pool} }

func (r *labTestRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const labTestCols = `id, name, modality, charge, tax_percent, discount_percent, created_at, updated_at`

func (r *labTestRepoPG) scanTest(row pgx.Row) (*LabTest, error) {
	var t LabTest
	err := row.Scan(&t.ID, &t.Name, &t.Modality, &t.Charge, &t.TaxPercent,
		&t.DiscountPercent, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *labTestRepoPG) Create(ctx context.Context, t *LabTest) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_test (id, name, modality, charge, tax_percent, discount_percent)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Name, t.Modality, t.Charge, t.TaxPercent, t.DiscountPercent)
	return err
}

func (r *labTestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return r.scanTest(r.conn(ctx).QueryRow(ctx, `SELECT `+labTestCols+` FROM lab_test WHERE id = $1`, id))
}

func (r *labTestRepoPG) Update(ctx context.Context, t *LabTest) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_test SET name=$2, modality=$3, charge=$4, tax_percent=$5,
			discount_percent=$6, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Modality, t.Charge, t.TaxPercent, t.DiscountPercent)
	return err
}

func (r *labTestRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_test WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *labTestRepoPG) List(ctx context.Context, modality string, limit, offset int) ([]*LabTest, int, error) {
	where := ``
	args := []interface{}{}
	if modality != "" {
		where = ` WHERE modality = $1`
		args = append(args, modality)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_test`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + labTestCols + ` FROM lab_test` + where +
		fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LabTest
	for rows.Next() {
		t, err := r.scanTest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}

func (r *labTestRepoPG) ExistingNames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT name FROM lab_test`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names[strings.ToLower(name)] = true
	}
	return names, nil
}

// =========== Order Repository ===========

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository { return &orderRepoPG{pool: pool} }

func (r *orderRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const orderCols = `id, patient_id, admission_id, lab_test_id, status, ordered_at,
	sample_collected_at, completed_at, result_text, created_at, updated_at`

func (r *orderRepoPG) scanOrder(row pgx.Row) (*TestOrder, error) {
	var o TestOrder
	err := row.Scan(&o.ID, &o.PatientID, &o.AdmissionID, &o.LabTestID, &o.Status, &o.OrderedAt,
		&o.SampleCollectedAt, &o.CompletedAt, &o.ResultText, &o.CreatedAt, &o.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *orderRepoPG) Create(ctx context.Context, o *TestOrder) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_test_order (id, patient_id, admission_id, lab_test_id, status, ordered_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.PatientID, o.AdmissionID, o.LabTestID, o.Status, o.OrderedAt)
	return err
}

func (r *orderRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TestOrder, error) {
	return r.scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM lab_test_order WHERE id = $1`, id))
}

func (r *orderRepoPG) Update(ctx context.Context, o *TestOrder) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_test_order SET status=$2, sample_collected_at=$3, completed_at=$4,
			result_text=$5, updated_at=NOW()
		WHERE id = $1`,
		o.ID, o.Status, o.SampleCollectedAt, o.CompletedAt, o.ResultText)
	return err
}

func (r *orderRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*TestOrder, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_test_order WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM lab_test_order WHERE patient_id = $1 ORDER BY ordered_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TestOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}

func (r *orderRepoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*TestOrder, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_test_order WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM lab_test_order WHERE status = $1 ORDER BY ordered_at LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TestOrder
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, o)
	}
	return items, total, nil
}
