package ipd

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

// =========== Admission Repository ===========

type admissionRepoPG struct{ pool *pgxpool.Pool }

func NewAdmissionRepoPG(pool *pgxpool.Pool) AdmissionRepository { return &admissionRepoPG{pool: pool} }

func (r *admissionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const admissionCols = `id, patient_id, admission_number, ward, bed, doctor_id,
	diagnosis, status, admitted_at, discharged_at, note, created_at, updated_at`

func (r *admissionRepoPG) scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.AdmissionNumber, &a.Ward, &a.Bed, &a.DoctorID,
		&a.Diagnosis, &a.Status, &a.AdmittedAt, &a.DischargedAt, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *admissionRepoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ipd_admission (id, patient_id, admission_number, ward, bed, doctor_id,
			diagnosis, status, admitted_at, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientID, a.AdmissionNumber, a.Ward, a.Bed, a.DoctorID,
		a.Diagnosis, a.Status, a.AdmittedAt, a.Note)
	return err
}

func (r *admissionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return r.scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admissionCols+` FROM ipd_admission WHERE id = $1`, id))
}

func (r *admissionRepoPG) Update(ctx context.Context, a *Admission) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE ipd_admission SET ward=$2, bed=$3, doctor_id=$4, diagnosis=$5,
			status=$6, discharged_at=$7, note=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Ward, a.Bed, a.DoctorID, a.Diagnosis,
		a.Status, a.DischargedAt, a.Note)
	return err
}

func (r *admissionRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*Admission, int, error) {
	where := ``
	args := []interface{}{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ipd_admission`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + admissionCols + ` FROM ipd_admission` + where +
		fmt.Sprintf(` ORDER BY admitted_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := r.scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *admissionRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM ipd_admission WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+admissionCols+` FROM ipd_admission WHERE patient_id = $1 ORDER BY admitted_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Admission
	for rows.Next() {
		a, err := r.scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *admissionRepoPG) NextAdmissionNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('ipd_admission_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("ADM-%06d", n), nil
}

// =========== Charge Repository ===========

type chargeRepoPG struct{ pool *pgxpool.Pool }

func NewChargeRepoPG(pool *pgxpool.Pool) ChargeRepository { return &chargeRepoPG{pool: pool} }

func (r *chargeRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const chargeCols = `id, admission_id, description, amount, tax_percent, discount_percent,
	charged_at, created_at`

func (r *chargeRepoPG) Create(ctx context.Context, c *ChargeEntry) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ipd_charge (id, admission_id, description, amount, tax_percent, discount_percent, charged_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.AdmissionID, c.Description, c.Amount, c.TaxPercent, c.DiscountPercent, c.ChargedAt)
	return err
}

func (r *chargeRepoPG) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*ChargeEntry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+chargeCols+` FROM ipd_charge WHERE admission_id = $1 ORDER BY charged_at`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ChargeEntry
	for rows.Next() {
		var c ChargeEntry
		if err := rows.Scan(&c.ID, &c.AdmissionID, &c.Description, &c.Amount, &c.TaxPercent,
			&c.DiscountPercent, &c.ChargedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, nil
}

// =========== Payment Repository ===========

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository { return &paymentRepoPG{pool: pool} }

func (r *paymentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const paymentCols = `id, admission_id, amount, mode, to_credit, reference, note,
	paid_at, is_deleted, created_at`

func (r *paymentRepoPG) scanPayment(row pgx.Row) (*PaymentEntry, error) {
	var p PaymentEntry
	err := row.Scan(&p.ID, &p.AdmissionID, &p.Amount, &p.Mode, &p.ToCredit, &p.Reference,
		&p.Note, &p.PaidAt, &p.IsDeleted, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *paymentRepoPG) Create(ctx context.Context, p *PaymentEntry) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO ipd_payment (id, admission_id, amount, mode, to_credit, reference, note, paid_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.AdmissionID, p.Amount, p.Mode, p.ToCredit, p.Reference, p.Note, p.PaidAt)
	return err
}

func (r *paymentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*PaymentEntry, error) {
	return r.scanPayment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+paymentCols+` FROM ipd_payment WHERE id = $1`, id))
}

func (r *paymentRepoPG) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]*PaymentEntry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+paymentCols+` FROM ipd_payment WHERE admission_id = $1 AND is_deleted = false ORDER BY paid_at`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PaymentEntry
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

func (r *paymentRepoPG) SoftDelete(ctx context.Context, id uuid.UUID, admissionID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE ipd_payment SET is_deleted = true WHERE id = $1 AND admission_id = $2`, id, admissionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
