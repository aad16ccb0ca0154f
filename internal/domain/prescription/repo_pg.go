package prescription

import (
	"context"

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

const rxCols = `id, patient_id, prescriber, prescribed_at, diagnosis_note, created_at`

func (r *repoPG) scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.Prescriber, &p.PrescribedAt, &p.DiagnosisNote, &p.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	conn := r.conn(ctx)
	_, err := conn.Exec(ctx, `
		INSERT INTO prescription (id, patient_id, prescriber, prescribed_at, diagnosis_note)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.PatientID, p.Prescriber, p.PrescribedAt, p.DiagnosisNote)
	if err != nil {
		return err
	}
	for _, item := range p.Items {
		item.ID = uuid.New()
		item.PrescriptionID = p.ID
		if _, err := conn.Exec(ctx, `
			INSERT INTO prescription_item (id, prescription_id, sequence, medicine_id,
				medicine_name, dosage, frequency, duration_days, instructions)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			item.ID, item.PrescriptionID, item.Sequence, item.MedicineID,
			item.MedicineName, item.Dosage, item.Frequency, item.DurationDays, item.Instructions); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, err := r.scanRx(r.conn(ctx).QueryRow(ctx, `SELECT `+rxCols+` FROM prescription WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Items = items
	return p, nil
}

func (r *repoPG) GetItems(ctx context.Context, prescriptionID uuid.UUID) ([]*PrescriptionItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, prescription_id, sequence, medicine_id, medicine_name,
			dosage, frequency, duration_days, instructions
		FROM prescription_item WHERE prescription_id = $1 ORDER BY sequence`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*PrescriptionItem
	for rows.Next() {
		var it PrescriptionItem
		if err := rows.Scan(&it.ID, &it.PrescriptionID, &it.Sequence, &it.MedicineID, &it.MedicineName,
			&it.Dosage, &it.Frequency, &it.DurationDays, &it.Instructions); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescription WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+rxCols+` FROM prescription WHERE patient_id = $1 ORDER BY prescribed_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := r.scanRx(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
