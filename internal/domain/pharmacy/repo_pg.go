package pharmacy

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

// masterTables whitelists kind -> table to keep kinds out of raw SQL.
var masterTables = map[string]string{
	MasterCategory: "pharmacy_category",
	MasterCompany:  "pharmacy_company",
	MasterUnit:     "pharmacy_unit",
	MasterGroup:    "pharmacy_group",
}

func masterTable(kind string) (string, error) {
	t, ok := masterTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown master kind: %s", kind)
	}
	return t, nil
}

// =========== Master Repository ===========

type masterRepoPG struct{ pool *pgxpool.Pool }

func NewMasterRepoPG(pool *pgxpool.Pool) MasterRepository { return &masterRepoPG{pool: pool} }

func (r *masterRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *masterRepoPG) Create(ctx context.Context, kind string, m *Master) error {
	table, err := masterTable(kind)
	if err != nil {
		return err
	}
	m.ID = uuid.New()
	_, err = r.conn(ctx).Exec(ctx,
		`INSERT INTO `+table+` (id, name) VALUES ($1, $2)`, m.ID, m.Name)
	return err
}

func (r *masterRepoPG) GetByID(ctx context.Context, kind string, id uuid.UUID) (*Master, error) {
	table, err := masterTable(kind)
	if err != nil {
		return nil, err
	}
	var m Master
	err = r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, created_at FROM `+table+` WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *masterRepoPG) List(ctx context.Context, kind string) ([]*Master, error) {
	table, err := masterTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, created_at FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Master
	for rows.Next() {
		var m Master
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, nil
}

func (r *masterRepoPG) Delete(ctx context.Context, kind string, id uuid.UUID) error {
	table, err := masterTable(kind)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *masterRepoPG) Index(ctx context.Context, kind string) (map[string]uuid.UUID, error) {
	items, err := r.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]uuid.UUID, len(items))
	for _, m := range items {
		idx[m.Name] = m.ID
	}
	return idx, nil
}

// =========== Medicine Repository ===========

type medicineRepoPG struct{ pool *pgxpool.Pool }

func NewMedicineRepoPG(pool *pgxpool.Pool) MedicineRepository { return &medicineRepoPG{pool: pool} }

func (r *medicineRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const medicineCols = `id, name, category_id, company_id, unit_id, group_id, notes, created_at, updated_at`

func (r *medicineRepoPG) scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.CategoryID, &m.CompanyID, &m.UnitID,
		&m.GroupID, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pharmacy_medicine (id, name, category_id, company_id, unit_id, group_id, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.Name, m.CategoryID, m.CompanyID, m.UnitID, m.GroupID, m.Notes)
	return err
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return r.scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM pharmacy_medicine WHERE id = $1`, id))
}

func (r *medicineRepoPG) Update(ctx context.Context, m *Medicine) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE pharmacy_medicine SET name=$2, category_id=$3, company_id=$4,
			unit_id=$5, group_id=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.CategoryID, m.CompanyID, m.UnitID, m.GroupID, m.Notes)
	return err
}

func (r *medicineRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM pharmacy_medicine WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) List(ctx context.Context, query string, limit, offset int) ([]*Medicine, int, error) {
	where := ``
	args := []interface{}{}
	if query != "" {
		where = ` WHERE name ILIKE $1`
		args = append(args, "%"+query+"%")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM pharmacy_medicine`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + medicineCols + ` FROM pharmacy_medicine` + where +
		fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medicine
	for rows.Next() {
		m, err := r.scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *medicineRepoPG) ExistingNames(ctx context.Context) (map[string]bool, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT name FROM pharmacy_medicine`)
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

// =========== Stock Repository ===========

type stockRepoPG struct{ pool *pgxpool.Pool }

func NewStockRepoPG(pool *pgxpool.Pool) StockRepository { return &stockRepoPG{pool: pool} }

func (r *stockRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const stockCols = `id, medicine_id, batch_number, expiry_date, quantity, purchase_price, sale_price, created_at`

func (r *stockRepoPG) Create(ctx context.Context, s *StockEntry) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO pharmacy_stock (id, medicine_id, batch_number, expiry_date, quantity, purchase_price, sale_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.MedicineID, s.BatchNumber, s.ExpiryDate, s.Quantity, s.PurchasePrice, s.SalePrice)
	return err
}

func (r *stockRepoPG) ListByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*StockEntry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+stockCols+` FROM pharmacy_stock WHERE medicine_id = $1 ORDER BY expiry_date NULLS LAST`, medicineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*StockEntry
	for rows.Next() {
		var s StockEntry
		if err := rows.Scan(&s.ID, &s.MedicineID, &s.BatchNumber, &s.ExpiryDate,
			&s.Quantity, &s.PurchasePrice, &s.SalePrice, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, nil
}

func (r *stockRepoPG) TotalQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	var total int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM pharmacy_stock WHERE medicine_id = $1`, medicineID).Scan(&total)
	return total, err
}
