package diagnostics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/domain/ipd"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/importer"
)

// LabTestImportColumns is the fixed column order of a catalog upload.
var LabTestImportColumns = []string{"name", "modality", "charge"}

var labTestImportSchema = importer.Schema{
	Columns: []importer.Column{
		{Name: "name", Required: true},
		{Name: "modality", Required: true},
		{Name: "charge", Required: true},
	},
	NaturalKey: "name",
}

// AdmissionBiller posts diagnostic charges onto an admission when an order
// completes. Satisfied by the ipd service.
type AdmissionBiller interface {
	AddCharge(ctx context.Context, c *ipd.ChargeEntry) error
}

type Service struct {
	tests  LabTestRepository
	orders OrderRepository
	biller AdmissionBiller
	pool   *pgxpool.Pool
}

// NewService builds the diagnostics service. biller may be nil when IPD
// billing is not wired (orders then complete without posting charges); pool
// may be nil in tests.
func NewService(tests LabTestRepository, orders OrderRepository, biller AdmissionBiller, pool *pgxpool.Pool) *Service {
	return &Service{tests: tests, orders: orders, biller: biller, pool: pool}
}

// -- Catalog --

func (s *Service) CreateLabTest(ctx context.Context, t *LabTest) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validModalities[t.Modality] {
		return fmt.Errorf("modality must be radiology or pathology")
	}
	if t.Charge < 0 {
		return fmt.Errorf("charge must not be negative")
	}
	return s.tests.Create(ctx, t)
}

func (s *Service) GetLabTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return s.tests.GetByID(ctx, id)
}

func (s *Service) UpdateLabTest(ctx context.Context, t *LabTest) error {
	if _, err := s.tests.GetByID(ctx, t.ID); err != nil {
		return err
	}
	if t.Modality != "" && !validModalities[t.Modality] {
		return fmt.Errorf("modality must be radiology or pathology")
	}
	return s.tests.Update(ctx, t)
}

func (s *Service) DeleteLabTest(ctx context.Context, id uuid.UUID) error {
	return s.tests.Delete(ctx, id)
}

func (s *Service) ListLabTests(ctx context.Context, modality string, limit, offset int) ([]*LabTest, int, error) {
	if modality != "" && !validModalities[modality] {
		return nil, 0, fmt.Errorf("modality must be radiology or pathology")
	}
	return s.tests.List(ctx, modality, limit, offset)
}

// ImportLabTests validates a catalog upload (columns: name, modality,
// charge) and inserts all rows or none. Modality and charge values get a
// domain check on top of the generic pass; those failures join the same
// error list so one upload reports everything.
func (s *Service) ImportLabTests(ctx context.Context, grid [][]string) (importer.Report, error) {
	existing, err := s.tests.ExistingNames(ctx)
	if err != nil {
		return importer.Report{}, fmt.Errorf("loading existing tests: %w", err)
	}

	res := importer.Validate(grid, labTestImportSchema, nil, existing)

	var valid []*LabTest
	for _, row := range res.Valid {
		modality := row.Values["modality"]
		if !validModalities[modality] {
			res.Errors = append(res.Errors, importer.RowError{
				Row:   row.Number,
				Error: fmt.Sprintf("modality %q must be radiology or pathology", modality),
				Data:  row.Values,
			})
			continue
		}
		charge, err := strconv.ParseFloat(row.Values["charge"], 64)
		if err != nil || charge < 0 {
			res.Errors = append(res.Errors, importer.RowError{
				Row:   row.Number,
				Error: fmt.Sprintf("charge %q must be a non-negative number", row.Values["charge"]),
				Data:  row.Values,
			})
			continue
		}
		valid = append(valid, &LabTest{Name: row.Values["name"], Modality: modality, Charge: charge})
	}
	sort.Slice(res.Errors, func(i, j int) bool { return res.Errors[i].Row < res.Errors[j].Row })

	if len(res.Errors) > 0 {
		return res.Report(0), nil
	}

	insert := func(txCtx context.Context) error {
		for _, t := range valid {
			if err := s.tests.Create(txCtx, t); err != nil {
				return err
			}
		}
		return nil
	}

	if s.pool == nil {
		err = insert(ctx)
	} else {
		err = db.WithTx(ctx, s.pool, insert)
	}
	if err != nil {
		return importer.Report{}, err
	}
	return res.Report(len(valid)), nil
}

// -- Orders --

func (s *Service) CreateOrder(ctx context.Context, o *TestOrder) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if _, err := s.tests.GetByID(ctx, o.LabTestID); err != nil {
		return fmt.Errorf("lab test not found")
	}
	o.Status = StatusOrdered
	if o.OrderedAt.IsZero() {
		o.OrderedAt = time.Now().UTC()
	}
	return s.orders.Create(ctx, o)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*TestOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) ListOrdersByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*TestOrder, int, error) {
	return s.orders.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListOrdersByStatus(ctx context.Context, status string, limit, offset int) ([]*TestOrder, int, error) {
	return s.orders.ListByStatus(ctx, status, limit, offset)
}

// AdvanceOrder applies one workflow transition. Completing requires
// in-progress status and, for admitted patients, posts the test's charge to
// the admission.
func (s *Service) AdvanceOrder(ctx context.Context, id uuid.UUID, status string, resultText *string) (*TestOrder, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(o.Status, status) {
		return nil, fmt.Errorf("cannot move order from %s to %s", o.Status, status)
	}

	now := time.Now().UTC()
	switch status {
	case StatusSampleCollected:
		o.SampleCollectedAt = &now
	case StatusCompleted:
		o.CompletedAt = &now
		o.ResultText = resultText
	}
	o.Status = status

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if status == StatusCompleted && o.AdmissionID != nil && s.biller != nil {
		t, err := s.tests.GetByID(ctx, o.LabTestID)
		if err != nil {
			return nil, err
		}
		charge := &ipd.ChargeEntry{
			AdmissionID:     *o.AdmissionID,
			Description:     t.Name,
			Amount:          t.Charge,
			TaxPercent:      t.TaxPercent,
			DiscountPercent: t.DiscountPercent,
			ChargedAt:       now,
		}
		if err := s.biller.AddCharge(ctx, charge); err != nil {
			return nil, fmt.Errorf("posting admission charge: %w", err)
		}
	}

	return o, nil
}
