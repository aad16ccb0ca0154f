package importer

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

var medicineSchema = Schema{
	Columns: []Column{
		{Name: "name", Required: true},
		{Name: "category", Required: true, Reference: "category"},
		{Name: "company", Required: true, Reference: "company"},
		{Name: "unit", Required: true, Reference: "unit"},
		{Name: "group", Reference: "group"},
		{Name: "notes"},
	},
	NaturalKey: "name",
}

func testRefs() map[string]ReferenceIndex {
	return map[string]ReferenceIndex{
		"category": {"Analgesic": uuid.New(), "Antibiotic": uuid.New()},
		"company":  {"Acme Pharma": uuid.New()},
		"unit":     {"Tablet": uuid.New(), "Capsule": uuid.New()},
		"group":    {"OTC": uuid.New()},
	}
}

func header() []string {
	return []string{"name", "category", "company", "unit", "group", "notes"}
}

func TestValidateAllValid(t *testing.T) {
	grid := [][]string{
		header(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "OTC", ""},
		{"Amoxicillin", "Antibiotic", "Acme Pharma", "Capsule", "", "keep cool"},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if !res.OK() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Valid) != 2 {
		t.Fatalf("valid rows = %d, want 2", len(res.Valid))
	}
	if res.Valid[0].Number != 2 || res.Valid[1].Number != 3 {
		t.Errorf("row numbers = %d, %d; want 2, 3", res.Valid[0].Number, res.Valid[1].Number)
	}
	if res.Valid[0].Refs["category"] == uuid.Nil {
		t.Error("category reference not resolved")
	}
	if _, ok := res.Valid[1].Refs["group"]; ok {
		t.Error("empty optional reference should not resolve")
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	// Row 2 valid, row 3 missing "unit". Entire upload must be rejected.
	grid := [][]string{
		header(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{"Ibuprofen", "Analgesic", "Acme Pharma", "", "", ""},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if res.OK() {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %+v, want exactly 1", res.Errors)
	}
	e := res.Errors[0]
	if e.Row != 3 {
		t.Errorf("error row = %d, want 3", e.Row)
	}
	if e.Error != "Missing required fields" {
		t.Errorf("error = %q", e.Error)
	}
}

func TestValidateDuplicateWithinFile(t *testing.T) {
	grid := [][]string{
		header(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{"PARACETAMOL", "Analgesic", "Acme Pharma", "Tablet", "", ""},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if res.OK() {
		t.Fatal("expected duplicate error")
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Fatalf("errors = %+v, want one error on row 3", res.Errors)
	}
	if res.Errors[0].Error != "Duplicate in Excel" {
		t.Errorf("error = %q, want Duplicate in Excel", res.Errors[0].Error)
	}
}

func TestValidateDuplicateAgainstDB(t *testing.T) {
	grid := [][]string{
		header(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "", ""},
	}
	existing := map[string]bool{"paracetamol": true}

	res := Validate(grid, medicineSchema, testRefs(), existing)
	if res.OK() {
		t.Fatal("expected db duplicate error")
	}
	if !strings.Contains(res.Errors[0].Error, "already exists in DB") {
		t.Errorf("error = %q", res.Errors[0].Error)
	}
}

func TestValidateReferenceNotFound(t *testing.T) {
	grid := [][]string{
		header(),
		{"Paracetamol", "Painkillers", "Acme Pharma", "Tablet", "", ""},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if res.OK() {
		t.Fatal("expected reference error")
	}
	e := res.Errors[0]
	if !strings.Contains(e.Error, "category") || !strings.Contains(e.Error, "Painkillers") {
		t.Errorf("error should name the failed reference and value, got %q", e.Error)
	}
}

func TestValidateReferenceCaseSensitive(t *testing.T) {
	grid := [][]string{
		header(),
		{"Paracetamol", "analgesic", "Acme Pharma", "Tablet", "", ""},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if res.OK() {
		t.Fatal("reference lookup must be case-sensitive")
	}
}

func TestValidateBlankRowSkipped(t *testing.T) {
	grid := [][]string{
		header(),
		{"", "", "", "", "", ""},
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if !res.OK() {
		t.Fatalf("blank rows must not be errors: %+v", res.Errors)
	}
	if len(res.Valid) != 1 {
		t.Fatalf("valid rows = %d, want 1", len(res.Valid))
	}
	if res.Valid[0].Number != 3 {
		t.Errorf("row number = %d, want 3", res.Valid[0].Number)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	grid := [][]string{
		header(),
		{"", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{"Ibuprofen", "Nope", "Acme Pharma", "Tablet", "", ""},
		{"Aspirin", "Analgesic", "Acme Pharma", "Tablet", "", ""},
		{"aspirin", "Analgesic", "Acme Pharma", "Tablet", "", ""},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if len(res.Errors) != 3 {
		t.Fatalf("errors = %d, want 3 (missing field, bad ref, dup): %+v", len(res.Errors), res.Errors)
	}
	rows := []int{res.Errors[0].Row, res.Errors[1].Row, res.Errors[2].Row}
	want := []int{2, 3, 5}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("error %d on row %d, want %d", i, rows[i], want[i])
		}
	}
}

func TestValidateShortRow(t *testing.T) {
	// Rows may come back from the reader with trailing cells omitted.
	grid := [][]string{
		header(),
		{"Paracetamol", "Analgesic", "Acme Pharma", "Tablet"},
	}

	res := Validate(grid, medicineSchema, testRefs(), nil)
	if !res.OK() {
		t.Fatalf("short row with all required cells should pass: %+v", res.Errors)
	}
}
