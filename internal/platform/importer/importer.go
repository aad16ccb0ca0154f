// Package importer validates tabular bulk uploads against required-field,
// referential-integrity, and duplicate rules. Validation never short-circuits;
// every row error is collected so one upload surfaces every problem at once.
// If any row fails, the whole upload is rejected and nothing is inserted.
package importer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Column describes one position in the fixed column order of an import file.
type Column struct {
	Name     string
	Required bool
	// Reference names the ReferenceIndex this column's value must resolve
	// against. Empty means the value is taken verbatim.
	Reference string
}

// Schema is the fixed column layout for one entity type. NaturalKey names the
// column whose lower-cased value must be unique within the file and against
// already-persisted records.
type Schema struct {
	Columns    []Column
	NaturalKey string
}

// ReferenceIndex maps master-record names to their ids. Lookups are
// case-sensitive and exact.
type ReferenceIndex map[string]uuid.UUID

// RowError is one failed row. Row is the 1-based spreadsheet row number
// (header is row 1, data starts at row 2).
type RowError struct {
	Row   int               `json:"row"`
	Error string            `json:"error"`
	Data  map[string]string `json:"data,omitempty"`
}

// Row is a validated data row ready for insert.
type Row struct {
	Number int
	Values map[string]string
	Refs   map[string]uuid.UUID
}

// Result is the outcome of validating a full upload.
type Result struct {
	Valid  []Row
	Errors []RowError
}

// OK reports whether the upload may be inserted. Any row error rejects the
// entire file, including rows that were individually valid.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Report is the wire shape returned to upload callers.
type Report struct {
	Success  bool       `json:"success"`
	Inserted int        `json:"inserted"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Report converts the validation outcome into the response contract.
// inserted is the number of rows actually persisted; it must be zero
// whenever any row error exists.
func (r Result) Report(inserted int) Report {
	return Report{
		Success:  r.OK(),
		Inserted: inserted,
		Failed:   len(r.Errors),
		Errors:   r.Errors,
	}
}

// Validate checks every data row of the grid against the schema. The first
// row is treated as the header and skipped. Blank rows (every schema cell
// empty) are silently skipped. existingKeys holds the lower-cased natural
// keys already persisted for this tenant.
func Validate(grid [][]string, schema Schema, refs map[string]ReferenceIndex, existingKeys map[string]bool) Result {
	var result Result
	seen := make(map[string]bool)

	keyIdx := -1
	for i, col := range schema.Columns {
		if col.Name == schema.NaturalKey {
			keyIdx = i
		}
	}

	for i, raw := range grid {
		if i == 0 {
			continue // header
		}
		rowNum := i + 1

		values := make(map[string]string, len(schema.Columns))
		blank := true
		for ci, col := range schema.Columns {
			var v string
			if ci < len(raw) {
				v = strings.TrimSpace(raw[ci])
			}
			values[col.Name] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		var missing []string
		for _, col := range schema.Columns {
			if col.Required && values[col.Name] == "" {
				missing = append(missing, col.Name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, RowError{
				Row:   rowNum,
				Error: "Missing required fields",
				Data:  values,
			})
			continue
		}

		resolved := make(map[string]uuid.UUID)
		refFailed := false
		for _, col := range schema.Columns {
			if col.Reference == "" || values[col.Name] == "" {
				continue
			}
			idx, ok := refs[col.Reference]
			if !ok {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNum,
					Error: fmt.Sprintf("Unknown reference kind %q", col.Reference),
					Data:  values,
				})
				refFailed = true
				break
			}
			id, ok := idx[values[col.Name]]
			if !ok {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNum,
					Error: fmt.Sprintf("%s %q not found", col.Reference, values[col.Name]),
					Data:  values,
				})
				refFailed = true
				break
			}
			resolved[col.Name] = id
		}
		if refFailed {
			continue
		}

		if keyIdx >= 0 {
			key := strings.ToLower(values[schema.NaturalKey])
			if seen[key] {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNum,
					Error: "Duplicate in Excel",
					Data:  values,
				})
				continue
			}
			seen[key] = true

			if existingKeys[key] {
				result.Errors = append(result.Errors, RowError{
					Row:   rowNum,
					Error: "already exists in DB",
					Data:  values,
				})
				continue
			}
		}

		result.Valid = append(result.Valid, Row{
			Number: rowNum,
			Values: values,
			Refs:   resolved,
		})
	}

	return result
}
