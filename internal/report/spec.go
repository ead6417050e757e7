package report

import (
	"sort"
	"strings"
)

// Calculation is the aggregation applied to a value field in a pivot report.
type Calculation string

const (
	CalculationSum     Calculation = "sum"
	CalculationAverage Calculation = "average"
	CalculationCount   Calculation = "count"
)

// DefaultNumberFormat is applied to a Value that does not name its own
// spreadsheet number format.
const DefaultNumberFormat = "0"

// UnmarshalYAML normalizes the calculation spelling so catalog files can use
// any case and the short "avg" form. Unknown spellings pass through unchanged
// and are rejected by catalog validation.
func (c *Calculation) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sum":
		*c = CalculationSum
	case "avg", "average":
		*c = CalculationAverage
	case "count":
		*c = CalculationCount
	default:
		*c = Calculation(raw)
	}
	return nil
}

// Value is a single measure to aggregate in a report.
type Value struct {
	// Field names a column of the normalized table
	Field string `yaml:"field" validate:"required"`
	// DisplayName is the label the rendered pivot shows for this measure
	DisplayName string `yaml:"display_name" validate:"required"`
	// Calculation selects the aggregation; COUNT works on any column,
	// SUM and AVERAGE require the column to coerce to numeric
	Calculation Calculation `yaml:"calculation" validate:"required,calculation"`
	// NumberFormat is the spreadsheet number format for the aggregated cells
	NumberFormat string `yaml:"number_format,omitempty"`
}

// Fields assigns table columns to the four axis roles of a pivot report.
// A column name must not appear in more than one role.
type Fields struct {
	Values  []Value  `yaml:"values" validate:"required,min=1,dive"`
	Rows    []string `yaml:"rows,omitempty" validate:"omitempty,unique,dive,required"`
	Columns []string `yaml:"columns,omitempty" validate:"omitempty,unique,dive,required"`
	Filters []string `yaml:"filters,omitempty" validate:"omitempty,unique,dive,required"`
}

// Specification is one named pivot report declared ahead of a run. It is
// immutable configuration; a run validates and renders a caller-selected
// subset of specifications against one normalized table.
type Specification struct {
	Name   string `yaml:"name" validate:"required"`
	Fields Fields `yaml:"fields"`
}

// RequiredFields returns the sorted set of column names the specification
// needs in the normalized table: the row and column axes plus every value
// field. Filter columns are not part of the required set.
func RequiredFields(spec Specification) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(spec.Fields.Rows)+len(spec.Fields.Columns)+len(spec.Fields.Values))
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, f := range spec.Fields.Rows {
		add(f)
	}
	for _, f := range spec.Fields.Columns {
		add(f)
	}
	for _, v := range spec.Fields.Values {
		add(v.Field)
	}

	sort.Strings(out)
	return out
}
