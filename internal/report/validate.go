package report

import (
	apperrors "pivotprep/internal/errors"
)

// ValidateFieldsExist checks that every column the specification requires is
// present among the given column names. It returns a MISSING_TABLE_FIELDS
// error carrying the report name plus the available and missing column sets,
// or nil when all required columns are present. Validation is all-or-nothing;
// a report is never run against a partial column set.
func ValidateFieldsExist(columns []string, spec Specification) error {
	available := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		available[c] = struct{}{}
	}

	var missing []string
	for _, field := range RequiredFields(spec) {
		if _, ok := available[field]; !ok {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return apperrors.NewMissingFieldsError(spec.Name, columns, missing)
	}
	return nil
}
