package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pivotprep/internal/errors"
)

func TestValidateFieldsExist(t *testing.T) {
	spec := Specification{
		Name: "Схемы",
		Fields: Fields{
			Rows: []string{"Схема на УРНЗ", "УНРЗ"},
			Values: []Value{
				{Field: "Потребность на год (ЕИ)", DisplayName: "Количество", Calculation: CalculationCount},
			},
		},
	}

	t.Run("all fields present", func(t *testing.T) {
		columns := []string{"УНРЗ", "Потребность на год (ЕИ)", "Схема на УРНЗ", "лишняя"}

		assert.NoError(t, ValidateFieldsExist(columns, spec))
	})

	t.Run("missing fields reported with payload", func(t *testing.T) {
		columns := []string{"УНРЗ", "лишняя"}

		err := ValidateFieldsExist(columns, spec)

		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFields))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Схемы", appErr.Context["report"])
		assert.Equal(t, []string{"Потребность на год (ЕИ)", "Схема на УРНЗ"}, appErr.Context["missing"])
		assert.Equal(t, []string{"УНРЗ", "лишняя"}, appErr.Context["available"])
	})

	t.Run("missing filter is not an error", func(t *testing.T) {
		filtered := spec
		filtered.Fields.Filters = []string{"нет такой"}
		columns := []string{"УНРЗ", "Потребность на год (ЕИ)", "Схема на УРНЗ"}

		assert.NoError(t, ValidateFieldsExist(columns, filtered))
	})

	t.Run("no columns at all", func(t *testing.T) {
		err := ValidateFieldsExist(nil, spec)

		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFields))
	})
}
