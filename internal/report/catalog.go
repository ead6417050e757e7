package report

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "pivotprep/internal/errors"
)

// Catalog is the ordered collection of report specifications known at
// process start. Runs select a subset of it by name.
type Catalog struct {
	Reports []Specification `yaml:"reports" validate:"required,min=1,unique=Name,dive"`
}

// DefaultCatalog returns the built-in report set for the drug demand
// workbooks this tool was written for. A catalog file replaces it wholesale.
func DefaultCatalog() Catalog {
	return Catalog{
		Reports: []Specification{
			{
				Name: "Потребность в препаратах",
				Fields: Fields{
					Rows: []string{"МНН+Дозировка"},
					Values: []Value{
						{
							Field:        "УНРЗ",
							DisplayName:  "Количество по полю УНРЗ",
							Calculation:  CalculationCount,
							NumberFormat: DefaultNumberFormat,
						},
						{
							Field:        "Потребность на год (ЕИ)",
							DisplayName:  "Сумма по полю Потребность на год (ЕИ)",
							Calculation:  CalculationSum,
							NumberFormat: DefaultNumberFormat,
						},
					},
				},
			},
			{
				Name: "Схемы",
				Fields: Fields{
					Rows: []string{"Схема на УРНЗ", "УНРЗ"},
					Values: []Value{
						{
							Field:        "Потребность на год (ЕИ)",
							DisplayName:  "Количество по полю Потребность на год (ЕИ)",
							Calculation:  CalculationCount,
							NumberFormat: DefaultNumberFormat,
						},
					},
				},
			},
		},
	}
}

// LoadCatalog reads the report catalog from the given YAML file. A missing
// file is not an error; the built-in catalog is used instead. Whatever the
// source, the catalog is validated before it is returned.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var loaded Catalog
			if err := yaml.Unmarshal(data, &loaded); err != nil {
				return Catalog{}, apperrors.NewConfigError(
					fmt.Sprintf("cannot parse report catalog %s", path), err)
			}
			catalog = loaded
		case !os.IsNotExist(err):
			return Catalog{}, apperrors.NewConfigError(
				fmt.Sprintf("cannot read report catalog %s", path), err)
		}
	}

	applyDefaults(&catalog)
	if err := validateCatalog(catalog); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// Get returns the specification with the given name.
func (c Catalog) Get(name string) (Specification, bool) {
	for _, spec := range c.Reports {
		if spec.Name == name {
			return spec, true
		}
	}
	return Specification{}, false
}

// Names returns the report names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.Reports))
	for i, spec := range c.Reports {
		names[i] = spec.Name
	}
	return names
}

// Select resolves the given report names against the catalog, preserving
// catalog order. An unknown name is a configuration error.
func (c Catalog) Select(names []string) ([]Specification, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = false
	}

	var selected []Specification
	for _, spec := range c.Reports {
		if _, ok := wanted[spec.Name]; ok {
			selected = append(selected, spec)
			wanted[spec.Name] = true
		}
	}

	for name, found := range wanted {
		if !found {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("unknown report %q (catalog has: %s)", name, strings.Join(c.Names(), ", ")), nil).
				WithContext("report", name)
		}
	}
	return selected, nil
}

func applyDefaults(c *Catalog) {
	for i := range c.Reports {
		values := c.Reports[i].Fields.Values
		for j := range values {
			if values[j].NumberFormat == "" {
				values[j].NumberFormat = DefaultNumberFormat
			}
		}
	}
}

func validateCatalog(c Catalog) error {
	if err := newCatalogValidator().Struct(c); err != nil {
		return catalogValidationError(err)
	}
	return nil
}

func newCatalogValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("calculation", isCalculation)
	v.RegisterStructValidation(validateFieldRoles, Fields{})

	// Use YAML tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isCalculation validates the aggregation enum
func isCalculation(fl validator.FieldLevel) bool {
	switch Calculation(fl.Field().String()) {
	case CalculationSum, CalculationAverage, CalculationCount:
		return true
	}
	return false
}

// validateFieldRoles rejects a column name claimed by more than one axis
// role. The same field may back several values (e.g. a sum and a count), so
// repeats inside the values role are allowed.
func validateFieldRoles(sl validator.StructLevel) {
	fields := sl.Current().Interface().(Fields)

	roles := make(map[string]string)
	claim := func(names []string, role string) {
		for _, name := range names {
			if prev, ok := roles[name]; ok && prev != role {
				sl.ReportError(name, role, role, "fieldroles", name)
				continue
			}
			roles[name] = role
		}
	}

	claim(fields.Rows, "rows")
	claim(fields.Columns, "columns")
	claim(fields.Filters, "filters")

	valueFields := make([]string, 0, len(fields.Values))
	for _, v := range fields.Values {
		valueFields = append(valueFields, v.Field)
	}
	claim(valueFields, "values")
}

func catalogValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewConfigError("invalid report catalog", err)
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "calculation":
			parts = append(parts, fmt.Sprintf("%s: unknown calculation %q", fe.Namespace(), fe.Value()))
		case "fieldroles":
			parts = append(parts, fmt.Sprintf("%s: column %q assigned to more than one role", fe.Namespace(), fe.Param()))
		case "unique":
			parts = append(parts, fmt.Sprintf("%s: duplicate entries", fe.Namespace()))
		default:
			parts = append(parts, fmt.Sprintf("%s: failed %q validation", fe.Namespace(), fe.Tag()))
		}
	}
	return apperrors.NewConfigError("invalid report catalog: "+strings.Join(parts, "; "), err)
}
