package employees

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/goliatone/go-staff-auth/middleware/validate"
)

const (
	MinSalary = 5000
	MaxSalary = 50000

	BirthDateLayout = "2006-01-02"
)

// Departments is the closed set of departments
var Departments = []string{
	"QA",
	"Development",
	"Audit",
	"Accounting",
	"Sales",
	"Management",
}

// Schema is the create body shape. Use Schema.Partial() for updates.
var Schema = validate.NewSchema(
	validate.Optional("id", validate.String, is.UUID),
	validate.Required("fullName", validate.String, validation.Required, validation.Length(2, 100)),
	validate.Optional("avatar", validate.String, is.URL),
	validate.Required("department", validate.String, validation.Required, validation.In(departmentValues()...)),
	validate.Required("birthDate", validate.String, validation.Required, validation.Date(BirthDateLayout)),
	validate.Required("salary", validate.Number,
		validation.Required,
		validation.Min(float64(MinSalary)),
		validation.Max(float64(MaxSalary)),
	),
)

func departmentValues() []any {
	out := make([]any, len(Departments))
	for i, d := range Departments {
		out[i] = d
	}
	return out
}
