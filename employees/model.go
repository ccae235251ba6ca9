package employees

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned by stores for unknown ids
	ErrNotFound = errors.New("employee not found")
	// ErrAlreadyExists is returned by stores for duplicate ids
	ErrAlreadyExists = errors.New("employee already exists")
)

// Employee is the employee model
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:emp"`
	ID            string  `bun:"id,pk" json:"id"`
	FullName      string  `bun:"full_name,notnull" json:"fullName"`
	Avatar        string  `bun:"avatar" json:"avatar,omitempty"`
	Department    string  `bun:"department,notnull" json:"department"`
	BirthDate     string  `bun:"birth_date,notnull" json:"birthDate"`
	Salary        float64 `bun:"salary,notnull" json:"salary"`
}

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	FullName   *string  `json:"fullName,omitempty"`
	Avatar     *string  `json:"avatar,omitempty"`
	Department *string  `json:"department,omitempty"`
	BirthDate  *string  `json:"birthDate,omitempty"`
	Salary     *float64 `json:"salary,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Avatar == nil && p.Department == nil &&
		p.BirthDate == nil && p.Salary == nil
}

// Apply returns e with the patch applied
func (p Patch) Apply(e Employee) Employee {
	if p.FullName != nil {
		e.FullName = *p.FullName
	}
	if p.Avatar != nil {
		e.Avatar = *p.Avatar
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.BirthDate != nil {
		e.BirthDate = *p.BirthDate
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}
	return e
}

// Store persists employees
type Store interface {
	List(ctx context.Context, department string) ([]Employee, error)
	Get(ctx context.Context, id string) (Employee, error)
	Insert(ctx context.Context, employee Employee) error
	Update(ctx context.Context, employee Employee) error
	Delete(ctx context.Context, id string) (Employee, error)
	// Close flushes pending state and releases resources
	Close(ctx context.Context) error
}
