package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	auth "github.com/goliatone/go-staff-auth"
)

// Service is the employee domain logic
type Service struct {
	store  Store
	logger auth.Logger
	newID  func() string
}

// NewService creates a service backed by store
func NewService(store Store) *Service {
	return &Service{
		store:  store,
		logger: auth.DefaultLogger(),
		newID:  uuid.NewString,
	}
}

func (s *Service) WithLogger(logger auth.Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithIDGenerator overrides how ids are generated
func (s *Service) WithIDGenerator(fn func() string) *Service {
	if fn != nil {
		s.newID = fn
	}
	return s
}

// List returns all employees, optionally filtered by department
func (s *Service) List(ctx context.Context, department string) ([]Employee, error) {
	items, err := s.store.List(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if items == nil {
		items = []Employee{}
	}
	s.logger.Debug("found %d employees (department=%q)", len(items), department)
	return items, nil
}

// Create adds an employee, generating an id when none is given
func (s *Service) Create(ctx context.Context, employee Employee) (Employee, error) {
	if employee.ID == "" {
		employee.ID = s.newID()
	}

	if err := s.store.Insert(ctx, employee); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return Employee{}, auth.AlreadyExists("Employee with id %s already exists", employee.ID)
		}
		return Employee{}, fmt.Errorf("create employee: %w", err)
	}

	s.logger.Info("employee created with id: %s", employee.ID)
	return employee, nil
}

// Update applies patch to the employee with id
func (s *Service) Update(ctx context.Context, id string, patch Patch) (Employee, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, s.mapError(err, id, "get employee")
	}

	updated := patch.Apply(current)
	updated.ID = current.ID

	if err := s.store.Update(ctx, updated); err != nil {
		return Employee{}, s.mapError(err, id, "update employee")
	}

	s.logger.Info("employee updated: %s", id)
	return updated, nil
}

// Delete removes the employee with id and returns it
func (s *Service) Delete(ctx context.Context, id string) (Employee, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return Employee{}, s.mapError(err, id, "delete employee")
	}

	s.logger.Info("employee deleted: %s", id)
	return deleted, nil
}

func (s *Service) mapError(err error, id, op string) error {
	if errors.Is(err, ErrNotFound) {
		return auth.NotFound("Employee with id %s not found", id)
	}
	return fmt.Errorf("%s: %w", op, err)
}
