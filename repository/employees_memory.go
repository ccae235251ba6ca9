package repository

import (
	"context"
	"sync"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/employees"
)

// MemoryEmployees keeps employees in a map. When backed by a FileStorage
// the map is loaded on creation and flushed on Close if it changed.
type MemoryEmployees struct {
	mu      sync.RWMutex
	items   map[string]employees.Employee
	order   []string
	updated bool
	file    *FileStorage
	logger  auth.Logger
}

var _ employees.Store = (*MemoryEmployees)(nil)

// NewMemoryEmployees creates an empty store seeded with items
func NewMemoryEmployees(items ...employees.Employee) *MemoryEmployees {
	m := &MemoryEmployees{
		items:  make(map[string]employees.Employee, len(items)),
		logger: auth.DefaultLogger(),
	}
	for _, item := range items {
		if _, exists := m.items[item.ID]; exists {
			continue
		}
		m.items[item.ID] = item
		m.order = append(m.order, item.ID)
	}
	return m
}

// NewFileBackedEmployees loads the store from file
func NewFileBackedEmployees(file *FileStorage) (*MemoryEmployees, error) {
	items, err := file.Load()
	if err != nil {
		return nil, err
	}
	m := NewMemoryEmployees(items...)
	m.file = file
	return m, nil
}

func (m *MemoryEmployees) WithLogger(logger auth.Logger) *MemoryEmployees {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// List returns employees in insertion order
func (m *MemoryEmployees) List(_ context.Context, department string) ([]employees.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]employees.Employee, 0, len(m.order))
	for _, id := range m.order {
		item := m.items[id]
		if department != "" && item.Department != department {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MemoryEmployees) Get(_ context.Context, id string) (employees.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[id]
	if !ok {
		return employees.Employee{}, employees.ErrNotFound
	}
	return item, nil
}

func (m *MemoryEmployees) Insert(_ context.Context, employee employees.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[employee.ID]; exists {
		return employees.ErrAlreadyExists
	}
	m.items[employee.ID] = employee
	m.order = append(m.order, employee.ID)
	m.updated = true
	return nil
}

func (m *MemoryEmployees) Update(_ context.Context, employee employees.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[employee.ID]; !exists {
		return employees.ErrNotFound
	}
	m.items[employee.ID] = employee
	m.updated = true
	return nil
}

func (m *MemoryEmployees) Delete(_ context.Context, id string) (employees.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[id]
	if !exists {
		return employees.Employee{}, employees.ErrNotFound
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.updated = true
	return item, nil
}

// IsUpdated reports whether the store changed since it was loaded or flushed
func (m *MemoryEmployees) IsUpdated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updated
}

// Flush writes the store to its file if it changed
func (m *MemoryEmployees) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}

	if !m.updated {
		m.logger.Info("no employee changes detected, nothing to save")
		return nil
	}

	items := make([]employees.Employee, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id])
	}

	if err := m.file.Save(items); err != nil {
		return err
	}

	m.updated = false
	m.logger.Info("saved %d employees to %s", len(items), m.file.Path())
	return nil
}

// Close flushes pending changes
func (m *MemoryEmployees) Close(_ context.Context) error {
	return m.Flush()
}
