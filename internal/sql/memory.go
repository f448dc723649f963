package sql

import (
	"context"
	"sort"
	"sync"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"
)

type memory struct {
	sync.RWMutex
	utilities.Logger
	employees map[int64]*data.Employee
	lastId    int64
}

// NewMemory returns a Sql that keeps employees in a map; it's meant for
// development and tests.
func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Sql
} {
	m := &memory{employees: make(map[int64]*data.Employee)}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		}
	}
	return m
}

func (m *memory) Configure(envs map[string]string) error { return nil }

func (m *memory) Open(ctx context.Context) error { return nil }

func (m *memory) Close(ctx context.Context) error { return nil }

func (m *memory) Clear(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()

	m.employees = make(map[int64]*data.Employee)
	return nil
}

func (m *memory) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()

	m.lastId++
	id := m.lastId
	stored := employee.Copy()
	stored.Id = &id
	stored.Dob = dob.Format(data.DateLayout)
	m.employees[id] = stored
	return stored.Copy(), nil
}

func (m *memory) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	m.RLock()
	defer m.RUnlock()

	employee, found := m.employees[id]
	if !found {
		return nil, data.ErrEmployeeNotFound
	}
	return employee.Copy(), nil
}

func (m *memory) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	m.RLock()
	defer m.RUnlock()

	employees := make([]*data.Employee, 0, len(m.employees))
	for _, employee := range m.employees {
		employees = append(employees, employee.Copy())
	}
	sort.Slice(employees, func(i, j int) bool {
		return *employees[i].Id < *employees[j].Id
	})
	return employees, nil
}

func (m *memory) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}

	m.Lock()
	defer m.Unlock()

	if _, found := m.employees[id]; !found {
		return nil, data.ErrEmployeeNotFound
	}
	stored := employee.Copy()
	stored.Id = &id
	stored.Dob = dob.Format(data.DateLayout)
	m.employees[id] = stored
	return stored.Copy(), nil
}

func (m *memory) EmployeeDelete(ctx context.Context, id int64) error {
	m.Lock()
	defer m.Unlock()

	if _, found := m.employees[id]; !found {
		return data.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}
