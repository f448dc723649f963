package cache

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"
)

type memoryCache struct {
	sync.RWMutex
	employees map[int64]*data.Employee //map[id]employee
	listing   []*data.Employee         //nil when not cached
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{employees: make(map[int64]*data.Employee)}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *memoryCache) Configure(envs map[string]string) error { return nil }

func (c *memoryCache) Open(ctx context.Context) error { return nil }

func (c *memoryCache) Close(ctx context.Context) error { return nil }

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[int64]*data.Employee)
	c.listing = nil
	return nil
}

func (c *memoryCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	employee, found := c.employees[id]
	if !found {
		c.Trace(ctx, "cache miss for employee: %d", id)
		return nil, ErrEmployeeNotCached
	}
	c.Trace(ctx, "cache hit for employee: %d", id)
	return employee.Copy(), nil
}

func (c *memoryCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	if c.listing == nil {
		c.Trace(ctx, "cache miss for employees")
		return nil, ErrEmployeesNotCached
	}
	c.Trace(ctx, "cache hit for employees")
	return copyEmployees(c.listing), nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	for _, employee := range employees {
		if !employee.HasId() {
			continue
		}
		c.employees[*employee.Id] = employee.Copy()
		c.Trace(ctx, "cached employee: %d", *employee.Id)
	}
	return nil
}

func (c *memoryCache) EmployeesListWrite(ctx context.Context, employees []*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	c.listing = copyEmployees(employees)
	for _, employee := range c.listing {
		if employee.HasId() {
			c.employees[*employee.Id] = employee.Copy()
		}
	}
	c.Trace(ctx, "cached employees (%d)", len(employees))
	return nil
}

func (c *memoryCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	c.Lock()
	defer c.Unlock()

	for _, id := range ids {
		delete(c.employees, id)
		c.Trace(ctx, "evicted cached employee: %d", id)
	}
	c.listing = nil
	return nil
}
