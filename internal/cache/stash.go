package cache

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

type stashCache struct {
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

func stashKeyEmployee(id int64) string {
	return fmt.Sprintf("employee_%d", id)
}

const stashKeyEmployees string = "employees"

// NewStash wraps a go-stash implementation (memory or redis) handed in as
// a parameter; the remaining parameters are passed on to it.
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Error(ctx context.Context, format string, v ...any) {
	if c.logger != nil {
		c.logger.Error(ctx, format, v...)
	}
}

func (c *stashCache) Trace(ctx context.Context, format string, v ...any) {
	if c.logger != nil {
		c.logger.Trace(ctx, format, v...)
	}
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash == nil {
		return fmt.Errorf("no stash provided")
	}
	return c.stash.Initialize()
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	return c.Stasher.Clear()
}

func (c *stashCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	employee := &data.Employee{}
	if err := c.Stasher.Read(stashKeyEmployee(id), employee); err != nil {
		c.Trace(ctx, "cache miss for employee: %d (%s)", id, err)
		return nil, ErrEmployeeNotCached
	}
	c.Trace(ctx, "cache hit for employee: %d", id)
	return employee, nil
}

func (c *stashCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	employees := data.Employees{}
	if err := c.Stasher.Read(stashKeyEmployees, &employees); err != nil {
		c.Trace(ctx, "cache miss for employees (%s)", err)
		return nil, ErrEmployeesNotCached
	}
	c.Trace(ctx, "cache hit for employees")
	return employees, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	for _, employee := range employees {
		if !employee.HasId() {
			continue
		}
		if _, err := c.Stasher.Write(stashKeyEmployee(*employee.Id), employee); err != nil {
			// we don't care about the error here, but it does make the caching
			// incomplete
			c.Error(ctx, "error while writing employee (%d): %s", *employee.Id, err)
			continue
		}
		c.Trace(ctx, "cached employee: %d", *employee.Id)
	}
	return nil
}

func (c *stashCache) EmployeesListWrite(ctx context.Context, employees []*data.Employee) error {
	listing := data.Employees(employees)
	if _, err := c.Stasher.Write(stashKeyEmployees, &listing); err != nil {
		c.Error(ctx, "error while writing employees: %s", err)
		return err
	}
	c.Trace(ctx, "cached employees (%d)", len(employees))
	return c.EmployeesWrite(ctx, employees...)
}

func (c *stashCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	if err := c.Stasher.Delete(stashKeyEmployees); err != nil {
		c.Trace(ctx, "unable to evict employees: %s", err)
	}
	for _, id := range ids {
		if err := c.Stasher.Delete(stashKeyEmployee(id)); err != nil {
			c.Trace(ctx, "unable to evict employee (%d): %s", id, err)
			continue
		}
		c.Trace(ctx, "evicted cached employee: %d", id)
	}
	return nil
}
