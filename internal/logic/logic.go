package logic

import (
	"context"
	"strconv"
	"sync"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/cache"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/sql"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"
)

// Logic is the backend behind the employees endpoints: it validates
// records, reads through the cache and evicts it on every mutation.
type Logic interface {
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
}

type logic struct {
	sync.RWMutex
	sql.Sql
	cache   cache.Cache
	counter utilities.Counter
	utilities.Logger
	cacheMutex sync.Mutex
	generation int64 //incremented on every eviction
	config struct {
		cacheEnabled   bool
		mutateDisabled bool
	}
}

func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Logic
} {
	l := &logic{}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case sql.Sql:
			l.Sql = v
		case cache.Cache:
			l.cache = v
		case utilities.Counter:
			l.counter = v
		case utilities.Logger:
			l.Logger = v
		}
	}
	if l.Logger == nil {
		l.Logger = utilities.NewLogger()
	}
	if l.counter == nil {
		l.counter = utilities.NewCounter()
	}
	return l
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	l.config.cacheEnabled = l.cache != nil
	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok && cacheEnabled != "" {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if mutateDisabled, ok := envs["MUTATE_DISABLED"]; ok && mutateDisabled != "" {
		l.config.mutateDisabled, _ = strconv.ParseBool(mutateDisabled)
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.config.cacheEnabled && l.cache == nil {
		l.Info(ctx, "cache enabled, but no cache configured")
		l.config.cacheEnabled = false
	}
	if l.config.cacheEnabled {
		l.Info(ctx, "cache enabled")
	}
	if l.config.mutateDisabled {
		l.Info(ctx, "mutation disabled")
	}
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	return nil
}

func (l *logic) cacheEnabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.cacheEnabled
}

func (l *logic) mutateDisabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.mutateDisabled
}

func validate(employee data.Employee) error {
	validationErrors := data.Validate(employee)
	for field, message := range data.ValidateFormat(employee) {
		if _, found := validationErrors[field]; !found {
			validationErrors[field] = message
		}
	}
	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func (l *logic) cacheGeneration() int64 {
	l.cacheMutex.Lock()
	defer l.cacheMutex.Unlock()
	return l.generation
}

func (l *logic) cacheEvict(ctx context.Context, ids ...int64) {
	if !l.cacheEnabled() {
		return
	}
	l.cacheMutex.Lock()
	defer l.cacheMutex.Unlock()

	l.generation++
	if err := l.cache.EmployeesDelete(ctx, ids...); err != nil {
		l.Error(ctx, "error while deleting employees %v from cache: %s", ids, err)
	}
}

// cacheWrite runs write only if nothing was evicted since generation was
// read. A read that raced a mutation must not cache what it saw.
func (l *logic) cacheWrite(ctx context.Context, generation int64, write func() error) error {
	l.cacheMutex.Lock()
	defer l.cacheMutex.Unlock()

	if l.generation != generation {
		l.Trace(ctx, "cache evicted during read, skipping write (generation %d != %d)",
			l.generation, generation)
		return nil
	}
	return write()
}

func (l *logic) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, data.ErrMutationDisabled
	}
	if err := validate(employee); err != nil {
		return nil, err
	}
	employee.Id = nil
	employeeCreated, err := l.Sql.EmployeeCreate(ctx, employee)
	if err != nil {
		return nil, err
	}
	l.cacheEvict(ctx)
	return employeeCreated, nil
}

func (l *logic) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	key := data.CounterKeyEmployee(id)
	generation := l.cacheGeneration()
	if l.cacheEnabled() {
		employee, err := l.cache.EmployeeRead(ctx, id)
		if err == nil {
			l.counter.IncrementHit(key)
			return employee, nil
		}
		l.counter.IncrementMiss(key)
		l.Trace(ctx, "error while reading employee (%d) from cache: %s", id, err)
	}
	employee, err := l.Sql.EmployeeRead(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.cacheEnabled() {
		if err := l.cacheWrite(ctx, generation, func() error {
			return l.cache.EmployeesWrite(ctx, employee)
		}); err != nil {
			l.Error(ctx, "error while writing employee (%d) to cache: %s", id, err)
		}
	}
	return employee, nil
}

func (l *logic) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	generation := l.cacheGeneration()
	if l.cacheEnabled() {
		employees, err := l.cache.EmployeesRead(ctx)
		if err == nil {
			l.counter.IncrementHit(data.CounterKeyEmployees)
			return employees, nil
		}
		l.counter.IncrementMiss(data.CounterKeyEmployees)
		l.Trace(ctx, "error while reading employees from cache: %s", err)
	}
	employees, err := l.Sql.EmployeesRead(ctx)
	if err != nil {
		return nil, err
	}
	if l.cacheEnabled() {
		if err := l.cacheWrite(ctx, generation, func() error {
			return l.cache.EmployeesListWrite(ctx, employees)
		}); err != nil {
			l.Error(ctx, "error while writing employees to cache: %s", err)
		}
	}
	return employees, nil
}

func (l *logic) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, data.ErrMutationDisabled
	}
	if employee.Id != nil && *employee.Id != id {
		return nil, data.ErrIdMismatch
	}
	if err := validate(employee); err != nil {
		return nil, err
	}
	employeeUpdated, err := l.Sql.EmployeeUpdate(ctx, id, employee)
	if err != nil {
		return nil, err
	}
	l.cacheEvict(ctx, id)
	return employeeUpdated, nil
}

func (l *logic) EmployeeDelete(ctx context.Context, id int64) error {
	if l.mutateDisabled() {
		return data.ErrMutationDisabled
	}
	if err := l.Sql.EmployeeDelete(ctx, id); err != nil {
		return err
	}
	l.cacheEvict(ctx, id)
	return nil
}
