package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"

	stashmemory "github.com/antonio-alexander/go-stash/memory"
	stashredis "github.com/antonio-alexander/go-stash/redis"
)

const (
	TypeMemory      string = "memory"
	TypeRedis       string = "redis"
	TypeStashMemory string = "stash-memory"
	TypeStashRedis  string = "stash-redis"
)

var (
	ErrEmployeeNotCached  = errors.New("employee not cached")
	ErrEmployeesNotCached = errors.New("employees not cached")
)

// Cache holds individual employees and the full listing; every delete also
// evicts the listing since it can no longer be trusted.
type Cache interface {
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeesWrite(ctx context.Context, employees ...*data.Employee) error
	EmployeesListWrite(ctx context.Context, employees []*data.Employee) error
	EmployeesDelete(ctx context.Context, ids ...int64) error
}

// New returns the implementation for the given CACHE_TYPE, or nil when
// caching is disabled (empty type).
func New(cacheType string, envs map[string]string, parameters ...any) (interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
}, error) {
	switch cacheType {
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	case "":
		return nil, nil
	case TypeMemory:
		return NewMemory(parameters...), nil
	case TypeRedis:
		return NewRedis(parameters...), nil
	case TypeStashMemory:
		stash := stashmemory.New()
		if err := stash.Configure(envs); err != nil {
			return nil, err
		}
		parameters = append(parameters, stash)
		return NewStash(parameters...), nil
	case TypeStashRedis:
		stash := stashredis.New()
		if err := stash.Configure(envs); err != nil {
			return nil, err
		}
		parameters = append(parameters, stash)
		return NewStash(parameters...), nil
	}
}

func copyEmployees(employees []*data.Employee) []*data.Employee {
	return data.Employees(employees).Copy()
}
