package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

const (
	hashKeyEmployees string = "employees"
	keyEmployeesList string = "employees_list"
)

type redisCache struct {
	sync.RWMutex
	redisClient *redis.Client
	config      struct {
		address            string
		port               string
		password           string
		database           int
		timeout            time.Duration
		ttl                time.Duration
		connectRetries     uint
		connectRetryPeriod time.Duration
	}
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{}
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

func (c *redisCache) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	c.config.address, c.config.port = "localhost", "6379"
	c.config.timeout = 10 * time.Second
	c.config.connectRetries, c.config.connectRetryPeriod = 1, time.Second
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, _ := strconv.ParseInt(redisDatabase, 10, 64)
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(redisTimeout, 10, 64)
		c.config.timeout = time.Duration(i) * time.Second
	}
	if redisTtl, ok := envs["REDIS_TTL"]; ok {
		i, _ := strconv.ParseInt(redisTtl, 10, 64)
		c.config.ttl = time.Duration(i) * time.Second
	}
	if s, ok := envs["REDIS_CONNECT_RETRIES"]; ok {
		i, _ := strconv.ParseUint(s, 10, 32)
		c.config.connectRetries = uint(i)
	}
	if s, ok := envs["REDIS_CONNECT_RETRY_INTERVAL"]; ok {
		i, _ := strconv.ParseInt(s, 10, 64)
		c.config.connectRetryPeriod = time.Duration(i) * time.Second
	}
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.connectRetryPeriod
	if _, err := backoff.Retry(ctx, func() (string, error) {
		return redisClient.Ping(ctx).Result()
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(max(c.config.connectRetries, 1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.Info(ctx, "unable to reach redis (%s), retrying in %v", err, next)
		}),
	); err != nil {
		_ = redisClient.Close()
		return err
	}
	c.redisClient = redisClient
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	c.redisClient = nil
	return nil
}

func (c *redisCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.timeout)
}

func (c *redisCache) Clear(ctx context.Context) error {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeyEmployees, keyEmployeesList).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	value, err := c.redisClient.HGet(ctx, hashKeyEmployees, fmt.Sprint(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.Trace(ctx, "cache miss for employee: %d", id)
			return nil, ErrEmployeeNotCached
		}
		return nil, err
	}
	employee := &data.Employee{}
	if err := employee.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	c.Trace(ctx, "cache hit for employee: %d", id)
	return employee, nil
}

func (c *redisCache) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	value, err := c.redisClient.Get(ctx, keyEmployeesList).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.Trace(ctx, "cache miss for employees")
			return nil, ErrEmployeesNotCached
		}
		return nil, err
	}
	var employees data.Employees
	if err := employees.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	c.Trace(ctx, "cache hit for employees")
	return employees, nil
}

func (c *redisCache) employeesWrite(ctx context.Context, employees []*data.Employee) error {
	values := make([]any, 0, 2*len(employees))
	for _, employee := range employees {
		if !employee.HasId() {
			continue
		}
		bytes, err := employee.MarshalBinary()
		if err != nil {
			return err
		}
		values = append(values, fmt.Sprint(*employee.Id), string(bytes))
	}
	if len(values) == 0 {
		return nil
	}
	if _, err := c.redisClient.HSet(ctx, hashKeyEmployees, values...).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return c.employeesWrite(ctx, employees)
}

func (c *redisCache) EmployeesListWrite(ctx context.Context, employees []*data.Employee) error {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	bytes, err := data.Employees(employees).MarshalBinary()
	if err != nil {
		return err
	}
	if err := c.redisClient.Set(ctx, keyEmployeesList, string(bytes), c.config.ttl).Err(); err != nil {
		return err
	}
	return c.employeesWrite(ctx, employees)
}

func (c *redisCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	c.RLock()
	defer c.RUnlock()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, keyEmployeesList).Result(); err != nil {
		return err
	}
	if len(ids) <= 0 {
		return nil
	}
	fields := make([]string, 0, len(ids))
	for _, id := range ids {
		fields = append(fields, fmt.Sprint(id))
	}
	if _, err := c.redisClient.HDel(ctx, hashKeyEmployees, fields...).Result(); err != nil {
		return err
	}
	return nil
}
