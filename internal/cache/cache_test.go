package cache_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/cache"
	"github.com/antonio-alexander/go-employee-directory/internal/data"

	"github.com/stretchr/testify/assert"
)

var envs = map[string]string{
	"REDIS_ADDRESS":         "localhost",
	"REDIS_PORT":            "6379",
	"REDIS_TIMEOUT":         "10",
	"REDIS_CONNECT_RETRIES": "1",
}

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

type cacheTest struct {
	cache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
	}
	cache.Cache
}

func newCacheTest(t *testing.T, cacheType string) *cacheTest {
	employeeCache, err := cache.New(cacheType, envs)
	if !assert.Nil(t, err) || !assert.NotNil(t, employeeCache) {
		assert.FailNow(t, "unable to create cache")
	}
	return &cacheTest{
		cache: employeeCache,
		Cache: employeeCache,
	}
}

func newEmployee(id int64) *data.Employee {
	return &data.Employee{
		Id:         &id,
		Name:       internal.GenerateId(),
		Dob:        "1990-01-15",
		Gender:     data.GenderOther,
		Department: internal.GenerateId()[:8],
	}
}

func (c *cacheTest) TestCache(t *testing.T) {
	employees := []*data.Employee{
		newEmployee(1),
		newEmployee(2),
		newEmployee(3),
		newEmployee(4),
		newEmployee(5),
	}

	//create context
	ctx := context.TODO()

	//clear cache
	err := c.cache.Clear(ctx)
	assert.Nil(t, err)

	// read employees before anything is cached
	_, err = c.EmployeesRead(ctx)
	assert.ErrorIs(t, err, cache.ErrEmployeesNotCached)
	_, err = c.EmployeeRead(ctx, 1)
	assert.ErrorIs(t, err, cache.ErrEmployeeNotCached)

	// write employees
	err = c.EmployeesWrite(ctx, employees...)
	assert.Nil(t, err)

	// read employee[0]
	employeeRead, err := c.EmployeeRead(ctx, *employees[0].Id)
	assert.Nil(t, err)
	assert.Equal(t, employees[0], employeeRead)

	// individual writes don't populate the listing
	_, err = c.EmployeesRead(ctx)
	assert.ErrorIs(t, err, cache.ErrEmployeesNotCached)

	// write listing
	err = c.EmployeesListWrite(ctx, employees)
	assert.Nil(t, err)

	// read employees
	employeesRead, err := c.EmployeesRead(ctx)
	assert.Nil(t, err)
	assert.Equal(t, employees, employeesRead)

	// delete employee [1], this evicts the listing
	err = c.EmployeesDelete(ctx, *employees[1].Id)
	assert.Nil(t, err)
	employeeRead, err = c.EmployeeRead(ctx, *employees[1].Id)
	assert.NotNil(t, err)
	assert.Nil(t, employeeRead)
	_, err = c.EmployeesRead(ctx)
	assert.ErrorIs(t, err, cache.ErrEmployeesNotCached)

	// other employees are still cached
	employeeRead, err = c.EmployeeRead(ctx, *employees[2].Id)
	assert.Nil(t, err)
	assert.Equal(t, employees[2], employeeRead)

	// an empty listing is cached as well
	err = c.EmployeesListWrite(ctx, []*data.Employee{})
	assert.Nil(t, err)
	employeesRead, err = c.EmployeesRead(ctx)
	assert.Nil(t, err)
	assert.Empty(t, employeesRead)

	// deleting no ids still evicts the listing
	err = c.EmployeesDelete(ctx)
	assert.Nil(t, err)
	_, err = c.EmployeesRead(ctx)
	assert.ErrorIs(t, err, cache.ErrEmployeesNotCached)
}

func testCache(t *testing.T, cacheType string, skip bool) {
	c := newCacheTest(t, cacheType)

	ctx := context.TODO()
	err := c.cache.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure cache")
	}
	if err = c.cache.Open(ctx); err != nil {
		if skip {
			t.Skipf("unable to open cache: %s", err)
		}
		assert.FailNow(t, "unable to open cache")
	}
	defer func() {
		if err := c.cache.Close(ctx); err != nil {
			t.Logf("error while closing cache: %s", err)
		}
	}()
	t.Run("Cache", c.TestCache)
}

func TestCacheMemory(t *testing.T) {
	testCache(t, cache.TypeMemory, false)
}

func TestCacheStashMemory(t *testing.T) {
	testCache(t, cache.TypeStashMemory, false)
}

func TestCacheRedis(t *testing.T) {
	testCache(t, cache.TypeRedis, true)
}

func TestCacheStashRedis(t *testing.T) {
	testCache(t, cache.TypeStashRedis, true)
}

func TestCacheDisabled(t *testing.T) {
	c, err := cache.New("", envs)
	assert.Nil(t, err)
	assert.Nil(t, c)
	_, err = cache.New("memcached", envs)
	assert.NotNil(t, err)
}
