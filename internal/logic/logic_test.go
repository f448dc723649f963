package logic_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/cache"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/logic"
	"github.com/antonio-alexander/go-employee-directory/internal/sql"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/stretchr/testify/assert"
)

type logicTest struct {
	sql interface {
		internal.Configurer
		internal.Opener
		sql.Sql
	}
	cache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		cache.Cache
	}
	logic interface {
		internal.Configurer
		internal.Opener
	}
	counter utilities.Counter
	logic.Logic
}

func newLogicTest() *logicTest {
	sql := sql.NewMemory()
	cache := cache.NewMemory()
	counter := utilities.NewCounter()
	logic := logic.NewLogic(sql, cache, counter)
	return &logicTest{
		sql:     sql,
		cache:   cache,
		logic:   logic,
		counter: counter,
		Logic:   logic,
	}
}

func (l *logicTest) Configure(envs map[string]string) error {
	if err := l.sql.Configure(envs); err != nil {
		return err
	}
	if err := l.cache.Configure(envs); err != nil {
		return err
	}
	if err := l.logic.Configure(envs); err != nil {
		return err
	}
	return nil
}

func (l *logicTest) Open(ctx context.Context) error {
	if err := l.sql.Open(ctx); err != nil {
		return err
	}
	if err := l.cache.Open(ctx); err != nil {
		return err
	}
	if err := l.logic.Open(ctx); err != nil {
		return err
	}
	return nil
}

func (l *logicTest) Close(ctx context.Context) error {
	if err := l.logic.Close(ctx); err != nil {
		return err
	}
	if err := l.cache.Close(ctx); err != nil {
		return err
	}
	if err := l.sql.Close(ctx); err != nil {
		return err
	}
	return nil
}

func newEmployee() data.Employee {
	return data.Employee{
		Name:       internal.GenerateId()[:14],
		Dob:        "1990-01-15",
		Gender:     data.GenderFemale,
		Department: "Eng",
	}
}

func (l *logicTest) TestLogic(cacheEnabled bool) func(t *testing.T) {
	return func(t *testing.T) {
		ctx := context.TODO()
		l.counter.Clear()

		// create employee
		employeeCreated, err := l.EmployeeCreate(ctx, newEmployee())
		if !assert.Nil(t, err) {
			return
		}
		id := *employeeCreated.Id
		defer func(id int64) {
			_ = l.EmployeeDelete(ctx, id)
		}(id)

		// validate that employee not in cache
		employeeCached, err := l.cache.EmployeeRead(ctx, id)
		assert.NotNil(t, err)
		assert.Nil(t, employeeCached)

		// read employee
		employeeRead, err := l.EmployeeRead(ctx, id)
		assert.Nil(t, err)
		assert.Equal(t, employeeCreated, employeeRead)

		// validate that employee in cache
		employeeCached, err = l.cache.EmployeeRead(ctx, id)
		if cacheEnabled {
			assert.Nil(t, err)
			assert.Equal(t, employeeCreated, employeeCached)
		} else {
			assert.NotNil(t, err)
		}

		// read employee again
		_, err = l.EmployeeRead(ctx, id)
		assert.Nil(t, err)
		hit, miss := l.counter.Read(data.CounterKeyEmployee(id))
		if cacheEnabled {
			assert.Equal(t, 1, hit)
			assert.Equal(t, 1, miss)
		} else {
			assert.Equal(t, -1, hit)
			assert.Equal(t, -1, miss)
		}

		// read employees twice, the second read comes from the cache
		employeesRead, err := l.EmployeesRead(ctx)
		assert.Nil(t, err)
		assert.Contains(t, employeesRead, employeeCreated)
		_, err = l.EmployeesRead(ctx)
		assert.Nil(t, err)
		if cacheEnabled {
			hit, miss = l.counter.Read(data.CounterKeyEmployees)
			assert.Equal(t, 1, hit)
			assert.Equal(t, 1, miss)
		}

		// update employee
		employee := *employeeCreated
		employee.Department = "Ops"
		employeeUpdated, err := l.EmployeeUpdate(ctx, id, employee)
		assert.Nil(t, err)
		if assert.NotNil(t, employeeUpdated) {
			assert.Equal(t, "Ops", employeeUpdated.Department)
		}

		// validate that employee and listing not in cache
		_, err = l.cache.EmployeeRead(ctx, id)
		assert.NotNil(t, err)
		_, err = l.cache.EmployeesRead(ctx)
		assert.NotNil(t, err)

		// the listing reflects the update
		employeesRead, err = l.EmployeesRead(ctx)
		assert.Nil(t, err)
		assert.Contains(t, employeesRead, employeeUpdated)

		// a create evicts the listing
		employeeCreated2, err := l.EmployeeCreate(ctx, newEmployee())
		assert.Nil(t, err)
		defer func(id int64) {
			_ = l.EmployeeDelete(ctx, id)
		}(*employeeCreated2.Id)
		employeesRead, err = l.EmployeesRead(ctx)
		assert.Nil(t, err)
		assert.Contains(t, employeesRead, employeeCreated2)

		// delete employee
		err = l.EmployeeDelete(ctx, id)
		assert.Nil(t, err)

		// read employee
		_, err = l.EmployeeRead(ctx, id)
		assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
		employeesRead, err = l.EmployeesRead(ctx)
		assert.Nil(t, err)
		assert.NotContains(t, employeesRead, employeeUpdated)

		// delete employee again
		err = l.EmployeeDelete(ctx, id)
		assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	}
}

func (l *logicTest) TestValidation(t *testing.T) {
	ctx := context.TODO()

	_, err := l.EmployeeCreate(ctx, data.Employee{})
	var validationErrors data.ValidationErrors
	if assert.ErrorAs(t, err, &validationErrors) {
		assert.Len(t, validationErrors, 4)
		assert.Equal(t, "Name is required", validationErrors[data.FieldName])
	}

	employee := newEmployee()
	employee.Gender = "Unknown"
	employee.Dob = "01/15/1990"
	_, err = l.EmployeeCreate(ctx, employee)
	if assert.ErrorAs(t, err, &validationErrors) {
		assert.Contains(t, validationErrors, data.FieldGender)
		assert.Contains(t, validationErrors, data.FieldDob)
	}

	// the id of a created employee is assigned by the backend
	employee = newEmployee()
	id := int64(9999)
	employee.Id = &id
	employeeCreated, err := l.EmployeeCreate(ctx, employee)
	if assert.Nil(t, err) {
		assert.NotEqual(t, id, *employeeCreated.Id)
		defer func() {
			_ = l.EmployeeDelete(ctx, *employeeCreated.Id)
		}()

		// the id in the body must match the id being updated
		_, err = l.EmployeeUpdate(ctx, *employeeCreated.Id, employee)
		assert.ErrorIs(t, err, data.ErrIdMismatch)

		// the update is validated as well
		employee = *employeeCreated
		employee.Name = ""
		_, err = l.EmployeeUpdate(ctx, *employeeCreated.Id, employee)
		assert.ErrorAs(t, err, &validationErrors)
	}

	_, err = l.EmployeeUpdate(ctx, 424242, newEmployee())
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)

	// oversized fields are rejected before they reach sql
	employee = newEmployee()
	employee.Name = strings.Repeat("a", 300)
	employee.Department = strings.Repeat("b", 150)
	_, err = l.EmployeeCreate(ctx, employee)
	if assert.ErrorAs(t, err, &validationErrors) {
		assert.Contains(t, validationErrors, data.FieldName)
		assert.Contains(t, validationErrors, data.FieldDepartment)
	}
	employees, err := l.EmployeesRead(ctx)
	assert.Nil(t, err)
	for _, employee := range employees {
		assert.LessOrEqual(t, len(employee.Name), data.NameMaxLength)
	}
}

func TestLogic(t *testing.T) {
	for name, cacheEnabled := range map[string]bool{
		"Cache Enabled":  true,
		"Cache Disabled": false,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.TODO()
			l := newLogicTest()
			err := l.Configure(map[string]string{
				"LOGIC_CACHE_ENABLED": func() string {
					if cacheEnabled {
						return "true"
					}
					return "false"
				}(),
			})
			if !assert.Nil(t, err) {
				assert.FailNow(t, "unable to configure logic")
			}
			err = l.Open(ctx)
			if !assert.Nil(t, err) {
				assert.FailNow(t, "unable to open logic")
			}
			defer func() {
				_ = l.Close(ctx)
			}()
			t.Run("Logic", l.TestLogic(cacheEnabled))
			t.Run("Validation", l.TestValidation)
		})
	}
}

func TestMutateDisabled(t *testing.T) {
	ctx := context.TODO()
	l := newLogicTest()
	err := l.Configure(map[string]string{"MUTATE_DISABLED": "true"})
	assert.Nil(t, err)
	err = l.Open(ctx)
	assert.Nil(t, err)
	defer func() {
		_ = l.Close(ctx)
	}()

	_, err = l.EmployeeCreate(ctx, newEmployee())
	assert.ErrorIs(t, err, data.ErrMutationDisabled)
	_, err = l.EmployeeUpdate(ctx, 1, newEmployee())
	assert.ErrorIs(t, err, data.ErrMutationDisabled)
	err = l.EmployeeDelete(ctx, 1)
	assert.ErrorIs(t, err, data.ErrMutationDisabled)

	// reads still work
	employees, err := l.EmployeesRead(ctx)
	assert.Nil(t, err)
	assert.Empty(t, employees)
}

// pausedSql holds the first EmployeesRead after it has queried until
// released
type pausedSql struct {
	sql.Sql
	paused  atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (p *pausedSql) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	employees, err := p.Sql.EmployeesRead(ctx)
	if p.paused.CompareAndSwap(false, true) {
		p.read <- struct{}{}
		<-p.release
	}
	return employees, err
}

func TestReadRacingUpdate(t *testing.T) {
	ctx := context.TODO()
	s := &pausedSql{
		Sql:     sql.NewMemory(),
		read:    make(chan struct{}),
		release: make(chan struct{}),
	}
	l := logic.NewLogic(s, cache.NewMemory())
	err := l.Configure(map[string]string{"LOGIC_CACHE_ENABLED": "true"})
	assert.Nil(t, err)
	err = l.Open(ctx)
	assert.Nil(t, err)
	defer func() {
		_ = l.Close(ctx)
	}()

	employeeCreated, err := l.EmployeeCreate(ctx, newEmployee())
	if !assert.Nil(t, err) {
		return
	}
	id := *employeeCreated.Id

	// a listing read misses the cache and queries before the update
	done := make(chan []*data.Employee)
	go func() {
		employees, _ := l.EmployeesRead(ctx)
		done <- employees
	}()
	select {
	case <-s.read:
	case <-time.After(5 * time.Second):
		assert.FailNow(t, "listing read never reached sql")
	}
	employee := *employeeCreated
	employee.Department = "Ops"
	_, err = l.EmployeeUpdate(ctx, id, employee)
	assert.Nil(t, err)
	close(s.release)
	employees := <-done
	if assert.Len(t, employees, 1) {
		assert.Equal(t, "Eng", employees[0].Department)
	}

	// the reload after the update sees it, as does the single read
	employees, err = l.EmployeesRead(ctx)
	assert.Nil(t, err)
	if assert.Len(t, employees, 1) {
		assert.Equal(t, "Ops", employees[0].Department)
	}
	employeeRead, err := l.EmployeeRead(ctx, id)
	if assert.Nil(t, err) {
		assert.Equal(t, "Ops", employeeRead.Department)
	}
}
