package sql_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/sql"

	"github.com/stretchr/testify/assert"
)

var (
	envs = map[string]string{
		"DATABASE_HOST":            "localhost",
		"DATABASE_NAME":            "employees",
		"DATABASE_QUERY_TIMEOUT":   "10",
		"DATABASE_CONNECT_TIMEOUT": "2",
		"DATABASE_CONNECT_RETRIES": "1",
	}
	mySqlEnvs = map[string]string{
		"DATABASE_PORT":     "3306",
		"DATABASE_USER":     "mysql",
		"DATABASE_PASSWORD": "mysql",
	}
	postgresEnvs = map[string]string{
		"DATABASE_PORT":     "5432",
		"DATABASE_USER":     "postgres",
		"DATABASE_PASSWORD": "postgres",
	}
)

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

func mergeEnvs(envMaps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, envMap := range envMaps {
		for key, value := range envMap {
			merged[key] = value
		}
	}
	return merged
}

type sqlTest struct {
	sql interface {
		internal.Opener
		internal.Configurer
	}
	sql.Sql
}

func newSqlTest(s interface {
	internal.Configurer
	internal.Opener
	sql.Sql
}) *sqlTest {
	return &sqlTest{
		sql: s,
		Sql: s,
	}
}

func (s *sqlTest) TestSql(t *testing.T) {
	ctx := context.TODO()

	// create employee
	name := internal.GenerateId()[:14]
	employeeCreated, err := s.EmployeeCreate(ctx, data.Employee{
		Name:       name,
		Dob:        "1990-01-15",
		Gender:     data.GenderFemale,
		Department: "Eng",
	})
	if !assert.Nil(t, err) {
		return
	}
	assert.NotNil(t, employeeCreated.Id)
	assert.Equal(t, name, employeeCreated.Name)
	assert.Equal(t, "1990-01-15", employeeCreated.Dob)
	assert.Equal(t, data.GenderFemale, employeeCreated.Gender)
	assert.Equal(t, "Eng", employeeCreated.Department)
	id := *employeeCreated.Id
	defer func(id int64) {
		_ = s.EmployeeDelete(ctx, id)
	}(id)

	// read employee
	employeeRead, err := s.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeCreated, employeeRead)

	// read employees
	employeesRead, err := s.EmployeesRead(ctx)
	assert.Nil(t, err)
	assert.Contains(t, employeesRead, employeeCreated)
	for i := 1; i < len(employeesRead); i++ {
		assert.Less(t, *employeesRead[i-1].Id, *employeesRead[i].Id)
	}

	// update employee, an id in the body is ignored
	otherId := id + 1000
	employeeUpdated, err := s.EmployeeUpdate(ctx, id, data.Employee{
		Id:         &otherId,
		Name:       name,
		Dob:        "1991-02-16",
		Gender:     data.GenderOther,
		Department: "Ops",
	})
	assert.Nil(t, err)
	if assert.NotNil(t, employeeUpdated) {
		assert.Equal(t, id, *employeeUpdated.Id)
		assert.Equal(t, "1991-02-16", employeeUpdated.Dob)
		assert.Equal(t, data.GenderOther, employeeUpdated.Gender)
		assert.Equal(t, "Ops", employeeUpdated.Department)
	}

	// update employee without changes
	employeeUnchanged, err := s.EmployeeUpdate(ctx, id, *employeeUpdated)
	assert.Nil(t, err)
	assert.Equal(t, employeeUpdated, employeeUnchanged)

	// delete employee
	err = s.EmployeeDelete(ctx, id)
	assert.Nil(t, err)

	// read employee again
	employeeRead, err = s.EmployeeRead(ctx, id)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
	assert.Nil(t, employeeRead)

	// update employee again
	_, err = s.EmployeeUpdate(ctx, id, *employeeUpdated)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)

	// delete employee again
	err = s.EmployeeDelete(ctx, id)
	assert.ErrorIs(t, err, data.ErrEmployeeNotFound)
}

func (s *sqlTest) TestInvalidDob(t *testing.T) {
	ctx := context.TODO()

	_, err := s.EmployeeCreate(ctx, data.Employee{
		Name:       "Alice",
		Dob:        "15/01/1990",
		Gender:     data.GenderFemale,
		Department: "Eng",
	})
	var validationErrors data.ValidationErrors
	assert.ErrorAs(t, err, &validationErrors)
	assert.Contains(t, validationErrors, data.FieldDob)
}

func testSql(t *testing.T, s *sqlTest, envs map[string]string, skip bool) {
	ctx := context.TODO()
	err := s.sql.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure sqlTest")
	}
	if err = s.sql.Open(ctx); err != nil {
		if skip {
			t.Skipf("unable to open database: %s", err)
		}
		assert.FailNow(t, "unable to open sqlTest")
	}
	defer func() {
		_ = s.sql.Close(ctx)
	}()
	t.Run("Sql", s.TestSql)
	t.Run("Invalid Dob", s.TestInvalidDob)
}

func TestMemory(t *testing.T) {
	testSql(t, newSqlTest(sql.NewMemory()), envs, false)
}

func TestMySql(t *testing.T) {
	testSql(t, newSqlTest(sql.NewMySql()), mergeEnvs(mySqlEnvs, envs), true)
}

func TestPostgres(t *testing.T) {
	testSql(t, newSqlTest(sql.NewPostgres()), mergeEnvs(postgresEnvs, envs), true)
}

func TestNew(t *testing.T) {
	for _, databaseType := range []string{sql.TypeMemory, sql.TypeMySql, sql.TypePostgres, ""} {
		s, err := sql.New(databaseType)
		assert.Nil(t, err)
		assert.NotNil(t, s)
	}
	_, err := sql.New("sqlite")
	assert.NotNil(t, err)
}
