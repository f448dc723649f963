package sql

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
)

const (
	tableEmployees string = "employees"

	TypeMySql    string = "mysql"
	TypePostgres string = "postgres"
	TypeMemory   string = "memory"
)

// Sql stores employees; reading, updating or deleting an id that doesn't
// exist returns data.ErrEmployeeNotFound. EmployeesRead orders by id.
type Sql interface {
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
}

// New returns the implementation for the given DATABASE_TYPE, memory when
// it's empty.
func New(databaseType string, parameters ...any) (interface {
	internal.Configurer
	internal.Opener
	Sql
}, error) {
	switch databaseType {
	default:
		return nil, fmt.Errorf("unsupported database type: %s", databaseType)
	case TypeMySql:
		return NewMySql(parameters...), nil
	case TypePostgres:
		return NewPostgres(parameters...), nil
	case TypeMemory, "":
		return NewMemory(parameters...), nil
	}
}
