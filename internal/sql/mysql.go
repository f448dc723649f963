package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/go-sql-driver/mysql"
)

const mySqlCreateTable string = `CREATE TABLE IF NOT EXISTS ` + tableEmployees + ` (
	id BIGINT NOT NULL AUTO_INCREMENT,
	name VARCHAR(255) NOT NULL,
	dob DATE NOT NULL,
	gender VARCHAR(10) NOT NULL,
	department VARCHAR(100) NOT NULL,
	PRIMARY KEY (id)
);`

type mySql struct {
	sync.RWMutex
	config config
	*sql.DB
	utilities.Logger
	opened bool
}

func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	m := &mySql{config: defaultConfig("3306")}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		}
	}
	if m.Logger == nil {
		m.Logger = utilities.NewLogger()
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	s.config.configure(envs)
	return nil
}

// mysqlDsn always parses time, dob is scanned from a DATE column into a
// time.Time.
func mysqlDsn(c config) string {
	mysqlConfig := mysql.NewConfig()
	mysqlConfig.User = c.Username
	mysqlConfig.Passwd = c.Password
	mysqlConfig.Net = "tcp"
	mysqlConfig.Addr = net.JoinHostPort(c.Hostname, c.Port)
	mysqlConfig.DBName = c.Database
	mysqlConfig.ParseTime = true
	mysqlConfig.Loc = time.UTC
	mysqlConfig.Timeout = c.ConnectTimeout
	return mysqlConfig.FormatDSN()
}

func (s *mySql) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return nil
	}
	db, err := sql.Open("mysql", mysqlDsn(s.config))
	if err != nil {
		return err
	}
	if err := connect(ctx, s.Logger, s.config, db.PingContext); err != nil {
		_ = db.Close()
		return err
	}
	if _, err := db.ExecContext(ctx, mySqlCreateTable); err != nil {
		_ = db.Close()
		return err
	}
	s.DB = db
	s.opened = true
	s.Debug(ctx, "connected to mysql at %s", net.JoinHostPort(s.config.Hostname, s.config.Port))
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *mySql) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`INSERT INTO %s (name, dob, gender, department)
		VALUES (?, ?, ?, ?);`, tableEmployees)
	result, err := s.ExecContext(ctx, query, employee.Name, dob,
		string(employee.Gender), employee.Department)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.employeeRead(ctx, id)
}

func (s *mySql) employeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	query := fmt.Sprintf(`SELECT id, name, dob, gender, department
		FROM %s WHERE id = ?;`, tableEmployees)
	row := s.QueryRowContext(ctx, query, id)
	employee, err := employeeScan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *mySql) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	ctx, cancel := withTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	return s.employeeRead(ctx, id)
}

func (s *mySql) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	employees := []*data.Employee{}

	ctx, cancel := withTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, name, dob, gender, department
		FROM %s ORDER BY id;`, tableEmployees)
	rows, err := s.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *mySql) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`UPDATE %s SET name = ?, dob = ?, gender = ?,
		department = ? WHERE id = ?;`, tableEmployees)
	if _, err := s.ExecContext(ctx, query, employee.Name, dob,
		string(employee.Gender), employee.Department, id); err != nil {
		return nil, err
	}
	//rows affected is zero when nothing changed, the read tells whether
	// the employee exists
	return s.employeeRead(ctx, id)
}

func (s *mySql) EmployeeDelete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, tableEmployees)
	result, err := s.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return data.ErrEmployeeNotFound
	}
	return nil
}
