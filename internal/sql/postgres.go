package sql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresCreateTable string = `CREATE TABLE IF NOT EXISTS ` + tableEmployees + ` (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	dob DATE NOT NULL,
	gender VARCHAR(10) NOT NULL,
	department VARCHAR(100) NOT NULL
);`

type postgres struct {
	sync.RWMutex
	config config
	pool   *pgxpool.Pool
	utilities.Logger
	opened bool
}

func NewPostgres(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	p := &postgres{config: defaultConfig("5432")}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			p.Logger = v
		}
	}
	if p.Logger == nil {
		p.Logger = utilities.NewLogger()
	}
	return p
}

func (p *postgres) Configure(envs map[string]string) error {
	p.Lock()
	defer p.Unlock()

	p.config.configure(envs)
	return nil
}

func (p *postgres) connectionString() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.config.Username, p.config.Password),
		Host:     net.JoinHostPort(p.config.Hostname, p.config.Port),
		Path:     "/" + p.config.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (p *postgres) Open(ctx context.Context) error {
	p.Lock()
	defer p.Unlock()

	if p.opened {
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(p.connectionString())
	if err != nil {
		return fmt.Errorf("failed to parse pgxpool config: %w", err)
	}
	if p.config.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = p.config.ConnectTimeout
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := connect(ctx, p.Logger, p.config, pool.Ping); err != nil {
		pool.Close()
		return err
	}
	if _, err := pool.Exec(ctx, postgresCreateTable); err != nil {
		pool.Close()
		return err
	}
	p.pool = pool
	p.opened = true
	p.Debug(ctx, "connected to postgres at %s:%s", p.config.Hostname, p.config.Port)
	return nil
}

func (p *postgres) Close(ctx context.Context) error {
	p.Lock()
	defer p.Unlock()

	if !p.opened {
		return nil
	}
	p.pool.Close()
	p.opened = false
	return nil
}

func (p *postgres) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, p.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`INSERT INTO %s (name, dob, gender, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, dob, gender, department;`, tableEmployees)
	row := p.pool.QueryRow(ctx, query, employee.Name, dob,
		string(employee.Gender), employee.Department)
	return employeeScan(row.Scan)
}

func (p *postgres) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	ctx, cancel := withTimeout(ctx, p.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, name, dob, gender, department
		FROM %s WHERE id = $1;`, tableEmployees)
	employee, err := employeeScan(p.pool.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (p *postgres) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	employees := []*data.Employee{}

	ctx, cancel := withTimeout(ctx, p.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`SELECT id, name, dob, gender, department
		FROM %s ORDER BY id;`, tableEmployees)
	rows, err := p.pool.Query(ctx, query)
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

func (p *postgres) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	dob, err := employeeDob(employee)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, p.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`UPDATE %s SET name = $1, dob = $2, gender = $3,
		department = $4 WHERE id = $5
		RETURNING id, name, dob, gender, department;`, tableEmployees)
	row := p.pool.QueryRow(ctx, query, employee.Name, dob,
		string(employee.Gender), employee.Department, id)
	updated, err := employeeScan(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, data.ErrEmployeeNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (p *postgres) EmployeeDelete(ctx context.Context, id int64) error {
	ctx, cancel := withTimeout(ctx, p.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, tableEmployees)
	tag, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return data.ErrEmployeeNotFound
	}
	return nil
}
