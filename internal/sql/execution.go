package sql

import (
	"context"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/cenkalti/backoff/v5"
)

type config struct {
	Hostname           string        `json:"hostname"`
	Port               string        `json:"port"`
	Username           string        `json:"username"`
	Password           string        `json:"password"`
	Database           string        `json:"database"`
	ConnectTimeout     time.Duration `json:"connect_timeout"`
	QueryTimeout       time.Duration `json:"query_timeout"`
	ConnectRetries     uint          `json:"connect_retries"`
	ConnectRetryPeriod time.Duration `json:"connect_retry_period"`
}

func (c *config) configure(envs map[string]string) {
	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		c.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		c.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		c.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		c.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		c.Password = password
	}
	if _, ok := envs["DATABASE_CONNECT_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_CONNECT_TIMEOUT"], 10, 64)
		c.ConnectTimeout = time.Duration(i) * time.Second
	}
	if _, ok := envs["DATABASE_QUERY_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_QUERY_TIMEOUT"], 10, 64)
		c.QueryTimeout = time.Duration(i) * time.Second
	}
	if _, ok := envs["DATABASE_CONNECT_RETRIES"]; ok {
		i, _ := strconv.ParseUint(envs["DATABASE_CONNECT_RETRIES"], 10, 32)
		c.ConnectRetries = uint(i)
	}
	if _, ok := envs["DATABASE_CONNECT_RETRY_INTERVAL"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_CONNECT_RETRY_INTERVAL"], 10, 64)
		c.ConnectRetryPeriod = time.Duration(i) * time.Second
	}
}

func defaultConfig(port string) config {
	return config{
		Hostname:           "localhost",
		Port:               port,
		Database:           "employees",
		ConnectRetries:     1,
		ConnectRetryPeriod: time.Second,
	}
}

// connect pings the database until it answers or the configured number of
// tries is exhausted.
func connect(ctx context.Context, logger utilities.Logger, c config, ping func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.ConnectRetryPeriod
	tries := c.ConnectRetries
	if tries == 0 {
		tries = 1
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		pingCtx, cancel := withTimeout(ctx, c.ConnectTimeout)
		defer cancel()
		return struct{}{}, ping(pingCtx)
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Info(ctx, "unable to reach database %s:%s (%s), retrying in %v",
				c.Hostname, c.Port, err, next)
		}),
	)
	return err
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func employeeScan(scanFx func(...any) error) (*data.Employee, error) {
	var id int64
	var dob time.Time

	employee := new(data.Employee)
	if err := scanFx(
		&id,
		&employee.Name,
		&dob,
		&employee.Gender,
		&employee.Department,
	); err != nil {
		return nil, err
	}
	employee.Id = &id
	employee.Dob = dob.Format(data.DateLayout)
	return employee, nil
}

// employeeDob converts the dob to the value stored in the DATE column.
func employeeDob(employee data.Employee) (time.Time, error) {
	dob, err := data.ParseDob(employee.Dob)
	if err != nil {
		return time.Time{}, data.ValidationErrors{
			data.FieldDob: "Date of birth must be formatted as YYYY-MM-DD",
		}
	}
	return time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC), nil
}
