package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/pkg/errors"
)

// Client talks to the employees REST api; any 2xx response is a success.
type Client interface {
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
	CacheClear(ctx context.Context) error
	CacheCountersRead(ctx context.Context) (*data.CacheCounters, error)
	CacheCountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol   string
		address    string
		port       string
		timeout    int64
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
	}
	address string
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		case *http.Client:
			c.Client = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var body io.Reader

	if item != nil {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		request.Header.Set(data.HeaderCorrelationId, correlationId)
	}
	c.Trace(ctx, "%s %s", method, uri)
	response, err := c.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, uri)
	}
	defer response.Body.Close()
	bytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, responseError(response.StatusCode, bytes)
	}
	return bytes, nil
}

func (c *client) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	c.config.protocol = "http"
	c.config.address = "localhost"
	c.config.port = "8080"
	if address, ok := envs["CLIENT_ADDRESS"]; ok && address != "" {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok && port != "" {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok && protocol != "" {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "invalid CLIENT_TIMEOUT")
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := getTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) uri(route string, v ...any) string {
	c.RLock()
	defer c.RUnlock()

	return c.address + fmt.Sprintf(route, v...)
}

func (c *client) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	bytes, err := c.doRequest(ctx, c.uri(data.RouteEmployees), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	employees := []*data.Employee{}
	if err := json.Unmarshal(bytes, &employees); err != nil {
		return nil, errors.Wrap(err, "unable to decode employees")
	}
	return employees, nil
}

func (c *client) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	bytes, err := c.doRequest(ctx, c.uri(data.RouteEmployeesIdf, id), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	employee := &data.Employee{}
	if err := json.Unmarshal(bytes, employee); err != nil {
		return nil, errors.Wrap(err, "unable to decode employee")
	}
	return employee, nil
}

// decodeEmployee returns the employee in the response body, or employee
// when the body is empty.
func decodeEmployee(bytes []byte, employee data.Employee) (*data.Employee, error) {
	if len(bytes) == 0 {
		return &employee, nil
	}
	employeeRead := &data.Employee{}
	if err := json.Unmarshal(bytes, employeeRead); err != nil {
		return nil, errors.Wrap(err, "unable to decode employee")
	}
	return employeeRead, nil
}

func (c *client) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	employee.Id = nil
	bytes, err := c.doRequest(ctx, c.uri(data.RouteEmployees), http.MethodPost, &employee)
	if err != nil {
		return nil, err
	}
	return decodeEmployee(bytes, employee)
}

func (c *client) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	employee.Id = &id
	bytes, err := c.doRequest(ctx, c.uri(data.RouteEmployeesIdf, id), http.MethodPut, &employee)
	if err != nil {
		return nil, err
	}
	return decodeEmployee(bytes, employee)
}

func (c *client) EmployeeDelete(ctx context.Context, id int64) error {
	_, err := c.doRequest(ctx, c.uri(data.RouteEmployeesIdf, id), http.MethodDelete, nil)
	return err
}

func (c *client) CacheClear(ctx context.Context) error {
	_, err := c.doRequest(ctx, c.uri(data.RouteCache), http.MethodDelete, nil)
	return err
}

func (c *client) CacheCountersRead(ctx context.Context) (*data.CacheCounters, error) {
	bytes, err := c.doRequest(ctx, c.uri(data.RouteCacheCounters), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.CacheCounters{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) CacheCountersClear(ctx context.Context) error {
	_, err := c.doRequest(ctx, c.uri(data.RouteCacheCounters), http.MethodDelete, nil)
	return err
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	bytes, err := c.doRequest(ctx, c.uri(data.RouteTimers), http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	response := &data.Timers{}
	if err := json.Unmarshal(bytes, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	_, err := c.doRequest(ctx, c.uri(data.RouteTimers), http.MethodDelete, nil)
	return err
}
