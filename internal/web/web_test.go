package web_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"
	"github.com/antonio-alexander/go-employee-directory/internal/web"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

func freePort(t *testing.T) string {
	listener, err := net.Listen("tcp", "localhost:0")
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to find free port")
	}
	defer listener.Close()
	return strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)
}

type backend struct {
	sync.Mutex
	employees []*data.Employee
	lastId    int64
	calls     map[string]int
	err       error
}

func (b *backend) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	b.Lock()
	defer b.Unlock()
	b.calls["read"]++
	return data.Employees(b.employees).Copy(), nil
}

func (b *backend) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	b.Lock()
	defer b.Unlock()
	b.calls["create"]++
	if b.err != nil {
		return nil, b.err
	}
	b.lastId++
	id := b.lastId
	employee.Id = &id
	b.employees = append(b.employees, employee.Copy())
	return &employee, nil
}

func (b *backend) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	b.Lock()
	defer b.Unlock()
	b.calls["update"]++
	if b.err != nil {
		return nil, b.err
	}
	for i, e := range b.employees {
		if *e.Id == id {
			employee.Id = &id
			b.employees[i] = employee.Copy()
			return &employee, nil
		}
	}
	return nil, data.ErrEmployeeNotFound
}

func (b *backend) EmployeeDelete(ctx context.Context, id int64) error {
	b.Lock()
	defer b.Unlock()
	b.calls["delete"]++
	if b.err != nil {
		return b.err
	}
	for i, e := range b.employees {
		if *e.Id == id {
			b.employees = append(b.employees[:i], b.employees[i+1:]...)
			return nil
		}
	}
	return data.ErrEmployeeNotFound
}

func (b *backend) count(call string) int {
	b.Lock()
	defer b.Unlock()
	return b.calls[call]
}

func (b *backend) fail(err error) {
	b.Lock()
	defer b.Unlock()
	b.err = err
}

type webTest struct {
	backend *backend
	web     interface {
		internal.Configurer
		internal.Opener
	}
	client  *http.Client
	address string
}

func newWebTest(t *testing.T) *webTest {
	b := &backend{calls: make(map[string]int)}
	_, _ = b.EmployeeCreate(context.TODO(), data.Employee{
		Name:       "Alice",
		Dob:        "1990-01-15",
		Gender:     data.GenderFemale,
		Department: "Eng",
	})
	b.calls = make(map[string]int)
	w := web.New(b, utilities.NewLogger(io.Discard), func() time.Time { return now })
	port := freePort(t)
	err := w.Configure(map[string]string{
		"WEB_ADDRESS":          "localhost",
		"WEB_PORT":             port,
		"WEB_SHUTDOWN_TIMEOUT": "5",
	})
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure web")
	}
	if err := w.Open(context.TODO()); !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open web")
	}
	t.Cleanup(func() { _ = w.Close(context.TODO()) })
	return &webTest{
		backend: b,
		web:     w,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		address: "http://localhost:" + port,
	}
}

func (w *webTest) get(t *testing.T, route string) (int, string) {
	response, err := w.client.Get(w.address + route)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to get "+route)
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	return response.StatusCode, string(body)
}

func (w *webTest) post(t *testing.T, route string, form url.Values) (int, string, string) {
	response, err := w.client.PostForm(w.address+route, form)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to post "+route)
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	return response.StatusCode, response.Header.Get("Location"), string(body)
}

func TestIndex(t *testing.T) {
	w := newWebTest(t)

	statusCode, body := w.get(t, "/")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, body, "Employee Directory")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "<td>36</td>")
	assert.Contains(t, body, "/employees/1/edit")
	assert.NotContains(t, body, "No Employees Found")
	assert.NotContains(t, body, "<dialog")
	assert.Equal(t, 1, w.backend.count("read"))
}

func TestCreate(t *testing.T) {
	w := newWebTest(t)

	statusCode, body := w.get(t, "/employees/new")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, body, "<h2>Add Employee</h2>")
	assert.Contains(t, body, `<button type="submit">Add</button>`)
	assert.NotContains(t, body, `name="id"`)

	//every empty field is reported and nothing is sent
	statusCode, _, body = w.post(t, "/employees/", url.Values{"name": {"Bob"}})
	assert.Equal(t, http.StatusUnprocessableEntity, statusCode)
	assert.NotContains(t, body, "Name is required")
	assert.Contains(t, body, "Date of birth is required")
	assert.Contains(t, body, "Gender is required")
	assert.Contains(t, body, "Department is required")
	assert.Contains(t, body, `value="Bob"`)
	assert.Equal(t, 0, w.backend.count("create"))

	//the redirected index is the only reload after the create
	reads := w.backend.count("read")
	statusCode, location, _ := w.post(t, "/employees/", url.Values{
		"name":       {"Bob"},
		"dob":        {"1985-03-02"},
		"gender":     {"Male"},
		"department": {"Ops"},
	})
	assert.Equal(t, http.StatusSeeOther, statusCode)
	assert.Equal(t, "/", location)
	assert.Equal(t, 1, w.backend.count("create"))
	assert.Equal(t, reads, w.backend.count("read"))

	_, body = w.get(t, "/")
	assert.Contains(t, body, "Bob")
	assert.Equal(t, reads+1, w.backend.count("read"))
}

func TestCreateFailure(t *testing.T) {
	w := newWebTest(t)
	w.backend.fail(errors.New("unreachable"))

	statusCode, _, body := w.post(t, "/employees/", url.Values{
		"name":       {"Bob"},
		"dob":        {"1985-03-02"},
		"gender":     {"Male"},
		"department": {"Ops"},
	})
	assert.Equal(t, http.StatusBadGateway, statusCode)
	assert.Contains(t, body, "<h2>Add Employee</h2>")
	assert.Contains(t, body, `value="Ops"`)
	assert.Equal(t, 1, w.backend.count("create"))

	//a rejection from the backend is a backend failure, not a form error
	w.backend.fail(data.ValidationErrors{data.FieldName: "Name is required"})
	statusCode, _, body = w.post(t, "/employees/", url.Values{
		"name":       {"Bob"},
		"dob":        {"1985-03-02"},
		"gender":     {"Male"},
		"department": {"Ops"},
	})
	assert.Equal(t, http.StatusBadGateway, statusCode)
	assert.NotContains(t, body, "Name is required")
	assert.Equal(t, 2, w.backend.count("create"))
}

func TestEdit(t *testing.T) {
	w := newWebTest(t)

	statusCode, body := w.get(t, "/employees/1/edit")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, body, "<h2>Edit Employee</h2>")
	assert.Contains(t, body, `<input type="hidden" name="id" value="1">`)
	assert.Contains(t, body, `value="Alice"`)
	assert.Contains(t, body, `<option value="Female" selected>`)

	statusCode, _ = w.get(t, "/employees/42/edit")
	assert.Equal(t, http.StatusNotFound, statusCode)

	statusCode, _, _ = w.post(t, "/employees/", url.Values{
		"id":         {"1"},
		"name":       {"Alice"},
		"dob":        {"1990-01-15"},
		"gender":     {"Female"},
		"department": {"Engineering"},
	})
	assert.Equal(t, http.StatusSeeOther, statusCode)
	assert.Equal(t, 1, w.backend.count("update"))
	assert.Equal(t, 0, w.backend.count("create"))
	_, body = w.get(t, "/")
	assert.Contains(t, body, "Engineering")
}

func TestDelete(t *testing.T) {
	w := newWebTest(t)

	statusCode, body := w.get(t, "/employees/1/delete")
	assert.Equal(t, http.StatusOK, statusCode)
	assert.Contains(t, body, "Confirm Deletion")
	assert.Contains(t, body, "Are you sure you want to delete this employee?")
	assert.Equal(t, 0, w.backend.count("delete"))

	w.backend.fail(errors.New("unreachable"))
	statusCode, _, body = w.post(t, "/employees/1/delete", nil)
	assert.Equal(t, http.StatusBadGateway, statusCode)
	assert.Contains(t, body, "Confirm Deletion")

	w.backend.fail(nil)
	reads := w.backend.count("read")
	statusCode, location, _ := w.post(t, "/employees/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, statusCode)
	assert.Equal(t, "/", location)
	assert.Equal(t, 2, w.backend.count("delete"))
	assert.Equal(t, reads, w.backend.count("read"))

	_, body = w.get(t, "/")
	assert.True(t, strings.Contains(body, "No Employees Found"))
	assert.Equal(t, reads+1, w.backend.count("read"))
}
