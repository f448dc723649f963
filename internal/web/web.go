package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/directory"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/gorilla/mux"
)

const (
	RouteIndex          string = "/"
	RouteEmployees      string = "/employees/"
	RouteEmployeeNew    string = "/employees/new"
	RouteEmployeeEdit   string = "/employees/{" + data.PathId + "}/edit"
	RouteEmployeeDelete string = "/employees/{" + data.PathId + "}/delete"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"id": func(id *int64) string {
		if id == nil {
			return ""
		}
		return strconv.FormatInt(*id, 10)
	},
}).ParseFS(templateFiles, "templates/*.html"))

type formField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

type page struct {
	Title        string
	AddLabel     string
	EditLabel    string
	DeleteLabel  string
	CancelLabel  string
	DeleteTitle  string
	DeletePrompt string
	Columns      []string
	ColumnCount  int
	Rows         []directory.Row
	Genders      []data.Gender
	Fields       []formField
	Editor       *directory.Editor
	Confirmation *directory.Confirmation
}

type web struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address         string
		port            string
		shutdownTimeout time.Duration
	}
	ctx    context.Context
	cancel context.CancelFunc
	*mux.Router
	*http.Server
	backend directory.Backend
	utilities.Logger
	now    func() time.Time
	opened bool
}

// New creates the browser front end; it keeps no state between requests,
// every page is rendered from a fresh load of the backend.
func New(parameters ...any) interface {
	internal.Configurer
	internal.Opener
} {
	router := mux.NewRouter()
	w := &web{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
		now: time.Now,
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case directory.Backend:
			w.backend = p
		case func() time.Time:
			w.now = p
		case utilities.Logger:
			w.Logger = p
		}
	}
	if w.Logger == nil {
		w.Logger = utilities.NewLogger()
	}
	return w
}

func (w *web) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	w.Add(1)
	go func() {
		defer w.WaitGroup.Done()
		defer close(chErr)

		close(started)
		if err := w.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(w.config.address, w.config.port)
		w.Info(w.ctx, "started web server: %s", address)
		return nil
	}
}

func (w *web) directory(ctx context.Context) *directory.Directory {
	return w.load(ctx, directory.New(w.backend, w.Logger))
}

func (w *web) load(ctx context.Context, d *directory.Directory) *directory.Directory {
	_ = d.Load(ctx)
	return d
}

func (w *web) render(ctx context.Context, writer http.ResponseWriter, statusCode int, d *directory.Directory) {
	p := page{
		Title:        directory.Title,
		AddLabel:     directory.LabelAddEmployee,
		EditLabel:    directory.LabelEdit,
		DeleteLabel:  directory.LabelDelete,
		CancelLabel:  directory.LabelCancel,
		DeleteTitle:  directory.DeleteTitle,
		DeletePrompt: directory.DeletePrompt,
		Columns:      directory.Columns,
		ColumnCount:  directory.ColumnCount,
		Rows:         d.Rows(w.now()),
		Genders:      data.Genders,
	}
	if d.Editor.Open {
		editor := d.Editor
		p.Editor = &editor
		for _, field := range data.Fields {
			fieldType := "text"
			if field == data.FieldDob {
				fieldType = "date"
			}
			p.Fields = append(p.Fields, formField{
				Name:  field,
				Label: directory.FieldLabels[field],
				Type:  fieldType,
				Value: editor.Field(field),
				Error: editor.Errors[field],
			})
		}
	}
	if d.Confirmation.Open {
		confirmation := d.Confirmation
		p.Confirmation = &confirmation
	}
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(statusCode)
	if err := templates.ExecuteTemplate(writer, "index", p); err != nil {
		w.Error(ctx, "error rendering page: %s", err)
	}
}

func (w *web) requestContext(request *http.Request) context.Context {
	ctx := request.Context()
	if correlationId := request.Header.Get(data.HeaderCorrelationId); correlationId != "" {
		ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	}
	return internal.EnsureCorrelationId(ctx)
}

func idFromPath(request *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(request)[data.PathId], 10, 64)
	return id, err == nil
}

func find(d *directory.Directory, id int64) *data.Employee {
	for _, employee := range d.Employees() {
		if employee.HasId() && *employee.Id == id {
			return employee
		}
	}
	return nil
}

func (w *web) redirect(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, RouteIndex, http.StatusSeeOther)
}

func (w *web) endpointIndex(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	w.render(ctx, writer, http.StatusOK, w.directory(ctx))
}

func (w *web) endpointEmployeeNew(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	d := w.directory(ctx)
	d.OpenEditor(nil)
	w.render(ctx, writer, http.StatusOK, d)
}

func (w *web) endpointEmployeeEdit(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	d := w.directory(ctx)
	id, ok := idFromPath(request)
	if !ok {
		w.render(ctx, writer, http.StatusBadRequest, d)
		return
	}
	employee := find(d, id)
	if employee == nil {
		w.render(ctx, writer, http.StatusNotFound, d)
		return
	}
	d.OpenEditor(employee)
	w.render(ctx, writer, http.StatusOK, d)
}

// endpointEmployeeSubmit only loads the list when the form has to be shown
// again; on success the redirected index is the reload.
func (w *web) endpointEmployeeSubmit(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	d := directory.New(w.backend, w.Logger)
	if err := request.ParseForm(); err != nil {
		w.Debug(ctx, "unable to parse form: %s", err)
		w.render(ctx, writer, http.StatusBadRequest, w.load(ctx, d))
		return
	}
	var employee *data.Employee
	if idString := strings.TrimSpace(request.PostForm.Get(data.PathId)); idString != "" {
		id, err := strconv.ParseInt(idString, 10, 64)
		if err != nil {
			w.render(ctx, writer, http.StatusBadRequest, w.load(ctx, d))
			return
		}
		employee = &data.Employee{Id: &id}
	}
	d.OpenEditor(employee)
	for _, field := range data.Fields {
		_ = d.SetField(field, request.PostForm.Get(field))
	}
	if err := d.Save(ctx); err != nil {
		statusCode := http.StatusBadGateway
		if len(d.Editor.Errors) > 0 {
			statusCode = http.StatusUnprocessableEntity
		}
		w.render(ctx, writer, statusCode, w.load(ctx, d))
		return
	}
	w.redirect(writer, request)
}

func (w *web) endpointEmployeeDeletePrompt(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	d := w.directory(ctx)
	id, ok := idFromPath(request)
	if !ok {
		w.render(ctx, writer, http.StatusBadRequest, d)
		return
	}
	employee := find(d, id)
	if employee == nil {
		w.render(ctx, writer, http.StatusNotFound, d)
		return
	}
	d.ConfirmDelete(employee)
	w.render(ctx, writer, http.StatusOK, d)
}

func (w *web) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := w.requestContext(request)
	d := directory.New(w.backend, w.Logger)
	id, ok := idFromPath(request)
	if !ok {
		w.render(ctx, writer, http.StatusBadRequest, w.load(ctx, d))
		return
	}
	d.ConfirmDelete(&data.Employee{Id: &id})
	if err := d.Remove(ctx); err != nil {
		w.render(ctx, writer, http.StatusBadGateway, w.load(ctx, d))
		return
	}
	w.redirect(writer, request)
}

func (w *web) buildRoutes() {
	w.Router.HandleFunc(RouteIndex, w.endpointIndex).Methods(http.MethodGet)
	w.Router.HandleFunc(RouteEmployeeNew, w.endpointEmployeeNew).Methods(http.MethodGet)
	w.Router.HandleFunc(RouteEmployees, w.endpointEmployeeSubmit).Methods(http.MethodPost)
	w.Router.HandleFunc(RouteEmployeeEdit, w.endpointEmployeeEdit).Methods(http.MethodGet)
	w.Router.HandleFunc(RouteEmployeeDelete, w.endpointEmployeeDeletePrompt).Methods(http.MethodGet)
	w.Router.HandleFunc(RouteEmployeeDelete, w.endpointEmployeeDelete).Methods(http.MethodPost)
}

func (w *web) Configure(envs map[string]string) error {
	w.Lock()
	defer w.Unlock()

	w.config.port = "8081"
	w.config.shutdownTimeout = 10 * time.Second
	if address, ok := envs["WEB_ADDRESS"]; ok {
		w.config.address = address
	}
	if port, ok := envs["WEB_PORT"]; ok && port != "" {
		w.config.port = port
	}
	if shutdownTimeoutString, ok := envs["WEB_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				w.config.shutdownTimeout = timeout
			}
		}
	}
	return nil
}

func (w *web) Open(ctx context.Context) error {
	w.Lock()
	defer w.Unlock()

	if w.opened {
		return nil
	}
	if w.backend == nil {
		return fmt.Errorf("no backend provided")
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.Server.Addr = net.JoinHostPort(w.config.address, w.config.port)
	w.buildRoutes()
	if err := w.launchServer(); err != nil {
		w.cancel()
		return err
	}
	w.opened = true
	return nil
}

func (w *web) Close(ctx context.Context) error {
	w.Lock()
	defer w.Unlock()

	if !w.opened {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, w.config.shutdownTimeout)
	defer cancel()
	if err := w.Server.Shutdown(ctx); err != nil {
		w.Error(ctx, "error while shutting down the web server: %s", err)
	}
	w.cancel()
	w.Wait()
	w.opened = false
	return nil
}
