package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/logic"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
	}
	ctx    context.Context
	cancel context.CancelFunc
	*mux.Router
	*http.Server
	cache internal.Clearer
	utilities.Logger
	utilities.Counter
	utilities.Timers
	logic.Logic
	opened bool
}

func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case logic.Logic:
			s.Logic = p
		case internal.Clearer:
			s.cache = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	if s.Counter == nil {
		s.Counter = utilities.NewCounter()
	}
	if s.Timers == nil {
		s.Timers = utilities.NewTimers()
	}
	return s
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		if !s.config.corsDisabled {
			s.Server.Handler = cors.New(cors.Options{
				AllowedOrigins:   s.config.allowedOrigins,
				AllowCredentials: s.config.allowCredentials,
				AllowedMethods:   s.config.allowedMethods,
				AllowedHeaders:   s.config.allowedHeaders,
				Debug:            s.config.corsDebug,
			}).Handler(s.Router)
		}
		close(started)
		if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: here we're accounting for a situation where the server closes unexexpectedly
		// but quickly (within a second of starting); this allows us to respond to errors such as
		// the port being already used
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// timed starts the timer for group and returns the function that stops
// it; it does nothing when timers are disabled.
func (s *service) timed(ctx context.Context, group string) func() {
	if !s.config.timersEnabled {
		return func() {}
	}
	timerIndex := s.Timers.Start(group)
	return func() {
		elapsedTime := s.Timers.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group,
			time.Duration(elapsedTime)*time.Nanosecond)
	}
}

func (s *service) requestContext(writer http.ResponseWriter, request *http.Request) context.Context {
	correlationId := getCorrelationId(request)
	writer.Header().Set(data.HeaderCorrelationId, correlationId)
	return internal.CtxWithCorrelationId(request.Context(), correlationId)
}

func (s *service) respond(ctx context.Context, writer http.ResponseWriter, statusCode int, err error, items ...any) {
	if err != nil {
		s.Debug(ctx, "error while handling request: %s", err)
	}
	if err := handleResponse(writer, statusCode, err, items...); err != nil {
		s.Error(ctx, "error handling response: %s", err)
	}
}

func readEmployee(request *http.Request) (data.Employee, error) {
	var employee data.Employee

	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return employee, err
	}
	if err := json.Unmarshal(bytes, &employee); err != nil {
		return employee, fmt.Errorf("%w: %s", errBadRequest, err)
	}
	return employee, nil
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employee-directory\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timed(ctx, "employee_create")()
	employee, err := readEmployee(request)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	employeeCreated, err := s.EmployeeCreate(ctx, employee)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	s.respond(ctx, writer, http.StatusCreated, nil, employeeCreated)
	s.Trace(ctx, "executed employee_create: %d", *employeeCreated.Id)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timed(ctx, "employee_read")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	employee, err := s.EmployeeRead(ctx, id)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	s.respond(ctx, writer, http.StatusOK, nil, employee)
	s.Trace(ctx, "executed employee_read: %d", id)
}

func (s *service) endpointEmployeesRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timed(ctx, "employees_read")()
	employees, err := s.EmployeesRead(ctx)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	if employees == nil {
		employees = []*data.Employee{}
	}
	s.respond(ctx, writer, http.StatusOK, nil, employees)
	s.Trace(ctx, "executed employees_read")
}

func (s *service) endpointEmployeeUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timed(ctx, "employee_update")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	employee, err := readEmployee(request)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	employeeUpdated, err := s.EmployeeUpdate(ctx, id, employee)
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	s.respond(ctx, writer, http.StatusOK, nil, employeeUpdated)
	s.Trace(ctx, "executed employee_update: %d", id)
}

func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	defer s.timed(ctx, "employee_delete")()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	if err := s.EmployeeDelete(ctx, id); err != nil {
		s.respond(ctx, writer, 0, err)
		return
	}
	s.respond(ctx, writer, http.StatusNoContent, nil)
	s.Trace(ctx, "executed employee_delete: %d", id)
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.respond(ctx, writer, 0, err)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	s.respond(ctx, writer, http.StatusNoContent, nil)
}

func (s *service) endpointCacheCountersRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.respond(ctx, writer, http.StatusOK, nil, s.Counter.ReadAll())
	s.Debug(ctx, "cache hit ratio: %0.2f", s.Counter.HitRatio())
}

func (s *service) endpointCacheCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.Counter.Clear()
	s.respond(ctx, writer, http.StatusNoContent, nil)
	s.Trace(ctx, "executed cache_counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.respond(ctx, writer, http.StatusOK, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := s.requestContext(writer, request)
	s.Timers.Clear()
	s.respond(ctx, writer, http.StatusNoContent, nil)
	s.Trace(ctx, "executed timers_clear")
}

// handle registers route with and without its trailing slash.
func (s *service) handle(route string, handlers map[string]http.HandlerFunc) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
	s.Router.HandleFunc(route, handler)
	if trimmed := strings.TrimSuffix(route, "/"); trimmed != route && trimmed != "" {
		s.Router.HandleFunc(trimmed, handler)
	}
}

func (s *service) buildRoutes() {
	s.Router.HandleFunc("/", s.endpointDefault())
	s.handle(data.RouteEmployees, map[string]http.HandlerFunc{
		http.MethodGet:  s.endpointEmployeesRead,
		http.MethodPost: s.endpointEmployeeCreate,
	})
	s.handle(data.RouteEmployeesId, map[string]http.HandlerFunc{
		http.MethodGet:    s.endpointEmployeeRead,
		http.MethodPut:    s.endpointEmployeeUpdate,
		http.MethodDelete: s.endpointEmployeeDelete,
	})
	s.handle(data.RouteCacheCounters, map[string]http.HandlerFunc{
		http.MethodGet:    s.endpointCacheCountersRead,
		http.MethodDelete: s.endpointCacheCountersClear,
	})
	s.handle(data.RouteCache, map[string]http.HandlerFunc{
		http.MethodDelete: s.endpointCacheClear,
	})
	s.handle(data.RouteTimers, map[string]http.HandlerFunc{
		http.MethodGet:    s.endpointTimersRead,
		http.MethodDelete: s.endpointTimersClear,
	})
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	s.config.port = "8080"
	s.config.shutdownTimeout = 10 * time.Second
	s.config.allowedMethods = []string{http.MethodGet, http.MethodPost,
		http.MethodPut, http.MethodDelete}
	s.config.allowedHeaders = []string{"Content-Type", data.HeaderCorrelationId}
	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok && port != "" {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins, ok := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; ok && allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods, ok := envs["SERVICE_CORS_ALLOWED_METHODS"]; ok && allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders, ok := envs["SERVICE_CORS_ALLOWED_HEADERS"]; ok && allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return nil
	}
	if s.Logic == nil {
		return fmt.Errorf("no logic provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	s.buildRoutes()
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	s.opened = true
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.opened = false
	return nil
}
