package data

const (
	RouteApi            string = "/api"
	RouteEmployees      string = RouteApi + "/employees/"
	RouteEmployeesId    string = RouteEmployees + "{" + PathId + "}/"
	RouteEmployeesIdf   string = RouteEmployees + "%d/"
	RouteCache          string = RouteApi + "/cache/"
	RouteCacheCounters  string = RouteCache + "counters/"
	RouteTimers         string = RouteApi + "/timers/"
	PathId              string = "id"
	HeaderCorrelationId string = "Correlation-Id"
)

type ErrorResponse struct {
	Error string `json:"error"`
}
