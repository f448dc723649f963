package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// swagger:route GET /api/employees/ Employee ReadEmployees
// Reads all employees, ordered by id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesGetResponseOk
//   500: ErrorResponse

// swagger:response EmployeesGetResponseOk
type EmployeesGetResponseOk struct {
	// in:body
	Employees data.Employees `json:"employees"`
}

// swagger:parameters ReadEmployees
type EmployeesGetParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
