package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// swagger:route POST /api/employees/ Employee CreateEmployee
// Creates an employee, the id is assigned by the server.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   201: EmployeePostResponseCreated
//   400: ValidationErrorResponse
//   403: ErrorResponse

// swagger:response EmployeePostResponseCreated
type EmployeePostResponseCreated struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters CreateEmployee
type EmployeePostParams struct {
	// in:body
	Employee data.Employee `json:"employee"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
