package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// swagger:route PUT /api/employees/{id}/ Employee UpdateEmployee
// Replaces every field of an employee using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeePutResponseOk
//   400: ValidationErrorResponse
//   403: ErrorResponse
//   404: ErrorResponse

// swagger:response EmployeePutResponseOk
type EmployeePutResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters UpdateEmployee
type EmployeePutParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:body
	Employee data.Employee `json:"employee"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
