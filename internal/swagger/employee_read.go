package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// swagger:route GET /api/employees/{id}/ Employee ReadEmployee
// Reads an employee using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeGetResponseOk
//   400: ErrorResponse
//   404: ErrorResponse

// swagger:response EmployeeGetResponseOk
type EmployeeGetResponseOk struct {
	// in:body
	Employee data.Employee `json:"employee"`
}

// swagger:parameters ReadEmployee
type EmployeeGetParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
