package swagger

// swagger:route DELETE /api/employees/{id}/ Employee DeleteEmployee
// Deletes an employee using its id.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   204: EmployeeDeleteResponseNoContent
//   403: ErrorResponse
//   404: ErrorResponse

// swagger:response EmployeeDeleteResponseNoContent
type EmployeeDeleteResponseNoContent struct{}

// swagger:parameters DeleteEmployee
type EmployeeDeleteParams struct {
	// in:path
	Id int64 `json:"id"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
