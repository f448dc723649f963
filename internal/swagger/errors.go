package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// A field to message map, returned when the employee fails validation.
// swagger:response ValidationErrorResponse
type ValidationErrorResponse struct {
	// in:body
	ValidationErrors data.ValidationErrors `json:"validation_errors"`
}

// swagger:response ErrorResponse
type ErrorResponse struct {
	// in:body
	ErrorResponse data.ErrorResponse `json:"error_response"`
}
