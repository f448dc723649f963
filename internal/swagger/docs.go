// Package Swagger go-employee-directory
//
// An API to list, create, read, update and delete the employees of the
// directory.
//
//   Schemes: http, https
//   Version: 1.0
//   Host: localhost:8080
//   BasePath:/
//
//   Consumes:
//   - application/json
//
//   Produces:
//   - application/json
//
// swagger:meta
package swagger
