package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antonio-alexander/go-employee-directory/internal"
	"github.com/antonio-alexander/go-employee-directory/internal/data"
)

var errBadRequest = errors.New("bad request")

func idFromPath(pathVariables map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathVariables[data.PathId], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, pathVariables[data.PathId])
	}
	return id, nil
}

// getCorrelationId returns the correlation id of the request, generating
// one if the caller didn't provide it.
func getCorrelationId(request *http.Request) string {
	if correlationId := request.Header.Get(data.HeaderCorrelationId); correlationId != "" {
		return correlationId
	}
	return internal.GenerateId()
}

func errorStatusCode(err error) int {
	var validationErrors data.ValidationErrors

	switch {
	default:
		return http.StatusInternalServerError
	case errors.As(err, &validationErrors):
		return http.StatusBadRequest
	case errors.Is(err, errBadRequest), errors.Is(err, data.ErrIdMismatch):
		return http.StatusBadRequest
	case errors.Is(err, data.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, data.ErrMutationDisabled):
		return http.StatusForbidden
	}
}

// handleResponse writes item as json with the given status code, or maps
// err to a status code and an error body; validation errors are written as
// the field to message map.
func handleResponse(writer http.ResponseWriter, statusCode int, err error, items ...any) error {
	var bytes []byte

	if err != nil {
		var validationErrors data.ValidationErrors

		statusCode = errorStatusCode(err)
		switch {
		default:
			bytes, err = json.Marshal(&data.ErrorResponse{Error: err.Error()})
		case errors.As(err, &validationErrors):
			bytes, err = json.Marshal(validationErrors)
		}
		if err != nil {
			writer.WriteHeader(http.StatusInternalServerError)
			return err
		}
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(statusCode)
		_, err = writer.Write(bytes)
		return err
	}
	if len(items) <= 0 {
		writer.WriteHeader(http.StatusNoContent)
		return nil
	}
	if bytes, err = json.Marshal(items[0]); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return err
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_, err = writer.Write(bytes)
	return err
}
