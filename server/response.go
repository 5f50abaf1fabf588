package server

import (
	"errors"
	"net/http"

	"competitors/graph"
	"competitors/query"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondQueryError maps query failures onto HTTP statuses.
func respondQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, query.ErrNotImplemented):
		RespondError(c, http.StatusNotImplemented, "not_implemented", err)
	case errors.Is(err, graph.ErrMalformedWeight):
		RespondError(c, http.StatusInternalServerError, "malformed_weight", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
