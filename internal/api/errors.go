package api

import (
	"encoding/json" // Decoder error types
	"errors"        // Error inspection
	"io"            // Empty and truncated bodies
	"net/http"      // HTTP status codes
	"reflect"       // Struct tags for validator field names
	"strconv"       // Path parameter parsing
	"strings"       // Tag parsing

	"crowdfunding/internal/domain"     // Error taxonomy
	"crowdfunding/internal/middleware" // Request id key

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin's shared validator
	"github.com/go-playground/validator/v10" // Binding error types
	"github.com/sirupsen/logrus"             // Logrus for structured logging
)

// respondError maps the domain error taxonomy onto HTTP statuses.
// Unknown errors are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var (
		validation     *domain.ValidationError
		conflict       *domain.ConflictError
		authentication *domain.AuthenticationError
		authorization  *domain.AuthorizationError
		notFound       *domain.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &authentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authentication.Error()})
	case errors.As(err, &authorization):
		c.JSON(http.StatusForbidden, gin.H{"error": authorization.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestID), // Correlation id
			"path":       c.Request.URL.Path,                   // Request path
			"error":      err.Error(),                          // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// idParam parses a positive numeric path parameter; anything else is a 404
func idParam(c *gin.Context, name, resource string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		respondError(c, &domain.NotFoundError{Resource: resource})
		return 0, false
	}
	return uint(v), true
}

// optionalIDQuery parses an optional numeric filter from the query string
func optionalIDQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: "Select a valid choice."}
	}
	id := uint(v)
	return &id, nil
}

func init() {
	// Report binding failures under the JSON field name rather than the Go one
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the body, reporting malformed input as a validation error
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestID), // Correlation id
			"path":       c.Request.URL.Path,                   // Request path
			"error":      err.Error(),                          // Decoder error, never sent to the client
		}).Debug("Rejected request body")
		respondError(c, bindError(err))
		return false
	}
	return true
}

// bindError turns a decoding or binding failure into a client-facing message
// that does not expose Go type names.
func bindError(err error) error {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		return required(fieldErrs[0].Field())
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return &domain.ValidationError{Field: typeErr.Field, Message: "Incorrect type."}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &domain.ValidationError{Message: "JSON parse error."}
	case errors.Is(err, io.EOF):
		return &domain.ValidationError{Message: "Request body is required."}
	default:
		// Custom unmarshalers (decimal amounts) do not report the field
		return &domain.ValidationError{Message: "Invalid request body."}
	}
}

func required(field string) error {
	return &domain.ValidationError{Field: field, Message: "This field is required."}
}
