package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
)

// ErrorBody mirrors the public API: detail is a message, or a list of field
// problems for validation failures.
type ErrorBody struct {
	Detail interface{} `json:"detail"`
	Code   string      `json:"code,omitempty"`
}

type FieldError struct {
	Type  string      `json:"type"`
	Loc   []string    `json:"loc"`
	Msg   string      `json:"msg"`
	Input interface{} `json:"input"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Detail: msg, Code: code})
}

// RespondAPIError maps err through apierr. Unexpected failures keep their
// message so clients can surface it.
func RespondAPIError(c *gin.Context, err error, fallbackCode string) {
	ae := apierr.From(err, fallbackCode)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, fallbackCode, nil)
		return
	}
	_ = c.Error(err)
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// RespondBindError reports a request body that failed to decode or validate.
func RespondBindError(c *gin.Context, err error, loc string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Type:  fe.Tag(),
				Loc:   []string{loc, fieldName(fe)},
				Msg:   fieldMessage(fe),
				Input: fe.Value(),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorBody{Detail: details, Code: "validation_error"})
		return
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typ):
		c.JSON(http.StatusUnprocessableEntity, ErrorBody{
			Detail: []FieldError{{Type: "type_error", Loc: []string{loc, typ.Field}, Msg: fmt.Sprintf("expected %s", typ.Type), Input: typ.Value}},
			Code:   "validation_error",
		})
	case errors.As(err, &syn):
		c.JSON(http.StatusUnprocessableEntity, ErrorBody{
			Detail: []FieldError{{Type: "json_invalid", Loc: []string{loc, fmt.Sprint(syn.Offset)}, Msg: "JSON decode error", Input: nil}},
			Code:   "validation_error",
		})
	default:
		RespondError(c, http.StatusUnprocessableEntity, "invalid_request", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// fieldName prefers the json tag gin's validator was fed; validator reports
// the Go field name otherwise.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return toSnake(name)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("should have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("should have at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("should be one of: %s", fe.Param())
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}
