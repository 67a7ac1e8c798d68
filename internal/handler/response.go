package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mayankmishra0403/printhub/internal/logger"
	"github.com/mayankmishra0403/printhub/internal/middleware"
	"github.com/mayankmishra0403/printhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	logger.Log.Error("unhandled error",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// queryInt reads an optional positive-or-not integer query parameter.
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// flexInt accepts 12, "12", "" and null. Forms send numbers as strings.
// Anything that is not a whole number leaves Value nil, which pricing reads
// as one page.
type flexInt struct {
	Value *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		return f.UnmarshalParam(str)
	}
	return f.UnmarshalParam(s)
}

func (f *flexInt) UnmarshalParam(s string) error {
	f.Value = nil
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err == nil {
		f.Value = &n
	}
	return nil
}

// flexBool accepts JSON booleans and the usual form spellings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = false
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		return f.UnmarshalParam(str)
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexBool(v)
	return nil
}

func (f *flexBool) UnmarshalParam(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
