package http

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/labstack/echo/v4"
)

// BindRequest fills `default` tags and then decodes the request into req, so
// defaults only survive for fields the client left out. An explicit JSON null
// still clears a defaulted pointer. Field validation is left to the caller.
func BindRequest(c echo.Context, req interface{}) error {
	if err := defaults.Set(req); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	return nil
}
