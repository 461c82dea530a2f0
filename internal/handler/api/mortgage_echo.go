package api

import (
	"errors"
	"net/http"

	"MortgageCalc/internal/domain/models"
	drepo "MortgageCalc/internal/domain/repository"
	domsvc "MortgageCalc/internal/domain/service"
	"MortgageCalc/internal/usecase"
	xhttp "MortgageCalc/pkg/http"
	xlogger "MortgageCalc/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DownPaymentMessage is returned when the down payment exceeds the price.
const DownPaymentMessage = "Down payment cannot exceed property price"

const malformedBody = "body: malformed request"

// MortgageEchoHandler serves the mortgage quote API.
type MortgageEchoHandler struct {
	logger    *xlogger.Logger
	validator domsvc.ProfileValidator
	quoter    domsvc.Quoter
	rates     usecase.RateLookup
	metrics   drepo.Metrics
	limit     echo.MiddlewareFunc
}

func NewMortgageEchoHandler(
	logger *xlogger.Logger,
	validator domsvc.ProfileValidator,
	quoter domsvc.Quoter,
	rates usecase.RateLookup,
	metrics drepo.Metrics,
) *MortgageEchoHandler {
	return &MortgageEchoHandler{
		logger:    logger,
		validator: validator,
		quoter:    quoter,
		rates:     rates,
		metrics:   metrics,
	}
}

// SetRateLimit guards the calculate route with mw.
func (h *MortgageEchoHandler) SetRateLimit(mw echo.MiddlewareFunc) { h.limit = mw }

func (h *MortgageEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/mortgage")
	if h.limit != nil {
		g.POST("/calculate", h.Calculate, h.limit)
	} else {
		g.POST("/calculate", h.Calculate)
	}
	g.GET("/products", h.Products)
	g.GET("/rates/:product", h.Rates)
}

// Calculate validates the applicant profile and returns the four quotes.
// Bodies are unwrapped: a quote array, an array of "field: message"
// strings, or the plain-text down payment message.
func (h *MortgageEchoHandler) Calculate(c echo.Context) error {
	req := &models.QuoteRequest{}
	if err := xhttp.BindRequest(c, req); err != nil {
		h.metrics.RecordRejected("bind")
		h.logger.Debug("calculate bind_error", xlogger.Error(err))
		return c.JSON(http.StatusBadRequest, []string{malformedBody})
	}

	if violations := h.validator.Validate(req); len(violations) > 0 {
		h.metrics.RecordRejected("field_validation")
		msgs := make([]string, 0, len(violations))
		for _, v := range violations {
			msgs = append(msgs, v.String())
		}
		h.logger.Debug("calculate rejected", xlogger.Strings("violations", msgs))
		return c.JSON(http.StatusBadRequest, msgs)
	}

	profile := req.ToProfile()
	if !h.validator.IsDownPaymentValid(profile) {
		h.metrics.RecordRejected("down_payment")
		return c.String(http.StatusBadRequest, DownPaymentMessage)
	}

	quotes, err := h.quoter.Quote(c.Request().Context(), profile)
	if err != nil {
		if errors.Is(err, usecase.ErrNoRateData) {
			h.logger.Error("rate table misconfigured", xlogger.Error(err))
		} else {
			h.logger.Error("calculate usecase error", xlogger.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Internal Server Error",
		})
	}
	return c.JSON(http.StatusOK, quotes)
}

// Products lists the quoted products in quote order.
func (h *MortgageEchoHandler) Products(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.Products())
}

// Rates returns the reference curve loaded for one product.
func (h *MortgageEchoHandler) Rates(c echo.Context) error {
	key := c.Param("product")
	pts := h.rates.Get(key)
	if len(pts) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no rate data for product %q", key))
	}
	return xhttp.SuccessResponse(c, pts)
}
