// Package handler はcurrencyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"

	"currency_backend/internal/api"
	"currency_backend/internal/feature/currency/domain"
	"currency_backend/internal/feature/currency/domain/entity"
	"currency_backend/internal/feature/currency/transport/http/dto"
	"currency_backend/internal/feature/currency/usecase"
	jwtmw "currency_backend/internal/platform/jwt"
)

// CurrencyUsecase は通貨操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CurrencyUsecase interface {
	GetExchangeRate(ctx context.Context, from, to string) (entity.ExchangeRate, error)
	Convert(ctx context.Context, from, to string, amount decimal.Decimal) (entity.Conversion, error)
	ListCurrencies(ctx context.Context) (map[string]string, error)
}

// CurrencyHandler は通貨データのHTTPリクエストを処理します。
type CurrencyHandler struct {
	uc CurrencyUsecase
}

// NewCurrencyHandler は指定されたusecaseでCurrencyHandlerの新しいインスタンスを生成します。
func NewCurrencyHandler(uc CurrencyUsecase) *CurrencyHandler {
	return &CurrencyHandler{uc: uc}
}

// GetExchangeRate は通貨ペアの為替レートをJSONで返します。
//
// エンドポイント例:
// GET /api/v1/currency/exchange?from=USD&to=EUR
//
// from_currency / to_currency という名前のクエリパラメータも受け付けます。
func (h *CurrencyHandler) GetExchangeRate(c *gin.Context) {
	from, err := queryCode(c, "from", "from_currency")
	if err != nil {
		h.writeError(c, "exchange", err)
		return
	}
	to, err := queryCode(c, "to", "to_currency")
	if err != nil {
		h.writeError(c, "exchange", err)
		return
	}

	rate, err := h.uc.GetExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		h.writeError(c, "exchange", err)
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		FromCurrency: rate.From,
		ToCurrency:   rate.To,
		ExchangeRate: rate.Rate.String(),
	})
}

// Convert は金額を指定された通貨へ換算します。
//
// エンドポイント例:
// POST /api/v1/currency/convert {"from_currency":"USD","to_currency":"EUR","amount":100}
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req dto.ConvertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("convert validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	// 未指定の場合はデフォルト値を使用
	amount := usecase.DefaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}

	conv, err := h.uc.Convert(c.Request.Context(), req.FromCurrency, req.ToCurrency, amount)
	if err != nil {
		h.writeError(c, "convert", err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversionResponse{
		FromCurrency:    conv.From,
		ToCurrency:      conv.To,
		Amount:          conv.Amount.String(),
		ConvertedAmount: conv.ConvertedAmount.StringFixed(2),
		ExchangeRate:    conv.Rate.String(),
	})
}

// ListCurrencies は利用可能な通貨コードと通貨名の一覧を返します。
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.uc.ListCurrencies(c.Request.Context())
	if err != nil {
		h.writeError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, dto.CurrencyListResponse{Currencies: currencies})
}

// writeError maps a usecase error to a status code.
// Client errors carry their message; upstream and internal failures return fixed messages.
func (h *CurrencyHandler) writeError(c *gin.Context, op string, err error) {
	userID := c.GetUint(jwtmw.ContextUserID)
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrCurrencyNotFound),
		errors.Is(err, domain.ErrUpstreamRejected):
		slog.Warn("currency request rejected", "op", op, "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstreamTimeout):
		slog.Error("currency provider timed out", "op", op, "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusGatewayTimeout, api.ErrorResponse{Error: domain.ErrUpstreamTimeout.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		slog.Error("currency provider unavailable", "op", op, "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: domain.ErrUpstreamUnavailable.Error()})
	default:
		slog.Error("currency request failed", "op", op, "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.InternalErrorMessage})
	}
}

// queryCode binds the first non-empty query parameter among names.
func queryCode(c *gin.Context, names ...string) (string, error) {
	q := c.Request.URL.Query()
	for _, name := range names {
		var v string
		if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: query parameter %q is required", domain.ErrInvalidInput, names[0])
}
