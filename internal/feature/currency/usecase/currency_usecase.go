// Package usecase は通貨換算のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"currency_backend/internal/feature/currency/domain"
	"currency_backend/internal/feature/currency/domain/entity"
)

// convertedAmountPlaces は換算結果の小数点以下桁数です。
const convertedAmountPlaces = 2

// DefaultAmount は換算額が省略された場合に使用される金額です。
var DefaultAmount = decimal.NewFromInt(1)

// RateProvider は為替レート提供元を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RateProvider interface {
	// LatestRate は from 1単位あたりの to の最新レートを返します。
	LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error)
	// ListCurrencies は通貨コードから通貨名へのマップを返します。
	ListCurrencies(ctx context.Context) (map[string]string, error)
}

// currencyUsecase は通貨操作のユースケースを実装します。
type currencyUsecase struct {
	provider RateProvider
}

// NewCurrencyUsecase はcurrencyUsecaseの新しいインスタンスを生成します。
func NewCurrencyUsecase(provider RateProvider) *currencyUsecase {
	return &currencyUsecase{provider: provider}
}

// GetExchangeRate は通貨ペアの為替レートを取得します。
// 通貨コードは大文字に正規化されます。
func (u *currencyUsecase) GetExchangeRate(ctx context.Context, from, to string) (entity.ExchangeRate, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return entity.ExchangeRate{}, err
	}

	rate, err := u.provider.LatestRate(ctx, from, to)
	if err != nil {
		return entity.ExchangeRate{}, err
	}
	return entity.ExchangeRate{From: from, To: to, Rate: rate}, nil
}

// Convert は amount を from から to へ換算します。
// 換算結果は小数点以下2桁に四捨五入（half-up）されます。
func (u *currencyUsecase) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (entity.Conversion, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return entity.Conversion{}, err
	}
	if !amount.IsPositive() {
		return entity.Conversion{}, fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}

	rate, err := u.provider.LatestRate(ctx, from, to)
	if err != nil {
		return entity.Conversion{}, err
	}

	return entity.Conversion{
		From:            from,
		To:              to,
		Amount:          amount,
		Rate:            rate,
		ConvertedAmount: amount.Mul(rate).Round(convertedAmountPlaces),
	}, nil
}

// ListCurrencies は利用可能な通貨の一覧を返します。
func (u *currencyUsecase) ListCurrencies(ctx context.Context) (map[string]string, error) {
	return u.provider.ListCurrencies(ctx)
}

// normalizePair trims and upper-cases both codes and checks that each is three ASCII letters.
func normalizePair(from, to string) (string, string, error) {
	from, err := normalizeCode("from_currency", from)
	if err != nil {
		return "", "", err
	}
	to, err = normalizeCode("to_currency", to)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func normalizeCode(field, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %s must be a 3-letter currency code", domain.ErrInvalidInput, field)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", fmt.Errorf("%w: %s must be a 3-letter currency code", domain.ErrInvalidInput, field)
		}
	}
	return code, nil
}
