package apilayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"currency_backend/internal/feature/currency/adapters/apilayer/dto"
	"currency_backend/internal/feature/currency/domain"
	"currency_backend/internal/feature/currency/usecase"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Outcomes reported to the CallRecorder.
const (
	OutcomeOK          = "ok"
	OutcomeTimeout     = "timeout"
	OutcomeUnavailable = "unavailable"
	OutcomeRejected    = "rejected"
	OutcomeNotFound    = "not_found"
)

// CallRecorder receives one observation per outbound request.
type CallRecorder interface {
	ObserveUpstream(endpoint, outcome string)
}

// Client はapilayer currency_data APIから為替レートを取得するRateProvider実装です。
// リトライは行いません。失敗は呼び出し元へ即座に返されます。
type Client struct {
	cfg      Config
	client   *http.Client
	recorder CallRecorder
}

// ClientがRateProviderを実装していることをコンパイル時に検証します。
var _ usecase.RateProvider = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// recorderはnilでも構いません。
func NewClient(cfg Config, client *http.Client, recorder CallRecorder) *Client {
	return &Client{cfg: cfg, client: client, recorder: recorder}
}

// LatestRate は /live エンドポイントから通貨ペアの最新レートを取得します。
func (c *Client) LatestRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("source", from)
	q.Set("currencies", to)

	var body dto.LiveResponse
	if err := c.get(ctx, "live", q, &body); err != nil {
		return decimal.Zero, err
	}

	rate, ok := body.Quotes[from+to]
	if !ok {
		c.observe("live", OutcomeNotFound)
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrCurrencyNotFound, from, to)
	}
	c.observe("live", OutcomeOK)
	return rate, nil
}

// ListCurrencies は /list エンドポイントから通貨コードと通貨名の一覧を取得します。
func (c *Client) ListCurrencies(ctx context.Context) (map[string]string, error) {
	var body dto.ListResponse
	if err := c.get(ctx, "list", nil, &body); err != nil {
		return nil, err
	}
	c.observe("list", OutcomeOK)
	if body.Currencies == nil {
		return map[string]string{}, nil
	}
	return body.Currencies, nil
}

// get performs one GET against endpoint, checks the envelope and decodes the body into out.
// Every failure is reported to the recorder before it is returned.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := fmt.Sprintf("%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), endpoint)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.observe(endpoint, OutcomeUnavailable)
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	// リクエストを実行
	res, err := c.client.Do(req)
	if err != nil {
		return c.transportError(endpoint, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return c.transportError(endpoint, err)
	}

	if res.StatusCode >= 400 {
		c.observe(endpoint, OutcomeUnavailable)
		slog.Warn("currency API returned error status", "endpoint", endpoint, "status", res.StatusCode)
		return fmt.Errorf("%w: apilayer http %d", domain.ErrUpstreamUnavailable, res.StatusCode)
	}

	var env dto.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		c.observe(endpoint, OutcomeUnavailable)
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	if !env.Success {
		c.observe(endpoint, OutcomeRejected)
		info := "API request failed"
		if env.Error != nil && env.Error.Info != "" {
			info = env.Error.Info
		}
		return fmt.Errorf("%w: %s", domain.ErrUpstreamRejected, info)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.Unmarshal(b, out); err != nil {
		c.observe(endpoint, OutcomeUnavailable)
		return fmt.Errorf("%w: decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

// transportError classifies a failure to send the request or read its body.
func (c *Client) transportError(endpoint string, err error) error {
	if isTimeout(err) {
		c.observe(endpoint, OutcomeTimeout)
		return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
	}
	c.observe(endpoint, OutcomeUnavailable)
	return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) observe(endpoint, outcome string) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream(endpoint, outcome)
	}
}
