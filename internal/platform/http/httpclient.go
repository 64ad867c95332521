// Package http provides the outbound HTTP client shared by external API adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// Transport limits for outbound calls. Dial and TLS handshakes are kept well below
// any request timeout so an unreachable provider fails fast.
const (
	dialTimeout         = 5 * time.Second
	keepAlive           = 30 * time.Second
	tlsHandshakeTimeout = 5 * time.Second
	idleConnTimeout     = 90 * time.Second
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
)

// NewHTTPClient は外部API呼び出し用のHTTPクライアントを作成します。
// timeout はリクエスト全体（接続からボディ読み込みまで）の上限です。
// http.DefaultClientにはタイムアウトがないため使用しないこと。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: keepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
