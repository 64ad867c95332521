// Package middleware はアプリ全体で共有するginミドルウェアを提供します。
package middleware

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "requestID"

	maxRequestIDLen = 128
)

// NewRequestID returns a new ULID string.
func NewRequestID(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RequestID はクライアントが送ったX-Request-IDを引き継ぎ、無ければULIDを採番します。
// 値はコンテキストとレスポンスヘッダーの両方に設定されます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			var err error
			id, err = NewRequestID(time.Now().UTC())
			if err != nil {
				// 採番に失敗してもリクエストは継続する
				slog.Warn("failed to generate request id", "error", err)
				id = ""
			}
		}
		if id != "" {
			c.Set(ContextRequestID, id)
			c.Header(HeaderRequestID, id)
		}
		c.Next()
	}
}
