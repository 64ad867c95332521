// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"currency_backend/internal/api"
)

// RootMessage is returned by GET /.
const RootMessage = "Currency Exchange API"

// Health はサービスヘルスチェック用の /health と /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, api.StatusResponse{Status: "ok"})
	}
}

// Root はサービス名を返します。
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessageResponse{Message: RootMessage})
}
