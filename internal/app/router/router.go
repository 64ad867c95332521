// Package router はアプリケーション全体のHTTPルーティングを定義します。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authhandler "currency_backend/internal/feature/auth/transport/handler"
	currencyhandler "currency_backend/internal/feature/currency/transport/handler"
	"currency_backend/internal/platform/http/handler"
	jwtmw "currency_backend/internal/platform/jwt"
	"currency_backend/internal/platform/metrics"
	"currency_backend/internal/platform/middleware"
)

// NewRouter builds the gin engine with the shared middleware chain and every route.
func NewRouter(log *slog.Logger, m *metrics.Metrics, resolver jwtmw.IdentityResolver,
	authHandler *authhandler.AuthHandler, currency *currencyhandler.CurrencyHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), m.Middleware())

	// 認証不要
	r.GET("/", handler.Root)
	// 導通確認用
	for _, path := range []string{"/health", "/healthz"} {
		r.GET(path, handler.Health)
		r.HEAD(path, handler.Health)
	}
	r.GET("/metrics", gin.WrapH(m.Handler()))

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		// 新規ユーザー登録（JWT 発行）
		authGroup.POST("/register", authHandler.Register)
		// ログイン（フォーム送信、JWT 発行）
		authGroup.POST("/login", authHandler.Login)
	}

	// 認証必須のルート
	// → リクエストヘッダーに Bearer トークンが必要になる
	currencyGroup := v1.Group("/currency")
	currencyGroup.Use(jwtmw.AuthRequired(resolver))
	{
		currencyGroup.GET("/exchange", currency.GetExchangeRate)
		currencyGroup.POST("/convert", currency.Convert)
		currencyGroup.GET("/list", currency.ListCurrencies)
	}

	return r
}
