// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"currency_backend/internal/api"
	"currency_backend/internal/feature/auth/domain"
	"currency_backend/internal/feature/auth/transport/http/dto"
)

// invalidRequestMessage is returned when the body cannot be bound.
const invalidRequestMessage = "invalid request"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、アクセストークンを返します。
	Register(ctx context.Context, username, password string) (string, error)
	// Login はユーザーを認証し、成功時にアクセストークンを返します。
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをRegisterReqにバインド
// - 入力不正・ユーザー名重複時は400を返却
// - 成功時はアクセストークン付きで201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: invalidRequestMessage})
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			slog.Warn("register rejected", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrDuplicateUsername):
			slog.Warn("register rejected", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: domain.ErrDuplicateUsername.Error()})
		default:
			// 内部エラーの詳細はクライアントに公開しない
			slog.Error("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.InternalErrorMessage})
		}
		return
	}

	slog.Info("user registration successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.TokenResponse{AccessToken: token, TokenType: api.TokenTypeBearer})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - フォームボディをLoginReqにバインド
// - バインドエラー時は400を返却
// - 認証失敗時はWWW-Authenticateヘッダー付きで401を返却
// - 認証成功時はアクセストークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindWith(&req, binding.FormPost); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: invalidRequestMessage})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、未登録と不一致を区別しない
			slog.Warn("login failed", "username", req.Username, "remote_addr", c.ClientIP())
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: domain.ErrInvalidCredentials.Error()})
			return
		}
		slog.Error("login failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: api.InternalErrorMessage})
		return
	}

	slog.Info("user login successful", "username", req.Username, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: api.TokenTypeBearer})
}
