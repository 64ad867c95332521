package dto

// LoginReq は/auth/loginエンドポイントのフォームボディを表します。
// OAuth2パスワードフローと同じフィールド名を使用します。
type LoginReq struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
