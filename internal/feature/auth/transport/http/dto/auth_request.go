// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "food_logger/internal/feature/auth/domain/entity"

// RegisterReq は POST /register のフォームを表します。
// Ginのbindingタグでバリデーションします（必須・メール形式・パスワード長）。
type RegisterReq struct {
	Username string `form:"username" json:"username" binding:"required,max=256"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

// LoginReq は POST /login のフォームを表します。
type LoginReq struct {
	Email      string `form:"email" json:"email" binding:"required,email"`
	Password   string `form:"password" json:"password" binding:"required"`
	RedirectTo string `form:"redirectTo" json:"redirectTo"`
}

// FieldErrors はフォームのフィールドごとのエラーです。問題のないフィールドはnullになります。
type FieldErrors struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Unknown  *string `json:"unknown"`
}

// ErrorsRes はフォーム送信失敗時のレスポンスボディです。
type ErrorsRes struct {
	Errors FieldErrors `json:"errors"`
}

// ProfileRes は GET /home のレスポンスボディです。
type ProfileRes struct {
	User entity.Profile `json:"user"`
}
