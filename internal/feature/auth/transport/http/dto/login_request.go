package dto

// LoginReq はログインAPIのリクエストボディ（POST /auth/login）です。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
