// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

import "blog_backend/internal/feature/auth/domain/entity"

// RegisterReq is the body of POST /auth/register.
type RegisterReq struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AuthRes is the data payload returned by register and login.
type AuthRes struct {
	User  *entity.PublicUser `json:"user"`
	Token string             `json:"token"`
}

// MeRes is the data payload returned by GET /auth/me.
type MeRes struct {
	User entity.PublicUser `json:"user"`
}
