// Package di provides dependency injection factories for creating application components.
package di

import (
	"blog_backend/internal/platform/config"
	jwtmw "blog_backend/internal/platform/jwt"
)

// NewTokenCodec builds the process-wide token codec from the API config.
func NewTokenCodec(cfg config.APIConfig) (*jwtmw.Codec, error) {
	return jwtmw.NewCodec(jwtmw.Config{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})
}
