// Package config reads process configuration from the environment once at
// startup. A .env file in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Environment variable keys.
const (
	EnvKeyAppEnv            = "APP_ENV"
	EnvKeyPort              = "PORT"
	EnvKeyJWTSecret         = "JWT_SECRET"
	EnvKeyJWTIssuer         = "JWT_ISS"
	EnvKeyJWTAudience       = "JWT_AUD"
	EnvKeyJWTExpiresIn      = "JWT_EXPIRES_IN"
	EnvKeyBcryptCost        = "BCRYPT_COST"
	EnvKeyCORSAllowOrigins  = "CORS_ALLOW_ORIGINS"
	EnvKeyWebPort           = "WEB_PORT"
	EnvKeyAPIBaseURL        = "API_BASE_URL"
	EnvKeyAuthCookieName    = "AUTH_COOKIE_NAME"
	EnvKeyRefreshCookieName = "REFRESH_COOKIE_NAME"
	EnvKeyCookieMaxAge      = "SESSION_COOKIE_MAX_AGE"
	EnvKeyUpstreamTimeout   = "UPSTREAM_TIMEOUT"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is unset outside
// production. It is refused in production.
const DevJWTSecret = "dev-insecure-secret-change-me"

const (
	defaultPort              = "4433"
	defaultWebPort           = "3000"
	defaultJWTIssuer         = "blogs-api"
	defaultJWTAudience       = "blogs-client"
	defaultJWTTTL            = time.Hour
	defaultCORSAllowOrigins  = "*"
	defaultAPIBaseURL        = "http://localhost:4433"
	defaultAuthCookieName    = "auth"
	defaultRefreshCookieName = "refresh"
	defaultCookieMaxAge      = 7 * 24 * time.Hour
	defaultUpstreamTimeout   = 10 * time.Second
)

// APIConfig configures the JSON API binary.
type APIConfig struct {
	Env              string
	Port             string
	JWTSecret        string
	JWTIssuer        string
	JWTAudience      string
	JWTTTL           time.Duration
	BcryptCost       int
	CORSAllowOrigins []string
}

// WebConfig configures the web tier that holds the session cookie.
type WebConfig struct {
	Env               string
	Port              string
	APIBaseURL        string
	AuthCookieName    string
	RefreshCookieName string
	CookieMaxAge      time.Duration
	UpstreamTimeout   time.Duration
	// TokenTTL is the API's JWT_EXPIRES_IN as seen by the web tier. The
	// cookie must live at least this long or sessions end before the token.
	TokenTTL time.Duration
}

// IsProduction reports whether the API runs in production.
func (c APIConfig) IsProduction() bool { return c.Env == EnvProduction }

// SecureCookies reports whether cookies must carry the Secure attribute.
func (c WebConfig) SecureCookies() bool { return c.Env != EnvDevelopment }

// CookieOutlivesToken reports whether the session cookie max-age covers the
// token lifetime.
func (c WebConfig) CookieOutlivesToken() bool { return c.CookieMaxAge >= c.TokenTTL }

// LoadDotEnv loads .env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}
}

// LoadAPI reads APIConfig from the environment.
func LoadAPI() (APIConfig, error) {
	env, err := appEnv()
	if err != nil {
		return APIConfig{}, err
	}
	prod := env == EnvProduction

	var errs []error
	if prod {
		errs = append(errs, requireSet(EnvKeyJWTSecret, EnvKeyJWTIssuer, EnvKeyJWTAudience, EnvKeyJWTExpiresIn)...)
	}

	cfg := APIConfig{
		Env:              env,
		Port:             getenv(EnvKeyPort, defaultPort),
		JWTSecret:        getenv(EnvKeyJWTSecret, DevJWTSecret),
		JWTIssuer:        getenv(EnvKeyJWTIssuer, defaultJWTIssuer),
		JWTAudience:      getenv(EnvKeyJWTAudience, defaultJWTAudience),
		BcryptCost:       bcrypt.DefaultCost,
		CORSAllowOrigins: splitList(getenv(EnvKeyCORSAllowOrigins, defaultCORSAllowOrigins)),
	}
	if prod && cfg.JWTSecret == DevJWTSecret {
		errs = append(errs, fmt.Errorf("%s must not be the development default in production", EnvKeyJWTSecret))
	}

	ttl, err := ParseDuration(getenv(EnvKeyJWTExpiresIn, ""), defaultJWTTTL)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvKeyJWTExpiresIn, err))
	}
	cfg.JWTTTL = ttl

	if raw := strings.TrimSpace(os.Getenv(EnvKeyBcryptCost)); raw != "" {
		cost, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %q is not a number", EnvKeyBcryptCost, raw))
		case cost < bcrypt.MinCost || cost > bcrypt.MaxCost:
			errs = append(errs, fmt.Errorf("%s: %d outside [%d, %d]", EnvKeyBcryptCost, cost, bcrypt.MinCost, bcrypt.MaxCost))
		default:
			cfg.BcryptCost = cost
		}
	}

	if err := errors.Join(errs...); err != nil {
		return APIConfig{}, err
	}
	return cfg, nil
}

// LoadWeb reads WebConfig from the environment.
func LoadWeb() (WebConfig, error) {
	env, err := appEnv()
	if err != nil {
		return WebConfig{}, err
	}

	var errs []error
	if env == EnvProduction {
		errs = append(errs, requireSet(EnvKeyAPIBaseURL, EnvKeyAuthCookieName, EnvKeyRefreshCookieName)...)
	}

	cfg := WebConfig{
		Env:               env,
		Port:              getenv(EnvKeyWebPort, defaultWebPort),
		APIBaseURL:        strings.TrimRight(getenv(EnvKeyAPIBaseURL, defaultAPIBaseURL), "/"),
		AuthCookieName:    getenv(EnvKeyAuthCookieName, defaultAuthCookieName),
		RefreshCookieName: getenv(EnvKeyRefreshCookieName, defaultRefreshCookieName),
	}

	if cfg.CookieMaxAge, err = ParseDuration(os.Getenv(EnvKeyCookieMaxAge), defaultCookieMaxAge); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvKeyCookieMaxAge, err))
	}
	if cfg.UpstreamTimeout, err = ParseDuration(os.Getenv(EnvKeyUpstreamTimeout), defaultUpstreamTimeout); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvKeyUpstreamTimeout, err))
	}
	if cfg.TokenTTL, err = ParseDuration(os.Getenv(EnvKeyJWTExpiresIn), defaultJWTTTL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvKeyJWTExpiresIn, err))
	}

	if err := errors.Join(errs...); err != nil {
		return WebConfig{}, err
	}
	return cfg, nil
}

// ParseDuration accepts Go durations ("90m"), whole days ("7d") and bare
// seconds ("3600"). An empty string yields def. Non-positive values are errors.
func ParseDuration(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	var d time.Duration
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		d = time.Duration(n) * time.Second
	} else if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}

func appEnv() (string, error) {
	env := strings.ToLower(getenv(EnvKeyAppEnv, EnvDevelopment))
	switch env {
	case EnvDevelopment, EnvTest, EnvProduction:
		return env, nil
	}
	return "", fmt.Errorf("%s: unknown environment %q", EnvKeyAppEnv, env)
}

func requireSet(keys ...string) []error {
	var errs []error
	for _, k := range keys {
		if strings.TrimSpace(os.Getenv(k)) == "" {
			errs = append(errs, fmt.Errorf("%s is required in production", k))
		}
	}
	return errs
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
