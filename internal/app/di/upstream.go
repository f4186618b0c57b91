package di

import (
	bridgeadapters "blog_backend/internal/feature/bridge/adapters"
	"blog_backend/internal/feature/bridge/usecase"
	"blog_backend/internal/platform/config"
	infrahttp "blog_backend/internal/platform/http"
)

// NewUpstream creates the web tier's client for the API.
func NewUpstream(cfg config.WebConfig) usecase.Upstream {
	return bridgeadapters.NewUpstreamClient(cfg.APIBaseURL, infrahttp.NewHTTPClient(cfg.UpstreamTimeout))
}
