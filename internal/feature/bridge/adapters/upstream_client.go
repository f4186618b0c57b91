// Package adapters はWeb層がAPIを呼び出すためのHTTPクライアントを提供します。
package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"blog_backend/internal/feature/bridge/domain"
	"blog_backend/internal/feature/bridge/usecase"
)

// maxBodySize はAPIレスポンスの読み込み上限です。
const maxBodySize = 1 << 20

type upstreamClient struct {
	baseURL string
	client  *http.Client
}

var _ usecase.Upstream = (*upstreamClient)(nil)

// NewUpstreamClient はbaseURLのAPI用クライアントを生成します。
func NewUpstreamClient(baseURL string, client *http.Client) *upstreamClient {
	return &upstreamClient{baseURL: baseURL, client: client}
}

// Do はリクエストを1件送信します。
// tokenが空でなければ、そのままBearerとして送信します。
// エラーが返る場合、APIから有効な応答が得られなかったことを意味します。
func (u *upstreamClient) Do(ctx context.Context, method, path, token string, body []byte) (*domain.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return &domain.Response{Status: resp.StatusCode, Body: b}, nil
}
