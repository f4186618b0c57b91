// Package usecase はAPIを利用したWeb層のセッション操作を実装します。
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"blog_backend/internal/feature/bridge/domain"
)

const minNameLength = 2

// Upstream はAPIにリクエストを送信します。トークンの中身は参照しません。
type Upstream interface {
	Do(ctx context.Context, method, path, token string, body []byte) (*domain.Response, error)
}

// APIを呼び出す前に検出する入力エラー
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNameTooShort       = errors.New("name must be at least 2 characters")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

type sessionUsecase struct {
	api Upstream
}

// NewSessionUsecase はsessionUsecaseの新しいインスタンスを生成します。
func NewSessionUsecase(api Upstream) *sessionUsecase {
	return &sessionUsecase{api: api}
}

type authPayload struct {
	User  json.RawMessage `json:"user"`
	Token string          `json:"token"`
}

// Login は認証情報をトークンと交換します。
// - いずれかの項目が空の場合はErrMissingCredentials
// - APIが400または401を返した場合は*domain.RelayError
// - それ以外はdomain.ErrUpstreamUnavailable
func (u *sessionUsecase) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	resp, err := u.post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusBadRequest {
			return "", &domain.RelayError{Status: resp.Status, Message: "Login failed"}
		}
		return "", fmt.Errorf("%w: login returned %d", domain.ErrUpstreamUnavailable, resp.Status)
	}
	p, err := decodeAuth(resp)
	if err != nil {
		return "", err
	}
	return p.Token, nil
}

// Register はアカウントを作成し、トークンと公開用ユーザー情報を返します。
// APIの400・409・422はバリデーションエラーを1行のメッセージにまとめて中継します。
func (u *sessionUsecase) Register(ctx context.Context, name, email, password string) (string, json.RawMessage, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minNameLength {
		return "", nil, ErrNameTooShort
	}

	resp, err := u.post(ctx, "/auth/register", map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return "", nil, err
	}
	if !resp.OK() {
		switch resp.Status {
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return "", nil, &domain.RelayError{Status: resp.Status, Message: registerMessage(resp.Envelope())}
		}
		return "", nil, fmt.Errorf("%w: register returned %d", domain.ErrUpstreamUnavailable, resp.Status)
	}
	p, err := decodeAuth(resp)
	if err != nil {
		return "", nil, err
	}
	return p.Token, p.User, nil
}

// Me はトークンから公開用ユーザー情報を取得します。
// APIに到達できない場合も含め、失敗はすべてErrNotAuthenticatedです。
func (u *sessionUsecase) Me(ctx context.Context, token string) (json.RawMessage, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	resp, err := u.api.Do(ctx, http.MethodGet, "/auth/me", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	if !resp.OK() {
		return nil, ErrNotAuthenticated
	}
	var data struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(resp.Envelope().Data, &data); err != nil || len(data.User) == 0 {
		return nil, ErrNotAuthenticated
	}
	return data.User, nil
}

func (u *sessionUsecase) post(ctx context.Context, path string, body any) (*domain.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	resp, err := u.api.Do(ctx, http.MethodPost, path, "", b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	return resp, nil
}

func decodeAuth(resp *domain.Response) (authPayload, error) {
	var p authPayload
	if err := json.Unmarshal(resp.Envelope().Data, &p); err != nil || p.Token == "" {
		return authPayload{}, fmt.Errorf("%w: response carries no token", domain.ErrUpstreamUnavailable)
	}
	return p, nil
}

// registerMessage はAPIの失敗レスポンスを1行のメッセージに変換します。
func registerMessage(env domain.Envelope) string {
	if len(env.Errors) > 0 {
		parts := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			msg := e.Message
			if msg == "" {
				msg = "Unknown error"
			}
			parts = append(parts, msg)
		}
		return "Validation error: " + strings.Join(parts, ", ")
	}
	if env.Message != "" {
		return env.Message
	}
	return "Registration failed"
}
