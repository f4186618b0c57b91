// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"blog_backend/internal/feature/auth/domain"
	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/shared/apperr"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// fallbackDummyHash は設定されたコストでダミーハッシュを生成できない場合の比較対象です。
	fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 正規化済みメールアドレスが既に使われている場合、domain.ErrUserAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は一致するユーザーが存在しない場合、domain.ErrUserNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は一致するユーザーが存在しない場合、domain.ErrUserNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// TokenSigner はセッショントークンを発行します。
type TokenSigner interface {
	// Sign はsubjectがuserIDの署名済みトークンを返します。
	Sign(userID uint, email, name string) (string, error)
}

// authUsecase は登録とログインのビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	tokens     TokenSigner
	bcryptCost int
	dummyHash  []byte
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。bcryptCostはそのままbcryptに渡します。
func NewAuthUsecase(users UserRepository, tokens TokenSigner, bcryptCost int) *authUsecase {
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcryptCost)
	if err != nil {
		dummy = []byte(fallbackDummyHash)
	}
	return &authUsecase{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// validateRegistration は登録入力がビジネスルールを満たしているかチェックします。
func validateRegistration(name, email, password string) error {
	var fields []apperr.FieldError
	if n := utf8.RuneCountInString(name); n < entity.MinNameLength || n > entity.MaxNameLength {
		fields = append(fields, apperr.FieldError{
			Field:   "name",
			Message: fmt.Sprintf("name must be %d-%d chars", entity.MinNameLength, entity.MaxNameLength),
		})
	}
	if !strings.Contains(email, "@") {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "email must be valid"})
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		fields = append(fields, apperr.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		})
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation error", fields...)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、公開用ユーザー情報とトークンを返します。
func (u *authUsecase) Register(ctx context.Context, name, email, password string) (*entity.PublicUser, string, error) {
	name = strings.TrimSpace(name)
	email = entity.NormalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, "", err
	}

	// 事前チェックのみ。競合時はCreateのユニークインデックスが判定する
	_, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, "", apperr.Internal("failed to look up user", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return nil, "", apperr.Internal("failed to hash password", err)
	}

	user := &entity.User{Name: name, Email: email, PasswordHash: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, "", err
		}
		return nil, "", apperr.Internal("failed to create user", err)
	}

	return u.issue(user)
}

// Login はユーザーを認証し、公開用ユーザー情報とトークンを返します。
// 未登録のメールアドレスとパスワード不一致は同じエラーになります。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.PublicUser, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, "", apperr.Internal("failed to look up user", err)
	}

	passwordHash := u.dummyHash
	if err == nil {
		passwordHash = []byte(user.PasswordHash)
	}
	compareErr := bcrypt.CompareHashAndPassword(passwordHash, []byte(password))

	if err != nil || compareErr != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	return u.issue(user)
}

// issue はユーザーのセッショントークンを発行します。
func (u *authUsecase) issue(user *entity.User) (*entity.PublicUser, string, error) {
	token, err := u.tokens.Sign(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", apperr.Internal("failed to generate token", err)
	}
	public := user.Public()
	return &public, token, nil
}
