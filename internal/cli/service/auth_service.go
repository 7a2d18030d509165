package service

import (
	"errors"
	"fmt"

	"CardForge/internal/auth"
	"CardForge/internal/cli/repo"
)

// ErrNotLoggedIn возвращается, если команде нужен активный логин.
var ErrNotLoggedIn = errors.New("not logged in: run login first")

// AuthService описывает юзкейс-уровень аутентификации для CLI.
type AuthService interface {
	// Login проверяет учётные данные, сохраняет токен и делает email активным логином.
	Login(email, password string) (*auth.User, error)

	// Logout очищает локальный контекст аутентификации.
	Logout() error

	// CurrentUser возвращает активный логин и его токен.
	CurrentUser() (login, token string, err error)
}

type localAuth struct {
	tokens repo.TokenStore
	users  repo.UserContextStore
	secret string
}

// NewAuthService проверяет учётные данные локально и подписывает токены секретом secret.
func NewAuthService(tokens repo.TokenStore, users repo.UserContextStore, secret string) AuthService {
	return &localAuth{tokens: tokens, users: users, secret: secret}
}

func (a *localAuth) Login(email, password string) (*auth.User, error) {
	u, err := auth.Authenticate(email, password)
	if err != nil {
		return nil, err
	}
	token, err := auth.IssueToken(*u, a.secret, auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := a.tokens.Save(token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	if err := a.users.SaveLogin(u.Email); err != nil {
		return nil, fmt.Errorf("save login: %w", err)
	}
	return u, nil
}

func (a *localAuth) Logout() error {
	return errors.Join(a.tokens.Clear(), a.users.ClearLogin())
}

// CurrentUser отклоняет просроченный или чужой токен: в этом случае нужен повторный login.
func (a *localAuth) CurrentUser() (string, string, error) {
	login, err := a.users.LoadLogin()
	if err != nil {
		return "", "", ErrNotLoggedIn
	}
	token, err := a.tokens.Load()
	if err != nil {
		return "", "", ErrNotLoggedIn
	}
	if _, err := auth.ParseToken(token, a.secret); err != nil {
		return "", "", fmt.Errorf("%w (%v)", ErrNotLoggedIn, err)
	}
	return login, token, nil
}
