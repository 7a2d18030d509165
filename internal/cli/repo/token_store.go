package repo

// TokenStore хранит токен сессии, выданный при login.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}
