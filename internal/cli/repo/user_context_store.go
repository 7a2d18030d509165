package repo

// UserContextStore хранит активный логин; по нему выбирается локальная база.
type UserContextStore interface {
	SaveLogin(login string) error
	LoadLogin() (string, error)
	ClearLogin() error
}
