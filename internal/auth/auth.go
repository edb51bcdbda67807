// Package auth определяет подключаемую проверку учётных данных.
package auth

import (
	"context"
	"errors"

	"github.com/mmeshcher/goodfood/internal/validation"
)

// DefaultLoginName задаёт имя, которое получает пользователь после входа по email.
const DefaultLoginName = "Пользователь"

// Mode определяет, какую форму отправил пользователь.
type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

// ErrUnsupportedMode возвращается для неизвестного режима аутентификации.
var ErrUnsupportedMode = errors.New("unsupported auth mode")

// Credentials содержит данные формы входа или регистрации.
type Credentials struct {
	Mode     Mode
	Login    validation.LoginForm
	Register validation.RegistrationForm
}

// Identity описывает результат успешной аутентификации.
type Identity struct {
	Name string
}

// Authenticator проверяет учётные данные. Реализация с настоящим бэкендом
// подключается без изменений в автомате навигации.
type Authenticator interface {
	Authenticate(ctx context.Context, c Credentials) (Identity, error)
}

// LocalAuthenticator принимает любые учётные данные, прошедшие проверку формы.
type LocalAuthenticator struct{}

// NewLocalAuthenticator создаёт аутентификатор без обращения к внешним системам.
func NewLocalAuthenticator() *LocalAuthenticator {
	return &LocalAuthenticator{}
}

// Authenticate проверяет форму и возвращает отображаемое имя пользователя.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, c Credentials) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}

	switch c.Mode {
	case ModeLogin:
		if err := validation.ValidateLogin(c.Login); err != nil {
			return Identity{}, err
		}
		return Identity{Name: DefaultLoginName}, nil
	case ModeRegister:
		if err := validation.ValidateRegistration(c.Register); err != nil {
			return Identity{}, err
		}
		return Identity{Name: c.Register.Name}, nil
	}

	return Identity{}, ErrUnsupportedMode
}
