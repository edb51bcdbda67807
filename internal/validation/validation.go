// Package validation содержит правила проверки форм входа, регистрации и доставки.
package validation

import (
	"errors"
	"regexp"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mmeshcher/goodfood/internal/model"
)

const (
	minPasswordLen = 8
	minNameLen     = 2
)

// Error описывает ошибку валидации с сообщением для пользователя.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrEmptyFields           = &Error{Code: "empty_fields", Message: "Заполните все поля"}
	ErrPasswordTooShort      = &Error{Code: "password_too_short", Message: "Пароль должен быть минимум 8 символов"}
	ErrNameTooShort          = &Error{Code: "name_too_short", Message: "Имя должно содержать минимум 2 буквы"}
	ErrPasswordLettersDigits = &Error{Code: "password_letters_digits", Message: "Пароль должен содержать буквы и цифры"}
	ErrPasswordMismatch      = &Error{Code: "password_mismatch", Message: "Пароли не совпадают"}
	ErrCheckoutFields        = &Error{Code: "checkout_fields", Message: "Заполните все обязательные поля"}
	ErrCommentTooLong        = &Error{Code: "comment_too_long", Message: "Комментарий не должен превышать 200 символов"}
)

var (
	hasDigit  = regexp.MustCompile(`\d`)
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
)

// LoginForm содержит данные формы входа.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegistrationForm содержит данные формы регистрации.
type RegistrationForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ValidateLogin проверяет форму входа и возвращает первую нарушенную проверку.
func ValidateLogin(f LoginForm) error {
	if f.Email == "" || f.Password == "" {
		return ErrEmptyFields
	}
	if utf8.RuneCountInString(f.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateRegistration проверяет форму регистрации и возвращает первую нарушенную проверку.
func ValidateRegistration(f RegistrationForm) error {
	if f.Name == "" || f.Email == "" || f.Password == "" || f.ConfirmPassword == "" {
		return ErrEmptyFields
	}
	if utf8.RuneCountInString(f.Name) < minNameLen {
		return ErrNameTooShort
	}
	if utf8.RuneCountInString(f.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	if !hasDigit.MatchString(f.Password) || !hasLetter.MatchString(f.Password) {
		return ErrPasswordLettersDigits
	}
	if f.Password != f.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// checkoutForm содержит обязательные поля оформления заказа.
type checkoutForm struct {
	Address       string `validate:"required"`
	DeliveryTime  string `validate:"required,oneof=morning afternoon evening"`
	PaymentMethod string `validate:"required,oneof=phone-transfer telegram cash"`
	Comment       string `validate:"max=200"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateCheckout проверяет данные доставки, интервал и способ оплаты.
func ValidateCheckout(d model.Delivery, slot model.DeliveryTime, method model.PaymentMethod) error {
	form := checkoutForm{
		Address:       d.Address,
		DeliveryTime:  string(slot),
		PaymentMethod: string(method),
		Comment:       d.Comment,
	}

	err := structValidator().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	// обязательные поля идут в форме раньше комментария
	if fieldErrs[0].Field() == "Comment" {
		return ErrCommentTooLong
	}
	return ErrCheckoutFields
}
