package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmeshcher/goodfood/internal/model"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name string
		form LoginForm
		want error
	}{
		{
			name: "empty email",
			form: LoginForm{Email: "", Password: "x"},
			want: ErrEmptyFields,
		},
		{
			name: "empty password",
			form: LoginForm{Email: "a@b.com"},
			want: ErrEmptyFields,
		},
		{
			name: "short password",
			form: LoginForm{Email: "a@b.com", Password: "short"},
			want: ErrPasswordTooShort,
		},
		{
			name: "valid",
			form: LoginForm{Email: "a@b.com", Password: "longenough"},
			want: nil,
		},
		{
			name: "cyrillic password counts runes",
			form: LoginForm{Email: "a@b.com", Password: "пароль12"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateLogin(tt.form)
			if !errors.Is(got, tt.want) {
				t.Fatalf("ValidateLogin(%+v) = %v, want %v", tt.form, got, tt.want)
			}
		})
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := RegistrationForm{
		Name:            "Анна",
		Email:           "anna@example.com",
		Password:        "abcd1234",
		ConfirmPassword: "abcd1234",
	}

	tests := []struct {
		name   string
		modify func(f *RegistrationForm)
		want   error
	}{
		{
			name:   "valid",
			modify: func(f *RegistrationForm) {},
			want:   nil,
		},
		{
			name:   "missing confirmation",
			modify: func(f *RegistrationForm) { f.ConfirmPassword = "" },
			want:   ErrEmptyFields,
		},
		{
			name:   "one letter name",
			modify: func(f *RegistrationForm) { f.Name = "А" },
			want:   ErrNameTooShort,
		},
		{
			name:   "short password reported before letters rule",
			modify: func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "abc", "abc" },
			want:   ErrPasswordTooShort,
		},
		{
			name:   "no digit",
			modify: func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "abcdefgh", "abcdefgh" },
			want:   ErrPasswordLettersDigits,
		},
		{
			name:   "no latin letter",
			modify: func(f *RegistrationForm) { f.Password, f.ConfirmPassword = "пароль123", "пароль123" },
			want:   ErrPasswordLettersDigits,
		},
		{
			name:   "mismatch",
			modify: func(f *RegistrationForm) { f.ConfirmPassword = "abcd12345" },
			want:   ErrPasswordMismatch,
		},
		{
			name:   "name checked before password",
			modify: func(f *RegistrationForm) { f.Name, f.Password = "А", "x" },
			want:   ErrNameTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.modify(&f)
			got := ValidateRegistration(f)
			if !errors.Is(got, tt.want) {
				t.Fatalf("ValidateRegistration(%+v) = %v, want %v", f, got, tt.want)
			}
		})
	}
}

func TestValidateCheckout(t *testing.T) {
	addr := model.Delivery{Address: "Москва, ул. Ленина, 1"}

	tests := []struct {
		name     string
		delivery model.Delivery
		slot     model.DeliveryTime
		method   model.PaymentMethod
		want     error
	}{
		{name: "valid", delivery: addr, slot: model.DeliveryMorning, method: model.PaymentCash},
		{name: "missing address", delivery: model.Delivery{}, slot: model.DeliveryMorning, method: model.PaymentCash, want: ErrCheckoutFields},
		{name: "missing slot", delivery: addr, method: model.PaymentCash, want: ErrCheckoutFields},
		{name: "missing payment", delivery: addr, slot: model.DeliveryEvening, want: ErrCheckoutFields},
		{name: "unknown payment", delivery: addr, slot: model.DeliveryEvening, method: "card", want: ErrCheckoutFields},
		{
			name:     "comment at limit",
			delivery: model.Delivery{Address: "a", Comment: strings.Repeat("я", 200)},
			slot:     model.DeliveryAfternoon,
			method:   model.PaymentTelegram,
		},
		{
			name:     "comment too long",
			delivery: model.Delivery{Address: "a", Comment: strings.Repeat("я", 201)},
			slot:     model.DeliveryAfternoon,
			method:   model.PaymentTelegram,
			want:     ErrCommentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCheckout(tt.delivery, tt.slot, tt.method)
			if !errors.Is(got, tt.want) {
				t.Fatalf("ValidateCheckout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	if ErrEmptyFields.Error() != "Заполните все поля" {
		t.Fatalf("unexpected message %q", ErrEmptyFields.Error())
	}
}
