// Package checkout собирает данные для оформления заказа: варианты оплаты и
// доставки, итоговую сумму и сам заказ.
package checkout

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/goodfood/internal/model"
	"github.com/mmeshcher/goodfood/internal/pricing"
)

// ContactPhone задаёт номер для перевода и связи в Telegram.
const ContactPhone = "+79320598712"

// PaymentOption описывает способ оплаты на странице оформления.
type PaymentOption struct {
	Value       model.PaymentMethod `json:"value"`
	Label       string              `json:"label"`
	Icon        string              `json:"icon"`
	Description string              `json:"description"`
}

// TimeSlot описывает интервал доставки.
type TimeSlot struct {
	Value model.DeliveryTime `json:"value"`
	Label string             `json:"label"`
}

// PaymentOptions возвращает доступные способы оплаты.
func PaymentOptions() []PaymentOption {
	return []PaymentOption{
		{
			Value:       model.PaymentPhoneTransfer,
			Label:       "Перевод по номеру телефона",
			Icon:        "Smartphone",
			Description: "Перевод на карту Тинькофф",
		},
		{
			Value:       model.PaymentTelegram,
			Label:       "Связь в Telegram для оплаты",
			Icon:        "MessageCircle",
			Description: "Напишите нам в Telegram",
		},
		{
			Value:       model.PaymentCash,
			Label:       "Наличными курьеру",
			Icon:        "Wallet",
			Description: fmt.Sprintf("Дополнительная комиссия %d₽", pricing.CashFee),
		},
	}
}

// TimeSlots возвращает интервалы доставки.
func TimeSlots() []TimeSlot {
	return []TimeSlot{
		{Value: model.DeliveryMorning, Label: "Утро 08:00-12:00"},
		{Value: model.DeliveryAfternoon, Label: "День 12:00-16:00"},
		{Value: model.DeliveryEvening, Label: "Вечер 16:00-20:00"},
	}
}

// SlotLabel возвращает подпись интервала доставки.
func SlotLabel(v model.DeliveryTime) string {
	for _, s := range TimeSlots() {
		if s.Value == v {
			return s.Label
		}
	}
	return ""
}

// Quote содержит расчёт суммы к оплате.
type Quote struct {
	PlanID          model.PlanID        `json:"planId"`
	PlanTitle       string              `json:"planTitle"`
	PlanEmoji       string              `json:"planEmoji"`
	PricePerWeek    float64             `json:"pricePerWeek"`
	OldPricePerWeek float64             `json:"oldPricePerWeek"`
	PaymentMethod   model.PaymentMethod `json:"paymentMethod,omitempty"`
	CashFee         float64             `json:"cashFee"`
	FinalPrice      float64             `json:"finalPrice"`
	PaymentOptions  []PaymentOption     `json:"paymentOptions"`
	TimeSlots       []TimeSlot          `json:"timeSlots"`
	TelegramLink    string              `json:"telegramLink"`
}

// NewQuote считает сумму к оплате для рациона и способа оплаты.
func NewQuote(plan *model.PlanDetails, method model.PaymentMethod) Quote {
	total := pricing.CheckoutTotal(plan.DailyMenu.PricePerWeek, method)

	return Quote{
		PlanID:          plan.ID,
		PlanTitle:       plan.Title,
		PlanEmoji:       plan.Emoji,
		PricePerWeek:    plan.DailyMenu.PricePerWeek,
		OldPricePerWeek: plan.DailyMenu.OldPricePerWeek,
		PaymentMethod:   method,
		CashFee:         total - plan.DailyMenu.PricePerWeek,
		FinalPrice:      total,
		PaymentOptions:  PaymentOptions(),
		TimeSlots:       TimeSlots(),
		TelegramLink:    TelegramLink(plan),
	}
}

// Form содержит данные формы оформления заказа.
type Form struct {
	Delivery      model.Delivery      `json:"delivery"`
	DeliveryTime  model.DeliveryTime  `json:"deliveryTime"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
}

// NewOrder создаёт заказ со статусом «ожидает оплаты».
func NewOrder(plan *model.PlanDetails, f Form, now time.Time) model.Order {
	return model.Order{
		Number:        orderNumber(now),
		PlanID:        plan.ID,
		PlanTitle:     plan.Title,
		PlanEmoji:     plan.Emoji,
		Amount:        pricing.CheckoutTotal(plan.DailyMenu.PricePerWeek, f.PaymentMethod),
		PaymentMethod: f.PaymentMethod,
		DeliveryTime:  f.DeliveryTime,
		Delivery:      f.Delivery,
		Status:        model.OrderStatusPending,
		CreatedAt:     now,
	}
}

func orderNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("GF-%d-%s", now.Year(), id[:8])
}

// TelegramLink возвращает ссылку на чат с предзаполненным сообщением о заказе.
func TelegramLink(plan *model.PlanDetails) string {
	msg := fmt.Sprintf("Здравствуйте! Хочу оформить заказ:\nРацион: %s\nСумма: %s₽",
		plan.Title, formatRubles(plan.DailyMenu.PricePerWeek))
	return "https://t.me/" + ContactPhone + "?text=" + url.QueryEscape(msg)
}

func formatRubles(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
