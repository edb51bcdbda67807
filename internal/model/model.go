// Package model содержит доменные сущности сервиса GOODFOOD.
package model

import (
	"encoding/json"
	"errors"
	"time"
)

// MarkupRate задаёт фиксированную наценку на стоимость продуктов.
const MarkupRate = 0.30

// Nutrition описывает КБЖУ: калории в ккал, белки, жиры и углеводы в граммах.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Fats     float64 `json:"fats" yaml:"fats"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
}

// Add возвращает сумму двух наборов КБЖУ.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Fats:     n.Fats + o.Fats,
		Carbs:    n.Carbs + o.Carbs,
	}
}

// Meal описывает один приём пищи дневного меню.
type Meal struct {
	Name         string    `json:"name" yaml:"name"`
	Time         string    `json:"time" yaml:"time"`
	Nutrition    Nutrition `json:"nutrition" yaml:"nutrition"`
	Ingredients  []string  `json:"ingredients" yaml:"ingredients"`
	Benefits     string    `json:"benefits" yaml:"benefits"`
	ProductsCost float64   `json:"productsCost" yaml:"productsCost"`
}

// Markup возвращает наценку на стоимость продуктов приёма пищи.
func (m Meal) Markup() float64 {
	return m.ProductsCost * MarkupRate
}

// FinalPrice возвращает цену приёма пищи для клиента.
func (m Meal) FinalPrice() float64 {
	return m.ProductsCost + m.Markup()
}

// MarshalJSON добавляет к приёму пищи производные наценку и итоговую цену.
func (m Meal) MarshalJSON() ([]byte, error) {
	type meal Meal
	return json.Marshal(struct {
		meal
		Markup     float64 `json:"markup"`
		FinalPrice float64 `json:"finalPrice"`
	}{meal(m), m.Markup(), m.FinalPrice()})
}

// DailyMenu описывает меню на день и агрегированные показатели по нему.
type DailyMenu struct {
	Meals             []Meal    `json:"meals"`
	TotalNutrition    Nutrition `json:"totalNutrition"`
	TotalProductsCost float64   `json:"totalProductsCost"`
	TotalMarkup       float64   `json:"totalMarkup"`
	PricePerDay       float64   `json:"pricePerDay"`
	PricePerWeek      float64   `json:"pricePerWeek"`
	OldPricePerWeek   float64   `json:"oldPricePerWeek"`
}

// PlanID идентифицирует рацион.
type PlanID string

const (
	PlanWeightLoss  PlanID = "weight-loss"
	PlanMaintenance PlanID = "maintenance"
	PlanMassGain    PlanID = "mass-gain"
)

// ErrUnknownPlan возвращается для идентификатора вне каталога.
var ErrUnknownPlan = errors.New("unknown plan")

// PlanIDs возвращает идентификаторы рационов в порядке отображения.
func PlanIDs() []PlanID {
	return []PlanID{PlanWeightLoss, PlanMaintenance, PlanMassGain}
}

// ParsePlanID проверяет, что строка является известным идентификатором рациона.
func ParsePlanID(s string) (PlanID, error) {
	for _, id := range PlanIDs() {
		if string(id) == s {
			return id, nil
		}
	}
	return "", ErrUnknownPlan
}

// Macros содержит доли БЖУ в калорийности рациона.
type Macros struct {
	Protein string `json:"protein" yaml:"protein"`
	Fats    string `json:"fats" yaml:"fats"`
	Carbs   string `json:"carbs" yaml:"carbs"`
}

// PlanDetails описывает рацион вместе с его дневным меню.
type PlanDetails struct {
	ID          PlanID    `json:"id"`
	Title       string    `json:"title"`
	Calories    string    `json:"calories"`
	Emoji       string    `json:"emoji"`
	Description string    `json:"description"`
	Macros      Macros    `json:"macros"`
	Benefits    []string  `json:"benefits"`
	DailyMenu   DailyMenu `json:"dailyMenu"`
}

// Page описывает страницу сайта.
type Page uint8

const (
	PageHome Page = iota
	PagePlans
	PagePlanDetail
	PageCheckout
	PageHowItWorks
	PageContacts
	PageAccount
)

// ErrUnknownPage возвращается при разборе неизвестного имени страницы.
var ErrUnknownPage = errors.New("unknown page")

var pageNames = [...]string{
	PageHome:       "home",
	PagePlans:      "plans",
	PagePlanDetail: "plan-detail",
	PageCheckout:   "checkout",
	PageHowItWorks: "how-it-works",
	PageContacts:   "contacts",
	PageAccount:    "account",
}

func (p Page) String() string {
	if int(p) < len(pageNames) {
		return pageNames[p]
	}
	return "unknown"
}

// Gated сообщает, доступна ли страница только авторизованному пользователю.
func (p Page) Gated() bool {
	return p == PageCheckout || p == PageAccount
}

// ParsePage преобразует имя страницы в Page.
func ParsePage(s string) (Page, error) {
	for i, name := range pageNames {
		if name == s {
			return Page(i), nil
		}
	}
	return PageHome, ErrUnknownPage
}

// MarshalText реализует encoding.TextMarshaler.
func (p Page) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler.
func (p *Page) UnmarshalText(b []byte) error {
	v, err := ParsePage(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentPhoneTransfer PaymentMethod = "phone-transfer"
	PaymentTelegram      PaymentMethod = "telegram"
	PaymentCash          PaymentMethod = "cash"
)

// ErrUnknownPaymentMethod возвращается для неизвестного способа оплаты.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// ParsePaymentMethod проверяет способ оплаты. Пустая строка допустима и означает «не выбран».
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case "", PaymentPhoneTransfer, PaymentTelegram, PaymentCash:
		return PaymentMethod(s), nil
	}
	return "", ErrUnknownPaymentMethod
}

// DeliveryTime описывает интервал доставки.
type DeliveryTime string

const (
	DeliveryMorning   DeliveryTime = "morning"
	DeliveryAfternoon DeliveryTime = "afternoon"
	DeliveryEvening   DeliveryTime = "evening"
)

// ErrUnknownDeliveryTime возвращается для неизвестного интервала доставки.
var ErrUnknownDeliveryTime = errors.New("unknown delivery time")

// ParseDeliveryTime проверяет интервал доставки. Пустая строка означает «не выбран».
func ParseDeliveryTime(s string) (DeliveryTime, error) {
	switch DeliveryTime(s) {
	case "", DeliveryMorning, DeliveryAfternoon, DeliveryEvening:
		return DeliveryTime(s), nil
	}
	return "", ErrUnknownDeliveryTime
}

// Delivery содержит адрес и комментарий для курьера.
type Delivery struct {
	Address   string `json:"address"`
	Entrance  string `json:"entrance,omitempty"`
	Floor     string `json:"floor,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Intercom  string `json:"intercom,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Label возвращает подпись статуса для личного кабинета.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Ожидает оплаты"
	case OrderStatusPreparing:
		return "Готовится"
	case OrderStatusDelivering:
		return "В доставке"
	case OrderStatusCompleted:
		return "Выполнен"
	case OrderStatusCancelled:
		return "Отменён"
	}
	return string(s)
}

// Order описывает оформленный в рамках сессии заказ.
type Order struct {
	Number        string        `json:"orderNumber"`
	PlanID        PlanID        `json:"planId"`
	PlanTitle     string        `json:"planTitle"`
	PlanEmoji     string        `json:"planEmoji"`
	Amount        float64       `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	DeliveryTime  DeliveryTime  `json:"deliveryTime"`
	Delivery      Delivery      `json:"delivery"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CheckoutStage описывает этап оформления заказа.
type CheckoutStage string

const (
	CheckoutForm       CheckoutStage = "form"
	CheckoutConfirming CheckoutStage = "confirming"
	CheckoutSuccess    CheckoutStage = "success"
)

// State описывает состояние навигации и сессии пользователя.
type State struct {
	CurrentPage      Page          `json:"currentPage"`
	SelectedPlanID   PlanID        `json:"selectedPlanId"`
	IsAuthenticated  bool          `json:"isAuthenticated"`
	UserName         string        `json:"userName"`
	AuthModalVisible bool          `json:"authModalVisible"`
	CheckoutStage    CheckoutStage `json:"checkoutStage"`
	PendingOrder     *Order        `json:"pendingOrder,omitempty"`
}

// InitialState возвращает состояние сразу после загрузки приложения.
func InitialState() State {
	return State{
		CurrentPage:   PageHome,
		CheckoutStage: CheckoutForm,
	}
}
