// Package service реализует бизнес-логику сервиса GOODFOOD.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/mmeshcher/goodfood/internal/auth"
	"github.com/mmeshcher/goodfood/internal/catalog"
	"github.com/mmeshcher/goodfood/internal/checkout"
	"github.com/mmeshcher/goodfood/internal/metrics"
	"github.com/mmeshcher/goodfood/internal/model"
	"github.com/mmeshcher/goodfood/internal/session"
	"github.com/mmeshcher/goodfood/internal/validation"
)

// ErrPlanNotFound возвращается, если рациона нет в справочнике.
var ErrPlanNotFound = errors.New("plan not found")

// Catalog описывает справочник рационов, используемый сервисом.
type Catalog interface {
	Get(id model.PlanID) (*model.PlanDetails, bool)
	Has(id model.PlanID) bool
	Summaries() []catalog.Summary
}

// AccountOrder описывает заказ в личном кабинете.
type AccountOrder struct {
	model.Order
	StatusLabel   string `json:"statusLabel"`
	DeliveryLabel string `json:"deliveryTimeLabel"`
}

// Account содержит данные личного кабинета.
type Account struct {
	UserName string         `json:"userName"`
	Orders   []AccountOrder `json:"orders"`
}

// Service содержит бизнес-логику сервиса GOODFOOD.
type Service struct {
	catalog Catalog
	auth    auth.Authenticator
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService создаёт сервис со справочником, аутентификатором и метриками.
// metrics может быть nil.
func NewService(c Catalog, a auth.Authenticator, m *metrics.Metrics) *Service {
	return &Service{
		catalog: c,
		auth:    a,
		metrics: m,
		now:     time.Now,
	}
}

// ListPlans возвращает карточки всех рационов.
func (s *Service) ListPlans(ctx context.Context) []catalog.Summary {
	return s.catalog.Summaries()
}

// GetPlan возвращает рацион по идентификатору.
func (s *Service) GetPlan(ctx context.Context, id string) (*model.PlanDetails, error) {
	p, ok := s.catalog.Get(model.PlanID(id))
	if !ok {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

// View возвращает текущее состояние сессии.
func (s *Service) View(ctx context.Context, m *session.Machine) model.State {
	return m.View()
}

// Navigate переключает страницу сессии.
func (s *Service) Navigate(ctx context.Context, m *session.Machine, page model.Page, planID model.PlanID) model.State {
	st := m.Navigate(page, planID)
	if s.metrics != nil {
		s.metrics.Navigations.WithLabelValues(st.CurrentPage.String()).Inc()
	}
	return st
}

// RequestOrder обрабатывает заказ рациона со страницы рациона. Рацион вне
// справочника открывает список рационов, как и при навигации.
func (s *Service) RequestOrder(ctx context.Context, m *session.Machine, planID model.PlanID) (model.State, error) {
	if !s.catalog.Has(planID) {
		return s.Navigate(ctx, m, model.PagePlans, ""), nil
	}
	return m.RequestOrder(planID)
}

// OpenAuth показывает окно входа.
func (s *Service) OpenAuth(ctx context.Context, m *session.Machine) model.State {
	return m.OpenAuthModal()
}

// CloseAuth скрывает окно входа.
func (s *Service) CloseAuth(ctx context.Context, m *session.Machine) model.State {
	return m.CloseAuthModal()
}

// Login выполняет вход по форме входа.
func (s *Service) Login(ctx context.Context, m *session.Machine, f validation.LoginForm) (model.State, error) {
	return s.authenticate(ctx, m, auth.Credentials{Mode: auth.ModeLogin, Login: f})
}

// Register выполняет регистрацию по форме регистрации.
func (s *Service) Register(ctx context.Context, m *session.Machine, f validation.RegistrationForm) (model.State, error) {
	return s.authenticate(ctx, m, auth.Credentials{Mode: auth.ModeRegister, Register: f})
}

func (s *Service) authenticate(ctx context.Context, m *session.Machine, c auth.Credentials) (model.State, error) {
	id, err := s.auth.Authenticate(ctx, c)
	if err != nil {
		s.countAuth(c.Mode, "rejected")
		return m.View(), err
	}
	s.countAuth(c.Mode, "accepted")
	return m.Authenticate(id.Name), nil
}

func (s *Service) countAuth(mode auth.Mode, result string) {
	if s.metrics != nil {
		s.metrics.AuthAttempts.WithLabelValues(string(mode), result).Inc()
	}
}

// Logout завершает сеанс пользователя.
func (s *Service) Logout(ctx context.Context, m *session.Machine) model.State {
	return m.Logout()
}

// Quote считает сумму к оплате для выбранного рациона и способа оплаты.
func (s *Service) Quote(ctx context.Context, m *session.Machine, method model.PaymentMethod) (*checkout.Quote, error) {
	plan, err := s.checkoutPlan(m)
	if err != nil {
		return nil, err
	}
	q := checkout.NewQuote(plan, method)
	return &q, nil
}

// SubmitCheckout проверяет форму оформления и открывает подтверждение заказа.
func (s *Service) SubmitCheckout(ctx context.Context, m *session.Machine, f checkout.Form) (model.State, error) {
	plan, err := s.checkoutPlan(m)
	if err != nil {
		return m.View(), err
	}
	if err := validation.ValidateCheckout(f.Delivery, f.DeliveryTime, f.PaymentMethod); err != nil {
		return m.View(), err
	}
	return m.BeginConfirmation(checkout.NewOrder(plan, f, s.now()))
}

// CancelCheckout закрывает подтверждение заказа.
func (s *Service) CancelCheckout(ctx context.Context, m *session.Machine) (model.State, error) {
	return m.CancelConfirmation()
}

// ConfirmOrder подтверждает заказ. Заказ существует только в рамках сессии.
func (s *Service) ConfirmOrder(ctx context.Context, m *session.Machine) (model.Order, error) {
	o, err := m.ConfirmOrder()
	if err != nil {
		return model.Order{}, err
	}
	if s.metrics != nil {
		s.metrics.OrdersConfirmed.WithLabelValues(string(o.PlanID), string(o.PaymentMethod)).Inc()
	}
	return o, nil
}

// FinishCheckout переводит пользователя в личный кабинет после успешного заказа.
func (s *Service) FinishCheckout(ctx context.Context, m *session.Machine) (model.State, error) {
	return m.FinishCheckout()
}

// Account возвращает данные личного кабинета.
func (s *Service) Account(ctx context.Context, m *session.Machine) (*Account, error) {
	st := m.View()
	if !st.IsAuthenticated {
		return nil, session.ErrNotAuthenticated
	}

	orders := m.Orders()
	acc := &Account{
		UserName: st.UserName,
		Orders:   make([]AccountOrder, 0, len(orders)),
	}
	for _, o := range orders {
		acc.Orders = append(acc.Orders, AccountOrder{
			Order:         o,
			StatusLabel:   o.Status.Label(),
			DeliveryLabel: checkout.SlotLabel(o.DeliveryTime),
		})
	}
	return acc, nil
}

func (s *Service) checkoutPlan(m *session.Machine) (*model.PlanDetails, error) {
	st := m.View()
	if !st.IsAuthenticated {
		return nil, session.ErrNotAuthenticated
	}
	if st.CurrentPage != model.PageCheckout {
		return nil, session.ErrNotOnCheckout
	}
	plan, ok := s.catalog.Get(st.SelectedPlanID)
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}
