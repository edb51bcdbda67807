// Package session реализует автомат навигации и состояния сессии пользователя.
//
// Каждая сессия владеет одним Machine. Все переходы синхронны и выполняются под
// мьютексом машины, поэтому в каждый момент у состояния ровно один писатель.
package session

import (
	"errors"
	"sync"

	"github.com/mmeshcher/goodfood/internal/model"
)

var (
	// ErrNotAuthenticated возвращается для действий, требующих входа.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotOnCheckout возвращается, если пользователь не на странице оформления заказа.
	ErrNotOnCheckout = errors.New("checkout page is not active")
	// ErrWrongStage возвращается при нарушении порядка этапов оформления заказа.
	ErrWrongStage = errors.New("wrong checkout stage")
	// ErrNotOnPlanDetail возвращается, если заказ запрошен не со страницы рациона.
	ErrNotOnPlanDetail = errors.New("order can be requested from the plan page only")
)

// PlanChecker проверяет наличие рациона в справочнике.
type PlanChecker interface {
	Has(id model.PlanID) bool
}

// Option настраивает Machine.
type Option func(*Machine)

// WithFullLogoutReset включает сброс всей сессии при выходе вместо сброса только авторизации.
func WithFullLogoutReset(enabled bool) Option {
	return func(m *Machine) {
		m.fullLogoutReset = enabled
	}
}

// Machine реализует автомат состояния одной сессии.
type Machine struct {
	mu              sync.Mutex
	state           model.State
	orders          []model.Order
	plans           PlanChecker
	fullLogoutReset bool
}

// NewMachine создаёт автомат в начальном состоянии.
func NewMachine(plans PlanChecker, opts ...Option) *Machine {
	m := &Machine{
		state: model.InitialState(),
		plans: plans,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Navigate переходит на страницу. Закрытые страницы для гостя заменяются главной,
// при этом planID не применяется.
func (m *Machine) Navigate(page model.Page, planID model.PlanID) model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.navigate(page, planID)
	return m.view()
}

func (m *Machine) navigate(page model.Page, planID model.PlanID) {
	if page.Gated() && !m.state.IsAuthenticated {
		page, planID = model.PageHome, ""
	}

	m.state.CurrentPage = page
	if planID != "" {
		m.state.SelectedPlanID = planID
	}
	m.resetCheckout()
}

// RequestOrder обрабатывает нажатие «Заказать рацион» на странице рациона.
// Гостю показывается окно входа, а выбранный рацион запоминается; авторизованный
// пользователь переходит к оформлению.
func (m *Machine) RequestOrder(planID model.PlanID) (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.view().CurrentPage != model.PagePlanDetail {
		return m.view(), ErrNotOnPlanDetail
	}

	if !m.state.IsAuthenticated {
		m.state.SelectedPlanID = planID
		m.state.AuthModalVisible = true
		return m.view(), nil
	}

	m.navigate(model.PageCheckout, planID)
	return m.view(), nil
}

// OpenAuthModal показывает окно входа.
func (m *Machine) OpenAuthModal() model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.AuthModalVisible = true
	return m.view()
}

// CloseAuthModal скрывает окно входа.
func (m *Machine) CloseAuthModal() model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.AuthModalVisible = false
	return m.view()
}

// Authenticate отмечает сессию авторизованной и закрывает окно входа.
func (m *Machine) Authenticate(name string) model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsAuthenticated = true
	m.state.UserName = name
	m.state.AuthModalVisible = false
	return m.view()
}

// Logout завершает сеанс пользователя. По умолчанию сбрасываются только
// авторизация и заказы сессии; в режиме полного сброса сессия возвращается
// в начальное состояние.
func (m *Machine) Logout() model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsAuthenticated {
		return m.view()
	}

	m.orders = nil
	if m.fullLogoutReset {
		m.state = model.InitialState()
		return m.view()
	}

	m.state.IsAuthenticated = false
	m.state.UserName = ""
	m.resetCheckout()
	return m.view()
}

// View возвращает состояние для отрисовки. Закрытая страница у гостя
// отображается как главная, а рацион вне справочника как список рационов.
func (m *Machine) View() model.State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.view()
}

func (m *Machine) view() model.State {
	page := m.state.CurrentPage

	if page.Gated() && !m.state.IsAuthenticated {
		page = model.PageHome
	}
	if (page == model.PagePlanDetail || page == model.PageCheckout) && !m.hasPlan(m.state.SelectedPlanID) {
		page = model.PagePlans
	}

	if page != m.state.CurrentPage {
		m.state.CurrentPage = page
		m.resetCheckout()
	}

	s := m.state
	if s.PendingOrder != nil {
		o := *s.PendingOrder
		s.PendingOrder = &o
	}
	return s
}

func (m *Machine) hasPlan(id model.PlanID) bool {
	return id != "" && m.plans != nil && m.plans.Has(id)
}

func (m *Machine) resetCheckout() {
	m.state.CheckoutStage = model.CheckoutForm
	m.state.PendingOrder = nil
}

// BeginConfirmation открывает подтверждение заказа после проверки формы.
func (m *Machine) BeginConfirmation(order model.Order) (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireCheckout(); err != nil {
		return m.view(), err
	}
	if m.state.CheckoutStage == model.CheckoutSuccess {
		return m.view(), ErrWrongStage
	}

	m.state.CheckoutStage = model.CheckoutConfirming
	m.state.PendingOrder = &order
	return m.view(), nil
}

// CancelConfirmation закрывает подтверждение и возвращает к форме.
func (m *Machine) CancelConfirmation() (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireCheckout(); err != nil {
		return m.view(), err
	}
	if m.state.CheckoutStage != model.CheckoutConfirming {
		return m.view(), ErrWrongStage
	}

	m.resetCheckout()
	return m.view(), nil
}

// ConfirmOrder подтверждает ожидающий заказ и показывает экран успеха.
func (m *Machine) ConfirmOrder() (model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireCheckout(); err != nil {
		return model.Order{}, err
	}
	if m.state.CheckoutStage != model.CheckoutConfirming || m.state.PendingOrder == nil {
		return model.Order{}, ErrWrongStage
	}

	m.state.CheckoutStage = model.CheckoutSuccess
	order := *m.state.PendingOrder
	m.orders = append(m.orders, order)
	return order, nil
}

// FinishCheckout закрывает экран успеха и открывает личный кабинет.
func (m *Machine) FinishCheckout() (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireCheckout(); err != nil {
		return m.view(), err
	}
	if m.state.CheckoutStage != model.CheckoutSuccess {
		return m.view(), ErrWrongStage
	}

	m.navigate(model.PageAccount, "")
	return m.view(), nil
}

func (m *Machine) requireCheckout() error {
	if !m.state.IsAuthenticated {
		return ErrNotAuthenticated
	}
	if m.view().CurrentPage != model.PageCheckout {
		return ErrNotOnCheckout
	}
	return nil
}

// Orders возвращает заказы, оформленные в этой сессии, от новых к старым.
func (m *Machine) Orders() []model.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]model.Order, 0, len(m.orders))
	for i := len(m.orders) - 1; i >= 0; i-- {
		res = append(res, m.orders[i])
	}
	return res
}
