package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmeshcher/goodfood/internal/auth"
	"github.com/mmeshcher/goodfood/internal/catalog"
	"github.com/mmeshcher/goodfood/internal/checkout"
	"github.com/mmeshcher/goodfood/internal/metrics"
	"github.com/mmeshcher/goodfood/internal/model"
	"github.com/mmeshcher/goodfood/internal/session"
	"github.com/mmeshcher/goodfood/internal/validation"
)

type stubAuthenticator struct {
	identity auth.Identity
	err      error
	calls    int
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, c auth.Credentials) (auth.Identity, error) {
	s.calls++
	return s.identity, s.err
}

func newTestService(t *testing.T, a auth.Authenticator) (*Service, *session.Machine) {
	t.Helper()

	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	svc := NewService(c, a, metrics.New(nil))
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

	return svc, session.NewMachine(c)
}

func TestGetPlan_NotFound(t *testing.T) {
	svc, _ := newTestService(t, auth.NewLocalAuthenticator())

	_, err := svc.GetPlan(context.Background(), "keto")
	if !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}

	p, err := svc.GetPlan(context.Background(), "maintenance")
	if err != nil {
		t.Fatalf("GetPlan error: %v", err)
	}
	if p.ID != model.PlanMaintenance {
		t.Fatalf("ID = %q, want maintenance", p.ID)
	}
}

func TestListPlans(t *testing.T) {
	svc, _ := newTestService(t, auth.NewLocalAuthenticator())

	plans := svc.ListPlans(context.Background())
	if len(plans) != 3 {
		t.Fatalf("len(plans) = %d, want 3", len(plans))
	}
}

func TestLogin_SetsUserName(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())
	ctx := context.Background()

	st, err := svc.Login(ctx, m, validation.LoginForm{Email: "a@b.com", Password: "short"})
	if !errors.Is(err, validation.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if st.IsAuthenticated {
		t.Fatalf("session must stay anonymous after rejected login")
	}

	st, err = svc.Login(ctx, m, validation.LoginForm{Email: "a@b.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if !st.IsAuthenticated || st.UserName != "Пользователь" {
		t.Fatalf("unexpected state after login: %+v", st)
	}

	if got := testutil.ToFloat64(svc.metrics.AuthAttempts.WithLabelValues("login", "rejected")); got != 1 {
		t.Fatalf("rejected attempts = %v, want 1", got)
	}
}

func TestRegister_UsesAuthenticator(t *testing.T) {
	stub := &stubAuthenticator{identity: auth.Identity{Name: "Мария"}}
	svc, m := newTestService(t, stub)

	st, err := svc.Register(context.Background(), m, validation.RegistrationForm{})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("authenticator calls = %d, want 1", stub.calls)
	}
	if st.UserName != "Мария" {
		t.Fatalf("UserName = %q, want Мария", st.UserName)
	}
}

func TestRequestOrder_UnknownPlan(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())

	svc.Navigate(context.Background(), m, model.PagePlanDetail, model.PlanMaintenance)

	st, err := svc.RequestOrder(context.Background(), m, "keto")
	if err != nil {
		t.Fatalf("RequestOrder error: %v", err)
	}
	if st.CurrentPage != model.PagePlans {
		t.Fatalf("CurrentPage = %s, want plans", st.CurrentPage)
	}
	if st.AuthModalVisible {
		t.Fatalf("auth modal must stay closed for an unknown plan")
	}
}

func TestRequestOrder_NotOnPlanDetail(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())

	_, err := svc.RequestOrder(context.Background(), m, model.PlanMassGain)
	if !errors.Is(err, session.ErrNotOnPlanDetail) {
		t.Fatalf("expected ErrNotOnPlanDetail, got %v", err)
	}
}

func TestNavigate_CheckoutGated(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())

	st := svc.Navigate(context.Background(), m, model.PageCheckout, model.PlanWeightLoss)
	if st.CurrentPage != model.PageHome {
		t.Fatalf("CurrentPage = %s, want home", st.CurrentPage)
	}
}

func TestQuote_RequiresCheckout(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())
	ctx := context.Background()

	if _, err := svc.Quote(ctx, m, model.PaymentCash); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	m.Authenticate("Иван")
	if _, err := svc.Quote(ctx, m, model.PaymentCash); !errors.Is(err, session.ErrNotOnCheckout) {
		t.Fatalf("expected ErrNotOnCheckout, got %v", err)
	}

	svc.Navigate(ctx, m, model.PageCheckout, model.PlanWeightLoss)
	q, err := svc.Quote(ctx, m, model.PaymentCash)
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if q.FinalPrice != 1390 {
		t.Fatalf("FinalPrice = %v, want 1390", q.FinalPrice)
	}

	q, err = svc.Quote(ctx, m, model.PaymentPhoneTransfer)
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if q.FinalPrice != 1290 {
		t.Fatalf("FinalPrice = %v, want 1290", q.FinalPrice)
	}
}

func TestCheckoutFlow(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())
	ctx := context.Background()

	if _, err := svc.Login(ctx, m, validation.LoginForm{Email: "a@b.com", Password: "longenough"}); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	svc.Navigate(ctx, m, model.PagePlanDetail, model.PlanMassGain)
	if _, err := svc.RequestOrder(ctx, m, model.PlanMassGain); err != nil {
		t.Fatalf("RequestOrder error: %v", err)
	}

	form := checkout.Form{
		Delivery:      model.Delivery{Address: "Москва, Тверская 1"},
		DeliveryTime:  model.DeliveryMorning,
		PaymentMethod: model.PaymentCash,
	}

	if _, err := svc.SubmitCheckout(ctx, m, checkout.Form{}); !errors.Is(err, validation.ErrCheckoutFields) {
		t.Fatalf("expected ErrCheckoutFields, got %v", err)
	}

	st, err := svc.SubmitCheckout(ctx, m, form)
	if err != nil {
		t.Fatalf("SubmitCheckout error: %v", err)
	}
	if st.CheckoutStage != model.CheckoutConfirming || st.PendingOrder == nil {
		t.Fatalf("unexpected state after submit: %+v", st)
	}
	if st.PendingOrder.Amount != 2190 {
		t.Fatalf("Amount = %v, want 2190", st.PendingOrder.Amount)
	}

	order, err := svc.ConfirmOrder(ctx, m)
	if err != nil {
		t.Fatalf("ConfirmOrder error: %v", err)
	}

	st, err = svc.FinishCheckout(ctx, m)
	if err != nil {
		t.Fatalf("FinishCheckout error: %v", err)
	}
	if st.CurrentPage != model.PageAccount {
		t.Fatalf("CurrentPage = %s, want account", st.CurrentPage)
	}

	acc, err := svc.Account(ctx, m)
	if err != nil {
		t.Fatalf("Account error: %v", err)
	}
	if len(acc.Orders) != 1 || acc.Orders[0].Number != order.Number {
		t.Fatalf("unexpected account orders: %+v", acc.Orders)
	}
	if acc.Orders[0].StatusLabel != "Ожидает оплаты" || acc.Orders[0].DeliveryLabel != "Утро 08:00-12:00" {
		t.Fatalf("unexpected labels: %+v", acc.Orders[0])
	}

	if got := testutil.ToFloat64(svc.metrics.OrdersConfirmed.WithLabelValues("mass-gain", "cash")); got != 1 {
		t.Fatalf("confirmed orders = %v, want 1", got)
	}
}

func TestAccount_Anonymous(t *testing.T) {
	svc, m := newTestService(t, auth.NewLocalAuthenticator())

	_, err := svc.Account(context.Background(), m)
	if !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
