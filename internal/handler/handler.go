// Package handler содержит HTTP-обработчики API сервиса GOODFOOD.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/goodfood/internal/catalog"
	"github.com/mmeshcher/goodfood/internal/checkout"
	"github.com/mmeshcher/goodfood/internal/metrics"
	"github.com/mmeshcher/goodfood/internal/middleware"
	"github.com/mmeshcher/goodfood/internal/model"
	"github.com/mmeshcher/goodfood/internal/pricing"
	"github.com/mmeshcher/goodfood/internal/service"
	"github.com/mmeshcher/goodfood/internal/session"
	"github.com/mmeshcher/goodfood/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ListPlans(ctx context.Context) []catalog.Summary
	GetPlan(ctx context.Context, id string) (*model.PlanDetails, error)
	View(ctx context.Context, m *session.Machine) model.State
	Navigate(ctx context.Context, m *session.Machine, page model.Page, planID model.PlanID) model.State
	RequestOrder(ctx context.Context, m *session.Machine, planID model.PlanID) (model.State, error)
	OpenAuth(ctx context.Context, m *session.Machine) model.State
	CloseAuth(ctx context.Context, m *session.Machine) model.State
	Login(ctx context.Context, m *session.Machine, f validation.LoginForm) (model.State, error)
	Register(ctx context.Context, m *session.Machine, f validation.RegistrationForm) (model.State, error)
	Logout(ctx context.Context, m *session.Machine) model.State
	Quote(ctx context.Context, m *session.Machine, method model.PaymentMethod) (*checkout.Quote, error)
	SubmitCheckout(ctx context.Context, m *session.Machine, f checkout.Form) (model.State, error)
	CancelCheckout(ctx context.Context, m *session.Machine) (model.State, error)
	ConfirmOrder(ctx context.Context, m *session.Machine) (model.Order, error)
	FinishCheckout(ctx context.Context, m *session.Machine) (model.State, error)
	Account(ctx context.Context, m *session.Machine) (*service.Account, error)
}

// Handler реализует HTTP-обработчики API сервиса GOODFOOD.
type Handler struct {
	service           Service
	logger            *zap.Logger
	sessionMiddleware *middleware.SessionMiddleware
	metrics           *metrics.Metrics
	allowedOrigins    []string
}

// Option настраивает Handler.
type Option func(*Handler)

// WithMetrics публикует метрики по пути /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithAllowedOrigins включает CORS для указанных источников.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, sessions *middleware.SessionMiddleware, opts ...Option) *Handler {
	h := &Handler{
		service:           s,
		logger:            logger,
		sessionMiddleware: sessions,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError переводит ошибку бизнес-логики в HTTP-ответ.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Code: verr.Code})
	case errors.Is(err, service.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "Рацион не найден")
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrNotOnCheckout):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, session.ErrWrongStage), errors.Is(err, session.ErrNotOnPlanDetail):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(op+" error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (h *Handler) machine(w http.ResponseWriter, r *http.Request) (*session.Machine, bool) {
	m, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		h.logger.Error("session missing in request context", zap.String("uri", r.RequestURI))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return nil, false
	}
	return m, true
}

// ListPlans возвращает карточки рационов.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListPlans(r.Context()))
}

type planResponse struct {
	*model.PlanDetails
	Discount     int  `json:"discount"`
	ShowDiscount bool `json:"showDiscount"`
}

// GetPlan возвращает рацион с дневным меню.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.service.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err, "get plan")
		return
	}

	menu := plan.DailyMenu
	writeJSON(w, http.StatusOK, planResponse{
		PlanDetails:  plan,
		Discount:     pricing.DiscountPercent(menu.OldPricePerWeek, menu.PricePerWeek),
		ShowDiscount: pricing.ShowDiscount(menu.OldPricePerWeek, menu.PricePerWeek),
	})
}

// GetSession возвращает состояние текущей сессии.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), m))
}

type navigateRequest struct {
	Page   string `json:"page"`
	PlanID string `json:"planId,omitempty"`
}

// Navigate переключает страницу сессии.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	page, err := model.ParsePage(req.Page)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.service.Navigate(r.Context(), m, page, model.PlanID(req.PlanID)))
}

type orderRequest struct {
	PlanID string `json:"planId"`
}

// RequestOrder обрабатывает кнопку «Заказать рацион».
func (h *Handler) RequestOrder(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	st, err := h.service.RequestOrder(r.Context(), m, model.PlanID(req.PlanID))
	if err != nil {
		h.writeServiceError(w, err, "request order")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// OpenAuth показывает окно входа.
func (h *Handler) OpenAuth(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.OpenAuth(r.Context(), m))
}

// CloseAuth скрывает окно входа.
func (h *Handler) CloseAuth(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.CloseAuth(r.Context(), m))
}

// Login выполняет вход.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req validation.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	st, err := h.service.Login(r.Context(), m, req)
	if err != nil {
		h.writeServiceError(w, err, "login")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Register выполняет регистрацию.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req validation.RegistrationForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	st, err := h.service.Register(r.Context(), m, req)
	if err != nil {
		h.writeServiceError(w, err, "register")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Logout завершает сеанс пользователя.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Logout(r.Context(), m))
}

// Quote возвращает сумму к оплате для способа оплаты из параметра payment.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	method, err := model.ParsePaymentMethod(r.URL.Query().Get("payment"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.service.Quote(r.Context(), m, method)
	if err != nil {
		h.writeServiceError(w, err, "quote")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type checkoutRequest struct {
	Delivery      model.Delivery `json:"delivery"`
	DeliveryTime  string         `json:"deliveryTime"`
	PaymentMethod string         `json:"paymentMethod"`
}

// SubmitCheckout проверяет форму оформления и открывает подтверждение.
func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
		return
	}

	slot, err := model.ParseDeliveryTime(req.DeliveryTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	method, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.service.SubmitCheckout(r.Context(), m, checkout.Form{
		Delivery:      req.Delivery,
		DeliveryTime:  slot,
		PaymentMethod: method,
	})
	if err != nil {
		h.writeServiceError(w, err, "submit checkout")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// CancelCheckout закрывает подтверждение заказа.
func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	st, err := h.service.CancelCheckout(r.Context(), m)
	if err != nil {
		h.writeServiceError(w, err, "cancel checkout")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ConfirmOrder подтверждает заказ.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	order, err := h.service.ConfirmOrder(r.Context(), m)
	if err != nil {
		h.writeServiceError(w, err, "confirm order")
		return
	}

	h.logger.Info("order confirmed",
		zap.String("order", order.Number),
		zap.String("plan", string(order.PlanID)),
		zap.Float64("amount", order.Amount),
	)
	writeJSON(w, http.StatusCreated, order)
}

// FinishCheckout закрывает экран успеха и открывает личный кабинет.
func (h *Handler) FinishCheckout(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	st, err := h.service.FinishCheckout(r.Context(), m)
	if err != nil {
		h.writeServiceError(w, err, "finish checkout")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// GetAccount возвращает данные личного кабинета.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	m, ok := h.machine(w, r)
	if !ok {
		return
	}

	acc, err := h.service.Account(r.Context(), m)
	if err != nil {
		h.writeServiceError(w, err, "get account")
		return
	}
	writeJSON(w, http.StatusOK, acc)
}
