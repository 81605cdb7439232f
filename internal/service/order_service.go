package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/creator-platform/internal/domain"
	"github.com/spec-kit/creator-platform/internal/events"
	"github.com/spec-kit/creator-platform/internal/repository"
)

// orderTransitions is the legal-transition table. pending is the sole
// initial state; completed, cancelled, and refunded are terminal.
var orderTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:    {domain.OrderStatusAccepted, domain.OrderStatusCancelled},
	domain.OrderStatusAccepted:   {domain.OrderStatusInProgress, domain.OrderStatusCancelled},
	domain.OrderStatusInProgress: {domain.OrderStatusCompleted, domain.OrderStatusCancelled},
	domain.OrderStatusCompleted:  {},
	domain.OrderStatusCancelled:  {},
	domain.OrderStatusRefunded:   {},
}

func isLegalTransition(current, next domain.OrderStatus) bool {
	for _, candidate := range orderTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// OrderService owns order reads, placement, and the status state machine.
// Authorization failures, ownership mismatches, and illegal transitions are
// expected outcomes and surface as nil/false, never as errors. Two
// concurrent legal transitions from the same state race last-write-wins;
// legality is re-checked against freshly read status but not guarded by
// compare-and-swap.
type OrderService struct {
	orders       repository.OrderRepository
	requests     repository.RequestRepository
	profiles     repository.ProfileRepository
	access       *AccessService
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	feePercent   int
	cancelWindow time.Duration
	now          func() time.Time
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo   repository.OrderRepository
	RequestRepo repository.RequestRepository
	ProfileRepo repository.ProfileRepository
	Access      *AccessService
	Dispatcher  events.Dispatcher
}

// OrderCreateInput describes order placement payload.
type OrderCreateInput struct {
	CreatorID    string
	Occasion     string
	Instructions string
	AmountCents  int64
}

// OrderListFilter describes listing filters.
type OrderListFilter struct {
	Statuses []domain.OrderStatus
	Limit    int
	Offset   int
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies, feePercent int, cancelWindow time.Duration, logger *zap.Logger) *OrderService {
	if feePercent < 0 || feePercent > 100 {
		feePercent = 20
	}
	if cancelWindow <= 0 {
		cancelWindow = 24 * time.Hour
	}
	return &OrderService{
		orders:       deps.OrderRepo,
		requests:     deps.RequestRepo,
		profiles:     deps.ProfileRepo,
		access:       deps.Access,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		feePercent:   feePercent,
		cancelWindow: cancelWindow,
		now:          time.Now,
	}
}

// GetOrder returns the order when the caller is one of its owners (or an
// admin), nil otherwise. The full record is only read after the ownership
// check passes.
func (s *OrderService) GetOrder(ctx context.Context, resolver IdentityResolver, orderID string) *domain.Order {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return nil
	}
	if !s.access.CanAccessResource(ctx, ident, ResourceOrder, orderID) {
		return nil
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("order fetch failed", zap.String("order_id", orderID), zap.Error(err))
		}
		return nil
	}
	return order
}

// ListOrdersPlaced returns the caller's orders as the placing user.
func (s *OrderService) ListOrdersPlaced(ctx context.Context, resolver IdentityResolver, filter OrderListFilter) []domain.Order {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return []domain.Order{}
	}
	return s.list(ctx, repository.OrderFilter{
		UserID:   &ident.ID,
		Statuses: filter.Statuses,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// ListOrdersReceived returns the caller's orders as the fulfilling creator.
// Non-creators always get an empty listing.
func (s *OrderService) ListOrdersReceived(ctx context.Context, resolver IdentityResolver, filter OrderListFilter) []domain.Order {
	ident := resolver.Resolve(ctx)
	if ident == nil || ident.Role != domain.RoleCreator {
		return []domain.Order{}
	}
	return s.list(ctx, repository.OrderFilter{
		CreatorID: &ident.ID,
		Statuses:  filter.Statuses,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	})
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter) []domain.Order {
	orders, err := s.orders.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Warn("order listing failed", zap.Error(err))
		return []domain.Order{}
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders
}

// CreateOrder places a pending order against a creator, recording the video
// request alongside it. The fee split invariant (earnings + fee = amount)
// holds by construction.
func (s *OrderService) CreateOrder(ctx context.Context, resolver IdentityResolver, input OrderCreateInput) *domain.Order {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return nil
	}
	if input.AmountCents <= 0 || input.CreatorID == "" || input.CreatorID == ident.ID {
		return nil
	}

	creator, err := s.profiles.GetByID(ctx, input.CreatorID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("creator lookup failed", zap.String("creator_id", input.CreatorID), zap.Error(err))
		}
		return nil
	}
	if creator.Role != domain.RoleCreator {
		return nil
	}

	request := &domain.Request{
		FanID:        ident.ID,
		CreatorID:    creator.ID,
		Occasion:     input.Occasion,
		Instructions: input.Instructions,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		s.logger.Warn("request create failed", zap.Error(err))
		return nil
	}

	fee := input.AmountCents * int64(s.feePercent) / 100
	order := &domain.Order{
		UserID:               ident.ID,
		CreatorID:            creator.ID,
		RequestID:            request.ID,
		AmountCents:          input.AmountCents,
		PlatformFeeCents:     fee,
		CreatorEarningsCents: input.AmountCents - fee,
		Status:               domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Warn("order create failed", zap.Error(err))
		return nil
	}

	order.CreatorName = creator.DisplayName
	order.CreatorAvatarURL = creator.AvatarURL
	order.RequestOccasion = request.Occasion

	s.publish(ctx, events.Event{
		Type:    events.EventOrderCreated,
		ActorID: ident.ID,
		Payload: events.OrderCreatedPayload{
			OrderID:     order.ID,
			CreatorID:   order.CreatorID,
			AmountCents: order.AmountCents,
		},
	})
	return order
}

// UpdateOrderStatus advances an order along the state machine. Only the
// fulfilling creator may call it; legality is checked against the status
// re-read from storage, not any caller-supplied value. Acceptance and
// completion stamp their timestamps. Returns false on any violation.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, resolver IdentityResolver, orderID string, next domain.OrderStatus) bool {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return false
	}

	own, err := s.orders.GetOwnership(ctx, orderID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("order ownership load failed", zap.String("order_id", orderID), zap.Error(err))
		}
		return false
	}
	if ident.ID != own.CreatorID {
		return false
	}
	if !isLegalTransition(own.Status, next) {
		return false
	}

	var acceptedAt, completedAt *time.Time
	now := s.now()
	switch next {
	case domain.OrderStatusAccepted:
		acceptedAt = &now
	case domain.OrderStatusCompleted:
		completedAt = &now
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next, acceptedAt, completedAt); err != nil {
		s.logger.Warn("order status write failed", zap.String("order_id", orderID), zap.Error(err))
		return false
	}

	s.publish(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		ActorID: ident.ID,
		Payload: events.OrderStatusChangedPayload{
			OrderID:   orderID,
			OldStatus: own.Status,
			NewStatus: next,
		},
	})
	return true
}

// CancelOrder lets the placing user cancel a still-pending order within the
// cancellation window, measured against the stored creation time at call
// time. Returns false on any violation.
func (s *OrderService) CancelOrder(ctx context.Context, resolver IdentityResolver, orderID string) bool {
	ident := resolver.Resolve(ctx)
	if ident == nil {
		return false
	}

	own, err := s.orders.GetOwnership(ctx, orderID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("order ownership load failed", zap.String("order_id", orderID), zap.Error(err))
		}
		return false
	}
	if ident.ID != own.UserID {
		return false
	}
	if own.Status != domain.OrderStatusPending {
		return false
	}
	if s.now().Sub(own.CreatedAt) > s.cancelWindow {
		return false
	}

	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled, nil, nil); err != nil {
		s.logger.Warn("order cancel write failed", zap.String("order_id", orderID), zap.Error(err))
		return false
	}

	s.publish(ctx, events.Event{
		Type:    events.EventOrderCancelled,
		ActorID: ident.ID,
		Payload: events.OrderCancelledPayload{OrderID: orderID},
	})
	return true
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
