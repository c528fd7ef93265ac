package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	"kalaghar/config"
	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/errors"
	"kalaghar/internal/usecase"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	publisher   service.EventPublisher
	pricing     *config.PricingConfig
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		orderRepo:   params.OrderRepo,
		productRepo: params.ProductRepo,
		publisher:   params.Publisher,
		pricing:     params.Config.Pricing,
		logger:      params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Place runs the checkout workflow: validate the cart, reserve inventory per
// line item, compute totals and persist the order. Any reservation failure
// releases inventory already reserved for earlier items.
func (srv *orderService) Place(ctx context.Context, caller usecase.Caller, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("order must contain at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown payment method")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("item quantity must be positive")
		}
	}

	items := make([]entity.OrderItem, 0, len(input.Items))
	reserved := make(map[uuid.UUID]int, len(input.Items))
	subtotal := 0.0

	// release compensates every reservation made so far. Quantities are
	// summed per product, and each product is re-read so duplicate line
	// items release exactly once against the current document.
	release := func() {
		for productID, quantity := range reserved {
			product, err := srv.productRepo.FindByID(ctx, productID)
			if err != nil {
				srv.log(ctx).Error("Failed to load product for inventory release",
					slog.Any("productID", productID), slog.Any("error", err))

				continue
			}
			product.ReleaseInventory(quantity)
			if err := srv.productRepo.Update(ctx, product); err != nil {
				srv.log(ctx).Error("Failed to release reserved inventory",
					slog.Any("productID", productID), slog.Any("error", err))
			}
		}
	}

	for _, itemInput := range input.Items {
		product, err := srv.productRepo.FindByID(ctx, itemInput.ProductID)
		if err != nil {
			release()

			return nil, errors.Wrap(err, "failed to load product for order")
		}
		if product.Status != entity.ProductActive {
			release()

			return nil, errors.Wrapf(domainerrors.ErrProductNotActive, "product %s", product.ID)
		}
		if !product.ReserveInventory(itemInput.Quantity) {
			release()

			return nil, errors.Wrapf(domainerrors.ErrInsufficientInventory, "product %s", product.ID)
		}
		if err := srv.productRepo.Update(ctx, product); err != nil {
			release()

			return nil, errors.Wrap(err, "failed to reserve inventory")
		}

		items = append(items, entity.OrderItem{
			ProductID: product.ID,
			ArtisanID: product.ArtisanID,
			Name:      product.Name,
			Quantity:  itemInput.Quantity,
			UnitPrice: product.Price,
			Status:    entity.ItemPending,
		})
		reserved[product.ID] += itemInput.Quantity
		subtotal += product.Price * float64(itemInput.Quantity)
	}

	count, err := srv.orderRepo.Count(ctx)
	if err != nil {
		release()

		return nil, errors.Wrap(err, "failed to count orders for order number")
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:              uuid.New(),
		OrderNumber:     generateOrderNumber(now, count),
		BuyerID:         caller.UserID,
		Items:           items,
		Pricing:         srv.computePricing(subtotal),
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   input.PaymentMethod,
	}
	order.AppendStatus(entity.OrderPending, "order placed", now)

	if err := srv.orderRepo.Create(ctx, order); err != nil {
		release()

		return nil, errors.Wrap(err, "failed to create order")
	}

	srv.publish(ctx, service.OrderPlacedEvent, order)

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", order.ID),
		slog.String("orderNumber", order.OrderNumber),
		slog.Any("buyerID", caller.UserID))

	return order, nil
}

// computePricing derives tax and shipping from the subtotal. Shipping is
// waived once the subtotal reaches the free-shipping threshold.
func (srv *orderService) computePricing(subtotal float64) entity.OrderPricing {
	tax := math.Round(subtotal*srv.pricing.TaxRate*100) / 100
	shipping := srv.pricing.FlatShippingFee
	if subtotal >= srv.pricing.FreeShippingThreshold {
		shipping = 0
	}

	return entity.OrderPricing{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}

// generateOrderNumber builds a human-readable order number from the epoch
// millisecond tail and a running sequence.
func generateOrderNumber(at time.Time, existing int64) string {
	millis := at.UnixMilli() % 1_000_000

	return fmt.Sprintf("KG%06d%04d", millis, existing+1)
}

// Get returns one order. Buyers see their own orders, artisans orders
// containing their items, admins everything.
func (srv *orderService) Get(ctx context.Context, caller usecase.Caller, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order")
	}
	if !canSeeOrder(caller, order) {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to other parties")
	}

	return order, nil
}

// List returns the caller's orders per role.
func (srv *orderService) List(ctx context.Context, caller usecase.Caller, limit, offset int) ([]*entity.Order, error) {
	var (
		orders []*entity.Order
		err    error
	)

	switch caller.Role {
	case entity.RoleArtisan:
		orders, err = srv.orderRepo.ListByArtisan(ctx, caller.UserID, limit, offset)
	default:
		orders, err = srv.orderRepo.ListByBuyer(ctx, caller.UserID, limit, offset)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// UpdateStatus appends a timeline entry. Artisans with items in the order and
// admins may update; buyers may only cancel their own orders.
func (srv *orderService) UpdateStatus(ctx context.Context, caller usecase.Caller, orderID uuid.UUID, status entity.OrderStatus, note string) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load order for status update")
	}

	allowed := caller.IsAdmin() || orderHasArtisan(order, caller.UserID) ||
		(order.BuyerID == caller.UserID && status == entity.OrderCancelled)
	if !allowed {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "caller cannot update this order")
	}

	order.AppendStatus(status, note, time.Now().UTC())

	if err := srv.orderRepo.Update(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to save order status")
	}

	srv.publish(ctx, service.OrderStatusChangedEvent, order)

	return order, nil
}

// publish emits an order event. Delivery is best effort; failures are logged
// and never fail the request.
func (srv *orderService) publish(ctx context.Context, eventType string, order *entity.Order) {
	if srv.publisher == nil {
		return
	}

	artisanIDs := make([]uuid.UUID, 0, len(order.Items))
	seen := make(map[uuid.UUID]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ArtisanID]; ok {
			continue
		}
		seen[item.ArtisanID] = struct{}{}
		artisanIDs = append(artisanIDs, item.ArtisanID)
	}

	event := service.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		BuyerID:     order.BuyerID,
		ArtisanIDs:  artisanIDs,
		Status:      order.Status,
		OccurredAt:  time.Now().UTC(),
	}

	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event",
			slog.String("eventType", eventType),
			slog.Any("orderID", order.ID),
			slog.Any("error", err))
	}
}

func canSeeOrder(caller usecase.Caller, order *entity.Order) bool {
	if caller.IsAdmin() || order.BuyerID == caller.UserID {
		return true
	}

	return orderHasArtisan(order, caller.UserID)
}

func orderHasArtisan(order *entity.Order, artisanID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ArtisanID == artisanID {
			return true
		}
	}

	return false
}
