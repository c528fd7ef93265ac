package impl_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/usecase"
	"kalaghar/internal/usecase/impl"
)

type orderFixture struct {
	svc         usecase.OrderUsecase
	store       *store.Store
	productRepo repository.ProductRepository
	publisher   *fakePublisher
}

func newOrderFixture() *orderFixture {
	s := newTestStore()
	publisher := &fakePublisher{}

	return &orderFixture{
		svc: impl.NewOrderService(impl.OrderServiceParams{
			OrderRepo:   docstore.NewOrderRepository(s),
			ProductRepo: docstore.NewProductRepository(s),
			Publisher:   publisher,
			Config:      testConfig(),
			Logger:      slog.New(slog.DiscardHandler),
		}),
		store:       s,
		productRepo: docstore.NewProductRepository(s),
		publisher:   publisher,
	}
}

func placeInput(productID uuid.UUID, quantity int) *usecase.PlaceOrderInput {
	return &usecase.PlaceOrderInput{
		Items: []usecase.OrderItemInput{{ProductID: productID, Quantity: quantity}},
		ShippingAddress: entity.Address{
			Line1: "12 Potter Lane", City: "Jaipur", State: "RJ", PostalCode: "302001", Country: "IN",
		},
		BillingAddress: entity.Address{
			Line1: "12 Potter Lane", City: "Jaipur", State: "RJ", PostalCode: "302001", Country: "IN",
		},
		PaymentMethod: entity.PaymentUPI,
	}
}

func TestPlaceOrderTotalsAtFreeShippingBoundary(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	product := seedArtisanProduct(ctx, fix.store, uuid.New(), 50, 2)
	buyer := asCaller(uuid.New(), entity.RoleBuyer)

	order, err := fix.svc.Place(ctx, buyer, placeInput(product.ID, 2))
	require.NoError(t, err)

	assert.InDelta(t, 100, order.Pricing.Subtotal, 1e-9)
	assert.InDelta(t, 8, order.Pricing.Tax, 1e-9)
	assert.Zero(t, order.Pricing.Shipping)
	assert.InDelta(t, 108, order.Pricing.Total, 1e-9)

	reloaded, err := fix.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Inventory.ReservedQuantity)

	// A second buyer cannot order the now fully reserved stock.
	_, err = fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), placeInput(product.ID, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientInventory))

	reloaded, err = fix.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Inventory.ReservedQuantity)
}

func TestPlaceOrderChargesShippingBelowThreshold(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	product := seedArtisanProduct(ctx, fix.store, uuid.New(), 40, 5)

	order, err := fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), placeInput(product.ID, 1))
	require.NoError(t, err)

	assert.InDelta(t, 40, order.Pricing.Subtotal, 1e-9)
	assert.InDelta(t, 3.2, order.Pricing.Tax, 1e-9)
	assert.InDelta(t, 15, order.Pricing.Shipping, 1e-9)
	assert.InDelta(t, 58.2, order.Pricing.Total, 1e-9)
}

func TestPlaceOrderReleasesEarlierReservations(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	artisan := uuid.New()
	plentiful := seedArtisanProduct(ctx, fix.store, artisan, 30, 10)
	scarce := seedArtisanProduct(ctx, fix.store, artisan, 30, 1)

	input := placeInput(plentiful.ID, 2)
	input.Items = append(input.Items, usecase.OrderItemInput{ProductID: scarce.ID, Quantity: 3})

	_, err := fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientInventory))

	// The first item's reservation is compensated.
	reloaded, err := fix.productRepo.FindByID(ctx, plentiful.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Inventory.ReservedQuantity)
}

func TestPlaceOrderCompensatesDuplicateLineItems(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	artisan := uuid.New()
	dup := seedArtisanProduct(ctx, fix.store, artisan, 30, 5)
	scarce := seedArtisanProduct(ctx, fix.store, artisan, 30, 1)

	// The same product twice, then an item that cannot be reserved.
	input := placeInput(dup.ID, 1)
	input.Items = append(input.Items,
		usecase.OrderItemInput{ProductID: dup.ID, Quantity: 1},
		usecase.OrderItemInput{ProductID: scarce.ID, Quantity: 3},
	)

	_, err := fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientInventory))

	// Both duplicate reservations are compensated, not just the first.
	reloaded, err := fix.productRepo.FindByID(ctx, dup.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Inventory.ReservedQuantity)

	// Without the failing item the duplicates reserve their summed quantity.
	input.Items = input.Items[:2]
	_, err = fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), input)
	require.NoError(t, err)

	reloaded, err = fix.productRepo.FindByID(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Inventory.ReservedQuantity)
}

func TestPlaceOrderRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	product := seedArtisanProduct(ctx, fix.store, uuid.New(), 40, 5)
	product.Status = entity.ProductInactive
	require.NoError(t, fix.productRepo.Update(ctx, product))

	_, err := fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), placeInput(product.ID, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotActive))
}

func TestPlaceOrderValidatesShape(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	buyer := asCaller(uuid.New(), entity.RoleBuyer)

	_, err := fix.svc.Place(ctx, buyer, &usecase.PlaceOrderInput{PaymentMethod: entity.PaymentCard})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	product := seedArtisanProduct(ctx, fix.store, uuid.New(), 40, 5)
	input := placeInput(product.ID, 1)
	input.PaymentMethod = "barter"
	_, err = fix.svc.Place(ctx, buyer, input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestPlaceOrderNumberAndTimeline(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	product := seedArtisanProduct(ctx, fix.store, uuid.New(), 40, 5)

	order, err := fix.svc.Place(ctx, asCaller(uuid.New(), entity.RoleBuyer), placeInput(product.ID, 1))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "KG"))
	assert.Len(t, order.OrderNumber, 12)
	assert.True(t, strings.HasSuffix(order.OrderNumber, "0001"))

	assert.Equal(t, entity.OrderPending, order.Status)
	require.Len(t, order.Timeline, 1)
	assert.Equal(t, entity.OrderPending, order.Timeline[0].Status)

	events := fix.publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "order.placed", events[0].Type)
	assert.Equal(t, order.OrderNumber, events[0].OrderNumber)
}

func TestUpdateStatusVisibilityAndTimeline(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	artisan := uuid.New()
	product := seedArtisanProduct(ctx, fix.store, artisan, 40, 5)
	buyer := asCaller(uuid.New(), entity.RoleBuyer)

	order, err := fix.svc.Place(ctx, buyer, placeInput(product.ID, 1))
	require.NoError(t, err)

	// A stranger cannot touch the order.
	_, err = fix.svc.UpdateStatus(ctx, asCaller(uuid.New(), entity.RoleBuyer), order.ID, entity.OrderConfirmed, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	// The buyer may only cancel.
	_, err = fix.svc.UpdateStatus(ctx, buyer, order.ID, entity.OrderShipped, "")
	require.Error(t, err)

	updated, err := fix.svc.UpdateStatus(ctx, asCaller(artisan, entity.RoleArtisan), order.ID, entity.OrderConfirmed, "kiln fired")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, "kiln fired", updated.Timeline[1].Note)

	events := fix.publisher.published()
	require.Len(t, events, 2)
	assert.Equal(t, "order.status_changed", events[1].Type)
}

func TestOrderVisibility(t *testing.T) {
	t.Parallel()

	fix := newOrderFixture()
	ctx := context.Background()
	artisan := uuid.New()
	product := seedArtisanProduct(ctx, fix.store, artisan, 40, 5)
	buyer := asCaller(uuid.New(), entity.RoleBuyer)

	order, err := fix.svc.Place(ctx, buyer, placeInput(product.ID, 1))
	require.NoError(t, err)

	_, err = fix.svc.Get(ctx, buyer, order.ID)
	require.NoError(t, err)
	_, err = fix.svc.Get(ctx, asCaller(artisan, entity.RoleArtisan), order.ID)
	require.NoError(t, err)
	_, err = fix.svc.Get(ctx, asCaller(uuid.New(), entity.RoleAdmin), order.ID)
	require.NoError(t, err)

	_, err = fix.svc.Get(ctx, asCaller(uuid.New(), entity.RoleBuyer), order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	mine, err := fix.svc.List(ctx, buyer, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	theirs, err := fix.svc.List(ctx, asCaller(artisan, entity.RoleArtisan), 10, 0)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}
