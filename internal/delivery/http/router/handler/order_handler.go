package handler

import (
	"net/http"

	"kalaghar/internal/delivery/http/response"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	Items           []orderItemRequest   `json:"items" validate:"required,min=1,dive"`
	ShippingAddress entity.Address       `json:"shippingAddress" validate:"required"`
	BillingAddress  entity.Address       `json:"billingAddress" validate:"required"`
	PaymentMethod   entity.PaymentMethod `json:"paymentMethod" validate:"required"`
}

// Place handles checkout.
func (h *OrderHandler) Place(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.uc.Place(c.Request().Context(), caller(c), &usecase.PlaceOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// Get returns one order visible to the caller.
func (h *OrderHandler) Get(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	order, err := h.uc.Get(c.Request().Context(), caller(c), orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "")
}

// List returns the caller's orders.
func (h *OrderHandler) List(c echo.Context) error {
	limit, offset := pagination(c)

	orders, err := h.uc.List(c.Request().Context(), caller(c), limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "")
}

type updateStatusRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required"`
	Note   string             `json:"note"`
}

// UpdateStatus appends a status change to the order timeline.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), caller(c), orderID, req.Status, req.Note)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated successfully")
}
