package handler

import (
	"net/http"
	"time"

	"kalaghar/internal/delivery/http/response"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InvestmentHandler holds dependencies for investment handlers.
type InvestmentHandler struct {
	uc usecase.InvestmentUsecase
}

// NewInvestmentHandler is the constructor for InvestmentHandler, injected by Fx.
func NewInvestmentHandler(uc usecase.InvestmentUsecase) *InvestmentHandler {
	return &InvestmentHandler{uc: uc}
}

type createInvestmentRequest struct {
	ArtisanID    uuid.UUID               `json:"artisanId" validate:"required"`
	Type         entity.InvestmentType   `json:"type" validate:"required"`
	Principal    float64                 `json:"principal" validate:"required,gt=0"`
	TargetAmount float64                 `json:"targetAmount" validate:"gte=0"`
	Terms        string                  `json:"terms"`
	Schedule     []entity.RepaymentEntry `json:"schedule"`
}

// Create handles an investment proposal.
func (h *InvestmentHandler) Create(c echo.Context) error {
	var req createInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid investment input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	investment, err := h.uc.Create(c.Request().Context(), caller(c), &usecase.CreateInvestmentInput{
		ArtisanID:    req.ArtisanID,
		Type:         req.Type,
		Principal:    req.Principal,
		TargetAmount: req.TargetAmount,
		Terms:        req.Terms,
		Schedule:     req.Schedule,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, investment, "Investment proposed successfully")
}

// Get returns one investment visible to the caller.
func (h *InvestmentHandler) Get(c echo.Context) error {
	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid investment id")
	}

	investment, err := h.uc.Get(c.Request().Context(), caller(c), investmentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investment, "")
}

// List returns the caller's investments.
func (h *InvestmentHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	input := &usecase.ListInvestmentsInput{Limit: limit, Offset: offset}

	if raw := c.QueryParam("status"); raw != "" {
		status := entity.InvestmentStatus(raw)
		input.Status = &status
	}

	investments, err := h.uc.List(c.Request().Context(), caller(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investments, "")
}

type contributeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Contribute adds funding to an investment.
func (h *InvestmentHandler) Contribute(c echo.Context) error {
	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid investment id")
	}

	var req contributeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contribution input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	investment, err := h.uc.Contribute(c.Request().Context(), caller(c), investmentID, req.Amount)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investment, "Contribution recorded successfully")
}

type repaymentRequest struct {
	DueDate time.Time `json:"dueDate" validate:"required"`
}

// RecordRepayment marks a scheduled installment as paid.
func (h *InvestmentHandler) RecordRepayment(c echo.Context) error {
	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid investment id")
	}

	var req repaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid repayment input")
	}

	investment, err := h.uc.RecordRepayment(c.Request().Context(), caller(c), investmentID, req.DueDate)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, investment, "Repayment recorded successfully")
}
