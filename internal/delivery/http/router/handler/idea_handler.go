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

// IdeaHandler holds dependencies for idea handlers.
type IdeaHandler struct {
	uc usecase.IdeaUsecase
}

// NewIdeaHandler is the constructor for IdeaHandler, injected by Fx.
func NewIdeaHandler(uc usecase.IdeaUsecase) *IdeaHandler {
	return &IdeaHandler{uc: uc}
}

type createIdeaRequest struct {
	Title          string                 `json:"title" validate:"required"`
	Description    string                 `json:"description"`
	Category       entity.ProductCategory `json:"category" validate:"required"`
	EstimatedPrice float64                `json:"estimatedPrice" validate:"gte=0"`
}

// Create handles idea pitching by an artisan.
func (h *IdeaHandler) Create(c echo.Context) error {
	var req createIdeaRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid idea input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	idea, err := h.uc.Create(c.Request().Context(), caller(c), &usecase.CreateIdeaInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, idea, "Idea created successfully")
}

// Get returns one idea.
func (h *IdeaHandler) Get(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	idea, err := h.uc.Get(c.Request().Context(), ideaID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, idea, "")
}

// List returns ideas filtered by query parameters.
func (h *IdeaHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	input := &usecase.ListIdeasInput{Limit: limit, Offset: offset}

	if raw := c.QueryParam("artisanId"); raw != "" {
		artisanID, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid artisan id")
		}
		input.ArtisanID = &artisanID
	}
	if raw := c.QueryParam("category"); raw != "" {
		category := entity.ProductCategory(raw)
		input.Category = &category
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := entity.IdeaStatus(raw)
		input.Status = &status
	}

	ideas, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ideas, "")
}

type updateIdeaRequest struct {
	Title          *string                 `json:"title"`
	Description    *string                 `json:"description"`
	Category       *entity.ProductCategory `json:"category"`
	EstimatedPrice *float64                `json:"estimatedPrice"`
	Status         *entity.IdeaStatus      `json:"status"`
}

// Update applies partial updates to an idea.
func (h *IdeaHandler) Update(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	var req updateIdeaRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid idea input")
	}

	idea, err := h.uc.Update(c.Request().Context(), caller(c), ideaID, &usecase.UpdateIdeaInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		EstimatedPrice: req.EstimatedPrice,
		Status:         req.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, idea, "Idea updated successfully")
}

// Delete retires an idea.
func (h *IdeaHandler) Delete(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	if err := h.uc.Delete(c.Request().Context(), caller(c), ideaID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Idea deleted successfully")
}

type voteRequest struct {
	Vote entity.VoteType `json:"vote" validate:"required"`
}

// Vote records the caller's vote on an idea.
func (h *IdeaHandler) Vote(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid vote input")
	}

	idea, err := h.uc.Vote(c.Request().Context(), caller(c), ideaID, req.Vote)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, idea, "Vote recorded successfully")
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

// AddComment appends a community comment to an idea.
func (h *IdeaHandler) AddComment(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}

	idea, err := h.uc.AddComment(c.Request().Context(), caller(c), ideaID, req.Text)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, idea, "Comment added successfully")
}

type preOrderRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// AddPreOrder records a pre-order commitment for an idea.
func (h *IdeaHandler) AddPreOrder(c echo.Context) error {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid idea id")
	}

	var req preOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid pre-order input")
	}

	idea, err := h.uc.AddPreOrder(c.Request().Context(), caller(c), ideaID, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, idea, "Pre-order recorded successfully")
}
