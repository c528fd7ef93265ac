package handler

import (
	"net/http"

	"kalaghar/internal/delivery/http/response"
	"kalaghar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AIHandler holds dependencies for the AI proxy handlers.
type AIHandler struct {
	uc usecase.AIUsecase
}

// NewAIHandler is the constructor for AIHandler, injected by Fx.
func NewAIHandler(uc usecase.AIUsecase) *AIHandler {
	return &AIHandler{uc: uc}
}

type generateDescriptionRequest struct {
	ProductName string   `json:"productName" validate:"required"`
	Category    string   `json:"category"`
	Materials   string   `json:"materials"`
	Region      string   `json:"region"`
	Keywords    []string `json:"keywords"`
}

// GenerateDescription produces a model-written product description.
func (h *AIHandler) GenerateDescription(c echo.Context) error {
	var req generateDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid description input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	out, err := h.uc.GenerateDescription(c.Request().Context(), &usecase.GenerateDescriptionInput{
		ProductName: req.ProductName,
		Category:    req.Category,
		Materials:   req.Materials,
		Region:      req.Region,
		Keywords:    req.Keywords,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

type suggestPriceRequest struct {
	ProductName  string  `json:"productName" validate:"required"`
	Category     string  `json:"category"`
	MaterialCost float64 `json:"materialCost" validate:"gte=0"`
	HoursOfWork  float64 `json:"hoursOfWork" validate:"gte=0"`
	Region       string  `json:"region"`
}

// SuggestPrice produces model-written pricing advice.
func (h *AIHandler) SuggestPrice(c echo.Context) error {
	var req suggestPriceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid pricing input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	out, err := h.uc.SuggestPrice(c.Request().Context(), &usecase.SuggestPriceInput{
		ProductName:  req.ProductName,
		Category:     req.Category,
		MaterialCost: req.MaterialCost,
		HoursOfWork:  req.HoursOfWork,
		Region:       req.Region,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

// Trends returns a market trend report for a craft category.
func (h *AIHandler) Trends(c echo.Context) error {
	out, err := h.uc.Trends(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

// FundingReport summarizes the caller's investment standing.
func (h *AIHandler) FundingReport(c echo.Context) error {
	out, err := h.uc.FundingReport(c.Request().Context(), caller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

// PersonalInsights summarizes the caller's platform activity.
func (h *AIHandler) PersonalInsights(c echo.Context) error {
	out, err := h.uc.PersonalInsights(c.Request().Context(), caller(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

type assistantRequest struct {
	Message string `json:"message" validate:"required"`
}

// Assistant runs one turn of the shopping assistant conversation.
func (h *AIHandler) Assistant(c echo.Context) error {
	var req assistantRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid assistant input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	out, err := h.uc.Assistant(c.Request().Context(), caller(c), &usecase.AssistantInput{Message: req.Message})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}
