package handler

import (
	"io"
	"net/http"
	"strconv"

	"kalaghar/internal/delivery/http/response"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxImageSize bounds a single product image upload.
const maxImageSize = 8 << 20

// ProductHandler holds dependencies for catalog handlers.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type createProductRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Category    entity.ProductCategory `json:"category" validate:"required"`
	Price       float64                `json:"price" validate:"gte=0"`
	Quantity    int                    `json:"quantity" validate:"gte=0"`
	IsUnlimited bool                   `json:"isUnlimited"`
	Images      []string               `json:"images"`
}

// Create handles product creation by an artisan.
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.Create(c.Request().Context(), caller(c), &usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		IsUnlimited: req.IsUnlimited,
		Images:      req.Images,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	product, err := h.uc.Get(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// List returns catalog products filtered by query parameters.
func (h *ProductHandler) List(c echo.Context) error {
	limit, offset := pagination(c)
	input := &usecase.ListProductsInput{
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sortBy"),
		Limit:  limit,
		Offset: offset,
	}

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
		status := entity.ProductStatus(raw)
		input.Status = &status
	}
	if raw := c.QueryParam("minPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MinPrice = &price
		}
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			input.MaxPrice = &price
		}
	}
	if c.QueryParam("sortOrder") == "asc" {
		input.SortOrder = store.SortAsc
	} else {
		input.SortOrder = store.SortDesc
	}

	products, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

// ListMine returns the calling artisan's products.
func (h *ProductHandler) ListMine(c echo.Context) error {
	limit, offset := pagination(c)

	products, err := h.uc.ListMine(c.Request().Context(), caller(c), limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "")
}

type updateProductRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Category    *entity.ProductCategory `json:"category"`
	Price       *float64                `json:"price"`
	Quantity    *int                    `json:"quantity"`
	IsUnlimited *bool                   `json:"isUnlimited"`
	Status      *entity.ProductStatus   `json:"status"`
	Images      *[]string               `json:"images"`
}

// Update applies partial updates to a product.
func (h *ProductHandler) Update(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}

	product, err := h.uc.Update(c.Request().Context(), caller(c), productID, &usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		IsUnlimited: req.IsUnlimited,
		Status:      req.Status,
		Images:      req.Images,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// Delete removes a product.
func (h *ProductHandler) Delete(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	if err := h.uc.Delete(c.Request().Context(), caller(c), productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// AddReview appends a review to a product.
func (h *ProductHandler) AddReview(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.AddReview(c.Request().Context(), caller(c), productID, &usecase.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Review added successfully")
}

// UpdateReview rewrites the caller's review.
func (h *ProductHandler) UpdateReview(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}
	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review id")
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateReview(c.Request().Context(), caller(c), productID, reviewID, &usecase.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Review updated successfully")
}

// DeleteReview removes the caller's review.
func (h *ProductHandler) DeleteReview(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}
	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review id")
	}

	product, err := h.uc.DeleteReview(c.Request().Context(), caller(c), productID, reviewID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Review deleted successfully")
}

// UploadImage stores one multipart image for a product.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing image file")
	}
	if fileHeader.Size > maxImageSize {
		return response.BadRequest(c, "INVALID_INPUT", "Image exceeds the size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UploadImage(c.Request().Context(), caller(c), productID, &usecase.UploadImageInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Image uploaded successfully")
}

// ShareQR renders the product's share QR code as a PNG.
func (h *ProductHandler) ShareQR(c echo.Context) error {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	png, err := h.uc.ShareQR(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
