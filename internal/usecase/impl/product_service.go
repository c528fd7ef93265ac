package impl

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
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

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo  repository.ProductRepository
	mediaStorage service.MediaStorage
	qrService    service.QRCodeService
	shareBaseURL string
	logger       *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	MediaStorage service.MediaStorage `optional:"true"`
	QRService    service.QRCodeService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	shareBaseURL := ""
	if params.Config.QRCode != nil {
		shareBaseURL = strings.TrimSuffix(params.Config.QRCode.BaseURL, "/")
	}

	return &productService{
		productRepo:  params.ProductRepo,
		mediaStorage: params.MediaStorage,
		qrService:    params.QRService,
		shareBaseURL: shareBaseURL,
		logger:       params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Create persists a new product owned by the calling artisan. Stats and
// rating aggregates start at zero.
func (srv *productService) Create(ctx context.Context, caller usecase.Caller, input *usecase.CreateProductInput) (*entity.Product, error) {
	if caller.Role != entity.RoleArtisan {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only artisans can create products")
	}
	if !input.Category.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown product category")
	}
	if input.Price < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	}

	product := &entity.Product{
		ID:          uuid.New(),
		ArtisanID:   caller.UserID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Images:      input.Images,
		Inventory: entity.Inventory{
			Quantity:    input.Quantity,
			IsUnlimited: input.IsUnlimited,
		},
		Status: entity.ProductActive,
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("artisanID", caller.UserID))

	return product, nil
}

// Get returns one product, incrementing its view counter.
func (srv *productService) Get(ctx context.Context, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product")
	}

	product.Stats.Views++
	if err := srv.productRepo.Update(ctx, product); err != nil {
		srv.log(ctx).Warn("Failed to bump product views", slog.Any("productID", productID), slog.Any("error", err))
	}

	return product, nil
}

// List returns catalog products matching the input.
func (srv *productService) List(ctx context.Context, input *usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductQuery{
		ArtisanID: input.ArtisanID,
		Category:  input.Category,
		Status:    input.Status,
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
		Search:    input.Search,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Limit:     input.Limit,
		Offset:    input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// ListMine returns the calling artisan's own products regardless of status.
func (srv *productService) ListMine(ctx context.Context, caller usecase.Caller, limit, offset int) ([]*entity.Product, error) {
	artisanID := caller.UserID
	products, err := srv.productRepo.List(ctx, repository.ProductQuery{
		ArtisanID: &artisanID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list own products")
	}

	return products, nil
}

// Update applies the non-nil fields of the input. Owner or admin only.
func (srv *productService) Update(ctx context.Context, caller usecase.Caller, productID uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := srv.loadOwned(ctx, caller, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown product category")
		}
		product.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Inventory.Quantity = *input.Quantity
	}
	if input.IsUnlimited != nil {
		product.Inventory.IsUnlimited = *input.IsUnlimited
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown product status")
		}
		product.Status = *input.Status
	}
	if input.Images != nil {
		product.Images = *input.Images
	}

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// Delete removes a product entirely. Owner or admin only.
func (srv *productService) Delete(ctx context.Context, caller usecase.Caller, productID uuid.UUID) error {
	if _, err := srv.loadOwned(ctx, caller, productID); err != nil {
		return err
	}

	if err := srv.productRepo.Delete(ctx, productID); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", productID), slog.Any("by", caller.UserID))

	return nil
}

// AddReview appends a review and recomputes the rating aggregates.
func (srv *productService) AddReview(ctx context.Context, caller usecase.Caller, productID uuid.UUID, input *usecase.ReviewInput) (*entity.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product for review")
	}

	product.Reviews = append(product.Reviews, entity.Review{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	})
	product.RecomputeRatings()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to save review")
	}

	return product, nil
}

// UpdateReview rewrites the caller's own review and recomputes aggregates.
func (srv *productService) UpdateReview(ctx context.Context, caller usecase.Caller, productID, reviewID uuid.UUID, input *usecase.ReviewInput) (*entity.Product, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product for review update")
	}

	idx := findReview(product, reviewID)
	if idx < 0 {
		return nil, errors.Wrap(domainerrors.ErrReviewNotFound, "review update failed")
	}
	if product.Reviews[idx].UserID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "review belongs to another user")
	}

	product.Reviews[idx].Rating = input.Rating
	product.Reviews[idx].Comment = input.Comment
	product.RecomputeRatings()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to save review update")
	}

	return product, nil
}

// DeleteReview removes a review and recomputes aggregates.
func (srv *productService) DeleteReview(ctx context.Context, caller usecase.Caller, productID, reviewID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product for review delete")
	}

	idx := findReview(product, reviewID)
	if idx < 0 {
		return nil, errors.Wrap(domainerrors.ErrReviewNotFound, "review delete failed")
	}
	if product.Reviews[idx].UserID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "review belongs to another user")
	}

	product.Reviews = append(product.Reviews[:idx], product.Reviews[idx+1:]...)
	product.RecomputeRatings()

	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to save review delete")
	}

	return product, nil
}

// UploadImage stores a product image in the media bucket and appends its URL.
func (srv *productService) UploadImage(ctx context.Context, caller usecase.Caller, productID uuid.UUID, input *usecase.UploadImageInput) (*entity.Product, error) {
	if srv.mediaStorage == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("image uploads are not enabled")
	}

	product, err := srv.loadOwned(ctx, caller, productID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s-%s", productID, uuid.NewString()[:8], path.Base(input.FileName))
	url, err := srv.mediaStorage.Upload(ctx, key, input.Data, input.ContentType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload product image")
	}

	product.Images = append(product.Images, url)
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to save product image")
	}

	return product, nil
}

// ShareQR renders a QR code pointing at the product's public page.
func (srv *productService) ShareQR(ctx context.Context, productID uuid.UUID) ([]byte, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product for QR")
	}

	png, err := srv.qrService.GeneratePNG(fmt.Sprintf("%s/products/%s", srv.shareBaseURL, product.ID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to render share QR")
	}

	product.Stats.Shares++
	if err := srv.productRepo.Update(ctx, product); err != nil {
		srv.log(ctx).Warn("Failed to bump product shares", slog.Any("productID", productID), slog.Any("error", err))
	}

	return png, nil
}

// loadOwned fetches a product and verifies the caller may mutate it.
func (srv *productService) loadOwned(ctx context.Context, caller usecase.Caller, productID uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load product")
	}
	if product.ArtisanID != caller.UserID && !caller.IsAdmin() {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "product belongs to another artisan")
	}

	return product, nil
}

func findReview(product *entity.Product, reviewID uuid.UUID) int {
	for idx := range product.Reviews {
		if product.Reviews[idx].ID == reviewID {
			return idx
		}
	}

	return -1
}
