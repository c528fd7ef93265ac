// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"kalaghar/internal/delivery/http/middleware"
	"kalaghar/internal/delivery/http/router/handler"
	"kalaghar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler       *handler.UserHandler
	ProductHandler    *handler.ProductHandler
	IdeaHandler       *handler.IdeaHandler
	OrderHandler      *handler.OrderHandler
	InvestmentHandler *handler.InvestmentHandler
	AIHandler         *handler.AIHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.params.AuthMiddleware

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.params.UserHandler.Register)
		authGroup.POST("/login", r.params.UserHandler.Login)
		authGroup.GET("/me", r.params.UserHandler.Me, auth.Authenticate)
	}

	// Account routes
	userGroup := api.Group("/users")
	{
		userGroup.GET("/profile", r.params.UserHandler.Me, auth.Authenticate)
		userGroup.PUT("/profile", r.params.UserHandler.UpdateProfile, auth.Authenticate)
		userGroup.GET("/artisans", r.params.UserHandler.ListArtisans)
		userGroup.GET("/artisans/:id", r.params.UserHandler.GetArtisan)
		userGroup.GET("/my-products", r.params.ProductHandler.ListMine,
			auth.Authenticate, auth.RequireRole(entity.RoleArtisan))
	}

	// Catalog routes
	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.params.ProductHandler.List)
		productGroup.GET("/:id", r.params.ProductHandler.Get)
		productGroup.GET("/:id/qr", r.params.ProductHandler.ShareQR)

		productGroup.POST("", r.params.ProductHandler.Create,
			auth.Authenticate, auth.RequireRole(entity.RoleArtisan))
		productGroup.PUT("/:id", r.params.ProductHandler.Update, auth.Authenticate)
		productGroup.DELETE("/:id", r.params.ProductHandler.Delete, auth.Authenticate)
		productGroup.POST("/:id/images", r.params.ProductHandler.UploadImage,
			auth.Authenticate, auth.RequireRole(entity.RoleArtisan))

		productGroup.POST("/:id/reviews", r.params.ProductHandler.AddReview, auth.Authenticate)
		productGroup.PUT("/:id/reviews/:reviewId", r.params.ProductHandler.UpdateReview, auth.Authenticate)
		productGroup.DELETE("/:id/reviews/:reviewId", r.params.ProductHandler.DeleteReview, auth.Authenticate)
	}

	// Community idea routes
	ideaGroup := api.Group("/ideas")
	{
		ideaGroup.GET("", r.params.IdeaHandler.List)
		ideaGroup.GET("/:id", r.params.IdeaHandler.Get)

		ideaGroup.POST("", r.params.IdeaHandler.Create,
			auth.Authenticate, auth.RequireRole(entity.RoleArtisan))
		ideaGroup.PUT("/:id", r.params.IdeaHandler.Update, auth.Authenticate)
		ideaGroup.DELETE("/:id", r.params.IdeaHandler.Delete, auth.Authenticate)
		ideaGroup.POST("/:id/vote", r.params.IdeaHandler.Vote, auth.Authenticate)
		ideaGroup.POST("/:id/comments", r.params.IdeaHandler.AddComment, auth.Authenticate)
		ideaGroup.POST("/:id/preorders", r.params.IdeaHandler.AddPreOrder, auth.Authenticate)
	}

	// Order routes
	orderGroup := api.Group("/orders", auth.Authenticate)
	{
		orderGroup.POST("", r.params.OrderHandler.Place,
			auth.RequireRole(entity.RoleBuyer, entity.RoleInvestor, entity.RoleAmbassador))
		orderGroup.GET("", r.params.OrderHandler.List)
		orderGroup.GET("/:id", r.params.OrderHandler.Get)
		orderGroup.PUT("/:id/status", r.params.OrderHandler.UpdateStatus)
	}

	// Crowdfunding routes
	investmentGroup := api.Group("/investments", auth.Authenticate)
	{
		investmentGroup.POST("", r.params.InvestmentHandler.Create,
			auth.RequireRole(entity.RoleInvestor))
		investmentGroup.GET("", r.params.InvestmentHandler.List)
		investmentGroup.GET("/:id", r.params.InvestmentHandler.Get)
		investmentGroup.POST("/:id/contribute", r.params.InvestmentHandler.Contribute)
		investmentGroup.POST("/:id/repayments", r.params.InvestmentHandler.RecordRepayment)
	}

	// AI proxy routes
	aiGroup := api.Group("/ai", auth.Authenticate)
	{
		aiGroup.GET("/trends", r.params.AIHandler.Trends)
		aiGroup.POST("/generate-description", r.params.AIHandler.GenerateDescription,
			auth.RequireRole(entity.RoleArtisan))
		aiGroup.POST("/suggest-price", r.params.AIHandler.SuggestPrice,
			auth.RequireRole(entity.RoleArtisan))
		aiGroup.POST("/funding-report", r.params.AIHandler.FundingReport)
		aiGroup.POST("/personal-insights", r.params.AIHandler.PersonalInsights)
		aiGroup.POST("/assistant", r.params.AIHandler.Assistant)
	}
}
