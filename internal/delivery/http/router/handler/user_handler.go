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

// UserHandler holds dependencies for account-related handlers.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type registerRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     entity.Role `json:"role" validate:"required"`

	ArtisanProfile    *entity.ArtisanProfile    `json:"artisanProfile,omitempty"`
	InvestorProfile   *entity.InvestorProfile   `json:"investorProfile,omitempty"`
	AmbassadorProfile *entity.AmbassadorProfile `json:"ambassadorProfile,omitempty"`
}

// Register handles the account registration request.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		Role:              req.Role,
		ArtisanProfile:    req.ArtisanProfile,
		InvestorProfile:   req.InvestorProfile,
		AmbassadorProfile: req.AmbassadorProfile,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, echo.Map{
		"accessToken": output.AccessToken,
		"user":        output.User,
	}, "Account registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the login request.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, echo.Map{
		"accessToken": output.AccessToken,
		"user":        output.User,
	}, "Login successful")
}

// Me returns the authenticated account.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.uc.GetProfile(c.Request().Context(), caller(c).UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

type updateProfileRequest struct {
	Name              *string                      `json:"name"`
	ArtisanProfile    *entity.ArtisanProfile       `json:"artisanProfile"`
	InvestorProfile   *entity.InvestorProfile      `json:"investorProfile"`
	AmbassadorProfile *entity.AmbassadorProfile    `json:"ambassadorProfile"`
	Notification      *entity.NotificationSettings `json:"notificationSettings"`
	Privacy           *entity.PrivacySettings      `json:"privacySettings"`
	FCMToken          *string                      `json:"fcmToken"`
}

// UpdateProfile applies partial updates to the authenticated account.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), caller(c).UserID, &usecase.UpdateProfileInput{
		Name:              req.Name,
		ArtisanProfile:    req.ArtisanProfile,
		InvestorProfile:   req.InvestorProfile,
		AmbassadorProfile: req.AmbassadorProfile,
		Notification:      req.Notification,
		Privacy:           req.Privacy,
		FCMToken:          req.FCMToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Profile updated successfully")
}

// ListArtisans returns the public artisan directory.
func (h *UserHandler) ListArtisans(c echo.Context) error {
	limit, offset := pagination(c)

	artisans, err := h.uc.ListArtisans(c.Request().Context(), limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, artisans, "")
}

// GetArtisan returns one artisan's public profile.
func (h *UserHandler) GetArtisan(c echo.Context) error {
	artisanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid artisan id")
	}

	artisan, err := h.uc.GetArtisan(c.Request().Context(), artisanID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, artisan, "")
}
