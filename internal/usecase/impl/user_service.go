// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/errors"
	"kalaghar/internal/usecase"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account with a hashed password and issues its first
// access token.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.Any("role", input.Role), slog.String("email", input.Email))

	if !input.Role.IsValid() || input.Role == entity.RoleAdmin {
		return nil, domainerrors.ErrValidationFailed.WithDetails("role must be one of artisan, buyer, investor, ambassador")
	}

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, errors.Wrap(domainerrors.ErrUserAlreadyExists, "registration failed")
	}
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing email")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	newUser := &entity.User{
		ID:                uuid.New(),
		Email:             input.Email,
		PasswordHash:      hashedPassword,
		Name:              input.Name,
		Role:              input.Role,
		ArtisanProfile:    input.ArtisanProfile,
		InvestorProfile:   input.InvestorProfile,
		AmbassadorProfile: input.AmbassadorProfile,
		Notification:      entity.DefaultNotificationSettings(),
		Privacy:           entity.DefaultPrivacySettings(),
	}
	attachDefaultProfile(newUser)

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(newUser.ID, newUser.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.AuthOutput{AccessToken: accessToken, User: newUser}, nil
}

// attachDefaultProfile ensures the profile block matching the role exists.
func attachDefaultProfile(user *entity.User) {
	switch user.Role {
	case entity.RoleArtisan:
		if user.ArtisanProfile == nil {
			user.ArtisanProfile = &entity.ArtisanProfile{}
		}
	case entity.RoleInvestor:
		if user.InvestorProfile == nil {
			user.InvestorProfile = &entity.InvestorProfile{}
		}
	case entity.RoleAmbassador:
		if user.AmbassadorProfile == nil {
			user.AmbassadorProfile = &entity.AmbassadorProfile{}
		}
	case entity.RoleBuyer, entity.RoleAdmin:
	}
}

// Login verifies credentials and issues an access token.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	if err := srv.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{AccessToken: accessToken, User: user}, nil
}

// GetProfile returns the caller's own account.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields of the input to the account.
func (srv *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for profile update")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.ArtisanProfile != nil {
		user.ArtisanProfile = input.ArtisanProfile
	}
	if input.InvestorProfile != nil {
		user.InvestorProfile = input.InvestorProfile
	}
	if input.AmbassadorProfile != nil {
		user.AmbassadorProfile = input.AmbassadorProfile
	}
	if input.Notification != nil {
		user.Notification = *input.Notification
	}
	if input.Privacy != nil {
		user.Privacy = *input.Privacy
	}
	if input.FCMToken != nil {
		user.FCMToken = *input.FCMToken
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return user, nil
}

// ListArtisans lists accounts holding the artisan role.
func (srv *userService) ListArtisans(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	artisans, err := srv.userRepo.ListByRole(ctx, entity.RoleArtisan, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list artisans")
	}

	return artisans, nil
}

// GetArtisan returns one artisan account, incrementing its profile view
// counter.
func (srv *userService) GetArtisan(ctx context.Context, artisanID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, artisanID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load artisan")
	}
	if user.Role != entity.RoleArtisan {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "account is not an artisan")
	}

	user.Stats.ProfileViews++
	if err := srv.userRepo.Update(ctx, user); err != nil {
		// View counting is best effort; serve the profile regardless.
		srv.log(ctx).Warn("Failed to bump profile views", slog.Any("artisanID", artisanID), slog.Any("error", err))
	}

	return user, nil
}
