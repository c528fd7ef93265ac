package impl_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalaghar/internal/domain/entity"
	domainerrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/errors"
	"kalaghar/internal/infra/persistence/docstore"
	"kalaghar/internal/usecase"
	"kalaghar/internal/usecase/impl"
)

func newUserService() usecase.UserUsecase {
	return impl.NewUserService(impl.UserServiceParams{
		UserRepo:     docstore.NewUserRepository(newTestStore()),
		Hasher:       fakeHasher{},
		TokenService: fakeTokenService{},
		Logger:       slog.New(slog.DiscardHandler),
	})
}

func TestRegisterIssuesTokenAndProfile(t *testing.T) {
	t.Parallel()

	svc := newUserService()

	out, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Meera",
		Email:    "meera@example.com",
		Password: "s3cret",
		Role:     entity.RoleArtisan,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.AccessToken)
	assert.Equal(t, entity.RoleArtisan, out.User.Role)
	require.NotNil(t, out.User.ArtisanProfile)
	assert.Equal(t, "hashed:s3cret", out.User.PasswordHash)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	t.Parallel()

	svc := newUserService()

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "s3cret",
		Role:     entity.RoleAdmin,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newUserService()

	input := &usecase.RegisterInput{
		Name:     "Meera",
		Email:    "meera@example.com",
		Password: "s3cret",
		Role:     entity.RoleBuyer,
	}
	_, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newUserService()

	_, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Meera",
		Email:    "meera@example.com",
		Password: "s3cret",
		Role:     entity.RoleBuyer,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &usecase.LoginInput{Email: "meera@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = svc.Login(context.Background(), &usecase.LoginInput{Email: "nobody@example.com", Password: "s3cret"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	svc := newUserService()

	registered, err := svc.Register(context.Background(), &usecase.RegisterInput{
		Name:     "Meera",
		Email:    "meera@example.com",
		Password: "s3cret",
		Role:     entity.RoleBuyer,
	})
	require.NoError(t, err)

	out, err := svc.Login(context.Background(), &usecase.LoginInput{Email: "meera@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)
}
