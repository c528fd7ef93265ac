// Package docstore implements the domain repository interfaces over the
// record-store adapter, one collection per entity.
package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "kalaghar/internal/domain/errors"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/repository"
	"kalaghar/internal/domain/store"
	"kalaghar/internal/errors"
)

const userCollection = "users"

// UserRepository persists users in the document store.
type UserRepository struct {
	store *store.Store
}

// NewUserRepository creates a document-store-backed user repository.
func NewUserRepository(s *store.Store) repository.UserRepository {
	return &UserRepository{store: s}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	doc, err := encodeUser(user)
	if err != nil {
		return err
	}

	return r.store.Create(ctx, userCollection, user.ID.String(), doc)
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	doc, err := r.store.Get(ctx, userCollection, id.String())
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrUserNotFound
		}

		return nil, err
	}

	return decodeUser(doc)
}

// FindByEmail fetches a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	doc, err := r.store.FindOne(ctx, userCollection, []store.Filter{
		store.Eq{Field: "email", Value: email},
	})
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return nil, apperrors.ErrUserNotFound
		}

		return nil, err
	}

	return decodeUser(doc)
}

// Update overwrites an existing user.
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()

	doc, err := encodeUser(user)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, userCollection, user.ID.String(), doc); err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return apperrors.ErrUserNotFound
		}

		return err
	}

	return nil
}

// ListByRole lists users holding the given role, newest first.
func (r *UserRepository) ListByRole(ctx context.Context, role entity.Role, limit, offset int) ([]*entity.User, error) {
	docs, err := r.store.FindMany(ctx, userCollection,
		[]store.Filter{store.Eq{Field: "role", Value: role.String()}},
		store.FindOptions{SortBy: "createdAt", SortOrder: store.SortDesc, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		user, err := decodeUser(doc)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// userDoc is the stored form of a user. The password hash is excluded from
// the entity's public JSON, so it is carried alongside here.
type userDoc struct {
	*entity.User
	PasswordHash string `json:"passwordHash"`
}

func encodeUser(user *entity.User) (store.Document, error) {
	return store.Encode(userDoc{User: user, PasswordHash: user.PasswordHash})
}

func decodeUser(doc store.Document) (*entity.User, error) {
	out := userDoc{User: &entity.User{}}
	if err := store.Decode(doc, &out); err != nil {
		return nil, err
	}
	out.User.PasswordHash = out.PasswordHash

	return out.User, nil
}
