package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProfileService() (usecase.ProfileUsecase, *memory.Store) {
	store := memory.NewStore()

	return NewProfileService(memory.NewTransactionManager(store), store.Users(), newDiscardLogger()), store
}

func ptr[T any](v T) *T {
	return &v
}

func TestProfileService_GetProfile(t *testing.T) {
	service, store := createTestProfileService()
	ctx := context.Background()
	user := seedUser(t, store, entity.RoleUser)

	got, err := service.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = service.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	service, store := createTestProfileService()
	ctx := context.Background()
	user := seedUser(t, store, entity.RoleUser)

	updated, err := service.UpdateProfile(ctx, user.ID, &usecase.UpdateProfileInput{
		Name:    ptr(" New Name "),
		Address: ptr("2 Side St"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "2 Side St", updated.Address)
	assert.Equal(t, user.Email, updated.Email)
	assert.Equal(t, entity.RoleUser, updated.Role)

	stored, err := store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", stored.Name)
}

func TestProfileService_UpdateProfile_Errors(t *testing.T) {
	service, store := createTestProfileService()
	ctx := context.Background()
	user := seedUser(t, store, entity.RoleUser)

	_, err := service.UpdateProfile(ctx, user.ID, &usecase.UpdateProfileInput{Name: ptr("  ")})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = service.UpdateProfile(ctx, uuid.New(), &usecase.UpdateProfileInput{Phone: ptr("123")})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
