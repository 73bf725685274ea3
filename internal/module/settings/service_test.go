package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	profiles map[uuid.UUID]*ProfileSettings
	stores   map[uuid.UUID]*StoreSettings
	payouts  map[uuid.UUID]*PayoutSettings
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		profiles: make(map[uuid.UUID]*ProfileSettings),
		stores:   make(map[uuid.UUID]*StoreSettings),
		payouts:  make(map[uuid.UUID]*PayoutSettings),
	}
}

func (r *memoryRepo) GetProfile(_ context.Context, userID uuid.UUID) (*ProfileSettings, error) {
	if s, ok := r.profiles[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return &ProfileSettings{UserID: userID}, nil
}

func (r *memoryRepo) SaveProfile(_ context.Context, s *ProfileSettings) error {
	copied := *s
	r.profiles[s.UserID] = &copied
	return nil
}

func (r *memoryRepo) GetStore(_ context.Context, userID uuid.UUID) (*StoreSettings, error) {
	if s, ok := r.stores[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return &StoreSettings{UserID: userID}, nil
}

func (r *memoryRepo) SaveStore(_ context.Context, s *StoreSettings) error {
	copied := *s
	r.stores[s.UserID] = &copied
	return nil
}

func (r *memoryRepo) GetPayout(_ context.Context, userID uuid.UUID) (*PayoutSettings, error) {
	if s, ok := r.payouts[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return &PayoutSettings{UserID: userID}, nil
}

func (r *memoryRepo) SavePayout(_ context.Context, s *PayoutSettings) error {
	copied := *s
	r.payouts[s.UserID] = &copied
	return nil
}

func TestSaveProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("first save of a changed section persists", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), zap.NewNop())

		s, err := svc.SaveProfile(ctx, userID, &UpdateProfileRequest{DisplayName: "Ada"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", s.DisplayName)
	})

	t.Run("clean save is rejected", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), zap.NewNop())
		req := &UpdateProfileRequest{DisplayName: "Ada", Bio: "Designer"}

		_, err := svc.SaveProfile(ctx, userID, req)
		require.NoError(t, err)

		_, err = svc.SaveProfile(ctx, userID, req)
		assert.ErrorIs(t, err, ErrNotDirty)
	})

	t.Run("save resets the reference state", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), zap.NewNop())

		_, err := svc.SaveProfile(ctx, userID, &UpdateProfileRequest{DisplayName: "Ada"})
		require.NoError(t, err)

		// a further edit is dirty against the new state, not the original
		s, err := svc.SaveProfile(ctx, userID, &UpdateProfileRequest{DisplayName: "Ada", Bio: "Designer"})
		require.NoError(t, err)
		assert.Equal(t, "Designer", s.Bio)

		_, err = svc.SaveProfile(ctx, userID, &UpdateProfileRequest{DisplayName: "Ada", Bio: "Designer"})
		assert.ErrorIs(t, err, ErrNotDirty)
	})
}

func TestSaveStore(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	svc := NewService(newMemoryRepo(), zap.NewNop())

	s, err := svc.SaveStore(ctx, userID, &UpdateStoreRequest{StoreName: "Pixel Goods", VacationMode: true})
	require.NoError(t, err)
	assert.True(t, s.VacationMode)

	_, err = svc.SaveStore(ctx, userID, &UpdateStoreRequest{StoreName: "Pixel Goods", VacationMode: true})
	assert.ErrorIs(t, err, ErrNotDirty)
}

func TestSavePayout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("confirmation mismatch fails before anything else", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewService(repo, zap.NewNop())

		_, err := svc.SavePayout(ctx, userID, &UpdatePayoutRequest{
			AccountNumber:        "1111",
			AccountNumberConfirm: "2222",
		})
		assert.ErrorIs(t, err, ErrAccountMismatch)
		assert.Empty(t, repo.payouts)
	})

	t.Run("matching confirmation persists", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), zap.NewNop())

		s, err := svc.SavePayout(ctx, userID, &UpdatePayoutRequest{
			AccountHolder:        "Ada Lovelace",
			AccountNumber:        "12345678",
			AccountNumberConfirm: "12345678",
			RoutingNumber:        "021000021",
		})
		require.NoError(t, err)
		assert.Equal(t, "12345678", s.AccountNumber)
	})

	t.Run("clean payout save is rejected", func(t *testing.T) {
		svc := NewService(newMemoryRepo(), zap.NewNop())
		req := &UpdatePayoutRequest{
			AccountNumber:        "12345678",
			AccountNumberConfirm: "12345678",
		}

		_, err := svc.SavePayout(ctx, userID, req)
		require.NoError(t, err)

		_, err = svc.SavePayout(ctx, userID, req)
		assert.ErrorIs(t, err, ErrNotDirty)
	})
}
