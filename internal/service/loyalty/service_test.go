package loyalty

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func seedCompleted(t *testing.T, store *memory.Store, email, name string, n int, hour string) {
	t.Helper()
	for i := 0; i < n; i++ {
		store.Put(domain.Booking{
			ID:            fmt.Sprintf("%s-%d", email, i),
			Date:          types.DateString(fmt.Sprintf("2025-02-%02d", i+1)),
			Hour:          types.TimeString(hour),
			CustomerName:  name,
			CustomerEmail: email,
			Status:        domain.StatusCompleted,
		})
	}
}

func TestService_GetMyLoyalty(t *testing.T) {
	store := memory.NewStore()
	seedCompleted(t, store, "ana@example.com", "Ana", 5, "15:00")
	store.Put(domain.Booking{ID: "p", Date: "2025-03-10", Hour: "15:00", CustomerEmail: "ana@example.com", Status: domain.StatusPending})
	for i := 0; i < 6; i++ {
		_, err := store.NextServiceCount(context.Background(), "ana@example.com")
		require.NoError(t, err)
	}
	store.PutProfile(domain.Profile{UserID: "u-ana", IsFirstTime: false})

	svc := NewService(store, store, store, logger.NewNop())

	resp, err := svc.GetMyLoyalty(context.Background(), &domain.AuthUser{ID: "u-ana", Email: " ANA@example.com "})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", resp.CustomerEmail)
	assert.Equal(t, 5, resp.CompletedCount)
	assert.Equal(t, 6, resp.TotalBookings)
	assert.Equal(t, "Frequent", resp.Tier.Label)
	assert.Equal(t, "frecuente", resp.Tier.VisualKey)
	require.NotNil(t, resp.NextTier)
	assert.Equal(t, "Star", resp.NextTier.Label)
	assert.Equal(t, 5, resp.RemainingToNext)
	require.NotNil(t, resp.IsFirstTime)
	assert.False(t, *resp.IsFirstTime)
	assert.Zero(t, resp.FirstVisitDiscount)
}

func TestService_GetMyLoyalty_NewCustomerWithoutProfile(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, store, store, logger.NewNop())

	resp, err := svc.GetMyLoyalty(context.Background(), &domain.AuthUser{ID: "u-new", Email: "new@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.CompletedCount)
	assert.Equal(t, "New", resp.Tier.Label)
	assert.Nil(t, resp.IsFirstTime)
	assert.Equal(t, 5, resp.RemainingToNext)
	assert.Equal(t, domain.FirstVisitDiscountPercent, resp.FirstVisitDiscount)
}

func TestService_GetMyLoyalty_FirstVisitDiscountFollowsProfile(t *testing.T) {
	store := memory.NewStore()
	store.PutProfile(domain.Profile{UserID: "u-new", IsFirstTime: true})
	store.PutProfile(domain.Profile{UserID: "u-old", IsFirstTime: false})
	svc := NewService(store, store, store, logger.NewNop())
	ctx := context.Background()

	resp, err := svc.GetMyLoyalty(ctx, &domain.AuthUser{ID: "u-new", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.FirstVisitDiscount)

	resp, err = svc.GetMyLoyalty(ctx, &domain.AuthUser{ID: "u-old", Email: "old@example.com"})
	require.NoError(t, err)
	assert.Zero(t, resp.FirstVisitDiscount)

	// после первого завершенного визита скидка больше не действует
	seedCompleted(t, store, "new@example.com", "Nuevo", 1, "16:00")
	resp, err = svc.GetMyLoyalty(ctx, &domain.AuthUser{ID: "u-new", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Zero(t, resp.FirstVisitDiscount)
}

func TestService_GetMyLoyalty_Errors(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, nil, nil, logger.NewNop())

	_, err := svc.GetMyLoyalty(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	store.FailNext = errors.New("db down")
	_, err = svc.GetMyLoyalty(context.Background(), &domain.AuthUser{ID: "u", Email: "a@b.cl"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetMyLoyalty_TopTierHasNoNext(t *testing.T) {
	store := memory.NewStore()
	seedCompleted(t, store, "vip@example.com", "Vip", 15, "15:00")
	svc := NewService(store, nil, nil, logger.NewNop())

	resp, err := svc.GetMyLoyalty(context.Background(), &domain.AuthUser{ID: "u", Email: "vip@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "VIP", resp.Tier.Label)
	assert.Nil(t, resp.NextTier)
	assert.Zero(t, resp.RemainingToNext)
}

func TestService_GetRanking(t *testing.T) {
	store := memory.NewStore()
	seedCompleted(t, store, "zoe@example.com", "Zoe", 10, "15:00")
	seedCompleted(t, store, "ana@example.com", "Ana", 10, "16:00")
	seedCompleted(t, store, "luis@example.com", "Luis", 3, "17:00")
	store.Put(domain.Booking{ID: "p", Date: "2025-03-10", Hour: "15:00", CustomerEmail: "max@example.com", Status: domain.StatusPending})

	svc := NewService(store, nil, nil, logger.NewNop())

	resp, err := svc.GetRanking(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 3)

	assert.Equal(t, 1, resp.Entries[0].Position)
	assert.Equal(t, "ana@example.com", resp.Entries[0].CustomerEmail)
	assert.Equal(t, "Star", resp.Entries[0].Tier.Label)
	assert.Equal(t, "zoe@example.com", resp.Entries[1].CustomerEmail)
	assert.Equal(t, "luis@example.com", resp.Entries[2].CustomerEmail)
	assert.Equal(t, "New", resp.Entries[2].Tier.Label)

	resp, err = svc.GetRanking(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 1)

	_, err = svc.GetRanking(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_TierFor(t *testing.T) {
	svc := NewService(memory.NewStore(), nil, nil, logger.NewNop())

	assert.Equal(t, "novato", svc.TierFor(4).VisualKey)
	assert.Equal(t, "frecuente", svc.TierFor(5).VisualKey)
	assert.Equal(t, "estrella", svc.TierFor(10).VisualKey)
	assert.Equal(t, "vip", svc.TierFor(15).VisualKey)
}
