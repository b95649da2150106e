package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPreferenceService_GetCreatesOnce(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPreferenceService(db)
	user := createTestUser(t, db, "1")
	ctx := context.Background()

	first, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.UserPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPreferenceService_UpdateStampsOnboarding(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPreferenceService(db)
	fixed := time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	user := createTestUser(t, db, "1")
	ctx := context.Background()

	pref, err := svc.Update(ctx, user.ID, &dto.UserPreferenceParams{
		NotificationTime: strPtr("07:05:00"),
		Timezone:         strPtr(" America/New_York "),
	})
	require.NoError(t, err)
	require.NotNil(t, pref.NotificationTime)
	assert.Equal(t, "07:05", *pref.NotificationTime)
	require.NotNil(t, pref.Timezone)
	assert.Equal(t, "America/New_York", *pref.Timezone)

	onboarding, err := NewOnboardingService(db).Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, onboarding.NotificationTimeSetting)
	assert.True(t, fixed.Equal(*onboarding.NotificationTimeSetting))

	resp := OnboardingResponse(onboarding)
	require.NotNil(t, resp.NotificationTimeSetting)
	assert.Equal(t, "2025-06-07T09:00:00Z", *resp.NotificationTimeSetting)

	pref, err = svc.Update(ctx, user.ID, &dto.UserPreferenceParams{NotificationTime: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, pref.NotificationTime)
	require.NotNil(t, pref.Timezone)
}

func TestPreferenceService_RejectsInvalidTime(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPreferenceService(db)
	user := createTestUser(t, db, "1")

	_, err := svc.Update(context.Background(), user.ID, &dto.UserPreferenceParams{NotificationTime: strPtr("noon")})
	assert.ErrorIs(t, err, ErrValidationFailed)

	var count int64
	require.NoError(t, db.Model(&models.Onboarding{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNormalizeTimeOfDay(t *testing.T) {
	cases := map[string]string{
		"8:30":     "08:30",
		"08:30":    "08:30",
		"23:59:59": "23:59",
		" 00:00 ":  "00:00",
	}
	for in, want := range cases {
		got := normalizeTimeOfDay(in)
		require.NotNil(t, got, in)
		assert.Equal(t, want, *got)
	}
	for _, in := range []string{"", "24:00", "12:60", "noon", "1230"} {
		assert.Nil(t, normalizeTimeOfDay(in), in)
	}
}

func TestCreateOrLoad_ExistingRowInsideTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	user := createTestUser(t, db, "1")
	ctx := context.Background()

	existing := &models.Onboarding{UserID: user.ID}
	require.NoError(t, db.Create(existing).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		got, err := createOrLoad(ctx, tx, user.ID, &models.Onboarding{UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)

		// The transaction must still accept statements after the lost insert.
		return tx.Model(got).Update("notification_time_setting", time.Now().UTC()).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Onboarding{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored models.Onboarding
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	assert.NotNil(t, stored.NotificationTimeSetting)
}

func TestCreateOrLoad_InsertsWhenMissing(t *testing.T) {
	db := testutil.NewDB(t)
	user := createTestUser(t, db, "1")

	record := &models.UserPreference{UserID: user.ID}
	got, err := createOrLoad(context.Background(), db, user.ID, record)
	require.NoError(t, err)
	assert.Same(t, record, got)

	var count int64
	require.NoError(t, db.Model(&models.UserPreference{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
