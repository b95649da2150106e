package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)(:[0-5]\d)?$`)

// PreferenceService manages the per-user notification preferences and the
// onboarding record they feed.
type PreferenceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db, now: time.Now}
}

// Get returns the user's preferences, creating an empty record on first access.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	return firstOrCreate(ctx, s.db, userID, &models.UserPreference{UserID: userID})
}

// Update applies the fields present in p and stamps the onboarding record's
// notification_time_setting with the current time.
func (s *PreferenceService) Update(ctx context.Context, userID uuid.UUID, p *dto.UserPreferenceParams) (*models.UserPreference, error) {
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p != nil {
		if p.NotificationTime != nil {
			pref.NotificationTime = normalizeTimeOfDay(*p.NotificationTime)
		}
		if p.Timezone != nil {
			tz := strings.TrimSpace(*p.Timezone)
			pref.Timezone = &tz
			if tz == "" {
				pref.Timezone = nil
			}
		}
	}

	if err := validatePreference(pref, p); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(pref).Error; err != nil {
			return fmt.Errorf("failed to update user preference: %w", err)
		}

		onboarding, err := firstOrCreate(ctx, tx, userID, &models.Onboarding{UserID: userID})
		if err != nil {
			return err
		}
		stamp := s.now().UTC()
		if err := tx.Model(onboarding).Update("notification_time_setting", stamp).Error; err != nil {
			return fmt.Errorf("failed to update onboarding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func validatePreference(pref *models.UserPreference, p *dto.UserPreferenceParams) error {
	var timeRules []validation.Rule
	if p != nil && p.NotificationTime != nil && strings.TrimSpace(*p.NotificationTime) != "" && pref.NotificationTime == nil {
		timeRules = append(timeRules, validation.Required.Error("must be a valid time (HH:MM)"))
	}
	return asValidationError(validation.ValidateStruct(pref,
		validation.Field(&pref.NotificationTime, timeRules...),
		validation.Field(&pref.Timezone, validation.Length(0, 50).Error("is too long (maximum is 50 characters)")),
	))
}

// normalizeTimeOfDay accepts H:MM, HH:MM and HH:MM:SS and returns HH:MM. A
// blank value clears the setting; an unparseable one yields nil and is
// reported by validation.
func normalizeTimeOfDay(value string) *string {
	value = strings.TrimSpace(value)
	m := timeOfDayPattern.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	out := hour + ":" + m[2]
	return &out
}

// OnboardingService exposes the user's onboarding record.
type OnboardingService struct {
	db *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{db: db}
}

// Get returns the user's onboarding record, creating it on first access.
func (s *OnboardingService) Get(ctx context.Context, userID uuid.UUID) (*models.Onboarding, error) {
	return firstOrCreate(ctx, s.db, userID, &models.Onboarding{UserID: userID})
}

// firstOrCreate loads the single row of T owned by userID or inserts record.
func firstOrCreate[T any](ctx context.Context, db *gorm.DB, userID uuid.UUID, record *T) (*T, error) {
	var existing T
	err := db.WithContext(ctx).Scopes(session.OwnedBy(userID)).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return createOrLoad(ctx, db, userID, record)
}

// createOrLoad inserts record unless a row for userID already exists and
// returns the stored row. The insert never raises a unique violation, so it
// is safe inside a transaction on Postgres, where a failed statement aborts
// everything that follows.
func createOrLoad[T any](ctx context.Context, db *gorm.DB, userID uuid.UUID, record *T) (*T, error) {
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create record: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return record, nil
	}

	var stored T
	if err := db.WithContext(ctx).Scopes(session.OwnedBy(userID)).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return &stored, nil
}

func UserPreferenceResponse(p *models.UserPreference) dto.UserPreferenceResponse {
	return dto.UserPreferenceResponse{
		ID:               p.ID,
		NotificationTime: p.NotificationTime,
		Timezone:         p.Timezone,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func OnboardingResponse(o *models.Onboarding) dto.OnboardingResponse {
	resp := dto.OnboardingResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.NotificationTimeSetting != nil {
		s := o.NotificationTimeSetting.UTC().Format(time.RFC3339)
		resp.NotificationTimeSetting = &s
	}
	return resp
}
