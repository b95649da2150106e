package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// IdentityProfile is the provider-authoritative data used to resolve a user.
type IdentityProfile struct {
	Issuer    string `json:"provider"`
	Subject   string `json:"provider_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

func (p IdentityProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(1, 255), validation.Match(emailPattern)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Issuer, validation.Required),
		validation.Field(&p.Subject, validation.Required),
		validation.Field(&p.AvatarURL, validation.Length(0, 2048)),
	)
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ResolveOrCreate upserts the user keyed by (issuer, subject). Email, name and
// avatar are overwritten from the profile on every call.
func (s *UserService) ResolveOrCreate(ctx context.Context, p IdentityProfile) (*models.User, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return nil, asValidationError(err)
	}

	user := models.User{
		Email:      p.Email,
		Name:       p.Name,
		Provider:   p.Issuer,
		ProviderID: p.Subject,
	}
	if p.AvatarURL != "" {
		avatar := p.AvatarURL
		user.AvatarURL = &avatar
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "avatar_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateIdentity, err)
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	var stored models.User
	if err := s.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", p.Issuer, p.Subject).
		First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load upserted user: %w", err)
	}
	return &stored, nil
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// SetActive enables or disables an account.
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUnknownUser
	}
	return nil
}

// isUniqueViolation relies on TranslateError being enabled on the connection
// (see database.Open); both the postgres and sqlite dialectors translate
// unique constraint failures to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
