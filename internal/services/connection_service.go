package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/session"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionService struct {
	db *gorm.DB
}

func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

var relationshipValues = func() []interface{} {
	values := make([]interface{}, len(models.Relationships))
	for i, r := range models.Relationships {
		values[i] = r
	}
	return values
}()

func validateConnection(c *models.Connection) error {
	return asValidationError(validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100).Error("is too long (maximum is 100 characters)")),
		validation.Field(&c.PhoneNumber, validation.Required),
		validation.Field(&c.Relationship, validation.Required, validation.In(relationshipValues...).Error("is not included in the list")),
	))
}

// applyConnectionParams copies the fields present in p. Text is trimmed here
// so validation sees what will be stored.
func applyConnectionParams(c *models.Connection, p *dto.ConnectionParams) {
	if p == nil {
		return
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
	}
	if p.Relationship != nil {
		c.Relationship = models.Relationship(strings.TrimSpace(*p.Relationship))
	}
}

// List returns the user's connections ordered by name.
func (s *ConnectionService) List(ctx context.Context, userID uuid.UUID) ([]models.Connection, error) {
	var connections []models.Connection
	if err := s.db.WithContext(ctx).
		Scopes(session.OwnedBy(userID)).
		Order("name ASC").
		Find(&connections).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return connections, nil
}

// Get returns ErrNotFound when the connection does not exist or belongs to
// another user.
func (s *ConnectionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Connection, error) {
	var connection models.Connection
	err := s.db.WithContext(ctx).
		Scopes(session.OwnedBy(userID)).
		First(&connection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load connection: %w", err)
	}
	return &connection, nil
}

func (s *ConnectionService) Create(ctx context.Context, userID uuid.UUID, p *dto.ConnectionParams) (*models.Connection, error) {
	connection := models.Connection{UserID: userID, Relationship: models.RelationshipFriend}
	applyConnectionParams(&connection, p)
	if err := validateConnection(&connection); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&connection).Error; err != nil {
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}
	return &connection, nil
}

// Update applies only the fields present in p.
func (s *ConnectionService) Update(ctx context.Context, userID, id uuid.UUID, p *dto.ConnectionParams) (*models.Connection, error) {
	connection, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyConnectionParams(connection, p)
	if err := validateConnection(connection); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(connection).Error; err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}
	return connection, nil
}

func (s *ConnectionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Scopes(session.OwnedBy(userID)).
		Delete(&models.Connection{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete connection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func ConnectionResponse(c *models.Connection) dto.ConnectionResponse {
	return dto.ConnectionResponse{
		ID:           c.ID,
		Name:         c.Name,
		PhoneNumber:  c.PhoneNumber,
		Relationship: string(c.Relationship),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
