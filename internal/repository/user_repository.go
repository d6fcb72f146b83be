package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawsitivelybooked/server/internal/domain"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role                    string    `gorm:"not null;size:20"`
	Username                string    `gorm:"uniqueIndex;not null;size:64"`
	FirstName               string    `gorm:"size:64"`
	LastName                string    `gorm:"size:64"`
	Email                   string    `gorm:"uniqueIndex;not null;size:120"`
	PasswordHash            string    `gorm:"not null;size:128"`
	PhoneNumber             string    `gorm:"size:64"`
	Location                string    `gorm:"size:255"`
	Latitude                float64   `gorm:""`
	Longitude               float64   `gorm:""`
	About                   string    `gorm:"type:text"`
	SkillsAndQualifications string    `gorm:"type:text"`
	CreatedAt               time.Time `gorm:"not null"`
	UpdatedAt               time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by its unique identifier.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toDomainUser(&model), nil
}

// FindByEmail retrieves a user by email address.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return toDomainUser(&model), nil
}

// FindByUsername retrieves a user by username.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", username)
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return toDomainUser(&model), nil
}

// Save persists a new user.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user.
func (r *GormUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"first_name":                model.FirstName,
			"last_name":                 model.LastName,
			"email":                     model.Email,
			"phone_number":              model.PhoneNumber,
			"location":                  model.Location,
			"latitude":                  model.Latitude,
			"longitude":                 model.Longitude,
			"about":                     model.About,
			"skills_and_qualifications": model.SkillsAndQualifications,
			"updated_at":                model.UpdatedAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:                      u.ID(),
		Role:                    string(u.Role()),
		Username:                u.Username(),
		FirstName:               u.FirstName(),
		LastName:                u.LastName(),
		Email:                   u.Email(),
		PasswordHash:            u.PasswordHash(),
		PhoneNumber:             u.PhoneNumber(),
		Location:                u.Location(),
		Latitude:                u.Latitude(),
		Longitude:               u.Longitude(),
		About:                   u.About(),
		SkillsAndQualifications: u.SkillsAndQualifications(),
		CreatedAt:               u.CreatedAt(),
		UpdatedAt:               u.UpdatedAt(),
	}
}

func toDomainUser(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(
		m.ID,
		userDomain.Role(m.Role),
		m.Username,
		m.FirstName,
		m.LastName,
		m.Email,
		m.PasswordHash,
		m.PhoneNumber,
		m.Location,
		m.Latitude,
		m.Longitude,
		m.About,
		m.SkillsAndQualifications,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
