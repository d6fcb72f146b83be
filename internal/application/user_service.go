package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/auth"
	"github.com/pawsitivelybooked/server/internal/domain"
	userDomain "github.com/pawsitivelybooked/server/internal/domain/user"
	"github.com/pawsitivelybooked/server/internal/geo"
)

// RegisterUserRequest holds the data needed to register an account.
type RegisterUserRequest struct {
	Role      string `json:"role" binding:"required"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest holds the credentials for a login attempt.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest holds partial profile updates.
type UpdateUserRequest struct {
	FirstName               string `json:"first_name"`
	LastName                string `json:"last_name"`
	Email                   string `json:"email"`
	PhoneNumber             string `json:"phone_number"`
	About                   string `json:"about"`
	SkillsAndQualifications string `json:"skills_and_qualifications"`
}

// UserDTO is the response representation of an account.
type UserDTO struct {
	ID                      uuid.UUID `json:"id"`
	Role                    string    `json:"role"`
	Username                string    `json:"username"`
	FirstName               string    `json:"first_name"`
	LastName                string    `json:"last_name"`
	Email                   string    `json:"email"`
	PhoneNumber             string    `json:"phone_number,omitempty"`
	Location                string    `json:"location,omitempty"`
	Latitude                float64   `json:"latitude,omitempty"`
	Longitude               float64   `json:"longitude,omitempty"`
	About                   string    `json:"about,omitempty"`
	SkillsAndQualifications string    `json:"skills_and_qualifications,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
}

// AuthResponse pairs a signed token with the authenticated account.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserService is the application service for accounts and authentication.
type UserService struct {
	users    userDomain.Repository
	jwt      *auth.JWTManager
	geocoder geo.Geocoder
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users userDomain.Repository, jwt *auth.JWTManager, geocoder geo.Geocoder, logger *zap.Logger) *UserService {
	return &UserService{users: users, jwt: jwt, geocoder: geocoder, logger: logger}
}

// Register creates a new account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*AuthResponse, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, domain.NewConflictError("email is already registered")
	}
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, domain.NewConflictError("username is already taken")
	}

	usr, err := userDomain.NewUser(
		userDomain.Role(req.Role),
		req.Username,
		req.FirstName,
		req.LastName,
		req.Email,
		req.Password,
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, usr); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", usr.ID().String()),
		zap.String("role", string(usr.Role())),
	)
	return s.authResponse(usr)
}

// Login verifies credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	usr, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	if !usr.CheckPassword(req.Password) {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	return s.authResponse(usr)
}

// GetProfile returns the account for the given user ID.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(usr)
	return &dto, nil
}

// UpdateProfile applies partial profile changes to the acting user's account.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	usr.UpdateProfile(req.FirstName, req.LastName, req.Email, req.PhoneNumber, req.About, req.SkillsAndQualifications)
	if err := s.users.Update(ctx, usr); err != nil {
		return nil, err
	}

	dto := toUserDTO(usr)
	return &dto, nil
}

// SetLocation geocodes the given address and stores it on the account.
func (s *UserService) SetLocation(ctx context.Context, userID uuid.UUID, address string) (*UserDTO, error) {
	if address == "" {
		return nil, domain.NewValidationError("address is required")
	}

	usr, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, domain.NewValidationError("address could not be resolved")
	}

	usr.SetLocation(address, coords.Latitude, coords.Longitude)
	if err := s.users.Update(ctx, usr); err != nil {
		return nil, err
	}

	dto := toUserDTO(usr)
	return &dto, nil
}

func (s *UserService) authResponse(usr *userDomain.User) (*AuthResponse, error) {
	token, err := s.jwt.Generate(usr.ID(), usr.Role())
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: toUserDTO(usr)}, nil
}

func toUserDTO(usr *userDomain.User) UserDTO {
	return UserDTO{
		ID:                      usr.ID(),
		Role:                    string(usr.Role()),
		Username:                usr.Username(),
		FirstName:               usr.FirstName(),
		LastName:                usr.LastName(),
		Email:                   usr.Email(),
		PhoneNumber:             usr.PhoneNumber(),
		Location:                usr.Location(),
		Latitude:                usr.Latitude(),
		Longitude:               usr.Longitude(),
		About:                   usr.About(),
		SkillsAndQualifications: usr.SkillsAndQualifications(),
		CreatedAt:               usr.CreatedAt(),
	}
}
