package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawsitivelybooked/server/internal/domain"
)

// Role tags a user as a dog owner or a facility owner. A single user record
// carries both shared and role-specific attributes; the role decides which
// operations the user may perform.
type Role string

const (
	RoleDogOwner      Role = "dog_owner"
	RoleFacilityOwner Role = "facility_owner"
)

// IsValid returns true if the role is recognized.
func (r Role) IsValid() bool {
	return r == RoleDogOwner || r == RoleFacilityOwner
}

// User is the aggregate root for an account, shared by dog owners and
// facility owners.
type User struct {
	id           uuid.UUID
	role         Role
	username     string
	firstName    string
	lastName     string
	email        string
	passwordHash string
	phoneNumber  string
	location     string
	latitude     float64
	longitude    float64
	about        string

	// Facility-owner specific.
	skillsAndQualifications string

	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new account with a bcrypt-hashed password.
func NewUser(role Role, username, firstName, lastName, email, password string) (*User, error) {
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid user role")
	}
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		role:         role,
		username:     username,
		firstName:    firstName,
		lastName:     lastName,
		email:        email,
		passwordHash: string(hash),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	role Role,
	username, firstName, lastName, email, passwordHash, phoneNumber, location string,
	latitude, longitude float64,
	about, skillsAndQualifications string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                      id,
		role:                    role,
		username:                username,
		firstName:               firstName,
		lastName:                lastName,
		email:                   email,
		passwordHash:            passwordHash,
		phoneNumber:             phoneNumber,
		location:                location,
		latitude:                latitude,
		longitude:               longitude,
		about:                   about,
		skillsAndQualifications: skillsAndQualifications,
		createdAt:               createdAt,
		updatedAt:               updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Role() Role           { return u.role }
func (u *User) Username() string     { return u.username }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) PhoneNumber() string  { return u.phoneNumber }
func (u *User) Location() string     { return u.location }
func (u *User) Latitude() float64    { return u.latitude }
func (u *User) Longitude() float64   { return u.longitude }
func (u *User) About() string        { return u.about }
func (u *User) SkillsAndQualifications() string { return u.skillsAndQualifications }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// SetLocation records the user's geocoded home location.
func (u *User) SetLocation(location string, latitude, longitude float64) {
	u.location = location
	u.latitude = latitude
	u.longitude = longitude
	u.updatedAt = time.Now().UTC()
}

// UpdateProfile applies partial updates to the account profile.
func (u *User) UpdateProfile(firstName, lastName, email, phoneNumber, about, skills string) {
	if firstName != "" {
		u.firstName = firstName
	}
	if lastName != "" {
		u.lastName = lastName
	}
	if email != "" {
		u.email = email
	}
	if phoneNumber != "" {
		u.phoneNumber = phoneNumber
	}
	if about != "" {
		u.about = about
	}
	if skills != "" {
		u.skillsAndQualifications = skills
	}
	u.updatedAt = time.Now().UTC()
}
