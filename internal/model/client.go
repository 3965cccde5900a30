package model

import (
	"strings"
	"time"
)

// Client represents a registered member of the community center.
// Clients are soft-deleted: Active is flipped instead of erasing the
// record, so historical enrollments keep their reference.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`

	// Address, resolved from CEP at registration when the lookup
	// collaborator is reachable.
	CEP          *string `json:"cep,omitempty"`
	Street       *string `json:"street,omitempty"`
	Neighborhood *string `json:"neighborhood,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`

	PasswordHash string `json:"-"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MinClientAge is the minimum age, in years, required to register.
const MinClientAge = 16

// Field length limits
const (
	MaxClientNameLength = 120
	MinPasswordLength   = 8
	MaxPasswordLength   = 72 // bcrypt input limit
)

// Age returns the client's age in whole years at the given instant.
func (c *Client) Age(now time.Time) int {
	years := now.Year() - c.BirthDate.Year()
	anniversary := c.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// CreateClientRequest is the public registration payload.
type CreateClientRequest struct {
	Name      string  `json:"name"`
	BirthDate string  `json:"birthDate"` // YYYY-MM-DD
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Password  string  `json:"password"`
	CEP       *string `json:"cep,omitempty"`
}

// ParsedBirthDate parses the request birth date. Validate reports the
// format error; callers may assume a zero time means invalid input.
func (r *CreateClientRequest) ParsedBirthDate() time.Time {
	t, err := time.Parse("2006-01-02", r.BirthDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Validate validates a CreateClientRequest
func (r *CreateClientRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxClientNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name too long"})
	}

	if !strings.Contains(r.Email, "@") {
		errors = append(errors, FieldError{Field: "email", Message: "a valid email is required"})
	}

	if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password must have at least 8 characters"})
	} else if len(r.Password) > MaxPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password too long"})
	}

	birth := r.ParsedBirthDate()
	if birth.IsZero() {
		errors = append(errors, FieldError{Field: "birthDate", Message: "birthDate must be in YYYY-MM-DD format"})
	} else {
		c := Client{BirthDate: birth}
		if c.Age(time.Now()) < MinClientAge {
			errors = append(errors, FieldError{Field: "birthDate", Message: "clients must be at least 16 years old"})
		}
	}

	if r.CEP != nil && len(normalizeCEP(*r.CEP)) != 8 {
		errors = append(errors, FieldError{Field: "cep", Message: "cep must have 8 digits"})
	}

	return errors
}

// UpdateClientRequest carries optional client updates. Email and
// password changes go through dedicated flows, not here.
type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	CEP   *string `json:"cep,omitempty"`
}

// Validate validates an UpdateClientRequest
func (r *UpdateClientRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxClientNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name too long"})
		}
	}

	if r.CEP != nil && len(normalizeCEP(*r.CEP)) != 8 {
		errors = append(errors, FieldError{Field: "cep", Message: "cep must have 8 digits"})
	}

	return errors
}

// LoginRequest is the client login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Client    *Client   `json:"client"`
}

// normalizeCEP strips the usual "01310-100" formatting down to digits.
func normalizeCEP(cep string) string {
	var sb strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// NormalizeCEP exposes CEP normalization to other packages.
func NormalizeCEP(cep string) string {
	return normalizeCEP(cep)
}
