package users

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"nombre"`
	Email        string     `json:"email"`
	Age          *int       `json:"edad,omitempty"`
	Active       bool       `json:"activo"`
	RegisteredAt time.Time  `json:"fecha_registro"`
	LastLogin    *time.Time `json:"ultimo_login,omitempty"`
}

type Input struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Age      *int   `json:"edad"`
	Password string `json:"password"`
}

const MinPasswordLen = 6

// Validate returns the list of field violations; empty means valid.
// requirePassword applies on user creation, not on profile updates.
func (in Input) Validate(requirePassword bool) []string {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "nombre is required")
	} else if len(in.Name) < 2 || len(in.Name) > 100 {
		violations = append(violations, "nombre must be between 2 and 100 characters")
	}
	if in.Email == "" {
		violations = append(violations, "email is required")
	} else if !strings.Contains(in.Email, "@") {
		violations = append(violations, "email must be a valid address")
	}
	if in.Age != nil && (*in.Age < 0 || *in.Age > 150) {
		violations = append(violations, "edad must be between 0 and 150")
	}
	if requirePassword && len(in.Password) < MinPasswordLen {
		violations = append(violations, fmt.Sprintf("password is required and must be at least %d characters", MinPasswordLen))
	}
	return violations
}
