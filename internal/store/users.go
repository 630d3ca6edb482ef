package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateUser inserts a new observer account. The observer code is generated
// here so uniqueness can be resolved against the codes already issued.
// user.Institution must name a seeded institution.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("store: user is required")
	}

	code, err := s.InstitutionCode(ctx, user.Institution)
	if err != nil {
		return fmt.Errorf("store: create user: %w", err)
	}

	existing, err := s.observerCodes(ctx)
	if err != nil {
		return err
	}
	user.ObserverCode = GenerateObserverCode(code, user.FirstName, user.LastName, existing)

	if user.UserLevel == "" {
		user.UserLevel = "novice"
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// UserByEmail looks an account up by email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: user by email: %w", err)
	}
	return &user, nil
}

// EmailTaken reports whether an account already exists for email.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("store: email lookup: %w", err)
	}
	return count > 0, nil
}

// UpdatePassword replaces the stored bcrypt digest for a user.
func (s *Store) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result := s.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", email).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("store: update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateUserLevel changes an account's role.
func (s *Store) UpdateUserLevel(ctx context.Context, email, level string) error {
	result := s.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", email).
		Update("user_level", level)
	if result.Error != nil {
		return fmt.Errorf("store: update user level: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) observerCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	err := s.db.WithContext(ctx).Model(&User{}).Pluck("observer_code", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("store: observer codes: %w", err)
	}
	existing := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code != "" {
			existing[code] = struct{}{}
		}
	}
	return existing, nil
}

// GenerateObserverCode builds a unique observer code from the institution's
// single-letter code and the user's initials. Conflicts are resolved by
// walking alternate letters of the first name, then the last name, then an
// alphabetic fallback, matching the codes already in circulation.
func GenerateObserverCode(institutionCode, firstName, lastName string, existing map[string]struct{}) string {
	first := []rune(strings.ToLower(strings.TrimSpace(firstName)))
	last := []rune(strings.ToLower(strings.TrimSpace(lastName)))
	if len(first) == 0 {
		first = []rune("x")
	}
	if len(last) == 0 {
		last = []rune("x")
	}

	code := fmt.Sprintf("%s%c%c", institutionCode, first[0], last[0])

	counter := 1
	for {
		if _, taken := existing[code]; !taken {
			return code
		}
		switch {
		case counter < len(first):
			code = fmt.Sprintf("%s%c%c", institutionCode, first[counter], last[0])
		case counter < len(last):
			code = fmt.Sprintf("%s%c%c", institutionCode, first[0], last[counter])
		default:
			// Initials are exhausted; a numeric suffix always terminates.
			code = fmt.Sprintf("%s%c%c%d", institutionCode, first[0], last[0], counter)
		}
		counter++
	}
}
