// Package store persists observer accounts, consortium institutions, and
// observation requests in a SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Store wraps the database handle. All methods are safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite database at path, migrates the
// schema, and seeds the institution table on first boot. Pass ":memory:"
// for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &Institution{}, &ObservationRequest{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	store := &Store{db: db}
	if err := store.seedInstitutions(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return sqlDB.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: ping: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) seedInstitutions(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Institution{}).Count(&count).Error; err != nil {
		return fmt.Errorf("store: count institutions: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&seedInstitutions).Error; err != nil {
		return fmt.Errorf("store: seed institutions: %w", err)
	}
	return nil
}

// Institutions returns the consortium members ordered by name.
func (s *Store) Institutions(ctx context.Context) ([]Institution, error) {
	var institutions []Institution
	err := s.db.WithContext(ctx).Order("name").Find(&institutions).Error
	if err != nil {
		return nil, fmt.Errorf("store: list institutions: %w", err)
	}
	return institutions, nil
}

// InstitutionCode returns the single-letter code for the named institution.
func (s *Store) InstitutionCode(ctx context.Context, name string) (string, error) {
	var institution Institution
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&institution).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: institution %q: %w", name, err)
	}
	return institution.Code, nil
}
