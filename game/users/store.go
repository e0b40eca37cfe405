// Package users keeps the credentials used for HTTP basic authentication.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
)

// Store keeps users keyed by username
type Store interface {
	Verify(ctx context.Context, username, password string) (bool, error)
	List(ctx context.Context) ([]string, error)
	Put(ctx context.Context, username, password string) error
	Delete(ctx context.Context, username string) error
}

// User is one stored credential. Only the bcrypt hash of the password is kept.
type User struct {
	Username     string `gorm:"primaryKey;size:64"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GormStore is a Store backed by GORM and a pure-Go SQLite database
type GormStore struct {
	db   *gorm.DB
	log  zerolog.Logger
	cost int
}

var _ Store = (*GormStore)(nil)

// Open opens (or creates) the SQLite database at path and migrates the users table.
// An empty path uses a private in-memory database.
func Open(path string, log zerolog.Logger) (*GormStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open users database: %w", err)
	}

	if path == "" {
		// each new connection to :memory: is a fresh database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}

	store := &GormStore{
		db:   db,
		log:  log.With().Str("component", "users").Logger(),
		cost: bcrypt.DefaultCost,
	}
	store.log.Debug().Str("path", path).Msg("users database ready")
	return store, nil
}

// Close releases the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Verify reports whether the password matches the stored hash. Unknown users simply fail.
func (s *GormStore) Verify(ctx context.Context, username, password string) (bool, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// List returns all usernames in alphabetical order
func (s *GormStore) List(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.WithContext(ctx).Model(&User{}).Order("username").Pluck("username", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return names, nil
}

// Put adds a user or replaces the password of an existing one
func (s *GormStore) Put(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	if password == "" {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{Username: username, PasswordHash: string(hash)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	s.log.Info().Str("user", username).Msg("user stored")
	return nil
}

// Delete removes a user
func (s *GormStore) Delete(ctx context.Context, username string) error {
	result := s.db.WithContext(ctx).Delete(&User{}, "username = ?", username)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	s.log.Info().Str("user", username).Msg("user deleted")
	return nil
}
