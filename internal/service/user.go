package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"orderdesk/internal/database"
	"orderdesk/internal/model"
)

// UserService is the user directory: account creation, lookup and
// credential checks.
type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, hashed_password, created_at FROM users WHERE email = $1`

	var user model.User
	err := s.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// Create inserts a user with an already hashed password. The unique
// constraint on email decides duplicates, so concurrent registrations for
// the same address cannot both succeed.
func (s *UserService) Create(ctx context.Context, name, email, hashedPassword string) (*model.User, error) {
	query := `INSERT INTO users (name, email, hashed_password) VALUES ($1, $2, $3) RETURNING id, created_at`

	user := model.User{Name: name, Email: email, HashedPassword: hashedPassword}
	err := database.InTx(ctx, s.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, name, email, hashedPassword).Scan(&user.ID, &user.CreatedAt)
	})
	if err != nil {
		if database.IsCode(err, database.CodeUniqueViolation) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

// Register hashes password and creates the user.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name, email, hash)
}

// Authenticate returns the user owning email when password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (bool, error) {
	_, err := s.Authenticate(ctx, email, password)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrInvalidCredentials):
		return false, nil
	default:
		return false, err
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
