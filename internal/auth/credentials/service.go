package credentials

import (
	"context"
	"database/sql"
	"errors"

	"authkit/internal/db"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Register(
	ctx context.Context,
	user User,
	password string,
) (*User, error) {

	var userID uuid.UUID

	// 1. Find or create user by email
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, user.Email).Scan(&userID)

	if err == sql.ErrNoRows {
		// create new user
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO users (email, name, role)
			VALUES ($1, $2, $3)
			RETURNING id
		`, user.Email, user.Name, user.Role).Scan(&userID)
	}

	if err != nil {
		return nil, err
	}

	// 2. Check if credentials already exist
	var exists bool
	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)

	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrAlreadyRegistered
	}

	// 3. Hash password
	hash, version, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	// 4. Insert credentials
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)

	if err != nil {
		return nil, err
	}

	out := user
	out.ID = userID.String()
	return &out, nil
}

func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*User, error) {

	var (
		user         User
		userID       uuid.UUID
		passwordHash string
	)

	// 1. Find user + credentials
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.role, c.password_hash
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`, email).Scan(&userID, &user.Email, &user.Name, &user.Role, &passwordHash)

	if err != nil {
		// hide whether user exists or not
		return nil, ErrInvalidCredentials
	}

	// 2. Verify password
	if err := VerifyPassword(passwordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.ID = userID.String()
	return &user, nil
}

// Exists reports whether credentials are registered for email. It is
// safe to call before Register to avoid duplicate-registration errors
// surfacing only at the database layer.
func (s *Service) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM users u
			JOIN credentials c ON c.user_id = u.id
			WHERE LOWER(u.email) = LOWER($1)
		)
	`, email).Scan(&exists)

	if err != nil {
		return false, err
	}
	return exists, nil
}
