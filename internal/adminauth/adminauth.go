// Package adminauth authenticates the operators who perform
// moderation actions, using a bcrypt+JWT approach against an
// admin_users table rather than an end-user accounts table — end
// users here are identified by
// ChatUserID through the front end, never by password.
package adminauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/korolhresti/newsdigest/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("admin user already exists")
)

type ctxKey string

const actorIDKey ctxKey = "admin_actor_id"

// Service issues and validates admin session tokens.
type Service struct {
	db        *sql.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(db *sql.DB, jwtSecret string, tokenTTL time.Duration) *Service {
	if jwtSecret == "" {
		jwtSecret = "development-secret-key-change-in-production"
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{db: db, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Register creates a new admin operator account.
func (s *Service) Register(ctx context.Context, email, password string) (*models.AdminUser, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	var admin models.AdminUser
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, email, string(hashed)).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create admin user: %w", err)
	}
	return &admin, nil
}

// Login authenticates an admin by email/password and returns a signed
// JWT plus the admin record.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	var admin models.AdminUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users WHERE email = $1
	`, email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"actor_id": admin.ID,
		"email":    admin.Email,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign admin token: %w", err)
	}
	return tokenString, &admin, nil
}

// ValidateToken parses a bearer token and returns the acting admin's ID.
func (s *Service) ValidateToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	actorID, ok := claims["actor_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	return int(actorID), nil
}

// WithActorID stores the authenticated admin's id on ctx for handlers
// to read back when recording an AdminAction.
func WithActorID(ctx context.Context, actorID int) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

func ActorIDFromContext(ctx context.Context) (int, bool) {
	actorID, ok := ctx.Value(actorIDKey).(int)
	return actorID, ok
}
