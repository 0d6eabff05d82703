package services

import (
	"context"
	goerrors "errors"
	"time"

	"ai-gateway-api/internal/models"
	"ai-gateway-api/internal/pkg/errors"
	"ai-gateway-api/internal/repository"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const UserContextKey contextKey = "user"

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	// Authenticate returns (nil, nil) for both an unknown username and a wrong
	// password; the two cases are indistinguishable to the caller.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if goerrors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.ErrInvalidCredentials
	}

	return s.issueToken(user.Username)
}

func (s *authService) issueToken(username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})

	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken resolves a bearer token to its user. Malformed encoding, a bad
// signature and an elapsed expiry all collapse into ErrInvalidCredentials.
func (s *authService) VerifyToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidCredentials
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return nil, errors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(context.Background(), username)
	if err != nil {
		if goerrors.Is(err, errors.ErrNotFound) {
			return nil, errors.ErrAccountNotFound
		}
		return nil, err
	}

	return user, nil
}

// Helper function to add the authenticated user to context
func WithUserContext(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// Helper function to get the authenticated user from context
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}
