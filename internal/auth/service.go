package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/edunote/edunote/internal/httperr"
	"github.com/edunote/edunote/internal/observability/logger"
	"github.com/edunote/edunote/internal/repository/document"
)

const usersCollection = "users"

// Service manages accounts in the users collection and issues session tokens.
type Service struct {
	executor document.Executor
	secret   string
	tokenTTL time.Duration
	logger   logger.Logger
}

// NewService creates an account service over the given executor.
func NewService(executor document.Executor, secret string, tokenTTL time.Duration, log logger.Logger) *Service {
	return &Service{
		executor: executor,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   log,
	}
}

// SignUp registers a new account and returns a session token for it.
func (s *Service) SignUp(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", httperr.BadRequest("Please use valid email and password")
	}

	existing, err := s.executor.FindOne(ctx, usersCollection, bson.M{"email": email}, nil)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return "", httperr.Upstream(err)
	}
	if existing != nil {
		return "", httperr.New(http.StatusConflict, "The email already is")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", httperr.Persistence(err)
	}

	if _, err := s.executor.InsertOne(ctx, usersCollection, bson.M{
		"email":    email,
		"password": string(hash),
	}); err != nil {
		if errors.Is(err, mongo.ErrUnacknowledgedWrite) {
			return "", httperr.Persistence(err)
		}
		return "", httperr.Upstream(err)
	}

	return s.issueToken(email)
}

// SignIn checks credentials and returns a session token. Unknown accounts and
// wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", httperr.BadRequest("Please use valid email and password")
	}

	user, err := s.executor.FindOne(ctx, usersCollection, bson.M{"email": email}, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", httperr.New(http.StatusUnauthorized, "You did input wrong email or password")
		}
		return "", httperr.Upstream(err)
	}

	hash, _ := user["password"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", httperr.New(http.StatusUnauthorized, "You did input wrong email or password")
	}

	return s.issueToken(email)
}

// ResolveToken verifies a session token and loads its account with the
// password field excluded. Returns ErrInvalidToken when the token or the
// account is not valid.
func (s *Service) ResolveToken(ctx context.Context, token string) (bson.M, error) {
	email, err := VerifyToken(token, s.secret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.executor.FindOne(ctx, usersCollection, bson.M{"email": email}, bson.M{"password": 0})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidToken
		}
		return nil, httperr.Upstream(err)
	}

	return document.FormatDocument(user), nil
}

func (s *Service) issueToken(email string) (string, error) {
	token, err := CreateToken(email, s.secret, s.tokenTTL)
	if err != nil {
		return "", httperr.Persistence(err)
	}
	return token, nil
}
