package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"budgetit-server/src/apperr"
	"budgetit-server/src/db"
	"budgetit-server/src/logger"
	"budgetit-server/src/metrics"
	"budgetit-server/src/models"
	"budgetit-server/src/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUserExists         = "User already exists"
	msgMissingCredentials = "Missing credentials"
	msgInvalidCredentials = "Invalid credentials"
)

type AuthService struct {
	store      db.Store
	sessions   *session.Manager
	bcryptCost int
}

// AuthResult is a freshly established session and the user it belongs to.
type AuthResult struct {
	User    models.PublicUser
	Token   string
	Session *models.Session
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateFields(req, msgMissingFields, "Name", "Email", "Password"); err != nil {
		metrics.RecordAuth("signup", "invalid")
		return nil, err
	}

	// an existing email is a conflict whatever else the request carries
	_, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		metrics.RecordAuth("signup", "conflict")
		return nil, apperr.Conflict(msgUserExists)
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, storageError("failed to look up user", err)
	}

	if err := validateRequest(req, msgMissingFields); err != nil {
		metrics.RecordAuth("signup", "invalid")
		return nil, err
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("invalid password")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		UserType:     req.UserType,
	}
	user.ID, err = s.store.CreateUser(ctx, user)
	if errors.Is(err, db.ErrDuplicate) {
		// lost a race with a concurrent signup for the same email
		metrics.RecordAuth("signup", "conflict")
		return nil, apperr.Wrap(apperr.KindConflict, msgUserExists, err)
	}
	if err != nil {
		return nil, storageError("failed to create user", err)
	}

	logger.Get().Info("user signed up", zap.Int64("user_id", user.ID), zap.String("user_type", user.UserType))
	metrics.RecordAuth("signup", "success")
	return s.establish(ctx, user)
}

func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (*AuthResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req, msgMissingCredentials); err != nil {
		metrics.RecordAuth("signin", "invalid")
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, db.ErrNotFound) {
		metrics.RecordAuth("signin", "failure")
		return nil, apperr.Authentication(msgInvalidCredentials)
	}
	if err != nil {
		return nil, storageError("failed to look up user", err)
	}

	ok, legacy := verifyPassword(user.PasswordHash, req.Password)
	if !ok {
		logger.Get().Info("signin rejected", zap.Int64("user_id", user.ID))
		metrics.RecordAuth("signin", "failure")
		return nil, apperr.Authentication(msgInvalidCredentials)
	}
	if legacy {
		s.upgradeHash(ctx, user, req.Password)
	}

	metrics.RecordAuth("signin", "success")
	return s.establish(ctx, user)
}

// Logout revokes the session named by token. It never fails: an unknown
// session is already logged out, and a storage failure is only logged.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		logger.Get().Error("failed to revoke session", zap.Error(err))
	}
}

func (s *AuthService) CurrentUser(p models.Principal) (models.PublicUser, error) {
	if err := requirePrincipal(p); err != nil {
		return models.PublicUser{}, err
	}
	return p.Public(), nil
}

func (s *AuthService) establish(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, sess, err := s.sessions.Issue(ctx, models.PrincipalOf(user))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue session", err)
	}
	return &AuthResult{User: user.Public(), Token: token, Session: sess}, nil
}

func (s *AuthService) cost() int {
	if s.bcryptCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.bcryptCost
}

// upgradeHash replaces a legacy hash with bcrypt. Failure leaves the legacy
// hash in place, which still verifies.
func (s *AuthService) upgradeHash(ctx context.Context, user *models.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err == nil {
		err = s.store.UpdatePasswordHash(ctx, user.ID, string(hash))
	}
	if err != nil {
		logger.Get().Warn("failed to upgrade legacy password hash", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	logger.Get().Info("upgraded legacy password hash", zap.Int64("user_id", user.ID))
}

// verifyPassword checks password against a bcrypt hash or, for accounts
// created before bcrypt, an unsalted hex SHA-256 digest.
func verifyPassword(stored, password string) (ok, legacy bool) {
	if isLegacyHash(stored) {
		sum := sha256.Sum256([]byte(password))
		digest := hex.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1, true
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
}

func isLegacyHash(stored string) bool {
	if len(stored) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}
