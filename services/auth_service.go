package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"inkstudio-backend/models"
	"inkstudio-backend/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthConfig struct {
	JWTSecret   []byte
	TokenTTL    time.Duration
	AdminEmails []string
}

// AuthService registers, authenticates and revokes studio accounts.
type AuthService struct {
	db       *gorm.DB
	tokens   TokenStore
	verifier IDTokenVerifier
	hub      *SessionHub
	logger   *zap.Logger

	secret      []byte
	ttl         time.Duration
	adminEmails map[string]bool
	visits      sync.WaitGroup

	Now func() time.Time
}

// NewAuthService wires the gateway. verifier may be nil when Google login is not
// configured; tokens defaults to an in-memory store.
func NewAuthService(db *gorm.DB, tokens TokenStore, verifier IDTokenVerifier, hub *SessionHub, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = utils.NormalizeEmail(email); email != "" {
			admins[email] = true
		}
	}
	return &AuthService{
		db:          db,
		tokens:      tokens,
		verifier:    verifier,
		hub:         hub,
		logger:      logger,
		secret:      cfg.JWTSecret,
		ttl:         ttl,
		adminEmails: admins,
		Now:         time.Now,
	}
}

type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Register creates a client account with an empty loyalty balance.
func (s *AuthService) Register(ctx context.Context, in Registration) (*models.User, error) {
	email := utils.NormalizeEmail(in.Email)
	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if in.Phone != "" && !utils.ValidatePhone(in.Phone) {
		return nil, &ValidationError{Fields: map[string]string{"phone": "invalid phone number"}}
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, storeError("check email", err)
	}
	if count > 0 {
		return nil, ErrEmailAlreadyInUse
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}
	now := s.Now()
	user := &models.User{
		Email:     email,
		Password:  in.Password, // hashed in BeforeCreate
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		IsAdmin:   s.adminEmails[email],
		LastVisit: &now,
	}
	if err := createAccount(db, user); err != nil {
		return nil, err
	}
	s.logger.Info("account registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// createAccount inserts user. A unique email violation means another request
// registered the address after our check.
func createAccount(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailAlreadyInUse
		}
		return storeError("create user", err)
	}
	return nil
}

// Login checks email and password. Unknown emails and wrong passwords are not told apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = utils.NormalizeEmail(email)
	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError("load user", err)
	}
	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := s.promoteBootstrapAdmin(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// LoginWithExternalProvider signs in with a Google ID token, creating or linking the
// account. An empty token means the user closed the provider popup.
func (s *AuthService) LoginWithExternalProvider(ctx context.Context, idToken string) (*models.User, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrUserCancelled
	}
	if s.verifier == nil {
		return nil, fmt.Errorf("google login not configured: %w", ErrRemoteUnavailable)
	}
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}
	// Only a verified address may claim an existing account or an admin seat.
	if !identity.EmailVerified {
		return nil, fmt.Errorf("google email not verified: %w", ErrInvalidCredentials)
	}

	email := utils.NormalizeEmail(identity.Email)
	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_subject = ?", identity.Subject).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeError("load google account", err)
		}

		err = tx.Where("email = ?", email).First(&user).Error
		switch {
		case err == nil:
			// Link the existing account, keeping its loyalty state.
			updates := map[string]interface{}{"google_subject": identity.Subject}
			if user.Name == "" && identity.Name != "" {
				updates["name"] = identity.Name
			}
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return storeError("link google account", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			name := strings.TrimSpace(identity.Name)
			if name == "" {
				name = email[:strings.Index(email, "@")]
			}
			now := s.Now()
			subject := identity.Subject
			user = models.User{
				Email:         email,
				Name:          name,
				GoogleSubject: &subject,
				IsAdmin:       s.adminEmails[email],
				LastVisit:     &now,
			}
			return createAccount(tx, &user)
		default:
			return storeError("load account by email", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := s.promoteBootstrapAdmin(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) promoteBootstrapAdmin(ctx context.Context, user *models.User) error {
	if user.IsAdmin || !s.adminEmails[user.Email] {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(user).Update("is_admin", true).Error; err != nil {
		return storeError("promote admin", err)
	}
	user.IsAdmin = true
	s.logger.Info("bootstrap admin promoted", zap.String("user_id", user.ID.String()))
	return nil
}

// IssueToken signs a session token for user.
func (s *AuthService) IssueToken(user *models.User) (string, *jwt.RegisteredClaims, error) {
	return utils.GenerateToken(s.secret, user.ID.String(), s.ttl, s.Now())
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

// Authenticate resolves a raw session token to the caller's session.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (Session, *jwt.RegisteredClaims, error) {
	if raw == "" {
		return nil, nil, ErrAccountRequired
	}
	claims, err := utils.ParseToken(s.secret, raw, s.Now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad subject", ErrInvalidCredentials)
	}
	session, err := s.CurrentAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !session.Account().IsActive {
		return nil, nil, ErrAccountDisabled
	}
	return session, claims, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	expiresAt := s.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.tokens.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return err
	}
	if s.hub != nil {
		if userID, err := uuid.Parse(claims.Subject); err == nil {
			s.hub.Publish(AccountEvent{Type: EventLoggedOut, UserID: userID, At: s.Now()})
		}
	}
	return nil
}

// CurrentAccount loads the account behind userID and records the visit in the
// background. A failed visit update is only logged.
func (s *AuthService) CurrentAccount(ctx context.Context, userID uuid.UUID) (Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("load account", err)
	}

	now := s.Now()
	s.visits.Add(1)
	go func(id uuid.UUID) {
		defer s.visits.Done()
		err := s.db.Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_visit", now).Error
		if err != nil {
			s.logger.Warn("failed to update last visit", zap.String("user_id", id.String()), zap.Error(err))
		}
	}(user.ID)

	user.LastVisit = &now
	return NewSession(&user), nil
}

// Wait blocks until pending last-visit updates have finished.
func (s *AuthService) Wait() {
	s.visits.Wait()
}
