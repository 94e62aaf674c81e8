package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/accentdojo/accentdojo-backend/internal/cache"
	"github.com/accentdojo/accentdojo-backend/internal/data/repos"
	types "github.com/accentdojo/accentdojo-backend/internal/domain"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/ctxutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *types.Session, error)
	// Authenticate validates a session token and returns a context carrying
	// the caller's RequestData. A non-empty refreshed token replaces the cookie.
	Authenticate(ctx context.Context, token string) (context.Context, string, error)
	Logout(ctx context.Context) error
	SessionTTL() time.Duration
}

type AuthConfig struct {
	CookieKey  []byte
	Pepper     []byte
	SessionTTL time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	sessionRepo repos.SessionRepo
	loggedOut   *cache.LoggedOut
	cfg         AuthConfig
	now         func() time.Time
	dummyHash   []byte
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	sessionRepo repos.SessionRepo,
	loggedOut *cache.LoggedOut,
	cfg AuthConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 14 * 24 * time.Hour
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("accentdojo"), bcrypt.MinCost)
	return &authService{
		db:          db,
		log:         serviceLog,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		loggedOut:   loggedOut,
		cfg:         cfg,
		now:         time.Now,
		dummyHash:   dummy,
	}
}

func (as *authService) SessionTTL() time.Duration { return as.cfg.SessionTTL }

// HashPassword produces the stored hash for a password. The peppered HMAC keeps
// the bcrypt input under its 72 byte limit.
func HashPassword(pepper []byte, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(pepperPassword(pepper, password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func pepperPassword(pepper []byte, password string) []byte {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (as *authService) Login(ctx context.Context, email, password string) (string, *types.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, apierr.Unauthorized("invalid email or password")
	}

	found, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}
	peppered := pepperPassword(as.cfg.Pepper, password)
	if len(found) == 0 {
		_ = bcrypt.CompareHashAndPassword(as.dummyHash, peppered)
		return "", nil, apierr.Unauthorized("invalid email or password")
	}
	user := found[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), peppered); err != nil {
		as.log.Debug("Password mismatch", "user_id", user.ID)
		return "", nil, apierr.Unauthorized("invalid email or password")
	}

	now := as.now().UTC()
	sess := &types.Session{
		UserID:    user.ID,
		Started:   now,
		LastSeen:  now,
		ExpiresAt: now.Add(as.cfg.SessionTTL),
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.sessionRepo.Create(ctx, tx, sess); err != nil {
			return err
		}
		return as.userRepo.TouchLastSeen(ctx, tx, user.ID, now)
	})
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := as.generateSessionToken(sess)
	if err != nil {
		return "", nil, err
	}
	as.log.Info("User logged in", "user_id", user.ID, "session_id", sess.ID.String())
	return token, sess, nil
}

func (as *authService) generateSessionToken(sess *types.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID.String(),
		Subject:   strconv.FormatInt(sess.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(sess.LastSeen),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(as.cfg.CookieKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (as *authService) parseSessionToken(tokenString string) (uuid.UUID, int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return as.cfg.CookieKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, 0, apierr.Unauthorized("invalid session token")
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, 0, apierr.Unauthorized("invalid session id")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return uuid.Nil, 0, apierr.Unauthorized("invalid session subject")
	}
	return sessionID, userID, nil
}

func (as *authService) Authenticate(ctx context.Context, tokenString string) (context.Context, string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return ctx, "", apierr.Unauthorized("missing session")
	}
	sessionID, userID, err := as.parseSessionToken(tokenString)
	if err != nil {
		return ctx, "", err
	}
	now := as.now().UTC()
	if as.loggedOut != nil && as.loggedOut.Contains(sessionID, now) {
		return ctx, "", apierr.Unauthorized("session logged out")
	}

	sess, err := as.sessionRepo.Get(ctx, nil, sessionID)
	if err != nil {
		return ctx, "", fmt.Errorf("load session: %w", err)
	}
	if sess == nil || sess.UserID != userID || !now.Before(sess.ExpiresAt) {
		return ctx, "", apierr.Unauthorized("session expired")
	}

	refreshed := ""
	if sess.ExpiresAt.Sub(now) < as.cfg.SessionTTL/2 {
		sess.LastSeen = now
		sess.ExpiresAt = now.Add(as.cfg.SessionTTL)
		if err := as.sessionRepo.Refresh(ctx, nil, sess.ID, sess.LastSeen, sess.ExpiresAt); err != nil {
			return ctx, "", fmt.Errorf("refresh session: %w", err)
		}
		if refreshed, err = as.generateSessionToken(sess); err != nil {
			return ctx, "", err
		}
		as.log.Debug("Session refreshed", "session_id", sess.ID.String())
	}

	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: sess.UserID, SessionID: sess.ID})
	return ctx, refreshed, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return apierr.Unauthorized("no session")
	}
	sess, err := as.sessionRepo.Get(ctx, nil, rd.SessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	until := as.now().UTC().Add(as.cfg.SessionTTL)
	if sess != nil {
		until = sess.ExpiresAt
	}
	if err := as.sessionRepo.Delete(ctx, nil, rd.SessionID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	if as.loggedOut != nil {
		as.loggedOut.Add(ctx, rd.SessionID, until)
	}
	as.log.Info("User logged out", "user_id", rd.UserID, "session_id", rd.SessionID.String())
	return nil
}
