package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	appdb "github.com/yungbote/mathstep-backend/internal/data/db"
	"github.com/yungbote/mathstep-backend/internal/data/repos"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/apierr"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

const (
	tokenTypeAccess      = "access"
	tokenTypeEmailVerify = "email_verify"
)

type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// Session is the token pair handed to a client on login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         *types.User
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*Session, error)
	LoginUser(ctx context.Context, email, password string) (*Session, error)
	RefreshUser(ctx context.Context, refreshToken string) (*Session, error)
	LogoutUser(ctx context.Context) error
	EmailVerificationToken(email string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	emailTTL      time.Duration
	mailer        Mailer
	publicURL     string
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	emailTTL time.Duration,
	mailer Mailer,
	publicURL string,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		emailTTL:      emailTTL,
		mailer:        mailer,
		publicURL:     publicURL,
		now:           time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	var out *Session
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return apierr.BadRequest("email_taken", errors.New("Email already registered"))
		}
		user := &types.User{
			Email:     email,
			Password:  string(hashed),
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			IsActive:  true,
		}
		if username != "" {
			taken, err := as.userRepo.UsernameExists(dbc, username)
			if err != nil {
				return err
			}
			if taken {
				return apierr.BadRequest("username_taken", errors.New("Username already taken"))
			}
			user.Username = &username
		}
		if _, err := as.userRepo.Create(dbc, []*types.User{user}); err != nil {
			if appdb.IsUniqueViolation(err) {
				return apierr.BadRequest("email_taken", errors.New("Email already registered"))
			}
			return fmt.Errorf("create user: %w", err)
		}
		sess, err := as.issueSession(dbc, user)
		if err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("Registered user", "user_id", out.User.ID.String())
	as.sendVerification(ctx, email)
	return out, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	invalid := apierr.Unauthorized("invalid_credentials", "Invalid email or password")
	var out *Session
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		users, err := as.userRepo.GetByEmails(dbc, []string{email})
		if err != nil {
			return fmt.Errorf("load user by email: %w", err)
		}
		if len(users) == 0 || users[0].Password == "" {
			return invalid
		}
		user := users[0]
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return invalid
		}
		if !user.IsActive {
			return apierr.New(http.StatusForbidden, "user_inactive", errors.New("User inactive"))
		}
		now := as.now()
		if err := as.userRepo.TouchLastLogin(dbc, user.ID, now); err != nil {
			return fmt.Errorf("touch last login: %w", err)
		}
		user.LastLogin = &now
		sess, err := as.issueSession(dbc, user)
		if err != nil {
			return err
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshUser rotates a refresh token: the old pair is revoked and a new one
// is issued.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*Session, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Unauthorized("invalid_refresh_token", "Invalid refresh token")
	}
	var out *Session
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		found, err := as.userTokenRepo.GetByRefreshTokens(dbc, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 {
			return apierr.Unauthorized("invalid_refresh_token", "Invalid refresh token")
		}
		existing := found[0]
		if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil && rd.UserID != existing.UserID {
			return apierr.Unauthorized("invalid_refresh_token", "Invalid refresh token")
		}
		if !existing.ExpiresAt.After(as.now()) {
			if err := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
				return fmt.Errorf("revoke expired token: %w", err)
			}
			return apierr.Unauthorized("refresh_token_expired", "Refresh token expired")
		}
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("user_not_found", "User not found")
		}
		sess, err := as.issueSession(dbc, users[0])
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.SoftDeleteByIDs(dbc, []uuid.UUID{existing.ID}); err != nil {
			return fmt.Errorf("revoke old token: %w", err)
		}
		out = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		as.log.Warn("No token in request data on logout")
		return apierr.Unauthorized("unauthorized", "Not authenticated")
	}
	dbc := dbctx.Context{Ctx: ctx}
	found, err := as.userTokenRepo.GetByAccessTokens(dbc, []string{rd.TokenString})
	if err != nil {
		return fmt.Errorf("load user token: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(found))
	for _, t := range found {
		ids = append(ids, t.ID)
	}
	return as.userTokenRepo.SoftDeleteByIDs(dbc, ids)
}

func (as *authService) EmailVerificationToken(email string) (string, error) {
	now := as.now()
	claims := jwt.MapClaims{
		"sub": normalizeEmail(email),
		"typ": tokenTypeEmailVerify,
		"iat": now.Unix(),
		"exp": now.Add(as.emailTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
}

// sendVerification is best effort: a failed send does not undo registration.
func (as *authService) sendVerification(ctx context.Context, email string) {
	if as.mailer == nil {
		return
	}
	token, err := as.EmailVerificationToken(email)
	if err != nil {
		as.log.Warn("Could not sign verification token", "error", err)
		return
	}
	if err := as.mailer.SendVerification(ctx, email, verificationLink(as.publicURL, token)); err != nil {
		as.log.Warn("Verification email failed", "error", err)
	}
}

func (as *authService) VerifyEmail(ctx context.Context, token string) error {
	invalid := apierr.BadRequest("invalid_token", errors.New("Invalid or expired token"))
	claims, err := as.parse(token)
	if err != nil || claims["typ"] != tokenTypeEmailVerify {
		return invalid
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return invalid
	}
	dbc := dbctx.Context{Ctx: ctx}
	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return apierr.NotFound("user_not_found", "User not found")
	}
	return as.userRepo.MarkEmailVerified(dbc, users[0].ID)
}

// SetContextFromToken validates an access token and attaches the caller to
// the returned context. Revoked tokens are rejected even before they expire.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.parse(tokenString)
	if err != nil || claims["typ"] != tokenTypeAccess {
		return ctx, apierr.Unauthorized("invalid_token", "Invalid token")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", "Invalid token")
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("load user token: %w", err)
	}
	if len(found) == 0 || found[0].UserID != userID {
		return ctx, apierr.Unauthorized("invalid_token", "Token revoked")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) parse(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithTimeFunc(as.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"typ": tokenTypeAccess,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) issueSession(dbc dbctx.Context, user *types.User) (*Session, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		as.log.Warn("Create user token failed", "error", err)
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
		User:         user,
	}, nil
}
