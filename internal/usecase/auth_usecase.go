package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = apperror.Conflict("email already exists")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrInvalidToken       = apperror.Unauthorized("invalid or expired token")
	ErrTokenRevoked       = apperror.Unauthorized("token has been revoked")
	ErrUserInactive       = apperror.Forbidden("account is inactive")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrUnknownRole        = apperror.New(apperror.KindInternal, "user has an unknown role")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, actor *session.Session, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Authenticate turns a bearer access token into the caller's session.
	Authenticate(ctx context.Context, accessToken string) (*session.Session, error)
	Me(ctx context.Context, actor *session.Session) (*dto.SessionResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	jwtService   *jwt.JWTService
	tokenStore   *service.TokenStore
	auditService service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	jwtService *jwt.JWTService,
	tokenStore *service.TokenStore,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	sess, ok := converter.UserToSession(user, "")
	if !ok {
		u.log.Warnf("User %s has unknown role id %d", user.ID, user.RoleID)
		return nil, ErrUnknownRole
	}

	tokens, err := u.issueTokens(ctx, sess)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogEvent(ctx, u.db, &user.ID, entity.AuditActionUserLogin, map[string]interface{}{
		"email": user.Email,
		"role":  string(sess.Role),
	}); err != nil {
		// Login still succeeds without its audit entry.
		u.log.Warnf("Failed to audit login of %s: %+v", user.ID, err)
	}

	u.log.Infof("User %s logged in as %s", user.ID, sess.Role)
	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, actor *session.Session, refreshToken string) error {
	if actor == nil {
		return ErrNotAuthenticated
	}

	if _, err := u.tokenStore.Revoke(ctx, jwt.AccessToken, actor.UserID, actor.TokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == actor.UserID {
			if _, err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, actor.UserID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to revoke refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogEvent(ctx, u.db, &actor.UserID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout of %s: %+v", actor.UserID, err)
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	// Deleting the key is the check: only one refresh per token can win.
	revoked, err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to revoke old refresh token: %+v", err)
		return nil, err
	}
	if !revoked {
		return nil, ErrTokenRevoked
	}

	// Reload so role changes and deactivation take effect on refresh.
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	sess, ok := converter.UserToSession(user, "")
	if !ok {
		return nil, ErrUnknownRole
	}

	return u.issueTokens(ctx, sess)
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*session.Session, error) {
	claims, err := u.jwtService.ValidateToken(accessToken)
	if err != nil || claims.TokenType != jwt.AccessToken {
		return nil, ErrInvalidToken
	}

	role := session.Role(claims.Role)
	if !role.Valid() {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.AccessToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check access token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	return &session.Session{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    role,
		TokenID: claims.TokenID,
	}, nil
}

func (u *authUsecase) Me(ctx context.Context, actor *session.Session) (*dto.SessionResponse, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	current, ok := converter.UserToSession(user, actor.TokenID)
	if !ok {
		return nil, ErrUnknownRole
	}
	return converter.SessionToResponse(current), nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, sess *session.Session) (*dto.TokenResponse, error) {
	role := string(sess.Role)

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sess.UserID, sess.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sess.UserID, sess.Email, role)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, sess.UserID,
		accessTokenID, u.jwtService.GetAccessExpiry(),
		refreshTokenID, u.jwtService.GetRefreshExpiry(),
	); err != nil {
		u.log.Warnf("Failed to store tokens in Redis: %+v", err)
		return nil, err
	}

	sess.TokenID = accessTokenID
	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
		Session:      converter.SessionToResponse(sess),
	}, nil
}
