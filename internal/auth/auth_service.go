package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "github.com/dilinamewan/Employee-Directory/internal/auth/errors"
	"github.com/dilinamewan/Employee-Directory/internal/domain"
	"github.com/dilinamewan/Employee-Directory/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const revokedKeyPrefix = "auth:revoked:"

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// Authenticator is the identity capability the HTTP layer depends on.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID string) (UserResponse, error)
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	VerifyToken(ctx context.Context, token string) (domain.Claims, error)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Authenticator
	// SeedAdmin creates the first ADMIN account when none exists yet.
	SeedAdmin(ctx context.Context, email, name, password string) error
}

type Options struct {
	Secret     string
	TTL        time.Duration
	BcryptCost int
	Now        func() time.Time
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if opts.TTL <= 0 {
		opts.TTL = 15 * time.Minute
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		cost:   opts.BcryptCost,
		now:    opts.Now,
		logger: l,
	}
}

func (s *service) SignIn(ctx context.Context, email, password string) (Session, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("sign in lookup failed", zap.Error(err))
			return Session{}, err
		}
		return Session{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Info("sign in rejected", zap.String("user_id", user.ID.String()))
		return Session{}, autherrors.ErrInvalidCredentials
	}

	token, claims, err := s.generateToken(user)
	if err != nil {
		log.Error("sign token failed", zap.Error(err))
		return Session{}, autherrors.ErrTokenGenerationFailed
	}

	log.Info("user signed in", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return Session{
		AccessToken: token,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        toUserResponse(user),
	}, nil
}

// SignOut revokes the token until it would have expired anyway.
func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if errors.Is(err, autherrors.ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 || s.rdb == nil {
		return nil
	}

	if err := s.rdb.Set(ctx, revokedKey(claims.ID), "1", ttl).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("revoke token failed", zap.String("token_id", claims.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) CurrentUser(ctx context.Context, userID string) (UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserResponse{}, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		contextutil.GetLogger(ctx, s.logger).Error("current user lookup failed", zap.Error(err))
		return UserResponse{}, err
	}

	return toUserResponse(u), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = domain.RoleViewer
	}

	user := &User{
		ID:       uuid.New(),
		Email:    normalizeEmail(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Password: string(hashed),
		Role:     role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		log.Error("register user failed", zap.Error(err))
		return UserResponse{}, err
	}

	log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", role))
	return toUserResponse(user), nil
}

func (s *service) VerifyToken(ctx context.Context, token string) (domain.Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Claims{}, err
	}

	if s.rdb != nil {
		n, err := s.rdb.Exists(ctx, revokedKey(claims.ID)).Result()
		if err != nil {
			contextutil.GetLogger(ctx, s.logger).Error("revocation lookup failed", zap.Error(err))
			return domain.Claims{}, err
		}
		if n > 0 {
			return domain.Claims{}, autherrors.ErrTokenRevoked
		}
	}

	return domain.Claims{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *service) SeedAdmin(ctx context.Context, email, name, password string) error {
	if email == "" || password == "" {
		return nil
	}

	n, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	_, err = s.Register(ctx, RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.logger.Info("admin account seeded", zap.String("email", normalizeEmail(email)))
	return nil
}

func (s *service) generateToken(user *User) (string, *tokenClaims, error) {
	now := s.now()
	claims := &tokenClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (s *service) parse(token string) (*tokenClaims, error) {
	if token == "" {
		return nil, autherrors.ErrTokenNotFound
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherrors.ErrTokenExpired
		}
		return nil, autherrors.ErrInvalidToken
	}

	if claims.UserID == "" || claims.ID == "" {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
