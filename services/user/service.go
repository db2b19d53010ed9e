package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventhub/pkg/errutil"
	"eventhub/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the credential authority: it owns principals and session
// tokens. Everything else in the platform only reads roles and the active
// flag through it.
type Service struct {
	users  repository.Repository[User]
	tokens TokenStore
	node   *snowflake.Node
	logger *zap.Logger
}

type ServiceParams struct {
	fx.In

	Users  repository.Repository[User]
	Tokens TokenStore
	Node   *snowflake.Node
	Logger *zap.Logger
}

func NewService(p ServiceParams) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  p.Users,
		tokens: p.Tokens,
		node:   p.Node,
		logger: logger,
	}
}

type CreateUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, errutil.BadRequest("username is required", nil)
	}
	if req.Password == "" {
		return nil, errutil.BadRequest("password is required", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, errutil.Internal("failed to hash password", err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}

	now := time.Now().UTC()
	record := &User{
		ID:           s.node.Generate().String(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Roles:        datatypes.NewJSONSlice(roles),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errutil.Conflict("username already taken", err)
		}
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, errutil.Internal("failed to create user", err)
	}

	return record, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, errutil.InvalidID("malformed user id", err)
	}

	record, err := s.users.FindOne(ctx, &User{ID: id})
	if err != nil {
		s.logger.Error("failed to find user", zap.String("user_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to find user", err)
	}
	if record == nil {
		return nil, errutil.NotFound("user not found", nil)
	}

	return record, nil
}

func (s *Service) UpdateRoles(ctx context.Context, id string, roles []string) (*User, error) {
	record, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, record.ID, map[string]any{
		"roles":      datatypes.NewJSONSlice(roles),
		"updated_at": time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to update roles", zap.String("user_id", id), zap.Error(err))
		return nil, errutil.Internal("failed to update roles", err)
	}

	return s.FindByID(ctx, id)
}

// GetRoles reads the stored role set for a principal. Used by the
// permission engine and the VIP condition validator.
func (s *Service) GetRoles(ctx context.Context, userID string) ([]string, error) {
	record, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return record.Roles, nil
}

type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	record, err := s.users.FindOne(ctx, &User{Username: username})
	if err != nil {
		s.logger.Error("failed to look up user", zap.String("username", username), zap.Error(err))
		return nil, errutil.Internal("failed to look up user", err)
	}
	if record == nil || !record.IsActive {
		return nil, errutil.Unauthorized("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, errutil.Unauthorized("invalid credentials", nil)
	}

	token, err := newToken()
	if err != nil {
		s.logger.Error("failed to mint token", zap.Error(err))
		return nil, errutil.Internal("failed to mint token", err)
	}

	if err := s.tokens.Save(ctx, token, record.ID); err != nil {
		s.logger.Error("failed to store token", zap.Error(err))
		return nil, errutil.Internal("failed to store token", err)
	}

	return &Session{Token: token, User: record}, nil
}

func (s *Service) VerifyToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, errutil.Unauthorized("missing token", nil)
	}

	userID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		s.logger.Error("failed to resolve token", zap.Error(err))
		return nil, errutil.Internal("failed to resolve token", err)
	}
	if userID == "" {
		return nil, errutil.Unauthorized("invalid or expired token", nil)
	}

	record, err := s.users.FindOne(ctx, &User{ID: userID})
	if err != nil {
		s.logger.Error("failed to load token user", zap.String("user_id", userID), zap.Error(err))
		return nil, errutil.Internal("failed to load token user", err)
	}
	if record == nil || !record.IsActive {
		return nil, errutil.Unauthorized("invalid or expired token", nil)
	}

	return record, nil
}
