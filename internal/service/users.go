package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var usersTracer = otel.Tracer("service/users")

// Users proxies authentication and admin account management to the user
// service. Passwords pass through; nothing is stored or verified here.
type Users struct {
	store  port.UserStore
	logger *zap.Logger
}

// NewUsers creates the users service.
func NewUsers(store port.UserStore, logger *zap.Logger) *Users {
	return &Users{store: store, logger: logger}
}

// Login exchanges credentials for a token and the account record. The
// MustChangePassword flag on the result forces the password-change flow
// before anything else.
func (s *Users) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Login")
	defer span.End()

	if req.Email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "email and password are required"}
	}

	result, err := s.store.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login",
		zap.String("user_id", result.User.ID),
		zap.String("role", string(result.User.Role)),
		zap.Bool("must_change_password", result.User.MustChangePassword),
	)
	return result, nil
}

// ChangePassword sets a new password for the account.
func (s *Users) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	ctx, span := usersTracer.Start(ctx, "Users.ChangePassword")
	defer span.End()

	if len(req.NewPassword) < 8 {
		return &domain.ErrValidation{Field: "newPassword", Message: "password must be at least 8 characters"}
	}
	return s.store.ChangePassword(ctx, req)
}

// List returns all accounts.
func (s *Users) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.List")
	defer span.End()

	return s.store.ListUsers(ctx)
}

// Create provisions an account after validating the closed role set.
func (s *Users) Create(ctx context.Context, req *domain.UserRequest) (*domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Create")
	defer span.End()

	if err := validateUserRequest(req); err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user created",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// Update modifies an account.
func (s *Users) Update(ctx context.Context, id string, req *domain.UserRequest) (*domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if err := validateUserRequest(req); err != nil {
		return nil, err
	}
	return s.store.UpdateUser(ctx, id, req)
}

// Delete removes an account. A caller cannot delete itself; locking the
// last admin out is the one mistake this proxy refuses to relay.
func (s *Users) Delete(ctx context.Context, id, callerID string) error {
	ctx, span := usersTracer.Start(ctx, "Users.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if id == callerID {
		return &domain.ErrConflict{Message: "cannot delete your own account"}
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func validateUserRequest(req *domain.UserRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return &domain.ErrValidation{Field: "email", Message: "email is required"}
	}
	if _, ok := domain.ParseRole(string(req.Role)); !ok {
		return &domain.ErrValidation{Field: "role", Message: fmt.Sprintf("unknown role %q", req.Role)}
	}
	return nil
}
