package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

const userServicePrefix = "/user-service/api"

// UserServiceClient talks to the user service for authentication and
// admin user management.
type UserServiceClient struct {
	base
}

// NewUserServiceClient creates a new UserServiceClient.
func NewUserServiceClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *UserServiceClient {
	return &UserServiceClient{base: newBase(httpClient, baseURL, "user-service", token, cb, cfg)}
}

// Login exchanges credentials for a JWT and the user record.
func (c *UserServiceClient) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "UserServiceClient.Login")
	defer span.End()

	var result domain.LoginResult
	if err := c.send(ctx, http.MethodPost, userServicePrefix+"/v1/auth/login", req, "login", "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangePassword sets a new password for the given account. Used for the
// forced first-login password change.
func (c *UserServiceClient) ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error {
	ctx, span := tracer.Start(ctx, "UserServiceClient.ChangePassword")
	defer span.End()

	return c.send(ctx, http.MethodPost, userServicePrefix+"/v1/auth/change-password", req, "password", "", nil)
}

// ListUsers fetches all user accounts. Admin only upstream.
func (c *UserServiceClient) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserServiceClient.ListUsers")
	defer span.End()

	var users []domain.User
	if err := c.get(ctx, userServicePrefix+"/v1/admin/users", "users", "", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser provisions a new account.
func (c *UserServiceClient) CreateUser(ctx context.Context, req *domain.UserRequest) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserServiceClient.CreateUser")
	defer span.End()

	var user domain.User
	if err := c.send(ctx, http.MethodPost, userServicePrefix+"/v1/admin/users", req, "user", "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser modifies an existing account.
func (c *UserServiceClient) UpdateUser(ctx context.Context, id string, req *domain.UserRequest) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "UserServiceClient.UpdateUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	var user domain.User
	path := fmt.Sprintf("%s/v1/admin/users/%s", userServicePrefix, id)
	if err := c.send(ctx, http.MethodPut, path, req, "user", id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account.
func (c *UserServiceClient) DeleteUser(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "UserServiceClient.DeleteUser")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	path := fmt.Sprintf("%s/v1/admin/users/%s", userServicePrefix, id)
	return c.send(ctx, http.MethodDelete, path, nil, "user", id, nil)
}
