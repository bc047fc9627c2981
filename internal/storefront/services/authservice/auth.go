package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/softcart/storefront_control/internal/pkg/apperrors"
	"github.com/softcart/storefront_control/internal/pkg/config"
	"github.com/softcart/storefront_control/internal/pkg/jwtauth"
	"github.com/softcart/storefront_control/internal/storefront/domain/models"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo Repository
	cfg      config.Auth
}

var ErrNotAllowed = errors.New("only admins can create staff accounts")

type Repository interface {
	CreateUser(context.Context, models.User) error
	GetUser(context.Context, string) (models.User, error)
}

func New(userRepo Repository, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (string, error) {
	req.Username = strings.TrimSpace(req.Username)

	var msgs []string

	if req.Username == "" {
		msgs = append(msgs, "username must not be empty")
	}

	if req.Password == "" {
		msgs = append(msgs, "password must not be empty")
	}

	if req.Role != models.RoleAdmin && req.Role != models.RoleManager && req.Role != models.RoleCustomer {
		msgs = append(msgs, "role must be admin, manager or customer")
	}

	if len(msgs) != 0 {
		return "", apperrors.NewValidation(msgs)
	}

	if req.Role == models.RoleAdmin || req.Role == models.RoleManager { // staff accounts need an admin
		p, err := as.Auth(req.Token)
		if err != nil {
			return "", fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
		}

		if p.Role != models.RoleAdmin {
			return "", fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrNotAllowed)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate from password error: %w", err)
	}

	var u models.User

	u.Username = req.Username
	u.PasswordHash = string(hash)
	u.Role = req.Role

	err = as.userRepo.CreateUser(ctx, u)
	if err != nil {
		return "", fmt.Errorf("create user error: %w", err)
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) Auth(token string) (models.Principal, error) {
	p, err := jwtauth.ValidateToken(token, as.cfg.Secret)
	if err != nil {
		return models.Principal{}, fmt.Errorf("validate token error: %w", err)
	}

	return p, nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUser(ctx, username)
	if err != nil {
		return "", fmt.Errorf("get user error: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return "", fmt.Errorf("compare password error: %w", err)
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}
