package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkushnir/library-service-api/internal/users"
	"github.com/dkushnir/library-service-api/pkg/config"
	"github.com/dkushnir/library-service-api/pkg/db"
	"github.com/dkushnir/library-service-api/pkg/db/models"
	pkgerrors "github.com/dkushnir/library-service-api/pkg/errors"
	"github.com/dkushnir/library-service-api/pkg/security"
)

// RegisterService creates new reader accounts.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type registerUserRepo interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerService struct {
	users       registerUserRepo
	passwordCfg config.PasswordConfig
}

// NewRegisterService constructs the public registration service.
func NewRegisterService(repo registerUserRepo, passwordCfg config.PasswordConfig) (RegisterService, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &registerService{users: repo, passwordCfg: passwordCfg}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		// staff accounts are provisioned out of band, never via the public API
		IsStaff: false,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return users.FromModel(user), nil
}
