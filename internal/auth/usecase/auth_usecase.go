// Package usecase implements authentication business logic: login for admins
// and resolver users, bearer token validation, and admin provisioning.
package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenbox/internal/auth/domain"
	authService "github.com/allisson/tokenbox/internal/auth/service"
	apperrors "github.com/allisson/tokenbox/internal/errors"
	identityDomain "github.com/allisson/tokenbox/internal/identity/domain"
	policyDomain "github.com/allisson/tokenbox/internal/policy/domain"
	appValidation "github.com/allisson/tokenbox/internal/validation"
)

// LoginInput contains the login credentials. A username with an empty realm
// is first matched against the admin accounts; otherwise it is resolved as a
// realm user.
type LoginInput struct {
	Username string `json:"username"`
	Realm    string `json:"realm"`
	Password string `json:"password"`
}

// LoginOutput contains the issued token.
type LoginOutput struct {
	Token     string             `json:"token"`
	Scope     policyDomain.Scope `json:"role"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// UseCase defines the interface for authentication operations.
type UseCase interface {
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Authenticate(ctx context.Context, tokenHash string) (policyDomain.Actor, error)
	CreateAdmin(ctx context.Context, name, password string) (*authDomain.Admin, error)
}

// AuthRepository interface defines auth persistence operations.
type AuthRepository interface {
	CreateToken(ctx context.Context, token *authDomain.AuthToken) error
	GetTokenByHash(ctx context.Context, tokenHash string) (*authDomain.AuthToken, error)
	DeleteExpiredTokens(ctx context.Context) (int64, error)
	CreateAdmin(ctx context.Context, admin *authDomain.Admin) error
	GetAdminByName(ctx context.Context, name string) (*authDomain.Admin, error)
}

// UserRepository interface defines the identity operations needed for login.
type UserRepository interface {
	GetPasswordHash(ctx context.Context, login, realm string) (string, error)
}

// Resolver resolves login/realm pairs to identities.
type Resolver interface {
	Resolve(ctx context.Context, login, realm string) (*identityDomain.User, error)
}

// AuthUseCase handles authentication business logic.
type AuthUseCase struct {
	authRepo        AuthRepository
	userRepo        UserRepository
	resolver        Resolver
	tokenService    authService.TokenService
	passwordService authService.PasswordService
	tokenExpiration time.Duration
}

// NewAuthUseCase creates a new AuthUseCase.
func NewAuthUseCase(
	authRepo AuthRepository,
	userRepo UserRepository,
	resolver Resolver,
	tokenService authService.TokenService,
	passwordService authService.PasswordService,
	tokenExpiration time.Duration,
) *AuthUseCase {
	return &AuthUseCase{
		authRepo:        authRepo,
		userRepo:        userRepo,
		resolver:        resolver,
		tokenService:    tokenService,
		passwordService: passwordService,
		tokenExpiration: tokenExpiration,
	}
}

func (uc *AuthUseCase) validateLoginInput(input LoginInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Login verifies the credentials and issues a bearer token. Admin accounts
// take precedence when no realm is given; everything else resolves as a
// realm user.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := uc.validateLoginInput(input); err != nil {
		return nil, err
	}

	if input.Realm == "" {
		admin, err := uc.authRepo.GetAdminByName(ctx, input.Username)
		if err == nil {
			return uc.loginAdmin(ctx, admin, input.Password)
		}
		if !apperrors.Is(err, authDomain.ErrAdminNotFound) {
			return nil, err
		}
	}

	return uc.loginUser(ctx, input)
}

func (uc *AuthUseCase) loginAdmin(
	ctx context.Context,
	admin *authDomain.Admin,
	password string,
) (*LoginOutput, error) {
	if !admin.Active || !uc.passwordService.ComparePassword(password, admin.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return uc.issueToken(ctx, policyDomain.ScopeAdmin, nil)
}

func (uc *AuthUseCase) loginUser(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	user, err := uc.resolver.Resolve(ctx, input.Username, input.Realm)
	if err != nil {
		if apperrors.Is(err, identityDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	passwordHash, err := uc.userRepo.GetPasswordHash(ctx, user.Login, user.Realm)
	if err != nil {
		if apperrors.Is(err, identityDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.passwordService.ComparePassword(input.Password, passwordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return uc.issueToken(ctx, policyDomain.ScopeUser, user)
}

func (uc *AuthUseCase) issueToken(
	ctx context.Context,
	scope policyDomain.Scope,
	user *identityDomain.User,
) (*LoginOutput, error) {
	plainToken, tokenHash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	token := &authDomain.AuthToken{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		Scope:     scope,
		ExpiresAt: now.Add(uc.tokenExpiration),
		CreatedAt: now,
	}
	if user != nil {
		token.Login = user.Login
		token.Realm = user.Realm
		token.Resolver = user.Resolver
	}

	if err := uc.authRepo.CreateToken(ctx, token); err != nil {
		return nil, err
	}

	return &LoginOutput{
		Token:     plainToken,
		Scope:     scope,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authenticate resolves a token hash to the acting principal.
func (uc *AuthUseCase) Authenticate(
	ctx context.Context,
	tokenHash string,
) (policyDomain.Actor, error) {
	token, err := uc.authRepo.GetTokenByHash(ctx, tokenHash)
	if err != nil {
		return policyDomain.Actor{}, err
	}
	if token.Expired(time.Now().UTC()) {
		return policyDomain.Actor{}, authDomain.ErrInvalidToken
	}

	if token.Scope == policyDomain.ScopeAdmin {
		return policyDomain.Actor{Scope: policyDomain.ScopeAdmin}, nil
	}

	return policyDomain.Actor{
		Scope: policyDomain.ScopeUser,
		User: &identityDomain.User{
			Login:    token.Login,
			Realm:    token.Realm,
			Resolver: token.Resolver,
		},
	}, nil
}

// CreateAdmin provisions an administrative account. Used by the CLI.
func (uc *AuthUseCase) CreateAdmin(
	ctx context.Context,
	name, password string,
) (*authDomain.Admin, error) {
	err := validation.Validate(name,
		validation.Required.Error("name is required"),
		appValidation.NotBlank,
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}
	err = validation.Validate(password,
		validation.Required.Error("password is required"),
		validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
	)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	passwordHash, err := uc.passwordService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &authDomain.Admin{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         name,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.authRepo.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}
