package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campusevents/internal/domain"
)

var (
	userIDRegexp = regexp.MustCompile(`^U[0-9]{3}$`)
	emailRegexp  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const minPasswordLength = 8

type authService struct {
	userRepo       domain.UserRepository
	credentialRepo domain.CredentialRepository
	departmentRepo domain.DepartmentRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService creates the signup/login service.
func NewAuthService(
	userRepo domain.UserRepository,
	credentialRepo domain.CredentialRepository,
	departmentRepo domain.DepartmentRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		departmentRepo: departmentRepo,
		hasher:         hasher,
		tokens:         tokens,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, userID, email, password, department, accountType string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	department = strings.TrimSpace(department)
	accountType = strings.TrimSpace(accountType)

	if !userIDRegexp.MatchString(userID) {
		return nil, fmt.Errorf("%w: user id must match U followed by three digits", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	switch accountType {
	case "":
		accountType = domain.AccountTypeAttendee
	case domain.AccountTypeAttendee, domain.AccountTypeHost, domain.AccountTypeAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", domain.ErrInvalidInput, accountType)
	}

	if _, err := s.departmentRepo.GetByName(ctx, department); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnknownDepartment
		}
		return nil, fmt.Errorf("get department: %w", err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(userID, email, department, s.now().UTC())
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) || errors.Is(err, domain.ErrUnknownDepartment) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	cred := &domain.Credential{
		UserID:       userID,
		PasswordHash: hash,
		Salt:         salt,
		AccountType:  accountType,
	}
	if err := s.credentialRepo.Create(ctx, cred); err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, userID, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	cred, err := s.credentialRepo.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("get credential: %w", err)
	}

	if err := s.hasher.Compare(cred.PasswordHash, cred.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred.UserID, cred.AccountType, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	cred, err := s.credentialRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get credential: %w", err)
	}

	return &domain.Profile{User: user, AccountType: cred.AccountType}, nil
}
