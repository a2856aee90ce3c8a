package services

import (
	"context"
	"errors"
	"fmt"

	"campusevents/internal/domain"
)

type accessPolicy struct {
	credentialRepo domain.CredentialRepository
}

// NewAccessPolicy returns an AccessPolicy backed by the credential store.
func NewAccessPolicy(credentialRepo domain.CredentialRepository) domain.AccessPolicy {
	return &accessPolicy{credentialRepo: credentialRepo}
}

func (p *accessPolicy) RequireHost(ctx context.Context, userID string) error {
	cred, err := p.credentialRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("get credential: %w", err)
	}
	switch cred.AccountType {
	case domain.AccountTypeHost, domain.AccountTypeAdmin:
		return nil
	}
	return domain.ErrForbidden
}
