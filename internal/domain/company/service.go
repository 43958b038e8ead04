package company

import (
	"context"

	"pharmapos/internal/core/apperror"
	"pharmapos/internal/core/tx"
	"pharmapos/pkg/logger"
)

// Service provides access to the company profile.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new company profile service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// GetProfile returns the company profile, creating a default one on first
// call. Receipt projection and checkout both rely on this never failing
// with NOT_FOUND.
func (s *Service) GetProfile(ctx context.Context) (*Profile, error) {
	p, err := s.repo.Get(ctx)
	if err == nil {
		return p, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	p = DefaultProfile()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		// Another request may have created the row between our read and
		// this insert. The failed insert aborted its transaction, so the
		// re-read has to run as a fresh statement outside of it.
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			return s.repo.Get(ctx)
		}
		return nil, err
	}

	logger.Info(ctx, "company profile initialized", "name", p.Name)
	return p, nil
}

// UpdateProfile validates and persists profile edits.
func (s *Service) UpdateProfile(ctx context.Context, p *Profile) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}
