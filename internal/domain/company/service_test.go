package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/internal/core/apperror"
)

type stubTxManager struct{}

func (stubTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	profile *Profile
}

func (r *memRepo) Get(ctx context.Context) (*Profile, error) {
	if r.profile == nil {
		return nil, apperror.NewNotFound("company_profile", "singleton")
	}
	return r.profile, nil
}

func (r *memRepo) Create(ctx context.Context, p *Profile) error {
	if r.profile != nil {
		return apperror.NewDuplicate("company_profile", "singleton", "")
	}
	r.profile = p
	return nil
}

func (r *memRepo) Update(ctx context.Context, p *Profile) error {
	r.profile = p
	return nil
}

// raceRepo simulates a concurrent first access: by the time our insert runs,
// another request has already created the row, so Create reports a duplicate
// and only a subsequent Get sees the winner.
type raceRepo struct {
	memRepo
}

func (r *raceRepo) Create(ctx context.Context, p *Profile) error {
	winner := DefaultProfile()
	winner.Name = "Winner Pharmacy"
	r.profile = winner
	return apperror.NewDuplicate("company_profile", "singleton", "")
}

func TestGetProfile_CreatesDefaultOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := NewService(repo, stubTxManager{})

	p, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pharmacy", p.Name)
	assert.Same(t, repo.profile, p)

	// Second call returns the stored row
	again, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Same(t, p, again)
}

func TestGetProfile_ConcurrentCreateFallsBackToRead(t *testing.T) {
	ctx := context.Background()
	repo := &raceRepo{}
	svc := NewService(repo, stubTxManager{})

	p, err := svc.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Winner Pharmacy", p.Name)
}

func TestUpdateProfile_Validates(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{profile: DefaultProfile()}
	svc := NewService(repo, stubTxManager{})

	bad := DefaultProfile()
	bad.Name = ""
	err := svc.UpdateProfile(ctx, bad)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
}
