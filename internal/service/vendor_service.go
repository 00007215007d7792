package service

import (
	"context"

	"github.com/procurehq/lpoflow/internal/domain"
	"github.com/procurehq/lpoflow/internal/repository"
)

// VendorService is the vendor directory: a flat CRUD surface. Validation
// happens here so invalid input never reaches the store.
type VendorService struct {
	repo repository.VendorRepository
}

func NewVendorService(repo repository.VendorRepository) *VendorService {
	return &VendorService{repo: repo}
}

func (s *VendorService) Create(ctx context.Context, in domain.VendorInput) (*domain.Vendor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *VendorService) Update(ctx context.Context, id string, in domain.VendorInput) (*domain.Vendor, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *VendorService) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VendorService) List(ctx context.Context) ([]domain.Vendor, error) {
	return s.repo.List(ctx)
}

func (s *VendorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
