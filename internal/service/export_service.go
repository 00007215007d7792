package service

import (
	"context"
	"fmt"

	"github.com/procurehq/lpoflow/internal/export"
	"github.com/procurehq/lpoflow/internal/repository"
	"github.com/procurehq/lpoflow/internal/storage"
)

// ExportService renders a fully populated LPO and stores the document in
// object storage, returning the object key.
type ExportService struct {
	lpos  repository.LpoRepository
	store storage.ObjectStorage
}

func NewExportService(lpos repository.LpoRepository, store storage.ObjectStorage) *ExportService {
	return &ExportService{lpos: lpos, store: store}
}

// Enabled reports whether an object store is configured.
func (s *ExportService) Enabled() bool {
	return s.store != nil
}

func (s *ExportService) ExportLpo(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", fmt.Errorf("export storage is not configured")
	}

	lpo, err := s.lpos.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	doc, err := export.Render(lpo)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("lpos/%s.txt", lpo.LpoNumber)
	if err := s.store.Put(ctx, key, doc, "text/plain; charset=utf-8"); err != nil {
		return "", err
	}
	return key, nil
}
