package out

import (
	"context"

	"certflow/internal/modules/plugin/domain"
)

// Registry supplies catalog entries. Entries must come back in a stable order.
type Registry interface {
	Entries(ctx context.Context) ([]domain.Entry, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
}
