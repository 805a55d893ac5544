package partner

import (
	"context"

	"github.com/google/uuid"
)

// SupplierRepository manages supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}
