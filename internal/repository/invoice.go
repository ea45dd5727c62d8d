package repository

import (
	"context"

	"btrips/internal/domain"
)

// InvoiceRepository defines the append-only store for admin invoice audit
// records. Records are never updated after creation.
type InvoiceRepository interface {
	// Append persists one audit record.
	Append(ctx context.Context, invoice *domain.AdminInvoice) error
}
