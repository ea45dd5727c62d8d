package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"btrips/internal/domain"
	"btrips/internal/repository"
)

// InvoiceRepository is a Firestore implementation of
// repository.InvoiceRepository.
type InvoiceRepository struct {
	client *firestore.Client
}

// NewInvoiceRepository creates a new Firestore invoice repository.
func NewInvoiceRepository(client *firestore.Client) *InvoiceRepository {
	return &InvoiceRepository{client: client}
}

// Append persists one audit record under its pre-assigned id.
func (r *InvoiceRepository) Append(ctx context.Context, invoice *domain.AdminInvoice) error {
	doc := r.client.Collection(collInvoices).Doc(invoice.ID)
	if _, err := doc.Create(ctx, invoice); err != nil {
		return fmt.Errorf("append admin invoice: %w", err)
	}
	return nil
}

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)
