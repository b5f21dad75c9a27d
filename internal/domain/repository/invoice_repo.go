package repository

import "context"

// Invoice is a rendered order invoice as served by the store backend
type Invoice struct {
	Content     []byte
	ContentType string
}

// InvoiceSource fetches rendered invoices on behalf of an admin
type InvoiceSource interface {
	GetInvoice(ctx context.Context, credential, orderID string) (*Invoice, error)
}
