package query

import (
	"context"

	"furniture-admin/internal/domain/aggregate"
	"furniture-admin/internal/domain/repository"
)

type fakeOrderSource struct {
	orders      []aggregate.Order
	err         error
	calls       int
	credentials []string
}

func (f *fakeOrderSource) ListOrders(ctx context.Context, credential string) ([]aggregate.Order, error) {
	f.calls++
	f.credentials = append(f.credentials, credential)
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

func (f *fakeOrderSource) GetOrder(ctx context.Context, credential, orderID string) (*aggregate.Order, error) {
	f.calls++
	f.credentials = append(f.credentials, credential)
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID || f.orders[i].OrderID == orderID {
			order := f.orders[i]
			return &order, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (f *fakeOrderSource) UpdateOrderStatus(ctx context.Context, credential, orderID string, status aggregate.OrderStatus) (*aggregate.Order, error) {
	return nil, repository.ErrSourceUnavailable
}

type fakeInvoiceSource struct {
	invoice *repository.Invoice
	err     error
	calls   int
}

func (f *fakeInvoiceSource) GetInvoice(ctx context.Context, credential, orderID string) (*repository.Invoice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.invoice, nil
}
