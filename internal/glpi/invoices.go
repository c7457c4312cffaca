package glpi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Invoices manages invoice records. GLPI has no first-class invoice
// itemtype; financial tracking lives under Budget, so that is the endpoint
// used throughout.
type Invoices struct {
	client *Client
}

// NewInvoices returns an invoice manager backed by the given client.
func NewInvoices(c *Client) *Invoices {
	return &Invoices{client: c}
}

const invoiceEndpoint = "Budget"

// Create creates an invoice and reads back the stored record.
func (m *Invoices) Create(ctx context.Context, in InvoiceInput) (*Invoice, error) {
	raw, err := m.client.Post(ctx, invoiceEndpoint, in)
	if err != nil {
		return nil, err
	}

	id, err := firstID(raw)
	if err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Update applies the given fields to an existing invoice and reads back
// the stored record.
func (m *Invoices) Update(ctx context.Context, id int, fields map[string]any) (*Invoice, error) {
	payload := map[string]any{"id": id}
	for k, v := range fields {
		payload[k] = v
	}

	if _, err := m.client.Put(ctx, invoiceEndpoint, payload); err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Get fetches one invoice by id.
func (m *Invoices) Get(ctx context.Context, id int) (*Invoice, error) {
	raw, err := m.client.Get(ctx, invoiceEndpoint+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var inv Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("glpi: decoding invoice: %w", err)
	}

	return &inv, nil
}

// List searches invoices. A zero limit means no client-side cap.
func (m *Invoices) List(ctx context.Context, criteria url.Values, limit int) ([]Invoice, error) {
	raw, err := m.client.Search(ctx, invoiceEndpoint, criteria)
	if err != nil {
		return nil, err
	}

	var items []Invoice
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("glpi: decoding invoice list: %w", err)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
