package glpi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Contracts manages GLPI contract records. Stateless; every method is a
// single client call (or call pair for create-then-read).
type Contracts struct {
	client *Client
}

// NewContracts returns a contract manager backed by the given client.
func NewContracts(c *Client) *Contracts {
	return &Contracts{client: c}
}

const contractEndpoint = "Contract"

// Create creates a contract and reads back the stored record.
func (m *Contracts) Create(ctx context.Context, in ContractInput) (*Contract, error) {
	raw, err := m.client.Post(ctx, contractEndpoint, in)
	if err != nil {
		return nil, err
	}

	id, err := firstID(raw)
	if err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Update applies the given fields to an existing contract and reads back
// the stored record. Callers pass only the fields they intend to change.
func (m *Contracts) Update(ctx context.Context, id int, fields map[string]any) (*Contract, error) {
	payload := map[string]any{"id": id}
	for k, v := range fields {
		payload[k] = v
	}

	if _, err := m.client.Put(ctx, contractEndpoint, payload); err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Get fetches one contract by id.
func (m *Contracts) Get(ctx context.Context, id int) (*Contract, error) {
	raw, err := m.client.Get(ctx, contractEndpoint+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var c Contract
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("glpi: decoding contract: %w", err)
	}

	return &c, nil
}

// List searches contracts. A zero limit means no client-side cap.
func (m *Contracts) List(ctx context.Context, criteria url.Values, limit int) ([]Contract, error) {
	raw, err := m.client.Search(ctx, contractEndpoint, criteria)
	if err != nil {
		return nil, err
	}

	var items []Contract
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("glpi: decoding contract list: %w", err)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
