package glpi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Tickets manages GLPI ticket records.
type Tickets struct {
	client *Client
}

// NewTickets returns a ticket manager backed by the given client.
func NewTickets(c *Client) *Tickets {
	return &Tickets{client: c}
}

const ticketEndpoint = "Ticket"

// Create creates a ticket and reads back the stored record. Unset type
// and priority fall back to GLPI defaults (incident, normal priority).
func (m *Tickets) Create(ctx context.Context, in TicketInput) (*Ticket, error) {
	if in.Type == 0 {
		in.Type = 1
	}

	if in.Priority == 0 {
		in.Priority = 3
	}

	raw, err := m.client.Post(ctx, ticketEndpoint, in)
	if err != nil {
		return nil, err
	}

	id, err := firstID(raw)
	if err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Update applies the given fields to an existing ticket and reads back the
// stored record.
func (m *Tickets) Update(ctx context.Context, id int, fields map[string]any) (*Ticket, error) {
	payload := map[string]any{"id": id}
	for k, v := range fields {
		payload[k] = v
	}

	if _, err := m.client.Put(ctx, ticketEndpoint, payload); err != nil {
		return nil, err
	}

	return m.Get(ctx, id)
}

// Get fetches one ticket by id.
func (m *Tickets) Get(ctx context.Context, id int) (*Ticket, error) {
	raw, err := m.client.Get(ctx, ticketEndpoint+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var t Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("glpi: decoding ticket: %w", err)
	}

	return &t, nil
}

// List searches tickets. A zero limit means no client-side cap.
func (m *Tickets) List(ctx context.Context, criteria url.Values, limit int) ([]Ticket, error) {
	raw, err := m.client.Search(ctx, ticketEndpoint, criteria)
	if err != nil {
		return nil, err
	}

	var items []Ticket
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("glpi: decoding ticket list: %w", err)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
