package glpi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routedGLPI routes domain requests by method+path on top of the session
// handling in fakeGLPI.
func routedGLPI(t *testing.T, routes map[string]string) (*fakeGLPI, *httptest.Server) {
	t.Helper()

	fake := newFakeGLPI(t, func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		okJSON(w, body)
	})

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, srv
}

func TestContracts_CreateReadsBackRecord(t *testing.T) {
	fake, srv := routedGLPI(t, map[string]string{
		"POST /Contract":   `{"id":31}`,
		"GET /Contract/31": `{"id":31,"name":"Hosting SLA","cost":1200.5,"begin_date":"2026-01-01"}`,
	})

	contracts := NewContracts(newTestClient(t, srv.URL))

	got, err := contracts.Create(context.Background(), ContractInput{
		Name:      "Hosting SLA",
		BeginDate: "2026-01-01",
		Cost:      1200.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 31, got.ID)
	assert.Equal(t, "Hosting SLA", got.Name)
	assert.InDelta(t, 1200.5, got.Cost, 0.001)

	posts := fake.byPath("/Contract")
	require.Len(t, posts, 1)
	assert.Contains(t, string(posts[0].Body), `"input"`)
	assert.Contains(t, string(posts[0].Body), `"Hosting SLA"`)
}

func TestContracts_UpdateSendsIDWithFields(t *testing.T) {
	fake, srv := routedGLPI(t, map[string]string{
		"PUT /Contract":   `[{"31":true}]`,
		"GET /Contract/31": `{"id":31,"name":"Hosting SLA","cost":1500}`,
	})

	contracts := NewContracts(newTestClient(t, srv.URL))

	got, err := contracts.Update(context.Background(), 31, map[string]any{"cost": 1500})
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, got.Cost, 0.001)

	puts := fake.byPath("/Contract")
	require.Len(t, puts, 1)

	var envelope struct {
		Input map[string]any `json:"input"`
	}
	require.NoError(t, json.Unmarshal(puts[0].Body, &envelope))
	assert.EqualValues(t, 31, envelope.Input["id"])
	assert.EqualValues(t, 1500, envelope.Input["cost"])
}

func TestContracts_ListAppliesLimit(t *testing.T) {
	_, srv := routedGLPI(t, map[string]string{
		"GET /search/Contract": `{"totalcount":3,"data":[{"id":1},{"id":2},{"id":3}]}`,
	})

	contracts := NewContracts(newTestClient(t, srv.URL))

	got, err := contracts.List(context.Background(), url.Values{}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 2, got[1].ID)
}

func TestInvoices_UseBudgetItemtype(t *testing.T) {
	fake, srv := routedGLPI(t, map[string]string{
		"POST /Budget":   `{"id":7}`,
		"GET /Budget/7":  `{"id":7,"name":"March hosting","value":99.9}`,
	})

	invoices := NewInvoices(newTestClient(t, srv.URL))

	got, err := invoices.Create(context.Background(), InvoiceInput{Name: "March hosting", Value: 99.9})
	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
	assert.InDelta(t, 99.9, got.Value, 0.001)

	assert.Len(t, fake.byPath("/Budget"), 1)
}

func TestTickets_CreateAppliesDefaults(t *testing.T) {
	fake, srv := routedGLPI(t, map[string]string{
		"POST /Ticket":   `{"id":12}`,
		"GET /Ticket/12": `{"id":12,"name":"Printer broken","status":1,"priority":3}`,
	})

	tickets := NewTickets(newTestClient(t, srv.URL))

	got, err := tickets.Create(context.Background(), TicketInput{
		Name:    "Printer broken",
		Content: "The office printer jams on every job.",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, got.ID)

	posts := fake.byPath("/Ticket")
	require.Len(t, posts, 1)

	var envelope struct {
		Input TicketInput `json:"input"`
	}
	require.NoError(t, json.Unmarshal(posts[0].Body, &envelope))
	assert.Equal(t, 1, envelope.Input.Type, "unset type defaults to incident")
	assert.Equal(t, 3, envelope.Input.Priority, "unset priority defaults to normal")
}

func TestTickets_CreateKeepsExplicitValues(t *testing.T) {
	fake, srv := routedGLPI(t, map[string]string{
		"POST /Ticket":   `{"id":13}`,
		"GET /Ticket/13": `{"id":13,"name":"Need a laptop","status":1,"priority":5}`,
	})

	tickets := NewTickets(newTestClient(t, srv.URL))

	_, err := tickets.Create(context.Background(), TicketInput{
		Name:     "Need a laptop",
		Content:  "New hire starting Monday.",
		Type:     2,
		Priority: 5,
	})
	require.NoError(t, err)

	var envelope struct {
		Input TicketInput `json:"input"`
	}
	require.NoError(t, json.Unmarshal(fake.byPath("/Ticket")[0].Body, &envelope))
	assert.Equal(t, 2, envelope.Input.Type)
	assert.Equal(t, 5, envelope.Input.Priority)
}

func TestDocuments_AttachToItem(t *testing.T) {
	path := writeTempFile(t, "sla.pdf", "%PDF-1.4")

	fake, srv := routedGLPI(t, map[string]string{
		"POST /Document": `{"id":88,"message":"Document added"}`,
	})

	docs := NewDocuments(newTestClient(t, srv.URL), nil)

	got, err := docs.AttachToItem(context.Background(), path, 31, "Contract", "", "uploaded by assistant")
	require.NoError(t, err)
	assert.Equal(t, 88, got.ID)
	assert.Equal(t, "sla.pdf", got.Name, "name defaults to the file's base name")
	assert.Equal(t, 31, got.ItemsID)
	assert.Equal(t, "Contract", got.ItemType)

	uploads := fake.byPath("/Document")
	require.Len(t, uploads, 1)
	assert.Contains(t, uploads[0].ContentType, "multipart/form-data")
}

func TestDocuments_ListForItemSkipsUnreadable(t *testing.T) {
	_, srv := routedGLPI(t, map[string]string{
		"GET /Contract/31/Document_Item": `[{"id":1,"documents_id":88},{"id":2,"documents_id":89}]`,
		"GET /Document/88":               `{"id":88,"name":"sla.pdf"}`,
		// Document 89 is intentionally absent: the route map answers 404.
	})

	docs := NewDocuments(newTestClient(t, srv.URL), nil)

	got, err := docs.ListForItem(context.Background(), 31, "Contract")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 88, got[0].ID)
}

func TestDocuments_ListForItemSingleObjectResponse(t *testing.T) {
	_, srv := routedGLPI(t, map[string]string{
		"GET /Ticket/5/Document_Item": `{"id":1,"documents_id":90}`,
		"GET /Document/90":            `{"id":90,"name":"screenshot.png"}`,
	})

	docs := NewDocuments(newTestClient(t, srv.URL), nil)

	got, err := docs.ListForItem(context.Background(), 5, "Ticket")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].ID)
}
