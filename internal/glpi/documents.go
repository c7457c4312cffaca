package glpi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
)

// Documents manages GLPI document records and their attachment to items.
type Documents struct {
	client *Client
	logger *slog.Logger
}

// NewDocuments returns a document manager backed by the given client.
func NewDocuments(c *Client, logger *slog.Logger) *Documents {
	if logger == nil {
		logger = slog.Default()
	}

	return &Documents{client: c, logger: logger}
}

const documentEndpoint = "Document"

// AttachedDocument is the result of a successful upload-and-attach.
type AttachedDocument struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	ItemsID  int    `json:"items_id"`
	ItemType string `json:"itemtype"`
}

// AttachToItem uploads a local file as a GLPI document attached to the
// given item (Contract, Ticket, Budget, ...). name defaults to the file's
// base name. The upload fails fast if the file does not exist.
func (m *Documents) AttachToItem(ctx context.Context, filePath string, itemID int, itemType, name, comment string) (*AttachedDocument, error) {
	filename := filepath.Base(filePath)
	if name == "" {
		name = filename
	}

	m.logger.Info("uploading document",
		slog.String("name", name),
		slog.String("itemtype", itemType),
		slog.Int("items_id", itemID),
	)

	raw, err := m.client.Upload(ctx, documentEndpoint, filePath, UploadManifest{
		Name:     name,
		Filename: filename,
		ItemsID:  itemID,
		ItemType: itemType,
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}

	id, err := firstID(raw)
	if err != nil {
		return nil, fmt.Errorf("glpi: upload response: %w", err)
	}

	m.logger.Info("document uploaded", slog.Int("id", id))

	return &AttachedDocument{
		ID:       id,
		Name:     name,
		Filename: filename,
		ItemsID:  itemID,
		ItemType: itemType,
	}, nil
}

// Get fetches one document record by id.
func (m *Documents) Get(ctx context.Context, id int) (*Document, error) {
	raw, err := m.client.Get(ctx, documentEndpoint+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}

	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("glpi: decoding document: %w", err)
	}

	return &d, nil
}

// Delete removes a document record.
func (m *Documents) Delete(ctx context.Context, id int) error {
	return m.client.Delete(ctx, documentEndpoint+"/"+strconv.Itoa(id))
}

// documentLink is one row of an item's Document_Item association list.
type documentLink struct {
	DocumentsID int `json:"documents_id"`
}

// ListForItem returns the documents attached to an item. A document that
// can no longer be read is skipped so one broken link doesn't hide the
// rest.
func (m *Documents) ListForItem(ctx context.Context, itemID int, itemType string) ([]Document, error) {
	endpoint := fmt.Sprintf("%s/%d/Document_Item", itemType, itemID)

	raw, err := m.client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var links []documentLink
	if err := json.Unmarshal(raw, &links); err != nil {
		// A single association comes back as an object, not an array.
		var single documentLink
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("glpi: decoding document links: %w", err)
		}

		links = []documentLink{single}
	}

	docs := make([]Document, 0, len(links))

	for _, link := range links {
		if link.DocumentsID == 0 {
			continue
		}

		doc, err := m.Get(ctx, link.DocumentsID)
		if err != nil {
			m.logger.Warn("skipping unreadable document",
				slog.Int("documents_id", link.DocumentsID),
				slog.String("error", err.Error()),
			)

			continue
		}

		docs = append(docs, *doc)
	}

	return docs, nil
}
