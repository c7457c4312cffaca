package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// UploadManifest describes the target record for a document upload.
// Exactly one local file is paired with one manifest per call.
type UploadManifest struct {
	Name     string
	Filename string // original filename presented to GLPI
	ItemsID  int
	ItemType string
	Comment  string
}

// Wire shape of the manifest: {"input": {..., "_filename": [name]}}.
type uploadEnvelope struct {
	Input uploadInput `json:"input"`
}

type uploadInput struct {
	Name     string   `json:"name"`
	Filename []string `json:"_filename"`
	ItemsID  int      `json:"items_id"`
	Itemtype string   `json:"itemtype"`
	Comment  string   `json:"comment,omitempty"`
}

// Upload performs a multipart POST pairing the manifest (as the
// uploadManifest JSON string field) with the file's bytes. The file must
// exist and be a regular file; a missing file fails before any network I/O
// with an error wrapping fs.ErrNotExist. The file handle is opened,
// streamed into the request body, and closed within this call.
//
// Content-Type is left to the multipart writer — it carries the boundary.
func (c *Client) Upload(ctx context.Context, endpoint, filePath string, manifest UploadManifest) (json.RawMessage, error) {
	if manifest.Name == "" || manifest.ItemType == "" || manifest.ItemsID == 0 {
		return nil, fmt.Errorf("%w: upload manifest requires name, itemtype, and items_id", ErrValidation)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("glpi: upload file %s: %w", filePath, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrValidation, filePath)
	}

	if manifest.Filename == "" {
		manifest.Filename = filepath.Base(filePath)
	}

	body, contentType, err := buildUploadBody(filePath, manifest)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, http.MethodPost, endpoint, nil, body, contentType)
}

// buildUploadBody assembles the multipart payload in memory so the
// dispatcher's one-shot retry can resend it without reopening the file.
func buildUploadBody(filePath string, manifest UploadManifest) ([]byte, string, error) {
	manifestJSON, err := json.Marshal(uploadEnvelope{Input: uploadInput{
		Name:     manifest.Name,
		Filename: []string{manifest.Filename},
		ItemsID:  manifest.ItemsID,
		Itemtype: manifest.ItemType,
		Comment:  manifest.Comment,
	}})
	if err != nil {
		return nil, "", fmt.Errorf("%w: encoding upload manifest: %v", ErrValidation, err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("glpi: opening upload file %s: %w", filePath, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("uploadManifest", string(manifestJSON)); err != nil {
		return nil, "", fmt.Errorf("glpi: writing upload manifest field: %w", err)
	}

	part, err := w.CreateFormFile("filename[0]", manifest.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("glpi: creating upload file field: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("glpi: reading upload file %s: %w", filePath, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("glpi: finalizing upload body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// IsNotExist reports whether err is a missing-upload-file failure.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
