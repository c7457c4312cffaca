// Package folders enforces the allowed-roots policy for local file access.
// Tools may only read files under the configured roots and only with
// allowed extensions; everything else is denied with a stable error code
// the assistant can act on.
package folders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Error codes surfaced to the assistant alongside denials.
const (
	CodeMalformedFile       = 100
	CodePromptInjection     = 101
	CodeExtensionNotAllowed = 102
	CodePathDenied          = 103
	CodePathMissing         = 104
)

var (
	// ErrPathDenied marks access to a path outside the allowed roots.
	ErrPathDenied = errors.New("folders: path not allowed")
	// ErrPathMissing marks a path that does not exist or is not a directory.
	ErrPathMissing = errors.New("folders: path does not exist")
	// ErrExtensionNotAllowed marks a file with a disallowed extension.
	ErrExtensionNotAllowed = errors.New("folders: extension not allowed")
)

// ErrorCode maps a policy error to its stable code, or 0 for other errors.
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrPathDenied):
		return CodePathDenied
	case errors.Is(err, ErrPathMissing):
		return CodePathMissing
	case errors.Is(err, ErrExtensionNotAllowed):
		return CodeExtensionNotAllowed
	default:
		return 0
	}
}

// Policy is the immutable allowed-roots access policy. Construct once at
// startup from configuration.
type Policy struct {
	roots       []string
	allowedExts map[string]bool
}

// NewPolicy builds a policy from root directories and an extension
// allow-list (extensions without leading dot, case-insensitive).
func NewPolicy(roots, extensions []string) *Policy {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		cleaned = append(cleaned, filepath.Clean(r))
	}

	return &Policy{roots: cleaned, allowedExts: exts}
}

// Roots returns the configured allowed root directories.
func (p *Policy) Roots() []string {
	out := make([]string, len(p.roots))
	copy(out, p.roots)

	return out
}

// IsAllowed reports whether path lies under one of the allowed roots.
func (p *Policy) IsAllowed(path string) bool {
	cleaned := filepath.Clean(path)

	for _, root := range p.roots {
		if cleaned == root || strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// ExtensionAllowed reports whether the file's extension is on the allow-list.
func (p *Policy) ExtensionAllowed(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return p.allowedExts[ext]
}

// CheckFile validates a single file against the policy: inside an allowed
// root, existing, and with an allowed extension.
func (p *Policy) CheckFile(path string) error {
	if !p.IsAllowed(path) {
		return fmt.Errorf("%w: %s", ErrPathDenied, path)
	}

	if !p.ExtensionAllowed(path) {
		return fmt.Errorf("%w: %s", ErrExtensionNotAllowed, path)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrPathMissing, path)
	}

	return nil
}

// ListAllowed lists files with allowed extensions directly under path, or
// under every allowed root when path is empty. The path must itself be
// allowed.
func (p *Policy) ListAllowed(path string) ([]string, error) {
	var toScan []string

	if path != "" {
		if !p.IsAllowed(path) {
			return nil, fmt.Errorf("%w: %s", ErrPathDenied, path)
		}

		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrPathMissing, path)
		}

		toScan = []string{path}
	} else {
		toScan = p.roots
	}

	var files []string

	for _, dir := range toScan {
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Missing or unreadable roots are skipped, not fatal —
			// the other roots are still listable.
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			full := filepath.Join(dir, entry.Name())
			if p.ExtensionAllowed(full) {
				abs, err := filepath.Abs(full)
				if err != nil {
					abs = full
				}

				files = append(files, abs)
			}
		}
	}

	return files, nil
}
