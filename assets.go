package sitepress

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/eringen/sitepress/images"
)

// AssetManifest maps output-relative asset names to their content-hashed
// filenames. Production builds emit every delivered image through it; pages
// assembled afterwards resolve references against it.
type AssetManifest struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewAssetManifest returns an empty manifest. Resolve on an empty manifest
// is the identity, which is exactly the dev-mode behavior.
func NewAssetManifest() *AssetManifest {
	return &AssetManifest{entries: map[string]string{}}
}

// Emit returns the bundler hook for a production build: content-hash the
// asset, write it under outputDir, and record the mapping.
func (m *AssetManifest) Emit(outputDir string) images.EmitFunc {
	return func(rel string, data []byte) error {
		sum := sha256.Sum256(data)
		hashed := hashedName(rel, hex.EncodeToString(sum[:])[:8])
		dst := filepath.Join(outputDir, filepath.FromSlash(hashed))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return fmt.Errorf("write asset %s: %w", hashed, err)
		}
		m.mu.Lock()
		m.entries[rel] = hashed
		m.mu.Unlock()
		return nil
	}
}

// Resolve returns the hashed name for rel, or rel itself when unhashed.
func (m *AssetManifest) Resolve(rel string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hashed, ok := m.entries[rel]; ok {
		return hashed
	}
	return rel
}

// WriteJSON dumps the manifest next to the build output for downstream
// tooling.
func (m *AssetManifest) WriteJSON(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// hashedName inserts the content hash before the extension:
// images/pic.webp -> images/pic.a1b2c3d4.webp.
func hashedName(rel, sum string) string {
	ext := path.Ext(rel)
	return strings.TrimSuffix(rel, ext) + "." + sum + ext
}
