package sitepress

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAssetManifestEmitAndResolve(t *testing.T) {
	out := t.TempDir()
	m := NewAssetManifest()
	emit := m.Emit(out)

	if err := emit("assets/images/pic.webp", []byte("payload")); err != nil {
		t.Fatal(err)
	}

	hashed := m.Resolve("assets/images/pic.webp")
	if hashed == "assets/images/pic.webp" {
		t.Fatal("resolve returned the unhashed name")
	}
	if !strings.HasPrefix(hashed, "assets/images/pic.") || !strings.HasSuffix(hashed, ".webp") {
		t.Errorf("hashed name has wrong shape: %s", hashed)
	}

	data, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(hashed)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Error("written asset differs from emitted bytes")
	}
}

func TestAssetManifestHashIsContentDerived(t *testing.T) {
	out := t.TempDir()
	m := NewAssetManifest()
	emit := m.Emit(out)

	if err := emit("a.webp", []byte("one")); err != nil {
		t.Fatal(err)
	}
	first := m.Resolve("a.webp")

	if err := emit("a.webp", []byte("two")); err != nil {
		t.Fatal(err)
	}
	second := m.Resolve("a.webp")

	if first == second {
		t.Error("different content produced the same hashed name")
	}
}

func TestAssetManifestResolveUnknownIsIdentity(t *testing.T) {
	m := NewAssetManifest()
	if got := m.Resolve("never/emitted.png"); got != "never/emitted.png" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestHashedName(t *testing.T) {
	tests := []struct {
		rel, sum, want string
	}{
		{"images/pic.webp", "a1b2c3d4", "images/pic.a1b2c3d4.webp"},
		{"pic.avif", "deadbeef", "pic.deadbeef.avif"},
		{"no-ext", "cafe0123", "no-ext.cafe0123"},
	}
	for _, tt := range tests {
		if got := hashedName(tt.rel, tt.sum); got != tt.want {
			t.Errorf("hashedName(%q, %q) = %q, want %q", tt.rel, tt.sum, got, tt.want)
		}
	}
}
