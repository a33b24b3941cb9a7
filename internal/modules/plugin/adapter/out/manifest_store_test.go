package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pluginout "certflow/internal/modules/plugin/adapter/out"
	"certflow/internal/modules/plugin/domain"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	store := pluginout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `
- name: reference
  version: 1.0.0
  binary: bin/reference-plugin
  sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
  enabled: true
  step: validation
  challenge_type: dns-01
  capabilities: [wildcard]
`
	if err := os.WriteFile(filepath.Join(base, "plugins.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.yaml: %v", err)
	}
	store := pluginout.NewFileManifestStore(base)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if !filepath.IsAbs(manifests[0].Binary) {
		t.Fatalf("expected absolute binary path, got %s", manifests[0].Binary)
	}
	if manifests[0].Step != domain.StepValidation || !manifests[0].HasCapability(domain.CapabilityWildcard) {
		t.Fatalf("unexpected manifest: %+v", manifests[0])
	}
}

func TestFileManifestStoreEmptyFile(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, "plugins.yaml"), nil, 0o644); err != nil {
		t.Fatalf("write plugins.yaml: %v", err)
	}
	manifests, err := pluginout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `
- name: reference
  version: 1.0.0
  binary: /tmp/reference-plugin
  sha256: aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
  enabled: true
  step: csr
  unknown_field: true
`
	if err := os.WriteFile(filepath.Join(base, "plugins.yaml"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.yaml: %v", err)
	}
	store := pluginout.NewFileManifestStore(base)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
