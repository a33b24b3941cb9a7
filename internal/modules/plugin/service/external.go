package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/plugin/dto"
	pluginout "certflow/internal/modules/plugin/port/out"
)

// ExternalRegistry turns plugins.yaml manifests into catalog entries. Every
// manifest is listed; problems found while loading make the plugin disabled.
type ExternalRegistry struct {
	store pluginout.ManifestStore
	host  pluginout.Host
}

func NewExternalRegistry(store pluginout.ManifestStore, host pluginout.Host) *ExternalRegistry {
	return &ExternalRegistry{store: store, host: host}
}

func (r *ExternalRegistry) Entries(ctx context.Context) ([]domain.Entry, error) {
	manifests, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.Entry, 0, len(manifests))
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, fmt.Errorf("plugin manifest %q: %w", manifest.Name, err)
		}
		check := r.inspect(ctx, manifest)
		entries = append(entries, domain.Entry{
			Descriptor: check.manifest.Descriptor(),
			New:        externalFactoryFunc(check.manifest, check.reason),
		})
	}
	return entries, nil
}

// Diagnose runs the checks Entries runs and reports them per manifest.
// Reason is the text the catalog shows when it disables the plugin.
func (r *ExternalRegistry) Diagnose(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, manifest := range manifests {
		result := dto.DoctorResult{Name: manifest.Name, Step: string(manifest.Step)}
		if err := manifest.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		check := r.inspect(ctx, manifest)
		result.BinaryReachable = check.binaryOK
		result.ChecksumValid = check.checksumOK
		result.Reason = check.reason
		if check.started {
			if err := r.host.CheckLifecycle(ctx, manifest); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

type inspection struct {
	manifest   domain.Manifest
	binaryOK   bool
	checksumOK bool
	started    bool
	reason     string
}

func (r *ExternalRegistry) inspect(ctx context.Context, manifest domain.Manifest) inspection {
	check := inspection{manifest: manifest, binaryOK: fileExists(manifest.Binary)}
	if check.binaryOK {
		check.checksumOK = checksumMatches(manifest.Binary, manifest.SHA256) == nil
	}
	switch {
	case !manifest.Enabled:
		check.reason = "Disabled in plugins.yaml."
	case !check.binaryOK:
		check.reason = fmt.Sprintf("Plugin binary %s not found.", manifest.Binary)
	case !check.checksumOK:
		check.reason = fmt.Sprintf("Checksum mismatch for %s.", filepath.Base(manifest.Binary))
	case r.host != nil:
		meta, err := r.host.GetMetadata(ctx, manifest)
		if err != nil {
			check.reason = fmt.Sprintf("Plugin did not start: %v", err)
			break
		}
		check.started = true
		check.manifest, check.reason = mergeMetadata(manifest, meta)
	}
	return check
}

func mergeMetadata(manifest domain.Manifest, meta domain.Metadata) (domain.Manifest, string) {
	if meta.Step != "" && meta.Step != manifest.Step {
		return manifest, fmt.Sprintf("Plugin reports step %s but is registered for %s.", meta.Step, manifest.Step)
	}
	if meta.Description != "" {
		manifest.Description = meta.Description
	}
	if meta.Order != 0 {
		manifest.Order = meta.Order
	}
	if meta.ChallengeType != "" && manifest.Step == domain.StepValidation {
		manifest.ChallengeType = meta.ChallengeType
	}
	for _, capability := range meta.Capabilities {
		if capability.Validate() == nil && !manifest.HasCapability(capability) {
			manifest.Capabilities = append(manifest.Capabilities, capability)
		}
	}
	return manifest, ""
}

type externalFactory struct {
	manifest domain.Manifest
	reason   string
}

func externalFactoryFunc(manifest domain.Manifest, reason string) domain.FactoryFunc {
	return func(domain.Scope) domain.Factory {
		return externalFactory{manifest: manifest, reason: reason}
	}
}

func (f externalFactory) Disabled() (bool, string) {
	return f.reason != "", f.reason
}

func (f externalFactory) CanValidate(target domain.Target) bool {
	return !target.HasWildcard() || f.manifest.HasCapability(domain.CapabilityWildcard)
}

func (f externalFactory) CanProcess(target domain.Target) bool {
	return len(target.Identifiers()) <= 1 || f.manifest.HasCapability(domain.CapabilityMultiIdentifier)
}

func (f externalFactory) CanInstall([]string, []string) (bool, string) {
	return true, ""
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
