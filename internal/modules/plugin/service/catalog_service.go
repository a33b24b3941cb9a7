package service

import (
	"context"
	"fmt"
	"strings"

	"certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/plugin/dto"
	pluginout "certflow/internal/modules/plugin/port/out"
)

// CatalogService merges the registries into one read-only plugin catalog.
// Load must complete before the lookup methods are used.
type CatalogService struct {
	scope      domain.Scope
	registries []pluginout.Registry
	store      pluginout.ManifestStore
	host       pluginout.Host
	entries    []domain.Entry
	loaded     bool
}

func NewCatalogService(scope domain.Scope, store pluginout.ManifestStore, host pluginout.Host, registries ...pluginout.Registry) *CatalogService {
	return &CatalogService{scope: scope, store: store, host: host, registries: registries}
}

func (s *CatalogService) Load(ctx context.Context) error {
	entries := make([]domain.Entry, 0)
	ids := map[string]struct{}{}
	keys := map[string]string{}
	for _, registry := range s.registries {
		items, err := registry.Entries(ctx)
		if err != nil {
			return fmt.Errorf("load plugin registry: %w", err)
		}
		for _, entry := range items {
			d := entry.Descriptor
			if err := d.Validate(); err != nil {
				return err
			}
			if _, ok := ids[d.ID]; ok {
				return fmt.Errorf("%w: id %s", domain.ErrDuplicatePlugin, d.ID)
			}
			ids[d.ID] = struct{}{}
			key := string(d.Step) + "/" + strings.ToLower(d.Name) + "/" + strings.ToLower(d.ChallengeType)
			if other, ok := keys[key]; ok {
				return fmt.Errorf("%w: %s conflicts with %s", domain.ErrDuplicatePlugin, d.ID, other)
			}
			keys[key] = d.ID
			entries = append(entries, entry)
		}
	}
	s.entries = entries
	s.loaded = true
	return nil
}

// GetPlugins returns every descriptor of the step, hidden ones included.
func (s *CatalogService) GetPlugins(step domain.Step) []domain.Descriptor {
	out := make([]domain.Descriptor, 0)
	for _, entry := range s.entries {
		if entry.Descriptor.Step == step {
			out = append(out, entry.Descriptor)
		}
	}
	return out
}

// GetPlugin finds a visible plugin by name; subMode only narrows the match
// for steps that use it.
func (s *CatalogService) GetPlugin(step domain.Step, name string, subMode string) (domain.Descriptor, bool) {
	for _, entry := range s.entries {
		d := entry.Descriptor
		if d.Step != step || d.Hidden {
			continue
		}
		if d.Matches(name, subMode) {
			return d, true
		}
	}
	return domain.Descriptor{}, false
}

func (s *CatalogService) Factory(descriptor domain.Descriptor, scope domain.Scope) domain.Factory {
	for _, entry := range s.entries {
		if entry.Descriptor.ID == descriptor.ID && entry.New != nil {
			return entry.New(scope)
		}
	}
	return domain.DisabledFactory{Reason: "Not found"}
}

func (s *CatalogService) List(ctx context.Context, step string) ([]dto.PluginInfo, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	var filter domain.Step
	if strings.TrimSpace(step) != "" {
		parsed, err := domain.ParseStep(step)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	out := make([]dto.PluginInfo, 0, len(s.entries))
	for _, entry := range s.entries {
		d := entry.Descriptor
		if filter != "" && d.Step != filter {
			continue
		}
		disabled, reason := s.Factory(d, s.scope).Disabled()
		out = append(out, dto.PluginInfo{
			ID:            d.ID,
			Name:          d.Name,
			Step:          string(d.Step),
			Description:   d.Description,
			Order:         d.Order,
			ChallengeType: d.ChallengeType,
			Hidden:        d.Hidden,
			External:      d.External,
			Disabled:      disabled,
			Reason:        reason,
		})
	}
	return out, nil
}

// Doctor reports each external plugin with the reason the catalog would
// disable it, plus a lifecycle check for the ones that start.
func (s *CatalogService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	if s.store == nil {
		return []dto.DoctorResult{}, nil
	}
	return NewExternalRegistry(s.store, s.host).Diagnose(ctx)
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.Load(ctx)
}
