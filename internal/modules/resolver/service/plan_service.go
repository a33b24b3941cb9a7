package service

import (
	"context"
	"fmt"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
	"certflow/internal/modules/resolver/dto"
	resolverout "certflow/internal/modules/resolver/port/out"
	"certflow/internal/platform/clock"
	apperrors "certflow/internal/platform/errors"
	"certflow/internal/platform/id"
)

// PlanService drives the step resolvers in pipeline order and records the
// outcome.
type PlanService struct {
	base    Options
	planLog resolverout.PlanLog
	clock   clock.Clock
	ids     id.Generator
}

// NewPlanService takes the invocation independent options; run level and
// arguments come with every Plan call. planLog may be nil.
func NewPlanService(base Options, planLog resolverout.PlanLog, clk clock.Clock, ids id.Generator) *PlanService {
	if base.Logger == nil {
		base.Logger = nopLogger{}
	}
	return &PlanService{base: base, planLog: planLog, clock: clk, ids: ids}
}

func RunLevelFor(input dto.PlanInput) domain.RunLevel {
	level := domain.RunLevelInteractive
	if input.Unattended {
		level = domain.RunLevelUnattended
	}
	if input.Advanced && !input.Unattended {
		level |= domain.RunLevelAdvanced
	}
	if input.Test {
		level |= domain.RunLevelTest
	}
	return level
}

func (s *PlanService) resolver(input dto.PlanInput) StepResolver {
	opts := s.base
	opts.RunLevel = RunLevelFor(input)
	opts.Arguments = domain.Arguments{
		Validation:     input.Validation,
		ValidationMode: input.ValidationMode,
		Store:          input.Store,
		Installation:   input.Installation,
	}
	if opts.RunLevel.Has(domain.RunLevelUnattended) {
		return NewUnattendedResolver(opts)
	}
	return NewInteractiveResolver(opts)
}

func (s *PlanService) Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error) {
	target, err := plugindomain.NewTarget(input.TargetName, input.Hosts...)
	if err != nil {
		return dto.PlanOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	r := s.resolver(input)
	level := RunLevelFor(input)
	out := dto.PlanOutput{TargetName: target.Name, RunLevel: level.String()}
	for _, identifier := range target.Identifiers() {
		out.Identifiers = append(out.Identifiers, identifier.Value)
	}
	record := domain.PlanRecord{TargetName: out.TargetName, Identifiers: out.Identifiers, RunLevel: out.RunLevel}

	source, err := r.Target(ctx)
	if err != nil {
		return dto.PlanOutput{}, err
	}
	if source == nil {
		return dto.PlanOutput{}, domain.ErrNoTarget
	}
	out.Selections = append(out.Selections, selection(*source))
	record.Target = source.ID

	single := []struct {
		slot    *string
		resolve func() (*plugindomain.Descriptor, error)
	}{
		{&record.Validation, func() (*plugindomain.Descriptor, error) { return r.Validation(ctx, target) }},
		{&record.Order, func() (*plugindomain.Descriptor, error) { return r.Order(ctx, target) }},
		{&record.Csr, func() (*plugindomain.Descriptor, error) { return r.Csr(ctx) }},
	}
	for _, step := range single {
		d, err := step.resolve()
		if err != nil {
			return dto.PlanOutput{}, err
		}
		if d != nil {
			*step.slot = d.ID
			out.Selections = append(out.Selections, selection(*d))
		}
	}

	limit := len(s.base.Catalog.GetPlugins(plugindomain.StepStore))
	stores, err := chain(s.base.Logger, plugindomain.StepStore, limit, func(chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
		return r.Store(ctx, chosen)
	})
	if err != nil {
		return dto.PlanOutput{}, err
	}
	limit = len(s.base.Catalog.GetPlugins(plugindomain.StepInstallation))
	installs, err := chain(s.base.Logger, plugindomain.StepInstallation, limit, func(chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
		return r.Installation(ctx, stores, chosen)
	})
	if err != nil {
		return dto.PlanOutput{}, err
	}
	for _, d := range stores {
		record.Stores = append(record.Stores, d.ID)
		out.Selections = append(out.Selections, selection(d))
	}
	for _, d := range installs {
		record.Installations = append(record.Installations, d.ID)
		out.Selections = append(out.Selections, selection(d))
	}

	if s.planLog != nil && !level.Has(domain.RunLevelTest) {
		record.ID = s.ids.New()
		record.CreatedAt = s.clock.Now()
		if err := s.planLog.Record(ctx, record); err != nil {
			return dto.PlanOutput{}, fmt.Errorf("record plan: %w", err)
		}
		out.ID = record.ID
	}
	return out, nil
}

func (s *PlanService) History(ctx context.Context, limit int) ([]dto.PlanRecord, error) {
	if s.planLog == nil {
		return []dto.PlanRecord{}, nil
	}
	records, err := s.planLog.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanRecord, 0, len(records))
	for _, r := range records {
		out = append(out, dto.PlanRecord{
			ID:            r.ID,
			CreatedAt:     r.CreatedAt,
			TargetName:    r.TargetName,
			Identifiers:   r.Identifiers,
			RunLevel:      r.RunLevel,
			Target:        r.Target,
			Validation:    r.Validation,
			Order:         r.Order,
			Csr:           r.Csr,
			Stores:        r.Stores,
			Installations: r.Installations,
		})
	}
	return out, nil
}

// chain calls next until it yields nothing, the no-op plugin or a repeat.
// The no-op plugin is never part of the result.
func chain(log resolverout.Logger, step plugindomain.Step, limit int, next func(chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error)) ([]plugindomain.Descriptor, error) {
	chosen := make([]plugindomain.Descriptor, 0)
	for i := 0; i < limit; i++ {
		d, err := next(chosen)
		if err != nil {
			return nil, err
		}
		if d == nil || d.Null {
			break
		}
		if containsID(chosen, d.ID) {
			log.Debug(fmt.Sprintf("%s plugin %s already chosen, ending chain", step, d.Name), "step", string(step))
			break
		}
		chosen = append(chosen, *d)
	}
	return chosen, nil
}

func containsID(items []plugindomain.Descriptor, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func selection(d plugindomain.Descriptor) dto.Selection {
	return dto.Selection{Step: string(d.Step), ID: d.ID, Name: d.Name, Description: d.Description}
}
