package service

import (
	"context"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
)

// StepResolver picks one plugin per pipeline step. A nil descriptor with a
// nil error means the step has nothing to run.
type StepResolver interface {
	Target(ctx context.Context) (*plugindomain.Descriptor, error)
	Validation(ctx context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error)
	Order(ctx context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error)
	Csr(ctx context.Context) (*plugindomain.Descriptor, error)
	Store(ctx context.Context, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error)
	Installation(ctx context.Context, stores []plugindomain.Descriptor, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error)
}

type Options struct {
	Catalog   resolverout.Catalog
	Console   resolverout.Console
	Logger    resolverout.Logger
	Scope     plugindomain.Scope
	RunLevel  domain.RunLevel
	Defaults  domain.Defaults
	Arguments domain.Arguments
}

// UnattendedResolver resolves every step from arguments, settings and the
// built-in defaults without asking anything.
type UnattendedResolver struct {
	core      stepCore
	defaults  domain.Defaults
	arguments domain.Arguments
}

func NewUnattendedResolver(opts Options) *UnattendedResolver {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &UnattendedResolver{
		core: stepCore{
			catalog:  opts.Catalog,
			console:  opts.Console,
			log:      logger,
			scope:    opts.Scope,
			runLevel: opts.RunLevel,
		},
		defaults:  opts.Defaults,
		arguments: opts.Arguments,
	}
}

func (r *UnattendedResolver) Target(_ context.Context) (*plugindomain.Descriptor, error) {
	return r.pick(plugindomain.StepTarget, "source", r.defaults.Source, "", plugindomain.RunnerTargetIIS, nil), nil
}

func (r *UnattendedResolver) Validation(_ context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error) {
	name, mode := r.validationOverride()
	return r.pick(plugindomain.StepValidation, "validation", name, mode, plugindomain.RunnerValidationSelfHosting, canValidate(target)), nil
}

func (r *UnattendedResolver) Order(_ context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error) {
	if r.defaults.Order != "" {
		if d := r.pick(plugindomain.StepOrder, "order", r.defaults.Order, "", plugindomain.RunnerOrderSingle, canProcess(target)); d != nil {
			return d, nil
		}
	}
	return r.pick(plugindomain.StepOrder, "order", "", "", plugindomain.RunnerOrderSingle, nil), nil
}

func (r *UnattendedResolver) Csr(_ context.Context) (*plugindomain.Descriptor, error) {
	return r.pick(plugindomain.StepCsr, "csr", r.defaults.Csr, "", plugindomain.RunnerCsrRsa, nil), nil
}

func (r *UnattendedResolver) Store(_ context.Context, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
	entry := domain.ChainOverride(r.storeList(), len(chosen))
	if entry == "" {
		if len(chosen) > 0 {
			return nil, nil
		}
		return r.pick(plugindomain.StepStore, "store", "", "", plugindomain.RunnerStoreCertificateStore, nil), nil
	}
	return r.pick(plugindomain.StepStore, "store", entry, "", "", nil), nil
}

func (r *UnattendedResolver) Installation(_ context.Context, stores []plugindomain.Descriptor, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
	entry := domain.ChainOverride(r.installationList(), len(chosen))
	if entry == "" {
		return nil, nil
	}
	return r.pick(plugindomain.StepInstallation, "installation", entry, "", "", canInstall(stores, chosen)), nil
}

func (r *UnattendedResolver) validationOverride() (string, string) {
	name := domain.FirstNonBlank(r.arguments.Validation, r.defaults.Validation)
	mode := domain.FirstNonBlank(r.arguments.ValidationMode, r.defaults.ValidationMode, plugindomain.ChallengeHTTP01)
	return name, mode
}

func (r *UnattendedResolver) storeList() string {
	return domain.FirstNonBlank(r.arguments.Store, r.defaults.Store)
}

func (r *UnattendedResolver) installationList() string {
	return domain.FirstNonBlank(r.arguments.Installation, r.defaults.Installation)
}

// pick resolves a named plugin, or the default runner when name is empty.
// Anything missing or unusable resolves to nil with a logged error.
func (r *UnattendedResolver) pick(step plugindomain.Step, className, name, subMode, defaultID string, dynamic func(plugindomain.FactoryContext) domain.Verdict) *plugindomain.Descriptor {
	var d plugindomain.Descriptor
	var ok bool
	if name != "" {
		d, ok = r.core.catalog.GetPlugin(step, name, subMode)
	} else {
		d, ok = r.byID(step, defaultID)
		name = defaultID
	}
	if !ok {
		r.core.errorNotFound(className, name)
		return nil
	}
	fc := plugindomain.NewFactoryContext(d, r.core.catalog.Factory(d, r.core.scope))
	if verdict := usability(fc, dynamic); verdict.Unusable {
		r.core.log.Error(titleCase(className)+" plugin "+d.Name+" not available: "+verdict.Reason, "step", className)
		return nil
	}
	return &d
}

func (r *UnattendedResolver) byID(step plugindomain.Step, id string) (plugindomain.Descriptor, bool) {
	for _, d := range r.core.catalog.GetPlugins(step) {
		if d.ID == id {
			return d, true
		}
	}
	return plugindomain.Descriptor{}, false
}

const reasonUnsupportedTarget = "Unsupported target. Most likely this is because you have included a wildcard identifier (*.example.com), which requires DNS validation."

func canValidate(target plugindomain.Target) func(plugindomain.FactoryContext) domain.Verdict {
	return func(c plugindomain.FactoryContext) domain.Verdict {
		if v, ok := c.Factory.(plugindomain.Validator); ok && !v.CanValidate(target) {
			return domain.Verdict{Unusable: true, Reason: reasonUnsupportedTarget}
		}
		return domain.Verdict{}
	}
}

func canProcess(target plugindomain.Target) func(plugindomain.FactoryContext) domain.Verdict {
	return func(c plugindomain.FactoryContext) domain.Verdict {
		if s, ok := c.Factory.(plugindomain.Splitter); ok && !s.CanProcess(target) {
			return domain.Verdict{Unusable: true, Reason: "Unsupported source."}
		}
		return domain.Verdict{}
	}
}

func canInstall(stores []plugindomain.Descriptor, chosen []plugindomain.Descriptor) func(plugindomain.FactoryContext) domain.Verdict {
	storeIDs, installIDs := descriptorIDs(stores), descriptorIDs(chosen)
	return func(c plugindomain.FactoryContext) domain.Verdict {
		if i, ok := c.Factory.(plugindomain.Installer); ok {
			if allowed, reason := i.CanInstall(storeIDs, installIDs); !allowed {
				return domain.Verdict{Unusable: true, Reason: reason}
			}
		}
		return domain.Verdict{}
	}
}

func descriptorIDs(items []plugindomain.Descriptor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}
func (nopLogger) Warn(interface{}, ...interface{})  {}
func (nopLogger) Error(interface{}, ...interface{}) {}
