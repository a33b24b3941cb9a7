package service

import (
	"context"
	"fmt"
	"sort"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
)

// maxNames is the identifier limit of a single certificate at the ACME server.
const maxNames = 100

// InteractiveResolver asks the operator whenever no default can be used or
// the run level is advanced. Order falls back to the unattended behaviour for
// single-identifier targets.
type InteractiveResolver struct {
	*UnattendedResolver
}

func NewInteractiveResolver(opts Options) *InteractiveResolver {
	return &InteractiveResolver{UnattendedResolver: NewUnattendedResolver(opts)}
}

func (r *InteractiveResolver) Target(ctx context.Context) (*plugindomain.Descriptor, error) {
	return r.core.resolveStep(ctx, stepRequest{
		step:         plugindomain.StepTarget,
		className:    "source",
		overrideName: r.defaults.Source,
		defaultID:    plugindomain.RunnerTargetIIS,
		fallbackID:   plugindomain.RunnerTargetManual,
		allowAbort:   true,
		prompt:       "How shall we determine the domain(s) to include in the certificate?",
		guidance: "Please specify how the list of domain names that will be included in the certificate " +
			"should be determined. If you choose for one of the \"all bindings\" options, the list will automatically be " +
			"updated for future renewals to reflect the bindings at that time.",
	})
}

func (r *InteractiveResolver) Validation(ctx context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error) {
	name, mode := r.validationOverride()
	return r.core.resolveStep(ctx, stepRequest{
		step:         plugindomain.StepValidation,
		className:    "validation",
		overrideName: name,
		overrideSub:  mode,
		defaultID:    plugindomain.RunnerValidationSelfHosting,
		fallbackID:   plugindomain.RunnerValidationFileSystem,
		allowAbort:   true,
		sort:         byChallengeThenOrder,
		unusable:     canValidate(target),
		label: func(c plugindomain.FactoryContext) string {
			return fmt.Sprintf("[%s] %s", c.Descriptor.ChallengeType, c.Descriptor.Description)
		},
		prompt: "How would you like prove ownership for the domain(s)?",
		guidance: "The ACME server will need to verify that you are the owner of the domain names that you are requesting" +
			" the certificate for. This happens both during initial setup *and* for every future renewal. There are two main methods of doing so: " +
			"answering specific http requests (http-01) or create specific dns records (dns-01). For wildcard domains the latter is the only option. " +
			"Additional plugins can be registered in plugins.yaml.",
	})
}

func (r *InteractiveResolver) Order(ctx context.Context, target plugindomain.Target) (*plugindomain.Descriptor, error) {
	if len(target.Identifiers()) <= 1 {
		return r.UnattendedResolver.Order(ctx, target)
	}
	return r.core.resolveStep(ctx, stepRequest{
		step:         plugindomain.StepOrder,
		className:    "order",
		overrideName: r.defaults.Order,
		defaultID:    plugindomain.RunnerOrderSingle,
		fallbackID:   plugindomain.RunnerOrderSingle,
		allowAbort:   true,
		unusable:     canProcess(target),
		prompt:       "Would you like to split this source into multiple certificates?",
		guidance: fmt.Sprintf("By default your source hosts are covered by a single certificate. "+
			"But if you want to avoid the %d domain limit, want to prevent "+
			"information disclosure via the SAN list, and/or reduce the impact of a single validation failure, "+
			"you may choose to convert one source into multiple certificates, using different strategies.", maxNames),
	})
}

func (r *InteractiveResolver) Csr(ctx context.Context) (*plugindomain.Descriptor, error) {
	return r.core.resolveStep(ctx, stepRequest{
		step:         plugindomain.StepCsr,
		className:    "csr",
		overrideName: r.defaults.Csr,
		defaultID:    plugindomain.RunnerCsrRsa,
		fallbackID:   plugindomain.RunnerCsrEc,
		allowAbort:   true,
		prompt:       "What kind of private key should be used for the certificate?",
		guidance: "After ownership of the domain(s) has been proven, we will create a " +
			"Certificate Signing Request (CSR) to obtain the actual certificate. The CSR " +
			"determines properties of the certificate like which (type of) key to use. If you " +
			"are not sure what to pick here, RSA is the safe default.",
	})
}

func (r *InteractiveResolver) Store(ctx context.Context, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
	req := stepRequest{
		step:       plugindomain.StepStore,
		className:  "store",
		defaultID:  plugindomain.RunnerStoreCertificateStore,
		fallbackID: plugindomain.RunnerStorePemFiles,
		filter:     keepAll,
		prompt:     "How would you like to store the certificate?",
		guidance: "When we have the certificate, you can store in one or more ways to make it accessible " +
			"to your applications. The Windows Certificate Store is the default location for IIS (unless you are " +
			"managing a cluster of them).",
	}
	if len(chosen) > 0 {
		if !r.core.runLevel.Has(domain.RunLevelAdvanced) {
			return nil, nil
		}
		req.guidance = ""
		req.prompt = "Would you like to store it in another way too?"
		req.defaultID = plugindomain.RunnerStoreNull
	}
	req.overrideName = domain.ChainOverride(r.storeList(), len(chosen))
	return r.core.resolveStep(ctx, req)
}

func (r *InteractiveResolver) Installation(ctx context.Context, stores []plugindomain.Descriptor, chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
	req := stepRequest{
		step:       plugindomain.StepInstallation,
		className:  "installation",
		defaultID:  plugindomain.RunnerInstallationIIS,
		fallbackID: plugindomain.RunnerInstallationNull,
		filter:     keepAll,
		unusable:   canInstall(stores, chosen),
		prompt:     "Which installation step should run first?",
		guidance: "With the certificate saved to the store(s) of your choice, " +
			"you may choose one or more steps to update your applications, e.g. to configure " +
			"the new thumbprint, or to update bindings.",
	}
	if len(chosen) > 0 {
		if !r.core.runLevel.Has(domain.RunLevelAdvanced) {
			return nil, nil
		}
		req.guidance = ""
		req.prompt = "Add another installation step?"
		req.defaultID = plugindomain.RunnerInstallationNull
	}
	req.overrideName = domain.ChainOverride(r.installationList(), len(chosen))
	return r.core.resolveStep(ctx, req)
}

func byChallengeThenOrder(items []plugindomain.FactoryContext) []plugindomain.FactoryContext {
	out := append([]plugindomain.FactoryContext(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Descriptor, out[j].Descriptor
		pa, pb := plugindomain.ChallengePriority(a.ChallengeType), plugindomain.ChallengePriority(b.ChallengeType)
		if pa != pb {
			return pa < pb
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Description < b.Description
	})
	return out
}
