package out

import (
	"context"
	"strings"

	"golang.org/x/net/publicsuffix"

	"certflow/internal/modules/plugin/domain"
	pluginout "certflow/internal/modules/plugin/port/out"
)

const (
	reasonWindowsOnly = "Only available on Windows."
	reasonElevated    = "Run as administrator to allow use of the built-in web listener."
)

// BuiltinRegistry lists the plugins compiled into certflow.
type BuiltinRegistry struct{}

func NewBuiltinRegistry() pluginout.Registry {
	return BuiltinRegistry{}
}

func (BuiltinRegistry) Entries(_ context.Context) ([]domain.Entry, error) {
	return builtinEntries(), nil
}

func builtinEntries() []domain.Entry {
	return []domain.Entry{
		// target
		{Descriptor: domain.Descriptor{ID: domain.RunnerTargetIIS, Name: "iis", Step: domain.StepTarget, Order: 2, Description: "Read bindings from IIS"}, New: requires(true, false)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerTargetManual, Name: "manual", Step: domain.StepTarget, Order: 0, Description: "Manual input"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerTargetCsr, Name: "csr", Step: domain.StepTarget, Order: 5, Description: "CSR created by another program"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerTargetIISBindings, Name: "iisbindings", Step: domain.StepTarget, Order: 3, Description: "Read all bindings from IIS"}, New: requires(true, false)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerTargetHiddenTest, Name: "hidden-test", Step: domain.StepTarget, Hidden: true, Description: "Test target"}, New: always},

		// validation
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationSelfHosting, Name: "selfhosting", Step: domain.StepValidation, ChallengeType: domain.ChallengeHTTP01, Order: 0, Description: "Serve verification files from memory"}, New: httpValidation(true)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationFileSystem, Name: "filesystem", Step: domain.StepValidation, ChallengeType: domain.ChallengeHTTP01, Order: 1, Description: "Save verification files on (network) path"}, New: httpValidation(false)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationSftp, Name: "sftp", Step: domain.StepValidation, ChallengeType: domain.ChallengeHTTP01, Order: 2, Description: "Upload verification files via SSH-FTP"}, New: httpValidation(false)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationManualDNS, Name: "manual", Step: domain.StepValidation, ChallengeType: domain.ChallengeDNS01, Order: 3, Description: "Create verification records manually (auto-renew not possible)"}, New: dnsValidation},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationScriptDNS, Name: "script", Step: domain.StepValidation, ChallengeType: domain.ChallengeDNS01, Order: 1, Description: "Create verification records with your own script"}, New: dnsValidation},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationAcmeDNS, Name: "acme-dns", Step: domain.StepValidation, ChallengeType: domain.ChallengeDNS01, Order: 0, Description: "Create verification records in acme-dns"}, New: dnsValidation},
		{Descriptor: domain.Descriptor{ID: domain.RunnerValidationSelfHostingALPN, Name: "selfhosting", Step: domain.StepValidation, ChallengeType: domain.ChallengeTLSALPN01, Order: 0, Description: "Answer TLS verification request from certflow"}, New: httpValidation(true)},

		// order
		{Descriptor: domain.Descriptor{ID: domain.RunnerOrderSingle, Name: "single", Step: domain.StepOrder, Order: 0, Description: "Single certificate"}, New: orderFactory(func(domain.Target) bool { return true })},
		{Descriptor: domain.Descriptor{ID: domain.RunnerOrderHost, Name: "host", Step: domain.StepOrder, Order: 1, Description: "Separate certificate for each host (e.g. sub.example.com)"}, New: orderFactory(func(t domain.Target) bool { return len(t.Identifiers()) > 1 })},
		{Descriptor: domain.Descriptor{ID: domain.RunnerOrderDomain, Name: "domain", Step: domain.StepOrder, Order: 2, Description: "Separate certificate for each domain (e.g. *.example.com)"}, New: orderFactory(func(t domain.Target) bool { return len(registrableDomains(t)) > 1 })},

		// csr
		{Descriptor: domain.Descriptor{ID: domain.RunnerCsrRsa, Name: "rsa", Step: domain.StepCsr, Order: 0, Description: "RSA key"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerCsrEc, Name: "ec", Step: domain.StepCsr, Order: 1, Description: "Elliptic Curve key"}, New: always},

		// store
		{Descriptor: domain.Descriptor{ID: domain.RunnerStoreCertificateStore, Name: "certificatestore", Step: domain.StepStore, Order: 0, Description: "Windows Certificate Store (Local Computer)"}, New: requires(true, false)},
		{Descriptor: domain.Descriptor{ID: domain.RunnerStoreCentralSsl, Name: "centralssl", Step: domain.StepStore, Order: 1, Description: "IIS Central Certificate Store (.pfx per host)"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerStorePemFiles, Name: "pemfiles", Step: domain.StepStore, Order: 2, Description: "PEM encoded files (Apache, nginx, etc.)"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerStorePfxFile, Name: "pfxfile", Step: domain.StepStore, Order: 3, Description: "PFX archive"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerStoreNull, Name: "none", Step: domain.StepStore, Order: 100, Null: true, Description: "No (additional) store steps"}, New: null},

		// installation
		{Descriptor: domain.Descriptor{ID: domain.RunnerInstallationIIS, Name: "iis", Step: domain.StepInstallation, Order: 0, Description: "Create or update bindings in IIS"}, New: iisInstallation},
		{Descriptor: domain.Descriptor{ID: domain.RunnerInstallationScript, Name: "script", Step: domain.StepInstallation, Order: 1, Description: "Start external script or program"}, New: always},
		{Descriptor: domain.Descriptor{ID: domain.RunnerInstallationNull, Name: "none", Step: domain.StepInstallation, Order: 100, Null: true, Description: "No (additional) installation steps"}, New: null},
	}
}

func always(domain.Scope) domain.Factory { return domain.EnabledFactory{} }

func null(domain.Scope) domain.Factory { return domain.NullFactory{} }

type scopedFactory struct {
	scope         domain.Scope
	windowsOnly   bool
	needsElevated bool
}

func (f scopedFactory) Disabled() (bool, string) {
	if f.windowsOnly && f.scope.OS != "windows" {
		return true, reasonWindowsOnly
	}
	if f.needsElevated && !f.scope.Elevated {
		return true, reasonElevated
	}
	return false, ""
}

func requires(windowsOnly bool, elevated bool) domain.FactoryFunc {
	return func(scope domain.Scope) domain.Factory {
		return scopedFactory{scope: scope, windowsOnly: windowsOnly, needsElevated: elevated}
	}
}

type httpValidationFactory struct {
	scopedFactory
}

// Wildcard identifiers can only be proven through dns-01.
func (httpValidationFactory) CanValidate(target domain.Target) bool {
	return !target.HasWildcard()
}

func httpValidation(elevated bool) domain.FactoryFunc {
	return func(scope domain.Scope) domain.Factory {
		return httpValidationFactory{scopedFactory{scope: scope, needsElevated: elevated}}
	}
}

type dnsValidationFactory struct {
	domain.EnabledFactory
}

func (dnsValidationFactory) CanValidate(domain.Target) bool { return true }

func dnsValidation(domain.Scope) domain.Factory { return dnsValidationFactory{} }

type orderSplitFactory struct {
	domain.EnabledFactory
	canProcess func(domain.Target) bool
}

func (f orderSplitFactory) CanProcess(target domain.Target) bool { return f.canProcess(target) }

func orderFactory(canProcess func(domain.Target) bool) domain.FactoryFunc {
	return func(domain.Scope) domain.Factory {
		return orderSplitFactory{canProcess: canProcess}
	}
}

type iisInstallationFactory struct {
	scopedFactory
}

func (iisInstallationFactory) CanInstall(stores []string, installs []string) (bool, string) {
	for _, id := range installs {
		if id == domain.RunnerInstallationIIS {
			return false, "Cannot be used more than once in a renewal."
		}
	}
	for _, id := range stores {
		if id == domain.RunnerStoreCertificateStore || id == domain.RunnerStoreCentralSsl {
			return true, ""
		}
	}
	return false, "Requires the Windows Certificate Store or the IIS Central Certificate Store."
}

func iisInstallation(scope domain.Scope) domain.Factory {
	return iisInstallationFactory{scopedFactory{scope: scope, windowsOnly: true}}
}

// registrableDomains groups identifiers by public suffix plus one label.
func registrableDomains(target domain.Target) map[string]struct{} {
	out := map[string]struct{}{}
	for _, identifier := range target.Identifiers() {
		name := strings.ToLower(strings.TrimPrefix(identifier.Value, "*."))
		if registrable, err := publicsuffix.EffectiveTLDPlusOne(name); err == nil {
			name = registrable
		}
		out[name] = struct{}{}
	}
	return out
}
