package service_test

import (
	"context"
	"errors"
	"testing"

	"certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/plugin/service"
)

type staticRegistry struct {
	entries []domain.Entry
	err     error
}

func (r staticRegistry) Entries(context.Context) ([]domain.Entry, error) {
	return r.entries, r.err
}

func entry(id string, name string, step domain.Step) domain.Entry {
	return domain.Entry{Descriptor: domain.Descriptor{ID: id, Name: name, Step: step, Description: name}}
}

func TestCatalogLookups(t *testing.T) {
	t.Parallel()
	hidden := entry("target.hidden", "hidden", domain.StepTarget)
	hidden.Descriptor.Hidden = true
	http := entry("validation.http", "self", domain.StepValidation)
	http.Descriptor.ChallengeType = domain.ChallengeHTTP01
	alpn := entry("validation.alpn", "self", domain.StepValidation)
	alpn.Descriptor.ChallengeType = domain.ChallengeTLSALPN01

	svc := service.NewCatalogService(domain.Scope{}, nil, nil, staticRegistry{entries: []domain.Entry{
		entry("target.manual", "manual", domain.StepTarget),
		hidden,
		http,
		alpn,
	}})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := svc.GetPlugins(domain.StepTarget); len(got) != 2 {
		t.Fatalf("expected hidden descriptors to be returned, got %+v", got)
	}
	if _, ok := svc.GetPlugin(domain.StepTarget, "hidden", ""); ok {
		t.Fatalf("hidden descriptors must not resolve by name")
	}
	if d, ok := svc.GetPlugin(domain.StepTarget, "MANUAL", ""); !ok || d.ID != "target.manual" {
		t.Fatalf("expected case insensitive lookup, got %+v %v", d, ok)
	}
	if d, ok := svc.GetPlugin(domain.StepValidation, "self", domain.ChallengeTLSALPN01); !ok || d.ID != "validation.alpn" {
		t.Fatalf("expected sub-mode lookup, got %+v %v", d, ok)
	}
	if d, ok := svc.GetPlugin(domain.StepValidation, "self", ""); !ok || d.ID != "validation.http" {
		t.Fatalf("expected first match without sub-mode, got %+v %v", d, ok)
	}
	if _, ok := svc.GetPlugin(domain.StepOrder, "manual", ""); ok {
		t.Fatalf("lookup must be scoped to the step")
	}
	disabled, reason := svc.Factory(domain.Descriptor{ID: "nope"}, domain.Scope{}).Disabled()
	if !disabled || reason == "" {
		t.Fatalf("unknown descriptor must produce a disabled factory")
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		entries []domain.Entry
	}{
		{name: "same id", entries: []domain.Entry{entry("csr.rsa", "rsa", domain.StepCsr), entry("csr.rsa", "rsa2", domain.StepCsr)}},
		{name: "same name", entries: []domain.Entry{entry("csr.rsa", "rsa", domain.StepCsr), entry("csr.rsa2", "RSA", domain.StepCsr)}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewCatalogService(domain.Scope{}, nil, nil, staticRegistry{entries: tc.entries})
			if err := svc.Load(context.Background()); !errors.Is(err, domain.ErrDuplicatePlugin) {
				t.Fatalf("expected ErrDuplicatePlugin, got %v", err)
			}
		})
	}
}

func TestCatalogPropagatesRegistryError(t *testing.T) {
	t.Parallel()
	svc := service.NewCatalogService(domain.Scope{}, nil, nil, staticRegistry{err: errors.New("boom")})
	if err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected registry error")
	}
}
