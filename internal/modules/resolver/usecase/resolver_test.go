package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pluginout "certflow/internal/modules/plugin/adapter/out"
	plugindomain "certflow/internal/modules/plugin/domain"
	pluginservice "certflow/internal/modules/plugin/service"
	resolverout "certflow/internal/modules/resolver/adapter/out"
	"certflow/internal/modules/resolver/domain"
	"certflow/internal/modules/resolver/dto"
	"certflow/internal/modules/resolver/service"
	"certflow/internal/modules/resolver/usecase"
	"certflow/internal/platform/clock"
	apperrors "certflow/internal/platform/errors"
	"certflow/internal/platform/id"
)

func newCatalog(t *testing.T, scope plugindomain.Scope) *pluginservice.CatalogService {
	t.Helper()
	catalog := pluginservice.NewCatalogService(scope, nil, nil, pluginout.NewBuiltinRegistry())
	if err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

func selectionIDs(out dto.PlanOutput) []string {
	ids := make([]string, 0, len(out.Selections))
	for _, s := range out.Selections {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestPlanUnattendedOnWindows(t *testing.T) {
	t.Parallel()
	scope := plugindomain.Scope{OS: "windows", Elevated: true}
	planLog, err := resolverout.NewSQLitePlanLog(filepath.Join(t.TempDir(), "certflow.db"))
	if err != nil {
		t.Fatalf("plan log: %v", err)
	}
	defer planLog.Close()
	svc := service.NewPlanService(service.Options{
		Catalog:  newCatalog(t, scope),
		Scope:    scope,
		Defaults: domain.Defaults{Installation: "iis"},
	}, planLog, clock.Fixed(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)), &id.Sequence{IDs: []string{"plan-1"}})
	uc := usecase.NewInteractor(svc)

	out, err := uc.Plan(context.Background(), dto.PlanInput{Hosts: []string{"Example.com", "www.example.com"}, Unattended: true, Store: "certificatestore,pemfiles"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []string{
		plugindomain.RunnerTargetIIS,
		plugindomain.RunnerValidationSelfHosting,
		plugindomain.RunnerOrderSingle,
		plugindomain.RunnerCsrRsa,
		plugindomain.RunnerStoreCertificateStore,
		plugindomain.RunnerStorePemFiles,
		plugindomain.RunnerInstallationIIS,
	}
	if got := selectionIDs(out); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected selections\n got %v\nwant %v", got, want)
	}
	if out.ID != "plan-1" || out.TargetName != "example.com" || out.RunLevel != "unattended" {
		t.Fatalf("unexpected plan header: %+v", out)
	}

	history, err := uc.History(context.Background(), 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].ID != "plan-1" || len(history[0].Stores) != 2 || history[0].Installations[0] != plugindomain.RunnerInstallationIIS {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestPlanUnattendedWithoutTargetFails(t *testing.T) {
	t.Parallel()
	scope := plugindomain.Scope{OS: "linux"}
	svc := service.NewPlanService(service.Options{Catalog: newCatalog(t, scope), Scope: scope}, nil, clock.SystemClock{}, id.RandomHex{})

	_, err := usecase.NewInteractor(svc).Plan(context.Background(), dto.PlanInput{Hosts: []string{"example.com"}, Unattended: true})
	if !errors.Is(err, domain.ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
}

func TestPlanRejectsEmptyHosts(t *testing.T) {
	t.Parallel()
	scope := plugindomain.Scope{OS: "linux"}
	svc := service.NewPlanService(service.Options{Catalog: newCatalog(t, scope), Scope: scope}, nil, clock.SystemClock{}, id.RandomHex{})

	_, err := usecase.NewInteractor(svc).Plan(context.Background(), dto.PlanInput{})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

// On linux without elevation the IIS target, the self-hosted listener, the
// Windows store and IIS installation are disabled, so the interactive run
// falls back to menus answered through the line console.
func TestPlanInteractiveOnLinux(t *testing.T) {
	t.Parallel()
	scope := plugindomain.Scope{OS: "linux"}
	var screen bytes.Buffer
	answers := strings.Join([]string{
		"",  // source: manual is the fallback default
		"",  // validation: filesystem is the fallback default
		"2", // store: pemfiles is the fallback default, pick centralssl instead
		"",  // installation: none is the fallback default
	}, "\n") + "\n"
	svc := service.NewPlanService(service.Options{
		Catalog: newCatalog(t, scope),
		Console: resolverout.NewLineConsole(strings.NewReader(answers), &screen),
		Scope:   scope,
	}, nil, clock.SystemClock{}, id.RandomHex{})

	out, err := usecase.NewInteractor(svc).Plan(context.Background(), dto.PlanInput{Hosts: []string{"example.com"}})
	if err != nil {
		t.Fatalf("plan: %v\n%s", err, screen.String())
	}
	want := []string{
		plugindomain.RunnerTargetManual,
		plugindomain.RunnerValidationFileSystem,
		plugindomain.RunnerOrderSingle,
		plugindomain.RunnerCsrRsa,
		plugindomain.RunnerStoreCentralSsl,
	}
	got := selectionIDs(out)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected selections\n got %v\nwant %v\n%s", got, want, screen.String())
	}
	for _, prompt := range []string{
		"How shall we determine the domain(s) to include in the certificate?",
		"How would you like prove ownership for the domain(s)?",
		"How would you like to store the certificate?",
		"Which installation step should run first?",
	} {
		if !strings.Contains(screen.String(), prompt) {
			t.Fatalf("missing prompt %q:\n%s", prompt, screen.String())
		}
	}
}
