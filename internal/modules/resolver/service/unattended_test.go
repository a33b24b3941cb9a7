package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
)

func unattended(log *recordingLogger, defaults domain.Defaults, args domain.Arguments) *UnattendedResolver {
	return NewUnattendedResolver(Options{
		Catalog:   pipelineCatalog(),
		Logger:    log,
		RunLevel:  domain.RunLevelUnattended,
		Defaults:  defaults,
		Arguments: args,
	})
}

func TestUnattendedDisabledDefaultIsNone(t *testing.T) {
	t.Parallel()
	log := &recordingLogger{}
	r := unattended(log, domain.Defaults{}, domain.Arguments{})

	got, err := r.Target(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, log.contains("error", "Source plugin iis not available: Only available on Windows."))

	r = unattended(log, domain.Defaults{Source: "manual"}, domain.Arguments{})
	got, err = r.Target(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plugindomain.RunnerTargetManual, got.ID)
}

func TestUnattendedMissingPluginIsNone(t *testing.T) {
	t.Parallel()
	log := &recordingLogger{}
	r := unattended(log, domain.Defaults{Csr: "dsa"}, domain.Arguments{})

	got, err := r.Csr(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, log.contains("error", "Unable to find csr plugin dsa"))
}

func TestUnattendedValidationWildcard(t *testing.T) {
	t.Parallel()
	log := &recordingLogger{}
	r := unattended(log, domain.Defaults{}, domain.Arguments{})

	got, err := r.Validation(context.Background(), mustTarget("*.example.com"))
	require.NoError(t, err)
	assert.Nil(t, got)

	r = unattended(log, domain.Defaults{Validation: "acme-dns", ValidationMode: plugindomain.ChallengeDNS01}, domain.Arguments{})
	got, err = r.Validation(context.Background(), mustTarget("*.example.com"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plugindomain.RunnerValidationAcmeDNS, got.ID)
}

func TestUnattendedOrderFallsBackToSingle(t *testing.T) {
	t.Parallel()
	r := unattended(&recordingLogger{}, domain.Defaults{Order: "domain"}, domain.Arguments{})

	got, err := r.Order(context.Background(), mustTarget("a.example.com", "b.example.com"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plugindomain.RunnerOrderSingle, got.ID)
}

func TestUnattendedStoreChainConsumesList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := unattended(&recordingLogger{}, domain.Defaults{}, domain.Arguments{Store: "pemfiles,pfxfile"})

	first, err := r.Store(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, first)
	second, err := r.Store(ctx, []plugindomain.Descriptor{*first})
	require.NoError(t, err)
	require.NotNil(t, second)
	third, err := r.Store(ctx, []plugindomain.Descriptor{*first, *second})
	require.NoError(t, err)

	assert.Equal(t, plugindomain.RunnerStorePemFiles, first.ID)
	assert.Equal(t, plugindomain.RunnerStorePfxFile, second.ID)
	assert.Nil(t, third)
}

func TestUnattendedStoreWithoutListUsesDefault(t *testing.T) {
	t.Parallel()
	r := unattended(&recordingLogger{}, domain.Defaults{}, domain.Arguments{})

	got, err := r.Store(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, plugindomain.RunnerStoreCertificateStore, got.ID)
}

func TestUnattendedInstallationWithoutListIsNone(t *testing.T) {
	t.Parallel()
	log := &recordingLogger{}
	r := unattended(log, domain.Defaults{}, domain.Arguments{})

	got, err := r.Installation(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	r = unattended(log, domain.Defaults{}, domain.Arguments{Installation: "iis"})
	got, err = r.Installation(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, log.contains("error", "Installation plugin iis not available"))
}
