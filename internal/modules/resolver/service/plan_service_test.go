package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/dto"
	"certflow/internal/platform/clock"
	"certflow/internal/platform/id"
)

func TestPlanRepeatedStorePickEndsChainWithDebugLine(t *testing.T) {
	t.Parallel()
	// target manual, validation selfhosting, order single, csr rsa,
	// store pemfiles, pemfiles again, installation none
	console := &fakeConsole{answers: []int{0, 0, 0, 0, 1, 1, 2}}
	log := &recordingLogger{}
	svc := NewPlanService(Options{Catalog: pipelineCatalog(), Console: console, Logger: log}, nil,
		clock.Fixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)), &id.Sequence{IDs: []string{"p1"}})

	out, err := svc.Plan(context.Background(), dto.PlanInput{Hosts: []string{"example.com", "www.example.com"}, Advanced: true})
	require.NoError(t, err)
	assert.Empty(t, console.answers)

	var stores []string
	for _, s := range out.Selections {
		if s.Step == string(plugindomain.StepStore) {
			stores = append(stores, s.ID)
		}
	}
	assert.Equal(t, []string{plugindomain.RunnerStorePemFiles}, stores)
	assert.True(t, log.contains("debug", "store plugin pemfiles already chosen"))
}

func TestChainStopsOnNullWithoutLogging(t *testing.T) {
	t.Parallel()
	log := &recordingLogger{}
	picks := []plugindomain.Descriptor{
		{ID: "store.a", Name: "a"},
		{ID: "store.none", Name: "none", Null: true},
	}
	got, err := chain(log, plugindomain.StepStore, 5, func(chosen []plugindomain.Descriptor) (*plugindomain.Descriptor, error) {
		d := picks[len(chosen)]
		return &d, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "store.a", got[0].ID)
	assert.Zero(t, log.count("debug"))
}
