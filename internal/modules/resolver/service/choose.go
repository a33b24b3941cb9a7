package service

import (
	"context"
	"fmt"

	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
)

func toChoices[T any](items []T, toChoice func(T) domain.Choice) []domain.Choice {
	choices := make([]domain.Choice, len(items))
	for i, item := range items {
		choices[i] = toChoice(item)
	}
	return choices
}

func pickIndex[T any](items []T, choices []domain.Choice, idx int) (T, error) {
	var zero T
	if idx < 0 || idx >= len(items) {
		return zero, fmt.Errorf("console returned choice %d of %d", idx, len(items))
	}
	if choices[idx].Disabled {
		return zero, fmt.Errorf("console returned disabled choice %q", choices[idx].Label)
	}
	return items[idx], nil
}

// chooseOptional asks for one item; ok is false when the operator aborts.
func chooseOptional[T any](ctx context.Context, console resolverout.Console, prompt string, items []T, toChoice func(T) domain.Choice, abort string) (T, bool, error) {
	var zero T
	choices := toChoices(items, toChoice)
	idx, ok, err := console.ChooseOptional(ctx, prompt, choices, abort)
	if err != nil || !ok {
		return zero, false, err
	}
	item, err := pickIndex(items, choices, idx)
	if err != nil {
		return zero, false, err
	}
	return item, true, nil
}

func chooseRequired[T any](ctx context.Context, console resolverout.Console, prompt string, items []T, toChoice func(T) domain.Choice) (T, error) {
	choices := toChoices(items, toChoice)
	idx, err := console.ChooseRequired(ctx, prompt, choices)
	if err != nil {
		var zero T
		return zero, err
	}
	return pickIndex(items, choices, idx)
}
