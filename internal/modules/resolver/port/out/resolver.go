package out

import (
	"context"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
)

// Catalog is the read-only plugin catalog the resolver selects from.
type Catalog interface {
	GetPlugins(step plugindomain.Step) []plugindomain.Descriptor
	GetPlugin(step plugindomain.Step, name string, subMode string) (plugindomain.Descriptor, bool)
	Factory(descriptor plugindomain.Descriptor, scope plugindomain.Scope) plugindomain.Factory
}

// Console asks the operator. The choose methods block until answered and
// return the index of the picked choice.
type Console interface {
	CreateSpace()
	Show(label string, value string)
	ChooseOptional(ctx context.Context, prompt string, choices []domain.Choice, abortLabel string) (int, bool, error)
	ChooseRequired(ctx context.Context, prompt string, choices []domain.Choice) (int, error)
}

type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type PlanLog interface {
	Record(ctx context.Context, record domain.PlanRecord) error
	List(ctx context.Context, limit int) ([]domain.PlanRecord, error)
}
