package in

import (
	"context"

	"certflow/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context, step string) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}
