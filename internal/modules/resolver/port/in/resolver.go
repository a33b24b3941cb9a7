package in

import (
	"context"

	"certflow/internal/modules/resolver/dto"
)

type Usecase interface {
	Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error)
	History(ctx context.Context, limit int) ([]dto.PlanRecord, error)
}
