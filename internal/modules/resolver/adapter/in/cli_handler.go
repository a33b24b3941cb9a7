package in

import (
	"context"

	"certflow/internal/modules/resolver/dto"
	resolverin "certflow/internal/modules/resolver/port/in"
)

type CLIHandler struct {
	usecase resolverin.Usecase
}

func NewCLIHandler(usecase resolverin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error) {
	return h.usecase.Plan(ctx, input)
}

func (h CLIHandler) History(ctx context.Context, limit int) ([]dto.PlanRecord, error) {
	return h.usecase.History(ctx, limit)
}
