package usecase

import (
	"context"

	"certflow/internal/modules/resolver/dto"
	resolverin "certflow/internal/modules/resolver/port/in"
	"certflow/internal/modules/resolver/service"
)

type Interactor struct {
	svc *service.PlanService
}

func NewInteractor(svc *service.PlanService) resolverin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Plan(ctx context.Context, input dto.PlanInput) (dto.PlanOutput, error) {
	return i.svc.Plan(ctx, input)
}

func (i *Interactor) History(ctx context.Context, limit int) ([]dto.PlanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return i.svc.History(ctx, limit)
}
