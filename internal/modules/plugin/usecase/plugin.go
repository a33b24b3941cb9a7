package usecase

import (
	"context"

	"certflow/internal/modules/plugin/dto"
	pluginin "certflow/internal/modules/plugin/port/in"
	"certflow/internal/modules/plugin/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) pluginin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context, step string) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx, step)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}
