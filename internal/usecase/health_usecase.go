package usecase

import (
	"context"

	"cip-network-backend/internal/domain"
)

type healthUsecase struct {
	serviceName string
}

func NewHealthUsecase(serviceName string) domain.HealthUsecase {
	return &healthUsecase{serviceName: serviceName}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	return map[string]string{
		"status":  "ok",
		"message": u.serviceName + " API is running",
	}
}
