package domain

import "context"

// HealthUsecase reports service liveness
type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}
