package usecase

import (
	"context"
	"strings"

	"cip-network-backend/internal/domain"
	"cip-network-backend/pkg/logger"
	"cip-network-backend/pkg/metrics"
	"cip-network-backend/pkg/ratelimit"
	"cip-network-backend/pkg/security"
)

const contactLimiterName = "contact"

type contactUsecase struct {
	limiter  ratelimit.Limiter
	notifier domain.ContactNotifier
}

// NewContactUsecase creates a new contact usecase. The notifier is wrapped with FailSoft.
func NewContactUsecase(limiter ratelimit.Limiter, notifier domain.ContactNotifier) domain.ContactUsecase {
	return &contactUsecase{
		limiter:  limiter,
		notifier: FailSoft(notifier),
	}
}

// SubmitContact checks the per-client window, sends the notification and answers uniformly
func (uc *contactUsecase) SubmitContact(ctx context.Context, clientKey string, submission domain.ContactSubmission) (*domain.ContactResponse, error) {
	decision, err := uc.limiter.Allow(ctx, clientKey)
	if err != nil {
		// fail open
		metrics.RateLimitBackendErrors.WithLabelValues(contactLimiterName).Inc()
		logger.Log.Warnw("Contact rate limiter unavailable, request allowed", "error", err)
		decision = ratelimit.Result{}
	} else if !decision.Allowed {
		metrics.RateLimitRejections.WithLabelValues(contactLimiterName).Inc()
		metrics.ContactSubmissions.WithLabelValues("rate_limited").Inc()
		return nil, &domain.RateLimitError{Result: decision}
	}

	if uc.notifier.SendNotification(ctx, submission.EmailData()) {
		metrics.ContactSubmissions.WithLabelValues("delivered").Inc()
	} else {
		metrics.ContactSubmissions.WithLabelValues("delivery_failed").Inc()
		security.DefaultLogger().LogDeliveryFailed(ctx, strings.TrimSpace(submission.Email), "notification_not_sent")
	}

	return &domain.ContactResponse{
		Message: domain.ConfirmationMessage,
		Data: domain.ContactEcho{
			Nome:     submission.Name,
			Email:    submission.Email,
			Telefono: submission.Phone,
		},
		RateLimit: decision,
	}, nil
}
