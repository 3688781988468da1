package usecase

import (
	"context"
	"runtime/debug"

	"cip-network-backend/internal/domain"
	"cip-network-backend/pkg/email"
	"cip-network-backend/pkg/logger"
)

type failSoftNotifier struct {
	next domain.ContactNotifier
}

// FailSoft wraps a notifier so that a panic while sending is logged and reported as false.
// It is the only place where notification failures are absorbed.
func FailSoft(next domain.ContactNotifier) domain.ContactNotifier {
	if fs, ok := next.(*failSoftNotifier); ok {
		return fs
	}
	return &failSoftNotifier{next: next}
}

func (f *failSoftNotifier) SendNotification(ctx context.Context, data email.ContactEmailData) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorw("Unexpected error while processing contact form",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			sent = false
		}
	}()

	if f.next == nil {
		logger.Log.Errorw("No contact notifier configured, email not sent")
		return false
	}
	return f.next.SendNotification(ctx, data)
}
