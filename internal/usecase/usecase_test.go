package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cip-network-backend/internal/domain"
	"cip-network-backend/internal/usecase"
	"cip-network-backend/pkg/email"
	"cip-network-backend/pkg/metrics"
	"cip-network-backend/pkg/ratelimit"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendNotification(ctx context.Context, data email.ContactEmailData) bool {
	return m.Called(ctx, data).Bool(0)
}

type panickingNotifier struct{}

func (panickingNotifier) SendNotification(context.Context, email.ContactEmailData) bool {
	panic("template exploded")
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}

func newLimiter() *ratelimit.MemoryLimiter {
	fixed := time.Date(2024, 6, 23, 10, 0, 0, 0, time.UTC)
	return ratelimit.NewMemoryLimiter(ratelimit.ContactConfig(), func() time.Time { return fixed }, 0)
}

func strPtr(s string) *string { return &s }

var submission = domain.ContactSubmission{
	Name:    "Mario Rossi",
	Email:   "mario@example.com",
	Phone:   strPtr("+39 333 1234567"),
	Message: "Vorrei informazioni",
}

func expectedEcho(s domain.ContactSubmission) domain.ContactEcho {
	return domain.ContactEcho{Nome: s.Name, Email: s.Email, Telefono: s.Phone}
}

func TestSubmitContact_UniformResponse(t *testing.T) {
	outcomes := map[string]domain.ContactNotifier{
		"delivered": func() domain.ContactNotifier {
			n := new(MockNotifier)
			n.On("SendNotification", mock.Anything, mock.Anything).Return(true)
			return n
		}(),
		"delivery failed": func() domain.ContactNotifier {
			n := new(MockNotifier)
			n.On("SendNotification", mock.Anything, mock.Anything).Return(false)
			return n
		}(),
		"panic": panickingNotifier{},
	}

	for name, notifier := range outcomes {
		t.Run(name, func(t *testing.T) {
			uc := usecase.NewContactUsecase(newLimiter(), notifier)

			var resp *domain.ContactResponse
			require.NotPanics(t, func() {
				var err error
				resp, err = uc.SubmitContact(context.Background(), "10.0.0.1", submission)
				require.NoError(t, err)
			})

			assert.Equal(t, domain.ConfirmationMessage, resp.Message)
			assert.Equal(t, expectedEcho(submission), resp.Data)
			assert.True(t, resp.RateLimit.Allowed)
			assert.Equal(t, 4, resp.RateLimit.Remaining())
		})
	}
}

func TestSubmitContact_MapsSubmissionToEmailData(t *testing.T) {
	n := new(MockNotifier)
	n.On("SendNotification", mock.Anything, email.ContactEmailData{
		Name:    "Anna",
		Email:   "anna@example.org",
		Phone:   "",
		Message: "Ciao",
	}).Return(true).Once()

	uc := usecase.NewContactUsecase(newLimiter(), n)
	resp, err := uc.SubmitContact(context.Background(), "10.0.0.2", domain.ContactSubmission{
		Name: "Anna", Email: "anna@example.org", Message: "Ciao",
	})

	require.NoError(t, err)
	assert.Nil(t, resp.Data.Telefono)
	n.AssertExpectations(t)
}

func TestSubmitContact_SixthRequestIsRateLimited(t *testing.T) {
	n := new(MockNotifier)
	n.On("SendNotification", mock.Anything, mock.Anything).Return(true)
	uc := usecase.NewContactUsecase(newLimiter(), n)

	for i := 0; i < 5; i++ {
		_, err := uc.SubmitContact(context.Background(), "10.0.0.3", submission)
		require.NoError(t, err, "request %d", i+1)
	}

	before := testutil.ToFloat64(metrics.ContactSubmissions.WithLabelValues("rate_limited"))
	resp, err := uc.SubmitContact(context.Background(), "10.0.0.3", submission)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))

	var rlErr *domain.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.False(t, rlErr.Result.Allowed)
	assert.Equal(t, 5, rlErr.Result.Limit)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ContactSubmissions.WithLabelValues("rate_limited")))

	n.AssertNumberOfCalls(t, "SendNotification", 5)

	// other clients are unaffected
	_, err = uc.SubmitContact(context.Background(), "10.0.0.4", submission)
	assert.NoError(t, err)
}

func TestSubmitContact_LimiterErrorFailsOpen(t *testing.T) {
	l := new(MockLimiter)
	l.On("Allow", mock.Anything, "10.0.0.5").Return(ratelimit.Result{}, errors.New("redis: connection refused"))
	n := new(MockNotifier)
	n.On("SendNotification", mock.Anything, mock.Anything).Return(true).Once()

	before := testutil.ToFloat64(metrics.RateLimitBackendErrors.WithLabelValues("contact"))
	uc := usecase.NewContactUsecase(l, n)
	resp, err := uc.SubmitContact(context.Background(), "10.0.0.5", submission)

	require.NoError(t, err)
	assert.Equal(t, expectedEcho(submission), resp.Data)
	assert.Zero(t, resp.RateLimit.Limit)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitBackendErrors.WithLabelValues("contact")))
	n.AssertExpectations(t)
}

func TestFailSoft(t *testing.T) {
	t.Run("recovers panics", func(t *testing.T) {
		fs := usecase.FailSoft(panickingNotifier{})
		assert.False(t, fs.SendNotification(context.Background(), email.ContactEmailData{}))
	})

	t.Run("passes the outcome through", func(t *testing.T) {
		n := new(MockNotifier)
		n.On("SendNotification", mock.Anything, mock.Anything).Return(true)
		assert.True(t, usecase.FailSoft(n).SendNotification(context.Background(), email.ContactEmailData{}))
	})

	t.Run("nil notifier", func(t *testing.T) {
		assert.False(t, usecase.FailSoft(nil).SendNotification(context.Background(), email.ContactEmailData{}))
	})

	t.Run("does not wrap twice", func(t *testing.T) {
		fs := usecase.FailSoft(panickingNotifier{})
		assert.Same(t, fs, usecase.FailSoft(fs))
	})
}

func TestHealthCheck(t *testing.T) {
	got := usecase.NewHealthUsecase("CIP Network").Check(context.Background())
	assert.Equal(t, map[string]string{"status": "ok", "message": "CIP Network API is running"}, got)
}
