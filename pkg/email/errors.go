package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"os"
	"syscall"
)

// FailureReason classifies why a delivery attempt failed
type FailureReason string

const (
	ReasonNotConfigured     FailureReason = "not_configured"
	ReasonInvalidPort       FailureReason = "invalid_port"
	ReasonRender            FailureReason = "render"
	ReasonAuth              FailureReason = "auth"
	ReasonProtocol          FailureReason = "protocol"
	ReasonConnectionRefused FailureReason = "connection_refused"
	ReasonTimeout           FailureReason = "timeout"
	ReasonTLS               FailureReason = "tls"
	ReasonUnexpected        FailureReason = "unexpected"
)

// Step names the point of the SMTP session where a failure happened
type Step string

const (
	StepValidate Step = "validate"
	StepRender   Step = "render"
	StepConnect  Step = "connect"
	StepGreeting Step = "greeting"
	StepStartTLS Step = "starttls"
	StepAuth     Step = "auth"
	StepSend     Step = "send"
	StepQuit     Step = "quit"
)

// DeliveryError describes a failed delivery attempt
type DeliveryError struct {
	Reason FailureReason
	Step   Step
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email %s (%s): %v", e.Step, e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the failure reason carried by err, ReasonUnexpected for foreign errors.
func ReasonOf(err error) FailureReason {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ReasonUnexpected
}

// classify wraps an error from an SMTP session step into a DeliveryError.
func classify(step Step, err error) *DeliveryError {
	return &DeliveryError{Reason: reasonFor(step, err), Step: step, Err: err}
}

func reasonFor(step Step, err error) FailureReason {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonConnectionRefused
	}
	if isTimeout(err) {
		return ReasonTimeout
	}

	var protoErr *textproto.Error
	isProto := errors.As(err, &protoErr)

	switch {
	case step == StepAuth:
		return ReasonAuth
	case isProto:
		return ReasonProtocol
	case step == StepStartTLS:
		return ReasonTLS
	}
	return ReasonUnexpected
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
