package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"cip-network-backend/config"
	"cip-network-backend/pkg/logger"
	"cip-network-backend/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

const appPasswordHint = "For Gmail and similar providers use an App Password instead of the account password: https://myaccount.google.com/apppasswords"

// DialFunc opens the network connection to the SMTP server.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Dispatcher delivers contact notifications over SMTP with STARTTLS.
// One attempt per call, no retry.
type Dispatcher struct {
	host           string
	port           string
	username       string
	password       string
	recipientEmail string

	timeout   time.Duration
	tlsConfig *tls.Config
	renderer  *Renderer
	dial      DialFunc
	now       func() time.Time
}

// Option customizes a Dispatcher
type Option func(*Dispatcher)

// WithDialer replaces the network dialer.
func WithDialer(dial DialFunc) Option {
	return func(d *Dispatcher) { d.dial = dial }
}

// WithClock replaces the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithTimeout bounds the connect and every session step.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

// WithTLSConfig replaces the TLS configuration used for STARTTLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(d *Dispatcher) { d.tlsConfig = cfg }
}

// NewDispatcher creates a dispatcher from the startup configuration.
// Missing or invalid SMTP settings are reported at send time, not here.
func NewDispatcher(cfg *config.Config, opts ...Option) *Dispatcher {
	timeout := time.Duration(cfg.SMTPTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	d := &Dispatcher{
		host:           strings.TrimSpace(cfg.SMTPServer),
		port:           strings.TrimSpace(cfg.SMTPPort),
		username:       cfg.SMTPUsername,
		password:       cfg.SMTPPassword,
		recipientEmail: cfg.RecipientEmail,
		timeout:        timeout,
		renderer:       NewRenderer(cfg.EmailTemplateDir),
		now:            time.Now,
	}
	d.tlsConfig = &tls.Config{
		ServerName:         d.host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.SMTPInsecureSkipVerify, //nolint:gosec // opt-in for self-hosted relays
	}

	for _, opt := range opts {
		opt(d)
	}
	if d.dial == nil {
		d.dial = (&net.Dialer{Timeout: d.timeout}).DialContext
	}
	return d
}

// MissingSettings lists the environment names of required SMTP settings that are empty.
func (d *Dispatcher) MissingSettings() []string {
	var missing []string
	if d.host == "" {
		missing = append(missing, "SMTP_SERVER")
	}
	if d.port == "" {
		missing = append(missing, "SMTP_PORT")
	}
	if d.username == "" {
		missing = append(missing, "SMTP_USERNAME")
	}
	if d.password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if d.recipientEmail == "" {
		missing = append(missing, "RECIPIENT_EMAIL")
	}
	return missing
}

// IsConfigured checks if all five SMTP settings are present
func (d *Dispatcher) IsConfigured() bool {
	return len(d.MissingSettings()) == 0
}

// SendNotification sends the contact email and reports the outcome as a boolean.
// Every failure is logged with an operator-facing diagnostic; none is returned.
func (d *Dispatcher) SendNotification(ctx context.Context, data ContactEmailData) bool {
	start := time.Now()
	err := d.Send(ctx, data)
	metrics.MailSendDuration.WithLabelValues(d.host).Observe(time.Since(start).Seconds())

	if err != nil {
		d.logFailure(err)
		metrics.MailSendFailure.WithLabelValues(d.host, string(ReasonOf(err))).Inc()
		return false
	}

	logger.Log.Infow("Contact email sent", "recipient", d.recipientEmail, "host", d.host)
	metrics.MailSendSuccess.WithLabelValues(d.host).Inc()
	return true
}

// Send performs one delivery attempt. Errors are *DeliveryError.
func (d *Dispatcher) Send(ctx context.Context, data ContactEmailData) error {
	if missing := d.MissingSettings(); len(missing) > 0 {
		return &DeliveryError{
			Reason: ReasonNotConfigured,
			Step:   StepValidate,
			Err:    fmt.Errorf("missing settings: %s", strings.Join(missing, ", ")),
		}
	}

	port, err := strconv.Atoi(d.port)
	if err != nil {
		return &DeliveryError{
			Reason: ReasonInvalidPort,
			Step:   StepValidate,
			Err:    fmt.Errorf("SMTP_PORT must be a number, got %q", d.port),
		}
	}

	msg, err := d.buildMessage(data)
	if err != nil {
		return &DeliveryError{Reason: ReasonRender, Step: StepRender, Err: err}
	}

	addr := net.JoinHostPort(d.host, strconv.Itoa(port))
	logger.Log.Infow("Sending contact email", "recipient", d.recipientEmail, "addr", addr)
	return d.deliver(ctx, addr, msg)
}

func (d *Dispatcher) buildMessage(data ContactEmailData) ([]byte, error) {
	timestamp := FormatTimestamp(d.now())

	html, err := d.renderer.HTML(data, timestamp)
	if err != nil {
		return nil, err
	}

	return composeMessage(envelope{
		From:    d.username,
		To:      d.recipientEmail,
		ReplyTo: data.Email,
		Subject: contactSubject(data.Name),
		Text:    d.renderer.Text(data, timestamp),
		HTML:    html,
		Date:    d.now(),
	})
}

// deliver runs connect, STARTTLS, AUTH, MAIL/RCPT/DATA and QUIT on one connection.
func (d *Dispatcher) deliver(ctx context.Context, addr string, msg []byte) error {
	logger.Log.Debugw("Connecting to SMTP server", "addr", addr)
	dialCtx, cancel := context.WithTimeout(ctx, d.timeout)
	conn, err := d.dial(dialCtx, "tcp", addr)
	cancel()
	if err != nil {
		return classify(StepConnect, err)
	}
	defer conn.Close()

	d.extendDeadline(ctx, conn)
	c, err := smtp.NewClient(conn, d.host)
	if err != nil {
		return classify(StepGreeting, err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return classify(StepGreeting, err)
	}

	logger.Log.Debugw("Starting TLS", "addr", addr)
	d.extendDeadline(ctx, conn)
	if ok, _ := c.Extension("STARTTLS"); !ok {
		return &DeliveryError{
			Reason: ReasonProtocol,
			Step:   StepStartTLS,
			Err:    errors.New("server does not advertise STARTTLS"),
		}
	}
	if err := c.StartTLS(d.tlsConfig); err != nil {
		return classify(StepStartTLS, err)
	}

	logger.Log.Debugw("Authenticating", "username", d.username)
	d.extendDeadline(ctx, conn)
	if err := c.Auth(smtp.PlainAuth("", d.username, d.password, d.host)); err != nil {
		return classify(StepAuth, err)
	}

	logger.Log.Debugw("Transmitting message", "bytes", len(msg))
	d.extendDeadline(ctx, conn)
	if err := transmit(c, d.username, d.recipientEmail, msg); err != nil {
		return classify(StepSend, err)
	}

	logger.Log.Debugw("Closing SMTP session")
	d.extendDeadline(ctx, conn)
	if err := c.Quit(); err != nil {
		return classify(StepQuit, err)
	}
	return nil
}

func transmit(c *smtp.Client, from, to string, msg []byte) error {
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// extendDeadline bounds the next session step by the timeout, or by ctx when it ends sooner.
func (d *Dispatcher) extendDeadline(ctx context.Context, conn net.Conn) {
	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)
}

func (d *Dispatcher) logFailure(err error) {
	var de *DeliveryError
	if !errors.As(err, &de) {
		logger.Log.Errorw("Unexpected error sending contact email", "error", fmt.Sprintf("%+v", err))
		return
	}

	addr := net.JoinHostPort(d.host, d.port)
	switch de.Reason {
	case ReasonNotConfigured:
		logger.Log.Errorw("SMTP configuration incomplete, email not sent", "error", de.Err.Error())
	case ReasonInvalidPort:
		logger.Log.Errorw("SMTP_PORT is not a valid number, email not sent", "value", d.port)
	case ReasonAuth:
		logger.Log.Errorw("SMTP authentication failed", "error", de.Err.Error(), "hint", appPasswordHint)
	case ReasonProtocol:
		logger.Log.Errorw("SMTP error", "step", de.Step, "error", de.Err.Error())
	case ReasonConnectionRefused:
		logger.Log.Errorw("Connection refused, check that the SMTP host and port are correct", "addr", addr)
	case ReasonTimeout:
		logger.Log.Errorw("Timed out talking to the SMTP server, check network connectivity", "addr", addr, "step", de.Step)
	default:
		logger.Log.Errorw("Unexpected error sending contact email",
			"reason", de.Reason,
			"step", de.Step,
			"error_type", fmt.Sprintf("%T", de.Err),
			"error", fmt.Sprintf("%+v", de.Err),
		)
	}
}
