package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"warburtonsos/internal/records"
	"warburtonsos/internal/session"
	"warburtonsos/internal/shell"
	"warburtonsos/pkg/domain"
)

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger  *zap.Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		logger:  zap.NewNop(),
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		clock:   ClockFunc(time.Now),
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder sets the recorder observing every dispatch.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer sets the tracer wrapping every dispatch.
func WithTracer(t Tracer) Option {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithClock overrides the time source used for dispatch timing.
func WithClock(c Clock) Option {
	return func(o *serviceOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// Service routes commands to the mini-app modules and the desktop shell.
type Service struct {
	modules map[domain.AppID]Module
	order   []domain.AppID
	shell   *shell.Shell
	gate    *session.Gate
	opts    serviceOptions
}

// NewService assembles a service from already opened modules.
func NewService(modules []Module, sh *shell.Shell, gate *session.Gate, opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Service{
		modules: make(map[domain.AppID]Module, len(modules)),
		shell:   sh,
		gate:    gate,
		opts:    o,
	}
	for _, m := range modules {
		s.modules[m.App()] = m
		s.order = append(s.order, m.App())
	}
	return s
}

// Shell returns the desktop shell.
func (s *Service) Shell() *shell.Shell { return s.shell }

// Session returns the login gate.
func (s *Service) Session() *session.Gate { return s.gate }

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger { return s.opts.logger }

// Module looks up the module for app.
func (s *Service) Module(app domain.AppID) (Module, error) {
	m, ok := s.modules[app]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shell.ErrUnknownApp, app)
	}
	return m, nil
}

// Modules returns the modules in catalog order.
func (s *Service) Modules() []Module {
	out := make([]Module, 0, len(s.order))
	for _, app := range s.order {
		out = append(out, s.modules[app])
	}
	return out
}

// Dispatch executes cmd. Each call is traced, observed by the metrics
// recorder and logged.
func (s *Service) Dispatch(ctx context.Context, cmd Command) (res Result, err error) {
	op := cmd.Operation()
	start := s.opts.clock.Now()
	ctx, span := s.opts.tracer.Start(ctx, op)
	defer func() {
		elapsed := s.opts.clock.Now().Sub(start)
		span.End(err)
		s.opts.metrics.Observe(ctx, op, err == nil, elapsed)
		fields := []zap.Field{
			zap.String("app", string(cmd.App)),
			zap.String("action", string(cmd.Action)),
			zap.Duration("elapsed", elapsed),
		}
		if cmd.ID != "" {
			fields = append(fields, zap.String("id", cmd.ID))
		}
		if err != nil {
			s.opts.logger.Warn("command failed", append(fields, zap.Error(err))...)
			return
		}
		s.opts.logger.Debug("command", append(fields, zap.Bool("changed", res.Changed))...)
	}()

	res = Result{App: cmd.App, Action: cmd.Action}
	switch cmd.Action {
	case ActionOpen, ActionClose, ActionMinimize, ActionToggle, ActionLaunch:
		app, err := s.window(cmd)
		if err != nil {
			return res, err
		}
		res.Window = &app
		res.Changed = true
		return res, nil
	}

	m, err := s.Module(cmd.App)
	if err != nil {
		return res, err
	}
	switch cmd.Action {
	case ActionAdd:
		rec, err := m.Add(ctx, cmd.Payload)
		if rec != nil {
			res.Record, res.Changed = rec, true
		}
		return res, err
	case ActionUpdate:
		rec, changed, err := m.Update(ctx, cmd.ID, cmd.Payload)
		res.Record, res.Changed = rec, changed
		return res, err
	case ActionDelete:
		confirm := records.NeverConfirm
		if cmd.Confirmed {
			confirm = records.AlwaysConfirm
		}
		removed, err := m.Remove(ctx, cmd.ID, confirm)
		res.Changed = removed
		return res, err
	case ActionReset:
		res.Changed = true
		return res, m.Reset(ctx)
	case ActionFormBeginAdd:
		return s.form(res, m.BeginAdd)
	case ActionFormBeginEdit:
		return s.form(res, func() (FormSnapshot, error) { return m.BeginEdit(cmd.ID) })
	case ActionFormEdit:
		return s.form(res, func() (FormSnapshot, error) { return m.EditForm(cmd.Payload) })
	case ActionFormCancel:
		return s.form(res, func() (FormSnapshot, error) { return m.CancelForm(), nil })
	case ActionFormConfirm:
		rec, err := m.ConfirmForm(ctx)
		snap := m.Form()
		res.Form = &snap
		res.Record, res.Changed = rec, rec != nil
		return res, err
	default:
		return res, fmt.Errorf("%w: %s", ErrUnknownAction, cmd.Action)
	}
}

func (s *Service) form(res Result, fn func() (FormSnapshot, error)) (Result, error) {
	snap, err := fn()
	res.Form = &snap
	res.Changed = err == nil
	return res, err
}

func (s *Service) window(cmd Command) (shell.App, error) {
	switch cmd.Action {
	case ActionOpen:
		return s.shell.Open(cmd.App)
	case ActionClose:
		return s.shell.Close(cmd.App)
	case ActionMinimize:
		return s.shell.Minimize(cmd.App)
	case ActionToggle:
		return s.shell.Toggle(cmd.App)
	default:
		return s.shell.Launch(cmd.App)
	}
}
