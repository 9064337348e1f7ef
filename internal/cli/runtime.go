package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/core"
	"warburtonsos/internal/kv"
	"warburtonsos/internal/report"
	"warburtonsos/pkg/domain"
)

// runtime is everything a command needs once config is loaded.
type runtime struct {
	logger   *zap.Logger
	kv       kv.Store
	blobs    blob.Store
	archive  *report.Archive
	service  *core.Service
	activity *core.ActivityLog
	registry *prometheus.Registry
	expvar   *core.ExpvarMetricsRecorder
}

func bootstrap(ctx context.Context, opts *RootOptions) (*runtime, error) {
	if opts.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	cfg := opts.cfg
	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	blobs, err := blob.Open(ctx, cfg.Archive)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open archive: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := core.NewPrometheusMetricsRecorder(registry)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	expvarRec := core.NewExpvarMetricsRecorder("")
	activity := core.NewActivityLog(nil, cfg.HTTP.TraceLimit)

	svc, err := core.Open(ctx, store, cfg.Credentials,
		core.WithLogger(opts.logger),
		core.WithMetricsRecorder(core.CombineMetricsRecorders(prom, expvarRec)),
		core.WithTracer(activity),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	opts.logger.Info("desktop ready",
		zap.String("storage", string(store.Driver())),
		zap.String("archive", string(blobs.Driver())),
		zap.Int("apps", len(svc.Modules())))
	return &runtime{
		logger:   opts.logger,
		kv:       store,
		blobs:    blobs,
		archive:  report.NewArchive(blobs, opts.logger),
		service:  svc,
		activity: activity,
		registry: registry,
		expvar:   expvarRec,
	}, nil
}

func (r *runtime) Close() error { return r.kv.Close() }

func (r *runtime) module(app string) (core.Module, error) {
	return r.service.Module(domain.AppID(app))
}
