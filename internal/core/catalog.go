package core

import (
	"context"

	"warburtonsos/internal/kv"
	"warburtonsos/internal/records"
	"warburtonsos/internal/session"
	"warburtonsos/internal/shell"
	"warburtonsos/internal/view"
)

// OpenDefaultModules opens one module per hosted mini-app, in catalog order.
func OpenDefaultModules(ctx context.Context, backend kv.Store, opts ...records.Option) ([]Module, error) {
	openers := []func() (Module, error){
		func() (Module, error) { return OpenModule(ctx, view.ProductionLines, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.Holidays, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.Repairs, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.Transactions, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.Inventory, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.Users, backend, opts...) },
		func() (Module, error) { return OpenModule(ctx, view.KPIs, backend, opts...) },
	}
	modules := make([]Module, 0, len(openers))
	for _, open := range openers {
		m, err := open()
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}

// Open builds the full desktop over backend: every mini-app module, a shell
// with the default catalog and a login gate for creds.
func Open(ctx context.Context, backend kv.Store, creds session.Credentials, opts ...Option) (*Service, error) {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	modules, err := OpenDefaultModules(ctx, backend, records.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	gate := session.NewGate(backend, creds, o.logger)
	return NewService(modules, shell.New(shell.DefaultCatalog()), gate, opts...), nil
}
