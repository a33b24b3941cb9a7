package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	plugininadapter "certflow/internal/modules/plugin/adapter/in"
	pluginoutadapter "certflow/internal/modules/plugin/adapter/out"
	plugindomain "certflow/internal/modules/plugin/domain"
	pluginservice "certflow/internal/modules/plugin/service"
	pluginusecase "certflow/internal/modules/plugin/usecase"
	resolverinadapter "certflow/internal/modules/resolver/adapter/in"
	resolveroutadapter "certflow/internal/modules/resolver/adapter/out"
	resolverdomain "certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
	resolverservice "certflow/internal/modules/resolver/service"
	resolverusecase "certflow/internal/modules/resolver/usecase"
	"certflow/internal/platform/clock"
	"certflow/internal/platform/config"
	"certflow/internal/platform/id"
	"certflow/internal/platform/logging"
)

type App struct {
	PluginCLI   plugininadapter.CLIHandler
	ResolverCLI resolverinadapter.CLIHandler
	planLog     *resolveroutadapter.SQLitePlanLog
}

// Streams are the operator's terminal ends.
type Streams struct {
	In  *os.File
	Out *os.File
	Err io.Writer
}

func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func CurrentScope() plugindomain.Scope {
	return plugindomain.Scope{OS: runtime.GOOS, Elevated: os.Geteuid() == 0}
}

func New(ctx context.Context, cfg config.Config, streams Streams) (*App, error) {
	logger := logging.New(streams.Err, cfg.Log.Level)
	scope := CurrentScope()

	manifests := pluginoutadapter.NewFileManifestStore(cfg.Plugins.Path)
	host := pluginoutadapter.NewGRPCHost()
	catalog := pluginservice.NewCatalogService(
		scope,
		manifests,
		host,
		pluginoutadapter.NewBuiltinRegistry(),
		pluginservice.NewExternalRegistry(manifests, host),
	)
	if err := catalog.Load(ctx); err != nil {
		return nil, fmt.Errorf("load plugin catalog: %w", err)
	}

	planLog, err := resolveroutadapter.NewSQLitePlanLog(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("new plan log: %w", err)
	}

	planSvc := resolverservice.NewPlanService(resolverservice.Options{
		Catalog:  catalog,
		Console:  newConsole(streams),
		Logger:   logger,
		Scope:    scope,
		Defaults: Defaults(cfg),
	}, planLog, clock.SystemClock{}, id.RandomHex{})

	return &App{
		PluginCLI:   plugininadapter.NewCLIHandler(pluginusecase.NewInteractor(catalog)),
		ResolverCLI: resolverinadapter.NewCLIHandler(resolverusecase.NewInteractor(planSvc)),
		planLog:     planLog,
	}, nil
}

func (a *App) Close() error {
	if a.planLog == nil {
		return nil
	}
	return a.planLog.Close()
}

// Defaults maps the settings snapshot onto the resolver's step defaults.
func Defaults(cfg config.Config) resolverdomain.Defaults {
	return resolverdomain.Defaults{
		Source:         cfg.Source.DefaultSource,
		Validation:     cfg.Validation.DefaultValidation,
		ValidationMode: cfg.Validation.DefaultValidationMode,
		Order:          cfg.Order.DefaultPlugin,
		Csr:            cfg.Csr.DefaultCsr,
		Store:          cfg.Store.DefaultStore,
		Installation:   cfg.Installation.DefaultInstallation,
	}
}

// newConsole uses the bubbletea menu when both ends are terminals and the
// numbered line menu otherwise.
func newConsole(streams Streams) resolverout.Console {
	if streams.In != nil && streams.Out != nil &&
		term.IsTerminal(int(streams.In.Fd())) && term.IsTerminal(int(streams.Out.Fd())) {
		width, _, err := term.GetSize(int(streams.Out.Fd()))
		if err != nil {
			width = 80
		}
		return resolveroutadapter.NewTUIConsole(streams.In, streams.Out, width)
	}
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if streams.In != nil {
		in = streams.In
	}
	if streams.Out != nil {
		out = streams.Out
	}
	return resolveroutadapter.NewLineConsole(in, out)
}
