// Package app wires the definition loader, the trait registry, and the
// compiler together behind one façade the CLI calls into.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/pipewright/pipewright/internal/compiler"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/loader"
	"github.com/pipewright/pipewright/internal/trait"
)

// Config holds everything an App instance needs to run.
type Config struct {
	DefinitionPath string
	LogFormat      string
	LogLevel       string
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	traits   *trait.Registry
	compiler *compiler.Compiler
}

// New returns a fully initialized App with its own isolated logger and
// trait registry. When no modules are given the built-in trait set is
// registered.
func New(outW io.Writer, cfg *Config, modules ...trait.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := trait.NewRegistry()
	if len(modules) == 0 {
		modules = builtinTraits
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Trait modules registered.", "count", len(modules), "traits", reg.Names())

	return &App{
		outW:     outW,
		logger:   logger,
		traits:   reg,
		compiler: compiler.New(reg),
	}
}

// Traits returns the application's trait registry. Primarily for testing.
func (a *App) Traits() *trait.Registry {
	return a.traits
}

// Compile loads the definition at path through the front-end matching its
// extension and compiles it.
func (a *App) Compile(ctx context.Context, path string) (*compiler.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	l, err := loader.ForPath(path)
	if err != nil {
		return nil, err
	}

	def, err := l.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Definition loaded.", "path", path, "variants", len(def.Variants))

	return a.compiler.Compile(ctx, def)
}
