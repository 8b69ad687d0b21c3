// Package cli defines the pipewright command tree.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipewright/pipewright/internal/app"
)

var (
	logLevel  string
	logFormat string
)

// NewRootCommand builds the pipewright command tree. Compiled output goes
// to outW; logs go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pipewright",
		Short: "Compile declarative pipeline definitions into execution plans",
		Long: `pipewright reads a pipeline definition (YAML or HCL), merges variant
inheritance, applies traits, and produces a validated, ordered execution plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(logFormat) {
			case "text", "json":
			default:
				return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", logFormat)
			}
			switch strings.ToLower(logLevel) {
			case "debug", "info", "warn", "error":
			default:
				return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", logLevel)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")

	root.AddCommand(newCompileCommand(outW, errW))
	root.AddCommand(newGraphCommand(outW, errW))
	return root
}

func newApp(errW io.Writer, path string) *app.App {
	return app.New(errW, &app.Config{
		DefinitionPath: path,
		LogFormat:      strings.ToLower(logFormat),
		LogLevel:       strings.ToLower(logLevel),
	})
}

// newCompileCommand compiles a definition and prints the JSON execution plan.
func newCompileCommand(outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "compile DEFINITION",
		Short: "Compile a definition and print the execution plan as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(errW, args[0])
			result, err := a.Compile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.RenderPlan(outW, result)
		},
	}
}

// newGraphCommand compiles a definition and prints each variant's step
// batches as plain text.
func newGraphCommand(outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "graph DEFINITION",
		Short: "Compile a definition and print the ordered step batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(errW, args[0])
			result, err := a.Compile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.RenderGraph(outW, result)
		},
	}
}
