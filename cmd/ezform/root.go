package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-ezform/pkg/renderers/tui"
)

var errFormInvalid = errors.New("form is invalid")

// app holds the flag values shared by every command.
type app struct {
	schemaPath   string
	formID       string
	openapiPath  string
	operationID  string
	dataPath     string
	outputPath   string
	format       string
	templatesDir string
	presetPath   string
	action       string
	validate     bool
	metrics      bool
	verbose      bool

	driver tui.PromptDriver
	logger *zap.Logger
}

func newApp() *app {
	return &app{logger: zap.NewNop()}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ezform",
		Short:         "Validate, render and fill declarative forms",
		Long:          `ezform loads a form schema (YAML/JSON document or OpenAPI operation), validates records against it, renders it as HTML, or fills it interactively in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = newLogger(a.verbose, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.schemaPath, "schema", "", "schema document or directory (defaults to the built-in contact form)")
	flags.StringVar(&a.formID, "form", "", "form id inside the schema documents")
	flags.StringVar(&a.openapiPath, "openapi", "", "OpenAPI document to import the form from")
	flags.StringVar(&a.operationID, "operation", "", "OpenAPI operation id")
	flags.StringVar(&a.dataPath, "data", "", "JSON or YAML record laid over the form data")
	flags.StringVar(&a.outputPath, "output", "", "output file (stdout if empty)")
	flags.StringVar(&a.format, "format", "", "output format (validate: json|text, fill: json|pretty)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newValidateCmd(a), newRenderCmd(a), newFillCmd(a))
	return root
}

// newLogger writes JSON at info level, or human readable output at debug
// level when verbose is set.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}
