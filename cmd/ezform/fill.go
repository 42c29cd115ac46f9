package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/orchestrator"
	"github.com/goliatone/go-ezform/pkg/renderers/tui"
)

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively in the terminal",
		Long:  `Prompts for every field in schema order, showing validation messages as answers are committed, and prints the final record once it validates.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runFill(cmd)
		},
	}
}

func (a *app) runFill(cmd *cobra.Command) error {
	ctx := cmd.Context()
	f, err := a.loadForm(ctx)
	if err != nil {
		return err
	}
	record, err := a.loadRecord()
	if err != nil {
		return err
	}

	session, err := orchestrator.New(orchestrator.WithLogger(a.logger)).Prepare(ctx, orchestrator.Request{Form: f, Record: record})
	if err != nil {
		return err
	}

	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	filler := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(tui.OutputFormat(a.format)),
		tui.WithLogger(a.logger),
	)

	result, err := filler.Run(ctx, session.Controller, session.Record)
	if err != nil {
		return err
	}
	a.logger.Debug("form filled", zap.String("form", f.ID))

	out, err := filler.Encode(session.Form.Fields, result)
	if err != nil {
		return err
	}
	return a.writeOutput(cmd, out)
}
