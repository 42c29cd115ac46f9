package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-ezform/pkg/orchestrator"
	"github.com/goliatone/go-ezform/pkg/render"
	"github.com/goliatone/go-ezform/pkg/renderers/html"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a form as HTML",
		Long:  `Renders the form with the embedded HTML templates, or with templates from --templates layered over them. With --validate every error is shown, as after a submit attempt.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&a.templatesDir, "templates", "", "directory with templates overriding the embedded ones")
	flags.StringVar(&a.presetPath, "preset", "", "JSON preset adjusting labels, attributes and data")
	flags.StringVar(&a.action, "action", "", "form action URL")
	flags.BoolVar(&a.validate, "validate", false, "validate the record before rendering")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command) error {
	ctx := cmd.Context()
	f, err := a.loadForm(ctx)
	if err != nil {
		return err
	}
	record, err := a.loadRecord()
	if err != nil {
		return err
	}

	var htmlOptions []html.Option
	if a.templatesDir != "" {
		htmlOptions = append(htmlOptions, html.WithTemplatesDir(a.templatesDir))
	}
	renderer, err := html.New(htmlOptions...)
	if err != nil {
		return err
	}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		return err
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(a.logger),
	}
	if a.presetPath != "" {
		data, err := os.ReadFile(a.presetPath)
		if err != nil {
			return fmt.Errorf("preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return err
		}
		options = append(options, orchestrator.WithTransformer(preset))
	}

	out, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Form:          f,
		Record:        record,
		Validate:      a.validate,
		RenderOptions: render.RenderOptions{Action: a.action},
	})
	if err != nil {
		return err
	}
	return a.writeOutput(cmd, out)
}
