package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/metrics"
	"github.com/goliatone/go-ezform/pkg/orchestrator"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a record against a form",
		Long:  `Runs every validator of the form against the record built from the form data and --data, and reports the messages of each invalid field. Exits with status 2 when the record is invalid.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runValidate(cmd)
		},
	}
	cmd.Flags().BoolVar(&a.metrics, "metrics", false, "print validation counters in Prometheus text format on stderr")
	return cmd
}

func (a *app) runValidate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	f, err := a.loadForm(ctx)
	if err != nil {
		return err
	}
	record, err := a.loadRecord()
	if err != nil {
		return err
	}

	options := []orchestrator.Option{orchestrator.WithLogger(a.logger)}
	var collector *metrics.Collector
	if a.metrics {
		if collector, err = metrics.NewCollector(""); err != nil {
			return err
		}
		options = append(options, orchestrator.WithObserver(collector))
	}

	report, err := orchestrator.New(options...).Validate(ctx, orchestrator.Request{Form: f, Record: record})
	if err != nil {
		return err
	}
	a.logger.Debug("record validated", zap.String("form", f.ID), zap.Bool("valid", report.Valid))

	out, err := encodeReport(report, a.format)
	if err != nil {
		return err
	}
	if err := a.writeOutput(cmd, out); err != nil {
		return err
	}
	if collector != nil {
		if err := collector.WriteText(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if !report.Valid {
		return errFormInvalid
	}
	return nil
}

func encodeReport(report orchestrator.Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "json":
		report.Record = coerce.JSONSafe(report.Record)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return append(data, '\n'), nil
	case "text":
		var buf bytes.Buffer
		if report.Valid {
			buf.WriteString("valid\n")
			return buf.Bytes(), nil
		}
		buf.WriteString("invalid\n")
		for _, name := range report.InvalidFields() {
			fmt.Fprintf(&buf, "  %s: %s\n", name, strings.Join(report.Errors[name], "; "))
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported validate format %q (json|text)", format)
	}
}
