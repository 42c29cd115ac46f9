package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-ezform/examples/contact"
	"github.com/goliatone/go-ezform/pkg/model"
	"github.com/goliatone/go-ezform/pkg/openapi"
	"github.com/goliatone/go-ezform/pkg/schema"
)

// loadForm resolves the form named by the flags: an OpenAPI operation when
// --openapi is set, otherwise a schema document or directory, falling back
// to the embedded contact form.
func (a *app) loadForm(ctx context.Context) (schema.Form, error) {
	if a.openapiPath != "" {
		return a.loadOpenAPIForm(ctx)
	}

	var (
		store *schema.Store
		err   error
	)
	switch {
	case a.schemaPath == "":
		store, err = schema.Parse(contact.SchemaYAML, "contact.yaml")
	default:
		store, err = loadSchemaPath(a.schemaPath)
	}
	if err != nil {
		return schema.Form{}, err
	}

	id := a.formID
	if id == "" {
		ids := store.IDs()
		if len(ids) != 1 {
			return schema.Form{}, fmt.Errorf("--form is required, available forms: %s", strings.Join(ids, ", "))
		}
		id = ids[0]
	}
	f, ok := store.Form(id)
	if !ok {
		return schema.Form{}, fmt.Errorf("form %q not found, available forms: %s", id, strings.Join(store.IDs(), ", "))
	}
	a.logger.Debug("form loaded", zap.String("form", f.ID), zap.String("source", f.Source))
	return f, nil
}

func loadSchemaPath(path string) (*schema.Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	if info.IsDir() {
		return schema.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	return schema.Parse(data, path)
}

func (a *app) loadOpenAPIForm(ctx context.Context) (schema.Form, error) {
	data, err := os.ReadFile(a.openapiPath)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: %w", err)
	}
	doc, err := openapi.New().Load(ctx, data)
	if err != nil {
		return schema.Form{}, err
	}

	id := a.operationID
	if id == "" {
		ids := doc.OperationIDs()
		if len(ids) != 1 {
			return schema.Form{}, fmt.Errorf("--operation is required, available operations: %s", strings.Join(ids, ", "))
		}
		id = ids[0]
	}
	f, err := doc.Form(id)
	if err != nil {
		return schema.Form{}, err
	}
	a.logger.Debug("form imported", zap.String("operation", id), zap.Int("fields", len(f.Fields)))
	return f, nil
}

// loadRecord decodes --data. YAML is a superset of JSON so one decoder
// serves both; integers are widened to float64 to match coerced numbers.
func (a *app) loadRecord() (model.Record, error) {
	if a.dataPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(a.dataPath)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("data: decode %s: %w", a.dataPath, err)
	}
	record := make(model.Record, len(raw))
	for key, value := range raw {
		switch value.(type) {
		case int, int64, uint64:
			record[key] = cast.ToFloat64(value)
		default:
			record[key] = value
		}
	}
	return record, nil
}

// writeOutput writes data to --output, or to the command's stdout.
func (a *app) writeOutput(cmd *cobra.Command, data []byte) error {
	if a.outputPath == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(a.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("output written", zap.String("path", a.outputPath), zap.Int("bytes", len(data)))
	return nil
}
