package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/goliatone/go-ezform/pkg/coerce"
	"github.com/goliatone/go-ezform/pkg/model"
)

const defaultMaxAttempts = 3

// Controller is the subset of the form controller a session drives.
type Controller interface {
	Fields() []model.Field
	State(name string) (model.FieldState, bool)
	HandleBlur(record model.Record, name string, raw any) (model.Record, error)
	ValidateAll(record model.Record) bool
}

// Session fills a record interactively. Every answer is committed through
// HandleBlur and the result is submitted through ValidateAll.
type Session struct {
	driver      PromptDriver
	format      OutputFormat
	maxAttempts int
	theme       Theme
	logger      *zap.Logger
}

// New builds a session backed by the survey driver unless overridden.
func New(options ...Option) *Session {
	s := &Session{
		format:      OutputFormatJSON,
		maxAttempts: defaultMaxAttempts,
		theme:       Theme{ErrorPrefix: "! ", InfoPrefix: "- "},
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts every field in schema order starting from record and returns
// the final record. When the record is still invalid after the allowed
// correction rounds the last record is returned together with ErrInvalid.
func (s *Session) Run(ctx context.Context, ctrl Controller, record model.Record) (model.Record, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("tui: controller is required")
	}
	current := record.Clone()
	fields := ctrl.Fields()

	for _, field := range fields {
		var err error
		if current, err = s.promptField(ctx, ctrl, current, field); err != nil {
			return current, err
		}
	}

	for round := 0; ; round++ {
		if ctrl.ValidateAll(current) {
			s.logger.Debug("tui submit", zap.Int("round", round), zap.Bool("valid", true))
			return current, nil
		}
		s.logger.Debug("tui submit", zap.Int("round", round), zap.Bool("valid", false))
		if round >= s.maxAttempts {
			return current, ErrInvalid
		}
		for _, field := range fields {
			state, ok := ctrl.State(field.Name)
			if !ok || state.IsValid {
				continue
			}
			if err := s.report(ctx, field, state); err != nil {
				return current, err
			}
			var err error
			if current, err = s.promptField(ctx, ctrl, current, field); err != nil {
				return current, err
			}
		}
	}
}

func (s *Session) promptField(ctx context.Context, ctrl Controller, record model.Record, field model.Field) (model.Record, error) {
	if field.Type == model.FieldTypeObject {
		msg := fmt.Sprintf("%sskipping %s: object values cannot be edited here", s.theme.InfoPrefix, field.Name)
		return record, s.driver.Info(ctx, msg)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return record, err
		}
		raw, err := s.ask(ctx, field, record[field.Name])
		if err != nil {
			return record, fmt.Errorf("tui: prompt %s: %w", field.Name, err)
		}
		next, err := ctrl.HandleBlur(record, field.Name, raw)
		if err != nil {
			return record, err
		}
		record = next

		state, _ := ctrl.State(field.Name)
		s.logger.Debug("tui answer",
			zap.String("field", field.Name),
			zap.Int("attempt", attempt),
			zap.Bool("valid", state.IsValid),
		)
		if state.IsValid {
			return record, nil
		}
		if err := s.report(ctx, field, state); err != nil {
			return record, err
		}
	}
	return record, nil
}

func (s *Session) report(ctx context.Context, field model.Field, state model.FieldState) error {
	for _, msg := range state.Messages {
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

// ask shows the prompt matching the field and returns the raw control value.
func (s *Session) ask(ctx context.Context, field model.Field, current any) (any, error) {
	message := promptLabel(field)
	help := field.Control.Attributes["placeholder"]

	switch {
	case field.Type == model.FieldTypeBoolean:
		return s.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: coerce.Boolean(current),
			Help:    help,
		})
	case field.Control.Tag == model.TagSelect:
		labels := make([]string, len(field.Control.Options))
		selected := 0
		for i, option := range field.Control.Options {
			labels[i] = option.Text
			if sameValue(option.ID, current) {
				selected = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: selected,
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Control.Options) {
			return nil, fmt.Errorf("option index %d out of range", idx)
		}
		return field.Control.Options[idx].ID, nil
	case field.Control.Tag == model.TagTextarea:
		return s.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: displayValue(current),
			Help:    help,
		})
	case strings.EqualFold(field.Control.Attributes["type"], "password"):
		return s.driver.Password(ctx, InputConfig{Message: message, Help: help})
	default:
		return s.driver.Input(ctx, InputConfig{
			Message: message,
			Default: displayValue(current),
			Help:    help,
		})
	}
}

func promptLabel(field model.Field) string {
	if text := strings.TrimSpace(field.Label.Text); text != "" {
		return text
	}
	return "[" + field.Name + "]"
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return displayValue(a) == displayValue(b)
}

// displayValue renders a record value as prompt text. NaN renders empty.
func displayValue(value any) string {
	if value == nil || coerce.IsNaN(value) {
		return ""
	}
	return cast.ToString(value)
}
