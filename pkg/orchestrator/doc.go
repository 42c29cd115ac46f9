// Package orchestrator wires the schema form → transformer → controller →
// view → renderer pipeline behind a single entry point used by the CLI and
// the root package.
package orchestrator
