// Package template wraps pongo2 behind a small rendering contract used by the
// HTML renderer. Templates load from an fs.FS, a directory on disk, or both;
// a directory shadows the fs.FS so hosts can override individual templates
// while includes still resolve against the bundle.
package template
