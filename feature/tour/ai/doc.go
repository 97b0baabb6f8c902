// Package ai generates visitor-facing descriptions through an
// OpenAI-compatible chat completions endpoint.
package ai
