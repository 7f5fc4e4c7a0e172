// Package id generates prefixed identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RunPrefix marks pipeline run identifiers.
const RunPrefix = "run"

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "run-V1StGXR8_Z5jdHi6B-myT").
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewRun returns an identifier for one pipeline run. It ties together the
// log line, the response and any diagnostic produced by that run.
func NewRun() string {
	return MustGenerate(RunPrefix)
}
