// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Mode controls whether an initializer actually executes its scripts.
type Mode int

const (
	// ModeUnset is the zero value. Scripts are not executed.
	ModeUnset Mode = iota
	// ModeAlways executes scripts every time the initializer runs.
	ModeAlways
	// ModeEmbedded executes scripts only against an embedded datastore.
	ModeEmbedded
	// ModeNever never executes scripts.
	ModeNever
)

// ParseMode parses a mode name. The empty string yields ModeUnset.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ModeUnset, nil
	case "always":
		return ModeAlways, nil
	case "embedded":
		return ModeEmbedded, nil
	case "never":
		return ModeNever, nil
	}
	return ModeUnset, fmt.Errorf("invalid initialization mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeEmbedded:
		return "embedded"
	case ModeNever:
		return "never"
	}
	return "unset"
}

// shouldRun reports whether scripts run against a target with the given
// embedded status.
func (m Mode) shouldRun(embedded bool) bool {
	return m == ModeAlways || (m == ModeEmbedded && embedded)
}

// DefaultSeparator is the statement separator used when none is configured.
const DefaultSeparator = ";"

// SettingsSpec carries the raw values used to build Settings.
type SettingsSpec struct {
	SchemaLocations []string
	DataLocations   []string
	ContinueOnError bool
	Separator       string
	// Encoding is a charset name such as "ISO-8859-1". Empty means UTF-8.
	Encoding string
}

// Settings is the immutable bundle handed to the script executor.
type Settings struct {
	schemaLocations []string
	dataLocations   []string
	continueOnError bool
	separator       string
	encodingName    string
	encoding        encoding.Encoding
}

// NewSettings validates spec and returns the corresponding Settings.
// An unknown charset name is an error.
func NewSettings(spec SettingsSpec) (Settings, error) {
	s := Settings{
		schemaLocations: slices.Clone(spec.SchemaLocations),
		dataLocations:   slices.Clone(spec.DataLocations),
		continueOnError: spec.ContinueOnError,
		separator:       spec.Separator,
		encodingName:    strings.TrimSpace(spec.Encoding),
	}
	if s.separator == "" {
		s.separator = DefaultSeparator
	}
	if s.encodingName != "" {
		enc, err := htmlindex.Get(s.encodingName)
		if err != nil {
			return Settings{}, fmt.Errorf("sql script encoding %q: %w", s.encodingName, err)
		}
		s.encoding = enc
	}
	return s, nil
}

func (s Settings) SchemaLocations() []string { return slices.Clone(s.schemaLocations) }
func (s Settings) DataLocations() []string   { return slices.Clone(s.dataLocations) }
func (s Settings) ContinueOnError() bool     { return s.continueOnError }

// Separator returns the statement separator, never empty.
func (s Settings) Separator() string {
	if s.separator == "" {
		return DefaultSeparator
	}
	return s.separator
}

// Encoding returns the configured charset name, or "" for UTF-8.
func (s Settings) Encoding() string { return s.encodingName }

// decode converts script bytes to a string using the configured charset.
func (s Settings) decode(b []byte) (string, error) {
	if s.encoding == nil {
		return string(b), nil
	}
	out, err := s.encoding.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", s.encodingName, err)
	}
	return string(out), nil
}
