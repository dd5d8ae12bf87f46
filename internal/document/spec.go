// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Format names a document decoder.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatHCL     Format = "hcl"
	FormatMsgpack Format = "msgpack"
)

// formatAliases maps user-facing names, including file extensions, to a
// Format.
var formatAliases = map[string]Format{
	"":        FormatAuto,
	"auto":    FormatAuto,
	"json":    FormatJSON,
	"tfstate": FormatJSON,
	"yaml":    FormatYAML,
	"yml":     FormatYAML,
	"hcl":     FormatHCL,
	"tfvars":  FormatHCL,
	"msgpack": FormatMsgpack,
	"mp":      FormatMsgpack,
	"mpk":     FormatMsgpack,
}

// ErrUnknownFormat is returned for an unrecognized ::FORMAT suffix.
var ErrUnknownFormat = errors.New("unknown document format")

// Spec is a parsed document argument: where to read it and how to decode it.
type Spec struct {
	Location string
	Format   Format
}

// ParseSpec parses LOCATION[::FORMAT]. LOCATION is a file path, "-" for
// stdin, or an s3:// URL.
func ParseSpec(s string) (Spec, error) {
	if s == "" {
		return Spec{}, errors.New("empty document spec")
	}

	location, suffix := s, ""
	if i := strings.LastIndex(s, "::"); i >= 0 {
		location, suffix = s[:i], s[i+2:]
	}
	if location == "" {
		return Spec{}, fmt.Errorf("document spec %q has no location", s)
	}

	format, ok := formatAliases[strings.ToLower(suffix)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, suffix)
	}

	return Spec{Location: location, Format: format}, nil
}

// MustParseSpec is ParseSpec for literals known to be valid.
func MustParseSpec(s string) Spec {
	spec, err := ParseSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

func (s Spec) String() string {
	if s.Format == "" || s.Format == FormatAuto {
		return s.Location
	}
	return s.Location + "::" + string(s.Format)
}

// IsStdin reports whether the document is read from standard input.
func (s Spec) IsStdin() bool {
	return s.Location == "-"
}

// IsS3 reports whether the document is read from S3.
func (s Spec) IsS3() bool {
	return strings.HasPrefix(s.Location, "s3://")
}

// Name is a short display name for the document.
func (s Spec) Name() string {
	switch {
	case s.IsStdin():
		return "stdin"
	case s.IsS3():
		return s.Location
	}
	return filepath.Base(s.Location)
}

// formatFor resolves FormatAuto, first by extension and then by sniffing the
// body.
func (s Spec) formatFor(data []byte) Format {
	if s.Format != "" && s.Format != FormatAuto {
		return s.Format
	}

	loc := s.Location
	if s.IsS3() {
		if u, err := url.Parse(loc); err == nil {
			loc = u.Path
		}
	}
	loc = strings.TrimSuffix(strings.ToLower(loc), ".backup")
	if f, ok := formatAliases[strings.TrimPrefix(path.Ext(loc), ".")]; ok && f != FormatAuto {
		return f
	}

	return sniff(data)
}

// sniff guesses a format from the first significant byte.
func sniff(data []byte) Format {
	if len(data) > 0 && isMsgpackContainer(data[0]) {
		return FormatMsgpack
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// isMsgpackContainer reports whether b starts a msgpack map or array. None of
// these bytes can begin a text document.
func isMsgpackContainer(b byte) bool {
	return (b >= 0x80 && b <= 0x9f) || b == 0xdc || b == 0xdd || b == 0xde || b == 0xdf
}
