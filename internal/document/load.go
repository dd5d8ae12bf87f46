// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	awsx "github.com/tfctl/datadiff/internal/aws"
	"github.com/tfctl/datadiff/internal/log"
)

// Document is a loaded and decoded document.
type Document struct {
	Spec   Spec
	Format Format
	// Raw is the body as read, before decryption.
	Raw   []byte
	Value any
}

// Size is the length of the raw body in bytes.
func (d *Document) Size() int {
	return len(d.Raw)
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.Spec.Name(), d.Format, humanize.Bytes(uint64(d.Size()))) //nolint:gosec
}

// ErrSelectNotFound is returned when a select path matches nothing.
var ErrSelectNotFound = errors.New("select path not found")

type options struct {
	passphrase string
	prompt     func(name string) (string, error)
	selectPath string
	stdin      io.Reader
	s3         awsx.ObjectAPI
	awsOpts    []awsx.Option
	endpoint   string
}

// Option customizes Load.
type Option func(*options)

// WithPassphrase supplies the passphrase for encrypted documents.
func WithPassphrase(p string) Option {
	return func(o *options) { o.passphrase = p }
}

// WithPrompt replaces the interactive passphrase prompt.
func WithPrompt(prompt func(name string) (string, error)) Option {
	return func(o *options) { o.prompt = prompt }
}

// WithSelect narrows the document to the subtree at a Drill path.
func WithSelect(path string) Option {
	return func(o *options) { o.selectPath = path }
}

// WithStdin sets the reader used for the "-" location.
func WithStdin(r io.Reader) Option {
	return func(o *options) { o.stdin = r }
}

// WithS3Client sets the client used for s3:// locations.
func WithS3Client(api awsx.ObjectAPI) Option {
	return func(o *options) { o.s3 = api }
}

// WithAWS sets the AWS config overrides used when a client has to be built.
func WithAWS(opts ...awsx.Option) Option {
	return func(o *options) { o.awsOpts = append(o.awsOpts, opts...) }
}

// WithS3Endpoint points a built client at an S3-compatible service.
func WithS3Endpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// Loader loads several documents with the same options. A passphrase
// obtained by prompting and a built S3 client are reused across loads.
type Loader struct {
	opts options
}

// NewLoader returns a Loader configured by opts.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{opts: options{stdin: os.Stdin, prompt: PromptPassphrase}}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

// Load reads, decrypts and decodes the document named by spec.
func Load(ctx context.Context, spec Spec, opts ...Option) (*Document, error) {
	return NewLoader(opts...).Load(ctx, spec)
}

// Load reads, decrypts and decodes the document named by spec.
func (l *Loader) Load(ctx context.Context, spec Spec) (*Document, error) {
	o := &l.opts

	raw, err := read(ctx, spec, o)
	if err != nil {
		return nil, err
	}
	log.Debugf("read %s: %d bytes", spec, len(raw))

	body := raw
	if IsEncrypted(raw) {
		passphrase, err := o.resolvePassphrase(spec.Name())
		if err != nil {
			return nil, err
		}
		if body, err = DecryptOpenTofuState(raw, passphrase); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name(), err)
		}
	}

	doc := &Document{Spec: spec, Format: spec.formatFor(body), Raw: raw}
	if doc.Value, err = Decode(doc.Format, body, spec.Name()); err != nil {
		return nil, err
	}

	if o.selectPath != "" {
		if doc.Value, err = selectValue(doc.Value, o.selectPath); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Name(), err)
		}
	}

	log.Debugf("loaded %s", doc)
	log.Dump(spec.Name(), doc.Value)
	return doc, nil
}

func read(ctx context.Context, spec Spec, o *options) ([]byte, error) {
	switch {
	case spec.IsStdin():
		data, err := io.ReadAll(o.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil

	case spec.IsS3():
		obj, err := awsx.ParseURL(spec.Location)
		if err != nil {
			return nil, err
		}
		api := o.s3
		if api == nil {
			cfg, err := awsx.LoadAWSConfig(ctx, o.awsOpts...)
			if err != nil {
				return nil, fmt.Errorf("failed to load AWS config: %w", err)
			}
			client := awsx.NewS3(cfg, awsx.WithEndpoint(o.endpoint))
			o.s3 = client
			api = client
		}
		return awsx.Fetch(ctx, api, obj)
	}

	data, err := os.ReadFile(spec.Location)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.Location, err)
	}
	return data, nil
}

// resolvePassphrase takes the option, then DATADIFF_PASSPHRASE, then
// TF_VAR_passphrase, then the prompt.
func (o *options) resolvePassphrase(name string) (string, error) {
	if o.passphrase != "" {
		return o.passphrase, nil
	}
	for _, env := range []string{"DATADIFF_PASSPHRASE", "TF_VAR_passphrase"} {
		if p := os.Getenv(env); p != "" {
			log.Debugf("passphrase for %s from %s", name, env)
			return p, nil
		}
	}
	if o.prompt == nil {
		return "", ErrNoPassphrase
	}
	p, err := o.prompt(name)
	if err != nil {
		return "", err
	}
	// The other side of a diff is usually the same state, so ask once.
	o.passphrase = p
	return p, nil
}

// selectValue narrows v to the subtree at path. Values are round-tripped
// through JSON, so dates become strings.
func selectValue(v any, path string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", path, err)
	}
	result := Drill(string(data), path)
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %q", ErrSelectNotFound, path)
	}
	return result.Value(), nil
}
