// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package document

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha512"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/pbkdf2"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// drillTestCase represents a single test case for TestDrill.
type drillTestCase struct {
	Name     string                 `yaml:"name"`
	JSON     map[string]interface{} `yaml:"json"`
	Path     string                 `yaml:"path"`
	Expected string                 `yaml:"expected"`
	Missing  bool                   `yaml:"missing"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v interface{}) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestDrill(t *testing.T) {
	var tests []drillTestCase
	require.NoError(t, loadTestData("drill_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			jsonBytes, err := json.Marshal(tt.JSON)
			require.NoError(t, err)

			result := Drill(string(jsonBytes), tt.Path)
			if tt.Missing {
				assert.False(t, result.Exists(), "got %s", result.Raw)
				return
			}
			require.True(t, result.Exists())
			assert.Equal(t, tt.Expected, result.String())
		})
	}
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    Spec
		wantErr bool
	}{
		{in: "a.json", want: Spec{Location: "a.json", Format: FormatAuto}},
		{in: "-", want: Spec{Location: "-", Format: FormatAuto}},
		{in: "-::yaml", want: Spec{Location: "-", Format: FormatYAML}},
		{in: "vars.txt::tfvars", want: Spec{Location: "vars.txt", Format: FormatHCL}},
		{in: "blob::MP", want: Spec{Location: "blob", Format: FormatMsgpack}},
		{in: "s3://b/k.json?versionId=~1::json", want: Spec{Location: "s3://b/k.json?versionId=~1", Format: FormatJSON}},
		{in: "a.json::", want: Spec{Location: "a.json", Format: FormatAuto}},
		{in: "a.json::xml", wantErr: true},
		{in: "::json", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSpec("a::xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Panics(t, func() { MustParseSpec("") })
}

func TestSpecNames(t *testing.T) {
	assert.Equal(t, "stdin", MustParseSpec("-").Name())
	assert.Equal(t, "app.json", MustParseSpec("/tmp/x/app.json::json").Name())
	assert.Equal(t, "s3://b/k", MustParseSpec("s3://b/k").Name())
	assert.Equal(t, "/tmp/app.json::json", MustParseSpec("/tmp/app.json::json").String())
	assert.Equal(t, "/tmp/app.json", MustParseSpec("/tmp/app.json").String())
}

func TestFormatFor(t *testing.T) {
	packed, err := msgpack.Marshal(map[string]any{"a": 1})
	require.NoError(t, err)

	tests := []struct {
		spec string
		data []byte
		want Format
	}{
		{"x.json", nil, FormatJSON},
		{"terraform.tfstate", nil, FormatJSON},
		{"terraform.tfstate.backup", nil, FormatJSON},
		{"x.YML", nil, FormatYAML},
		{"prod.tfvars", nil, FormatHCL},
		{"x.mp", nil, FormatMsgpack},
		{"s3://b/dir/x.yaml?versionId=1", nil, FormatYAML},
		{"x.json::yaml", nil, FormatYAML},
		{"-", []byte("  \n{\"a\": 1}"), FormatJSON},
		{"-", []byte("[1]"), FormatJSON},
		{"-", []byte("a: 1"), FormatYAML},
		{"-", packed, FormatMsgpack},
		{"noext", nil, FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseSpec(tt.spec).formatFor(tt.data))
		})
	}
}

func TestDecodeFormatsAgree(t *testing.T) {
	jsonDoc, err := Load(context.Background(), MustParseSpec("testdata/app.json"))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, jsonDoc.Format)
	assert.Equal(t, map[string]any{
		"name":     "web",
		"replicas": 2.0,
		"ports":    []any{80.0, 443.0},
		"env":      map[string]any{"LOG_LEVEL": "info"},
	}, jsonDoc.Value)

	yamlDoc, err := Load(context.Background(), MustParseSpec("testdata/app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, yamlDoc.Format)
	v := yamlDoc.Value.(map[string]any)
	assert.Equal(t, 3, v["replicas"])
	// Untagged timestamps stay strings, as they do in JSON.
	assert.Equal(t, "2024-06-01T10:00:00Z", v["released"])
}

func TestDecodeHCL(t *testing.T) {
	doc, err := Load(context.Background(), MustParseSpec("testdata/app.tfvars"))
	require.NoError(t, err)
	assert.Equal(t, FormatHCL, doc.Format)

	assert.Equal(t, map[string]any{
		"name":     "web",
		"replicas": int64(2),
		"ports":    []any{int64(80), int64(443)},
		"env":      map[string]any{"LOG_LEVEL": "INFO"},
		"region":   "var.region",
		"service": map[string]any{
			"web": []any{
				map[string]any{"port": int64(80)},
				map[string]any{"port": int64(443)},
			},
		},
		"listener": []any{map[string]any{"protocol": "tcp"}},
	}, doc.Value)

	_, err = Decode(FormatHCL, []byte("a = "), "bad.hcl")
	assert.ErrorContains(t, err, "bad.hcl")
}

func TestDecodeMsgpack(t *testing.T) {
	packed, err := msgpack.Marshal(map[string]any{
		"name":  "web",
		"ports": []any{80, 443},
		"meta":  map[string]any{"ok": true},
	})
	require.NoError(t, err)

	v, err := Decode(FormatMsgpack, packed, "app.mp")
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, "web", m["name"])
	assert.Len(t, m["ports"], 2)
	assert.Equal(t, map[string]any{"ok": true}, m["meta"])
}

func TestDecodeYAMLEdgeCases(t *testing.T) {
	v, err := Decode(FormatYAML, nil, "empty.yaml")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Decode(FormatYAML, []byte("1: one\ntrue: yes\n"), "keys.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "one", "true": "yes"}, v)

	_, err = Decode(FormatYAML, []byte("a: [unclosed"), "bad.yaml")
	assert.Error(t, err)

	_, err = Decode(Format("xml"), nil, "x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadStdinAndSelect(t *testing.T) {
	doc, err := Load(context.Background(), MustParseSpec("-"),
		WithStdin(strings.NewReader(`{"spec": {"containers": [{"image": "nginx:1"}]}}`)),
		WithSelect("spec.containers[0]"),
	)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"image": "nginx:1"}, doc.Value)
	assert.Contains(t, doc.String(), "stdin (json")

	_, err = Load(context.Background(), MustParseSpec("-"),
		WithStdin(strings.NewReader(`{}`)),
		WithSelect("nope"),
	)
	assert.ErrorIs(t, err, ErrSelectNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), MustParseSpec(filepath.Join(t.TempDir(), "absent.json")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEncrypted(t *testing.T) {
	plaintext := []byte(`{"version": 4, "serial": 7}`)
	dir := t.TempDir()
	path := filepath.Join(dir, "terraform.tfstate")
	require.NoError(t, os.WriteFile(path, encryptState(t, plaintext, "s3cret"), 0o600))
	spec := MustParseSpec(path)
	ctx := context.Background()

	t.Run("option", func(t *testing.T) {
		doc, err := Load(ctx, spec, WithPassphrase("s3cret"), WithPrompt(nil))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"version": 4.0, "serial": 7.0}, doc.Value)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("DATADIFF_PASSPHRASE", "s3cret")
		_, err := Load(ctx, spec, WithPrompt(nil))
		assert.NoError(t, err)
	})

	t.Run("prompt once per loader", func(t *testing.T) {
		t.Setenv("DATADIFF_PASSPHRASE", "")
		t.Setenv("TF_VAR_passphrase", "")
		prompts := 0
		loader := NewLoader(WithPrompt(func(string) (string, error) {
			prompts++
			return "s3cret", nil
		}))
		for i := 0; i < 2; i++ {
			_, err := loader.Load(ctx, spec)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, prompts)
	})

	t.Run("no passphrase", func(t *testing.T) {
		t.Setenv("DATADIFF_PASSPHRASE", "")
		t.Setenv("TF_VAR_passphrase", "")
		_, err := Load(ctx, spec, WithPrompt(nil))
		assert.ErrorIs(t, err, ErrNoPassphrase)
	})

	t.Run("prompt error", func(t *testing.T) {
		t.Setenv("DATADIFF_PASSPHRASE", "")
		t.Setenv("TF_VAR_passphrase", "")
		boom := errors.New("boom")
		_, err := Load(ctx, spec, WithPrompt(func(string) (string, error) { return "", boom }))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := Load(ctx, spec, WithPassphrase("nope"))
		assert.ErrorContains(t, err, "failed to decrypt")
	})
}

func TestIsEncrypted(t *testing.T) {
	assert.True(t, IsEncrypted(encryptState(t, []byte("{}"), "p")))
	assert.False(t, IsEncrypted([]byte(`{"encrypted_data": "x"}`)))
	assert.False(t, IsEncrypted([]byte(`{"version": 4}`)))
	assert.False(t, IsEncrypted([]byte("a: 1")))
}

func TestDecryptOpenTofuStateErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not json", "nope", "failed to parse state"},
		{"no provider", `{"meta": {"other": "x"}, "encrypted_data": ""}`, "no pbkdf2 key provider"},
		{"bad provider encoding", `{"meta": {"key_provider.pbkdf2.k": "!!"}, "encrypted_data": ""}`, "decode key provider"},
		{
			"unsupported hash",
			`{"meta": {"key_provider.pbkdf2.k": "` + base64.StdEncoding.EncodeToString([]byte(`{"salt": "", "iterations": 1, "key_length": 32, "hash_function": "md5"}`)) + `"}, "encrypted_data": ""}`,
			"unsupported pbkdf2 hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecryptOpenTofuState([]byte(tt.data), "p")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestReadPassphrase(t *testing.T) {
	var prompt strings.Builder
	got, err := readPassphrase(&prompt, "prod.tfstate", func() ([]byte, error) { return []byte("pw"), nil })
	require.NoError(t, err)
	assert.Equal(t, "pw", got)
	assert.Equal(t, "Enter passphrase for prod.tfstate: \n", prompt.String())
}

// encryptState builds an OpenTofu encrypted state envelope around plaintext.
func encryptState(t *testing.T, plaintext []byte, passphrase string) []byte {
	t.Helper()

	salt := []byte("test-salt-12345")
	iterations := 1000
	key := pbkdf2.Key([]byte(passphrase), salt, iterations, 32, sha512.New)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	aesGCM, err := cipher.NewGCM(block)
	require.NoError(t, err)
	nonce := make([]byte, aesGCM.NonceSize())
	ciphertext := aesGCM.Seal(nonce, nonce, plaintext, nil)

	kpConfig, err := json.Marshal(map[string]any{
		"salt":          base64.StdEncoding.EncodeToString(salt),
		"iterations":    iterations,
		"hash_function": "sha512",
		"key_length":    32,
	})
	require.NoError(t, err)

	state, err := json.Marshal(map[string]any{
		"meta": map[string]any{
			"key_provider.pbkdf2.mykey": base64.StdEncoding.EncodeToString(kpConfig),
		},
		"encrypted_data": base64.StdEncoding.EncodeToString(ciphertext),
	})
	require.NoError(t, err)
	return state
}
