package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a run manifest from the provided path, validates it against
// the embedded schema and applies defaults.
func Load(path string) (*Options, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("open run manifest: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}
	if err := validateAgainstSchema(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	var opts Options
	if err := decoder.Decode(&opts); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}

	opts.Device = os.ExpandEnv(opts.Device)
	opts.Shell = os.ExpandEnv(opts.Shell)
	opts.Outdir = os.ExpandEnv(opts.Outdir)
	for k, v := range opts.Env {
		opts.Env[k] = os.ExpandEnv(v)
	}

	opts.ApplyDefaults()
	opts.Outdir = resolveOutdir(filepath.Dir(absPath), opts.Outdir)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", absPath, err)
	}
	return &opts, nil
}

func resolveOutdir(base, outdir string) string {
	if outdir == "" {
		return outdir
	}
	if filepath.IsAbs(outdir) {
		return filepath.Clean(outdir)
	}
	return filepath.Clean(filepath.Join(base, outdir))
}
