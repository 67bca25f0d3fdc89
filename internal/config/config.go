// Package config loads and validates run manifests.
package config

import (
	"errors"
	"fmt"
	stdruntime "runtime"
	"time"
)

const defaultTimeout = 60 * time.Second

// Duration is a time.Duration that unmarshals from the textual form
// manifests use ("90s", "2m"). An empty value means unset.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Options is the run configuration handed to OS contexts. The context
// layer itself only reads Device; the remaining fields drive command
// construction and scheduling.
type Options struct {
	TargetOS string            `yaml:"target_os"`
	Device   string            `yaml:"device"`
	Outdir   string            `yaml:"outdir"`
	Shell    string            `yaml:"shell"`
	Jobs     int               `yaml:"jobs"`
	Timeout  Duration          `yaml:"timeout"`
	Env      map[string]string `yaml:"env"`
	Tests    []Test            `yaml:"tests"`
}

// Test names one invocation of the shell binary.
type Test struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// ApplyDefaults fills unset fields with their defaults.
func (o *Options) ApplyDefaults() {
	if o.Jobs <= 0 {
		o.Jobs = stdruntime.NumCPU()
	}
	if o.Timeout.Duration <= 0 {
		o.Timeout.Duration = defaultTimeout
	}
	if o.Outdir == "" {
		o.Outdir = "out"
	}
}

// Validate checks the manifest for structural problems the schema cannot
// express.
func (o *Options) Validate() error {
	if o.Shell == "" {
		return errors.New("run manifest: shell is required")
	}
	if len(o.Tests) == 0 {
		return errors.New("run manifest: at least one test is required")
	}
	seen := make(map[string]struct{}, len(o.Tests))
	for i, test := range o.Tests {
		if test.Name == "" {
			return fmt.Errorf("run manifest: tests[%d] has no name", i)
		}
		if _, dup := seen[test.Name]; dup {
			return fmt.Errorf("run manifest: duplicate test name %q", test.Name)
		}
		seen[test.Name] = struct{}{}
	}
	return nil
}
