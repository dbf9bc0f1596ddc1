package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-mdview/internal/yamlutil"
)

type testConfig struct {
	Name    string `yaml:"name"`
	Count   int    `yaml:"count"`
	Enabled bool   `yaml:"enabled"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ncount: 42\nenabled: true"),
			dest: &testConfig{},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "test" || cfg.Count != 42 || !cfg.Enabled {
					t.Errorf("got %+v", cfg)
				}
			},
		},
		{
			name: "absent fields keep defaults",
			data: []byte("name: override"),
			dest: &testConfig{Name: "default", Count: 7, Enabled: true},
			check: func(t *testing.T, v any) {
				cfg := v.(*testConfig)
				if cfg.Name != "override" {
					t.Errorf("Name = %q, want override", cfg.Name)
				}
				if cfg.Count != 7 || !cfg.Enabled {
					t.Errorf("defaults lost: %+v", cfg)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: test"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

func TestUnmarshalStrict_DecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unknown field", data: "name: test\nunknown: value"},
		{name: "invalid syntax", data: "name: [unclosed"},
		{name: "wrong type", data: "count: many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict([]byte(tt.data), &testConfig{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var yerr *yamlutil.Error
			if !errors.As(err, &yerr) {
				t.Fatalf("error type = %T, want *yamlutil.Error", err)
			}
			if !strings.HasPrefix(err.Error(), "yamlutil:") {
				t.Errorf("error = %q, want yamlutil prefix", err.Error())
			}
			if yamlutil.Describe(err) == "" {
				t.Error("Describe() returned empty string")
			}
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(&testConfig{Name: "viewer", Count: 2})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"name: viewer", "count: 2", "enabled: false"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal() = %q, missing %q", data, want)
		}
	}

	var back testConfig
	if err := yamlutil.UnmarshalStrict(data, &back); err != nil {
		t.Fatalf("UnmarshalStrict() error = %v", err)
	}
	if back.Name != "viewer" || back.Count != 2 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := yamlutil.Describe(plain); got != "plain failure" {
		t.Errorf("Describe(plain) = %q, want %q", got, "plain failure")
	}

	err := yamlutil.UnmarshalStrict([]byte("name: test\nbogus: 1"), &testConfig{})
	if got := yamlutil.Describe(err); !strings.Contains(got, "bogus") {
		t.Errorf("Describe() = %q, want source line with the unknown key", got)
	}
}

func TestInputSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte("name: " + strings.Repeat("x", yamlutil.MaxInputSize))
	err := yamlutil.UnmarshalStrict(data, &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}
