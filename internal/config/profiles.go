package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kernelsight/roofline-analyzer/internal/logging"
)

const (
	// GlobalDefaultsKey is the profile entry holding ceilings applied to
	// every accelerator unless overridden by a named entry.
	GlobalDefaultsKey = "default"
)

// AcceleratorProfile holds the roofline ceilings for one accelerator model.
type AcceleratorProfile struct {
	// PeakComputeTFLOPS is the compute ceiling in TFLOPS.
	PeakComputeTFLOPS float64 `yaml:"peakComputeTFLOPS,omitempty"`

	// PeakBandwidthTBps is the DRAM bandwidth ceiling in TB/s.
	PeakBandwidthTBps float64 `yaml:"peakBandwidthTBps,omitempty"`
}

// AcceleratorProfiles maps accelerator name to its profile.
type AcceleratorProfiles map[string]AcceleratorProfile

// Validate checks for invalid profile values.
func (p AcceleratorProfile) Validate() error {
	if p.PeakComputeTFLOPS < 0 {
		return fmt.Errorf("peakComputeTFLOPS must be >= 0, got %.3f", p.PeakComputeTFLOPS)
	}
	if p.PeakBandwidthTBps < 0 {
		return fmt.Errorf("peakBandwidthTBps must be >= 0, got %.3f", p.PeakBandwidthTBps)
	}
	return nil
}

// LoadProfiles reads an accelerator profiles YAML file.
func LoadProfiles(path string) (AcceleratorProfiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading accelerator profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses a YAML document mapping accelerator name to profile.
// Invalid entries are skipped with a log line rather than failing the whole
// file.
func ParseProfiles(data []byte) (AcceleratorProfiles, error) {
	var raw map[string]AcceleratorProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing accelerator profiles: %w", err)
	}

	out := make(AcceleratorProfiles, len(raw))
	for name, profile := range raw {
		if err := profile.Validate(); err != nil {
			logging.Log.Info("Skipping invalid accelerator profile",
				"name", name,
				"error", err.Error())
			continue
		}
		out[name] = profile
	}
	return out, nil
}

// Get returns the effective profile for an accelerator, merging the named
// entry over the "default" entry. An unknown name yields the defaults alone.
func (profiles AcceleratorProfiles) Get(name string) AcceleratorProfile {
	result := profiles[GlobalDefaultsKey]
	profile, ok := profiles[name]
	if !ok {
		return result
	}
	if profile.PeakComputeTFLOPS != 0 {
		result.PeakComputeTFLOPS = profile.PeakComputeTFLOPS
	}
	if profile.PeakBandwidthTBps != 0 {
		result.PeakBandwidthTBps = profile.PeakBandwidthTBps
	}
	return result
}
