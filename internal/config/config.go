package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kernelsight/roofline-analyzer/internal/logging"
	"github.com/kernelsight/roofline-analyzer/internal/roofline"
)

const (
	// envPrefix namespaces environment variables, e.g. ROOFLINE_INPUT.
	envPrefix = "ROOFLINE"

	// DefaultListenAddr is the default analysis API listen address.
	DefaultListenAddr = ":8080"
)

// Config is the resolved analyzer configuration. Sources are layered
// flags > environment > accelerator profile file > defaults.
type Config struct {
	// InputPath is the Nsight Compute raw CSV export to analyze.
	InputPath string

	// ListenAddr is the analysis API listen address.
	ListenAddr string

	// Accelerator names the profile entry resolving the hardware ceilings.
	Accelerator string

	// ProfilesPath points at the accelerator profiles YAML file.
	ProfilesPath string

	// PeakComputeTFLOPS and PeakBandwidthTBps are the roofline ceilings.
	PeakComputeTFLOPS float64
	PeakBandwidthTBps float64

	// Oneshot dumps the analysis as JSON to stdout instead of serving.
	Oneshot bool

	// Development enables human-readable logging.
	Development bool
}

// Load resolves configuration from the given flag set, the environment and
// the optional accelerator profile file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", DefaultListenAddr)
	v.SetDefault("peak-compute-tflops", roofline.DefaultPeakComputeTFLOPS)
	v.SetDefault("peak-bandwidth-tbps", roofline.DefaultPeakBandwidthTBps)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	cfg := &Config{
		InputPath:         v.GetString("input"),
		ListenAddr:        v.GetString("listen"),
		Accelerator:       v.GetString("accelerator"),
		ProfilesPath:      v.GetString("profiles"),
		PeakComputeTFLOPS: v.GetFloat64("peak-compute-tflops"),
		PeakBandwidthTBps: v.GetFloat64("peak-bandwidth-tbps"),
		Oneshot:           v.GetBool("oneshot"),
		Development:       v.GetBool("development"),
	}

	if err := cfg.applyProfile(flags); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyProfile resolves hardware ceilings from the accelerator profile file.
// Values set explicitly by flag or environment keep priority over profile
// values.
func (c *Config) applyProfile(flags *pflag.FlagSet) error {
	if c.ProfilesPath == "" || c.Accelerator == "" {
		return nil
	}

	profiles, err := LoadProfiles(c.ProfilesPath)
	if err != nil {
		return err
	}
	profile := profiles.Get(c.Accelerator)

	if profile.PeakComputeTFLOPS > 0 && !overridden(flags, "peak-compute-tflops") {
		c.PeakComputeTFLOPS = profile.PeakComputeTFLOPS
	}
	if profile.PeakBandwidthTBps > 0 && !overridden(flags, "peak-bandwidth-tbps") {
		c.PeakBandwidthTBps = profile.PeakBandwidthTBps
	}

	logging.Log.V(logging.DEBUG).Info("Resolved accelerator profile",
		"accelerator", c.Accelerator,
		"peakComputeTFLOPS", c.PeakComputeTFLOPS,
		"peakBandwidthTBps", c.PeakBandwidthTBps)
	return nil
}

// overridden reports whether a key was set explicitly via flag or
// environment, the two layers that outrank the profile file.
func overridden(flags *pflag.FlagSet, name string) bool {
	if flags != nil && flags.Changed(name) {
		return true
	}
	envKey := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	_, ok := os.LookupEnv(envKey)
	return ok
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.PeakComputeTFLOPS <= 0 {
		return fmt.Errorf("peak compute must be > 0 TFLOPS, got %.3f", c.PeakComputeTFLOPS)
	}
	if c.PeakBandwidthTBps <= 0 {
		return fmt.Errorf("peak bandwidth must be > 0 TB/s, got %.3f", c.PeakBandwidthTBps)
	}
	return nil
}
