/*
Copyright 2026 The kernelsight Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/kernelsight/roofline-analyzer/internal/config"
	"github.com/kernelsight/roofline-analyzer/internal/extractor"
	"github.com/kernelsight/roofline-analyzer/internal/loader"
	"github.com/kernelsight/roofline-analyzer/internal/logging"
	"github.com/kernelsight/roofline-analyzer/internal/roofline"
	"github.com/kernelsight/roofline-analyzer/internal/server"
)

func main() {
	flags := pflag.NewFlagSet("roofline-analyzer", pflag.ExitOnError)
	flags.String("input", "", "Path to the Nsight Compute raw CSV export")
	flags.String("listen", config.DefaultListenAddr, "HTTP listen address for the analysis API")
	flags.String("accelerator", "", "Accelerator profile name resolving the hardware ceilings")
	flags.String("profiles", "", "Path to the accelerator profiles YAML file")
	flags.Float64("peak-compute-tflops", roofline.DefaultPeakComputeTFLOPS, "Peak compute ceiling in TFLOPS")
	flags.Float64("peak-bandwidth-tbps", roofline.DefaultPeakBandwidthTBps, "Peak DRAM bandwidth ceiling in TB/s")
	flags.Bool("oneshot", false, "Print the analysis as JSON and exit instead of serving")
	flags.Bool("development", false, "Enable human-readable development logging")
	verbosity := flags.Int("v", 0, "Log verbosity level")
	_ = flags.Parse(os.Args[1:])

	development, _ := flags.GetBool("development")
	log, err := logging.New(logging.Options{Development: development, Verbosity: *verbosity})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	logging.SetLogger(log)

	cfg, err := config.Load(flags)
	if err != nil {
		log.Error(err, "Invalid configuration")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(err, "Analysis failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logr.Logger) error {
	source := loader.NewCSVSource(cfg.InputPath)
	records, err := source.Load(ctx)
	if err != nil {
		return err
	}
	log.Info("Loaded profiling records",
		"source", source.Name(),
		"records", len(records))

	result := extractor.Extract(records)
	log.Info("Extracted kernel metrics",
		"kernels", len(result.Metrics),
		"rejected", result.Rejected)

	analyzer, err := roofline.NewAnalyzer(&roofline.Config{
		PeakComputeTFLOPS: cfg.PeakComputeTFLOPS,
		PeakBandwidthTBps: cfg.PeakBandwidthTBps,
	})
	if err != nil {
		return err
	}
	analysis := analyzer.Analyze(result.Metrics)
	log.Info("Roofline analysis complete",
		"kneeAI", analysis.Summary.KneeAI,
		"memoryBound", analysis.Summary.MemoryBoundCount,
		"computeBound", analysis.Summary.ComputeBoundCount,
		"focus", analysis.Focus)

	if cfg.Oneshot {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	return server.New(log, result, analysis).Run(ctx, cfg.ListenAddr)
}
