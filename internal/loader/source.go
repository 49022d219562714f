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

package loader

import (
	"context"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
)

// Source is a pluggable origin of raw profiling records.
//
// Implementations deliver a fully materialized, ordered snapshot; the
// analysis pipeline never consumes a partial dataset. CSVSource reads an
// Nsight Compute export from disk; a live profiler session source could
// satisfy the same interface.
type Source interface {
	// Name returns the unique name of this source (e.g., "csv").
	Name() string

	// Load materializes the full ordered snapshot of raw records.
	Load(ctx context.Context) ([]extractor.RawRecord, error)
}
