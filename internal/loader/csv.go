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
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
)

// CSVSource reads an Nsight Compute raw CSV export from disk.
type CSVSource struct {
	path string
}

// NewCSVSource creates a source backed by the export file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name returns the source name.
func (s *CSVSource) Name() string {
	return "csv"
}

// Load reads the export. The first row is the header; every following row
// becomes one RawRecord keyed by column name. No numeric interpretation
// happens here: unit rows and repeated headers flow through as records and
// are filtered by the extractor's validity gate.
func (s *CSVSource) Load(ctx context.Context) ([]extractor.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening profile export: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}

// ReadRecords decodes profiler CSV rows from r. Ragged rows are tolerated:
// cells beyond the header width are dropped and short rows simply omit their
// trailing columns.
func ReadRecords(r io.Reader) ([]extractor.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading export header: %w", err)
	}

	var out []extractor.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading export row: %w", err)
		}
		rec := make(extractor.RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = cell
		}
		out = append(out, rec)
	}
	return out, nil
}
