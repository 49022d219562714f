package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kernelsight/roofline-analyzer/internal/extractor"
)

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []extractor.RawRecord
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "header only",
			input: "ID,Kernel Name\n",
			want:  nil,
		},
		{
			name:  "data rows keyed by header",
			input: "ID,Kernel Name,dram__bytes.sum.per_second\n0,gemm,\"1,234.5\"\n1,copy,2.5\n",
			want: []extractor.RawRecord{
				{"ID": "0", "Kernel Name": "gemm", "dram__bytes.sum.per_second": "1,234.5"},
				{"ID": "1", "Kernel Name": "copy", "dram__bytes.sum.per_second": "2.5"},
			},
		},
		{
			name:  "short row omits trailing columns",
			input: "ID,Kernel Name,gpc__cycles_elapsed.sum\n0,gemm\n",
			want: []extractor.RawRecord{
				{"ID": "0", "Kernel Name": "gemm"},
			},
		},
		{
			name:  "long row drops extra cells",
			input: "ID,Kernel Name\n0,gemm,stray\n",
			want: []extractor.RawRecord{
				{"ID": "0", "Kernel Name": "gemm"},
			},
		},
		{
			name:  "unit row flows through untouched",
			input: "ID,dram__bytes.sum.per_second\n-,Tbyte/s\n0,1.5\n",
			want: []extractor.RawRecord{
				{"ID": "-", "dram__bytes.sum.per_second": "Tbyte/s"},
				{"ID": "0", "dram__bytes.sum.per_second": "1.5"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadRecords(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadRecords() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReadRecords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCSVSourceLoad(t *testing.T) {
	src := NewCSVSource("testdata/nsight_export.csv")
	if src.Name() != "csv" {
		t.Errorf("Name() = %q, want csv", src.Name())
	}

	records, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// 3 data rows plus 1 unit row, all delivered as records
	if len(records) != 4 {
		t.Fatalf("Load() returned %d records, want 4", len(records))
	}
	if got := records[1]["Kernel Name"]; got != "ampere_sgemm_128x64_nn" {
		t.Errorf("records[1] kernel name = %q, want ampere_sgemm_128x64_nn", got)
	}
}

func TestCSVSourceLoadMissingFile(t *testing.T) {
	src := NewCSVSource("testdata/does_not_exist.csv")
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
