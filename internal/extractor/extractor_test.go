package extractor

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func makeRecord(bandwidth string) RawRecord {
	return RawRecord{
		ColID:        "12",
		ColName:      "ampere_sgemm_128x64_nn",
		ColDuration:  "0.002",
		ColBandwidth: bandwidth,
		ColTensor:    "1.5",
		ColCycles:    "5000",
	}
}

var _ = Describe("Extract", func() {
	Context("with the bandwidth validity gate", func() {
		It("should skip a record whose bandwidth is a header re-row", func() {
			res := Extract([]RawRecord{makeRecord("Metric Name")})
			Expect(res.Metrics).To(BeEmpty())
			Expect(res.Rejected).To(Equal(1))
		})

		It("should skip a record with no bandwidth cell", func() {
			rec := makeRecord("")
			delete(rec, ColBandwidth)
			res := Extract([]RawRecord{rec})
			Expect(res.Metrics).To(BeEmpty())
			Expect(res.Rejected).To(Equal(1))
		})

		It("should skip a record whose bandwidth cell is blank", func() {
			res := Extract([]RawRecord{makeRecord("")})
			Expect(res.Metrics).To(BeEmpty())
			Expect(res.Rejected).To(Equal(1))
		})

		It("should keep a record with numeric bandwidth", func() {
			res := Extract([]RawRecord{makeRecord("1.2")})
			Expect(res.Metrics).To(HaveLen(1))
			Expect(res.Rejected).To(BeZero())
			Expect(res.Metrics[0].DRAMBandwidthTBps).To(Equal(1.2))
		})
	})

	Context("with thousands-separated values", func() {
		It("should strip comma grouping from any numeric field", func() {
			rec := makeRecord("1,234.5")
			rec[ColCycles] = " 2,000,000 "
			res := Extract([]RawRecord{rec})
			Expect(res.Metrics).To(HaveLen(1))
			Expect(res.Metrics[0].DRAMBandwidthTBps).To(Equal(1234.5))
			Expect(res.Metrics[0].Cycles).To(Equal(2000000.0))
		})
	})

	Context("with missing secondary fields", func() {
		It("should default an absent duration to zero and still derive finite TFLOPS", func() {
			rec := makeRecord("1.0")
			delete(rec, ColDuration)
			res := Extract([]RawRecord{rec})
			Expect(res.Metrics).To(HaveLen(1))

			m := res.Metrics[0]
			Expect(m.TimeSeconds).To(BeZero())
			// time floors at 0.001: 1.5 * 5000 / 0.001 * 64e-12
			Expect(m.TFLOPS).To(BeNumerically("~", 4.8e-4, 1e-12))
		})

		It("should default an unparseable tensor rate to zero", func() {
			rec := makeRecord("1.0")
			rec[ColTensor] = "inst/cycle"
			res := Extract([]RawRecord{rec})
			Expect(res.Metrics).To(HaveLen(1))
			Expect(res.Metrics[0].TensorInstrPerCycle).To(BeZero())
			Expect(res.Metrics[0].TFLOPS).To(BeZero())
		})
	})

	Context("with the throughput formula", func() {
		It("should reproduce a hand-computed TFLOPS value", func() {
			rec := RawRecord{
				ColBandwidth: "1.0",
				ColTensor:    "2",
				ColCycles:    "1000",
				ColDuration:  "0.0001",
			}
			res := Extract([]RawRecord{rec})
			Expect(res.Metrics).To(HaveLen(1))
			// (2 * 1000 / max(0.0001, 0.001)) * 64e-12 = 1.28e-4
			Expect(res.Metrics[0].TFLOPS).To(BeNumerically("~", 1.28e-4, 1e-12))
		})
	})

	Context("with missing identity fields", func() {
		It("should default id and kernel name", func() {
			res := Extract([]RawRecord{{ColBandwidth: "0.5"}})
			Expect(res.Metrics).To(HaveLen(1))
			Expect(res.Metrics[0].ID).To(Equal("Unknown"))
			Expect(res.Metrics[0].Name).To(Equal("Unknown Kernel"))
		})
	})

	Context("with mixed data and metadata rows", func() {
		It("should preserve the relative order of valid records", func() {
			records := []RawRecord{
				{ColID: "0", ColBandwidth: "1.0"},
				{ColID: "-", ColBandwidth: "TB/s"},
				{ColID: "1", ColBandwidth: "2.0"},
				{ColID: "2", ColBandwidth: "3.0"},
			}
			res := Extract(records)
			Expect(res.Rejected).To(Equal(1))

			ids := make([]string, len(res.Metrics))
			for i, m := range res.Metrics {
				ids[i] = m.ID
			}
			Expect(ids).To(Equal([]string{"0", "1", "2"}))
		})
	})

	Context("with an empty dataset", func() {
		It("should return no metrics and no rejections", func() {
			res := Extract(nil)
			Expect(res.Metrics).To(BeEmpty())
			Expect(res.Rejected).To(BeZero())
		})
	})

	Context("when run twice on the same input", func() {
		It("should be idempotent", func() {
			records := []RawRecord{makeRecord("1,234.5"), makeRecord("not a number")}
			Expect(Extract(records)).To(Equal(Extract(records)))
		})
	})
})
