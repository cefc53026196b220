package features_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/dynamo"
	"github.com/san-kum/fragdyn/internal/features"
	"github.com/san-kum/fragdyn/internal/synth"
)

func byName(feats []features.Feature) map[string]float64 {
	m := make(map[string]float64, len(feats))
	for _, f := range feats {
		m[f.Name] = f.Value
	}
	return m
}

var _ = Describe("Registry", func() {
	var (
		reg *features.Registry
		cfg *config.Config
		ctx context.Context
	)

	BeforeEach(func() {
		reg = features.NewRegistry()
		cfg = config.DefaultConfig()
		cfg.Lyapunov.MaxDim = 3
		cfg.FNN.MaxEmb = 3
		cfg.FNN.Ratio = 10
		ctx = context.Background()
	})

	It("lists the built-in extractors in order", func() {
		Expect(reg.List()).To(Equal([]string{"lyap", "fnn"}))
	})

	It("rejects unknown extractors", func() {
		_, err := reg.Extract(ctx, synth.Sine(500, 0.1), cfg, []string{"lz76"}, nil)
		Expect(err).To(MatchError(ContainSubstring("unknown extractor")))
	})

	It("runs registered extractors after the built-ins", func() {
		reg.Register("length", func(_ context.Context, x dynamo.Series, _ *config.Config, _ dynamo.ProgressFunc) ([]features.Feature, error) {
			return []features.Feature{{Name: "length", Value: float64(len(x))}}, nil
		})
		Expect(reg.List()).To(Equal([]string{"lyap", "fnn", "length"}))

		feats, err := reg.Extract(ctx, synth.Sine(300, 0.1), cfg, []string{"length"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(feats).To(Equal([]features.Feature{{Name: "length", Value: 300}}))
	})

	Context("on the Hénon map", func() {
		It("finds a positive exponent in every dimension", func() {
			feats, err := reg.Extract(ctx, synth.Henon(4000), cfg, []string{"lyap"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(feats).To(HaveLen(2))

			m := byName(feats)
			Expect(m).To(HaveKey("lyap_d2"))
			Expect(m).To(HaveKey("lyap_d3"))
			Expect(m["lyap_d2"]).To(BeNumerically(">", 0.15))
			Expect(m["lyap_d2"]).To(BeNumerically("<", 1.5))
		})

		It("grows faster than a periodic signal", func() {
			chaotic, err := reg.Extract(ctx, synth.Henon(4000), cfg, []string{"lyap"}, nil)
			Expect(err).NotTo(HaveOccurred())
			periodic, err := reg.Extract(ctx, synth.Sine(4000, 1.3), cfg, []string{"lyap"}, nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(byName(periodic)["lyap_d2"]).To(BeNumerically("<", byName(chaotic)["lyap_d2"]))
		})
	})

	Context("on a sampled sine", func() {
		It("reports no false neighbors from order two on", func() {
			feats, err := reg.Extract(ctx, synth.Sine(2000, 0.1), cfg, []string{"fnn"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(feats).To(HaveLen(9))

			m := byName(feats)
			Expect(m["fnn_false_m1"]).To(BeNumerically(">", 0.1))
			Expect(m["fnn_false_m2"]).To(BeZero())
			Expect(m["fnn_false_m3"]).To(BeZero())
			Expect(m["fnn_rms_m2"]).To(BeNumerically(">=", m["fnn_size_m2"]))
		})
	})

	It("reports progress from both estimators", func() {
		var stages []string
		progress := dynamo.ProgressFunc(func(p dynamo.Progress) { stages = append(stages, p.Stage) })

		_, err := reg.Extract(ctx, synth.Henon(2000), cfg, nil, progress)
		Expect(err).NotTo(HaveOccurred())
		Expect(stages).To(ContainElement("epsilon"))
		Expect(stages).To(ContainElement("embedding"))
	})

	Context("on a constant fragment", func() {
		data := make([]byte, 256)

		It("fails the Lyapunov extractor with a degenerate range", func() {
			_, err := reg.Extract(ctx, features.FromBytes(data), cfg, nil, nil)
			Expect(err).To(MatchError(dynamo.ErrDegenerateRange))
			Expect(err.Error()).To(HavePrefix("lyap:"))
		})

		It("fails the FNN extractor with a degenerate variance", func() {
			_, err := reg.Extract(ctx, features.FromBytes(data), cfg, []string{"fnn"}, nil)
			Expect(err).To(MatchError(dynamo.ErrDegenerateVariance))
		})
	})
})

var _ = Describe("Fragments", func() {
	var path string

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "fragdyn")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		path = filepath.Join(dir, "frag.bin")
		data := make([]byte, 100)
		for i := range data {
			data[i] = byte(i)
		}
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())
	})

	It("converts bytes to sample values", func() {
		Expect(features.FromBytes([]byte{0, 7, 255})).To(Equal(dynamo.Series{0, 7, 255}))
	})

	It("reads a window of the file", func() {
		data, err := features.ReadFragment(path, 10, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{10, 11, 12, 13, 14}))
	})

	It("reads to the end when length is zero", func() {
		data, err := features.ReadFragment(path, 90, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(HaveLen(10))
	})

	It("truncates at end of file", func() {
		data, err := features.ReadFragment(path, 95, 50)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{95, 96, 97, 98, 99}))
	})

	It("fails on a missing file", func() {
		_, err := features.ReadFragment(filepath.Join(filepath.Dir(path), "missing"), 0, 0)
		Expect(err).To(HaveOccurred())
	})
})
