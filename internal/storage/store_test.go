package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fragdyn/internal/config"
	"github.com/san-kum/fragdyn/internal/features"
)

func testFeatures() []features.Feature {
	return []features.Feature{
		{Name: "lyap_d2", Value: 0.42},
		{Name: "lyap_d3", Value: -1},
		{Name: "fnn_false_m1", Value: 0.125},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Fragment.Offset = 512
	cfg.Fragment.Length = 4096

	runID, err := st.Save("/data/dump.bin", cfg, []string{"lyap", "fnn"}, testFeatures())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "dump_") {
		t.Errorf("expected run id prefixed by source name, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Source != "/data/dump.bin" {
		t.Errorf("expected source /data/dump.bin, got %q", meta.Source)
	}
	if meta.Offset != 512 || meta.Length != 4096 {
		t.Errorf("expected fragment 512+4096, got %d+%d", meta.Offset, meta.Length)
	}
	if meta.Config == nil || meta.Config.Lyapunov.MaxDim != cfg.Lyapunov.MaxDim {
		t.Errorf("config not round-tripped: %+v", meta.Config)
	}
	if meta.Features["lyap_d2"] != 0.42 {
		t.Errorf("expected lyap_d2 0.42, got %f", meta.Features["lyap_d2"])
	}

	feats, err := st.LoadFeatures(runID)
	if err != nil {
		t.Fatalf("load features failed: %v", err)
	}
	want := testFeatures()
	if len(feats) != len(want) {
		t.Fatalf("expected %d features, got %d", len(want), len(feats))
	}
	for i := range want {
		if feats[i] != want[i] {
			t.Errorf("feature %d: expected %+v, got %+v", i, want[i], feats[i])
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg := config.DefaultConfig()
	first, err := st.Save("a.bin", cfg, nil, testFeatures())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("b.bin", cfg, nil, testFeatures())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("henon", config.DefaultConfig(), []string{"lyap"}, testFeatures())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "features.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "features.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "name,value" {
		t.Errorf("expected header name,value, got %q", lines[0])
	}
	if lines[2] != "lyap_d3,-1" {
		t.Errorf("expected lyap_d3,-1, got %q", lines[2])
	}
}

func TestRunName(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"/tmp/frag.bin", "frag"},
		{"henon", "henon"},
		{"my file.dat", "my_file"},
		{"/", "run"},
	}
	for _, tt := range tests {
		if got := runName(tt.source); got != tt.want {
			t.Errorf("runName(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadFeatures("nope"); err == nil {
		t.Error("expected error for missing features")
	}
}
