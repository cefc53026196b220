package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"fragment": {
		Lyapunov: LyapunovConfig{
			MinDim: 2, MaxDim: 4, Delay: 1,
			EpsilonMin: 1e-3, EpsilonMax: 1e-2, EpsilonCount: 5,
			Horizon: 10, Workers: 1,
		},
		FNN: FNNConfig{MinEmb: 1, MaxEmb: 4, Ratio: 10, Delay: 1, Epsilon0: 1e-5},
		Fragment: FragmentConfig{Length: 4096},
	},
	"fast": {
		Lyapunov: LyapunovConfig{
			MinDim: 2, MaxDim: 3, Delay: 1,
			EpsilonMin: 2e-3, EpsilonMax: 1e-2, EpsilonCount: 2,
			Horizon: 4, Workers: 2,
		},
		FNN: FNNConfig{MinEmb: 1, MaxEmb: 3, Ratio: 2, Delay: 1, Epsilon0: 1e-4},
	},
	"deep": {
		Lyapunov: LyapunovConfig{
			MinDim: 2, MaxDim: 10, Delay: 1, Window: 10,
			EpsilonMin: 5e-4, EpsilonMax: 5e-2, EpsilonCount: 8,
			Horizon: 20, Workers: 4,
		},
		FNN: FNNConfig{MinEmb: 1, MaxEmb: 10, Ratio: 2, Delay: 1, Theiler: 10, Epsilon0: 1e-5},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
