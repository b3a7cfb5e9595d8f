package config

import "sort"

// Presets are named starting points; each is DefaultParams with a few
// fields changed.
var Presets = map[string]func() Params{
	"classic": DefaultParams,
	"calm": func() Params {
		p := DefaultParams()
		p.N, p.M1, p.M2 = 10, 2, 1
		p.A1, p.A2 = 0.4, 0.3
		p.G = 0.3
		return p
	},
	"wild": func() Params {
		p := DefaultParams()
		p.N, p.T, p.S = 100, 10, 5
		p.M1, p.M2 = 1, 10
		p.A1, p.A2 = 2, -2
		p.V1, p.V2 = 1.5, -1.5
		p.G = 1
		return p
	},
	"swarm": func() Params {
		p := DefaultParams()
		p.N = 100
		p.L1, p.L2 = 120, 120
		p.A1, p.A2 = 1.8, 1.8
		return p
	},
}

// PresetInfo is a one-line description per preset.
var PresetInfo = map[string]string{
	"classic": "the default chaotic fan",
	"calm":    "small swings that stay together",
	"wild":    "heavy outer bob, high energy",
	"swarm":   "a hundred equal-armed bodies",
}

func GetPreset(name string) (Params, bool) {
	fn, ok := Presets[name]
	if !ok {
		return Params{}, false
	}
	return fn(), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
