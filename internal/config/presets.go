package config

import (
	"maps"
	"slices"
	"sort"
)

func bd(number int, from, to string) BondConfig {
	return BondConfig{Number: number, From: from, To: to}
}

// rev is a bond drawn from -> to whose positive power flows to -> from.
func rev(number int, from, to string) BondConfig {
	return BondConfig{Number: number, From: from, To: to, PowerToDest: boolPtr(false)}
}

func preset(name string, params map[string]float64, bonds ...BondConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Bonds = bonds
	cfg.Params = params
	return cfg
}

var Presets = map[string]*Config{
	// one inertance driven by an effort source
	"inertia": preset("inertia",
		map[string]float64{"SE": 1, "I": 2},
		bd(1, "SE", "1"),
		bd(2, "1", "I"),
	),
	"fig5_4": preset("fig5_4",
		map[string]float64{"SF": 1, "C": 0.5, "R": 2, "I": 1},
		bd(1, "SF", "0"),
		rev(2, "C", "0"),
		bd(3, "0", "1"),
		bd(4, "1", "R"),
		bd(5, "1", "I"),
	),
	"fig5_5": preset("fig5_5",
		map[string]float64{
			"SE_a": 1, "SE_b": 0.5, "SE_c": -1,
			"I_a": 1, "I_b": 2, "I_c": 3,
			"R_a": 1, "R_b": 0.5, "R_c": 2,
			"C": 0.25,
		},
		bd(1, "SE_a", "1_a"),
		rev(2, "SE_b", "1_b"),
		bd(3, "1_c", "SE_c"),
		bd(4, "I_a", "1_a"),
		bd(5, "1_b", "I_b"),
		bd(6, "1_c", "I_c"),
		bd(7, "1_a", "R_a"),
		bd(8, "1_b", "R_b"),
		bd(9, "1_c", "R_c"),
		bd(10, "0", "C"),
		bd(11, "1_a", "0"),
		bd(12, "1_b", "0"),
		bd(13, "0", "1_c"),
	),
	"fig5_6": preset("fig5_6",
		map[string]float64{
			"SE_a": 1, "SE_b": 0,
			"I_a": 1, "C_a": 0.5, "C_b": 2,
			"R_a": 1, "R_b": 0.5, "R_c": 0.25,
			"TF_a": 2,
		},
		bd(1, "SE_a", "1_a"),
		bd(8, "1_a", "R_a"),
		bd(9, "1_a", "0_a"),
		bd(3, "0_a", "C_a"),
		bd(10, "0_a", "TF_a"),
		bd(11, "TF_a", "1_b"),
		bd(5, "1_b", "I_a"),
		bd(6, "1_b", "R_c"),
		bd(7, "1_b", "R_b"),
		bd(2, "SE_b", "1_b"),
		bd(4, "1_b", "C_b"),
	),
	"ex02": preset("ex02",
		map[string]float64{"SE": 1, "I": 1, "R_3": 0.5, "C": 1, "R_6": 2},
		bd(1, "SE", "1"),
		bd(2, "1", "I"),
		bd(3, "1", "R_3"),
		bd(4, "1", "0"),
		bd(5, "0", "C"),
		bd(6, "0", "R_6"),
	),
	"ex03": preset("ex03",
		map[string]float64{
			"SE_1": 1, "SE_2": 0,
			"C_3": 0.5, "C_4": 2, "I_5": 1,
			"R_6": 0.25, "R_7": 0.5, "R_8": 1,
			"TF": 2,
		},
		bd(1, "SE_1", "1_a"),
		bd(2, "SE_2", "1_b"),
		bd(3, "0_a", "C_3"),
		bd(4, "1_b", "C_4"),
		bd(5, "1_b", "I_5"),
		bd(6, "1_b", "R_6"),
		bd(7, "1_b", "R_7"),
		bd(8, "1_a", "R_8"),
		bd(9, "1_a", "0_a"),
		bd(10, "0_a", "TF"),
		bd(11, "TF", "1_b"),
	),
	// road input through the tire, unsprung mass, suspension spring and
	// damper, sprung mass; the effort sources are gravity loads
	"quarter_car": preset("quarter_car",
		map[string]float64{
			"SF_01": 1,
			"C_02":  1.0 / 126330,
			"SE_04": -523.2,
			"I_05":  53.33,
			"R_08":  1500,
			"C_09":  1.0 / 12633,
			"SE_11": -3139.2,
			"I_12":  320,
		},
		bd(1, "SF_01", "0_a"),
		bd(2, "0_a", "C_02"),
		bd(3, "0_a", "1_a"),
		bd(4, "1_a", "SE_04"),
		bd(5, "1_a", "I_05"),
		bd(6, "1_a", "0_b"),
		bd(7, "0_b", "1_b"),
		bd(8, "1_b", "R_08"),
		bd(9, "1_b", "C_09"),
		bd(10, "0_b", "1_c"),
		bd(11, "1_c", "SE_11"),
		bd(12, "1_c", "I_12"),
	),
	// armature circuit coupled to a rotor through a gyrator
	"dc_motor": preset("dc_motor",
		map[string]float64{"SE": 12, "R_a": 1, "I_a": 0.5, "GY": 0.01, "I_b": 0.01, "R_b": 0.1},
		bd(1, "SE", "1_a"),
		bd(2, "1_a", "R_a"),
		bd(3, "1_a", "I_a"),
		bd(4, "1_a", "GY"),
		bd(5, "GY", "1_b"),
		bd(6, "1_b", "I_b"),
		bd(7, "1_b", "R_b"),
	),
	// two effort sources on one 0-junction
	"conflict": preset("conflict",
		map[string]float64{"SE_a": 1, "SE_b": 2},
		bd(1, "SE_a", "0"),
		bd(2, "SE_b", "0"),
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies c.
func (c *Config) Clone() *Config {
	out := *c
	out.Bonds = slices.Clone(c.Bonds)
	for i, b := range out.Bonds {
		if b.PowerToDest != nil {
			out.Bonds[i].PowerToDest = boolPtr(*b.PowerToDest)
		}
	}
	out.Params = maps.Clone(c.Params)
	return &out
}
