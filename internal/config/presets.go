package config

import (
	"sort"

	"github.com/san-kum/lumitree/internal/layers"
)

func layer(typ string) layers.Spec { return layers.Spec{Type: typ} }

func colored(typ string, c ...float64) layers.Spec {
	return layers.Spec{Type: typ, Color: c}
}

func drifter(typ string, switchTime float64, colors ...[]float64) layers.Spec {
	return layers.Spec{Type: typ, Colors: colors, Params: map[string]float64{"switch_time": switchTime}}
}

func routine(specs ...layers.Spec) layers.RoutineSpec {
	return layers.RoutineSpec{Layers: specs}
}

// Presets are the built-in playlist sets. "show" is the full installation
// set; "test" is a small set for trying out routines.
var Presets = map[string]map[string]layers.PlaylistSpec{
	"show": {
		"on": {Routines: []layers.RoutineSpec{
			routine(layer("impulses-responsive"), colored("waves", 1, 0, 0.2), colored("plasma", 0.1, 0.1, 0.1)),
			routine(layer("waves"), layer("lightning-storm")),
		}},
		"off": {Routines: []layers.RoutineSpec{
			routine(drifter("tree-drifter", 5, []float64{1, 0, 1}, []float64{0.5, 0.5, 1}, []float64{0, 0, 1}), layer("plasma")),
			routine(drifter("outward-drifter", 10, []float64{1, 0, 0}, []float64{0.7, 0.3, 0}, []float64{0.7, 0, 0.3}), layer("plasma")),
		}},
		"transition": {Routines: []layers.RoutineSpec{
			routine(layer("white-out")),
			routine(layer("snowstorm")),
		}},
	},
	"test": {
		"on": {Routines: []layers.RoutineSpec{
			routine(drifter("tree-drifter", 5, []float64{1, 0, 1}, []float64{0.5, 0.5, 1}, []float64{0, 0, 1}), layer("zooming-plasma")),
		}},
		"off": {Routines: []layers.RoutineSpec{
			routine(drifter("tree-drifter", 5, []float64{1, 0, 1}, []float64{0.5, 0.5, 1}, []float64{0, 0, 1}), layer("plasma")),
		}},
		"transition": {Shuffle: true, Routines: []layers.RoutineSpec{
			routine(layer("white-out")),
			routine(layer("snowstorm")),
			routine(layer("technicolor-snowstorm")),
			routine(layer("digital-rain")),
			routine(layer("blinky")),
			routine(layer("color-blinky")),
		}},
	},
}

func GetPreset(name string) map[string]layers.PlaylistSpec {
	return Presets[name]
}

func ListPresets() []string {
	out := make([]string, 0, len(Presets))
	for name := range Presets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
