package layers

import "github.com/san-kum/lumitree/internal/lumen"

// Spec describes one layer in a config file.
type Spec struct {
	Type   string             `yaml:"type"`
	Name   string             `yaml:"name,omitempty"`
	Params map[string]float64 `yaml:"params,omitempty"`
	Color  []float64          `yaml:"color,omitempty"`
	Colors [][]float64        `yaml:"colors,omitempty"`

	// Response options; only used by responsive layer types.
	RespondTo string   `yaml:"respond_to,omitempty"`
	Smooth    *float64 `yaml:"smooth,omitempty"`
	Inverse   *bool    `yaml:"inverse,omitempty"`
	MinLevel  float64  `yaml:"min_level,omitempty"`

	// Layers holds nested specs for composite types.
	Layers []Spec `yaml:"layers,omitempty"`
}

// RoutineSpec is an ordered list of layers shown together.
type RoutineSpec struct {
	Name   string `yaml:"name,omitempty"`
	Layers []Spec `yaml:"layers"`
}

// PlaylistSpec is a set of routines with optional shuffled traversal.
type PlaylistSpec struct {
	Shuffle  bool          `yaml:"shuffle,omitempty"`
	Routines []RoutineSpec `yaml:"routines"`
}

func (s Spec) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

func (s Spec) param(key string, def float64) float64 {
	if v, ok := s.Params[key]; ok {
		return v
	}
	return def
}

func (s Spec) color(def lumen.Color) (lumen.Color, error) {
	if len(s.Color) == 0 {
		return def, nil
	}
	return toColor(s.Type, s.Color)
}

// optionalColor returns nil when no color is given.
func (s Spec) optionalColor() (*lumen.Color, error) {
	if len(s.Color) == 0 {
		return nil, nil
	}
	c, err := toColor(s.Type, s.Color)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s Spec) colorList() ([]lumen.Color, error) {
	out := make([]lumen.Color, 0, len(s.Colors))
	for _, raw := range s.Colors {
		c, err := toColor(s.Type, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func toColor(typ string, v []float64) (lumen.Color, error) {
	if len(v) != 3 {
		return lumen.Color{}, specErr(typ, "color needs 3 components, got %d", len(v))
	}
	return lumen.RGB(v[0], v[1], v[2]), nil
}
