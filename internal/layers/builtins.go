package layers

import (
	"github.com/san-kum/lumitree/internal/lumen"
)

func registerBuiltins(r *Registry) {
	r.Register("rgb", "static color cube from LED positions",
		func(*Registry, Spec) (lumen.Layer, error) { return RGB{}, nil })
	r.Register("blinky", "white on alternate frames",
		func(*Registry, Spec) (lumen.Layer, error) { return &Blinky{}, nil })
	r.Register("color-blinky", "random hue on alternate frames",
		func(r *Registry, _ Spec) (lumen.Layer, error) { return NewColorBlinky(r.Rand()), nil })
	r.Register("snowstorm", "gray noise per LED",
		func(r *Registry, _ Spec) (lumen.Layer, error) { return NewSnowstorm(r.Rand()), nil })
	r.Register("technicolor-snowstorm", "color noise per LED",
		func(r *Registry, _ Spec) (lumen.Layer, error) { return NewTechnicolorSnowstorm(r.Rand()), nil })
	r.Register("white-out", "full white",
		func(*Registry, Spec) (lumen.Layer, error) { return WhiteOut{}, nil })
	r.Register("solid", "fixed color",
		func(_ *Registry, s Spec) (lumen.Layer, error) {
			c, err := s.color(lumen.Gray(1))
			return Solid{Color: c}, err
		})
	r.Register("multiplier", "product of two nested layers",
		func(r *Registry, s Spec) (lumen.Layer, error) {
			if len(s.Layers) != 2 {
				return nil, specErr(s.Type, "needs exactly 2 nested layers, got %d", len(s.Layers))
			}
			a, err := r.Build(s.Layers[0])
			if err != nil {
				return nil, err
			}
			b, err := r.Build(s.Layers[1])
			if err != nil {
				return nil, err
			}
			return NewMultiplier(a, b), nil
		})
	r.Register("impulses", "oscillating impulses crawling outward",
		func(r *Registry, s Spec) (lumen.Layer, error) {
			return NewImpulses(int(s.param("count", 10)), r.Rand()), nil
		})
	r.Register("plasma", "rising noise cloud; multiplies the frame without a color",
		func(r *Registry, s Spec) (lumen.Layer, error) {
			c, err := s.optionalColor()
			if err != nil {
				return nil, err
			}
			return NewPlasma(c, s.param("zoom", 0.6), r.Seed()), nil
		})
	r.Register("digital-rain", "green streaks scrolling up each tree",
		func(r *Registry, _ Spec) (lumen.Layer, error) { return NewDigitalRain(r.Rand()), nil })
	r.Register("homogenous-drifter", "whole structure drifts through colors",
		func(_ *Registry, s Spec) (lumen.Layer, error) {
			cs, err := s.colorList()
			if err != nil {
				return nil, err
			}
			return NewHomogenousDrifter(cs, s.param("switch_time", 5))
		})
	r.Register("tree-drifter", "each tree drifts through colors out of phase",
		func(r *Registry, s Spec) (lumen.Layer, error) {
			cs, err := s.colorList()
			if err != nil {
				return nil, err
			}
			return NewTreeDrifter(cs, s.param("switch_time", 5), r.Rand())
		})
	r.Register("outward-drifter", "colors drift from the base to the tips",
		func(_ *Registry, s Spec) (lumen.Layer, error) {
			cs, err := s.colorList()
			if err != nil {
				return nil, err
			}
			d, err := NewOutwardDrifter(cs, s.param("switch_time", 10))
			if err != nil {
				return nil, err
			}
			d.Offset = s.param("offset", d.Offset)
			return d, nil
		})
	r.Register("firefly-swarm", "pulse-coupled blinkers that synchronize",
		func(r *Registry, s Spec) (lumen.Layer, error) {
			c, err := s.color(lumen.Gray(1))
			if err != nil {
				return nil, err
			}
			return NewFireflySwarm(c, r.Rand()), nil
		})

	attention := ResponseDefaults{Channel: lumen.Attention}
	meditation := ResponseDefaults{Channel: lumen.Meditation}

	r.RegisterResponsive("no-data", "pulses the roots until a reading arrives", attention,
		func(_ *Registry, s Spec) (ResponsiveRenderer, error) {
			c, err := s.color(lumen.RGB(0, 0, 0.4))
			return NoData{Color: c, Period: s.param("period", 2)}, err
		})
	r.RegisterResponsive("green-high-red-low", "green when high, red when low, blue without data",
		ResponseDefaults{Channel: lumen.Attention, Smooth: 3},
		func(*Registry, Spec) (ResponsiveRenderer, error) { return GreenHighRedLow{}, nil })
	r.RegisterResponsive("brain-static", "random darkening that calms with the reading", meditation,
		func(r *Registry, s Spec) (ResponsiveRenderer, error) {
			return NewBrainStatic(s.param("min_factor", 0.3), r.Rand()), nil
		})
	r.RegisterResponsive("waves", "wavefronts from the base; period shrinks with the reading", meditation,
		func(_ *Registry, s Spec) (ResponsiveRenderer, error) {
			c, err := s.color(lumen.RGB(0.5, 0.5, 1))
			if err != nil {
				return nil, err
			}
			return NewWaves(c, s.param("period", 5), s.param("speed", 1.5)), nil
		})
	r.RegisterResponsive("throbbing-brain-stem", "fast waves confined to the lower levels", attention,
		func(_ *Registry, s Spec) (ResponsiveRenderer, error) {
			c, err := s.color(lumen.RGB(0.5, 0, 1))
			if err != nil {
				return nil, err
			}
			return NewThrobbingBrainStem(c, int(s.param("levels", 6)), s.param("period", 1), s.param("speed", 2.5)), nil
		})
	r.RegisterResponsive("impulses-responsive", "walking pulses; more and more colorful with the reading", attention,
		func(r *Registry, s Spec) (ResponsiveRenderer, error) {
			return NewImpulseWalkers(int(s.param("max_pulses", 40)), r.Rand()), nil
		})
	r.RegisterResponsive("lightning-storm", "Poisson lightning bolts; rate rises with the reading", attention,
		func(r *Registry, s Spec) (ResponsiveRenderer, error) {
			return NewLightningStorm(s.param("min_rate", 0.5), s.param("max_rate", 8), r.Rand()), nil
		})
	r.RegisterResponsive("rain", "rippling raindrops; faster as the reading drops",
		ResponseDefaults{Channel: lumen.Attention, Smooth: 1, Inverse: true},
		func(r *Registry, s Spec) (ResponsiveRenderer, error) {
			return NewRain(s.param("drop_every", 5), r.Rand()), nil
		})
	r.RegisterResponsive("zooming-plasma", "plasma that zooms in with the reading", meditation,
		func(r *Registry, s Spec) (ResponsiveRenderer, error) {
			c, err := s.optionalColor()
			if err != nil {
				return nil, err
			}
			return NewZoomingPlasma(c, r.Seed()), nil
		})
}
