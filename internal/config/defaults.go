package config

import (
	_ "embed"
)

//go:embed defaults/liquid.yaml
var defaultLiquidYAML []byte

// Default returns the built-in configuration. It mirrors defaults/liquid.yaml
// and is used when the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Size:        80,
			MaxMass:     1.0,
			MaxCompress: 0.02,
			MinMass:     0.0001,
			MinFlow:     0.95,
			MaxSpeed:    50,
			Variant:     "diagonal",
			TickRate:    30,
		},
		Layout: LayoutConfig{
			RingFraction: 0.095,
			PoolFraction: 0.55,
			PoolMass:     1.0,
		},
		Render: RenderConfig{
			CellWidth: 2,
			ShowHUD:   true,
			Palette:   []string{"#bbc4f5", "#acb7f5", "#8b9deb"},
			Pressure:  "#5b6fd6",
			Wall:      "#6c6f85",
		},
		Tilt: TiltConfig{
			Mode:          TiltFixed,
			Amplitude:     35,
			PeriodSeconds: 6,
			SampleHz:      10,
		},
	}
}
