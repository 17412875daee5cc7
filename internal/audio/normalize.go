package audio

import "math"

// NormalizeConfig controls peak gain normalization. The defaults encode a
// loudness decision rather than a codec requirement: boost quiet speech up to
// MaxBoost, aim for roughly 90% of full scale, and never attenuate.
type NormalizeConfig struct {
	MaxBoost   float64
	TargetPeak int
}

func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		MaxBoost:   1.8,
		TargetPeak: 29490,
	}
}

func (cfg NormalizeConfig) withDefaults() NormalizeConfig {
	if cfg.MaxBoost <= 0 {
		cfg.MaxBoost = 1.8
	}
	if cfg.TargetPeak <= 0 {
		cfg.TargetPeak = 29490
	}
	return cfg
}

// Normalize rewrites samples in place, boosting toward cfg.TargetPeak.
// Silence and already-loud audio are left untouched.
func Normalize(samples []int16, cfg NormalizeConfig) {
	cfg = cfg.withDefaults()

	peak := 0
	for _, s := range samples {
		a := int(s)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}

	gain := float64(cfg.TargetPeak) / float64(peak)
	if gain > cfg.MaxBoost {
		gain = cfg.MaxBoost
	}
	if gain <= 1 {
		return
	}

	for i, s := range samples {
		v := math.Round(float64(s) * gain)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		samples[i] = int16(v)
	}
}
