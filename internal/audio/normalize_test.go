package audio

import "testing"

func TestNormalize_BoostsQuietAudio(t *testing.T) {
	samples := []int16{1000, -1000, 500, -500}
	Normalize(samples, DefaultNormalizeConfig())

	// Peak 1000 would need a 29.49x gain to reach the target, so the boost
	// caps at 1.8x.
	expected := []int16{1800, -1800, 900, -900}
	for i := range expected {
		if samples[i] != expected[i] {
			t.Errorf("sample %d: expected %d, got %d", i, expected[i], samples[i])
		}
	}
}

func TestNormalize_LeavesLoudAudioUntouched(t *testing.T) {
	samples := []int16{32000, -32000}
	Normalize(samples, DefaultNormalizeConfig())
	if samples[0] != 32000 || samples[1] != -32000 {
		t.Errorf("loud audio should be unchanged, got %v", samples)
	}
}

func TestNormalize_SilenceIsNoop(t *testing.T) {
	samples := []int16{0, 0, 0}
	Normalize(samples, DefaultNormalizeConfig())
	for i, s := range samples {
		if s != 0 {
			t.Errorf("sample %d: expected 0, got %d", i, s)
		}
	}
}

func TestNormalize_GainTowardTargetPeak(t *testing.T) {
	// Peak 20000: target/peak = 1.4745, below the 1.8 cap, so the peak lands
	// exactly on the target amplitude.
	samples := []int16{20000, -10000}
	Normalize(samples, DefaultNormalizeConfig())
	if samples[0] != 29490 {
		t.Errorf("peak sample: expected 29490, got %d", samples[0])
	}
	if samples[1] != -14745 {
		t.Errorf("half-peak sample: expected -14745, got %d", samples[1])
	}
}

func TestNormalize_NeverAttenuates(t *testing.T) {
	input := []int16{100, -200, 3000, -15000, 29000, -32000}
	samples := make([]int16, len(input))
	copy(samples, input)

	Normalize(samples, DefaultNormalizeConfig())

	for i := range input {
		in, out := abs(input[i]), abs(samples[i])
		if out < in {
			t.Errorf("sample %d: amplitude shrank from %d to %d", i, in, out)
		}
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	Normalize(nil, DefaultNormalizeConfig())
	Normalize([]int16{}, NormalizeConfig{})
}

func TestNormalize_ZeroConfigUsesDefaults(t *testing.T) {
	samples := []int16{1000}
	Normalize(samples, NormalizeConfig{})
	if samples[0] != 1800 {
		t.Errorf("expected default 1.8x boost, got %d", samples[0])
	}
}

func abs(v int16) int {
	a := int(v)
	if a < 0 {
		a = -a
	}
	return a
}
