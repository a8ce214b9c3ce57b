package lumen

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestGammaIdentity(t *testing.T) {
	g := NewGamma(1.0)
	for _, v := range []float64{0, 0.005, 0.1, 0.333, 0.5, 0.77, 0.999, 1} {
		if got := g.Correct(v); math.Abs(got-v) > 1e-12 {
			t.Errorf("Correct(%v) = %v, want identity", v, got)
		}
	}
}

func TestGammaClamps(t *testing.T) {
	g := NewGamma(2.2)
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative", -0.5, 0},
		{"over", 3, 1},
		{"nan", math.NaN(), 0},
		{"zero", 0, 0},
		{"one", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Correct(tt.in); got != tt.want {
				t.Errorf("Correct(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGammaApproximatesPow(t *testing.T) {
	g := NewGamma(2.2)
	for i := 0; i <= 50; i++ {
		v := float64(i) / 50
		want := math.Pow(v, 2.2)
		if got := g.Correct(v); math.Abs(got-want) > 2e-3 {
			t.Errorf("Correct(%v) = %v, want ~%v", v, got, want)
		}
	}
}

func TestGammaApplyFrame(t *testing.T) {
	f := Frame{{R: 0.5, G: -1, B: 2}}
	NewGamma(1).Apply(f)
	if f[0] != (Color{0.5, 0, 1}) {
		t.Errorf("Apply = %+v", f[0])
	}
}

func TestFrameBlend(t *testing.T) {
	end := Frame{{1, 1, 1}, {0, 0.4, 0}}
	start := Frame{{0, 0, 0}, {1, 0, 0}}
	end.Blend(start, 0.5)

	want := Frame{{0.5, 0.5, 0.5}, {0.5, 0.2, 0}}
	for i := range want {
		if !approxColor(end[i], want[i]) {
			t.Errorf("led %d = %+v, want %+v", i, end[i], want[i])
		}
	}
}

func TestFrameHelpers(t *testing.T) {
	f := NewFrame(3)
	f.AddAll(Gray(0.5))
	f.ScaleAll(2)
	for i, c := range f {
		if c != Gray(1) {
			t.Errorf("led %d = %+v", i, c)
		}
	}
	c := f.Clone()
	f.Clear()
	if c[0] != Gray(1) || f[0] != (Color{}) {
		t.Error("Clone must not alias the source")
	}
	if (Color{math.Inf(1), 0, 0}).IsValid() {
		t.Error("Inf should be invalid")
	}
}

func TestParseChannel(t *testing.T) {
	tests := []struct {
		in      string
		want    Channel
		wantErr bool
	}{
		{"attention", Attention, false},
		{"Meditation", Meditation, false},
		{"", Attention, false},
		{"alpha", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChannel(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidChannel) {
					t.Fatalf("err = %v, want ErrInvalidChannel", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseChannel(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestSampleValue(t *testing.T) {
	s := &Sample{Attention: 0.2, Meditation: 0.9}
	if s.Value(Attention) != 0.2 || s.Value(Meditation) != 0.9 {
		t.Errorf("Value mismatch for %v", s)
	}
}

func TestParamsSamplePair(t *testing.T) {
	p := NewParams(0)
	if p.TargetFrameRate != DefaultFrameRate {
		t.Errorf("TargetFrameRate = %v", p.TargetFrameRate)
	}
	if p.Sample() != nil || p.PreviousSample() != nil {
		t.Fatal("expected no samples initially")
	}

	a := &Sample{Attention: 0.1}
	b := &Sample{Attention: 0.2}
	p.SetSample(a)
	if p.Sample() != a || p.PreviousSample() != nil {
		t.Fatal("first sample not published")
	}
	p.SetSample(b)
	if p.Sample() != b || p.PreviousSample() != a {
		t.Fatal("previous sample not shifted")
	}
}

func TestParamsConcurrentPublish(t *testing.T) {
	p := NewParams(60)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				p.SetSample(&Sample{Attention: float64(j) / 200})
			}
		}()
	}
	for j := 0; j < 200; j++ {
		if s := p.Sample(); s != nil && (s.Attention < 0 || s.Attention > 1) {
			t.Fatalf("torn sample %v", s)
		}
	}
	wg.Wait()
	if p.Sample() == nil || p.PreviousSample() == nil {
		t.Error("expected both samples after publishing")
	}
}

func TestLevel(t *testing.T) {
	if Unknown.Known || Unknown.Or(0.3) != 0.3 {
		t.Error("unknown level should fall back")
	}
	if l := Known(0); !l.Known || l.Or(0.3) != 0 {
		t.Error("zero is a valid known level")
	}
}

func approxColor(a, b Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}
