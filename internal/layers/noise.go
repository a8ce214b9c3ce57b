package layers

import (
	"math"
	"math/rand"
)

// noiseTile is the period after which the noise field repeats.
const noiseTile = 1024.0

// perlin is a seeded 3D gradient noise field.
type perlin struct {
	perm [512]int
}

func newPerlin(seed int64) *perlin {
	rng := rand.New(rand.NewSource(seed))
	p := &perlin{}
	base := rng.Perm(256)
	for i := 0; i < 512; i++ {
		p.perm[i] = base[i&255]
	}
	return p
}

// Octaves sums n octaves at doubling frequency and halving amplitude. The
// result is roughly in [-1,1].
func (p *perlin) Octaves(x, y, z float64, n int) float64 {
	total, amp, freq, norm := 0.0, 1.0, 1.0, 0.0
	for i := 0; i < n; i++ {
		total += p.Noise(x*freq, y*freq, z*freq) * amp
		norm += amp
		amp *= 0.5
		freq *= 2
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

func (p *perlin) Noise(x, y, z float64) float64 {
	xf, yf, zf := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(xf)&255, int(yf)&255, int(zf)&255
	x, y, z = x-xf, y-yf, z-zf
	u, v, w := smooth(x), smooth(y), smooth(z)

	a := p.perm[xi] + yi
	aa, ab := p.perm[a]+zi, p.perm[a+1]+zi
	b := p.perm[xi+1] + yi
	ba, bb := p.perm[b]+zi, p.perm[b+1]+zi

	return lerp(w,
		lerp(v,
			lerp(u, grad(p.perm[aa], x, y, z), grad(p.perm[ba], x-1, y, z)),
			lerp(u, grad(p.perm[ab], x, y-1, z), grad(p.perm[bb], x-1, y-1, z))),
		lerp(v,
			lerp(u, grad(p.perm[aa+1], x, y, z-1), grad(p.perm[ba+1], x-1, y, z-1)),
			lerp(u, grad(p.perm[ab+1], x, y-1, z-1), grad(p.perm[bb+1], x-1, y-1, z-1))))
}

func smooth(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func grad(hash int, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	v := z
	if h < 4 {
		v = y
	} else if h == 12 || h == 14 {
		v = x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
