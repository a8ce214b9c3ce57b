package render

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lumitree/internal/layers"
	"github.com/san-kum/lumitree/internal/lumen"
	"github.com/san-kum/lumitree/internal/playlist"
)

func TestRender(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Render Suite")
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(5000, 0)} }

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func solid(v float64) lumen.Layer { return layers.Solid{Color: lumen.Gray(v)} }

func routine(name string, v float64) *layers.Routine {
	return layers.NewRoutine(name, layers.NewSafe(name, solid(v), 0, nil))
}

func mustPlaylist(routines ...*layers.Routine) *Playlist {
	pl, err := playlist.New(routines)
	if err != nil {
		panic(err)
	}
	return pl
}
