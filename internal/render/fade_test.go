package render

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lumitree/internal/lumen"
)

var _ = Describe("LinearFade", func() {
	var (
		clk   *fakeClock
		fade  *LinearFade
		frame lumen.Frame
	)

	BeforeEach(func() {
		clk = newFakeClock()
		fade = NewLinearFade(solid(0.2), solid(0.8), time.Second, clk)
		frame = lumen.NewFrame(3)
	})

	It("latches its start time on the first render", func() {
		clk.Sleep(10 * time.Second)
		Expect(fade.Render(nil, nil, frame)).To(Succeed())
		Expect(fade.Done()).To(BeFalse())
		Expect(frame[0].R).To(BeNumerically("~", 0.2, 1e-9))
	})

	It("blends halfway at half the duration", func() {
		fade.Render(nil, nil, frame)
		clk.Sleep(500 * time.Millisecond)
		frame.Clear()
		fade.Render(nil, nil, frame)

		Expect(fade.Done()).To(BeFalse())
		Expect(fade.Progress()).To(BeNumerically("~", 0.5, 1e-9))
		for _, c := range frame {
			Expect(c.R).To(BeNumerically("~", 0.5*0.8+0.5*0.2, 1e-9))
		}
	})

	It("is done with the end scene exactly at the full duration", func() {
		fade.Render(nil, nil, frame)
		clk.Sleep(time.Second)
		frame.Clear()
		fade.Render(nil, nil, frame)

		Expect(fade.Done()).To(BeTrue())
		Expect(frame).To(HaveEach(lumen.Gray(0.8)))
	})

	It("stays done and keeps rendering the end scene", func() {
		fade.Render(nil, nil, frame)
		clk.Sleep(2 * time.Second)
		fade.Render(nil, nil, frame)
		clk.Sleep(-time.Hour)
		frame.Clear()
		fade.Render(nil, nil, frame)

		Expect(fade.Done()).To(BeTrue())
		Expect(frame[0]).To(Equal(lumen.Gray(0.8)))
	})

	It("fades in from black without a start scene", func() {
		fade = NewLinearFade(nil, solid(1), time.Second, clk)
		fade.Render(nil, nil, frame)
		clk.Sleep(250 * time.Millisecond)
		frame.Clear()
		fade.Render(nil, nil, frame)
		Expect(frame[0].G).To(BeNumerically("~", 0.25, 1e-9))
	})

	It("completes immediately with a zero duration", func() {
		fade = NewLinearFade(solid(0.2), solid(0.8), 0, clk)
		fade.Render(nil, nil, frame)
		Expect(fade.Done()).To(BeTrue())
		Expect(frame[0]).To(Equal(lumen.Gray(0.8)))
	})
})

var _ = Describe("TwoStepFade", func() {
	var (
		clk   *fakeClock
		fade  *TwoStepFade
		frame lumen.Frame
	)

	render := func() {
		frame.Clear()
		fade.Render(nil, nil, frame)
	}

	BeforeEach(func() {
		clk = newFakeClock()
		fade = NewTwoStepFade(solid(0), solid(1), solid(0.5), 2*time.Second, clk)
		frame = lumen.NewFrame(1)
	})

	It("runs the first half before the second", func() {
		render()
		clk.Sleep(500 * time.Millisecond)
		render()
		Expect(fade.Step()).To(Equal(1))
		Expect(frame[0].R).To(BeNumerically("~", 0.5, 1e-9))

		clk.Sleep(500 * time.Millisecond)
		render()
		Expect(fade.Step()).To(Equal(2))
		Expect(fade.Done()).To(BeFalse())
		Expect(frame[0].R).To(BeNumerically("~", 1, 1e-9))
	})

	It("is done only after both halves", func() {
		render()
		clk.Sleep(time.Second)
		render()
		Expect(fade.Done()).To(BeFalse())

		render()
		clk.Sleep(500 * time.Millisecond)
		render()
		Expect(frame[0].R).To(BeNumerically("~", 0.75, 1e-9))

		clk.Sleep(500 * time.Millisecond)
		render()
		Expect(fade.Done()).To(BeTrue())
		Expect(frame[0]).To(Equal(lumen.Gray(0.5)))
		Expect(fade.End()).To(Equal(solid(0.5)))
	})
})
