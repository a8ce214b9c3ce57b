// Package lumen provides the core rendering primitives shared by every layer.
//
// The package defines:
//
//   - [Color] and [Frame]: the floating-point RGB accumulator, one entry per LED
//   - [Params]: per-frame time context plus the latest biosignal [Sample]
//   - [Layer]: the single-method render contract every effect implements
//   - [Level]: a response level that may be unknown
//   - [Gamma]: the lookup-table gamma correction applied last
//   - [Clock]: wall-clock access, replaceable in tests
//
// # Example
//
//	frame := lumen.NewFrame(model.NumLEDs())
//	params := lumen.NewParams(60)
//	layer.Render(model, params, frame)
//	lumen.NewGamma(2.2).Apply(frame)
//
// # Thread Safety
//
// Params.Time is owned by the animation loop. The sample pair inside Params is
// replaced atomically by [Params.SetSample] and may be read from any goroutine.
// Frames are not safe for concurrent use.
package lumen
