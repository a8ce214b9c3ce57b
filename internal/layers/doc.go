// Package layers implements the effect layers and the wrappers that make
// them safe to compose in a shared render loop.
//
// A [Safe] isolates one layer's errors and panics and disables it after a
// run of consecutive failures. A [Responsive] adapts a [ResponsiveRenderer]
// to the plain layer contract by deriving a smoothed, faded response level
// from the latest biosignal sample. A [Routine] renders an ordered list of
// Safe layers as one look.
//
// Concrete effects are built from config [Spec] values through a [Registry].
// Effects that need hierarchy data fall back to distance-based bands when
// the model has no address mapping.
package layers
