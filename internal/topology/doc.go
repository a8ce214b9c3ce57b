// Package topology models the physical sculpture as a graph of lit segments.
//
// A [Model] is built once from a raw [Graph] (3D node positions plus node-pair
// edges) and an optional [Addresses] mapping of dotted hierarchical addresses
// to edge ids. Edge indices double as LED indices.
//
// Derived indices:
//
//   - normalized node positions in [0,1] per axis (bounding-box rescale)
//   - edge centers and the distance of each center from the base-center point (0.5, 0.5, 0)
//   - root edges, whose centers lie below [RootHeight]
//   - edge adjacency (edges sharing a node) and outward adjacency (adjacent edges
//     strictly farther from the base)
//   - heights and tree indices derived from addresses
//
// # Thread Safety
//
// A Model is immutable after construction and may be shared by any number of
// readers. Slices returned by accessors alias internal storage and must not be
// modified.
package topology
