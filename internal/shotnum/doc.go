// Package shotnum resolves shot-number and row-index requests against the
// shot-number column of a single dataset.
//
// A LaPD HDF5 dataset records one row per acquisition event ("shot"). Every
// row carries a shot number: a positive integer issued in increasing order
// that may skip values when a device missed shots. Users address data by shot
// number, so every read starts by translating the requested shots into the
// physical rows that actually hold them.
//
// # Requests
//
// A [Request] is a tagged variant with four shapes:
//
//   - [Scalar]: a single value
//   - [List]: any number of values, in any order, duplicates allowed
//   - [Range] / [Slice]: a stepped, stop-exclusive span
//   - [All]: every stored shot (or every row)
//
// The same shapes address rows in [ResolveIndices], where values are 0-based
// positions and negative values count from the end.
//
// # Row Index Store
//
// A [Store] is an immutable view over one shot-number column, optionally
// restricted to the rows carrying one configuration tag. It builds a sorted
// (shot, row) index once so lookups are a binary search rather than a scan.
//
// # Resolution
//
// [ResolveShots] and [ResolveIndices] return a [Resolution]: the rows to
// fetch, the output shot axis and a validity mask over that axis. The number
// of true entries in the mask always equals the number of rows, and the k-th
// true entry names the shot stored at the k-th row.
package shotnum
