// Package align reconciles the resolutions of several independent streams
// onto one shared shot-number axis.
//
// A LaPD read pairs one primary stream (a digitizer dataset) with zero or
// more secondary streams (control-device datasets). Each stream is triggered
// independently, so the shots they recorded need not agree. [Align] builds
// the shared axis from the valid shots of every stream, as an intersection
// or a union depending on the [Policy], and then re-derives each stream's
// rows and validity mask against that axis by looking every shot up in the
// stream's own store.
//
// Valid shot sets are held as roaring bitmaps, so combining N streams costs
// one bitmap operation regardless of how the individual requests were shaped.
package align
