// Package materialize turns an alignment into a composite record set.
//
// Each participating stream is described by a [Source]: the lane it reads
// from, the [Field] layout mapping its storage fields onto output fields, and
// a [Fetcher] that reads physical rows. [Materialize] fetches only the rows a
// lane names, places the values at the lane's valid positions along the
// shared axis and leaves every other position at the missing value of the
// field kind: [MissingInt] for integers, NaN for floats, "" for strings.
//
// The result is a [Records] value whose first field is always "shotnum".
// Float fields are kept as gonum dense matrices, one row per shot.
package materialize
