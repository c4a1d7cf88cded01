// Package hdfstore reads LaPD tables out of HDF5 files.
//
// A [File] wraps an open go-hdf5 file and serializes every read on it; the
// underlying handle is not safe for concurrent use. On top of it the package
// offers two things:
//
//   - hierarchy access for the file mapper: [File.List] returns the groups
//     and datasets under a path, [File.Attr] reads string attributes.
//   - [Table], a row-addressable view of one dataset, used to read
//     shot-number and configuration-tag columns and to fetch selected rows
//     for the materializer.
//
// # Table forms
//
// A table is one of
//
//   - a compound dataset, one member per field
//   - a group of equal-length 1-D datasets, one dataset per field. A tag
//     column stored this way holds integer codes and a "labels" string
//     array attribute naming each code.
//   - a signal dataset, 1-D or 2-D (rows × samples), exposed as one field
//     named "signal" whose width is the number of samples.
//
// Fetch never reads a whole table. It sorts the requested rows, reads each
// contiguous run with a hyperslab selection and hands the values back in
// the requested order.
package hdfstore
