// Package lapd reads digitizer and control-device records from LaPD HDF5
// files.
//
// A LaPD file keeps every device under the "Raw data + config" group. A
// digitizer records one signal dataset per board and channel plus a header
// table carrying the shot number of each row; control devices such as
// waveform generators and probe drives record their own tables on their
// own shot timelines, often with gaps.
//
// ReadData selects rows of one digitizer channel by row index or by shot
// number and aligns them with any number of control devices:
//
//	f, err := lapd.Open("run.hdf5")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	data, err := f.ReadData(ctx, 0, 3,
//	    lapd.WithShots(lapd.Range(1, 200, 1)),
//	    lapd.WithControls(lapd.Control{Name: "6K Compumotor"}))
//
// The records always hold the shotnum, signal and xyz fields. Positions a
// stream has no stored row for hold the missing value of the field: NaN for
// floats, MissingInt for integers and "" for strings.
package lapd
