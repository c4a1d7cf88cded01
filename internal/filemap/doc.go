// Package filemap classifies the contents of a LaPD HDF5 file.
//
// Every LaPD file keeps its raw data under the group "Raw data + config".
// Each subgroup there is one device: a digitizer, which records the
// waveforms, or a control device, which records the state of the machine
// (probe drives, waveform generators) on its own shot-number timeline.
// [Build] walks that group, recognises the devices it knows and records
// for each one the configurations, dataset paths and field layouts a read
// needs.
//
// Known devices:
//
//	SIS 3301       digitizer  datasets "<config> [<board>:<channel>]" plus "... headers"
//	Waveform       waveform   configs are subgroups, table "Run time list"
//	6K Compumotor  motion     configs are subgroups, table "XY[<receptacle>]: <probe>"
//
// A [Map] also indexes the path of every group and dataset of the file in a
// radix tree so callers can list the items under any prefix.
package filemap
