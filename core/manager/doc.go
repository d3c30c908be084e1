// Package manager provides access to datasets stored on a filesystem. A
// dataset lives in a run folder under a common root, holds one file per
// sample following a numbered name format, and optionally carries a
// config.json and stats.json artifact describing how the dataset was
// produced and what a full pass over it measured.
//
//	datasets/ffhq/
//	  v1-cropped/
//	    config.json
//	    stats.json
//	    sample-1.json
//	    sample-2.json
//	    ...
//
// SampleManager satisfies the buffered package's DataManager contract, so
// any dataset can be wrapped with background prefetching and asynchronous
// saving:
//
//	dm, err := manager.NewSampleManager[Sample, DatasetConfig, DatasetStats](
//		"datasets/ffhq", "v1-cropped", "sample-$.json",
//	)
//	if err != nil {
//		return err
//	}
//
//	buf := buffered.NewManager[Sample, DatasetConfig, DatasetStats](dm)
//	defer buf.Shutdown()
//
//	for sample, err := range buf.Samples() {
//		...
//	}
package manager
