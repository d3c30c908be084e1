// Package artifact provides load/save access to experiment artifacts such as
// dataset configs, statistics and model checkpoints. An artifact is an opaque
// Go value serialized by a Codec and addressed by name through a Store.
//
// Codecs cover the formats research artifacts are commonly stored in: JSON,
// YAML and gob-encoded binary blobs, each optionally gzip-compressed. Stores
// abstract the location: FileStore keeps artifacts in a local directory, and
// integration/artifact/s3 provides a bucket-backed implementation for shared
// storage.
//
// # Basic Usage
//
//	import "github.com/mlfoundry/expkit/core/artifact"
//
//	store, err := artifact.NewFileStore("runs/EXP-7",
//		artifact.WithCodec(artifact.TypeYAML.Codec()),
//	)
//	if err != nil {
//		return err
//	}
//
//	if err := store.Save(ctx, "config", cfg); err != nil {
//		return err
//	}
//
//	var loaded Config
//	if err := store.Load(ctx, "config", &loaded); err != nil {
//		return err
//	}
//
// Artifact names never carry an extension; the codec appends its own
// (config.yaml above). Writes are atomic: artifacts are written to a
// temporary file first and moved into place, so readers never observe a
// half-written artifact.
package artifact
