// Package s3 provides an S3-backed artifact store.
//
// This package implements the artifact.Store interface using the AWS S3 SDK
// v2, so experiment configs, statistics, and other artifacts can live in
// Amazon S3, MinIO, DigitalOcean Spaces, or any other S3-compatible service
// instead of the local filesystem.
//
// Basic usage:
//
//	import (
//		"context"
//
//		"github.com/mlfoundry/expkit/integration/artifact/s3"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		cfg := s3.Config{
//			Bucket:      "experiment-results",
//			Region:      "us-east-1",
//			AccessKeyID: "AKIA...", // Optional - uses IAM roles if empty
//			SecretKey:   "...",     // Optional - uses IAM roles if empty
//			Prefix:      "runs/mnist",
//		}
//
//		store, err := s3.New(ctx, cfg)
//		if err != nil {
//			panic(err)
//		}
//
//		if err := store.Save(ctx, "config", trainConfig); err != nil {
//			panic(err)
//		}
//
//		var loaded TrainConfig
//		if err := store.Load(ctx, "config", &loaded); err != nil {
//			panic(err)
//		}
//	}
//
// # S3-Compatible Services
//
// MinIO configuration:
//
//	cfg := s3.Config{
//		Bucket:         "experiments",
//		Region:         "us-east-1", // Required
//		AccessKeyID:    "minioadmin",
//		SecretKey:      "minioadmin",
//		Endpoint:       "http://localhost:9000",
//		ForcePathStyle: true, // Required for MinIO
//	}
//
// # Configuration Options
//
//	// YAML artifacts instead of JSON
//	store, err := s3.New(ctx, cfg, s3.WithCodec(artifact.YAMLCodec{}))
//
//	// Upload timeout
//	store, err := s3.New(ctx, cfg, s3.WithUploadTimeout(time.Minute))
//
//	// Custom S3 client for testing
//	mockClient := &MockS3Client{}
//	store, err := s3.New(ctx, cfg, s3.WithS3Client(mockClient))
package s3
