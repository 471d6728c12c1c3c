// Package upload implements the media pipeline used during traveller
// registration: bounding images to a size/dimension budget, transferring
// them to remote object storage, and scheduling batches under a fixed
// concurrency limit.
package upload

import "fmt"

// CompressionError is a per-file failure of the compression stage. It
// always names the offending file; the original is never passed through
// uncompressed.
type CompressionError struct {
	Filename string
	Err      error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compress %s: %v", e.Filename, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// UploadError is a per-file terminal transfer failure. Retrying is the
// caller's decision, never this package's.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
