// Package blob is the entry point for document blob storage. Higher layers
// depend on blob.Store and construct backends through this package only.
package blob

import "pfmlportal/internal/blob/core"

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

var (
	// ErrExists is returned when writing to an occupied key.
	ErrExists = core.ErrExists
	// ErrNotFound is returned for unknown keys.
	ErrNotFound = core.ErrNotFound
	// ErrInvalidKey is returned for malformed keys.
	ErrInvalidKey = core.ErrInvalidKey
)
