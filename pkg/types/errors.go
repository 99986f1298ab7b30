package types

import "errors"

// Sentinel errors for common error conditions.
var (
	// ErrNotFound is returned when a requested file or directory is not found.
	ErrNotFound = errors.New("not found")

	// ErrNotAFile is returned when a path exists but is not a regular file.
	ErrNotAFile = errors.New("path is not a file")

	// ErrNotADirectory is returned when a path exists but is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrOutsideRoot is returned when a path escapes the codebase root.
	ErrOutsideRoot = errors.New("path outside codebase root")

	// ErrExists is returned when a destination already exists and overwrite
	// was not requested.
	ErrExists = errors.New("destination already exists")

	// ErrNotEmpty is returned when deleting a non-empty directory without
	// the recursive flag.
	ErrNotEmpty = errors.New("directory is not empty")

	// ErrTooLarge is returned when a file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrInvalidRange is returned when a line range is malformed or out of
	// bounds for the target file.
	ErrInvalidRange = errors.New("invalid line range")

	// ErrChunkNotFound is returned when a named chunk does not exist.
	ErrChunkNotFound = errors.New("chunk not found")

	// ErrBackupNotFound is returned when a named backup does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrBackupExists is returned when creating a backup under a name that
	// is already catalogued.
	ErrBackupExists = errors.New("backup already exists")
)
