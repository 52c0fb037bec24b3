package mmap

import "errors"

// AccessPattern is a hint to the kernel about how a mapping will be read.
type AccessPattern int

const (
	// AccessNormal removes any previous hint.
	AccessNormal AccessPattern = iota
	// AccessSequential announces a front-to-back scan, as done by dataset
	// loaders; the kernel may read ahead aggressively.
	AccessSequential
	// AccessDontNeed announces that the pages are no longer needed.
	AccessDontNeed
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for a negative read offset.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
