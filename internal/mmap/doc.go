// Package mmap provides read-only memory-mapped file access.
//
// Local dataset blobs are mapped instead of read so that large inputs are
// paged in on demand and shared with the page cache:
//
//	m, err := mmap.Open("points.jsonl")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// Unix systems use mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile, where Advise is a no-op.
//
// Bytes and ReadAt are safe for concurrent use. Close is idempotent, but
// callers must not touch the slice returned by Bytes after Close returns.
package mmap
