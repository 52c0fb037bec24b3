// Package ingest builds dataset collections from blobs.
//
// Two record formats are understood:
//
//	JSONL  {"id": "p1", "vector": [0.1, 0.2], "features": [[1, 2], [3]]}
//	CSV    p1,0.1,0.2,1,2,3
//
// A JSONL record's vector is "vector" followed by every "features"
// sub-vector, concatenated in order. CSV rows carry the identifier in the
// first column unless WithIDColumn(false) is given; a leading header row is
// detected and skipped.
//
// Blobs ending in .gz, .zst or .lz4 are decompressed transparently, and the
// format is inferred from the remaining extension (.jsonl, .ndjson, .json,
// .csv) unless WithFormat overrides it. Reads are throttled by the IO budget
// of an optional resource.Controller.
package ingest
