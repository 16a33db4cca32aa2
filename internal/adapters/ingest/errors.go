package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrReadDir    = errors.New("read match directory")
	ErrDecodeFile = errors.New("decode match file")
)
