package store

import "github.com/cespare/xxhash/v2"

func xxhashOf(b []byte) uint64 { return xxhash.Sum64(b) }
