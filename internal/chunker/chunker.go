// Package chunker splits source documents into overlapping word windows for indexing.
package chunker

import (
	"iter"
	"slices"
	"strings"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// Chunk yields word windows of chunkSize words, each starting chunkSize-overlap words
// after the previous one. The sequence is deterministic and can be ranged over any
// number of times. Windows that are blank after trimming are skipped.
func Chunk(text string, chunkSize, overlap int) iter.Seq[string] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	step := max(1, chunkSize-overlap)

	return func(yield func(string) bool) {
		words := strings.Fields(text)
		for start := 0; start < len(words); start += step {
			end := min(start+chunkSize, len(words))
			window := strings.TrimSpace(strings.Join(words[start:end], " "))
			if window != "" && !yield(window) {
				return
			}
		}
	}
}

// Split collects Chunk into a slice.
func Split(text string, chunkSize, overlap int) []string {
	return slices.Collect(Chunk(text, chunkSize, overlap))
}
