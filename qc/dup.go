package qc

import (
	gunsafe "github.com/grailbio/base/unsafe"
)

const (
	// dupUniqueLimit caps the number of distinct keys in the duplication
	// map. Once reached, new keys are refused; existing keys continue to
	// increment.
	dupUniqueLimit = 100000
	// Reads longer than dupMaxFullLen are keyed by their first
	// dupPrefixLen bases; shorter reads are keyed whole.
	dupPrefixLen  = 50
	dupMaxFullLen = 75
)

// recordDup upserts the current record's duplication key. Called from
// EndRecord, so the nucleotide buffer still holds the record. Keys never
// reach the long tier: dupPrefixLen and dupMaxFullLen are both far below
// fixedPositions.
func (a *Accumulator) recordDup() {
	n := a.recordLen
	if n > dupMaxFullLen {
		n = dupPrefixLen
	}
	buf := a.seqBuf[:n]
	// The unsafe conversion avoids allocating a key for the (common)
	// lookup-hit case; inserts copy the bytes.
	key := gunsafe.BytesToString(buf)
	if _, ok := a.seqCount[key]; ok {
		a.seqCount[key]++
		return
	}
	if a.numUniqueSeen >= dupUniqueLimit {
		return
	}
	a.seqCount[string(buf)] = 1
	a.numUniqueSeen++
	if a.numUniqueSeen == dupUniqueLimit {
		a.countAtLimit = a.numReads + 1
	}
}
