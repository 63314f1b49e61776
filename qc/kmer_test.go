package qc

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestKmerRoundTrip(t *testing.T) {
	for _, seq := range []string{
		"AC", "ACGT", "TTTTTTT", "GATTACA", "CCCCCCCCCC", "ACTGACTGAC",
	} {
		k := len(seq)
		expect.EQ(t, decodeKmer(encodeKmer(seq, k), k), seq)
	}
}

func TestBaseBits(t *testing.T) {
	expect.EQ(t, baseBits('A'), Kmer(0))
	expect.EQ(t, baseBits('C'), Kmer(1))
	expect.EQ(t, baseBits('T'), Kmer(2))
	expect.EQ(t, baseBits('G'), Kmer(3))
	// Classification is by bit extraction, not validation: other bytes land
	// on the index their bits happen to select.
	expect.EQ(t, baseBits('U'), Kmer(2))
	expect.EQ(t, baseBits('a'), Kmer(0))
	expect.EQ(t, baseBits('g'), Kmer(3))
}

func TestKmerMask(t *testing.T) {
	expect.EQ(t, kmerMask(2), Kmer(0xf))
	expect.EQ(t, kmerMask(7), Kmer(0x3fff))
	expect.EQ(t, kmerMask(10), Kmer(0xfffff))
}
