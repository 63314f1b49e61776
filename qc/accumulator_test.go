package qc

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	header, seq, qual string
}

func accumulate(t *testing.T, opts Opts, records []testRecord) *Accumulator {
	acc, err := NewAccumulator(opts)
	require.NoError(t, err)
	for _, r := range records {
		acc.StartRecord([]byte(r.header))
		acc.AddSeq([]byte(r.seq))
		require.NoError(t, acc.AddQual([]byte(r.qual)))
		acc.EndRecord()
	}
	acc.Freeze()
	return acc
}

func TestSingleRecord(t *testing.T) {
	// Quality 'I' is 40 after the +33 offset.
	acc := accumulate(t, DefaultOpts, []testRecord{{"@r0", "ACGT", "IIII"}})
	expect.EQ(t, acc.NumReads(), int64(1))
	expect.EQ(t, acc.MaxReadLength(), 4)

	expect.EQ(t, acc.posBaseCount(0, 0), int64(1)) // A
	expect.EQ(t, acc.posBaseCount(1, 1), int64(1)) // C
	expect.EQ(t, acc.posBaseCount(2, 3), int64(1)) // G
	expect.EQ(t, acc.posBaseCount(3, 2), int64(1)) // T
	for p := 0; p < 4; p++ {
		expect.EQ(t, acc.posQual(p, 40), int64(1))
	}
	expect.EQ(t, acc.qualityCount[40], int64(1))
	expect.EQ(t, acc.gcCount[50], int64(1))
	expect.EQ(t, acc.seqCount["ACGT"], int64(1))

	s := acc.Summarize()
	expect.EQ(t, s.AvgLength, int64(4))
	expect.EQ(t, s.AvgGC, 50.0)
	expect.EQ(t, s.Quality[0].Median, 40)
	expect.EQ(t, s.Quality[0].Mean, 40.0)
}

func TestAllN(t *testing.T) {
	acc := accumulate(t, DefaultOpts, []testRecord{{"@r0", "NNNN", "IIII"}})
	for p := 0; p < 4; p++ {
		expect.EQ(t, acc.posNCount(p), int64(1))
		for b := 0; b < 4; b++ {
			expect.EQ(t, acc.posBaseCount(p, b), int64(0))
		}
	}
	expect.EQ(t, acc.gcCount[0], int64(1))
	// No k-mer can be recorded from an all-N read.
	for _, n := range acc.kmerCount {
		expect.EQ(t, n, uint32(0))
	}
}

func TestKmerWindowInvalidation(t *testing.T) {
	opts := DefaultOpts
	opts.KmerLength = 2
	// Record index 0 is k-mer sampled. The N invalidates dimers ending at
	// the N and at the following base.
	acc := accumulate(t, opts, []testRecord{{"@r0", "ACNGT", "IIIII"}})
	shift := acc.kmerShift
	ac := int(encodeKmer("AC", 2))
	gt := int(encodeKmer("GT", 2))
	expect.EQ(t, acc.kmerCount[1<<shift|ac], uint32(1))
	expect.EQ(t, acc.kmerCount[4<<shift|gt], uint32(1))
	var total uint32
	for _, n := range acc.kmerCount {
		total += n
	}
	expect.EQ(t, total, uint32(2))
}

func TestKmerSampling(t *testing.T) {
	opts := DefaultOpts
	opts.KmerLength = 4
	var records []testRecord
	for i := 0; i < 33; i++ {
		records = append(records, testRecord{"@r", "ACGT", "IIII"})
	}
	acc := accumulate(t, opts, records)
	// Records 0 and 32 are sampled: ceil(33/32) = 2.
	h := int(encodeKmer("ACGT", 4))
	expect.EQ(t, acc.kmerCount[3<<acc.kmerShift|h], uint32(2))
}

func TestMeanQualityBucketTruncates(t *testing.T) {
	// Qualities 40,40,40,41 have mean 40.25, bucketed at 40.
	acc := accumulate(t, DefaultOpts, []testRecord{{"@r0", "ACGT", "IIIJ"}})
	expect.EQ(t, acc.qualityCount[40], int64(1))
}

func TestLongTierGrowth(t *testing.T) {
	n := fixedPositions + 5
	acc := accumulate(t, DefaultOpts, []testRecord{{
		"@r0", strings.Repeat("A", n), strings.Repeat("I", n),
	}})
	expect.EQ(t, acc.MaxReadLength(), n)
	expect.EQ(t, acc.long.n, 5)
	expect.EQ(t, acc.posBaseCount(fixedPositions, 0), int64(1))
	expect.EQ(t, acc.posQual(n-1, 40), int64(1))

	s := acc.Summarize()
	expect.EQ(t, s.CumulativeFreq[fixedPositions], int64(1))
	expect.EQ(t, s.LengthFreq[n-1], int64(1))
}

func TestCounterInvariants(t *testing.T) {
	records := []testRecord{
		{"@r0", "ACGTN", "IIIII"},
		{"@r1", "AC", "I!"},
		{"@r2", "GGGGGGGG", "IIIIIIII"},
		{"@r3", "NNAC", "!!II"},
	}
	acc := accumulate(t, DefaultOpts, records)
	s := acc.Summarize()
	for p := 0; p < acc.MaxReadLength(); p++ {
		var bases, quals int64
		for b := 0; b < 4; b++ {
			bases += acc.posBaseCount(p, b)
		}
		bases += acc.posNCount(p)
		for q := 0; q < maxQual; q++ {
			quals += acc.posQual(p, q)
		}
		assert.Equal(t, s.CumulativeFreq[p], bases, "base total at position %d", p)
		assert.Equal(t, s.CumulativeFreq[p], quals, "quality total at position %d", p)
	}
	for p, b := range s.Base {
		assert.InDelta(t, 100.0, b.A+b.C+b.G+b.T+b.N, 1e-6, "position %d", p)
	}
}

func TestQualitySequenceLengthMismatch(t *testing.T) {
	acc, err := NewAccumulator(DefaultOpts)
	require.NoError(t, err)
	acc.StartRecord([]byte("@r0"))
	acc.AddSeq([]byte("ACGT"))
	expect.EQ(t, acc.AddQual([]byte("III")), ErrMalformedRecord)
}

func TestQualityOutOfRange(t *testing.T) {
	acc, err := NewAccumulator(DefaultOpts)
	require.NoError(t, err)
	acc.StartRecord([]byte("@r0"))
	acc.AddSeq([]byte("AC"))
	// 0x20 is below the +33 offset.
	expect.EQ(t, acc.AddQual([]byte(" I")), ErrMalformedRecord)
}

func TestKmerLengthRange(t *testing.T) {
	for _, k := range []int{1, 11, 0, -3} {
		opts := DefaultOpts
		opts.KmerLength = k
		_, err := NewAccumulator(opts)
		assert.Error(t, err, "k=%d", k)
	}
}

func TestDuplicationMap(t *testing.T) {
	acc := accumulate(t, DefaultOpts, []testRecord{
		{"@r0", "AAAA", "IIII"},
		{"@r1", "AAAA", "IIII"},
	})
	expect.EQ(t, acc.seqCount["AAAA"], int64(2))
	expect.EQ(t, acc.countAtLimit, int64(2))

	s := acc.Summarize()
	expect.EQ(t, s.Duplication.TotalDeduplicatedPercent, 50.0)
	expect.EQ(t, s.Duplication.TotalPercent[1], 100.0)
	expect.EQ(t, s.Duplication.DedupPercent[1], 100.0)
}

func TestDuplicationPrefixTruncation(t *testing.T) {
	long := strings.Repeat("ACGT", 20) // 80 bases, above the full-key cutoff
	acc := accumulate(t, DefaultOpts, []testRecord{
		{"@r0", long, strings.Repeat("I", 80)},
	})
	_, ok := acc.seqCount[long]
	expect.EQ(t, ok, false)
	expect.EQ(t, acc.seqCount[long[:dupPrefixLen]], int64(1))
}

func TestTileSamplingCount(t *testing.T) {
	var records []testRecord
	for i := 0; i < 17; i++ {
		records = append(records, testRecord{"@M00321:123:FC:1:2106:1000:2000", "ACGT", "IIII"})
	}
	acc := accumulate(t, DefaultOpts, records)
	// Records 0, 8 and 16 are tile sampled: ceil(17/8) = 3.
	expect.EQ(t, acc.tileCount[2106], int64(3))
}

func TestSummarizeIdempotent(t *testing.T) {
	acc := accumulate(t, DefaultOpts, []testRecord{
		{"@M00321:123:FC:1:2106:1000:2000", "ACGTACGT", "IIIIIIII"},
		{"@M00321:123:FC:1:2106:1000:2001", "GGGGCCCC", "IIII!!!!"},
	})
	assert.Equal(t, acc.Summarize(), acc.Summarize())
}
