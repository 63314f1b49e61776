// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package qc

import (
	"math"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/simd"
)

const (
	// fixedPositions is the size of the fixed tier: per-position counters
	// for positions below this live in flat arrays sized at construction.
	fixedPositions = 1000
	// maxQual is the number of quality buckets. Power of two; quality
	// indexes are p<<qualShift | q.
	maxQual   = 64
	qualShift = 6
	// maxTileValue bounds recognized tile numbers. Tiles at or above it are
	// silently dropped.
	maxTileValue = 65536
	// kmerMaxPositions bounds the positions covered by the k-mer table.
	kmerMaxPositions = 500
	// kmerSampleMask selects every 32nd record for k-mer counting and
	// tileSampleMask every 8th record for tile counting.
	kmerSampleMask = 31
	tileSampleMask = 7
)

// longTier holds the per-position counters for positions at and above
// fixedPositions. The buffers are parallel: ensure extends all of them in
// lockstep so their logical lengths stay equal and the hot loops need no
// per-array growth checks.
type longTier struct {
	n              int // positions covered, i.e. max position seen - fixedPositions + 1
	baseCount      []int64
	nBaseCount     []int64
	baseQualSum    []int64
	nBaseQualSum   []int64
	posQualCount   []int64
	readLengthFreq []int64
}

// ensure grows every buffer to cover n long-tier positions.
func (lt *longTier) ensure(n int) {
	for lt.n < n {
		lt.baseCount = append(lt.baseCount, 0, 0, 0, 0)
		lt.nBaseCount = append(lt.nBaseCount, 0)
		lt.baseQualSum = append(lt.baseQualSum, 0, 0, 0, 0)
		lt.nBaseQualSum = append(lt.nBaseQualSum, 0)
		lt.posQualCount = append(lt.posQualCount, make([]int64, maxQual)...)
		lt.readLengthFreq = append(lt.readLengthFreq, 0)
		lt.n++
	}
}

// Accumulator holds all counters for one input. Construct one per input
// with NewAccumulator, feed it records through StartRecord / AddSeq /
// AddQual / EndRecord (or let ScanFile drive it), call Freeze at end of
// scan, and then Summarize.
type Accumulator struct {
	opts      Opts
	path      string
	k         int
	kmerShift uint
	kmerMask  Kmer

	// Ingestion gates derived from Opts.Limits.
	kmerOff bool
	dupOff  bool

	numReads     int64
	maxReadLen   int
	minReadLen   int
	zeroLenReads int64

	// Fixed tier, indexed by position p < fixedPositions. baseCount and
	// baseQualSum are indexed p<<2 | base, posQualCount p<<qualShift | q.
	baseCount      []int64
	nBaseCount     []int64
	baseQualSum    []int64
	nBaseQualSum   []int64
	posQualCount   []int64
	readLengthFreq []int64

	long longTier

	// Per-sequence histograms.
	qualityCount [maxQual]int64
	gcCount      [101]int64

	// kmerCount[p<<kmerShift | h] counts k-mers with hash h ending at
	// position p, over sampled records only.
	kmerCount []uint32

	// Tile state. tileQualSum rows are per-position quality sums, grown to
	// the longest sampled read of the tile.
	tileIgnore  bool
	tileSplit   int
	tileQualSum map[int][]int64
	tileCount   map[int]int64

	// Duplication state (dup.go).
	seqCount      map[string]int64
	numUniqueSeen int
	countAtLimit  int64

	// Per-record state. seqBuf/seqSpill buffer the nucleotides so the
	// quality loop can recover the base index for each quality byte.
	seqBuf      [fixedPositions]byte
	seqSpill    []byte
	recordLen   int
	gcBases     int64
	qualSum     int64
	kmerWin     Kmer
	kmerRun     int
	tileSampled bool
	curTile     int
	curTileOK   bool

	frozen bool
}

// NewAccumulator returns an empty Accumulator for the given options.
func NewAccumulator(opts Opts) (*Accumulator, error) {
	if opts.KmerLength < 2 || opts.KmerLength > 10 {
		return nil, errors.E(ErrConfig, "k-mer length out of range", opts.KmerLength)
	}
	if opts.Limits == nil {
		opts.Limits = DefaultLimits()
	}
	a := &Accumulator{
		opts:      opts,
		k:         opts.KmerLength,
		kmerShift: uint(2 * opts.KmerLength),
		kmerMask:  kmerMask(opts.KmerLength),

		kmerOff: opts.Limits[MetricKmer].Ignore && opts.Limits[MetricAdapter].Ignore,
		dupOff:  opts.Limits[MetricDuplication].Ignore && opts.Limits[MetricOverrepresented].Ignore,

		baseCount:      make([]int64, fixedPositions*4),
		nBaseCount:     make([]int64, fixedPositions),
		baseQualSum:    make([]int64, fixedPositions*4),
		nBaseQualSum:   make([]int64, fixedPositions),
		posQualCount:   make([]int64, fixedPositions*maxQual),
		readLengthFreq: make([]int64, fixedPositions),

		tileIgnore:  opts.Limits[MetricTile].Ignore,
		tileQualSum: map[int][]int64{},
		tileCount:   map[int]int64{},

		seqCount: map[string]int64{},

		kmerRun: 1,
	}
	if !a.kmerOff {
		a.kmerCount = make([]uint32, kmerMaxPositions<<a.kmerShift)
	}
	return a, nil
}

// NumReads returns the number of records accumulated so far.
func (a *Accumulator) NumReads() int64 { return a.numReads }

// MaxReadLength returns the longest record length seen so far.
func (a *Accumulator) MaxReadLength() int { return a.maxReadLen }

// StartRecord begins a new record. header is the identifier line (or read
// name); on sampled records it is parsed for the tile number.
func (a *Accumulator) StartRecord(header []byte) {
	a.tileSampled = false
	a.curTileOK = false
	if !a.tileIgnore && a.numReads&tileSampleMask == 0 {
		a.tileSampled = true
		a.extractTile(header)
	}
}

// AddSeq ingests the nucleotide bytes of the current record.
func (a *Accumulator) AddSeq(seq []byte) {
	doKmer := !a.kmerOff && a.numReads&kmerSampleMask == 0
	k := a.k
	if len(seq) > fixedPositions {
		// Extend the long tier once, up front: the spillover buffer's
		// contents are undefined after a resize, but every byte of it is
		// written below before the quality loop reads it.
		a.long.ensure(len(seq) - fixedPositions)
		simd.ResizeUnsafe(&a.seqSpill, len(seq)-fixedPositions)
	}
	for p := 0; p < len(seq); p++ {
		c := seq[p]
		if p < fixedPositions {
			a.seqBuf[p] = c
			if c == 'N' {
				a.nBaseCount[p]++
				a.kmerRun = 1
				continue
			}
			b := baseBits(c)
			a.baseCount[p<<2|int(b)]++
			a.gcBases += int64(b & 1)
			if doKmer && p < kmerMaxPositions {
				a.kmerWin = (a.kmerWin<<2 | b) & a.kmerMask
				if a.kmerRun == k {
					a.kmerCount[p<<a.kmerShift|int(a.kmerWin)]++
				} else {
					a.kmerRun++
				}
			}
			continue
		}
		lp := p - fixedPositions
		a.seqSpill[lp] = c
		if c == 'N' {
			a.long.nBaseCount[lp]++
			a.kmerRun = 1
			continue
		}
		b := baseBits(c)
		a.long.baseCount[lp<<2|int(b)]++
		a.gcBases += int64(b & 1)
	}
	a.recordLen = len(seq)
}

// AddQual ingests the quality bytes of the current record, subtracting the
// configured ASCII offset.
func (a *Accumulator) AddQual(qual []byte) error {
	return a.addQual(qual, a.opts.QualityOffset)
}

// AddQualScores ingests qualities that are already numeric Phred values
// (the BAM representation).
func (a *Accumulator) AddQualScores(qual []byte) error {
	return a.addQual(qual, 0)
}

func (a *Accumulator) addQual(qual []byte, offset int) error {
	if len(qual) != a.recordLen {
		return ErrMalformedRecord
	}
	var tileRow []int64
	doTile := a.tileSampled && a.curTileOK
	if doTile {
		tileRow = a.tileQualSum[a.curTile]
		if len(tileRow) < len(qual) {
			tileRow = append(tileRow, make([]int64, len(qual)-len(tileRow))...)
			a.tileQualSum[a.curTile] = tileRow
		}
	}
	for p := 0; p < len(qual); p++ {
		q := int(qual[p]) - offset
		if q < 0 || q >= maxQual {
			return ErrMalformedRecord
		}
		if p < fixedPositions {
			a.posQualCount[p<<qualShift|q]++
			if c := a.seqBuf[p]; c == 'N' {
				a.nBaseQualSum[p] += int64(q)
			} else {
				a.baseQualSum[p<<2|int(baseBits(c))] += int64(q)
			}
		} else {
			lp := p - fixedPositions
			a.long.posQualCount[lp<<qualShift|q]++
			if c := a.seqSpill[lp]; c == 'N' {
				a.long.nBaseQualSum[lp] += int64(q)
			} else {
				a.long.baseQualSum[lp<<2|int(baseBits(c))] += int64(q)
			}
		}
		if doTile {
			tileRow[p] += int64(q)
		}
		a.qualSum += int64(q)
	}
	return nil
}

// EndRecord finalizes the current record and resets the per-record state.
func (a *Accumulator) EndRecord() {
	n := a.recordLen
	if n > 0 {
		p := n - 1
		if p < fixedPositions {
			a.readLengthFreq[p]++
		} else {
			a.long.readLengthFreq[p-fixedPositions]++
		}
		if n > a.maxReadLen {
			a.maxReadLen = n
		}
		if a.minReadLen == 0 || n < a.minReadLen {
			a.minReadLen = n
		}
		a.gcCount[int(math.Round(float64(100*a.gcBases)/float64(n)))]++
		a.qualityCount[a.qualSum/int64(n)]++
		if !a.dupOff {
			a.recordDup()
		}
		if a.tileSampled && a.curTileOK {
			a.tileCount[a.curTile]++
		}
	} else {
		a.zeroLenReads++
	}
	a.numReads++
	a.recordLen = 0
	a.gcBases = 0
	a.qualSum = 0
	a.kmerWin = 0
	a.kmerRun = 1
}

// Freeze marks the end of the scan. After Freeze the Accumulator is
// read-only and may be summarized any number of times.
func (a *Accumulator) Freeze() {
	if a.numUniqueSeen < dupUniqueLimit {
		a.countAtLimit = a.numReads
	}
	a.frozen = true
}

// Position accessors used by the summarizer; p may fall in either tier.

func (a *Accumulator) posBaseCount(p, b int) int64 {
	if p < fixedPositions {
		return a.baseCount[p<<2|b]
	}
	return a.long.baseCount[(p-fixedPositions)<<2|b]
}

func (a *Accumulator) posNCount(p int) int64 {
	if p < fixedPositions {
		return a.nBaseCount[p]
	}
	return a.long.nBaseCount[p-fixedPositions]
}

func (a *Accumulator) posQual(p, q int) int64 {
	if p < fixedPositions {
		return a.posQualCount[p<<qualShift|q]
	}
	return a.long.posQualCount[(p-fixedPositions)<<qualShift|q]
}

func (a *Accumulator) lengthFreq(p int) int64 {
	if p < fixedPositions {
		return a.readLengthFreq[p]
	}
	return a.long.readLengthFreq[p-fixedPositions]
}
