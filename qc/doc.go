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

// Package qc implements a single-pass quality-control analyzer for
// high-throughput sequencing reads.
//
// One forward scan of a FASTQ, gzipped FASTQ, SAM or BAM file fills an
// Accumulator with per-position base composition and quality counts,
// per-sequence GC and mean-quality histograms, the read-length distribution,
// a capped sequence-duplication map, sampled k-mer counts, and sampled
// per-tile quality sums.  A one-shot Summarize pass then derives quantiles,
// percentages, the GC normal-fit deviation, duplication extrapolation,
// adapter prefix content, and pass/warn/fail verdicts.
//
// Implementation strategy:
//
// Every byte of sequence and quality is touched exactly once.  Per-position
// counters are kept in two tiers: a fixed tier covering the first 1000
// positions in flat arrays sized at construction, and a long tier of
// parallel growable buffers covering positions beyond that.  All long-tier
// buffers are extended in lockstep by a single ensure-capacity operation so
// that the hot loops carry one predictable tier branch and no per-array
// bounds logic.  Quality and base dimensions are powers of two so counter
// indexes are computed with shifts and masks; per-tile quality sums and
// counts are kept in maps keyed by tile number.
//
// K-mer counting runs on every 32nd record and tile counting on every 8th
// record, selected by the low bits of the record index, which keeps the
// per-record cost dominated by the base and quality counters.
package qc
