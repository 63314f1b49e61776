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

// Package report renders a qc.Summary as the structured text report and as
// an HTML document. Writers hold no state of their own; a failed write
// never invalidates the Summary.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqqc/qc"
)

// Version is stamped into the report headers.
const Version = "0.1.0"

// Module section names, in report order.
const (
	ModuleBasicStats     = "Basic Statistics"
	ModuleBaseQuality    = "Per base sequence quality"
	ModuleTileQuality    = "Per tile sequence quality"
	ModuleSeqQuality     = "Per sequence quality scores"
	ModuleBaseContent    = "Per base sequence content"
	ModuleGCContent      = "Per sequence GC content"
	ModuleNContent       = "Per base N content"
	ModuleLengthDist     = "Sequence Length Distribution"
	ModuleDuplication    = "Sequence Duplication Levels"
	ModuleOverrep        = "Overrepresented sequences"
	ModuleAdapterContent = "Adapter Content"
	ModuleKmerContent    = "Kmer Content"
)

// WriteText writes the `>>`-delimited text report.
func WriteText(w io.Writer, s *qc.Summary) error {
	t := tsv.NewWriter(w)
	t.WriteString("##seqqc")
	t.WriteString(Version)
	if err := t.EndLine(); err != nil {
		return err
	}

	basicStats(t, s)
	if v, ok := baseQualityVerdict(s); ok {
		module(t, ModuleBaseQuality, v)
		t.WriteString("#Base\tMean\tMedian\tLower Quartile\tUpper Quartile\t10th Percentile\t90th Percentile")
		endLine(t)
		for p, q := range s.Quality {
			writeInt(t, p+1)
			writeFloat(t, q.Mean)
			writeInt(t, q.Median)
			writeInt(t, q.LowerQuartile)
			writeInt(t, q.UpperQuartile)
			writeInt(t, q.Decile10)
			writeInt(t, q.Decile90)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricTile]; ok && len(s.Tiles) > 0 {
		module(t, ModuleTileQuality, v)
		t.WriteString("#Tile\tBase\tMean")
		endLine(t)
		for _, tile := range s.Tiles {
			for p, d := range tile.Deviation {
				writeInt(t, tile.Tile)
				writeInt(t, p+1)
				writeFloat(t, d)
				endLine(t)
			}
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricQualitySequence]; ok {
		module(t, ModuleSeqQuality, v)
		t.WriteString("#Quality\tCount")
		endLine(t)
		for q, n := range s.QualityDist {
			if n == 0 {
				continue
			}
			writeInt(t, q)
			writeInt64(t, n)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricSequence]; ok {
		module(t, ModuleBaseContent, v)
		t.WriteString("#Base\tG\tA\tT\tC")
		endLine(t)
		for p, b := range s.Base {
			writeInt(t, p+1)
			writeFloat(t, b.G)
			writeFloat(t, b.A)
			writeFloat(t, b.T)
			writeFloat(t, b.C)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricGCSequence]; ok {
		module(t, ModuleGCContent, v)
		t.WriteString("#GC Content\tCount")
		endLine(t)
		for g, n := range s.GCDist {
			writeInt(t, g)
			writeInt64(t, n)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricNContent]; ok {
		module(t, ModuleNContent, v)
		t.WriteString("#Base\tN-Count")
		endLine(t)
		for p, b := range s.Base {
			writeInt(t, p+1)
			writeFloat(t, b.N)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricSequenceLength]; ok {
		module(t, ModuleLengthDist, v)
		t.WriteString("#Length\tCount")
		endLine(t)
		for p, n := range s.LengthFreq {
			if n == 0 {
				continue
			}
			writeInt(t, p+1)
			writeInt64(t, n)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricDuplication]; ok {
		module(t, ModuleDuplication, v)
		t.WriteString("#Total Deduplicated Percentage")
		writeFloat(t, s.Duplication.TotalDeduplicatedPercent)
		endLine(t)
		t.WriteString("#Duplication Level\tPercentage of deduplicated\tPercentage of total")
		endLine(t)
		for b, label := range qc.DuplicationLabels {
			t.WriteString(label)
			writeFloat(t, s.Duplication.DedupPercent[b])
			writeFloat(t, s.Duplication.TotalPercent[b])
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricOverrepresented]; ok {
		module(t, ModuleOverrep, v)
		t.WriteString("#Sequence\tCount\tPercentage\tPossible Source")
		endLine(t)
		for _, o := range s.Overrepresented {
			t.WriteString(o.Seq)
			writeInt64(t, o.Count)
			writeFloat(t, o.Percent)
			t.WriteString(o.Hit)
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricAdapter]; ok && len(s.Adapters) > 0 {
		module(t, ModuleAdapterContent, v)
		header := "#Position"
		for _, ad := range s.Adapters {
			header += "\t" + ad.Name
		}
		t.WriteString(header)
		endLine(t)
		for p := 0; p < len(s.Adapters[0].Percent); p++ {
			writeInt(t, p+1)
			for _, ad := range s.Adapters {
				writeFloat(t, ad.Percent[p])
			}
			endLine(t)
		}
		endModule(t)
	}
	if v, ok := s.Verdicts[qc.MetricKmer]; ok {
		module(t, ModuleKmerContent, v)
		t.WriteString("#Sequence\tCount\tMax Position")
		endLine(t)
		for _, k := range s.Kmers {
			t.WriteString(k.Seq)
			writeInt64(t, k.Count)
			writeInt(t, k.MaxPosition+1)
			endLine(t)
		}
		endModule(t)
	}
	return t.Flush()
}

func basicStats(t *tsv.Writer, s *qc.Summary) {
	module(t, ModuleBasicStats, qc.Pass)
	t.WriteString("#Measure\tValue")
	endLine(t)
	row := func(measure, value string) {
		t.WriteString(measure)
		t.WriteString(value)
		endLine(t)
	}
	row("Filename", s.Filename)
	row("Total Sequences", strconv.FormatInt(s.NumReads, 10))
	row("Sequences flagged as poor quality", strconv.FormatInt(s.NumPoorQuality, 10))
	if s.MinLength == s.MaxLength {
		row("Sequence length", strconv.Itoa(s.MaxLength))
	} else {
		row("Sequence length", fmt.Sprintf("%d-%d", s.MinLength, s.MaxLength))
	}
	row("%GC", formatFloat(s.AvgGC))
	endModule(t)
}

// baseQualityVerdict folds the two per-base quality metrics into one module
// verdict; absent when both are ignored.
func baseQualityVerdict(s *qc.Summary) (qc.Verdict, bool) {
	lower, okLower := s.Verdicts[qc.MetricQualityBaseLower]
	median, okMedian := s.Verdicts[qc.MetricQualityBaseMedian]
	if !okLower && !okMedian {
		return qc.Pass, false
	}
	if median > lower {
		return median, true
	}
	return lower, true
}

func module(t *tsv.Writer, name string, v qc.Verdict) {
	t.WriteString(">>" + name)
	t.WriteString(v.String())
	endLine(t)
}

func endModule(t *tsv.Writer) {
	t.WriteString(">>END_MODULE")
	endLine(t)
}

func endLine(t *tsv.Writer) {
	_ = t.EndLine()
}

func writeInt(t *tsv.Writer, v int) {
	t.WriteString(strconv.Itoa(v))
}

func writeInt64(t *tsv.Writer, v int64) {
	t.WriteString(strconv.FormatInt(v, 10))
}

func writeFloat(t *tsv.Writer, v float64) {
	t.WriteString(formatFloat(v))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
