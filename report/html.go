package report

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/seqqc/qc"
)

// WriteHTML renders the Summary into the HTML template by placeholder
// substitution.
func WriteHTML(w io.Writer, s *qc.Summary) error {
	var (
		summaryRows strings.Builder
		basic       strings.Builder
		baseQual    strings.Builder
		tileQual    strings.Builder
		seqQual     strings.Builder
		baseContent strings.Builder
		gcContent   strings.Builder
		nContent    strings.Builder
		lengthDist  strings.Builder
		duplication strings.Builder
		overrep     strings.Builder
		adapter     strings.Builder
		kmer        strings.Builder
	)

	type moduleStatus struct {
		name    string
		verdict qc.Verdict
	}
	modules := []moduleStatus{{ModuleBasicStats, qc.Pass}}
	if v, ok := baseQualityVerdict(s); ok {
		modules = append(modules, moduleStatus{ModuleBaseQuality, v})
	}
	for _, m := range []struct {
		name   string
		metric string
	}{
		{ModuleTileQuality, qc.MetricTile},
		{ModuleSeqQuality, qc.MetricQualitySequence},
		{ModuleBaseContent, qc.MetricSequence},
		{ModuleGCContent, qc.MetricGCSequence},
		{ModuleNContent, qc.MetricNContent},
		{ModuleLengthDist, qc.MetricSequenceLength},
		{ModuleDuplication, qc.MetricDuplication},
		{ModuleOverrep, qc.MetricOverrepresented},
		{ModuleAdapterContent, qc.MetricAdapter},
		{ModuleKmerContent, qc.MetricKmer},
	} {
		if v, ok := s.Verdicts[m.metric]; ok {
			modules = append(modules, moduleStatus{m.name, v})
		}
	}
	for _, m := range modules {
		fmt.Fprintf(&summaryRows, "<tr><td class=\"l\">%s</td><td class=\"l\"><span class=\"%s\">%s</span></td></tr>\n",
			html.EscapeString(m.name), m.verdict, m.verdict)
	}

	row := func(b *strings.Builder, cells ...string) {
		b.WriteString("<tr>")
		for _, c := range cells {
			b.WriteString("<td>")
			b.WriteString(c)
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}

	measure := func(name, value string) {
		fmt.Fprintf(&basic, "<tr><td class=\"l\">%s</td><td class=\"l\">%s</td></tr>\n", name, html.EscapeString(value))
	}
	measure("Filename", s.Filename)
	measure("Total sequences", strconv.FormatInt(s.NumReads, 10))
	measure("Sequences flagged as poor quality", strconv.FormatInt(s.NumPoorQuality, 10))
	if s.MinLength == s.MaxLength {
		measure("Sequence length", strconv.Itoa(s.MaxLength))
	} else {
		measure("Sequence length", fmt.Sprintf("%d-%d", s.MinLength, s.MaxLength))
	}
	measure("%GC", pct(s.AvgGC))

	for p, q := range s.Quality {
		row(&baseQual, strconv.Itoa(p+1), pct(q.Mean), strconv.Itoa(q.Median),
			strconv.Itoa(q.LowerQuartile), strconv.Itoa(q.UpperQuartile),
			strconv.Itoa(q.Decile10), strconv.Itoa(q.Decile90))
	}
	for _, t := range s.Tiles {
		for p, d := range t.Deviation {
			row(&tileQual, strconv.Itoa(t.Tile), strconv.Itoa(p+1), pct(d))
		}
	}
	for q, n := range s.QualityDist {
		if n == 0 {
			continue
		}
		row(&seqQual, strconv.Itoa(q), strconv.FormatInt(n, 10))
	}
	for p, b := range s.Base {
		row(&baseContent, strconv.Itoa(p+1), pct(b.G), pct(b.A), pct(b.T), pct(b.C))
	}
	for g, n := range s.GCDist {
		row(&gcContent, strconv.Itoa(g), strconv.FormatInt(n, 10))
	}
	for p, b := range s.Base {
		row(&nContent, strconv.Itoa(p+1), pct(b.N))
	}
	for p, n := range s.LengthFreq {
		if n == 0 {
			continue
		}
		row(&lengthDist, strconv.Itoa(p+1), strconv.FormatInt(n, 10))
	}
	for b, label := range qc.DuplicationLabels {
		fmt.Fprintf(&duplication, "<tr><td class=\"l\">%s</td><td>%s</td><td>%s</td></tr>\n",
			label, pct(s.Duplication.DedupPercent[b]), pct(s.Duplication.TotalPercent[b]))
	}
	for _, o := range s.Overrepresented {
		fmt.Fprintf(&overrep, "<tr><td class=\"l\">%s</td><td>%d</td><td>%s</td><td class=\"l\">%s</td></tr>\n",
			html.EscapeString(o.Seq), o.Count, pct(o.Percent), html.EscapeString(o.Hit))
	}
	if len(s.Adapters) > 0 {
		adapter.WriteString("<tr><th>Position</th>")
		for _, ad := range s.Adapters {
			fmt.Fprintf(&adapter, "<th class=\"l\">%s</th>", html.EscapeString(ad.Name))
		}
		adapter.WriteString("</tr>\n")
		for p := 0; p < len(s.Adapters[0].Percent); p++ {
			fmt.Fprintf(&adapter, "<tr><td>%d</td>", p+1)
			for _, ad := range s.Adapters {
				fmt.Fprintf(&adapter, "<td>%s</td>", pct(ad.Percent[p]))
			}
			adapter.WriteString("</tr>\n")
		}
	}
	for _, k := range s.Kmers {
		fmt.Fprintf(&kmer, "<tr><td class=\"l\">%s</td><td>%d</td><td>%d</td></tr>\n",
			html.EscapeString(k.Seq), k.Count, k.MaxPosition+1)
	}

	page := strings.NewReplacer(
		"{{FILENAME}}", html.EscapeString(s.Filename),
		"{{VERSION}}", Version,
		"{{SUMMARYROWS}}", summaryRows.String(),
		"{{BASICSTATSDATA}}", basic.String(),
		"{{PERBASEQUALITYDATA}}", baseQual.String(),
		"{{PERTILEQUALITYDATA}}", tileQual.String(),
		"{{PERSEQQUALITYDATA}}", seqQual.String(),
		"{{PERBASECONTENTDATA}}", baseContent.String(),
		"{{PERSEQGCDATA}}", gcContent.String(),
		"{{PERBASENDATA}}", nContent.String(),
		"{{LENGTHDISTDATA}}", lengthDist.String(),
		"{{DUPLICATIONDATA}}", duplication.String(),
		"{{OVERREPDATA}}", overrep.String(),
		"{{ADAPTERDATA}}", adapter.String(),
		"{{KMERDATA}}", kmer.String(),
	).Replace(htmlTemplate)
	_, err := io.WriteString(w, page)
	return err
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
