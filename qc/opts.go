package qc

// Metric names recognized in limits files and reported with verdicts. The
// set is closed; a limits file must cover every name and may not introduce
// new ones.
const (
	MetricDuplication       = "duplication"
	MetricKmer              = "kmer"
	MetricNContent          = "n_content"
	MetricOverrepresented   = "overrepresented"
	MetricQualityBaseLower  = "quality_base_lower"
	MetricQualityBaseMedian = "quality_base_median"
	MetricQualitySequence   = "quality_sequence"
	MetricSequence          = "sequence"
	MetricGCSequence        = "gc_sequence"
	MetricTile              = "tile"
	MetricSequenceLength    = "sequence_length"
	MetricAdapter           = "adapter"
)

// MetricNames lists the closed metric set in report order.
var MetricNames = []string{
	MetricDuplication,
	MetricKmer,
	MetricNContent,
	MetricOverrepresented,
	MetricQualityBaseLower,
	MetricQualityBaseMedian,
	MetricQualitySequence,
	MetricSequence,
	MetricGCSequence,
	MetricTile,
	MetricSequenceLength,
	MetricAdapter,
}

// Limit holds the warn/error thresholds for one metric. Ignored metrics
// receive no verdict. Ingestion-side state is skipped only when every metric
// that reads it is ignored: tile statistics when tile is ignored, the k-mer
// table when both kmer and adapter are ignored, and the duplication map when
// both duplication and overrepresented are ignored.
type Limit struct {
	Warn   float64
	Error  float64
	Ignore bool
}

// Limits maps a metric name to its thresholds.
type Limits map[string]Limit

// DefaultLimits returns the reference thresholds used when no limits file is
// given.
func DefaultLimits() Limits {
	return Limits{
		MetricDuplication:       {Warn: 70, Error: 50},
		MetricKmer:              {Warn: 2, Error: 5, Ignore: true},
		MetricNContent:          {Warn: 5, Error: 20},
		MetricOverrepresented:   {Warn: 0.1, Error: 1},
		MetricQualityBaseLower:  {Warn: 10, Error: 5},
		MetricQualityBaseMedian: {Warn: 25, Error: 20},
		MetricQualitySequence:   {Warn: 27, Error: 20},
		MetricSequence:          {Warn: 10, Error: 20},
		MetricGCSequence:        {Warn: 15, Error: 30},
		MetricTile:              {Warn: 5, Error: 10},
		MetricSequenceLength:    {Warn: 1, Error: 1},
		MetricAdapter:           {Warn: 5, Error: 10},
	}
}

// Adapter is one configured adapter: a display name and the 2-bit hash of
// the first KmerLength bases of its sequence.
type Adapter struct {
	Name   string
	Prefix Kmer
}

// Contaminant is one configured contaminant: a display name and a literal
// subsequence. Contaminant sequences are not alphabet-validated.
type Contaminant struct {
	Name string
	Seq  string
}

// Opts configures a scan.
type Opts struct {
	// KmerLength is the k-mer length used for the k-mer table and for
	// adapter prefix hashes. Must be in [2, 10].
	KmerLength int
	// PoorQualityThreshold is the mean-quality value below which a read is
	// counted as poor quality.
	PoorQualityThreshold int
	// OverrepMinFraction is the minimum fraction of reads a sequence must
	// reach to be reported as overrepresented.
	OverrepMinFraction float64
	// QualityOffset is subtracted from each quality byte of text inputs.
	QualityOffset int
	// Limits holds the warn/error/ignore thresholds per metric.
	Limits Limits
	// Adapters are scanned for by k-mer prefix in the first 500 positions
	// of the k-mer-sampled records (every 32nd record).
	Adapters []Adapter
	// Contaminants name overrepresented sequences in the report.
	Contaminants []Contaminant
}

// DefaultOpts holds the default scan options.
var DefaultOpts = Opts{
	KmerLength:           7,
	PoorQualityThreshold: 20,
	OverrepMinFraction:   0.001,
	QualityOffset:        33,
}

func (o Opts) limit(name string) Limit {
	if o.Limits == nil {
		return DefaultLimits()[name]
	}
	return o.Limits[name]
}
