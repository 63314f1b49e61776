package qc

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// Format identifies the record layout of an input file.
type Format int

const (
	// FormatFastq is a plain four-line-per-record text file.
	FormatFastq Format = iota
	// FormatFastqGzip is a gzip-compressed FormatFastq.
	FormatFastqGzip
	// FormatSAM is the tab-delimited alignment text layout.
	FormatSAM
	// FormatBAM is the compressed binary alignment layout.
	FormatBAM
)

// DetectFormat picks the format from the path suffix.
func DetectFormat(path string) Format {
	switch {
	case strings.HasSuffix(path, ".sam"):
		return FormatSAM
	case strings.HasSuffix(path, ".bam"):
		return FormatBAM
	case strings.HasSuffix(path, ".gz"):
		return FormatFastqGzip
	}
	return FormatFastq
}

// ScanFile scans every record of the input into a fresh Accumulator and
// freezes it. Any error discards the partial state.
func ScanFile(ctx context.Context, path string, format Format, opts Opts) (*Accumulator, error) {
	acc, err := NewAccumulator(opts)
	if err != nil {
		return nil, err
	}
	acc.path = path
	switch format {
	case FormatFastq:
		src, err := openMapped(path, '\n')
		if err != nil {
			return nil, err
		}
		defer src.Close() // nolint: errcheck
		if err := scanPlain(src, acc); err != nil {
			return nil, errors.E(err, path, "record", acc.numReads)
		}
	case FormatFastqGzip:
		src, err := openStream(path)
		if err != nil {
			return nil, err
		}
		defer src.Close() // nolint: errcheck
		if err := scanPlain(src, acc); err != nil {
			return nil, errors.E(err, path, "record", acc.numReads)
		}
	case FormatSAM:
		src, err := openMapped(path, '\t')
		if err != nil {
			return nil, err
		}
		defer src.Close() // nolint: errcheck
		if err := scanAlign(src, acc); err != nil {
			return nil, errors.E(err, path, "record", acc.numReads)
		}
	case FormatBAM:
		if err := scanBAM(ctx, path, acc); err != nil {
			return nil, errors.E(err, path, "record", acc.numReads)
		}
	default:
		return nil, errors.E(ErrConfig, "unknown format", int(format))
	}
	acc.Freeze()
	return acc, nil
}

// scanPlain walks the four-line record layout: identifier, sequence,
// quality descriptor (skipped entirely), quality. The quality line may end
// at end-of-input without a newline.
func scanPlain(src source, acc *Accumulator) error {
	for {
		header, err := src.Line()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		acc.StartRecord(header)
		seq, err := src.Line()
		if err != nil {
			return truncated(err)
		}
		acc.AddSeq(seq)
		if _, err := src.Line(); err != nil {
			return truncated(err)
		}
		qual, err := src.Line()
		if err != nil {
			return truncated(err)
		}
		if err := acc.AddQual(qual); err != nil {
			return err
		}
		acc.EndRecord()
	}
}

// alignSkipFields is the number of tab-delimited metadata fields between
// the identifier and the sequence in the alignment layout.
const alignSkipFields = 8

// scanAlign walks the tab-delimited alignment layout: identifier, eight
// metadata fields, sequence, then quality running to the newline. There is
// no descriptor line. Header lines (leading '@') are skipped.
func scanAlign(src source, acc *Accumulator) error {
	for {
		header, term, err := src.Field()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(header) > 0 && header[0] == '@' {
			if term == '\t' {
				if _, err := src.Line(); err != nil && err != io.EOF {
					return err
				}
			}
			continue
		}
		if term != '\t' {
			return ErrMalformedRecord
		}
		acc.StartRecord(header)
		for i := 0; i < alignSkipFields; i++ {
			if _, term, err = src.Field(); err != nil || term != '\t' {
				return truncated(err)
			}
		}
		seq, term, err := src.Field()
		if err != nil || term != '\t' {
			return truncated(err)
		}
		acc.AddSeq(seq)
		qual, err := src.Line()
		if err != nil {
			return truncated(err)
		}
		if err := acc.AddQual(qual); err != nil {
			return err
		}
		acc.EndRecord()
	}
}

// truncated maps end-of-input inside a record to ErrMalformedRecord and
// passes real read errors through.
func truncated(err error) error {
	if err == nil || err == io.EOF {
		return ErrMalformedRecord
	}
	return err
}
