package qc

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/hts/bam"
)

// scanBAM feeds decoded BAM records through the same accumulator entry
// points as the text layouts. BAM qualities are already numeric Phred
// values, so no ASCII offset is subtracted.
func scanBAM(ctx context.Context, path string, acc *Accumulator) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	defer in.Close(ctx) // nolint: errcheck
	br, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		return errors.E(err, "bam open", path)
	}
	for {
		rec, err := br.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.E(err, "bam read", path)
		}
		acc.StartRecord(gunsafe.StringToBytes(rec.Name))
		acc.AddSeq(rec.Seq.Expand())
		if err := acc.AddQualScores(rec.Qual); err != nil {
			return err
		}
		acc.EndRecord()
	}
}
