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
package main

/*
seqqc runs single-pass quality control over a FASTQ, gzipped FASTQ, SAM or
BAM file and writes a text report plus an HTML report.
*/

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqqc/qc"
	"github.com/grailbio/seqqc/report"
)

var (
	outDir           = flag.String("out", ".", "Directory to write the reports to")
	formatName       = flag.String("format", "", "Input format override: 'fastq', 'fastq.gz', 'sam' or 'bam'; default is by filename suffix")
	kmerLength       = flag.Int("kmer", qc.DefaultOpts.KmerLength, "K-mer length for adapter and k-mer content analysis (2-10)")
	limitsPath       = flag.String("limits", "", "Path to a limits file overriding the default warn/error thresholds")
	adaptersPath     = flag.String("adapters", "", "Path to an adapters file; required for adapter content analysis")
	contaminantsPath = flag.String("contaminants", "", "Path to a contaminants file used to name overrepresented sequences")
)

func seqqcUsage() {
	fmt.Printf("Usage: %s [OPTIONS] readpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = seqqcUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Exactly one input path required; please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	inPath := flag.Arg(0)
	ctx := vcontext.Background()

	opts, err := loadOpts(ctx)
	if err != nil {
		log.Fatalf("seqqc: %v", err)
	}
	format, err := resolveFormat(inPath)
	if err != nil {
		log.Fatalf("seqqc: %v", err)
	}

	acc, err := qc.ScanFile(ctx, inPath, format, opts)
	if err != nil {
		log.Fatalf("seqqc: %v", err)
	}
	summary := acc.Summarize()

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	failed := false
	if err := writeReport(ctx, filepath.Join(*outDir, base+"_qc_data.txt"), summary, report.WriteText); err != nil {
		log.Error.Printf("seqqc: text report: %v", err)
		failed = true
	}
	if err := writeReport(ctx, filepath.Join(*outDir, base+"_qc_report.html"), summary, report.WriteHTML); err != nil {
		log.Error.Printf("seqqc: html report: %v", err)
		failed = true
	}
	if failed {
		log.Fatalf("seqqc: report writing failed")
	}
}

func loadOpts(ctx context.Context) (qc.Opts, error) {
	opts := qc.DefaultOpts
	opts.KmerLength = *kmerLength
	opts.Limits = qc.DefaultLimits()
	var err error
	if *limitsPath != "" {
		if opts.Limits, err = qc.LoadLimits(ctx, *limitsPath); err != nil {
			return opts, err
		}
	}
	// When adapter analysis is ignored, neither the adapter nor the
	// contaminant list is loaded.
	if opts.Limits[qc.MetricAdapter].Ignore {
		return opts, nil
	}
	if *adaptersPath != "" {
		if opts.Adapters, err = qc.LoadAdapters(ctx, *adaptersPath, opts.KmerLength); err != nil {
			return opts, err
		}
	}
	if *contaminantsPath != "" {
		if opts.Contaminants, err = qc.LoadContaminants(ctx, *contaminantsPath); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func resolveFormat(path string) (qc.Format, error) {
	switch *formatName {
	case "":
		return qc.DetectFormat(path), nil
	case "fastq":
		return qc.FormatFastq, nil
	case "fastq.gz":
		return qc.FormatFastqGzip, nil
	case "sam":
		return qc.FormatSAM, nil
	case "bam":
		return qc.FormatBAM, nil
	}
	return 0, fmt.Errorf("unknown format %q", *formatName)
}

func writeReport(ctx context.Context, path string, s *qc.Summary, write func(w io.Writer, s *qc.Summary) error) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	if err := write(out.Writer(ctx), s); err != nil {
		out.Close(ctx) // nolint: errcheck
		return err
	}
	return out.Close(ctx)
}
