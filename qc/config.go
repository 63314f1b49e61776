package qc

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// LoadLimits reads a limits file: one "<metric> <warn|error|ignore>
// <number>" triple per data line, '#' lines and blank lines skipped. Every
// metric of the closed set must appear; unknown metric names and unknown
// instruction words are rejected.
func LoadLimits(ctx context.Context, path string) (Limits, error) {
	limits := Limits{}
	err := forEachLine(ctx, path, func(lineno int, fields []string) error {
		if len(fields) != 3 {
			return errors.E(ErrConfig, path, "line", lineno, "expected three fields")
		}
		name := fields[0]
		if !knownMetric(name) {
			return errors.E(ErrConfig, path, "line", lineno, "unknown metric", name)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return errors.E(ErrConfig, path, "line", lineno, "bad threshold", fields[2])
		}
		l := limits[name]
		switch fields[1] {
		case "warn":
			l.Warn = v
		case "error":
			l.Error = v
		case "ignore":
			l.Ignore = v != 0
		default:
			return errors.E(ErrConfig, path, "line", lineno, "unknown instruction", fields[1])
		}
		limits[name] = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, name := range MetricNames {
		if _, ok := limits[name]; !ok {
			return nil, errors.E(ErrConfig, path, "missing metric", name)
		}
	}
	return limits, nil
}

// LoadAdapters reads an adapters file. The last whitespace-separated token
// of each data line is the adapter sequence; the rest form its name. The
// sequence must be A/C/T/G only and at least k bases long; it is truncated
// to its first k bases and encoded as a 2-bit hash.
func LoadAdapters(ctx context.Context, path string, k int) ([]Adapter, error) {
	var adapters []Adapter
	err := forEachLine(ctx, path, func(lineno int, fields []string) error {
		if len(fields) < 2 {
			return errors.E(ErrConfig, path, "line", lineno, "expected name and sequence")
		}
		seq := fields[len(fields)-1]
		for i := 0; i < len(seq); i++ {
			switch seq[i] {
			case 'A', 'C', 'T', 'G':
			default:
				return errors.E(ErrConfig, path, "line", lineno, "non-nucleotide adapter character", string(seq[i]))
			}
		}
		if len(seq) < k {
			return errors.E(ErrConfig, path, "line", lineno, "adapter shorter than k-mer length")
		}
		adapters = append(adapters, Adapter{
			Name:   strings.Join(fields[:len(fields)-1], " "),
			Prefix: encodeKmer(seq, k),
		})
		return nil
	})
	return adapters, err
}

// LoadContaminants reads a contaminants file. Same shape as the adapters
// file, but the sequence is kept literally and is not alphabet-validated.
func LoadContaminants(ctx context.Context, path string) ([]Contaminant, error) {
	var contaminants []Contaminant
	err := forEachLine(ctx, path, func(lineno int, fields []string) error {
		if len(fields) < 2 {
			return errors.E(ErrConfig, path, "line", lineno, "expected name and sequence")
		}
		contaminants = append(contaminants, Contaminant{
			Name: strings.Join(fields[:len(fields)-1], " "),
			Seq:  fields[len(fields)-1],
		})
		return nil
	})
	return contaminants, err
}

func knownMetric(name string) bool {
	for _, m := range MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

func forEachLine(ctx context.Context, path string, fn func(lineno int, fields []string) error) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open", path)
	}
	defer in.Close(ctx) // nolint: errcheck
	scanner := bufio.NewScanner(in.Reader(ctx))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if err := fn(lineno, strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.E(err, "read", path)
	}
	return nil
}
