package report

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/seqqc/qc"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFastq = `@M00321:123:FC:1:2106:1000:2000 1:N:0:ATCACG
ACGTACGTAC
+
IIIIIIIIII
@M00321:123:FC:1:2106:1000:2001 1:N:0:ATCACG
GGGGGGGGGG
+
IIIIIIIII!
`

func scanTestInput(t *testing.T) *qc.Summary {
	dir, err := ioutil.TempDir("", "report")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) }) // nolint: errcheck
	path := filepath.Join(dir, "reads.fastq")
	require.NoError(t, ioutil.WriteFile(path, []byte(testFastq), 0644))
	acc, err := qc.ScanFile(context.Background(), path, qc.FormatFastq, qc.DefaultOpts)
	require.NoError(t, err)
	return acc.Summarize()
}

func TestWriteText(t *testing.T) {
	s := scanTestInput(t)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "##seqqc\t"+Version+"\n"))
	for _, module := range []string{
		ModuleBasicStats,
		ModuleBaseQuality,
		ModuleTileQuality,
		ModuleSeqQuality,
		ModuleBaseContent,
		ModuleGCContent,
		ModuleNContent,
		ModuleLengthDist,
		ModuleDuplication,
		ModuleOverrep,
	} {
		assert.Contains(t, out, ">>"+module+"\t", "module %s", module)
	}
	// Every module section is closed.
	ends := strings.Count(out, ">>END_MODULE\n")
	expect.EQ(t, ends, strings.Count(out, ">>")-ends)
	assert.Contains(t, out, "Total Sequences\t2\n")
	assert.Contains(t, out, "Sequence length\t10\n")
	// The kmer module is ignored by default.
	assert.NotContains(t, out, ">>"+ModuleKmerContent)
}

func TestWriteTextEmptyInput(t *testing.T) {
	dir, err := ioutil.TempDir("", "report")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) }) // nolint: errcheck
	path := filepath.Join(dir, "empty.fastq")
	require.NoError(t, ioutil.WriteFile(path, nil, 0644))
	acc, err := qc.ScanFile(context.Background(), path, qc.FormatFastq, qc.DefaultOpts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, acc.Summarize()))
	assert.Contains(t, buf.String(), "Total Sequences\t0\n")
}
