package report

// htmlTemplate is the report page. The writer fills the {{...}} placeholder
// tokens by literal string substitution; the token set is closed.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{FILENAME}} - seqqc report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
h2 { border-bottom: 1px solid #ccc; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin: 1em 0; }
th, td { border: 1px solid #ccc; padding: 0.2em 0.6em; text-align: right; }
th { background: #eee; }
td.l, th.l { text-align: left; }
span.pass { color: #070; }
span.warn { color: #970; }
span.fail { color: #900; }
</style>
</head>
<body>
<h1>seqqc report: {{FILENAME}}</h1>
<p>seqqc {{VERSION}}</p>

<h2>Summary</h2>
<table>
<tr><th class="l">Module</th><th class="l">Status</th></tr>
{{SUMMARYROWS}}
</table>

<h2>Basic statistics</h2>
<table>
<tr><th class="l">Measure</th><th class="l">Value</th></tr>
{{BASICSTATSDATA}}
</table>

<h2>Per base sequence quality</h2>
<table>
<tr><th>Base</th><th>Mean</th><th>Median</th><th>Lower quartile</th><th>Upper quartile</th><th>10th percentile</th><th>90th percentile</th></tr>
{{PERBASEQUALITYDATA}}
</table>

<h2>Per tile sequence quality</h2>
<table>
<tr><th>Tile</th><th>Base</th><th>Mean deviation</th></tr>
{{PERTILEQUALITYDATA}}
</table>

<h2>Per sequence quality scores</h2>
<table>
<tr><th>Quality</th><th>Count</th></tr>
{{PERSEQQUALITYDATA}}
</table>

<h2>Per base sequence content</h2>
<table>
<tr><th>Base</th><th>G</th><th>A</th><th>T</th><th>C</th></tr>
{{PERBASECONTENTDATA}}
</table>

<h2>Per sequence GC content</h2>
<table>
<tr><th>GC content</th><th>Count</th></tr>
{{PERSEQGCDATA}}
</table>

<h2>Per base N content</h2>
<table>
<tr><th>Base</th><th>N %</th></tr>
{{PERBASENDATA}}
</table>

<h2>Sequence length distribution</h2>
<table>
<tr><th>Length</th><th>Count</th></tr>
{{LENGTHDISTDATA}}
</table>

<h2>Sequence duplication levels</h2>
<table>
<tr><th class="l">Level</th><th>% of deduplicated</th><th>% of total</th></tr>
{{DUPLICATIONDATA}}
</table>

<h2>Overrepresented sequences</h2>
<table>
<tr><th class="l">Sequence</th><th>Count</th><th>Percentage</th><th class="l">Possible source</th></tr>
{{OVERREPDATA}}
</table>

<h2>Adapter content</h2>
<table>
{{ADAPTERDATA}}
</table>

<h2>Kmer content</h2>
<table>
<tr><th class="l">Sequence</th><th>Count</th><th>Max position</th></tr>
{{KMERDATA}}
</table>

</body>
</html>
`
