package qc

import "bytes"

// extractTile parses the tile number out of a record header. The first
// sampled header decides the split point from its colon count: six or more
// colons put the tile in the fifth colon-delimited field, four or more in
// the third; anything else disables per-tile statistics for the rest of the
// run. Tile values at or above maxTileValue are dropped.
func (a *Accumulator) extractTile(header []byte) {
	if a.tileSplit == 0 {
		switch n := bytes.Count(header, []byte{':'}); {
		case n >= 6:
			a.tileSplit = 4
		case n >= 4:
			a.tileSplit = 2
		default:
			a.tileIgnore = true
			a.tileSampled = false
			return
		}
	}
	f := header
	for i := 0; i < a.tileSplit; i++ {
		j := bytes.IndexByte(f, ':')
		if j < 0 {
			return
		}
		f = f[j+1:]
	}
	t, ok := 0, false
	for _, c := range f {
		if c < '0' || c > '9' {
			break
		}
		t = t*10 + int(c-'0')
		ok = true
	}
	if !ok || t >= maxTileValue {
		return
	}
	a.curTile = t
	a.curTileOK = true
}
