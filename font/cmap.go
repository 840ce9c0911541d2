package font

import "fmt"

// Cmap maps Unicode codepoints to glyph indices. It supports the two
// subtable formats every shaping-relevant font carries: format 4
// (segment mapping, BMP only) and format 12 (segmented coverage, full
// Unicode range).
type Cmap struct {
	segments []cmapSegment // sorted by start, non-overlapping
}

type cmapSegment struct {
	start, end Codepoint
	startGlyph GlyphID
	delta      int32 // format 4 idDelta, applied when isDelta is set (idRangeOffset == 0)
	isDelta    bool
}

// ParseCmap walks the cmap table's encoding records and keeps the best
// available subtable: prefers a full-Unicode (platform 3 encoding 10, or
// platform 0) format-12 table, falling back to any format-4 table.
func ParseCmap(data []byte) (*Cmap, error) {
	p := newParser(data)
	p.skip(2) // version
	numTables, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("cmap header: %w", ErrInvalidTable)
	}

	var bestOffset int
	bestFormat := -1
	for i := 0; i < int(numTables); i++ {
		platformID, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("cmap encoding record %d: %w", i, ErrInvalidTable)
		}
		encodingID, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("cmap encoding record %d: %w", i, ErrInvalidTable)
		}
		offset, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("cmap encoding record %d: %w", i, ErrInvalidTable)
		}
		format, ferr := p.u16At(int(offset))
		if ferr != nil {
			continue
		}
		rank := cmapRank(platformID, encodingID, format)
		if rank > bestFormat {
			bestFormat = rank
			bestOffset = int(offset)
		}
	}
	if bestFormat < 0 {
		return nil, fmt.Errorf("cmap: no usable subtable: %w", ErrInvalidTable)
	}

	format, err := p.u16At(bestOffset)
	if err != nil {
		return nil, fmt.Errorf("cmap subtable: %w", ErrInvalidTable)
	}
	switch format {
	case 4:
		return parseCmapFormat4(data, bestOffset)
	case 12:
		return parseCmapFormat12(data, bestOffset)
	default:
		return nil, fmt.Errorf("cmap format %d: %w", format, ErrInvalidFormat)
	}
}

// cmapRank scores a subtable so the "most capable" one wins: full
// Unicode format-12 tables outrank BMP-only format-4 ones.
func cmapRank(platformID, encodingID, format uint16) int {
	score := 0
	if format == 12 {
		score += 20
	} else if format == 4 {
		score += 10
	} else {
		return -1
	}
	if platformID == 3 && encodingID == 10 {
		score += 5
	} else if platformID == 0 {
		score += 3
	} else if platformID == 3 && encodingID == 1 {
		score += 2
	}
	return score
}

func parseCmapFormat4(data []byte, offset int) (*Cmap, error) {
	p := newParser(data)
	p.seek(offset)
	p.skip(2) // format
	_, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("cmap format4: %w", ErrInvalidTable)
	}
	p.skip(2) // language
	segCountX2, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("cmap format4: %w", ErrInvalidTable)
	}
	segCount := int(segCountX2 / 2)
	p.skip(6) // searchRange, entrySelector, rangeShift

	ends, err := p.u16Array(segCount)
	if err != nil {
		return nil, fmt.Errorf("cmap format4 endCode: %w", ErrInvalidTable)
	}
	p.skip(2) // reservedPad
	starts, err := p.u16Array(segCount)
	if err != nil {
		return nil, fmt.Errorf("cmap format4 startCode: %w", ErrInvalidTable)
	}
	deltas, err := p.u16Array(segCount)
	if err != nil {
		return nil, fmt.Errorf("cmap format4 idDelta: %w", ErrInvalidTable)
	}
	idRangeOffsetPos := p.pos
	idRangeOffsets, err := p.u16Array(segCount)
	if err != nil {
		return nil, fmt.Errorf("cmap format4 idRangeOffset: %w", ErrInvalidTable)
	}

	cm := &Cmap{}
	for i := 0; i < segCount; i++ {
		start, end := Codepoint(starts[i]), Codepoint(ends[i])
		if start > end {
			continue
		}
		if idRangeOffsets[i] == 0 {
			cm.segments = append(cm.segments, cmapSegment{
				start: start, end: end, delta: int32(int16(deltas[i])), isDelta: true,
			})
			continue
		}
		// Glyph indices are read individually through the glyphIndexArray;
		// materialize them as a dense lookup since the range is bounded by
		// a uint16 (BMP) span.
		glyphOffsetBase := idRangeOffsetPos + i*2 + int(idRangeOffsets[i])
		for c := start; c <= end && c != 0xFFFF; c++ {
			gOff := glyphOffsetBase + int(c-start)*2
			g, err := p.u16At(gOff)
			if err != nil || g == 0 {
				continue
			}
			gid := GlyphID((int32(g) + int32(int16(deltas[i]))) & 0xFFFF)
			cm.segments = append(cm.segments, cmapSegment{start: c, end: c, startGlyph: gid})
		}
	}
	return cm, nil
}

func parseCmapFormat12(data []byte, offset int) (*Cmap, error) {
	p := newParser(data)
	p.seek(offset)
	p.skip(2) // format
	p.skip(2) // reserved
	_, err := p.u32()
	if err != nil {
		return nil, fmt.Errorf("cmap format12: %w", ErrInvalidTable)
	}
	p.skip(4) // language
	numGroups, err := p.u32()
	if err != nil {
		return nil, fmt.Errorf("cmap format12: %w", ErrInvalidTable)
	}
	cm := &Cmap{}
	for i := uint32(0); i < numGroups; i++ {
		start, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("cmap format12 group %d: %w", i, ErrInvalidTable)
		}
		end, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("cmap format12 group %d: %w", i, ErrInvalidTable)
		}
		startGlyph, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("cmap format12 group %d: %w", i, ErrInvalidTable)
		}
		cm.segments = append(cm.segments, cmapSegment{
			start: Codepoint(start), end: Codepoint(end), startGlyph: GlyphID(startGlyph),
		})
	}
	return cm, nil
}

// Lookup returns the glyph mapped to cp and true, or (0, false) when the
// font has no glyph for it.
func (c *Cmap) Lookup(cp Codepoint) (GlyphID, bool) {
	// Linear scan: segment counts for real fonts are in the low
	// thousands at most, and this is only called once per input
	// codepoint during discovery.
	for _, seg := range c.segments {
		if cp < seg.start || cp > seg.end {
			continue
		}
		if seg.isDelta {
			return GlyphID((int32(cp) + seg.delta) & 0xFFFF), true
		}
		return GlyphID(int32(seg.startGlyph) + int32(cp-seg.start)), true
	}
	return 0, false
}
