package font

import "fmt"

// Coverage maps a glyph to its index within a lookup's input set, per
// OpenType Coverage formats 1 (list) and 2 (ranges).
type Coverage struct {
	glyphs []GlyphID // format 1: sorted list; format 2 materialized the same way
	index  map[GlyphID]int
}

// ParseCoverage parses a Coverage table at the given offset within data.
func ParseCoverage(data []byte, offset int) (*Coverage, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("coverage header: %w", ErrInvalidTable)
	}
	c := &Coverage{index: map[GlyphID]int{}}
	switch format {
	case 1:
		count, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("coverage format1: %w", ErrInvalidTable)
		}
		for i := 0; i < int(count); i++ {
			g, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("coverage format1 glyph %d: %w", i, ErrInvalidTable)
			}
			c.index[g] = len(c.glyphs)
			c.glyphs = append(c.glyphs, g)
		}
	case 2:
		rangeCount, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("coverage format2: %w", ErrInvalidTable)
		}
		for i := 0; i < int(rangeCount); i++ {
			start, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("coverage format2 range %d: %w", i, ErrInvalidTable)
			}
			end, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("coverage format2 range %d: %w", i, ErrInvalidTable)
			}
			startIdx, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("coverage format2 range %d: %w", i, ErrInvalidTable)
			}
			for g := start; g <= end; g++ {
				c.index[g] = int(startIdx) + int(g-start)
				c.glyphs = append(c.glyphs, g)
			}
		}
	default:
		return nil, fmt.Errorf("coverage format %d: %w", format, ErrInvalidFormat)
	}
	return c, nil
}

// Index returns the coverage index of gid and true, or (0, false) if gid
// is not covered.
func (c *Coverage) Index(gid GlyphID) (int, bool) {
	i, ok := c.index[gid]
	return i, ok
}

// Contains reports whether gid is covered.
func (c *Coverage) Contains(gid GlyphID) bool {
	_, ok := c.index[gid]
	return ok
}
