package font

import "fmt"

// Glyph classes as defined by GDEF's GlyphClassDef.
const (
	GlyphClassNone      = 0
	GlyphClassBase      = 1
	GlyphClassLigature  = 2
	GlyphClassMark      = 3
	GlyphClassComponent = 4
)

// GDEF exposes the glyph definition table's classification data:
// per-glyph class (base/ligature/mark/component), mark-attachment class,
// and named mark-filtering sets.
type GDEF struct {
	glyphClass      *ClassDef
	markAttachClass *ClassDef
	markGlyphSets   []*Coverage // indexed by mark filtering set number
}

// ParseGDEF parses a GDEF table. GDEF is optional in a font; callers
// should treat a missing table (Font.GDEF returning nil, nil) the same
// as a present-but-empty one: GlyphClass falls back to GlyphClassBase.
func ParseGDEF(data []byte) (*GDEF, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("gdef header: %w", ErrInvalidTable)
	}
	p := newParser(data)
	majorVersion, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gdef version: %w", ErrInvalidTable)
	}
	minorVersion, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gdef version: %w", ErrInvalidTable)
	}
	glyphClassOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gdef glyphClassDefOffset: %w", ErrInvalidTable)
	}
	p.skip(2) // attachListOffset
	p.skip(2) // ligCaretListOffset
	markAttachOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gdef markAttachClassDefOffset: %w", ErrInvalidTable)
	}

	g := &GDEF{}
	if glyphClassOff != 0 {
		cd, err := ParseClassDef(data, int(glyphClassOff))
		if err != nil {
			return nil, fmt.Errorf("gdef glyphClassDef: %w", err)
		}
		g.glyphClass = cd
	}
	if markAttachOff != 0 {
		cd, err := ParseClassDef(data, int(markAttachOff))
		if err != nil {
			return nil, fmt.Errorf("gdef markAttachClassDef: %w", err)
		}
		g.markAttachClass = cd
	}

	// MarkGlyphSetsDef requires table version >= 1.2.
	if majorVersion == 1 && minorVersion >= 2 {
		markGlyphSetsOff, err := p.u16()
		if err == nil && markGlyphSetsOff != 0 {
			sets, err := parseMarkGlyphSets(data, int(markGlyphSetsOff))
			if err == nil {
				g.markGlyphSets = sets
			}
		}
	}
	return g, nil
}

func parseMarkGlyphSets(data []byte, offset int) ([]*Coverage, error) {
	p := newParser(data)
	p.seek(offset)
	p.skip(2) // format, always 1
	count, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("markGlyphSetsDef: %w", ErrInvalidTable)
	}
	sets := make([]*Coverage, count)
	for i := 0; i < int(count); i++ {
		covOffset, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("markGlyphSetsDef entry %d: %w", i, ErrInvalidTable)
		}
		cov, err := ParseCoverage(data, offset+int(covOffset))
		if err != nil {
			return nil, fmt.Errorf("markGlyphSetsDef coverage %d: %w", i, err)
		}
		sets[i] = cov
	}
	return sets, nil
}

// GlyphClass returns the GDEF glyph class for gid, defaulting to
// GlyphClassBase when gdef is nil or the glyph is unclassified — this is
// the "heuristic default" spec.md §4.3 calls for when GDEF is absent.
func (g *GDEF) GlyphClass(gid GlyphID) int {
	if g == nil || g.glyphClass == nil {
		return GlyphClassBase
	}
	class := g.glyphClass.Class(gid)
	if class == GlyphClassNone {
		return GlyphClassBase
	}
	return int(class)
}

// MarkAttachClass returns the mark-attachment class for gid (0 if none
// or no GDEF).
func (g *GDEF) MarkAttachClass(gid GlyphID) uint16 {
	if g == nil || g.markAttachClass == nil {
		return 0
	}
	return g.markAttachClass.Class(gid)
}

// MarkGlyphSetCovers reports whether gid belongs to the named mark
// filtering set. An out-of-range set index or absent table covers
// nothing.
func (g *GDEF) MarkGlyphSetCovers(setIndex int, gid GlyphID) bool {
	if g == nil || setIndex < 0 || setIndex >= len(g.markGlyphSets) {
		return false
	}
	return g.markGlyphSets[setIndex].Contains(gid)
}
