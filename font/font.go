package font

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
)

type tableRecord struct {
	offset uint32
	length uint32
}

// Font is a read-only, bounds-checked view into a single OpenType font's
// tables. It owns no mutable state and is safe to share across
// concurrently-running shaping calls on different Albums — this is the
// FontDataView of the pipeline.
type Font struct {
	data   []byte
	tables map[Tag]tableRecord

	cmap *Cmap
	gdef *GDEF
	gsub *GSUBTable
	gpos *GPOSTable
	hmtx []uint16 // advance widths, indexed by GlyphID; last entry repeats for any glyph beyond it

	// sf, when set, backs GlyphIndex with x/image/font/sfnt's cmap
	// lookup instead of our own hand-parsed Cmap — see FromSFNT.
	sf    *sfnt.Font
	sfBuf sfnt.Buffer
}

// ParseFont reads the sfnt table directory and lazily-parseable table
// records from data. It does not eagerly parse cmap/GDEF/GSUB/GPOS; call
// the corresponding accessor to parse on first use.
func ParseFont(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("parse font header: %w", ErrInvalidFont)
	}
	p := newParser(data)
	if _, err := p.u32(); err != nil { // sfnt version / 'OTTO' / 'true'
		return nil, fmt.Errorf("parse font header: %w", ErrInvalidFont)
	}
	numTables, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("parse font header: %w", ErrInvalidFont)
	}
	p.skip(6) // searchRange, entrySelector, rangeShift

	f := &Font{data: data, tables: make(map[Tag]tableRecord, numTables)}
	for i := 0; i < int(numTables); i++ {
		tag, err := p.tag()
		if err != nil {
			return nil, fmt.Errorf("table directory entry %d: %w", i, ErrInvalidFont)
		}
		p.skip(4) // checksum
		offset, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("table directory entry %d: %w", i, ErrInvalidFont)
		}
		length, err := p.u32()
		if err != nil {
			return nil, fmt.Errorf("table directory entry %d: %w", i, ErrInvalidFont)
		}
		f.tables[tag] = tableRecord{offset: offset, length: length}
	}
	return f, nil
}

// FromSFNT builds a Font from data that the caller has already loaded
// through golang.org/x/image/font/sfnt (typically because some other
// part of the caller's program rasterizes or measures the same font).
// It still walks data's own table directory for GDEF/GSUB/GPOS access,
// since x/image/font/sfnt parses neither; sf is kept only to serve
// GlyphIndex from sfnt's cmap implementation instead of re-parsing one.
func FromSFNT(data []byte, sf *sfnt.Font) (*Font, error) {
	f, err := ParseFont(data)
	if err != nil {
		return nil, err
	}
	f.sf = sf
	return f, nil
}

// GlyphIndex maps a rune to a glyph ID. When the Font was built via
// FromSFNT it defers to sfnt's cmap implementation; otherwise it parses
// and consults this font's own cmap table.
func (f *Font) GlyphIndex(r rune) (GlyphID, bool) {
	if f.sf != nil {
		gid, err := f.sf.GlyphIndex(&f.sfBuf, r)
		if err != nil || gid == 0 {
			return 0, false
		}
		return GlyphID(gid), true
	}
	cm, err := f.Cmap()
	if err != nil {
		return 0, false
	}
	return cm.Lookup(r)
}

// HasTable reports whether the font carries the named table.
func (f *Font) HasTable(tag Tag) bool {
	_, ok := f.tables[tag]
	return ok
}

// Table returns the raw, bounds-checked bytes of the named table.
func (f *Font) Table(tag Tag) ([]byte, error) {
	rec, ok := f.tables[tag]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", tag, ErrTableMissing)
	}
	p := newParser(f.data)
	b, err := p.bytesAt(int(rec.offset), int(rec.length))
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tag, ErrInvalidOffset)
	}
	return b, nil
}

// Cmap returns the font's parsed character-to-glyph map, parsing it on
// first use and caching the result.
func (f *Font) Cmap() (*Cmap, error) {
	if f.cmap != nil {
		return f.cmap, nil
	}
	data, err := f.Table(TagCmap)
	if err != nil {
		return nil, err
	}
	cm, err := ParseCmap(data)
	if err != nil {
		return nil, err
	}
	f.cmap = cm
	return cm, nil
}

// GDEF returns the font's parsed glyph definition table, or nil (not an
// error) if the font has none — GDEF is optional per spec.
func (f *Font) GDEF() (*GDEF, error) {
	if f.gdef != nil {
		return f.gdef, nil
	}
	if !f.HasTable(TagGDEF) {
		return nil, nil
	}
	data, err := f.Table(TagGDEF)
	if err != nil {
		return nil, err
	}
	gdef, err := ParseGDEF(data)
	if err != nil {
		return nil, err
	}
	f.gdef = gdef
	return gdef, nil
}

// GSUB returns the font's parsed substitution lookups, or nil if absent.
func (f *Font) GSUB() (*GSUBTable, error) {
	if f.gsub != nil {
		return f.gsub, nil
	}
	if !f.HasTable(TagGSUB) {
		return nil, nil
	}
	data, err := f.Table(TagGSUB)
	if err != nil {
		return nil, err
	}
	t, err := ParseGSUB(data)
	if err != nil {
		return nil, err
	}
	f.gsub = t
	return t, nil
}

// GPOS returns the font's parsed positioning lookups, or nil if absent.
func (f *Font) GPOS() (*GPOSTable, error) {
	if f.gpos != nil {
		return f.gpos, nil
	}
	if !f.HasTable(TagGPOS) {
		return nil, nil
	}
	data, err := f.Table(TagGPOS)
	if err != nil {
		return nil, err
	}
	t, err := ParseGPOS(data)
	if err != nil {
		return nil, err
	}
	f.gpos = t
	return t, nil
}

// HorizontalAdvance returns the default advance width for gid from hmtx,
// falling back to the last recorded advance (per the OpenType hmtx
// "monospace tail" convention) or 0 if hmtx is absent.
func (f *Font) HorizontalAdvance(gid GlyphID) int32 {
	if f.hmtx == nil {
		f.loadHmtx()
	}
	if len(f.hmtx) == 0 {
		return 0
	}
	if int(gid) < len(f.hmtx) {
		return int32(f.hmtx[gid])
	}
	return int32(f.hmtx[len(f.hmtx)-1])
}

func (f *Font) loadHmtx() {
	f.hmtx = []uint16{}
	hhea, err := f.Table(TagHhea)
	if err != nil || len(hhea) < 36 {
		return
	}
	p := newParser(hhea)
	numH, err := p.u16At(34)
	if err != nil || numH == 0 {
		return
	}
	hmtx, err := f.Table(TagHmtx)
	if err != nil {
		return
	}
	advances := make([]uint16, 0, numH)
	hp := newParser(hmtx)
	for i := 0; i < int(numH); i++ {
		adv, err := hp.u16()
		if err != nil {
			break
		}
		hp.skip(2) // left side bearing
		advances = append(advances, adv)
	}
	f.hmtx = advances
}
