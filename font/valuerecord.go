package font

import "fmt"

// ValueFormat flags select which fields a ValueRecord physically stores
// on disk; GPOS packs only the fields a subtable actually uses.
type ValueFormat uint16

const (
	ValueXPlacement ValueFormat = 1 << iota
	ValueYPlacement
	ValueXAdvance
	ValueYAdvance
	ValueXPlaDevice
	ValueYPlaDevice
	ValueXAdvDevice
	ValueYAdvDevice
)

// ValueRecord is a GPOS positioning delta. Device table adjustments are
// parsed for correctness of the byte stream but not applied — spec.md
// §9 leaves ppem/DPI scaling to a layer above this core.
type ValueRecord struct {
	XPlacement, YPlacement int16
	XAdvance, YAdvance     int16
}

// IsEmpty reports whether the record has no effect.
func (v ValueRecord) IsEmpty() bool {
	return v == ValueRecord{}
}

// parseValueRecord reads a ValueRecord according to format from p's
// current position, advancing past it (including any device table
// offsets, which are read and discarded).
func parseValueRecord(p *parser, format ValueFormat) (ValueRecord, error) {
	var v ValueRecord
	read := func(has ValueFormat, dst *int16) error {
		if format&has == 0 {
			return nil
		}
		val, err := p.i16()
		if err != nil {
			return err
		}
		*dst = val
		return nil
	}
	if err := read(ValueXPlacement, &v.XPlacement); err != nil {
		return v, fmt.Errorf("valuerecord xPlacement: %w", ErrInvalidTable)
	}
	if err := read(ValueYPlacement, &v.YPlacement); err != nil {
		return v, fmt.Errorf("valuerecord yPlacement: %w", ErrInvalidTable)
	}
	if err := read(ValueXAdvance, &v.XAdvance); err != nil {
		return v, fmt.Errorf("valuerecord xAdvance: %w", ErrInvalidTable)
	}
	if err := read(ValueYAdvance, &v.YAdvance); err != nil {
		return v, fmt.Errorf("valuerecord yAdvance: %w", ErrInvalidTable)
	}
	// Device/variation-index table offsets: one uint16 each, present
	// bit-for-bit in ValueFormat order. Skipped: not applied (see doc).
	for _, flag := range []ValueFormat{ValueXPlaDevice, ValueYPlaDevice, ValueXAdvDevice, ValueYAdvDevice} {
		if format&flag != 0 {
			if _, err := p.u16(); err != nil {
				return v, fmt.Errorf("valuerecord device offset: %w", ErrInvalidTable)
			}
		}
	}
	return v, nil
}

// Anchor is an (x, y) attachment point on a glyph, per OpenType Anchor
// formats 1–3. Format 2's contour-point hinting and format 3's device
// tables are parsed but resolved to the plain (x, y) pair, matching
// spec.md §4.5's "may be treated as format 1" allowance.
type Anchor struct {
	X, Y int16
}

// parseAnchor parses an Anchor table at offset within data. A zero
// offset means "no anchor" and returns the zero Anchor with ok=false.
func parseAnchor(data []byte, offset int) (Anchor, bool, error) {
	if offset == 0 {
		return Anchor{}, false, nil
	}
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return Anchor{}, false, fmt.Errorf("anchor header: %w", ErrInvalidTable)
	}
	x, err := p.i16()
	if err != nil {
		return Anchor{}, false, fmt.Errorf("anchor x: %w", ErrInvalidTable)
	}
	y, err := p.i16()
	if err != nil {
		return Anchor{}, false, fmt.Errorf("anchor y: %w", ErrInvalidTable)
	}
	switch format {
	case 1:
		// x, y only.
	case 2, 3:
		// Format 2 has an AnchorPoint (contour index) we don't hint
		// against; format 3 has two device-table offsets we don't
		// apply. Both reduce to the literal (x, y) already read.
	default:
		return Anchor{}, false, fmt.Errorf("anchor format %d: %w", format, ErrInvalidFormat)
	}
	return Anchor{X: x, Y: y}, true, nil
}
