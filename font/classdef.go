package font

import "fmt"

// ClassDef maps a glyph to a class number, per OpenType ClassDef formats
// 1 (contiguous array) and 2 (ranges). Glyphs not covered are class 0.
type ClassDef struct {
	classes map[GlyphID]uint16
}

// ParseClassDef parses a ClassDef table at offset within data.
func ParseClassDef(data []byte, offset int) (*ClassDef, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("classdef header: %w", ErrInvalidTable)
	}
	cd := &ClassDef{classes: map[GlyphID]uint16{}}
	switch format {
	case 1:
		startGlyph, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("classdef format1: %w", ErrInvalidTable)
		}
		count, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("classdef format1: %w", ErrInvalidTable)
		}
		for i := 0; i < int(count); i++ {
			class, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("classdef format1 entry %d: %w", i, ErrInvalidTable)
			}
			if class != 0 {
				cd.classes[startGlyph+uint16(i)] = class
			}
		}
	case 2:
		rangeCount, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("classdef format2: %w", ErrInvalidTable)
		}
		for i := 0; i < int(rangeCount); i++ {
			start, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("classdef format2 range %d: %w", i, ErrInvalidTable)
			}
			end, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("classdef format2 range %d: %w", i, ErrInvalidTable)
			}
			class, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("classdef format2 range %d: %w", i, ErrInvalidTable)
			}
			if class == 0 {
				continue
			}
			for g := start; g <= end; g++ {
				cd.classes[g] = class
			}
		}
	default:
		return nil, fmt.Errorf("classdef format %d: %w", format, ErrInvalidFormat)
	}
	return cd, nil
}

// Class returns the class of gid, or 0 if uncovered.
func (cd *ClassDef) Class(gid GlyphID) uint16 {
	if cd == nil {
		return 0
	}
	return cd.classes[gid]
}
