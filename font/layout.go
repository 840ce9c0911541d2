package font

import "fmt"

// LookupFlag decodes the bits of an OpenType lookup's flag field; the
// Locator (package shape) uses these to decide which glyphs are
// "legitimate" for a given lookup.
type LookupFlag uint16

const (
	LookupRightToLeft          LookupFlag = 0x0001
	LookupIgnoreBaseGlyphs     LookupFlag = 0x0002
	LookupIgnoreLigatures      LookupFlag = 0x0004
	LookupIgnoreMarks          LookupFlag = 0x0008
	LookupUseMarkFilteringSet  LookupFlag = 0x0010
	lookupMarkAttachTypeShift             = 8
)

// MarkAttachmentType extracts the mark-attachment class filter from the
// flag's high byte (0 means "no filtering by class").
func (f LookupFlag) MarkAttachmentType() uint16 {
	return uint16(f) >> lookupMarkAttachTypeShift
}

// LangSys names the ordered feature indices active for one language
// system within a script, plus its required feature (if any).
type LangSys struct {
	RequiredFeatureIndex int // -1 if none
	FeatureIndices       []uint16
}

// ScriptRecord ties a script tag to its default LangSys and any
// explicitly named language systems.
type ScriptRecord struct {
	Tag            Tag
	DefaultLangSys *LangSys
	LangSystems    map[Tag]*LangSys
}

// FeatureRecord ties a feature tag to the lookup indices it activates.
type FeatureRecord struct {
	Tag           Tag
	LookupIndices []uint16
}

// LayoutHeader is the common ScriptList/FeatureList/LookupList
// structure shared, byte-for-byte, by GSUB and GPOS.
type LayoutHeader struct {
	Scripts  map[Tag]*ScriptRecord
	Features []FeatureRecord
}

// parseLayoutHeader parses the three list offsets common to the start of
// both GSUB and GPOS (after their own version-specific fields); the
// lookup list itself is parsed by the caller since its subtable formats
// differ between the two tables.
func parseLayoutHeader(data []byte, scriptListOff, featureListOff int) (*LayoutHeader, error) {
	h := &LayoutHeader{Scripts: map[Tag]*ScriptRecord{}}

	if err := parseScriptList(data, scriptListOff, h); err != nil {
		return nil, fmt.Errorf("scriptList: %w", err)
	}
	if err := parseFeatureList(data, featureListOff, h); err != nil {
		return nil, fmt.Errorf("featureList: %w", err)
	}
	return h, nil
}

func parseScriptList(data []byte, offset int, h *LayoutHeader) error {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return ErrInvalidTable
	}
	type rec struct {
		tag Tag
		off uint16
	}
	recs := make([]rec, count)
	for i := range recs {
		tag, err := p.tag()
		if err != nil {
			return ErrInvalidTable
		}
		off, err := p.u16()
		if err != nil {
			return ErrInvalidTable
		}
		recs[i] = rec{tag, off}
	}
	for _, r := range recs {
		sr, err := parseScriptTable(data, offset+int(r.off), r.tag)
		if err != nil {
			return fmt.Errorf("script %s: %w", r.tag, err)
		}
		h.Scripts[r.tag] = sr
	}
	return nil
}

func parseScriptTable(data []byte, offset int, tag Tag) (*ScriptRecord, error) {
	p := newParser(data)
	p.seek(offset)
	defaultLangSysOff, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	langSysCount, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	sr := &ScriptRecord{Tag: tag, LangSystems: map[Tag]*LangSys{}}
	if defaultLangSysOff != 0 {
		ls, err := parseLangSys(data, offset+int(defaultLangSysOff))
		if err != nil {
			return nil, err
		}
		sr.DefaultLangSys = ls
	}
	for i := 0; i < int(langSysCount); i++ {
		langTag, err := p.tag()
		if err != nil {
			return nil, ErrInvalidTable
		}
		langOff, err := p.u16()
		if err != nil {
			return nil, ErrInvalidTable
		}
		ls, err := parseLangSys(data, offset+int(langOff))
		if err != nil {
			return nil, fmt.Errorf("langSys %s: %w", langTag, err)
		}
		sr.LangSystems[langTag] = ls
	}
	return sr, nil
}

func parseLangSys(data []byte, offset int) (*LangSys, error) {
	p := newParser(data)
	p.seek(offset)
	p.skip(2) // lookupOrder, reserved (NULL)
	reqIdx, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	count, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	indices, err := p.u16Array(int(count))
	if err != nil {
		return nil, ErrInvalidTable
	}
	ls := &LangSys{FeatureIndices: indices}
	if reqIdx == 0xFFFF {
		ls.RequiredFeatureIndex = -1
	} else {
		ls.RequiredFeatureIndex = int(reqIdx)
	}
	return ls, nil
}

func parseFeatureList(data []byte, offset int, h *LayoutHeader) error {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return ErrInvalidTable
	}
	type rec struct {
		tag Tag
		off uint16
	}
	recs := make([]rec, count)
	for i := range recs {
		tag, err := p.tag()
		if err != nil {
			return ErrInvalidTable
		}
		off, err := p.u16()
		if err != nil {
			return ErrInvalidTable
		}
		recs[i] = rec{tag, off}
	}
	h.Features = make([]FeatureRecord, count)
	for i, r := range recs {
		fp := newParser(data)
		fp.seek(offset + int(r.off))
		fp.skip(2) // featureParams offset, unused by this core
		lcount, err := fp.u16()
		if err != nil {
			return fmt.Errorf("feature %s: %w", r.tag, ErrInvalidTable)
		}
		indices, err := fp.u16Array(int(lcount))
		if err != nil {
			return fmt.Errorf("feature %s: %w", r.tag, ErrInvalidTable)
		}
		h.Features[i] = FeatureRecord{Tag: r.tag, LookupIndices: indices}
	}
	return nil
}

// FindScript looks up a script by tag, falling back to 'DFLT' and then
// nil (caller should fall back to StandardEngine / no script-specific
// features) if neither is present.
func (h *LayoutHeader) FindScript(tag Tag) *ScriptRecord {
	if sr, ok := h.Scripts[tag]; ok {
		return sr
	}
	if sr, ok := h.Scripts[ScriptDFLT]; ok {
		return sr
	}
	return nil
}

// FindLangSys selects a language system from a script record: the named
// language tag if present, else the script's default.
func (sr *ScriptRecord) FindLangSys(tag Tag) *LangSys {
	if tag != 0 {
		if ls, ok := sr.LangSystems[tag]; ok {
			return ls
		}
	}
	return sr.DefaultLangSys
}
