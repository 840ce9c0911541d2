package font

import "fmt"

// GPOS lookup type numbers, per OpenType.
const (
	GPOSSingle        = 1
	GPOSPair          = 2
	GPOSCursive       = 3
	GPOSMarkToBase    = 4
	GPOSMarkToLigature = 5
	GPOSMarkToMark    = 6
	GPOSContext       = 7
	GPOSChainContext  = 8
	GPOSExtension     = 9
)

// GPOSSubtable is implemented by every parsed GPOS subtable kind; the
// evaluator in package shape type-switches on it.
type GPOSSubtable interface{ isGPOSSubtable() }

type SinglePos struct {
	Coverage *Coverage
	Format   int
	Value    ValueRecord   // format 1: one record for every covered glyph
	Values   []ValueRecord // format 2: parallel to Coverage order
}

// PairRecord is one second-glyph entry of a format-1 pair set, or one
// class-pair cell of format 2 (where SecondGlyph is unused).
type PairRecord struct {
	SecondGlyph GlyphID
	First       ValueRecord
	Second      ValueRecord
}

type PairPos struct {
	Format   int
	Coverage *Coverage

	// Format 1.
	PairSets [][]PairRecord // parallel to Coverage order

	// Format 2.
	ClassDef1, ClassDef2 *ClassDef
	ClassCount1, ClassCount2 int
	ClassRecords             [][]PairRecord // [class1][class2], SecondGlyph unused
}

type CursivePos struct {
	Coverage *Coverage
	Entry    []*Anchor // parallel to Coverage order; nil entry means none
	Exit     []*Anchor
}

// MarkRecord ties a mark glyph (via its own Coverage-derived index) to
// its class and anchor.
type MarkRecord struct {
	Class  uint16
	Anchor Anchor
}

// BaseAnchors holds, per class, the anchor on a base/ligature-component
// glyph; a nil entry means "no anchor for this class".
type BaseAnchors []*Anchor

type MarkBasePos struct {
	MarkCoverage *Coverage
	BaseCoverage *Coverage
	ClassCount   int
	MarkArray    []MarkRecord  // parallel to MarkCoverage order
	BaseArray    []BaseAnchors // parallel to BaseCoverage order
}

type MarkLigPos struct {
	MarkCoverage    *Coverage
	LigatureCoverage *Coverage
	ClassCount      int
	MarkArray       []MarkRecord
	// LigatureArray[ligature][component] = per-class anchors for that component.
	LigatureArray [][]BaseAnchors
}

type MarkMarkPos struct {
	Mark1Coverage *Coverage
	Mark2Coverage *Coverage
	ClassCount    int
	Mark1Array    []MarkRecord
	Mark2Array    []BaseAnchors
}

func (SinglePos) isGPOSSubtable()    {}
func (PairPos) isGPOSSubtable()      {}
func (CursivePos) isGPOSSubtable()   {}
func (MarkBasePos) isGPOSSubtable()  {}
func (MarkLigPos) isGPOSSubtable()   {}
func (MarkMarkPos) isGPOSSubtable()  {}
func (ContextSubst) isGPOSSubtable() {} // context/chaining-context are byte-identical between GSUB and GPOS
func (ChainContextSubst) isGPOSSubtable() {}

// GPOSTable is the parsed GPOS table: the shared script/feature
// metadata plus the GPOS-specific lookup list.
type GPOSTable struct {
	*LayoutHeader
	Lookups []*Lookup
}

// ParseGPOS parses a GPOS table from its raw bytes.
func ParseGPOS(data []byte) (*GPOSTable, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("gpos header: %w", ErrInvalidTable)
	}
	p := newParser(data)
	p.skip(4) // version
	scriptListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gpos header: %w", ErrInvalidTable)
	}
	featureListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gpos header: %w", ErrInvalidTable)
	}
	lookupListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gpos header: %w", ErrInvalidTable)
	}

	header, err := parseLayoutHeader(data, int(scriptListOff), int(featureListOff))
	if err != nil {
		return nil, err
	}
	lookups, err := parseGPOSLookupList(data, int(lookupListOff))
	if err != nil {
		return nil, fmt.Errorf("gpos lookupList: %w", err)
	}
	return &GPOSTable{LayoutHeader: header, Lookups: lookups}, nil
}

func parseGPOSLookupList(data []byte, offset int) ([]*Lookup, error) {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	lookupOffsets, err := p.u16Array(int(count))
	if err != nil {
		return nil, ErrInvalidTable
	}
	lookups := make([]*Lookup, count)
	for i, off := range lookupOffsets {
		l, err := parseGPOSLookup(data, offset+int(off))
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		lookups[i] = l
	}
	return lookups, nil
}

func parseGPOSLookup(data []byte, offset int) (*Lookup, error) {
	p := newParser(data)
	p.seek(offset)
	lookupType, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	flag, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	subtableCount, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	subOffsets, err := p.u16Array(int(subtableCount))
	if err != nil {
		return nil, ErrInvalidTable
	}
	markFilteringSet := -1
	if LookupFlag(flag)&LookupUseMarkFilteringSet != 0 {
		idx, err := p.u16()
		if err != nil {
			return nil, ErrInvalidTable
		}
		markFilteringSet = int(idx)
	}

	l := &Lookup{Type: uint16(lookupType), Flag: LookupFlag(flag), MarkFilteringSet: markFilteringSet}
	effectiveType := lookupType
	for i, subOff := range subOffsets {
		subAbs := offset + int(subOff)
		thisType := lookupType
		if lookupType == GPOSExtension {
			realType, realOffset, err := parseExtensionHeader(data, subAbs)
			if err != nil {
				return nil, fmt.Errorf("extension subtable %d: %w", i, err)
			}
			thisType = realType
			subAbs = realOffset
		}
		sub, err := parseGPOSSubtable(data, subAbs, thisType)
		if err != nil {
			return nil, fmt.Errorf("subtable %d (type %d): %w", i, thisType, err)
		}
		effectiveType = thisType
		l.GPOSSubtables = append(l.GPOSSubtables, sub)
	}
	l.Type = effectiveType
	return l, nil
}

func parseGPOSSubtable(data []byte, offset int, lookupType uint16) (GPOSSubtable, error) {
	switch lookupType {
	case GPOSSingle:
		return parseSinglePos(data, offset)
	case GPOSPair:
		return parsePairPos(data, offset)
	case GPOSCursive:
		return parseCursivePos(data, offset)
	case GPOSMarkToBase:
		return parseMarkBasePos(data, offset)
	case GPOSMarkToLigature:
		return parseMarkLigPos(data, offset)
	case GPOSMarkToMark:
		return parseMarkMarkPos(data, offset)
	case GPOSContext:
		return parseContextSubst(data, offset)
	case GPOSChainContext:
		return parseChainContextSubst(data, offset)
	default:
		return nil, fmt.Errorf("lookup type %d: %w", lookupType, ErrInvalidFormat)
	}
}

func parseSinglePos(data []byte, offset int) (SinglePos, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return SinglePos{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return SinglePos{}, ErrInvalidTable
	}
	valueFormat, err := p.u16()
	if err != nil {
		return SinglePos{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return SinglePos{}, fmt.Errorf("coverage: %w", err)
	}
	sp := SinglePos{Coverage: cov, Format: int(format)}
	switch format {
	case 1:
		v, err := parseValueRecord(p, ValueFormat(valueFormat))
		if err != nil {
			return SinglePos{}, err
		}
		sp.Value = v
	case 2:
		count, err := p.u16()
		if err != nil {
			return SinglePos{}, ErrInvalidTable
		}
		sp.Values = make([]ValueRecord, count)
		for i := range sp.Values {
			v, err := parseValueRecord(p, ValueFormat(valueFormat))
			if err != nil {
				return SinglePos{}, fmt.Errorf("value %d: %w", i, err)
			}
			sp.Values[i] = v
		}
	default:
		return SinglePos{}, fmt.Errorf("singlePos format %d: %w", format, ErrInvalidFormat)
	}
	return sp, nil
}

func parsePairPos(data []byte, offset int) (PairPos, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return PairPos{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return PairPos{}, ErrInvalidTable
	}
	valueFormat1, err := p.u16()
	if err != nil {
		return PairPos{}, ErrInvalidTable
	}
	valueFormat2, err := p.u16()
	if err != nil {
		return PairPos{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return PairPos{}, fmt.Errorf("coverage: %w", err)
	}
	pp := PairPos{Coverage: cov, Format: int(format)}

	switch format {
	case 1:
		count, err := p.u16()
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		setOffsets, err := p.u16Array(int(count))
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		pp.PairSets = make([][]PairRecord, count)
		for i, so := range setOffsets {
			sp := newParser(data)
			sp.seek(offset + int(so))
			pairCount, err := sp.u16()
			if err != nil {
				return PairPos{}, fmt.Errorf("pairSet %d: %w", i, ErrInvalidTable)
			}
			recs := make([]PairRecord, pairCount)
			for j := range recs {
				second, err := sp.u16()
				if err != nil {
					return PairPos{}, fmt.Errorf("pairSet %d entry %d: %w", i, j, ErrInvalidTable)
				}
				v1, err := parseValueRecord(sp, ValueFormat(valueFormat1))
				if err != nil {
					return PairPos{}, fmt.Errorf("pairSet %d entry %d: %w", i, j, err)
				}
				v2, err := parseValueRecord(sp, ValueFormat(valueFormat2))
				if err != nil {
					return PairPos{}, fmt.Errorf("pairSet %d entry %d: %w", i, j, err)
				}
				recs[j] = PairRecord{SecondGlyph: second, First: v1, Second: v2}
			}
			pp.PairSets[i] = recs
		}
	case 2:
		cd1Off, err := p.u16()
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		cd2Off, err := p.u16()
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		class1Count, err := p.u16()
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		class2Count, err := p.u16()
		if err != nil {
			return PairPos{}, ErrInvalidTable
		}
		cd1, err := ParseClassDef(data, offset+int(cd1Off))
		if err != nil {
			return PairPos{}, fmt.Errorf("classDef1: %w", err)
		}
		cd2, err := ParseClassDef(data, offset+int(cd2Off))
		if err != nil {
			return PairPos{}, fmt.Errorf("classDef2: %w", err)
		}
		pp.ClassDef1, pp.ClassDef2 = cd1, cd2
		pp.ClassCount1, pp.ClassCount2 = int(class1Count), int(class2Count)
		pp.ClassRecords = make([][]PairRecord, class1Count)
		for c1 := 0; c1 < int(class1Count); c1++ {
			row := make([]PairRecord, class2Count)
			for c2 := 0; c2 < int(class2Count); c2++ {
				v1, err := parseValueRecord(p, ValueFormat(valueFormat1))
				if err != nil {
					return PairPos{}, fmt.Errorf("classRecord [%d][%d]: %w", c1, c2, err)
				}
				v2, err := parseValueRecord(p, ValueFormat(valueFormat2))
				if err != nil {
					return PairPos{}, fmt.Errorf("classRecord [%d][%d]: %w", c1, c2, err)
				}
				row[c2] = PairRecord{First: v1, Second: v2}
			}
			pp.ClassRecords[c1] = row
		}
	default:
		return PairPos{}, fmt.Errorf("pairPos format %d: %w", format, ErrInvalidFormat)
	}
	return pp, nil
}

func parseCursivePos(data []byte, offset int) (CursivePos, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil { // format, always 1
		return CursivePos{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return CursivePos{}, ErrInvalidTable
	}
	count, err := p.u16()
	if err != nil {
		return CursivePos{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return CursivePos{}, fmt.Errorf("coverage: %w", err)
	}
	cp := CursivePos{Coverage: cov, Entry: make([]*Anchor, count), Exit: make([]*Anchor, count)}
	for i := 0; i < int(count); i++ {
		entryOff, err := p.u16()
		if err != nil {
			return CursivePos{}, fmt.Errorf("entryAnchor %d: %w", i, ErrInvalidTable)
		}
		exitOff, err := p.u16()
		if err != nil {
			return CursivePos{}, fmt.Errorf("exitAnchor %d: %w", i, ErrInvalidTable)
		}
		if entryOff == 0 {
			// NULL offset: no entry anchor.
		} else if a, ok, err := parseAnchor(data, offset+int(entryOff)); err != nil {
			return CursivePos{}, fmt.Errorf("entryAnchor %d: %w", i, err)
		} else if ok {
			cp.Entry[i] = &a
		}
		if exitOff == 0 {
			// NULL offset: no exit anchor.
		} else if a, ok, err := parseAnchor(data, offset+int(exitOff)); err != nil {
			return CursivePos{}, fmt.Errorf("exitAnchor %d: %w", i, err)
		} else if ok {
			cp.Exit[i] = &a
		}
	}
	return cp, nil
}

func parseMarkArray(data []byte, offset int) ([]MarkRecord, error) {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("markArray: %w", ErrInvalidTable)
	}
	recs := make([]MarkRecord, count)
	type raw struct {
		class  uint16
		offset uint16
	}
	raws := make([]raw, count)
	for i := range raws {
		class, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("markArray entry %d: %w", i, ErrInvalidTable)
		}
		aoff, err := p.u16()
		if err != nil {
			return nil, fmt.Errorf("markArray entry %d: %w", i, ErrInvalidTable)
		}
		raws[i] = raw{class, aoff}
	}
	for i, r := range raws {
		a, ok, err := parseAnchor(data, offset+int(r.offset))
		if err != nil {
			return nil, fmt.Errorf("markArray anchor %d: %w", i, err)
		}
		if !ok {
			a = Anchor{}
		}
		recs[i] = MarkRecord{Class: r.class, Anchor: a}
	}
	return recs, nil
}

func parseBaseArray(data []byte, offset int, classCount int) ([]BaseAnchors, error) {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("baseArray: %w", ErrInvalidTable)
	}
	out := make([]BaseAnchors, count)
	for i := 0; i < int(count); i++ {
		anchors := make(BaseAnchors, classCount)
		for c := 0; c < classCount; c++ {
			aoff, err := p.u16()
			if err != nil {
				return nil, fmt.Errorf("baseArray entry %d class %d: %w", i, c, ErrInvalidTable)
			}
			if aoff == 0 {
				continue // NULL offset: no anchor for this class
			}
			if a, ok, err := parseAnchor(data, offset+int(aoff)); err != nil {
				return nil, fmt.Errorf("baseArray anchor %d/%d: %w", i, c, err)
			} else if ok {
				anchors[c] = &a
			}
		}
		out[i] = anchors
	}
	return out, nil
}

func parseMarkBasePos(data []byte, offset int) (MarkBasePos, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil { // format, always 1
		return MarkBasePos{}, ErrInvalidTable
	}
	markCovOff, err := p.u16()
	if err != nil {
		return MarkBasePos{}, ErrInvalidTable
	}
	baseCovOff, err := p.u16()
	if err != nil {
		return MarkBasePos{}, ErrInvalidTable
	}
	classCount, err := p.u16()
	if err != nil {
		return MarkBasePos{}, ErrInvalidTable
	}
	markArrayOff, err := p.u16()
	if err != nil {
		return MarkBasePos{}, ErrInvalidTable
	}
	baseArrayOff, err := p.u16()
	if err != nil {
		return MarkBasePos{}, ErrInvalidTable
	}
	markCov, err := ParseCoverage(data, offset+int(markCovOff))
	if err != nil {
		return MarkBasePos{}, fmt.Errorf("markCoverage: %w", err)
	}
	baseCov, err := ParseCoverage(data, offset+int(baseCovOff))
	if err != nil {
		return MarkBasePos{}, fmt.Errorf("baseCoverage: %w", err)
	}
	markArray, err := parseMarkArray(data, offset+int(markArrayOff))
	if err != nil {
		return MarkBasePos{}, fmt.Errorf("markArray: %w", err)
	}
	baseArray, err := parseBaseArray(data, offset+int(baseArrayOff), int(classCount))
	if err != nil {
		return MarkBasePos{}, fmt.Errorf("baseArray: %w", err)
	}
	return MarkBasePos{
		MarkCoverage: markCov, BaseCoverage: baseCov, ClassCount: int(classCount),
		MarkArray: markArray, BaseArray: baseArray,
	}, nil
}

func parseMarkLigPos(data []byte, offset int) (MarkLigPos, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	markCovOff, err := p.u16()
	if err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	ligCovOff, err := p.u16()
	if err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	classCount, err := p.u16()
	if err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	markArrayOff, err := p.u16()
	if err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	ligArrayOff, err := p.u16()
	if err != nil {
		return MarkLigPos{}, ErrInvalidTable
	}
	markCov, err := ParseCoverage(data, offset+int(markCovOff))
	if err != nil {
		return MarkLigPos{}, fmt.Errorf("markCoverage: %w", err)
	}
	ligCov, err := ParseCoverage(data, offset+int(ligCovOff))
	if err != nil {
		return MarkLigPos{}, fmt.Errorf("ligatureCoverage: %w", err)
	}
	markArray, err := parseMarkArray(data, offset+int(markArrayOff))
	if err != nil {
		return MarkLigPos{}, fmt.Errorf("markArray: %w", err)
	}

	ligArrayAbs := offset + int(ligArrayOff)
	lp := newParser(data)
	lp.seek(ligArrayAbs)
	ligCount, err := lp.u16()
	if err != nil {
		return MarkLigPos{}, fmt.Errorf("ligatureArray: %w", ErrInvalidTable)
	}
	ligOffsets, err := lp.u16Array(int(ligCount))
	if err != nil {
		return MarkLigPos{}, fmt.Errorf("ligatureArray: %w", ErrInvalidTable)
	}
	ligArray := make([][]BaseAnchors, ligCount)
	for i, lo := range ligOffsets {
		comps, err := parseBaseArray(data, ligArrayAbs+int(lo), int(classCount))
		if err != nil {
			return MarkLigPos{}, fmt.Errorf("ligatureAttach %d: %w", i, err)
		}
		ligArray[i] = comps
	}
	return MarkLigPos{
		MarkCoverage: markCov, LigatureCoverage: ligCov, ClassCount: int(classCount),
		MarkArray: markArray, LigatureArray: ligArray,
	}, nil
}

func parseMarkMarkPos(data []byte, offset int) (MarkMarkPos, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	mark1CovOff, err := p.u16()
	if err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	mark2CovOff, err := p.u16()
	if err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	classCount, err := p.u16()
	if err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	mark1ArrayOff, err := p.u16()
	if err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	mark2ArrayOff, err := p.u16()
	if err != nil {
		return MarkMarkPos{}, ErrInvalidTable
	}
	mark1Cov, err := ParseCoverage(data, offset+int(mark1CovOff))
	if err != nil {
		return MarkMarkPos{}, fmt.Errorf("mark1Coverage: %w", err)
	}
	mark2Cov, err := ParseCoverage(data, offset+int(mark2CovOff))
	if err != nil {
		return MarkMarkPos{}, fmt.Errorf("mark2Coverage: %w", err)
	}
	mark1Array, err := parseMarkArray(data, offset+int(mark1ArrayOff))
	if err != nil {
		return MarkMarkPos{}, fmt.Errorf("mark1Array: %w", err)
	}
	mark2Array, err := parseBaseArray(data, offset+int(mark2ArrayOff), int(classCount))
	if err != nil {
		return MarkMarkPos{}, fmt.Errorf("mark2Array: %w", err)
	}
	return MarkMarkPos{
		Mark1Coverage: mark1Cov, Mark2Coverage: mark2Cov, ClassCount: int(classCount),
		Mark1Array: mark1Array, Mark2Array: mark2Array,
	}, nil
}
