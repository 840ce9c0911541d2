package font

import "fmt"

// GSUB lookup type numbers, per OpenType.
const (
	GSUBSingle          = 1
	GSUBMultiple        = 2
	GSUBAlternate       = 3
	GSUBLigature        = 4
	GSUBContext         = 5
	GSUBChainContext    = 6
	GSUBExtension       = 7
	GSUBReverseChaining = 8
)

// LookupRecord applies a nested lookup at a given position within a
// contextual match — shared by GSUB context/chaining-context and GPOS
// context/chaining-context subtables.
type LookupRecord struct {
	SequenceIndex   uint16
	LookupListIndex uint16
}

// ContextRule is one alternative of a format-1 or format-2 contextual
// rule: a sequence of glyphs (format 1) or classes (format 2) to match
// starting one glyph after the initial coverage/class hit, plus the
// nested lookups to apply on a match.
type ContextRule struct {
	Input         []uint16 // glyph IDs (format 1) or class numbers (format 2)
	LookupRecords []LookupRecord
}

// ContextSubst implements GSUB lookup type 5 / GPOS lookup type 7 in all
// three OpenType formats.
type ContextSubst struct {
	Format int

	// Format 1: glyph-based rule sets, one per covered first glyph.
	Coverage *Coverage
	RuleSets [][]ContextRule

	// Format 2: class-based rule sets.
	ClassDef      *ClassDef
	ClassRuleSets [][]ContextRule

	// Format 3: coverage-based, one coverage per input position; Input
	// glyphs are matched by coverage membership, not exact identity.
	Coverages     []*Coverage
	LookupRecords []LookupRecord
}

// ChainContextSubst implements GSUB lookup type 6 / GPOS lookup type 8: like
// ContextSubst but with independently matched backtrack (preceding) and
// lookahead (following) glyph sequences.
type ChainContextSubst struct {
	Format int

	Coverage          *Coverage
	BacktrackCoverage []*Coverage // not set by the parser: formats 1/2 keep backtrack in ChainRule, format 3 uses BacktrackCoverages
	RuleSets          [][]ChainRule

	BacktrackClassDef *ClassDef
	InputClassDef     *ClassDef
	LookaheadClassDef *ClassDef
	ClassRuleSets     [][]ChainRule

	// Format 3.
	BacktrackCoverages []*Coverage
	InputCoverages     []*Coverage
	LookaheadCoverages []*Coverage
	LookupRecords      []LookupRecord
}

// ChainRule is one alternative of a format-1 or format-2 chaining rule.
type ChainRule struct {
	Backtrack     []uint16
	Input         []uint16
	Lookahead     []uint16
	LookupRecords []LookupRecord
}

// GSUBSubtable is implemented by every parsed GSUB subtable kind; the
// evaluator in package shape type-switches on it.
type GSUBSubtable interface{ isGSUBSubtable() }

type SingleSubst struct {
	Coverage    *Coverage
	Delta       int16    // format 1
	Substitutes []GlyphID // format 2, parallel to Coverage order
	Format      int
}

type MultipleSubst struct {
	Coverage  *Coverage
	Sequences [][]GlyphID // parallel to Coverage order
}

type AlternateSubst struct {
	Coverage   *Coverage
	Alternates [][]GlyphID // parallel to Coverage order
}

type Ligature struct {
	Glyph      GlyphID
	Components []GlyphID // excludes the first (coverage-matched) glyph
}

type LigatureSubst struct {
	Coverage     *Coverage
	LigatureSets [][]Ligature // parallel to Coverage order
}

type ReverseChainSingleSubst struct {
	Coverage           *Coverage
	BacktrackCoverages []*Coverage
	LookaheadCoverages []*Coverage
	Substitutes        []GlyphID
}

func (SingleSubst) isGSUBSubtable()             {}
func (MultipleSubst) isGSUBSubtable()           {}
func (AlternateSubst) isGSUBSubtable()          {}
func (LigatureSubst) isGSUBSubtable()           {}
func (ContextSubst) isGSUBSubtable()            {}
func (ChainContextSubst) isGSUBSubtable()       {}
func (ReverseChainSingleSubst) isGSUBSubtable() {}

// Lookup is one entry of a GSUB or GPOS LookupList: its flags plus the
// ordered subtables tried, in order, at each cursor position.
type Lookup struct {
	Type             uint16 // the *effective* type: extension subtables are dereferenced at parse time
	Flag             LookupFlag
	MarkFilteringSet int // -1 if UseMarkFilteringSet is unset
	GSUBSubtables    []GSUBSubtable
	GPOSSubtables    []GPOSSubtable
}

// GSUBTable is the parsed GSUB table: the shared script/feature
// metadata plus the GSUB-specific lookup list.
type GSUBTable struct {
	*LayoutHeader
	Lookups []*Lookup
}

// ParseGSUB parses a GSUB table from its raw bytes.
func ParseGSUB(data []byte) (*GSUBTable, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("gsub header: %w", ErrInvalidTable)
	}
	p := newParser(data)
	p.skip(4) // version
	scriptListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gsub header: %w", ErrInvalidTable)
	}
	featureListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gsub header: %w", ErrInvalidTable)
	}
	lookupListOff, err := p.u16()
	if err != nil {
		return nil, fmt.Errorf("gsub header: %w", ErrInvalidTable)
	}

	header, err := parseLayoutHeader(data, int(scriptListOff), int(featureListOff))
	if err != nil {
		return nil, err
	}
	lookups, err := parseGSUBLookupList(data, int(lookupListOff))
	if err != nil {
		return nil, fmt.Errorf("gsub lookupList: %w", err)
	}
	return &GSUBTable{LayoutHeader: header, Lookups: lookups}, nil
}

func parseGSUBLookupList(data []byte, offset int) ([]*Lookup, error) {
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
		l, err := parseGSUBLookup(data, offset+int(off))
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		lookups[i] = l
	}
	return lookups, nil
}

func parseGSUBLookup(data []byte, offset int) (*Lookup, error) {
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
		if lookupType == GSUBExtension {
			realType, realOffset, err := parseExtensionHeader(data, subAbs)
			if err != nil {
				return nil, fmt.Errorf("extension subtable %d: %w", i, err)
			}
			thisType = realType
			subAbs = realOffset
		}
		sub, err := parseGSUBSubtable(data, subAbs, thisType)
		if err != nil {
			return nil, fmt.Errorf("subtable %d (type %d): %w", i, thisType, err)
		}
		effectiveType = thisType
		l.GSUBSubtables = append(l.GSUBSubtables, sub)
	}
	l.Type = effectiveType
	return l, nil
}

// parseExtensionHeader reads an ExtensionSubstFormat1/ExtensionPosFormat1
// header (identical layout for GSUB and GPOS) and resolves it to the
// real subtable's type and absolute offset.
func parseExtensionHeader(data []byte, offset int) (realType uint16, realOffset int, err error) {
	p := newParser(data)
	p.seek(offset)
	p.skip(2) // format, always 1
	extType, err := p.u16()
	if err != nil {
		return 0, 0, ErrInvalidTable
	}
	extOffset, err := p.u32()
	if err != nil {
		return 0, 0, ErrInvalidTable
	}
	return extType, offset + int(extOffset), nil
}

func parseGSUBSubtable(data []byte, offset int, lookupType uint16) (GSUBSubtable, error) {
	switch lookupType {
	case GSUBSingle:
		return parseSingleSubst(data, offset)
	case GSUBMultiple:
		return parseMultipleSubst(data, offset)
	case GSUBAlternate:
		return parseAlternateSubst(data, offset)
	case GSUBLigature:
		return parseLigatureSubst(data, offset)
	case GSUBContext:
		return parseContextSubst(data, offset)
	case GSUBChainContext:
		return parseChainContextSubst(data, offset)
	case GSUBReverseChaining:
		return parseReverseChainSingleSubst(data, offset)
	default:
		return nil, fmt.Errorf("lookup type %d: %w", lookupType, ErrInvalidFormat)
	}
}

func parseSingleSubst(data []byte, offset int) (SingleSubst, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return SingleSubst{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return SingleSubst{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return SingleSubst{}, fmt.Errorf("coverage: %w", err)
	}
	s := SingleSubst{Coverage: cov, Format: int(format)}
	switch format {
	case 1:
		delta, err := p.i16()
		if err != nil {
			return SingleSubst{}, ErrInvalidTable
		}
		s.Delta = delta
	case 2:
		count, err := p.u16()
		if err != nil {
			return SingleSubst{}, ErrInvalidTable
		}
		subs, err := p.u16Array(int(count))
		if err != nil {
			return SingleSubst{}, ErrInvalidTable
		}
		s.Substitutes = subs
	default:
		return SingleSubst{}, fmt.Errorf("singleSubst format %d: %w", format, ErrInvalidFormat)
	}
	return s, nil
}

// Apply returns the substitute glyph for gid and true, or (0, false) if
// gid is not covered by this subtable.
func (s SingleSubst) Apply(gid GlyphID) (GlyphID, bool) {
	idx, ok := s.Coverage.Index(gid)
	if !ok {
		return 0, false
	}
	if s.Format == 1 {
		return GlyphID(int32(gid)+int32(s.Delta)) & 0xFFFF, true
	}
	if idx >= len(s.Substitutes) {
		return 0, false
	}
	return s.Substitutes[idx], true
}

func parseMultipleSubst(data []byte, offset int) (MultipleSubst, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil { // format, always 1
		return MultipleSubst{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return MultipleSubst{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return MultipleSubst{}, fmt.Errorf("coverage: %w", err)
	}
	count, err := p.u16()
	if err != nil {
		return MultipleSubst{}, ErrInvalidTable
	}
	seqOffsets, err := p.u16Array(int(count))
	if err != nil {
		return MultipleSubst{}, ErrInvalidTable
	}
	seqs := make([][]GlyphID, count)
	for i, so := range seqOffsets {
		sp := newParser(data)
		sp.seek(offset + int(so))
		n, err := sp.u16()
		if err != nil {
			return MultipleSubst{}, fmt.Errorf("sequence %d: %w", i, ErrInvalidTable)
		}
		glyphs, err := sp.u16Array(int(n))
		if err != nil {
			return MultipleSubst{}, fmt.Errorf("sequence %d: %w", i, ErrInvalidTable)
		}
		seqs[i] = glyphs
	}
	return MultipleSubst{Coverage: cov, Sequences: seqs}, nil
}

func parseAlternateSubst(data []byte, offset int) (AlternateSubst, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil {
		return AlternateSubst{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return AlternateSubst{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return AlternateSubst{}, fmt.Errorf("coverage: %w", err)
	}
	count, err := p.u16()
	if err != nil {
		return AlternateSubst{}, ErrInvalidTable
	}
	setOffsets, err := p.u16Array(int(count))
	if err != nil {
		return AlternateSubst{}, ErrInvalidTable
	}
	alts := make([][]GlyphID, count)
	for i, so := range setOffsets {
		sp := newParser(data)
		sp.seek(offset + int(so))
		n, err := sp.u16()
		if err != nil {
			return AlternateSubst{}, fmt.Errorf("alternateSet %d: %w", i, ErrInvalidTable)
		}
		glyphs, err := sp.u16Array(int(n))
		if err != nil {
			return AlternateSubst{}, fmt.Errorf("alternateSet %d: %w", i, ErrInvalidTable)
		}
		alts[i] = glyphs
	}
	return AlternateSubst{Coverage: cov, Alternates: alts}, nil
}

func parseLigatureSubst(data []byte, offset int) (LigatureSubst, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil {
		return LigatureSubst{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return LigatureSubst{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return LigatureSubst{}, fmt.Errorf("coverage: %w", err)
	}
	count, err := p.u16()
	if err != nil {
		return LigatureSubst{}, ErrInvalidTable
	}
	setOffsets, err := p.u16Array(int(count))
	if err != nil {
		return LigatureSubst{}, ErrInvalidTable
	}
	sets := make([][]Ligature, count)
	for i, so := range setOffsets {
		setAbs := offset + int(so)
		sp := newParser(data)
		sp.seek(setAbs)
		ligCount, err := sp.u16()
		if err != nil {
			return LigatureSubst{}, fmt.Errorf("ligatureSet %d: %w", i, ErrInvalidTable)
		}
		ligOffsets, err := sp.u16Array(int(ligCount))
		if err != nil {
			return LigatureSubst{}, fmt.Errorf("ligatureSet %d: %w", i, ErrInvalidTable)
		}
		ligs := make([]Ligature, ligCount)
		for j, lo := range ligOffsets {
			lp := newParser(data)
			lp.seek(setAbs + int(lo))
			glyph, err := lp.u16()
			if err != nil {
				return LigatureSubst{}, fmt.Errorf("ligature %d/%d: %w", i, j, ErrInvalidTable)
			}
			compCount, err := lp.u16()
			if err != nil {
				return LigatureSubst{}, fmt.Errorf("ligature %d/%d: %w", i, j, ErrInvalidTable)
			}
			var comps []GlyphID
			if compCount > 0 {
				comps, err = lp.u16Array(int(compCount) - 1)
				if err != nil {
					return LigatureSubst{}, fmt.Errorf("ligature %d/%d: %w", i, j, ErrInvalidTable)
				}
			}
			ligs[j] = Ligature{Glyph: glyph, Components: comps}
		}
		sets[i] = ligs
	}
	return LigatureSubst{Coverage: cov, LigatureSets: sets}, nil
}

func parseLookupRecords(p *parser, count int) ([]LookupRecord, error) {
	recs := make([]LookupRecord, count)
	for i := range recs {
		seqIdx, err := p.u16()
		if err != nil {
			return nil, ErrInvalidTable
		}
		lookupIdx, err := p.u16()
		if err != nil {
			return nil, ErrInvalidTable
		}
		recs[i] = LookupRecord{SequenceIndex: seqIdx, LookupListIndex: lookupIdx}
	}
	return recs, nil
}

func parseContextSubst(data []byte, offset int) (ContextSubst, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return ContextSubst{}, ErrInvalidTable
	}
	cs := ContextSubst{Format: int(format)}
	switch format {
	case 1:
		covOff, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cov, err := ParseCoverage(data, offset+int(covOff))
		if err != nil {
			return ContextSubst{}, fmt.Errorf("coverage: %w", err)
		}
		cs.Coverage = cov
		count, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		setOffsets, err := p.u16Array(int(count))
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cs.RuleSets = make([][]ContextRule, count)
		for i, so := range setOffsets {
			rules, err := parseContextRuleSet(data, offset+int(so), false)
			if err != nil {
				return ContextSubst{}, fmt.Errorf("ruleSet %d: %w", i, err)
			}
			cs.RuleSets[i] = rules
		}
	case 2:
		covOff, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cov, err := ParseCoverage(data, offset+int(covOff))
		if err != nil {
			return ContextSubst{}, fmt.Errorf("coverage: %w", err)
		}
		cs.Coverage = cov
		classDefOff, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cd, err := ParseClassDef(data, offset+int(classDefOff))
		if err != nil {
			return ContextSubst{}, fmt.Errorf("classDef: %w", err)
		}
		cs.ClassDef = cd
		count, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		setOffsets, err := p.u16Array(int(count))
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cs.ClassRuleSets = make([][]ContextRule, count)
		for i, so := range setOffsets {
			if so == 0 {
				continue
			}
			rules, err := parseContextRuleSet(data, offset+int(so), true)
			if err != nil {
				return ContextSubst{}, fmt.Errorf("classRuleSet %d: %w", i, err)
			}
			cs.ClassRuleSets[i] = rules
		}
	case 3:
		glyphCount, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		lookupCount, err := p.u16()
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		covOffsets, err := p.u16Array(int(glyphCount))
		if err != nil {
			return ContextSubst{}, ErrInvalidTable
		}
		cs.Coverages = make([]*Coverage, glyphCount)
		for i, co := range covOffsets {
			cov, err := ParseCoverage(data, offset+int(co))
			if err != nil {
				return ContextSubst{}, fmt.Errorf("coverage %d: %w", i, err)
			}
			cs.Coverages[i] = cov
		}
		recs, err := parseLookupRecords(p, int(lookupCount))
		if err != nil {
			return ContextSubst{}, fmt.Errorf("lookupRecords: %w", err)
		}
		cs.LookupRecords = recs
	default:
		return ContextSubst{}, fmt.Errorf("contextSubst format %d: %w", format, ErrInvalidFormat)
	}
	return cs, nil
}

func parseContextRuleSet(data []byte, offset int, classBased bool) ([]ContextRule, error) {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	ruleOffsets, err := p.u16Array(int(count))
	if err != nil {
		return nil, ErrInvalidTable
	}
	rules := make([]ContextRule, count)
	for i, ro := range ruleOffsets {
		rp := newParser(data)
		rp.seek(offset + int(ro))
		glyphCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, ErrInvalidTable)
		}
		lookupCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, ErrInvalidTable)
		}
		var input []uint16
		if glyphCount > 1 {
			input, err = rp.u16Array(int(glyphCount) - 1)
			if err != nil {
				return nil, fmt.Errorf("rule %d input: %w", i, ErrInvalidTable)
			}
		}
		recs, err := parseLookupRecords(rp, int(lookupCount))
		if err != nil {
			return nil, fmt.Errorf("rule %d lookupRecords: %w", i, ErrInvalidTable)
		}
		rules[i] = ContextRule{Input: input, LookupRecords: recs}
	}
	_ = classBased
	return rules, nil
}

func parseChainContextSubst(data []byte, offset int) (ChainContextSubst, error) {
	p := newParser(data)
	p.seek(offset)
	format, err := p.u16()
	if err != nil {
		return ChainContextSubst{}, ErrInvalidTable
	}
	cs := ChainContextSubst{Format: int(format)}
	switch format {
	case 1:
		covOff, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		cov, err := ParseCoverage(data, offset+int(covOff))
		if err != nil {
			return ChainContextSubst{}, fmt.Errorf("coverage: %w", err)
		}
		cs.Coverage = cov
		count, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		setOffsets, err := p.u16Array(int(count))
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		cs.RuleSets = make([][]ChainRule, count)
		for i, so := range setOffsets {
			if so == 0 {
				continue
			}
			rules, err := parseChainRuleSet(data, offset+int(so))
			if err != nil {
				return ChainContextSubst{}, fmt.Errorf("chainRuleSet %d: %w", i, err)
			}
			cs.RuleSets[i] = rules
		}
	case 2:
		covOff, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		cov, err := ParseCoverage(data, offset+int(covOff))
		if err != nil {
			return ChainContextSubst{}, fmt.Errorf("coverage: %w", err)
		}
		cs.Coverage = cov
		backOff, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		inOff, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		lookOff, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		if backOff != 0 {
			cd, err := ParseClassDef(data, offset+int(backOff))
			if err != nil {
				return ChainContextSubst{}, fmt.Errorf("backtrackClassDef: %w", err)
			}
			cs.BacktrackClassDef = cd
		}
		if inOff != 0 {
			cd, err := ParseClassDef(data, offset+int(inOff))
			if err != nil {
				return ChainContextSubst{}, fmt.Errorf("inputClassDef: %w", err)
			}
			cs.InputClassDef = cd
		}
		if lookOff != 0 {
			cd, err := ParseClassDef(data, offset+int(lookOff))
			if err != nil {
				return ChainContextSubst{}, fmt.Errorf("lookaheadClassDef: %w", err)
			}
			cs.LookaheadClassDef = cd
		}
		count, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		setOffsets, err := p.u16Array(int(count))
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		cs.ClassRuleSets = make([][]ChainRule, count)
		for i, so := range setOffsets {
			if so == 0 {
				continue
			}
			rules, err := parseChainRuleSet(data, offset+int(so))
			if err != nil {
				return ChainContextSubst{}, fmt.Errorf("chainClassRuleSet %d: %w", i, err)
			}
			cs.ClassRuleSets[i] = rules
		}
	case 3:
		backCount, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		backOffsets, err := p.u16Array(int(backCount))
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		inCount, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		inOffsets, err := p.u16Array(int(inCount))
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		lookCount, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		lookOffsets, err := p.u16Array(int(lookCount))
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		lookupCount, err := p.u16()
		if err != nil {
			return ChainContextSubst{}, ErrInvalidTable
		}
		coverages := func(offsets []uint16) ([]*Coverage, error) {
			out := make([]*Coverage, len(offsets))
			for i, o := range offsets {
				cov, err := ParseCoverage(data, offset+int(o))
				if err != nil {
					return nil, fmt.Errorf("coverage %d: %w", i, err)
				}
				out[i] = cov
			}
			return out, nil
		}
		if cs.BacktrackCoverages, err = coverages(backOffsets); err != nil {
			return ChainContextSubst{}, fmt.Errorf("backtrack: %w", err)
		}
		if cs.InputCoverages, err = coverages(inOffsets); err != nil {
			return ChainContextSubst{}, fmt.Errorf("input: %w", err)
		}
		if cs.LookaheadCoverages, err = coverages(lookOffsets); err != nil {
			return ChainContextSubst{}, fmt.Errorf("lookahead: %w", err)
		}
		recs, err := parseLookupRecords(p, int(lookupCount))
		if err != nil {
			return ChainContextSubst{}, fmt.Errorf("lookupRecords: %w", err)
		}
		cs.LookupRecords = recs
	default:
		return ChainContextSubst{}, fmt.Errorf("chainContextSubst format %d: %w", format, ErrInvalidFormat)
	}
	return cs, nil
}

func parseChainRuleSet(data []byte, offset int) ([]ChainRule, error) {
	p := newParser(data)
	p.seek(offset)
	count, err := p.u16()
	if err != nil {
		return nil, ErrInvalidTable
	}
	ruleOffsets, err := p.u16Array(int(count))
	if err != nil {
		return nil, ErrInvalidTable
	}
	rules := make([]ChainRule, count)
	for i, ro := range ruleOffsets {
		rp := newParser(data)
		rp.seek(offset + int(ro))

		backCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("chainRule %d: %w", i, ErrInvalidTable)
		}
		backtrack, err := rp.u16Array(int(backCount))
		if err != nil {
			return nil, fmt.Errorf("chainRule %d backtrack: %w", i, ErrInvalidTable)
		}
		inCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("chainRule %d: %w", i, ErrInvalidTable)
		}
		var input []uint16
		if inCount > 1 {
			input, err = rp.u16Array(int(inCount) - 1)
			if err != nil {
				return nil, fmt.Errorf("chainRule %d input: %w", i, ErrInvalidTable)
			}
		}
		lookCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("chainRule %d: %w", i, ErrInvalidTable)
		}
		lookahead, err := rp.u16Array(int(lookCount))
		if err != nil {
			return nil, fmt.Errorf("chainRule %d lookahead: %w", i, ErrInvalidTable)
		}
		lookupCount, err := rp.u16()
		if err != nil {
			return nil, fmt.Errorf("chainRule %d: %w", i, ErrInvalidTable)
		}
		recs, err := parseLookupRecords(rp, int(lookupCount))
		if err != nil {
			return nil, fmt.Errorf("chainRule %d lookupRecords: %w", i, ErrInvalidTable)
		}
		rules[i] = ChainRule{Backtrack: backtrack, Input: input, Lookahead: lookahead, LookupRecords: recs}
	}
	return rules, nil
}

func parseReverseChainSingleSubst(data []byte, offset int) (ReverseChainSingleSubst, error) {
	p := newParser(data)
	p.seek(offset)
	if _, err := p.u16(); err != nil { // format, always 1
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	covOff, err := p.u16()
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	cov, err := ParseCoverage(data, offset+int(covOff))
	if err != nil {
		return ReverseChainSingleSubst{}, fmt.Errorf("coverage: %w", err)
	}
	backCount, err := p.u16()
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	backOffsets, err := p.u16Array(int(backCount))
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	lookCount, err := p.u16()
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	lookOffsets, err := p.u16Array(int(lookCount))
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	glyphCount, err := p.u16()
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	subs, err := p.u16Array(int(glyphCount))
	if err != nil {
		return ReverseChainSingleSubst{}, ErrInvalidTable
	}
	r := ReverseChainSingleSubst{Coverage: cov, Substitutes: subs}
	for _, o := range backOffsets {
		c, err := ParseCoverage(data, offset+int(o))
		if err != nil {
			return ReverseChainSingleSubst{}, fmt.Errorf("backtrack coverage: %w", err)
		}
		r.BacktrackCoverages = append(r.BacktrackCoverages, c)
	}
	for _, o := range lookOffsets {
		c, err := ParseCoverage(data, offset+int(o))
		if err != nil {
			return ReverseChainSingleSubst{}, fmt.Errorf("lookahead coverage: %w", err)
		}
		r.LookaheadCoverages = append(r.LookaheadCoverages, c)
	}
	return r, nil
}
