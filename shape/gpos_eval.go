package shape

import "github.com/complexscript/shaping/font"

// gposRunner executes GPOS lookups against an Album — component 10 of
// the pipeline. Offsets/advances it writes are provisional: cursive and
// mark-attachment deltas are accumulated transitively only at WrapUp.
type gposRunner struct {
	album   *Album
	gdef    *font.GDEF
	lookups []*font.Lookup
	depth   int
}

func (r *gposRunner) executeLookup(lookupIndex int, mask uint16) error {
	if r.depth >= maxLookupDepth {
		return ErrRecursionLimit
	}
	if lookupIndex < 0 || lookupIndex >= len(r.lookups) {
		return ErrInvalidFontData
	}
	lookup := r.lookups[lookupIndex]
	loc := NewLocator(r.album, 0, r.album.Len(), r.gdef)
	loc.SetLookupFlag(lookup.Flag)
	if lookup.MarkFilteringSet >= 0 {
		loc.SetMarkFilteringSet(lookup.MarkFilteringSet)
	}
	loc.SetFeatureMask(mask)

	for loc.MoveNext() {
		idx := loc.Index()
		advance := r.applyAt(lookup, loc, idx, mask)
		if advance > 1 {
			loc.JumpTo(idx + advance)
		}
		// GPOS always advances exactly one slot on no-match or a
		// single-glyph match (spec.md §4.3): the outer MoveNext handles
		// that case unassisted.
	}
	return nil
}

// applyAt tries lookup's subtables in order at idx, returning how many
// slots the match consumed (0 or 1 both mean "advance the normal one").
func (r *gposRunner) applyAt(lookup *font.Lookup, loc *Locator, idx int, mask uint16) int {
	glyph := r.album.Slot(idx).Glyph
	for _, sub := range lookup.GPOSSubtables {
		switch s := sub.(type) {
		case font.SinglePos:
			if applySinglePos(r.album, idx, glyph, s) {
				return 1
			}
		case font.PairPos:
			if resumeAt, ok := applyPairPos(r.album, loc, idx, glyph, s); ok {
				// resumeAt is an absolute slot index, not a count: the
				// matched second glyph can be several raw slots past idx
				// when the lookup flag skips ignored glyphs (marks) in
				// between, so a fixed idx+2 would land before it.
				return resumeAt - idx
			}
		case font.CursivePos:
			if applyCursivePos(r.album, loc, idx, glyph, s) {
				return 1
			}
		case font.MarkBasePos:
			if applyMarkBasePos(r.album, idx, glyph, s) {
				return 1
			}
		case font.MarkLigPos:
			if applyMarkLigPos(r.album, idx, glyph, s) {
				return 1
			}
		case font.MarkMarkPos:
			if applyMarkMarkPos(r.album, idx, glyph, s) {
				return 1
			}
		case font.ContextSubst:
			if matched, recs, ok := matchContext(loc, idx, s, r.album); ok {
				r.applyLookupRecords(loc, matched, recs, mask)
				return len(matched)
			}
		case font.ChainContextSubst:
			if matched, recs, ok := matchChainContext(loc, idx, s, r.album); ok {
				r.applyLookupRecords(loc, matched, recs, mask)
				return len(matched)
			}
		}
	}
	return 0
}

func (r *gposRunner) applyLookupRecords(loc *Locator, matched []int, recs []font.LookupRecord, mask uint16) {
	if r.depth+1 >= maxLookupDepth {
		return
	}
	nested := &gposRunner{album: r.album, gdef: r.gdef, lookups: r.lookups, depth: r.depth + 1}
	for _, rec := range recs {
		if int(rec.SequenceIndex) >= len(matched) {
			continue
		}
		at := matched[rec.SequenceIndex]
		if int(rec.LookupListIndex) >= len(nested.lookups) {
			continue
		}
		lookup := nested.lookups[rec.LookupListIndex]
		sub := NewLocator(r.album, 0, r.album.Len(), r.gdef)
		sub.SetLookupFlag(lookup.Flag)
		sub.SetFeatureMask(mask)
		sub.JumpTo(at)
		if sub.MoveNext() {
			nested.applyAt(lookup, sub, sub.Index(), mask)
		}
	}
}

func applySinglePos(album *Album, idx int, glyph font.GlyphID, s font.SinglePos) bool {
	covIdx, ok := s.Coverage.Index(glyph)
	if !ok {
		return false
	}
	v := s.Value
	if s.Format == 2 {
		if covIdx >= len(s.Values) {
			return false
		}
		v = s.Values[covIdx]
	}
	addValueRecord(album, idx, v)
	return true
}

func addValueRecord(album *Album, idx int, v font.ValueRecord) {
	album.AddOffset(idx, int32(v.XPlacement), int32(v.YPlacement))
	slot := album.Slot(idx)
	slot.XAdvance += int32(v.XAdvance)
	slot.YAdvance += int32(v.YAdvance)
}

// applyPairPos returns the absolute slot index scanning should resume
// from after this match (not a count — second can be several raw
// slots past idx when the lookup flag skips ignored glyphs between
// them), and whether a pair matched at all.
func applyPairPos(album *Album, loc *Locator, idx int, glyph font.GlyphID, s font.PairPos) (int, bool) {
	if !s.Coverage.Contains(glyph) {
		return 0, false
	}
	second, ok := loc.GetAfter(idx)
	if !ok {
		return 0, false
	}
	g2 := album.Slot(second).Glyph
	var v1, v2 font.ValueRecord
	matched := false
	switch s.Format {
	case 1:
		covIdx, _ := s.Coverage.Index(glyph)
		if covIdx >= len(s.PairSets) {
			return 0, false
		}
		for _, rec := range s.PairSets[covIdx] {
			if rec.SecondGlyph == g2 {
				v1, v2 = rec.First, rec.Second
				matched = true
				break
			}
		}
	case 2:
		c1 := s.ClassDef1.Class(glyph)
		c2 := s.ClassDef2.Class(g2)
		if int(c1) < len(s.ClassRecords) && int(c2) < len(s.ClassRecords[c1]) {
			rec := s.ClassRecords[c1][c2]
			v1, v2 = rec.First, rec.Second
			matched = true
		}
	}
	if !matched {
		return 0, false
	}
	addValueRecord(album, idx, v1)
	if !v2.IsEmpty() {
		addValueRecord(album, second, v2)
		return second + 1, true
	}
	return idx + 1, true
}

func applyCursivePos(album *Album, loc *Locator, idx int, glyph font.GlyphID, s font.CursivePos) bool {
	covIdx, ok := s.Coverage.Index(glyph)
	if !ok || s.Entry[covIdx] == nil {
		return false
	}
	prev, ok := loc.GetBefore(idx)
	if !ok {
		return false
	}
	prevCovIdx, ok := s.Coverage.Index(album.Slot(prev).Glyph)
	if !ok || prevCovIdx >= len(s.Exit) || s.Exit[prevCovIdx] == nil {
		return false
	}
	entry, exit := s.Entry[covIdx], s.Exit[prevCovIdx]
	album.AddOffset(idx, int32(exit.X-entry.X), int32(exit.Y-entry.Y))
	album.LinkCursive(idx, prev)
	return true
}

// findPrecedingWithTrait scans backward from idx (exclusive) for the
// nearest non-Removed slot carrying trait, skipping only Mark slots in
// between — the "getBefore filtered to Bases/Ligatures" lookup spec.md
// §4.5 calls for.
func findPrecedingWithTrait(album *Album, idx int, trait Trait) (int, bool) {
	for i := idx - 1; i >= 0; i-- {
		s := album.Slot(i)
		if s.Traits&TraitRemoved != 0 {
			continue
		}
		if s.Traits&trait != 0 {
			return i, true
		}
		if s.Traits&TraitMark != 0 {
			continue
		}
		return 0, false
	}
	return 0, false
}

func applyMarkBasePos(album *Album, idx int, glyph font.GlyphID, s font.MarkBasePos) bool {
	markCovIdx, ok := s.MarkCoverage.Index(glyph)
	if !ok {
		return false
	}
	base, ok := findPrecedingWithTrait(album, idx, TraitBase)
	if !ok {
		return false
	}
	baseCovIdx, ok := s.BaseCoverage.Index(album.Slot(base).Glyph)
	if !ok || baseCovIdx >= len(s.BaseArray) {
		return false
	}
	markRec := s.MarkArray[markCovIdx]
	anchors := s.BaseArray[baseCovIdx]
	if int(markRec.Class) >= len(anchors) || anchors[markRec.Class] == nil {
		return false
	}
	a := anchors[markRec.Class]
	album.SetOffset(idx, int32(a.X-markRec.Anchor.X), int32(a.Y-markRec.Anchor.Y))
	album.LinkAttachment(idx, base)
	return true
}

func applyMarkLigPos(album *Album, idx int, glyph font.GlyphID, s font.MarkLigPos) bool {
	markCovIdx, ok := s.MarkCoverage.Index(glyph)
	if !ok {
		return false
	}
	lig, ok := findPrecedingWithTrait(album, idx, TraitLigature)
	if !ok {
		return false
	}
	ligCovIdx, ok := s.LigatureCoverage.Index(album.Slot(lig).Glyph)
	if !ok || ligCovIdx >= len(s.LigatureArray) {
		return false
	}
	markRec := s.MarkArray[markCovIdx]
	components := s.LigatureArray[ligCovIdx]
	component := nearestComponent(album, lig, album.GlyphToCodepoint(idx), len(components))
	if component >= len(components) {
		return false
	}
	anchors := components[component]
	if int(markRec.Class) >= len(anchors) || anchors[markRec.Class] == nil {
		return false
	}
	a := anchors[markRec.Class]
	album.SetOffset(idx, int32(a.X-markRec.Anchor.X), int32(a.Y-markRec.Anchor.Y))
	album.LinkAttachment(idx, lig)
	return true
}

// nearestComponent picks which ligature component a mark attaches to,
// by comparing the mark's originating codepoint against the ligature
// slot's recorded component codepoints (spec.md §4.5).
func nearestComponent(album *Album, ligSlot, markCodepoint, numComponents int) int {
	comps := album.Components(ligSlot)
	if len(comps) == 0 {
		return 0
	}
	best := 0
	for i, cp := range comps {
		if cp <= markCodepoint {
			best = i
		}
	}
	if best >= numComponents {
		best = numComponents - 1
	}
	return best
}

func applyMarkMarkPos(album *Album, idx int, glyph font.GlyphID, s font.MarkMarkPos) bool {
	mark1CovIdx, ok := s.Mark1Coverage.Index(glyph)
	if !ok {
		return false
	}
	mark2, ok := findPrecedingWithTrait(album, idx, TraitMark)
	if !ok {
		return false
	}
	mark2CovIdx, ok := s.Mark2Coverage.Index(album.Slot(mark2).Glyph)
	if !ok || mark2CovIdx >= len(s.Mark2Array) {
		return false
	}
	markRec := s.Mark1Array[mark1CovIdx]
	anchors := s.Mark2Array[mark2CovIdx]
	if int(markRec.Class) >= len(anchors) || anchors[markRec.Class] == nil {
		return false
	}
	a := anchors[markRec.Class]
	album.SetOffset(idx, int32(a.X-markRec.Anchor.X), int32(a.Y-markRec.Anchor.Y))
	album.LinkAttachment(idx, mark2)
	return true
}
