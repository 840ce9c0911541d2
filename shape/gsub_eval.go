package shape

import "github.com/complexscript/shaping/font"

// gsubRunner executes GSUB lookups against an Album — component 9 of
// the pipeline.
type gsubRunner struct {
	album   *Album
	gdef    *font.GDEF
	lookups []*font.Lookup
	depth   int
}

// executeLookup creates a Locator over the whole range, applies
// lookup's flags and mask, and tries each subtable in order at every
// legitimate position; first match wins (spec.md §4.3/§4.4).
func (r *gsubRunner) executeLookup(lookupIndex int, mask uint16) error {
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
		before := r.album.Len()
		consumed, err := r.applyAt(lookup, loc, idx, mask)
		if err != nil {
			return err
		}
		// Slots inserted by a substitution push the remaining input
		// slots along; widen the limit so they are still visited.
		loc.limitIndex += r.album.Len() - before
		if consumed > 0 {
			loc.JumpTo(idx + consumed)
		}
	}
	return nil
}

// applyAt tries lookup's subtables in order at idx. It returns the
// number of input slots consumed (0 means no subtable matched).
func (r *gsubRunner) applyAt(lookup *font.Lookup, loc *Locator, idx int, mask uint16) (int, error) {
	glyph := r.album.Slot(idx).Glyph
	for _, sub := range lookup.GSUBSubtables {
		switch s := sub.(type) {
		case font.SingleSubst:
			if newGid, ok := s.Apply(glyph); ok {
				r.album.Replace(idx, newGid)
				return 1, nil
			}
		case font.MultipleSubst:
			if covIdx, ok := s.Coverage.Index(glyph); ok {
				seq := s.Sequences[covIdx]
				slot := r.album.Slot(idx)
				r.album.ExpandAt(idx, seq, slot.Traits, slot.Mask)
				if len(seq) == 0 {
					return 1, nil
				}
				return len(seq), nil
			}
		case font.AlternateSubst:
			if covIdx, ok := s.Coverage.Index(glyph); ok && len(s.Alternates[covIdx]) > 0 {
				r.album.Replace(idx, s.Alternates[covIdx][0])
				return 1, nil
			}
		case font.LigatureSubst:
			if covIdx, ok := s.Coverage.Index(glyph); ok {
				for _, lig := range s.LigatureSets[covIdx] {
					if indices, ok := matchLigatureComponents(loc, idx, lig.Components, r.album); ok {
						r.album.Ligate(indices, lig.Glyph)
						return len(indices), nil
					}
				}
			}
		case font.ContextSubst:
			if consumed, ok, err := r.applyContext(loc, idx, s, mask); err != nil {
				return 0, err
			} else if ok {
				return consumed, nil
			}
		case font.ChainContextSubst:
			if consumed, ok, err := r.applyChainContext(loc, idx, s, mask); err != nil {
				return 0, err
			} else if ok {
				return consumed, nil
			}
		case font.ReverseChainSingleSubst:
			if consumed, ok := r.applyReverseChainSingle(loc, idx, s); ok {
				return consumed, nil
			}
		}
	}
	return 0, nil
}

// matchLigatureComponents walks forward from idx via loc's filtering to
// see whether the next legitimate glyphs match components exactly;
// returns the full matched slot-index list (idx included) on success.
func matchLigatureComponents(loc *Locator, idx int, components []font.GlyphID, album *Album) ([]int, bool) {
	indices := []int{idx}
	cursor := idx
	for _, want := range components {
		next, ok := loc.GetAfter(cursor)
		if !ok || album.Slot(next).Glyph != want {
			return nil, false
		}
		indices = append(indices, next)
		cursor = next
	}
	return indices, true
}

func (r *gsubRunner) applyReverseChainSingle(loc *Locator, idx int, s font.ReverseChainSingleSubst) (int, bool) {
	covIdx, ok := s.Coverage.Index(r.album.Slot(idx).Glyph)
	if !ok {
		return 0, false
	}
	if !matchBacktrack(loc, idx, s.BacktrackCoverages, r.album) {
		return 0, false
	}
	if !matchLookaheadCoverages(loc, idx, s.LookaheadCoverages, r.album) {
		return 0, false
	}
	if covIdx >= len(s.Substitutes) {
		return 0, false
	}
	r.album.Replace(idx, s.Substitutes[covIdx])
	return 1, true
}

// applyContext matches a ContextSubst (GSUB lookup type 5) at idx and,
// on a match, applies its nested LookupRecords.
func (r *gsubRunner) applyContext(loc *Locator, idx int, s font.ContextSubst, mask uint16) (int, bool, error) {
	matched, recs, ok := matchContext(loc, idx, s, r.album)
	if !ok {
		return 0, false, nil
	}
	if err := r.applyLookupRecords(matched, recs, mask); err != nil {
		return 0, false, err
	}
	return len(matched), true, nil
}

// applyChainContext matches a ChainContextSubst (GSUB lookup type 6).
func (r *gsubRunner) applyChainContext(loc *Locator, idx int, s font.ChainContextSubst, mask uint16) (int, bool, error) {
	matched, recs, ok := matchChainContext(loc, idx, s, r.album)
	if !ok {
		return 0, false, nil
	}
	if err := r.applyLookupRecords(matched, recs, mask); err != nil {
		return 0, false, err
	}
	return len(matched), true, nil
}

// applyLookupRecords invokes the nested lookups a contextual match
// names, each positioned at matched[rec.SequenceIndex], recursing with
// a bounded depth (spec.md §5).
func (r *gsubRunner) applyLookupRecords(matched []int, recs []font.LookupRecord, mask uint16) error {
	nested := &gsubRunner{album: r.album, gdef: r.gdef, lookups: r.lookups, depth: r.depth + 1}
	for _, rec := range recs {
		if int(rec.SequenceIndex) >= len(matched) {
			continue
		}
		if err := nested.executeLookupAt(int(rec.LookupListIndex), mask, matched[rec.SequenceIndex]); err != nil {
			if err == ErrRecursionLimit {
				continue
			}
			return err
		}
	}
	return nil
}

// executeLookupAt applies a single nested lookup's subtables once, at
// exactly one position, rather than sweeping the whole Album — nested
// contextual application per spec.md §4.4 operates "at specified
// sequence indices", not as an independent full pass.
func (r *gsubRunner) executeLookupAt(lookupIndex int, mask uint16, at int) error {
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
	loc.JumpTo(at)
	if !loc.MoveNext() {
		return nil
	}
	_, err := r.applyAt(lookup, loc, loc.Index(), mask)
	return err
}
