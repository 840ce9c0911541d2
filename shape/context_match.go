package shape

import "github.com/complexscript/shaping/font"

// matchContext tries every rule of a ContextSubst/ContextPos (GSUB lookup
// type 5 / GPOS lookup type 7) at idx, honouring loc's filtering for every matched
// position. It returns the matched slot indices (idx first) and the
// LookupRecords to apply on success.
func matchContext(loc *Locator, idx int, s font.ContextSubst, album *Album) ([]int, []font.LookupRecord, bool) {
	glyph := album.Slot(idx).Glyph
	switch s.Format {
	case 1:
		covIdx, ok := s.Coverage.Index(glyph)
		if !ok || covIdx >= len(s.RuleSets) {
			return nil, nil, false
		}
		for _, rule := range s.RuleSets[covIdx] {
			if matched, ok := matchGlyphInput(loc, idx, rule.Input, album); ok {
				return matched, rule.LookupRecords, true
			}
		}
	case 2:
		if !s.Coverage.Contains(glyph) {
			return nil, nil, false
		}
		class := s.ClassDef.Class(glyph)
		if int(class) >= len(s.ClassRuleSets) {
			return nil, nil, false
		}
		for _, rule := range s.ClassRuleSets[class] {
			if matched, ok := matchClassInput(loc, idx, rule.Input, s.ClassDef, album); ok {
				return matched, rule.LookupRecords, true
			}
		}
	case 3:
		if len(s.Coverages) == 0 || !s.Coverages[0].Contains(glyph) {
			return nil, nil, false
		}
		if matched, ok := matchCoverageInput(loc, idx, s.Coverages[1:], album); ok {
			return matched, s.LookupRecords, true
		}
	}
	return nil, nil, false
}

// matchChainContext is matchContext's chaining counterpart: it also
// matches backtrack and lookahead sequences.
func matchChainContext(loc *Locator, idx int, s font.ChainContextSubst, album *Album) ([]int, []font.LookupRecord, bool) {
	glyph := album.Slot(idx).Glyph
	switch s.Format {
	case 1:
		covIdx, ok := s.Coverage.Index(glyph)
		if !ok || covIdx >= len(s.RuleSets) {
			return nil, nil, false
		}
		for _, rule := range s.RuleSets[covIdx] {
			matched, ok := matchGlyphInput(loc, idx, rule.Input, album)
			if !ok {
				continue
			}
			if !matchGlyphBacktrack(loc, idx, rule.Backtrack, album) {
				continue
			}
			if !matchGlyphLookahead(loc, matched[len(matched)-1], rule.Lookahead, album) {
				continue
			}
			return matched, rule.LookupRecords, true
		}
	case 2:
		if !s.Coverage.Contains(glyph) {
			return nil, nil, false
		}
		class := s.InputClassDef.Class(glyph)
		if int(class) >= len(s.ClassRuleSets) {
			return nil, nil, false
		}
		for _, rule := range s.ClassRuleSets[class] {
			matched, ok := matchClassInput(loc, idx, rule.Input, s.InputClassDef, album)
			if !ok {
				continue
			}
			if !matchClassBacktrack(loc, idx, rule.Backtrack, s.BacktrackClassDef, album) {
				continue
			}
			if !matchClassLookahead(loc, matched[len(matched)-1], rule.Lookahead, s.LookaheadClassDef, album) {
				continue
			}
			return matched, rule.LookupRecords, true
		}
	case 3:
		if len(s.InputCoverages) == 0 || !s.InputCoverages[0].Contains(glyph) {
			return nil, nil, false
		}
		matched, ok := matchCoverageInput(loc, idx, s.InputCoverages[1:], album)
		if !ok {
			return nil, nil, false
		}
		if !matchBacktrack(loc, idx, s.BacktrackCoverages, album) {
			return nil, nil, false
		}
		if !matchLookaheadCoverages(loc, matched[len(matched)-1], s.LookaheadCoverages, album) {
			return nil, nil, false
		}
		return matched, s.LookupRecords, true
	}
	return nil, nil, false
}

func matchGlyphInput(loc *Locator, idx int, input []uint16, album *Album) ([]int, bool) {
	matched := []int{idx}
	cursor := idx
	for _, want := range input {
		next, ok := loc.GetAfter(cursor)
		if !ok || album.Slot(next).Glyph != font.GlyphID(want) {
			return nil, false
		}
		matched = append(matched, next)
		cursor = next
	}
	return matched, true
}

func matchClassInput(loc *Locator, idx int, input []uint16, cd *font.ClassDef, album *Album) ([]int, bool) {
	matched := []int{idx}
	cursor := idx
	for _, want := range input {
		next, ok := loc.GetAfter(cursor)
		if !ok || cd.Class(album.Slot(next).Glyph) != want {
			return nil, false
		}
		matched = append(matched, next)
		cursor = next
	}
	return matched, true
}

func matchCoverageInput(loc *Locator, idx int, covs []*font.Coverage, album *Album) ([]int, bool) {
	matched := []int{idx}
	cursor := idx
	for _, cov := range covs {
		next, ok := loc.GetAfter(cursor)
		if !ok || !cov.Contains(album.Slot(next).Glyph) {
			return nil, false
		}
		matched = append(matched, next)
		cursor = next
	}
	return matched, true
}

func matchGlyphBacktrack(loc *Locator, idx int, backtrack []uint16, album *Album) bool {
	cursor := idx
	for _, want := range backtrack {
		prev, ok := loc.GetBefore(cursor)
		if !ok || album.Slot(prev).Glyph != font.GlyphID(want) {
			return false
		}
		cursor = prev
	}
	return true
}

func matchClassBacktrack(loc *Locator, idx int, backtrack []uint16, cd *font.ClassDef, album *Album) bool {
	cursor := idx
	for _, want := range backtrack {
		prev, ok := loc.GetBefore(cursor)
		if !ok || cd.Class(album.Slot(prev).Glyph) != want {
			return false
		}
		cursor = prev
	}
	return true
}

func matchBacktrack(loc *Locator, idx int, covs []*font.Coverage, album *Album) bool {
	cursor := idx
	for _, cov := range covs {
		prev, ok := loc.GetBefore(cursor)
		if !ok || !cov.Contains(album.Slot(prev).Glyph) {
			return false
		}
		cursor = prev
	}
	return true
}

func matchGlyphLookahead(loc *Locator, lastMatched int, lookahead []uint16, album *Album) bool {
	cursor := lastMatched
	for _, want := range lookahead {
		next, ok := loc.GetAfter(cursor)
		if !ok || album.Slot(next).Glyph != font.GlyphID(want) {
			return false
		}
		cursor = next
	}
	return true
}

func matchClassLookahead(loc *Locator, lastMatched int, lookahead []uint16, cd *font.ClassDef, album *Album) bool {
	cursor := lastMatched
	for _, want := range lookahead {
		next, ok := loc.GetAfter(cursor)
		if !ok || cd.Class(album.Slot(next).Glyph) != want {
			return false
		}
		cursor = next
	}
	return true
}

func matchLookaheadCoverages(loc *Locator, lastMatched int, covs []*font.Coverage, album *Album) bool {
	cursor := lastMatched
	for _, cov := range covs {
		next, ok := loc.GetAfter(cursor)
		if !ok || !cov.Contains(album.Slot(next).Glyph) {
			return false
		}
		cursor = next
	}
	return true
}
