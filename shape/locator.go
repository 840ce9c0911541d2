package shape

import "github.com/complexscript/shaping/font"

// Locator is a cursor over an Album that iterates "legitimate" glyphs —
// slots not filtered out by a lookup's flags — component 3 of the
// pipeline.
type Locator struct {
	album *Album
	gdef  *font.GDEF

	startIndex, limitIndex int
	index                  int // -1 before the first MoveNext
	snapshotVersion        int

	ignoreMask       Trait
	markAttachFilter uint16 // 0: no filtering by mark-attachment class
	markFilterSet    int    // -1: no named mark filtering set
	reverse          bool
	featureMask      uint16 // 0: no feature-mask filtering
}

// NewLocator creates a Locator over [start, limit) of album. gdef may be
// nil (mark-attachment-class and mark-filtering-set filters then match
// nothing, matching a font with no GDEF).
func NewLocator(album *Album, start, limit int, gdef *font.GDEF) *Locator {
	return &Locator{
		album: album, gdef: gdef,
		startIndex: start, limitIndex: limit,
		index: start - 1, snapshotVersion: album.Version(),
		markFilterSet: -1,
	}
}

// SetLookupFlag decodes an OpenType lookup flag into the Locator's
// ignore mask and mark filters.
func (l *Locator) SetLookupFlag(flag font.LookupFlag) {
	l.ignoreMask = 0
	if flag&font.LookupIgnoreBaseGlyphs != 0 {
		l.ignoreMask |= TraitBase
	}
	if flag&font.LookupIgnoreLigatures != 0 {
		l.ignoreMask |= TraitLigature
	}
	if flag&font.LookupIgnoreMarks != 0 {
		l.ignoreMask |= TraitMark
	}
	l.markAttachFilter = 0
	if flag&font.LookupUseMarkFilteringSet == 0 {
		l.markAttachFilter = flag.MarkAttachmentType()
	}
	l.markFilterSet = -1
	if flag&font.LookupUseMarkFilteringSet != 0 {
		// The caller (executeLookup) takes the set index from the lookup
		// table (Lookup.MarkFilteringSet) and calls SetMarkFilteringSet explicitly, since
		// the index itself isn't part of the flag bits.
	}
	l.reverse = flag&font.LookupRightToLeft != 0
}

// SetMarkFilteringSet records the GDEF mark-filtering-set index a
// UseMarkFilteringSet lookup names.
func (l *Locator) SetMarkFilteringSet(set int) { l.markFilterSet = set }

// SetFeatureMask additionally skips any slot whose mask does not
// intersect m.
func (l *Locator) SetFeatureMask(m uint16) { l.featureMask = m }

// Index returns the cursor's current position; valid only after a
// MoveNext that returned true.
func (l *Locator) Index() int { return l.index }

func (l *Locator) resyncIfStale() {
	if l.snapshotVersion != l.album.Version() {
		// Conservative re-validation: clamp the limit to the Album's new
		// length and keep the cursor where it is — insertions/removals
		// only ever happen ahead of or at the cursor within one lookup's
		// pass in this pipeline.
		if l.limitIndex > l.album.Len() {
			l.limitIndex = l.album.Len()
		}
		l.snapshotVersion = l.album.Version()
	}
}

func (l *Locator) legitimate(idx int) bool {
	if idx < 0 || idx >= l.album.Len() {
		return false
	}
	s := l.album.Slot(idx)
	if s.Traits&(TraitRemoved|TraitPlaceHolder) != 0 {
		return false
	}
	if s.Traits&l.ignoreMask != 0 {
		return false
	}
	if s.Traits&TraitMark != 0 {
		if l.markFilterSet >= 0 {
			if !l.gdef.MarkGlyphSetCovers(l.markFilterSet, s.Glyph) {
				return false
			}
		} else if l.markAttachFilter != 0 {
			if l.gdef.MarkAttachClass(s.Glyph) != l.markAttachFilter {
				return false
			}
		}
	}
	if l.featureMask != 0 && s.Mask&l.featureMask == 0 {
		return false
	}
	return true
}

// MoveNext advances past the current slot and any non-legitimate slots
// until reaching a legitimate slot or the limit; it returns whether one
// was found.
func (l *Locator) MoveNext() bool {
	l.resyncIfStale()
	step := 1
	if l.reverse {
		step = -1
	}
	for {
		l.index += step
		if l.reverse {
			if l.index < l.startIndex {
				return false
			}
		} else if l.index >= l.limitIndex {
			return false
		}
		if l.legitimate(l.index) {
			return true
		}
	}
}

// Skip performs n successive MoveNext steps, returning false if
// iteration is exhausted before completing all of them.
func (l *Locator) Skip(n int) bool {
	for i := 0; i < n; i++ {
		if !l.MoveNext() {
			return false
		}
	}
	return true
}

// JumpTo sets the cursor so the next MoveNext call starts searching
// from idx (inclusive).
func (l *Locator) JumpTo(idx int) {
	step := 1
	if l.reverse {
		step = -1
	}
	l.index = idx - step
}

// GetAfter peeks the nearest legitimate neighbour strictly after idx
// without mutating the cursor.
func (l *Locator) GetAfter(idx int) (int, bool) {
	l.resyncIfStale()
	for i := idx + 1; i < l.limitIndex; i++ {
		if l.legitimate(i) {
			return i, true
		}
	}
	return 0, false
}

// GetBefore peeks the nearest legitimate neighbour strictly before idx
// without mutating the cursor.
func (l *Locator) GetBefore(idx int) (int, bool) {
	l.resyncIfStale()
	for i := idx - 1; i >= l.startIndex; i-- {
		if l.legitimate(i) {
			return i, true
		}
	}
	return 0, false
}

// TakeState adopts sibling's position, used when a nested lookup
// executes within the outer cursor's window. sibling's range must be a
// subrange of l's.
func (l *Locator) TakeState(sibling *Locator) {
	l.index = sibling.index
	l.snapshotVersion = sibling.snapshotVersion
}
