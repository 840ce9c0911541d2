package shape

import "github.com/complexscript/shaping/font"

// Direction is the text direction a shaping call runs in.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Trait records a Slot's glyph-class and lifecycle bits. Several may be
// set at once (e.g. Ligature|RightToLeft).
type Trait uint16

const (
	TraitBase Trait = 1 << iota
	TraitMark
	TraitLigature
	TraitComponent
	TraitPlaceHolder
	TraitRemoved
	TraitRightToLeft
	TraitZeroWidth
)

// noParent is the sentinel stored in CursiveOffset/AttachmentOffset
// when a slot has no linked parent.
const noParent = -1

// Slot is a single glyph's record within the Album.
type Slot struct {
	Glyph  font.GlyphID
	Traits Trait
	Mask   uint16

	XOffset, YOffset   int32
	XAdvance, YAdvance int32

	// CursiveOffset/AttachmentOffset hold the slot index this slot is
	// linked to for cursive or mark attachment, or noParent.
	CursiveOffset    int
	AttachmentOffset int

	// components holds, for a ligature slot, the codepoint index each
	// constituent component originated from (ascending); nil for a
	// non-ligature slot. GPOS mark-to-ligature uses it to pick the
	// component anchor nearest a mark's originating codepoint.
	components []int
}

func newSlot(gid font.GlyphID, traits Trait, cp int) Slot {
	return Slot{
		Glyph:            gid,
		Traits:           traits,
		CursiveOffset:    noParent,
		AttachmentOffset: noParent,
		components:       []int{cp},
	}
}

// Album is the mutable glyph sequence the shaping pipeline operates on:
// component 2 of the pipeline. One Album is exclusively owned by one
// shaping call.
type Album struct {
	codepoints []rune
	start      int
	count      int

	slots []Slot

	// codepointToGlyph[i] is the slot index the i'th input codepoint
	// (relative to start) first expanded to.
	codepointToGlyph []int
	// glyphToCodepoint[s] is the first input codepoint slot s represents.
	glyphToCodepoint []int

	direction Direction
	version   int
}

// NewAlbum creates an empty Album. Call Reset before use.
func NewAlbum() *Album { return &Album{} }

// Reset empties glyph storage and establishes the input codepoint range
// [start, start+count); the version counter returns to 0.
func (a *Album) Reset(codepoints []rune, start, count int, dir Direction) {
	a.codepoints = codepoints
	a.start = start
	a.count = count
	a.direction = dir
	a.slots = a.slots[:0]
	a.codepointToGlyph = make([]int, count)
	a.glyphToCodepoint = a.glyphToCodepoint[:0]
	a.version = 0
}

// Len returns the number of slots, including Removed ones not yet
// compacted.
func (a *Album) Len() int { return len(a.slots) }

// Slot returns a pointer to the slot at index, for in-place mutation by
// the lookup evaluators.
func (a *Album) Slot(index int) *Slot { return &a.slots[index] }

// Direction reports the direction this Album was reset with.
func (a *Album) Direction() Direction { return a.direction }

// Version returns the monotonically increasing counter, incremented on
// every insertion or removal; Locators use it to detect that cached
// positions may be stale.
func (a *Album) Version() int { return a.version }

// Add appends a new slot mapped from the given input codepoint index
// (relative to the Album's start), recording both association maps.
func (a *Album) Add(gid font.GlyphID, traits Trait, codepointIndex int) int {
	idx := len(a.slots)
	a.slots = append(a.slots, newSlot(gid, traits, codepointIndex))
	a.glyphToCodepoint = append(a.glyphToCodepoint, codepointIndex)
	if codepointIndex >= 0 && codepointIndex < len(a.codepointToGlyph) {
		a.codepointToGlyph[codepointIndex] = idx
	}
	return idx
}

// InsertAt inserts a new slot before index, carrying the codepoint
// association of the slot being displaced so mapping invariants hold.
func (a *Album) InsertAt(index int, gid font.GlyphID, traits Trait) int {
	origin := 0
	if index < len(a.slots) {
		origin = a.slots[index].originCodepoint()
	} else if len(a.slots) > 0 {
		origin = a.slots[len(a.slots)-1].originCodepoint()
	}
	return a.insertWithOrigin(index, gid, traits, origin)
}

// ExpandAt replaces the slot at index with glyphs[0] and inserts new
// slots for glyphs[1:] immediately after, all carrying the same
// codepoint origin and inheriting index's mask and traits — the
// multiple-substitution expansion of spec.md §4.1/§4.4.
func (a *Album) ExpandAt(index int, glyphs []font.GlyphID, traits Trait, mask uint16) {
	if len(glyphs) == 0 {
		a.RemoveAt(index)
		return
	}
	origin := a.slots[index].originCodepoint()
	a.Replace(index, glyphs[0])
	for i := 1; i < len(glyphs); i++ {
		a.insertWithOrigin(index+i, glyphs[i], traits, origin)
		a.slots[index+i].Mask = mask
	}
}

func (a *Album) insertWithOrigin(index int, gid font.GlyphID, traits Trait, origin int) int {
	s := newSlot(gid, traits, origin)
	a.slots = append(a.slots, Slot{})
	copy(a.slots[index+1:], a.slots[index:])
	a.slots[index] = s
	a.glyphToCodepoint = append(a.glyphToCodepoint, 0)
	copy(a.glyphToCodepoint[index+1:], a.glyphToCodepoint[index:])
	a.glyphToCodepoint[index] = origin
	for cp := range a.codepointToGlyph {
		if a.codepointToGlyph[cp] >= index {
			a.codepointToGlyph[cp]++
		}
	}
	a.bumpOffsetsAfterInsert(index)
	a.version++
	return index
}

// originCodepoint returns the codepoint a slot's components trace back
// to, falling back to 0 for a slot built without component tracking.
func (s *Slot) originCodepoint() int {
	if len(s.components) > 0 {
		return s.components[0]
	}
	return 0
}

// bumpOffsetsAfterInsert shifts every CursiveOffset/AttachmentOffset
// link that pointed at or past index, keeping link targets valid after
// a slot is spliced in.
func (a *Album) bumpOffsetsAfterInsert(index int) {
	for i := range a.slots {
		if i == index {
			continue
		}
		if a.slots[i].CursiveOffset >= index {
			a.slots[i].CursiveOffset++
		}
		if a.slots[i].AttachmentOffset >= index {
			a.slots[i].AttachmentOffset++
		}
	}
}

// RemoveAt marks the slot as Removed; it remains addressable (and its
// storage persists) until WrapUp compacts the Album.
func (a *Album) RemoveAt(index int) {
	a.slots[index].Traits |= TraitRemoved
	a.version++
}

// Replace changes a slot's glyph in place.
func (a *Album) Replace(index int, gid font.GlyphID) {
	a.slots[index].Glyph = gid
}

// Ligate replaces the slot at indices[0] with newGlyph, marks the rest
// of indices Removed, unions their codepoint origins onto the surviving
// slot's components, and points every consumed codepoint's
// codepointToGlyph entry at the surviving slot.
func (a *Album) Ligate(indices []int, newGlyph font.GlyphID) {
	if len(indices) == 0 {
		return
	}
	head := indices[0]
	var comps []int
	comps = append(comps, a.slots[head].components...)
	for _, idx := range indices[1:] {
		comps = append(comps, a.slots[idx].components...)
		a.slots[idx].Traits |= TraitRemoved
		for cp := range a.codepointToGlyph {
			if a.codepointToGlyph[cp] == idx {
				a.codepointToGlyph[cp] = head
			}
		}
	}
	a.slots[head].Glyph = newGlyph
	a.slots[head].Traits = (a.slots[head].Traits &^ TraitRemoved) | TraitLigature
	a.slots[head].components = comps
	a.version++
}

// SetTrait, SetMask, SetOffset, SetAdvance mutate a slot's fields.
func (a *Album) SetTrait(index int, t Trait)    { a.slots[index].Traits |= t }
func (a *Album) ClearTrait(index int, t Trait)  { a.slots[index].Traits &^= t }
func (a *Album) SetMask(index int, mask uint16) { a.slots[index].Mask = mask }
func (a *Album) SetOffset(index int, x, y int32) {
	a.slots[index].XOffset, a.slots[index].YOffset = x, y
}
func (a *Album) AddOffset(index int, x, y int32) {
	a.slots[index].XOffset += x
	a.slots[index].YOffset += y
}
func (a *Album) SetAdvance(index int, x, y int32) {
	a.slots[index].XAdvance, a.slots[index].YAdvance = x, y
}

// LinkCursive links child's cursive-attachment parent.
func (a *Album) LinkCursive(child, parent int) { a.slots[child].CursiveOffset = parent }

// LinkAttachment links child's mark-attachment parent.
func (a *Album) LinkAttachment(child, parent int) { a.slots[child].AttachmentOffset = parent }

// Components exposes a ligature slot's originating codepoint indices
// (ascending), used by GPOS mark-to-ligature anchor selection.
func (a *Album) Components(index int) []int { return a.slots[index].components }

// GetAssociation returns the slot a given input codepoint index first
// expanded to.
func (a *Album) GetAssociation(codepointIndex int) (int, bool) {
	if codepointIndex < 0 || codepointIndex >= len(a.codepointToGlyph) {
		return 0, false
	}
	return a.codepointToGlyph[codepointIndex], true
}

// GlyphToCodepoint returns the first input codepoint a slot represents.
func (a *Album) GlyphToCodepoint(slotIndex int) int {
	if slotIndex < 0 || slotIndex >= len(a.glyphToCodepoint) {
		return 0
	}
	return a.glyphToCodepoint[slotIndex]
}

// Codepoint returns the raw input rune at a codepoint index (relative
// to the Album's start).
func (a *Album) Codepoint(codepointIndex int) rune {
	return a.codepoints[a.start+codepointIndex]
}

// CodepointCount is the number of input codepoints in range.
func (a *Album) CodepointCount() int { return a.count }

// Output holds the Album's post wrap-up, externally consumable shape.
type Output struct {
	Glyphs             []font.GlyphID
	XOffset, YOffset   []int32
	XAdvance, YAdvance []int32
	// GlyphToCluster[i] is the first input codepoint glyph i originated from.
	GlyphToCluster []int
	// ClusterToGlyph[i] is the output glyph input codepoint i maps to.
	ClusterToGlyph []int
}

// Finalize reads the Album's current (post wrap-up) state into an
// Output snapshot. It does not itself compact or reverse — call WrapUp
// first.
func (a *Album) Finalize() *Output {
	out := &Output{}
	for i := range a.slots {
		s := &a.slots[i]
		if s.Traits&TraitRemoved != 0 {
			continue
		}
		out.Glyphs = append(out.Glyphs, s.Glyph)
		out.XOffset = append(out.XOffset, s.XOffset)
		out.YOffset = append(out.YOffset, s.YOffset)
		out.XAdvance = append(out.XAdvance, s.XAdvance)
		out.YAdvance = append(out.YAdvance, s.YAdvance)
		out.GlyphToCluster = append(out.GlyphToCluster, a.GlyphToCodepoint(i))
	}
	out.ClusterToGlyph = make([]int, a.count)
	for cp := 0; cp < a.count; cp++ {
		slotIdx, ok := a.GetAssociation(cp)
		if !ok {
			continue
		}
		// Translate the original slot index to its position in the
		// compacted (Removed-filtered) output by scanning once; Albums are
		// short enough per shaping call that this is cheap and simple.
		pos := 0
		for i := 0; i < slotIdx && i < len(a.slots); i++ {
			if a.slots[i].Traits&TraitRemoved == 0 {
				pos++
			}
		}
		if slotIdx < len(a.slots) && a.slots[slotIdx].Traits&TraitRemoved == 0 {
			out.ClusterToGlyph[cp] = pos
		}
	}
	return out
}
