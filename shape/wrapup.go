package shape

// WrapUp finalises the Album after all GSUB/GPOS passes have run:
// cursive and mark-attachment offsets are accumulated transitively,
// the glyph order is reversed for right-to-left output, and Removed
// slots are compacted away — component 2's wrapUp operation, spec.md
// §4.8.
//
// backward implements the textMode=Backward configuration option as a
// second, literal reversal rather than XOR'd direction logic, so RTL
// direction and Backward textMode compose by cancelling out when both
// apply (spec.md §9's resolution of the SFTextMode::Backward ambiguity).
func (a *Album) WrapUp(backward bool) {
	a.resolveCursiveChains()
	a.resolveAttachmentChains()
	if a.direction == RightToLeft {
		a.reverseOrder()
	}
	if backward {
		a.reverseOrder()
	}
	a.compact()
}

func (a *Album) resolveCursiveChains() {
	resolved := make([]bool, len(a.slots))
	var resolve func(i int) int32
	resolve = func(i int) int32 {
		if resolved[i] {
			return a.slots[i].YOffset
		}
		resolved[i] = true
		parent := a.slots[i].CursiveOffset
		if parent != noParent && parent != i && parent >= 0 && parent < len(a.slots) {
			a.slots[i].YOffset += resolve(parent)
		}
		return a.slots[i].YOffset
	}
	for i := range a.slots {
		resolve(i)
	}
}

func (a *Album) resolveAttachmentChains() {
	resolved := make([]bool, len(a.slots))
	var resolve func(i int) (int32, int32)
	resolve = func(i int) (int32, int32) {
		if resolved[i] {
			return a.slots[i].XOffset, a.slots[i].YOffset
		}
		resolved[i] = true
		parent := a.slots[i].AttachmentOffset
		if parent != noParent && parent != i && parent >= 0 && parent < len(a.slots) {
			px, py := resolve(parent)
			a.slots[i].XOffset += px
			a.slots[i].YOffset += py
		}
		return a.slots[i].XOffset, a.slots[i].YOffset
	}
	for i := range a.slots {
		resolve(i)
	}
}

func (a *Album) reverseOrder() {
	n := len(a.slots)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		a.slots[i], a.slots[j] = a.slots[j], a.slots[i]
		a.glyphToCodepoint[i], a.glyphToCodepoint[j] = a.glyphToCodepoint[j], a.glyphToCodepoint[i]
	}
	for cp := range a.codepointToGlyph {
		a.codepointToGlyph[cp] = n - 1 - a.codepointToGlyph[cp]
	}
	a.version++
}

func (a *Album) compact() {
	newSlots := make([]Slot, 0, len(a.slots))
	newG2C := make([]int, 0, len(a.glyphToCodepoint))
	oldToNew := make([]int, len(a.slots))
	for i, s := range a.slots {
		if s.Traits&TraitRemoved != 0 {
			oldToNew[i] = -1
			continue
		}
		oldToNew[i] = len(newSlots)
		newSlots = append(newSlots, s)
		newG2C = append(newG2C, a.glyphToCodepoint[i])
	}
	a.slots = newSlots
	a.glyphToCodepoint = newG2C
	for cp, old := range a.codepointToGlyph {
		if old >= 0 && old < len(oldToNew) && oldToNew[old] >= 0 {
			a.codepointToGlyph[cp] = oldToNew[old]
		}
	}
}
