package shape

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// combiningMarks merges the general categories Unicode assigns
// Joining_Type=Transparent by virtue of being non-spacing: any
// codepoint in this table that arabicJoiningTable doesn't already
// classify is treated as transparent rather than breaking the joining
// chain, covering combining marks the hand-built table omits.
var combiningMarks = rangetable.Merge(unicode.Mn, unicode.Me)

// JoiningType classifies a codepoint's Arabic cursive-joining behaviour,
// per the Unicode ArabicShaping data (R/L/D/C/U/T in spec.md §4.6
// terms).
type JoiningType int

const (
	JoiningNone        JoiningType = iota // U: never joins
	JoiningRight                          // R: joins only to a preceding letter
	JoiningLeft                           // L: joins only to a following letter
	JoiningDual                           // D: joins on both sides
	JoiningCausing                        // C: joins on both sides and forces joining (e.g. tatweel)
	JoiningTransparent                    // T: invisible to the joining chain (combining marks)
)

type joiningRange struct {
	lo, hi rune
	jt     JoiningType
}

// arabicJoiningTable is a compact, hand-built subset of the Unicode
// ArabicShaping.txt data covering the core Arabic block (U+0621–U+064A),
// Arabic combining marks, and tatweel. It is deliberately not a
// generated trie (spec.md §9 places the offline Unicode data-table
// generator out of this core's scope) — just enough real joining data
// to drive the state machine below.
var arabicJoiningTable = []joiningRange{
	{0x0621, 0x0621, JoiningNone},     // HAMZA
	{0x0622, 0x0625, JoiningRight},    // ALEF (MADDA/HAMZA ABOVE/WAW HAMZA/HAMZA BELOW)
	{0x0626, 0x0626, JoiningDual},     // YEH WITH HAMZA ABOVE
	{0x0627, 0x0627, JoiningRight},    // ALEF
	{0x0628, 0x0628, JoiningDual},     // BEH
	{0x0629, 0x0629, JoiningRight},    // TEH MARBUTA
	{0x062A, 0x062E, JoiningDual},     // TEH..KHAH
	{0x062F, 0x0630, JoiningRight},    // DAL, THAL
	{0x0631, 0x0632, JoiningRight},    // REH, ZAIN
	{0x0633, 0x063A, JoiningDual},     // SEEN..GHAIN
	{0x0640, 0x0640, JoiningCausing},  // TATWEEL
	{0x0641, 0x0647, JoiningDual},     // FEH..HEH
	{0x0648, 0x0648, JoiningRight},    // WAW
	{0x0649, 0x064A, JoiningDual},     // ALEF MAKSURA, YEH
	{0x064B, 0x065F, JoiningTransparent}, // harakat (fatha..wavy hamza below)
	{0x0670, 0x0670, JoiningTransparent}, // superscript alef
	{0x0671, 0x0673, JoiningRight},    // alef variants
	{0x0674, 0x0674, JoiningNone},     // HIGH HAMZA
	{0x0675, 0x0677, JoiningRight},
	{0x0678, 0x0687, JoiningDual},
	{0x0688, 0x0699, JoiningRight},
	{0x069A, 0x06BF, JoiningDual},
	{0x06C0, 0x06C0, JoiningRight},
	{0x06C1, 0x06C2, JoiningDual},
	{0x06C3, 0x06CB, JoiningRight},
	{0x06CC, 0x06CC, JoiningDual},
	{0x06CD, 0x06CD, JoiningRight},
	{0x06CE, 0x06CE, JoiningDual},
	{0x06CF, 0x06CF, JoiningRight},
	{0x06D0, 0x06D1, JoiningDual},
	{0x06D2, 0x06D3, JoiningRight},
	{0x06D5, 0x06D5, JoiningRight},
	{0x06D6, 0x06DC, JoiningTransparent},
	{0x06DF, 0x06E4, JoiningTransparent},
	{0x06E7, 0x06E8, JoiningTransparent},
	{0x06EA, 0x06ED, JoiningTransparent},
}

// JoiningTypeOf classifies cp; codepoints outside the Arabic ranges
// above are JoiningTransparent when they are combining marks (Mn/Me)
// and JoiningNone otherwise (Latin digits, punctuation, space, …).
func JoiningTypeOf(cp rune) JoiningType {
	for _, r := range arabicJoiningTable {
		if cp >= r.lo && cp <= r.hi {
			return r.jt
		}
	}
	if unicode.Is(combiningMarks, cp) {
		return JoiningTransparent
	}
	return JoiningNone
}

func joinsToPrev(jt JoiningType) bool {
	return jt == JoiningRight || jt == JoiningDual || jt == JoiningCausing
}

func joinsToNext(jt JoiningType) bool {
	return jt == JoiningLeft || jt == JoiningDual || jt == JoiningCausing
}

type joiningForm int

const (
	formIsolated joiningForm = iota
	formInitial
	formMedial
	formFinal
)

// ArabicEngine is the joining-state-machine pre-pass — component 7 of
// the pipeline. It never touches the Album's glyphs, only slot masks;
// the generic TextProcessor performs the actual substitutions the mask
// selects.
type ArabicEngine struct{}

// Preprocess classifies every codepoint's joining form via a forward
// scan that retroactively upgrades the previous letter's tentative form
// when the current letter joins it (spec.md §4.6's two-pass scan
// collapsed into one pass with a look-back correction).
func (ArabicEngine) Preprocess(album *Album) {
	n := album.CodepointCount()
	if n == 0 {
		return
	}
	jts := make([]JoiningType, n)
	for i := 0; i < n; i++ {
		jts[i] = JoiningTypeOf(album.Codepoint(i))
	}
	forms := make([]joiningForm, n)

	prevIdx := -1
	for i := 0; i < n; i++ {
		jt := jts[i]
		if jt == JoiningTransparent {
			continue
		}
		joinedFromPrev := prevIdx >= 0 && joinsToNext(jts[prevIdx]) && joinsToPrev(jt)
		if joinedFromPrev {
			switch forms[prevIdx] {
			case formIsolated:
				forms[prevIdx] = formInitial
			case formFinal:
				forms[prevIdx] = formMedial
			}
			forms[i] = formFinal
		} else {
			forms[i] = formIsolated
		}
		prevIdx = i
	}

	for i := 0; i < n; i++ {
		slotIdx, ok := album.GetAssociation(i)
		if !ok {
			continue
		}
		mask := maskAlwaysOn
		if jts[i] != JoiningTransparent {
			switch forms[i] {
			case formIsolated:
				mask |= maskIsol
			case formInitial:
				mask |= maskInit
			case formMedial:
				mask |= maskMedi
			case formFinal:
				mask |= maskFina
			}
		}
		album.SetMask(slotIdx, mask)
	}
}
