package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

const (
	beh   rune = 0x0628 // dual-joining
	seen  rune = 0x0633 // dual-joining
	dal   rune = 0x062F // right-joining only
	fatha rune = 0x064B // transparent combining mark
)

func TestJoiningTypeOf(t *testing.T) {
	require.Equal(t, JoiningDual, JoiningTypeOf(beh))
	require.Equal(t, JoiningRight, JoiningTypeOf(dal))
	require.Equal(t, JoiningTransparent, JoiningTypeOf(fatha))
	require.Equal(t, JoiningNone, JoiningTypeOf('a'))
}

func arabicAlbum(t *testing.T, codepoints []rune) *Album {
	t.Helper()
	a := NewAlbum()
	a.Reset(codepoints, 0, len(codepoints), RightToLeft)
	for i, cp := range codepoints {
		a.Add(font.GlyphID(cp), TraitBase, i)
	}
	return a
}

func TestArabicEngineInitialMedialFinal(t *testing.T) {
	a := arabicAlbum(t, []rune{beh, seen, dal})
	ArabicEngine{}.Preprocess(a)

	require.Equal(t, maskAlwaysOn|maskInit, a.Slot(0).Mask)
	require.Equal(t, maskAlwaysOn|maskMedi, a.Slot(1).Mask)
	require.Equal(t, maskAlwaysOn|maskFina, a.Slot(2).Mask)
}

func TestArabicEngineIsolatedSingleLetter(t *testing.T) {
	a := arabicAlbum(t, []rune{dal})
	ArabicEngine{}.Preprocess(a)
	require.Equal(t, maskAlwaysOn|maskIsol, a.Slot(0).Mask)
}

func TestArabicEngineTransparentMarkDoesNotBreakChain(t *testing.T) {
	a := arabicAlbum(t, []rune{beh, fatha, seen})
	ArabicEngine{}.Preprocess(a)

	require.Equal(t, maskAlwaysOn|maskInit, a.Slot(0).Mask)
	require.Equal(t, maskAlwaysOn, a.Slot(1).Mask) // mark itself carries no joining bit
	require.Equal(t, maskAlwaysOn|maskFina, a.Slot(2).Mask)
}

func TestArabicEngineNonJoiningBreaksChain(t *testing.T) {
	a := arabicAlbum(t, []rune{dal, dal})
	ArabicEngine{}.Preprocess(a)
	// DAL only joins to a preceding letter, never to a following one:
	// the second DAL cannot join the first, so both stay isolated.
	require.Equal(t, maskAlwaysOn|maskIsol, a.Slot(0).Mask)
	require.Equal(t, maskAlwaysOn|maskIsol, a.Slot(1).Mask)
}
