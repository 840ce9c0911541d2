package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

func newTestAlbum(t *testing.T, codepoints []rune, dir Direction) *Album {
	t.Helper()
	a := NewAlbum()
	a.Reset(codepoints, 0, len(codepoints), dir)
	for i, cp := range codepoints {
		a.Add(font.GlyphID(cp), TraitBase, i)
	}
	return a
}

func TestAlbumAddAndAssociation(t *testing.T) {
	a := newTestAlbum(t, []rune("abc"), LeftToRight)
	require.Equal(t, 3, a.Len())

	idx, ok := a.GetAssociation(1)
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, 1, a.GlyphToCodepoint(1))
}

func TestAlbumInsertAt(t *testing.T) {
	a := newTestAlbum(t, []rune("ab"), LeftToRight)
	before := a.Version()
	a.InsertAt(1, 99, TraitBase)
	require.Equal(t, 3, a.Len())
	require.Equal(t, font.GlyphID(99), a.Slot(1).Glyph)
	require.Greater(t, a.Version(), before)
}

func TestAlbumExpandAt(t *testing.T) {
	a := newTestAlbum(t, []rune("ab"), LeftToRight)
	a.ExpandAt(0, []font.GlyphID{10, 11, 12}, TraitBase, maskAlwaysOn)
	require.Equal(t, 4, a.Len())
	require.Equal(t, font.GlyphID(10), a.Slot(0).Glyph)
	require.Equal(t, font.GlyphID(11), a.Slot(1).Glyph)
	require.Equal(t, font.GlyphID(12), a.Slot(2).Glyph)
	// all three expanded slots trace back to codepoint 0
	require.Equal(t, 0, a.GlyphToCodepoint(0))
	require.Equal(t, 0, a.GlyphToCodepoint(1))
	require.Equal(t, 0, a.GlyphToCodepoint(2))
	require.Equal(t, uint16(maskAlwaysOn), a.Slot(1).Mask)
}

func TestAlbumExpandAtEmptyRemoves(t *testing.T) {
	a := newTestAlbum(t, []rune("ab"), LeftToRight)
	a.ExpandAt(0, nil, TraitBase, 0)
	require.True(t, a.Slot(0).Traits&TraitRemoved != 0)
}

func TestAlbumLigate(t *testing.T) {
	a := newTestAlbum(t, []rune("ffi"), LeftToRight)
	a.Ligate([]int{0, 1, 2}, 500)
	require.Equal(t, font.GlyphID(500), a.Slot(0).Glyph)
	require.True(t, a.Slot(0).Traits&TraitLigature != 0)
	require.True(t, a.Slot(1).Traits&TraitRemoved != 0)
	require.True(t, a.Slot(2).Traits&TraitRemoved != 0)
	require.Equal(t, []int{0, 1, 2}, a.Components(0))
}

func TestAlbumFinalizeSkipsRemoved(t *testing.T) {
	a := newTestAlbum(t, []rune("abc"), LeftToRight)
	a.RemoveAt(1)
	out := a.Finalize()
	require.Len(t, out.Glyphs, 2)
	require.Equal(t, font.GlyphID('a'), out.Glyphs[0])
	require.Equal(t, font.GlyphID('c'), out.Glyphs[1])
}

func TestWrapUpCursiveChain(t *testing.T) {
	a := newTestAlbum(t, []rune("xyz"), LeftToRight)
	a.SetOffset(0, 0, 0)
	a.SetOffset(1, 0, 5)
	a.SetOffset(2, 0, 7)
	a.LinkCursive(1, 0)
	a.LinkCursive(2, 1)

	a.WrapUp(false)

	require.Equal(t, int32(0), a.Slot(0).YOffset)
	require.Equal(t, int32(5), a.Slot(1).YOffset)
	require.Equal(t, int32(12), a.Slot(2).YOffset) // 7 + 5 transitively
}

func TestWrapUpReversesRTL(t *testing.T) {
	a := newTestAlbum(t, []rune("abc"), RightToLeft)
	a.WrapUp(false)
	out := a.Finalize()
	require.Equal(t, []font.GlyphID{'c', 'b', 'a'}, out.Glyphs)
}

func TestWrapUpBackwardCancelsRTL(t *testing.T) {
	a := newTestAlbum(t, []rune("abc"), RightToLeft)
	a.WrapUp(true) // RTL reversal + backward reversal cancel out
	out := a.Finalize()
	require.Equal(t, []font.GlyphID{'a', 'b', 'c'}, out.Glyphs)
}

func TestWrapUpCompactsRemoved(t *testing.T) {
	a := newTestAlbum(t, []rune("abc"), LeftToRight)
	a.RemoveAt(1)
	a.WrapUp(false)
	require.Equal(t, 2, a.Len())
}
