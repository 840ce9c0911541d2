package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

func coverageOf(t *testing.T, glyphs ...font.GlyphID) *font.Coverage {
	t.Helper()
	data := []byte{0x00, 0x01, 0x00, byte(len(glyphs))}
	for _, g := range glyphs {
		data = append(data, byte(g>>8), byte(g))
	}
	cov, err := font.ParseCoverage(data, 0)
	require.NoError(t, err)
	return cov
}

func TestGSUBSingleSubst(t *testing.T) {
	a := newTestAlbum(t, []rune{'a'}, LeftToRight)
	a.SetMask(0, maskAlwaysOn)

	sub := font.SingleSubst{Format: 2, Coverage: coverageOf(t, font.GlyphID('a')), Substitutes: []font.GlyphID{999}}
	lookup := &font.Lookup{Type: font.GSUBSingle, MarkFilteringSet: -1, GSUBSubtables: []font.GSUBSubtable{sub}}
	r := &gsubRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, font.GlyphID(999), a.Slot(0).Glyph)
}

func TestGSUBLigatureSubst(t *testing.T) {
	a := newTestAlbum(t, []rune{'f', 'f', 'i'}, LeftToRight)
	for i := 0; i < 3; i++ {
		a.SetMask(i, maskAlwaysOn)
	}

	lig := font.LigatureSubst{
		Coverage: coverageOf(t, font.GlyphID('f')),
		LigatureSets: [][]font.Ligature{
			{{Glyph: 777, Components: []font.GlyphID{'f', 'i'}}},
		},
	}
	lookup := &font.Lookup{Type: font.GSUBLigature, MarkFilteringSet: -1, GSUBSubtables: []font.GSUBSubtable{lig}}
	r := &gsubRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, 3, a.Len()) // still addressable until WrapUp compacts
	require.Equal(t, font.GlyphID(777), a.Slot(0).Glyph)
	require.True(t, a.Slot(1).Traits&TraitRemoved != 0)
	require.True(t, a.Slot(2).Traits&TraitRemoved != 0)

	out := a.Finalize()
	require.Equal(t, []font.GlyphID{777}, out.Glyphs)
}

func TestGSUBMultipleSubstExpands(t *testing.T) {
	a := newTestAlbum(t, []rune{'x'}, LeftToRight)
	a.SetMask(0, maskAlwaysOn)

	mult := font.MultipleSubst{
		Coverage:  coverageOf(t, font.GlyphID('x')),
		Sequences: [][]font.GlyphID{{10, 20}},
	}
	lookup := &font.Lookup{Type: font.GSUBMultiple, MarkFilteringSet: -1, GSUBSubtables: []font.GSUBSubtable{mult}}
	r := &gsubRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, 2, a.Len())
	require.Equal(t, font.GlyphID(10), a.Slot(0).Glyph)
	require.Equal(t, font.GlyphID(20), a.Slot(1).Glyph)
}

func TestGSUBFeatureMaskGating(t *testing.T) {
	a := newTestAlbum(t, []rune{'a'}, LeftToRight)
	a.SetMask(0, maskIsol) // not maskFina

	sub := font.SingleSubst{Format: 2, Coverage: coverageOf(t, font.GlyphID('a')), Substitutes: []font.GlyphID{999}}
	lookup := &font.Lookup{Type: font.GSUBSingle, MarkFilteringSet: -1, GSUBSubtables: []font.GSUBSubtable{sub}}
	r := &gsubRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskFina))
	require.Equal(t, font.GlyphID('a'), a.Slot(0).Glyph) // unchanged: mask didn't match
}
