package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

func TestGPOSSinglePos(t *testing.T) {
	a := newTestAlbum(t, []rune{'a'}, LeftToRight)
	a.SetMask(0, maskAlwaysOn)

	sp := font.SinglePos{
		Format:   1,
		Coverage: coverageOf(t, font.GlyphID('a')),
		Value:    font.ValueRecord{XPlacement: 10, YPlacement: 20, XAdvance: 5},
	}
	lookup := &font.Lookup{Type: font.GPOSSingle, MarkFilteringSet: -1, GPOSSubtables: []font.GPOSSubtable{sp}}
	r := &gposRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, int32(10), a.Slot(0).XOffset)
	require.Equal(t, int32(20), a.Slot(0).YOffset)
	require.Equal(t, int32(5), a.Slot(0).XAdvance)
}

func TestGPOSPairPosFormat1(t *testing.T) {
	a := newTestAlbum(t, []rune{'a', 'v'}, LeftToRight)
	a.SetMask(0, maskAlwaysOn)
	a.SetMask(1, maskAlwaysOn)

	pp := font.PairPos{
		Format:   1,
		Coverage: coverageOf(t, font.GlyphID('a')),
		PairSets: [][]font.PairRecord{
			{{SecondGlyph: font.GlyphID('v'), First: font.ValueRecord{XAdvance: -30}}},
		},
	}
	lookup := &font.Lookup{Type: font.GPOSPair, MarkFilteringSet: -1, GPOSSubtables: []font.GPOSSubtable{pp}}
	r := &gposRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, int32(-30), a.Slot(0).XAdvance)
	require.Equal(t, int32(0), a.Slot(1).XAdvance)
}

func TestGPOSCursivePosLinksChain(t *testing.T) {
	a := newTestAlbum(t, []rune{'a', 'b'}, LeftToRight)
	a.SetMask(0, maskAlwaysOn)
	a.SetMask(1, maskAlwaysOn)

	cov := coverageOf(t, font.GlyphID('a'), font.GlyphID('b'))
	cp := font.CursivePos{
		Coverage: cov,
		Entry:    []*font.Anchor{{X: 0, Y: 0}, {X: 0, Y: 0}},
		Exit:     []*font.Anchor{{X: 0, Y: 3}, nil},
	}
	lookup := &font.Lookup{Type: font.GPOSCursive, MarkFilteringSet: -1, GPOSSubtables: []font.GPOSSubtable{cp}}
	r := &gposRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, 0, a.Slot(1).CursiveOffset)
	require.Equal(t, int32(3), a.Slot(1).YOffset)
}

func TestGPOSMarkBasePosLinksAttachment(t *testing.T) {
	a := newTestAlbum(t, []rune{'a'}, LeftToRight)
	a.Add(font.GlyphID(fatha), TraitMark, 0)
	a.SetMask(0, maskAlwaysOn)
	a.SetMask(1, maskAlwaysOn)

	mb := font.MarkBasePos{
		MarkCoverage: coverageOf(t, font.GlyphID(fatha)),
		BaseCoverage: coverageOf(t, font.GlyphID('a')),
		MarkArray:    []font.MarkRecord{{Class: 0, Anchor: font.Anchor{X: 0, Y: 0}}},
		BaseArray:    []font.BaseAnchors{{&font.Anchor{X: 0, Y: 15}}},
	}
	lookup := &font.Lookup{Type: font.GPOSMarkToBase, MarkFilteringSet: -1, GPOSSubtables: []font.GPOSSubtable{mb}}
	r := &gposRunner{album: a, lookups: []*font.Lookup{lookup}}

	require.NoError(t, r.executeLookup(0, maskAlwaysOn))
	require.Equal(t, 0, a.Slot(1).AttachmentOffset)
	require.Equal(t, int32(15), a.Slot(1).YOffset)
}
