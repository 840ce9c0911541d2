package shape

import "github.com/complexscript/shaping/font"

// TextProcessor drives a single shaping call end to end — component 8
// of the pipeline: glyph discovery, the per-script Engine's
// preprocessing, the GSUB pass, the GPOS pass, and WrapUp (spec.md
// §4.3's processUnicode/processGlyphs sequence, collapsed into one
// path since this package only shapes from codepoints).
type TextProcessor struct {
	font     *font.Font
	album    *Album
	gdef     *font.GDEF
	pattern  *Pattern
	engine   Engine
	backward bool
}

// NewTextProcessor prepares a processor for one shaping call. backward
// selects the textMode=Backward configuration (spec.md §9).
func NewTextProcessor(f *font.Font, album *Album, pattern *Pattern, backward bool) (*TextProcessor, error) {
	gdef, err := f.GDEF()
	if err != nil {
		return nil, err
	}
	return &TextProcessor{
		font:     f,
		album:    album,
		gdef:     gdef,
		pattern:  pattern,
		engine:   EngineFor(pattern.ScriptTag),
		backward: backward,
	}, nil
}

// Process runs the full pipeline against codepoints[start:start+count]
// and returns the Album after WrapUp, ready for Finalize. Callers that
// only need the glyph run can call Album.Finalize() themselves.
func (tp *TextProcessor) Process(codepoints []rune, start, count int) (*Album, error) {
	if count == 0 {
		tp.album.Reset(codepoints, start, 0, tp.pattern.DefaultDirection)
		return tp.album, nil
	}
	tp.album.Reset(codepoints, start, count, tp.pattern.DefaultDirection)
	if err := tp.discoverGlyphs(codepoints, start, count); err != nil {
		return nil, err
	}
	tp.engine.Preprocess(tp.album)
	if err := tp.runGSUB(); err != nil {
		return nil, err
	}
	if err := tp.runGPOS(); err != nil {
		return nil, err
	}
	tp.album.WrapUp(tp.backward)
	return tp.album, nil
}

// discoverGlyphs maps each input codepoint to a glyph via Font.GlyphIndex
// and sets its initial trait from GDEF's glyph classification, defaulting
// to Base when GDEF is silent (spec.md §4.3).
func (tp *TextProcessor) discoverGlyphs(codepoints []rune, start, count int) error {
	for i := 0; i < count; i++ {
		cp := codepoints[start+i]
		gid, ok := tp.font.GlyphIndex(cp)
		if !ok {
			gid = 0 // .notdef
		}
		traits := traitsForGlyphClass(tp.gdef.GlyphClass(gid))
		idx := tp.album.Add(gid, traits, i)
		tp.album.SetAdvance(idx, tp.font.HorizontalAdvance(gid), 0)
		if tp.pattern.DefaultDirection == RightToLeft {
			tp.album.SetTrait(idx, TraitRightToLeft)
		}
		if !ok {
			tp.album.SetTrait(idx, TraitPlaceHolder)
		}
	}
	return nil
}

func traitsForGlyphClass(class int) Trait {
	switch class {
	case font.GlyphClassLigature:
		return TraitBase | TraitLigature
	case font.GlyphClassMark:
		return TraitMark
	case font.GlyphClassComponent:
		return TraitComponent
	default:
		return TraitBase
	}
}

// runGSUB applies every Substitution FeatureUnit's lookups, in pattern
// order (spec.md §4.3/§4.4).
func (tp *TextProcessor) runGSUB() error {
	gsub, err := tp.font.GSUB()
	if err != nil {
		return err
	}
	if gsub == nil {
		return nil
	}
	runner := &gsubRunner{album: tp.album, gdef: tp.gdef, lookups: gsub.Lookups}
	for _, unit := range tp.pattern.FeatureUnits {
		if unit.Kind != Substitution {
			continue
		}
		for _, lookupIndex := range unit.LookupIndices {
			if err := runner.executeLookup(int(lookupIndex), unit.Mask); err != nil {
				return err
			}
		}
	}
	return nil
}

// runGPOS applies every Positioning FeatureUnit's lookups, in pattern
// order.
func (tp *TextProcessor) runGPOS() error {
	gpos, err := tp.font.GPOS()
	if err != nil {
		return err
	}
	if gpos == nil {
		return nil
	}
	runner := &gposRunner{album: tp.album, gdef: tp.gdef, lookups: gpos.Lookups}
	for _, unit := range tp.pattern.FeatureUnits {
		if unit.Kind != Positioning {
			continue
		}
		for _, lookupIndex := range unit.LookupIndices {
			if err := runner.executeLookup(int(lookupIndex), unit.Mask); err != nil {
				return err
			}
		}
	}
	return nil
}
