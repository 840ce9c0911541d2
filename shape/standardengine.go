package shape

import "github.com/complexscript/shaping/font"

// Engine is the per-script pre-pass capability: it tags every Album
// slot's feature mask before the generic TextProcessor drives GSUB/GPOS
// — spec.md §9's "UnifiedEngine" re-expressed as an interface rather
// than a tagged union.
type Engine interface {
	Preprocess(album *Album)
}

// StandardEngine is the no-op pre-pass for simple left-to-right
// scripts (Armenian, Cyrillic, Georgian, Greek, Latin, Ogham, Runic):
// every slot simply gets the always-on feature bit, since none of
// standardFeatures are joining-selective — component 6.
type StandardEngine struct{}

func (StandardEngine) Preprocess(album *Album) {
	for i := 0; i < album.Len(); i++ {
		album.SetMask(i, maskAlwaysOn)
	}
}

// EngineFor returns the shaping engine appropriate for a script tag:
// table lookup per spec.md §9, StandardEngine for everything but Arabic.
func EngineFor(scriptTag font.Tag) Engine {
	if scriptTag == font.ScriptArabic {
		return ArabicEngine{}
	}
	return StandardEngine{}
}
