package shape

import (
	"golang.org/x/text/language"

	"github.com/complexscript/shaping/font"
)

// Options configures a single Shape call.
type Options struct {
	Script   font.Tag
	Language language.Tag
	// Backward requests textMode=Backward: WrapUp reverses the glyph run
	// once more after any right-to-left reversal, so a right-to-left run
	// comes out in input order and a left-to-right run comes out reversed
	// (spec.md §9).
	Backward bool
	// Cache, if set, avoids recompiling the Pattern for repeat
	// (font, script, language) combinations.
	Cache *PatternCache
}

// Shape runs the complete pipeline over codepoints for f and returns the
// Album after WrapUp — the SFArtist-equivalent convenience entry point
// that composes Pattern construction, TextProcessor, and WrapUp into one
// call. Call Album.Finalize() on the result for the glyph run.
func Shape(f *font.Font, codepoints []rune, opts Options) (*Album, error) {
	scriptTag := opts.Script
	if scriptTag == 0 {
		scriptTag = font.ScriptDFLT
	}
	languageTag := ResolveLanguageTag(opts.Language)

	pattern, err := resolvePattern(f, scriptTag, languageTag, opts.Cache)
	if err != nil {
		return nil, err
	}

	album := NewAlbum()
	tp, err := NewTextProcessor(f, album, pattern, opts.Backward)
	if err != nil {
		return nil, err
	}
	return tp.Process(codepoints, 0, len(codepoints))
}

func resolvePattern(f *font.Font, scriptTag, languageTag font.Tag, cache *PatternCache) (*Pattern, error) {
	if cache != nil {
		if p, ok := cache.Get(f, scriptTag, languageTag); ok {
			return p, nil
		}
	}
	gsub, err := f.GSUB()
	if err != nil {
		return nil, err
	}
	gpos, err := f.GPOS()
	if err != nil {
		return nil, err
	}
	pattern, err := BuildPattern(gsub, gpos, scriptTag, languageTag)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Put(f, scriptTag, languageTag, pattern)
	}
	return pattern, nil
}
