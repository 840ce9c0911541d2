package shape

import (
	"sync"

	"github.com/complexscript/shaping/font"
)

type patternCacheKey struct {
	font     *font.Font
	script   font.Tag
	language font.Tag
}

// PatternCache memoises BuildPattern results per (font, script,
// language), so repeat Shape calls over the same run of text — the
// common case for a text layout engine re-shaping paragraph by
// paragraph — skip recompiling the feature plan every time. It mirrors
// SheenFigure's SFPatternCache without needing SheenFigure's manual
// refcounting. Entries are never evicted: the cache holds one Pattern
// per distinct (font, script, language) key for as long as it lives.
type PatternCache struct {
	entries sync.Map // patternCacheKey -> *Pattern
}

// NewPatternCache returns an empty cache ready for concurrent use.
func NewPatternCache() *PatternCache {
	return &PatternCache{}
}

func (c *PatternCache) Get(f *font.Font, script, language font.Tag) (*Pattern, bool) {
	v, ok := c.entries.Load(patternCacheKey{f, script, language})
	if !ok {
		return nil, false
	}
	return v.(*Pattern), true
}

func (c *PatternCache) Put(f *font.Font, script, language font.Tag, p *Pattern) {
	c.entries.Store(patternCacheKey{f, script, language}, p)
}
