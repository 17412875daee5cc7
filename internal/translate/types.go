package translate

// WordPair is one token of a translation: the translated word, its romanized
// transliteration, and whether the entry is punctuation attached to a
// neighboring word so that naive space-joining still reads naturally.
type WordPair struct {
	Word        string `json:"word"`
	Literal     string `json:"literal"`
	Punctuation bool   `json:"punctuation,omitempty"`
}

type Definition struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}
