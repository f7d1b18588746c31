package tfidf

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// wordRunPattern is the RE2 form of DefaultTokenPattern. RE2's \w and \b are
// ASCII-only, so the unicode word class is spelled out. Combining marks are
// not word characters and end a token.
const wordRunPattern = `[\p{L}\p{N}_]{2,}`

func compileTokenPattern(pattern string) (*regexp.Regexp, error) {
	if pattern == DefaultTokenPattern || pattern == `\b\w\w+\b` {
		return regexp.MustCompile(wordRunPattern), nil
	}

	re, err := regexp.Compile(strings.TrimPrefix(pattern, "(?u)"))
	if err != nil {
		return nil, fmt.Errorf("invalid token_pattern %q: %w", pattern, err)
	}
	if re.NumSubexp() > 1 {
		return nil, fmt.Errorf("token_pattern %q has more than one capturing group", pattern)
	}
	return re, nil
}

// analyze runs preprocessing, tokenization, stop word removal and n-gram
// generation, in that order.
func (v *Vectorizer) analyze(text string) []string {
	return v.ngrams(v.tokenize(v.preprocess(text)))
}

func (v *Vectorizer) preprocess(text string) string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	switch v.stripAccents {
	case "unicode":
		text = stripAccentsUnicode(text)
	case "ascii":
		text = stripAccentsASCII(text)
	}
	return text
}

func (v *Vectorizer) tokenize(text string) []string {
	var tokens []string
	if v.tokenRe.NumSubexp() == 1 {
		for _, m := range v.tokenRe.FindAllStringSubmatch(text, -1) {
			tokens = append(tokens, m[1])
		}
	} else {
		tokens = v.tokenRe.FindAllString(text, -1)
	}

	if v.stopWords == nil {
		return tokens
	}
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, stop := v.stopWords[tok]; !stop {
			kept = append(kept, tok)
		}
	}
	return kept
}

func (v *Vectorizer) ngrams(tokens []string) []string {
	if v.ngramMax == 1 {
		return tokens
	}

	var out []string
	if v.ngramMin == 1 {
		out = append(out, tokens...)
	}
	start := max(v.ngramMin, 2)
	for n := start; n <= v.ngramMax && n <= len(tokens); n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// stripAccentsUnicode decomposes text and drops combining marks.
func stripAccentsUnicode(text string) string {
	decomposed := norm.NFKD.String(text)
	if decomposed == text && isASCII(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripAccentsASCII decomposes text and keeps only ASCII characters.
func stripAccentsASCII(text string) string {
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
