// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package terms turns free-text user input into a bounded set of
// candidate medical search terms. It matches a curated vocabulary of
// symptom, condition, body-part, and medication words plus a small set of
// phrase patterns, then expands matches through a synonym table. The
// extractor has no knowledge of the upstream adapters.
package terms

import (
	"regexp"
	"strings"
)

// DefaultMaxTerms bounds the extracted term list for fan-out cost
// control.
const DefaultMaxTerms = 12

// phrasePatterns capture terms from common ways people phrase complaints
// ("pain in my lower back", "diagnosed with type 2 diabetes").
var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`pain in (?:my |the )?([a-z][a-z ]{1,30}?)(?:[.,;!?]|$| and | but | for )`),
	regexp.MustCompile(`diagnosed with ([a-z][a-z 0-9]{1,40}?)(?:[.,;!?]|$| and | but | last | in )`),
	regexp.MustCompile(`(?:taking|prescribed|started) ([a-z][a-z]{2,30})(?:[ .,;!?]|$)`),
	regexp.MustCompile(`allergic to ([a-z][a-z ]{1,30}?)(?:[.,;!?]|$| and )`),
	regexp.MustCompile(`(?:symptoms? of|signs of) ([a-z][a-z ]{1,40}?)(?:[.,;!?]|$| and )`),
}

// Extractor matches user text against a curated vocabulary.
type Extractor struct {
	vocab    Vocabulary
	maxTerms int

	// words maps every vocabulary entry (and its singular form) to its
	// canonical term, built once at construction.
	words map[string]string
	// phrases holds the multi-word vocabulary entries, longest first, so
	// "high blood pressure" wins over "blood pressure".
	phrases []string
}

// NewExtractor builds an Extractor over vocab. maxTerms values below 1
// fall back to DefaultMaxTerms.
func NewExtractor(vocab Vocabulary, maxTerms int) *Extractor {
	if maxTerms < 1 {
		maxTerms = DefaultMaxTerms
	}
	e := &Extractor{
		vocab:    vocab,
		maxTerms: maxTerms,
		words:    make(map[string]string),
	}
	for _, list := range [][]string{vocab.Symptoms, vocab.Conditions, vocab.BodyParts, vocab.Medications} {
		for _, term := range list {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if strings.Contains(term, " ") {
				e.phrases = append(e.phrases, term)
				continue
			}
			e.words[term] = term
			if s := singular(term); s != term {
				e.words[s] = term
			} else {
				e.words[term+"s"] = term
			}
		}
	}
	// Longest phrases first.
	for i := 1; i < len(e.phrases); i++ {
		for j := i; j > 0 && len(e.phrases[j]) > len(e.phrases[j-1]); j-- {
			e.phrases[j], e.phrases[j-1] = e.phrases[j-1], e.phrases[j]
		}
	}
	return e
}

// Extract returns the candidate search terms found in text, first-seen
// order, capped at the extractor's maximum. Empty or unrecognized input
// yields an empty list, never an error.
func (e *Extractor) Extract(text string) []string {
	lowered := strings.ToLower(text)
	if strings.TrimSpace(lowered) == "" {
		return []string{}
	}

	seen := make(map[string]bool)
	var out []string
	add := func(term string) {
		term = strings.TrimSpace(term)
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		out = append(out, term)
	}

	// Multi-word vocabulary phrases by substring match.
	for _, phrase := range e.phrases {
		if strings.Contains(lowered, phrase) {
			add(phrase)
		}
	}

	// Single vocabulary words by token match, with singular/plural folding.
	for _, tok := range tokenize(lowered) {
		if canonical, ok := e.words[tok]; ok {
			add(canonical)
		}
	}

	// Phrase patterns capture terms outside the vocabulary.
	for _, pat := range phrasePatterns {
		for _, m := range pat.FindAllStringSubmatch(lowered, -1) {
			add(strings.TrimSpace(m[1]))
		}
	}

	// Synonym expansion for everything matched so far.
	for _, term := range append([]string(nil), out...) {
		for _, syn := range e.vocab.Synonyms[term] {
			add(strings.ToLower(syn))
		}
	}

	if len(out) > e.maxTerms {
		out = out[:e.maxTerms]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// tokenize splits lowered text on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// singular strips a simple plural suffix. It is intentionally crude;
// vocabulary terms are common words where "-es"/"-s" covers the cases
// that matter ("headaches", "rashes", "cramps").
func singular(term string) string {
	switch {
	case strings.HasSuffix(term, "ses"), strings.HasSuffix(term, "xes"), strings.HasSuffix(term, "hes"):
		return term[:len(term)-2]
	case strings.HasSuffix(term, "s") && !strings.HasSuffix(term, "ss"):
		return term[:len(term)-1]
	}
	return term
}
