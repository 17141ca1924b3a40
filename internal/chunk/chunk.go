// Package chunk splits raw document text into overlapping, length-bounded
// segments used as the unit of retrieval and similarity comparison.
package chunk

import "strings"

const (
	// DefaultMaxWords is the word budget per chunk, sized to leave headroom
	// under a 512-token embedding model context.
	DefaultMaxWords = 450
	// DefaultOverlapWords is the nominal overlap between adjacent chunks.
	DefaultOverlapWords = 100
)

// Splitter produces overlapping sentence-aligned chunks from document text.
//
// The overlap is approximated by carrying the last OverlapWords/20 sentences
// of a finished chunk into the next one. This under- or over-shoots the
// nominal word overlap depending on sentence length; it is kept as-is for
// output compatibility with previously ingested corpora.
type Splitter struct {
	MaxWords     int
	OverlapWords int
}

// NewSplitter creates a Splitter with the given limits. Non-positive maxWords
// or negative overlapWords fall back to the defaults.
func NewSplitter(maxWords, overlapWords int) *Splitter {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if overlapWords < 0 {
		overlapWords = DefaultOverlapWords
	}
	return &Splitter{MaxWords: maxWords, OverlapWords: overlapWords}
}

// Split breaks text into ordered chunks. Sentences are accumulated until
// adding the next one would exceed MaxWords; the finished chunk is emitted
// and the next chunk is seeded with the trailing overlap sentences. A single
// sentence longer than MaxWords is still emitted as its own chunk. No chunk
// is ever empty.
func (s *Splitter) Split(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, sentence := range sentences {
		sentenceLen := len(strings.Fields(sentence))

		if currentLen+sentenceLen <= s.MaxWords {
			current = append(current, sentence)
			currentLen += sentenceLen
			continue
		}

		if len(current) > 0 {
			chunks = append(chunks, joinSentences(current))
		}

		if s.OverlapWords > 0 && len(current) > 0 {
			seed := overlapSeed(current, s.OverlapWords/20)
			current = append([]string(nil), seed...)
			currentLen = 0
			for _, sent := range current {
				currentLen += len(strings.Fields(sent))
			}
		} else {
			current = nil
			currentLen = 0
		}

		current = append(current, sentence)
		currentLen += sentenceLen
	}

	if len(current) > 0 {
		chunks = append(chunks, joinSentences(current))
	}

	return chunks
}

// overlapSeed returns the trailing n sentences. n of zero or n beyond the
// slice length yields the whole slice, mirroring the original behavior.
func overlapSeed(sentences []string, n int) []string {
	if n <= 0 || n >= len(sentences) {
		return sentences
	}
	return sentences[len(sentences)-n:]
}

func joinSentences(sentences []string) string {
	return strings.Join(sentences, ". ") + "."
}

// splitSentences splits text on sentence terminators and drops empty parts.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
