package token

import "slices"

// Stream is the mutable, index-addressed token list a render owns.
// Structural edits shift later indices; callers re-derive positions
// after every Insert, Remove or Splice.
type Stream struct {
	toks []*Token
}

// NewStream wraps toks. The slice is owned by the stream afterwards.
func NewStream(toks []*Token) *Stream {
	return &Stream{toks: toks}
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.toks) }

// At returns the token at i, or nil when i is out of range.
func (s *Stream) At(i int) *Token {
	if i < 0 || i >= len(s.toks) {
		return nil
	}
	return s.toks[i]
}

// Tokens returns the underlying slice.
func (s *Stream) Tokens() []*Token { return s.toks }

// Append adds tokens at the end.
func (s *Stream) Append(toks ...*Token) {
	s.toks = append(s.toks, toks...)
}

// Insert places toks before index i. i == Len appends.
func (s *Stream) Insert(i int, toks ...*Token) {
	i = s.clamp(i)
	s.toks = slices.Insert(s.toks, i, toks...)
}

// Remove deletes n tokens starting at i.
func (s *Stream) Remove(i, n int) {
	s.Splice(i, n)
}

// Splice deletes n tokens at i and inserts toks in their place.
func (s *Stream) Splice(i, n int, toks ...*Token) {
	i = s.clamp(i)
	end := min(i+max(n, 0), len(s.toks))
	s.toks = slices.Replace(s.toks, i, end, toks...)
}

// Replace swaps the token at i.
func (s *Stream) Replace(i int, tok *Token) {
	if i >= 0 && i < len(s.toks) {
		s.toks[i] = tok
	}
}

// MatchingClose returns the index of the token closing the open token at
// i, pairing by nesting depth. It returns -1 when i is not an open token
// or the pair is not closed.
func (s *Stream) MatchingClose(i int) int {
	open := s.At(i)
	if open == nil || !open.IsOpen() {
		return -1
	}
	depth := 0
	for j := i; j < len(s.toks); j++ {
		depth += s.toks[j].Nesting
		if depth == 0 {
			return j
		}
	}
	return -1
}

// EachInline calls fn for every inline token in the stream.
func (s *Stream) EachInline(fn func(i int, tok *Token)) {
	for i, tok := range s.toks {
		if tok.Type == Inline {
			fn(i, tok)
		}
	}
}

func (s *Stream) clamp(i int) int {
	return max(0, min(i, len(s.toks)))
}
