package key

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
	"go.uber.org/zap"
)

// Parse errors. They are reported through the parser's logger; the
// Split functions themselves only ever return an empty result.
var (
	ErrEmptyPattern       = errors.New("empty hotkey pattern")
	ErrBareSeparator      = errors.New("separator without keys")
	ErrLeadingSeparator   = errors.New("leading separator")
	ErrTrailingSeparator  = errors.New("trailing separator")
	ErrAdjacentSeparators = errors.New("adjacent separators")
	ErrMissingSeparator   = errors.New("literal separator followed by a key")
	ErrInvalidHyphen      = errors.New("hyphen inside a multi-character key")
	ErrInvalidCombination = errors.New("invalid combination in sequence")
)

// Parts is a combination split into its keys.
// Separators[i] is the separator that preceded Keys[i]; it is empty for the
// first key.
type Parts struct {
	Keys       []string
	Separators []string
}

// IsEmpty returns true if no keys were parsed.
func (p Parts) IsEmpty() bool {
	return len(p.Keys) == 0
}

// isCombinationSeparator reports whether r joins keys pressed together.
func isCombinationSeparator(r rune) bool {
	return r == '+' || r == '/' || r == '_'
}

// isSeparator reports whether r is any pattern separator.
func isSeparator(r rune) bool {
	return isCombinationSeparator(r) || r == '-'
}

// Parser splits hotkey patterns and logs malformed ones.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a parser that reports malformed patterns to logger.
// A nil logger discards warnings.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// SplitCombination splits a single combination such as "ctrl+shift+k".
// Malformed input yields empty Parts and a warning.
func (p *Parser) SplitCombination(text string) Parts {
	parts, err := splitCombination(text)
	if err != nil {
		p.logger.Warn("invalid hotkey combination",
			zap.String("combination", text),
			zap.Error(err),
		)
		return Parts{}
	}
	return parts
}

// SplitSequence splits a pattern into its ordered combination groups,
// e.g. "ctrl+k-ctrl+s" into ["ctrl+k", "ctrl+s"]. Malformed input yields
// nil and exactly one warning.
func (p *Parser) SplitSequence(text string) []string {
	groups, err := splitSequence(text)
	if err != nil {
		p.logger.Warn("invalid hotkey sequence",
			zap.String("pattern", text),
			zap.Error(err),
		)
		return nil
	}
	return groups
}

// SplitCombination splits a combination using the global zap logger.
func SplitCombination(text string) Parts {
	return NewParser(zap.L()).SplitCombination(text)
}

// SplitSequence splits a pattern using the global zap logger.
func SplitSequence(text string) []string {
	return NewParser(zap.L()).SplitSequence(text)
}

// ValidateCombination returns the reason text is not a valid combination,
// or nil. It never logs.
func ValidateCombination(text string) error {
	_, err := splitCombination(text)
	return err
}

// ValidateSequence returns the groups of text, or the reason it is invalid.
// It never logs.
func ValidateSequence(text string) ([]string, error) {
	return splitSequence(text)
}

type tokenKind uint8

const (
	tokenNone tokenKind = iota
	tokenKey
	tokenSeparator
)

// combinationScanner accumulates keys left to right.
type combinationScanner struct {
	parts   Parts
	buf     strings.Builder
	last    tokenKind
	pending string
}

func (s *combinationScanner) flush() error {
	if s.buf.Len() == 0 {
		return nil
	}
	raw := s.buf.String()
	s.buf.Reset()
	if s.last == tokenKey {
		return fmt.Errorf("%w: %q", ErrMissingSeparator, raw)
	}
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		raw = trimmed
	}
	if strings.ContainsRune(raw, '-') && uniseg.GraphemeClusterCount(raw) > 1 {
		return fmt.Errorf("%w: %q", ErrInvalidHyphen, raw)
	}
	s.emitKey(NormalizeKey(raw))
	return nil
}

func (s *combinationScanner) emitKey(k string) {
	s.parts.Keys = append(s.parts.Keys, k)
	s.parts.Separators = append(s.parts.Separators, s.pending)
	s.pending = ""
	s.last = tokenKey
}

func (s *combinationScanner) emitSeparator(r rune) error {
	switch s.last {
	case tokenNone:
		return ErrLeadingSeparator
	case tokenSeparator:
		return ErrAdjacentSeparators
	}
	s.pending = string(r)
	s.last = tokenSeparator
	return nil
}

func splitCombination(text string) (Parts, error) {
	if text == "" {
		return Parts{}, ErrEmptyPattern
	}
	rs := []rune(text)
	if len(rs) == 1 && isCombinationSeparator(rs[0]) {
		return Parts{}, ErrBareSeparator
	}

	var s combinationScanner
	for i := 0; i < len(rs); {
		r := rs[i]
		if !isCombinationSeparator(r) {
			s.buf.WriteRune(r)
			i++
			continue
		}

		keyPending := s.buf.Len() > 0 || s.last == tokenKey
		if err := s.flush(); err != nil {
			return Parts{}, err
		}

		doubled := i+1 < len(rs) && rs[i+1] == r
		switch {
		case doubled && keyPending:
			// "ctrl++": the first acts as separator, the second is the key.
			if err := s.emitSeparator(r); err != nil {
				return Parts{}, err
			}
			s.emitKey(string(r))
			i += 2
		case doubled:
			// "++" at the start or right after a separator is the literal.
			s.emitKey(string(r))
			i += 2
		default:
			if err := s.emitSeparator(r); err != nil {
				return Parts{}, err
			}
			i++
		}
	}

	if err := s.flush(); err != nil {
		return Parts{}, err
	}
	if s.last == tokenSeparator {
		return Parts{}, ErrTrailingSeparator
	}
	if len(s.parts.Keys) == 0 {
		return Parts{}, ErrEmptyPattern
	}
	return s.parts, nil
}

// literalHyphen reports whether the '-' at rs[i] follows a "modifier+"
// shape and therefore belongs to the current combination.
func literalHyphen(rs []rune, i int) bool {
	if i < 1 {
		return false
	}
	prev := rs[i-1]
	if prev != '+' && prev != '_' {
		return false
	}
	return i < 2 || !isSeparator(rs[i-2])
}

func splitSequence(text string) ([]string, error) {
	if text == "" {
		return nil, ErrEmptyPattern
	}

	rs := []rune(text)
	var (
		groups []string
		buf    []rune
	)
	for i := 0; i < len(rs); {
		r := rs[i]
		if r != '-' {
			buf = append(buf, r)
			i++
			continue
		}
		if literalHyphen(rs, i) {
			buf = append(buf, r)
			i++
			continue
		}

		j := i
		for j < len(rs) && rs[j] == '-' {
			j++
		}
		// Every second hyphen in a run is dropped.
		effective := (j - i + 1) / 2
		for k := 0; k < effective; k++ {
			if len(buf) > 0 {
				groups = append(groups, string(buf))
				buf = buf[:0]
				continue
			}
			// At a group boundary a hyphen is the key itself.
			buf = append(buf, '-')
		}
		i = j
	}

	if len(buf) == 0 {
		if len(groups) > 0 {
			return nil, ErrTrailingSeparator
		}
		return nil, ErrEmptyPattern
	}
	groups = append(groups, string(buf))

	for _, g := range groups {
		if _, err := splitCombination(g); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidCombination, g, err)
		}
	}
	return groups, nil
}
