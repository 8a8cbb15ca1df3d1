// Package encoder maps country names to the integer codes the regression model
// was trained on.
//
// The vocabulary is closed: it is fixed when the encoder is built and never
// changes afterwards, so an *LabelEncoder can be shared by any number of
// goroutines without locking.
package encoder

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnknownCategory is returned when a name is not part of the vocabulary.
var ErrUnknownCategory = errors.New("unknown category")

// LabelEncoder assigns each class its position in the class list.
type LabelEncoder struct {
	classes []string
	index   map[string]int
	// folded maps canonical forms to codes. It only feeds NearMatch.
	folded map[string]int
}

// FromClasses builds an encoder from an already ordered class list, as stored
// in a trained bundle. Code i is assigned to classes[i]; classes are kept
// byte for byte.
func FromClasses(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder vocabulary is empty")
	}
	e := &LabelEncoder{
		classes: make([]string, len(classes)),
		index:   make(map[string]int, len(classes)),
		folded:  make(map[string]int, len(classes)),
	}
	for i, c := range classes {
		if c == "" {
			return nil, fmt.Errorf("encoder class %d is empty", i)
		}
		if prev, dup := e.index[c]; dup {
			return nil, fmt.Errorf("encoder classes %d and %d are both %q", prev, i, c)
		}
		e.classes[i] = c
		e.index[c] = i
		if _, seen := e.folded[canonical(c)]; !seen {
			e.folded[canonical(c)] = i
		}
	}
	return e, nil
}

// Encode returns the code for name. Only exact members of the vocabulary are
// accepted: no trimming, case folding or Unicode normalization.
func (e *LabelEncoder) Encode(name string) (int, error) {
	code, ok := e.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return code, nil
}

// Contains reports whether name is part of the vocabulary.
func (e *LabelEncoder) Contains(name string) bool {
	_, ok := e.index[name]
	return ok
}

// NearMatch returns the class that name would equal after trimming and NFC
// normalization. Encode still rejects name; this is for explaining drift
// between a reference dataset and the vocabulary.
func (e *LabelEncoder) NearMatch(name string) (string, bool) {
	code, ok := e.folded[canonical(name)]
	if !ok {
		return "", false
	}
	return e.classes[code], true
}

// Classes returns a copy of the vocabulary in code order.
func (e *LabelEncoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

// Len is the vocabulary size.
func (e *LabelEncoder) Len() int { return len(e.classes) }

func canonical(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}
