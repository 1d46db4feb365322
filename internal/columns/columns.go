// Package columns converts spreadsheet column labels ("A", "AZ", "BK") to
// zero-based indices and back, and models the enumerated column sets the
// grouping engine combines over.
package columns

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrInvalidLabel is returned for labels containing anything other than ASCII letters.
	ErrInvalidLabel = errors.New("invalid column label")
	// ErrUnknownColumn is returned when a label is not part of an enumerated Set.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDuplicateColumn is returned when two labels of a Set map to the same index.
	ErrDuplicateColumn = errors.New("duplicate column index")
)

// Ref names a single column by label and zero-based index.
type Ref struct {
	Label string
	Index int
}

func (r Ref) String() string { return r.Label }

// Normalize upper-cases and trims a label.
func Normalize(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// MaxIndex is the index of the last worksheet column, XFD.
const MaxIndex = excelize.MaxColumns - 1

// IndexOf returns the zero-based index of a base-26 column label: A=0, Z=25,
// AA=26. Labels past XFD are rejected.
func IndexOf(label string) (int, error) {
	s := Normalize(label)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLabel)
	}
	idx := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
		idx = idx*26 + int(c-'A'+1)
		if idx > excelize.MaxColumns {
			return 0, fmt.Errorf("%w: %q is past column XFD", ErrInvalidLabel, label)
		}
	}
	return idx - 1, nil
}

// LabelOf is the inverse of IndexOf. Negative indices yield "".
func LabelOf(index int) string {
	if index < 0 {
		return ""
	}
	var buf []byte
	n := index + 1
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Next returns the label immediately to the right of label, carrying across
// letters: "AY" -> "AZ", "AZ" -> "BA", "ZZ" -> "AAA".
func Next(label string) (string, error) {
	s := Normalize(label)
	if _, err := IndexOf(s); err != nil {
		return "", err
	}
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 'Z' {
			b[i]++
			return string(b), nil
		}
		b[i] = 'A'
	}
	return "A" + string(b), nil
}

// Set is an enumerated, bijective label -> index mapping.
type Set struct {
	byLabel map[string]int
	refs    []Ref
}

// NewSet builds a Set from an explicit mapping. Labels are normalized; two
// labels sharing an index is an error.
func NewSet(m map[string]int) (*Set, error) {
	s := &Set{byLabel: make(map[string]int, len(m))}
	seen := make(map[int]string, len(m))
	for label, idx := range m {
		l := Normalize(label)
		if _, err := IndexOf(l); err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, fmt.Errorf("column %s: negative index %d", l, idx)
		}
		if prev, ok := seen[idx]; ok && prev != l {
			return nil, fmt.Errorf("%w: %s and %s both map to %d", ErrDuplicateColumn, prev, l, idx)
		}
		seen[idx] = l
		s.byLabel[l] = idx
	}
	for l, idx := range s.byLabel {
		s.refs = append(s.refs, Ref{Label: l, Index: idx})
	}
	sort.Slice(s.refs, func(i, j int) bool { return s.refs[i].Index < s.refs[j].Index })
	return s, nil
}

// SetFromLabels builds a Set whose indices follow from label arithmetic.
func SetFromLabels(labels []string) (*Set, error) {
	m := make(map[string]int, len(labels))
	for _, l := range labels {
		idx, err := IndexOf(l)
		if err != nil {
			return nil, err
		}
		m[Normalize(l)] = idx
	}
	return NewSet(m)
}

// Resolve returns the index of label within the set.
func (s *Set) Resolve(label string) (int, error) {
	idx, ok := s.byLabel[Normalize(label)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, label)
	}
	return idx, nil
}

// Refs returns the members ordered by index.
func (s *Set) Refs() []Ref {
	out := make([]Ref, len(s.refs))
	copy(out, s.refs)
	return out
}

// Labels returns member labels ordered by index.
func (s *Set) Labels() []string {
	out := make([]string, len(s.refs))
	for i, r := range s.refs {
		out[i] = r.Label
	}
	return out
}

// Len reports the number of members.
func (s *Set) Len() int { return len(s.refs) }
