package columns

import (
	"fmt"
	"sort"
	"strings"
)

// Step returns every step-th label from first to last inclusive.
func Step(first, last string, step int) ([]string, error) {
	lo, err := IndexOf(first)
	if err != nil {
		return nil, err
	}
	hi, err := IndexOf(last)
	if err != nil {
		return nil, err
	}
	if step < 1 {
		step = 1
	}
	var out []string
	for i := lo; i <= hi; i += step {
		out = append(out, LabelOf(i))
	}
	return out, nil
}

type preset struct {
	first, last string
	step        int
}

// Named column sets used by the daily sheets: "star" holds the even
// degree columns AQ..BK, "star-odd" the odd ones AP..BJ and "degree" the
// full U..BK span.
var presets = map[string]preset{
	"star":     {"AQ", "BK", 2},
	"star-odd": {"AP", "BJ", 2},
	"degree":   {"U", "BK", 2},
}

// PresetNames lists the known preset names in sorted order.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Preset returns the labels of a named preset.
func Preset(name string) ([]string, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown column preset %q (known: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return Step(p.first, p.last, p.step)
}

// ParseList splits a comma separated label list ("AQ, AS,AU") or, when the
// value names a preset, expands it.
func ParseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if _, ok := presets[strings.ToLower(s)]; ok {
		return Preset(s)
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		p := Normalize(part)
		if p == "" {
			continue
		}
		if _, err := IndexOf(p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
