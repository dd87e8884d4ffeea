package chapters

import (
	"strconv"
	"strings"
)

// Filter picks chapters by label (falling back to a 1-based position), by
// an inclusive position range "a-b", or by a comma separated position list.
// With no criteria every chapter is returned.
func Filter(all []Chapter, chapter, rng, list string) []Chapter {
	switch {
	case chapter != "":
		if byLabel := FilterChaptersByLabel(all, chapter); len(byLabel) > 0 {
			return byLabel
		}
		if c, ok := at(all, chapter); ok {
			return []Chapter{c}
		}
		return []Chapter{}
	case rng != "":
		return FilterChapterRange(all, rng)
	case list != "":
		return FilterChapterList(all, list)
	default:
		return all
	}
}

func FilterChaptersByLabel(all []Chapter, label string) []Chapter {
	label = strings.TrimSpace(label)

	var out []Chapter
	for _, ch := range all {
		if ch.Label == label {
			out = append(out, ch)
		}
	}
	return out
}

// FilterChapterRange returns nil for malformed or out of bounds ranges.
func FilterChapterRange(all []Chapter, rng string) []Chapter {
	from, to, ok := strings.Cut(rng, "-")
	if !ok {
		return nil
	}

	start, err1 := atoi(from)
	end, err2 := atoi(to)
	if err1 != nil || err2 != nil {
		return nil
	}
	if start <= 0 || start > end || end > len(all) {
		return nil
	}

	return all[start-1 : end]
}

// FilterChapterList ignores entries that are not valid positions.
func FilterChapterList(all []Chapter, list string) []Chapter {
	out := []Chapter{}
	for _, n := range strings.Split(list, ",") {
		if c, ok := at(all, n); ok {
			out = append(out, c)
		}
	}
	return out
}

func at(all []Chapter, pos string) (Chapter, bool) {
	idx, err := atoi(pos)
	if err != nil || idx <= 0 || idx > len(all) {
		return Chapter{}, false
	}
	return all[idx-1], true
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
