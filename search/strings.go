package search

import "strings"

// Where says where within a string a pattern has to sit.
type Where int

const (
	Any Where = iota
	Start
	End
	Exact
)

// StringOptions controls Strings, StringIndexes and StringMask.
type StringOptions struct {
	Or            bool //any pattern suffices instead of all of them
	CaseSensitive bool
	Where         Where
	Exclude       []string //items containing any of these are dropped, after matching
}

// Strings returns the items matching the patterns.
func Strings(items, patterns []string, o StringOptions) ([]string, error) {
	mask, err := StringMask(items, patterns, o)
	if err != nil {
		return nil, errDecorate(err, "Strings")
	}
	var out []string
	for i, keep := range mask {
		if keep {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// StringIndexes returns the indexes of the matching items.
func StringIndexes(items, patterns []string, o StringOptions) ([]int, error) {
	mask, err := StringMask(items, patterns, o)
	if err != nil {
		return nil, errDecorate(err, "StringIndexes")
	}
	var out []int
	for i, keep := range mask {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// StringMask returns one boolean per item.
func StringMask(items, patterns []string, o StringOptions) ([]bool, error) {
	fold := func(s string) string { return strings.ToLower(s) }
	if o.CaseSensitive {
		fold = func(s string) string { return s }
	}
	pats := make([]string, len(patterns))
	for i, p := range patterns {
		pats[i] = fold(p)
	}
	excl := make([]string, len(o.Exclude))
	for i, e := range o.Exclude {
		excl[i] = fold(e)
	}
	mask := make([]bool, len(items))
	for i, raw := range items {
		it := fold(raw)
		keep := !o.Or
		for _, p := range pats {
			m, err := matchWhere(it, p, o.Where)
			if err != nil {
				return nil, errDecorate(err, "StringMask")
			}
			if o.Or {
				keep = keep || m
			} else {
				keep = keep && m
			}
		}
		for _, e := range excl {
			if strings.Contains(it, e) {
				keep = false
			}
		}
		mask[i] = keep
	}
	return mask, nil
}

func matchWhere(item, pat string, w Where) (bool, error) {
	switch w {
	case Any:
		return strings.Contains(item, pat), nil
	case Start:
		return strings.HasPrefix(item, pat), nil
	case End:
		return strings.HasSuffix(item, pat), nil
	case Exact:
		return item == pat, nil
	}
	return false, Error{message: UnknownWhere, deco: nil}
}

// ClosestMatch picks candidates for a hand-typed query: the exact matches if
// any exist (ignoring case), otherwise the candidates starting with the
// query, otherwise nothing.
func ClosestMatch(candidates []string, query string) []string {
	if len(candidates) == 0 || query == "" {
		return nil
	}
	q := strings.ToLower(query)
	var exact, prefix []string
	for _, c := range candidates {
		cl := strings.ToLower(c)
		if cl == q {
			exact = append(exact, c)
		} else if strings.HasPrefix(cl, q) {
			prefix = append(prefix, c)
		}
	}
	if exact != nil {
		return exact
	}
	return prefix
}
