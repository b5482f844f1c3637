package term

// Fold returns l as a Proplist when every element is a 2-tuple whose first
// element is an Atom and no atom repeats. Otherwise l is returned as is.
func Fold(l List) Term {
	if len(l) == 0 {
		return l
	}
	props := make(Proplist, 0, len(l))
	seen := make(map[Atom]struct{}, len(l))
	for _, e := range l {
		k, v, ok := pair(e)
		if !ok {
			return l
		}
		if _, dup := seen[k]; dup {
			return l
		}
		seen[k] = struct{}{}
		props = append(props, Prop{Key: string(k), Value: v})
	}
	return props
}

// pair reports whether t is {Atom, Value}.
func pair(t Term) (Atom, Term, bool) {
	tup, ok := t.(Tuple)
	if !ok || len(tup) != 2 {
		return "", nil, false
	}
	k, ok := tup[0].(Atom)
	if !ok {
		return "", nil, false
	}
	return k, tup[1], true
}
