package core

import "strconv"

// DisambiguateMethodIDs turns operation names into identifiers that are unique
// within one double. Names that occur once are used as-is. Every occurrence of a
// repeated name gets its positional index among those occurrences as a suffix,
// so two "Save" operations become "Save_0" and "Save_1".
func DisambiguateMethodIDs(names []string) []MethodID {
	total := make(map[string]int, len(names))
	for _, name := range names {
		total[name]++
	}

	seen := make(map[string]int, len(names))
	ids := make([]MethodID, 0, len(names))

	for _, name := range names {
		if total[name] == 1 {
			ids = append(ids, MethodID(name))

			continue
		}

		ids = append(ids, MethodID(name+"_"+strconv.Itoa(seen[name])))
		seen[name]++
	}

	return ids
}
