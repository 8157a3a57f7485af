package compare

import "sort"

// Reconcile returns the names present in oldNames but absent from newNames,
// sorted. It returns nil, not an empty slice, when nothing is missing so that
// callers can report the absence explicitly.
func Reconcile(oldNames, newNames []string) []string {
	present := make(map[string]struct{}, len(newNames))
	for _, name := range newNames {
		present[name] = struct{}{}
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, name := range oldNames {
		if _, ok := present[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}

	sort.Strings(missing)
	return missing
}
