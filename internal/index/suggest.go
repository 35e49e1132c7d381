package index

import "sort"

// AppNameSuggestions returns the distinct app names currently indexed,
// sorted alphabetically.
func (idx *Index) AppNameSuggestions() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return sortedKeys(idx.appNames)
}

// ProjectSuggestions returns the distinct project names currently indexed,
// sorted alphabetically.
func (idx *Index) ProjectSuggestions() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return sortedKeys(idx.projectNames)
}

// WindowTitleSuggestions returns a bounded sample of indexed window titles.
func (idx *Index) WindowTitleSuggestions() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	titles := make([]string, len(idx.titleSample))
	copy(titles, idx.titleSample)
	return titles
}

// CommonTerms returns the n most frequent indexed terms, most frequent
// first. Ties break alphabetically so the ordering is stable.
func (idx *Index) CommonTerms(n int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	terms := make([]string, 0, len(idx.termFreq))
	for term := range idx.termFreq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		fi, fj := idx.termFreq[terms[i]], idx.termFreq[terms[j]]
		if fi != fj {
			return fi > fj
		}
		return terms[i] < terms[j]
	})
	if n > 0 && len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
