// Package index maintains in-memory inverted indexes over the record
// store's three record kinds. The index is rebuilt from a full snapshot
// at startup and mutated incrementally from the store's change feed; it
// is never persisted.
package index

import (
	"strings"
	"sync"
	"time"

	"github.com/0xkamalei/timetrace/internal/domain/activity"
	"github.com/0xkamalei/timetrace/internal/domain/project"
	"github.com/0xkamalei/timetrace/internal/domain/timeentry"
	"github.com/0xkamalei/timetrace/internal/token"
)

type idSet map[string]struct{}

type postings map[string]idSet

// Stats describes the current index contents.
type Stats struct {
	Activities  int       `json:"activities"`
	TimeEntries int       `json:"time_entries"`
	Projects    int       `json:"projects"`
	LastRebuild time.Time `json:"last_rebuild"`
}

// Index holds field-scoped postings maps plus suggestion metadata.
// All mutation is serialized behind a single writer lock so a query
// never observes a partially updated postings list.
type Index struct {
	mu sync.RWMutex

	// Activity field postings: term -> record ids.
	appName      postings
	windowTitle  postings
	url          postings
	documentPath postings

	// Time entry field postings.
	entryTitle postings
	entryNotes postings

	// Project field postings.
	projectName postings

	// Indexed id sets per record kind.
	activityIDs idSet
	entryIDs    idSet
	projectIDs  idSet

	// Suggestion metadata. Names are refcounted so removing the last
	// record carrying a name drops the suggestion. Side maps remember
	// each record's display name for that bookkeeping.
	appNames     map[string]int
	appByID      map[string]string
	projectNames map[string]int
	projNameByID map[string]string
	titleSample  []string
	termFreq     map[string]int

	lastRebuild time.Time
}

const titleSampleCap = 200

// New creates an empty index.
func New() *Index {
	idx := &Index{}
	idx.reset()
	return idx
}

func (idx *Index) reset() {
	idx.appName = postings{}
	idx.windowTitle = postings{}
	idx.url = postings{}
	idx.documentPath = postings{}
	idx.entryTitle = postings{}
	idx.entryNotes = postings{}
	idx.projectName = postings{}
	idx.activityIDs = idSet{}
	idx.entryIDs = idSet{}
	idx.projectIDs = idSet{}
	idx.appNames = map[string]int{}
	idx.appByID = map[string]string{}
	idx.projectNames = map[string]int{}
	idx.projNameByID = map[string]string{}
	idx.titleSample = nil
	idx.termFreq = map[string]int{}
}

// Build clears the index and rebuilds all postings from a full snapshot.
func (idx *Index) Build(activities []activity.Record, entries []timeentry.Record, projects []project.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.reset()
	for i := range activities {
		idx.addActivityLocked(&activities[i])
	}
	for i := range entries {
		idx.addTimeEntryLocked(&entries[i])
	}
	for i := range projects {
		idx.addProjectLocked(&projects[i])
	}
	idx.lastRebuild = time.Now()
}

// AddActivity indexes a single activity record.
func (idx *Index) AddActivity(rec *activity.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addActivityLocked(rec)
}

func (idx *Index) addActivityLocked(rec *activity.Record) {
	idx.put(idx.appName, rec.AppName, rec.ID)
	idx.put(idx.windowTitle, rec.WindowTitle, rec.ID)
	idx.put(idx.url, rec.URL, rec.ID)
	idx.put(idx.documentPath, rec.DocumentPath, rec.ID)
	idx.activityIDs[rec.ID] = struct{}{}

	if rec.AppName != "" {
		idx.appNames[rec.AppName]++
		idx.appByID[rec.ID] = rec.AppName
	}
	if rec.WindowTitle != "" && len(idx.titleSample) < titleSampleCap {
		idx.titleSample = append(idx.titleSample, rec.WindowTitle)
	}
}

// RemoveActivity drops a record id from all activity postings, deleting
// now-empty term entries.
func (idx *Index) RemoveActivity(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.drop(idx.appName, id)
	idx.drop(idx.windowTitle, id)
	idx.drop(idx.url, id)
	idx.drop(idx.documentPath, id)
	delete(idx.activityIDs, id)

	if name, ok := idx.appByID[id]; ok {
		delete(idx.appByID, id)
		if n := idx.appNames[name]; n > 1 {
			idx.appNames[name] = n - 1
		} else {
			delete(idx.appNames, name)
		}
	}
}

// AddTimeEntry indexes a single time entry.
func (idx *Index) AddTimeEntry(rec *timeentry.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addTimeEntryLocked(rec)
}

func (idx *Index) addTimeEntryLocked(rec *timeentry.Record) {
	idx.put(idx.entryTitle, rec.Title, rec.ID)
	idx.put(idx.entryNotes, rec.Notes, rec.ID)
	idx.entryIDs[rec.ID] = struct{}{}
}

// RemoveTimeEntry drops a record id from all time entry postings.
func (idx *Index) RemoveTimeEntry(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.drop(idx.entryTitle, id)
	idx.drop(idx.entryNotes, id)
	delete(idx.entryIDs, id)
}

// AddProject indexes a single project.
func (idx *Index) AddProject(rec *project.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.addProjectLocked(rec)
}

func (idx *Index) addProjectLocked(rec *project.Record) {
	idx.put(idx.projectName, rec.Name, rec.ID)
	idx.projectIDs[rec.ID] = struct{}{}
	if rec.Name != "" {
		idx.projectNames[rec.Name]++
		idx.projNameByID[rec.ID] = rec.Name
	}
}

// RemoveProject drops a record id from the project postings.
func (idx *Index) RemoveProject(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.drop(idx.projectName, id)
	delete(idx.projectIDs, id)

	if name, ok := idx.projNameByID[id]; ok {
		delete(idx.projNameByID, id)
		if n := idx.projectNames[name]; n > 1 {
			idx.projectNames[name] = n - 1
		} else {
			delete(idx.projectNames, name)
		}
	}
}

// put tokenizes a field value and records the id under each term. A
// term is counted once per (term, id) pair in the frequency table so
// removal in drop restores the count exactly.
func (idx *Index) put(p postings, text, id string) {
	for _, term := range token.Tokenize(text) {
		set, ok := p[term]
		if !ok {
			set = idSet{}
			p[term] = set
		}
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		idx.termFreq[term]++
	}
}

// drop removes the id from every postings list in p.
func (idx *Index) drop(p postings, id string) {
	for term, set := range p {
		if _, ok := set[id]; !ok {
			continue
		}
		delete(set, id)
		if n := idx.termFreq[term]; n > 1 {
			idx.termFreq[term] = n - 1
		} else {
			delete(idx.termFreq, term)
		}
		if len(set) == 0 {
			delete(p, term)
		}
	}
}

// SearchActivityIDs returns ids of activities matching every query term
// across the activity field postings.
func (idx *Index) SearchActivityIDs(query string) map[string]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.search(query, idx.appName, idx.windowTitle, idx.url, idx.documentPath)
}

// SearchTimeEntryIDs returns ids of time entries matching every query term.
func (idx *Index) SearchTimeEntryIDs(query string) map[string]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.search(query, idx.entryTitle, idx.entryNotes)
}

// SearchProjectIDs returns ids of projects matching every query term.
func (idx *Index) SearchProjectIDs(query string) map[string]struct{} {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.search(query, idx.projectName)
}

// search intersects per-term id unions across the given field postings.
// A term matches a postings key by equality, prefix, or substring, which
// tolerates the prefix-indexing scheme and mild substring search. An
// empty term list yields an empty result, never match-all.
func (idx *Index) search(query string, fields ...postings) map[string]struct{} {
	terms := token.Tokenize(query)
	if len(terms) == 0 {
		return map[string]struct{}{}
	}

	var result map[string]struct{}
	for _, term := range terms {
		matched := map[string]struct{}{}
		for _, p := range fields {
			// Exact hit first; the linear scan below only adds keys the
			// map lookup missed.
			if set, ok := p[term]; ok {
				for id := range set {
					matched[id] = struct{}{}
				}
			}
			for key, set := range p {
				if key == term || !strings.Contains(key, term) {
					continue
				}
				for id := range set {
					matched[id] = struct{}{}
				}
			}
		}
		if result == nil {
			result = matched
		} else {
			for id := range result {
				if _, ok := matched[id]; !ok {
					delete(result, id)
				}
			}
		}
		if len(result) == 0 {
			return map[string]struct{}{}
		}
	}
	return result
}

// Stats returns current record counts and the last rebuild time.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		Activities:  len(idx.activityIDs),
		TimeEntries: len(idx.entryIDs),
		Projects:    len(idx.projectIDs),
		LastRebuild: idx.lastRebuild,
	}
}

// TotalRecords returns the total number of indexed records.
func (idx *Index) TotalRecords() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.activityIDs) + len(idx.entryIDs) + len(idx.projectIDs)
}
