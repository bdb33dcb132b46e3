package planning

import (
	"strings"
	"unicode/utf8"
)

// minQualifyingWordLen is the length a shared word must exceed to link two
// task names.
const minQualifyingWordLen = 3

// Matcher finds the correspondence between the tasks of two snapshots.
type Matcher interface {
	Match(oldTasks, newTasks []Task) Matching
}

// MatchedPair links a task of the new snapshot to the old task it replaced.
type MatchedPair struct {
	Old Task
	New Task
}

// Matching is the result of a Matcher run. Pairs and Added follow the order
// of the new tasks; Removed follows the order of the old tasks.
type Matching struct {
	Pairs   []MatchedPair
	Added   []Task
	Removed []Task
}

// WordOverlapMatcher links tasks whose names share a word longer than three
// characters. Each direction is evaluated independently, so one old task may
// be matched by several new tasks. The first qualifying old task wins.
type WordOverlapMatcher struct{}

// NewWordOverlapMatcher creates the default name-based matcher.
func NewWordOverlapMatcher() *WordOverlapMatcher {
	return &WordOverlapMatcher{}
}

func (m *WordOverlapMatcher) Match(oldTasks, newTasks []Task) Matching {
	oldWords := make([][]string, len(oldTasks))
	for i, t := range oldTasks {
		oldWords[i] = nameWords(t.Name)
	}
	newWords := make([][]string, len(newTasks))
	for i, t := range newTasks {
		newWords[i] = nameWords(t.Name)
	}

	result := Matching{
		Pairs:   make([]MatchedPair, 0),
		Added:   make([]Task, 0),
		Removed: make([]Task, 0),
	}

	for i, nt := range newTasks {
		matched := false
		for j, ot := range oldTasks {
			if shareQualifyingWord(oldWords[j], newWords[i]) {
				result.Pairs = append(result.Pairs, MatchedPair{Old: ot, New: nt})
				matched = true
				break
			}
		}
		if !matched {
			result.Added = append(result.Added, nt)
		}
	}

	for j, ot := range oldTasks {
		stillExists := false
		for i := range newTasks {
			if shareQualifyingWord(oldWords[j], newWords[i]) {
				stillExists = true
				break
			}
		}
		if !stillExists {
			result.Removed = append(result.Removed, ot)
		}
	}

	return result
}

// IDMatcher links tasks with equal ids. It suits generators that keep task
// identity stable across regenerations.
type IDMatcher struct{}

// NewIDMatcher creates an id-based matcher.
func NewIDMatcher() *IDMatcher {
	return &IDMatcher{}
}

func (m *IDMatcher) Match(oldTasks, newTasks []Task) Matching {
	oldByID := make(map[int]Task, len(oldTasks))
	for _, t := range oldTasks {
		if _, ok := oldByID[t.ID]; !ok {
			oldByID[t.ID] = t
		}
	}
	newIDs := make(map[int]bool, len(newTasks))

	result := Matching{
		Pairs:   make([]MatchedPair, 0),
		Added:   make([]Task, 0),
		Removed: make([]Task, 0),
	}
	for _, nt := range newTasks {
		newIDs[nt.ID] = true
		if ot, ok := oldByID[nt.ID]; ok {
			result.Pairs = append(result.Pairs, MatchedPair{Old: ot, New: nt})
		} else {
			result.Added = append(result.Added, nt)
		}
	}
	for _, ot := range oldTasks {
		if !newIDs[ot.ID] {
			result.Removed = append(result.Removed, ot)
		}
	}
	return result
}

// ShareQualifyingWord reports whether two task names share a word longer
// than three characters, ignoring case.
func ShareQualifyingWord(a, b string) bool {
	return shareQualifyingWord(nameWords(a), nameWords(b))
}

func nameWords(name string) []string {
	return strings.Fields(strings.ToLower(name))
}

func shareQualifyingWord(oldWords, newWords []string) bool {
	for _, w := range oldWords {
		if utf8.RuneCountInString(w) <= minQualifyingWordLen {
			continue
		}
		for _, nw := range newWords {
			if w == nw {
				return true
			}
		}
	}
	return false
}
