// internal/resume/ats/spelling.go
package ats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// SpellingReport is the outcome of one spell check.
type SpellingReport struct {
	Errors int      `json:"count"`
	Words  []string `json:"words,omitempty"`
}

// SpellChecker counts likely misspellings. Available is false when the
// checker cannot run, so the next checker in a chain is used instead.
type SpellChecker interface {
	Name() string
	Available() bool
	Check(text string) SpellingReport
}

// SpellChain runs the first available checker.
type SpellChain []SpellChecker

func (c SpellChain) Check(text string) (SpellingReport, string) {
	for _, checker := range c {
		if checker != nil && checker.Available() {
			return checker.Check(text), checker.Name()
		}
	}
	return SpellingReport{}, ""
}

var (
	dictionaryWord = regexp.MustCompile(`\b[a-zA-Z]{2,}\b`)
	heuristicWord  = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
)

// DictionaryChecker reports distinct words missing from a word list.
type DictionaryChecker struct {
	words map[string]struct{}
}

func NewDictionaryChecker(words []string) *DictionaryChecker {
	d := &DictionaryChecker{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			d.words[w] = struct{}{}
		}
	}
	return d
}

// LoadDictionary reads a newline separated word list.
func LoadDictionary(path string) (*DictionaryChecker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return ReadDictionary(f)
}

func ReadDictionary(r io.Reader) (*DictionaryChecker, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return NewDictionaryChecker(words), nil
}

func (d *DictionaryChecker) Name() string { return "dictionary" }

func (d *DictionaryChecker) Available() bool { return d != nil && len(d.words) > 0 }

func (d *DictionaryChecker) Check(text string) SpellingReport {
	seen := make(map[string]struct{})
	var unknown []string
	for _, w := range dictionaryWord.FindAllString(strings.ToLower(text), -1) {
		if _, ok := d.words[w]; ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		unknown = append(unknown, w)
	}
	return SpellingReport{Errors: len(unknown), Words: unknown}
}

var heuristicAllowList = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the be to of and a in that have i it for not on with he as you do at
		this but his by from they we say her she or an will my one all would there their
		experience education skills project management development`) {
		heuristicAllowList[w] = struct{}{}
	}
}

const heuristicCap = 50

// HeuristicChecker flags overly long words when no dictionary is configured.
type HeuristicChecker struct{}

func (HeuristicChecker) Name() string { return "heuristic" }

func (HeuristicChecker) Available() bool { return true }

func (HeuristicChecker) Check(text string) SpellingReport {
	n := 0
	for _, w := range heuristicWord.FindAllString(strings.ToLower(text), -1) {
		if len(w) <= 15 {
			continue
		}
		if _, ok := heuristicAllowList[w]; ok {
			continue
		}
		n++
	}
	if n > heuristicCap {
		n = heuristicCap
	}
	return SpellingReport{Errors: n}
}

// DefaultSpellChain prefers dict when it is loaded.
func DefaultSpellChain(dict *DictionaryChecker) SpellChain {
	return SpellChain{dict, HeuristicChecker{}}
}
