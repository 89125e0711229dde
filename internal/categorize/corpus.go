package categorize

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hance08/tally/internal/model"
)

const unreviewedCategory = "Unreviewed"

// Corpus is the read-only set of previously categorized transactions used
// to ground suggestions. It is loaded once and never mutated.
type Corpus struct {
	examples []model.TrainingExample
}

func NewCorpus(examples []model.TrainingExample) *Corpus {
	return &Corpus{examples: examples}
}

// LoadCorpusFile reads a QuickBooks Self-Employed export. A missing file
// yields an empty corpus together with an error wrapping os.ErrNotExist.
func LoadCorpusFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewCorpus(nil), fmt.Errorf("failed to read training data %s: %w", path, err)
	}
	return LoadCorpus(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
}

// LoadCorpus keeps rows with a non-empty Description and a Category other
// than "Unreviewed". Columns are located by header name.
func LoadCorpus(r io.Reader) (*Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return NewCorpus(nil), nil
	}
	if err != nil {
		return NewCorpus(nil), fmt.Errorf("failed to read training header: %w", err)
	}

	descCol, catCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Description":
			descCol = i
		case "Category":
			catCol = i
		}
	}
	if descCol < 0 || catCol < 0 {
		return NewCorpus(nil), fmt.Errorf("training data must have Description and Category columns")
	}

	var examples []model.TrainingExample
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return NewCorpus(nil), fmt.Errorf("failed to read training row: %w", err)
		}
		if descCol >= len(rec) || catCol >= len(rec) {
			continue
		}

		desc := strings.TrimSpace(rec[descCol])
		cat := strings.TrimSpace(rec[catCol])
		if desc == "" || cat == "" || cat == unreviewedCategory {
			continue
		}
		examples = append(examples, model.TrainingExample{Description: desc, Category: cat})
	}

	return NewCorpus(examples), nil
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.examples)
}

// Similar returns up to limit examples whose lower-cased description either
// contains the first prefixLen characters of description or is contained in
// it. Corpus order is preserved.
func (c *Corpus) Similar(description string, prefixLen, limit int) []model.TrainingExample {
	if c == nil || limit <= 0 {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(description))
	if needle == "" {
		return nil
	}
	prefix := needle
	if r := []rune(needle); len(r) > prefixLen {
		prefix = string(r[:prefixLen])
	}

	var matches []model.TrainingExample
	for _, ex := range c.examples {
		hay := strings.ToLower(ex.Description)
		if strings.Contains(hay, prefix) || strings.Contains(needle, hay) {
			matches = append(matches, ex)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}
