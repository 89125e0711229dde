package categorize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hance08/tally/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const qbseTraining = `Date,Bank,Account,Description,Amount,Type,Category,Receipt,Notes
01/02/2024,Chase,Checking,STARBUCKS STORE 123 SEATTLE,-4.50,Business,Meals,,
01/03/2024,Chase,Checking,HOME DEPOT #456,-80.25,Business,Supplies,,
01/04/2024,Chase,Checking,MYSTERY VENDOR,-10.00,Business,Unreviewed,,
01/05/2024,Chase,Checking,,-3.00,Business,Meals,,
01/06/2024,Chase,Checking,NETFLIX,-15.49,Personal,,,
01/07/2024,Chase,Checking,uber,-23.10,Business,Travel,,
`

func TestLoadCorpusFilters(t *testing.T) {
	c, err := LoadCorpus(strings.NewReader(qbseTraining))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoadCorpusRequiresColumns(t *testing.T) {
	_, err := LoadCorpus(strings.NewReader("Date,Amount\n01/01/2024,1\n"))
	assert.Error(t, err)

	c, err := LoadCorpus(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadCorpusFileMissing(t *testing.T) {
	c, err := LoadCorpusFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestSimilar(t *testing.T) {
	c, err := LoadCorpus(strings.NewReader(qbseTraining))
	require.NoError(t, err)

	got := c.Similar("Starbucks Store 123 Portland OR", 15, 5)
	require.Len(t, got, 1)
	assert.Equal(t, "Meals", got[0].Category)

	got = c.Similar("UBER TRIP HELP.UBER.COM", 15, 5)
	require.Len(t, got, 1, "corpus description contained in the transaction")
	assert.Equal(t, "Travel", got[0].Category)

	assert.Empty(t, c.Similar("", 15, 5))
	assert.Empty(t, c.Similar("   ", 15, 5))
	assert.Empty(t, c.Similar("COSTCO", 15, 5))
}

func TestSimilarLimit(t *testing.T) {
	var examples []model.TrainingExample
	for i := 0; i < 8; i++ {
		examples = append(examples, model.TrainingExample{Description: "AMAZON MKTP US", Category: "Supplies"})
	}
	c := NewCorpus(examples)

	assert.Len(t, c.Similar("AMAZON MKTP US*2K3", 15, 5), 5)

	var nilCorpus *Corpus
	assert.Empty(t, nilCorpus.Similar("AMAZON", 15, 5))
	assert.Equal(t, 0, nilCorpus.Len())
}
