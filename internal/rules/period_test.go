package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPeriod(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want PeriodIndex
	}{
		{"missing data key", `{"other": 1}`, NoPeriod},
		{"data is not an object", `{"data": 5}`, NoPeriod},
		{"missing financials", `{"data": {}}`, NoPeriod},
		{"null financials", `{"data": {"financials": null}}`, NoPeriod},
		{"financials is an object", `{"data": {"financials": {"nature": "STANDALONE"}}}`, NoPeriod},
		{"financials is a string", `{"data": {"financials": "none"}}`, NoPeriod},
		{"empty financials defaults to 0", `{"data": {"financials": []}}`, 0},
		{"no standalone defaults to 0", `{"data": {"financials": [{"nature": "CONSOLIDATED"}, {"nature": "OTHER"}]}}`, 0},
		{"standalone first", `{"data": {"financials": [{"nature": "STANDALONE"}, {"nature": "CONSOLIDATED"}]}}`, 0},
		{"standalone later", `{"data": {"financials": [{"nature": "CONSOLIDATED"}, {"nature": "CONSOLIDATED"}, {"nature": "STANDALONE"}]}}`, 2},
		{"first standalone wins", `{"data": {"financials": [{"nature": "CONSOLIDATED"}, {"nature": "STANDALONE"}, {"nature": "STANDALONE"}]}}`, 1},
		{"match is case-sensitive", `{"data": {"financials": [{"nature": "CONSOLIDATED"}, {"nature": "standalone"}]}}`, 0},
		{"non-string nature ignored", `{"data": {"financials": [{"nature": 1}, {"nature": "STANDALONE"}]}}`, 1},
		{"entry without nature", `{"data": {"financials": [{}, {"nature": "STANDALONE"}]}}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPeriod(mustDoc(t, tt.doc)))
		})
	}
}

func TestSelectPeriodReportsReason(t *testing.T) {
	idx, err := selectPeriod(mustDoc(t, `{"data": {"financials": "none"}}`))
	assert.Equal(t, NoPeriod, idx)
	assert.Error(t, err)

	idx, err = selectPeriod(mustDoc(t, `{"data": {"financials": []}}`))
	assert.Equal(t, PeriodIndex(0), idx)
	assert.NoError(t, err)
}
