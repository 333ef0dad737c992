package rebrand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDateFromReport(t *testing.T) {
	assert.Equal(t, "05.03.2024", ExtractDate(twoPageReport(t), 2, ""))
}

func TestExtractDateHonorsLabel(t *testing.T) {
	assert.Equal(t, "05.03.2024", ExtractDate(twoPageReport(t), 2, "Aufnahme"))
}

func TestExtractDatePageMissing(t *testing.T) {
	assert.Equal(t, "", ExtractDate(onePageReport(t), 2, ""))
}

func TestExtractDateNoDateOnPage(t *testing.T) {
	assert.Equal(t, "", ExtractDate(twoPageReportNoDate(t), 2, ""))
}

func TestExtractDateGarbageInput(t *testing.T) {
	assert.Equal(t, "", ExtractDate([]byte("not a pdf at all"), 2, ""))
	assert.Equal(t, "", ExtractDate(nil, 1, ""))
}

func TestFindDate(t *testing.T) {
	text := "Bericht Nr. 17 vom 01.01.2020 Objekt Musterweg Aufnahme am 05.03.2024 Ende"

	tests := []struct {
		name  string
		text  string
		label string
		want  string
	}{
		{"first match without label", text, "", "01.01.2020"},
		{"label selects later date", text, "Aufnahme", "05.03.2024"},
		{"label missing falls back to first", text, "Niederschrift", "01.01.2020"},
		{"label present but no date after it", "Datum 01.01.2020 Aufnahme folgt", "Aufnahme", "01.01.2020"},
		{"no date at all", "kein Datum hier", "", ""},
		{"needs full four digit year", "am 05.03.24", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, findDate(tc.text, tc.label))
		})
	}
}
