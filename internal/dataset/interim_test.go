package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-sniper/enrich-cli/internal/model"
)

func TestInterim_RoundTrip(t *testing.T) {
	t.Parallel()

	year := 2022
	revenue := int64(250_000_000)
	okved := "73.11"

	records := []model.CompanyRecord{
		{
			INN: "7701234567", Name: "Агентство", LegalPerson: "ООО Ромашка",
			SegmentTag: "BTL", Region: "Москва", Description: "описание",
			Site: "a.ru", Contacts: "info@a.ru, 8 912 345-67-89", Source: "catalog",
			RatingRef: "0.9", RevenueYear: &year, Revenue: &revenue, OKVEDMain: &okved,
		},
		{INN: "7812345678", Name: "Без данных", SegmentTag: "UNKNOWN"},
	}

	path := filepath.Join(t.TempDir(), "interim", "enriched.csv")
	require.NoError(t, WriteInterim(path, records))

	got, err := ReadInterim(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReadInterim_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadInterim(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestWriteInterim_CreatesParentDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "c", "enriched.csv")
	err := WriteInterim(path, []model.CompanyRecord{{INN: "1", Name: "x"}})
	require.NoError(t, err)

	got, err := ReadInterim(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
