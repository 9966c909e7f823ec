package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/lead-sniper/enrich-cli/internal/consolidate"
	"github.com/lead-sniper/enrich-cli/internal/model"
	"github.com/lead-sniper/enrich-cli/pkg/fns"
)

// stubClient serves canned registry responses keyed by INN.
type stubClient struct {
	financials map[string]*fns.FinancialReport
	activity   map[string]string
	errINNs    map[string]bool
	calls      int
}

func (s *stubClient) Financials(_ context.Context, inn string) (*fns.FinancialReport, error) {
	s.calls++
	if s.errINNs[inn] {
		return nil, eris.New("stub: transport error")
	}
	return s.financials[inn], nil
}

func (s *stubClient) PrimaryActivity(_ context.Context, inn string) (string, error) {
	if s.errINNs[inn] {
		return "", eris.New("stub: transport error")
	}
	return s.activity[inn], nil
}

func noWait() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 0)
}

func TestRun_AttachesRegistryFields(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		financials: map[string]*fns.FinancialReport{
			"111": {Year: 2022, Revenue: 250_000_000},
		},
		activity: map[string]string{"111": "73.11"},
	}

	runner := NewRunner(client, noWait(), nil)
	enriched, err := runner.Run(context.Background(), "run-1", []model.CompanyRecord{
		{INN: "111", Name: "А"},
	})

	require.NoError(t, err)
	require.Len(t, enriched, 1)
	require.NotNil(t, enriched[0].Revenue)
	assert.Equal(t, int64(250_000_000), *enriched[0].Revenue)
	assert.Equal(t, 2022, *enriched[0].RevenueYear)
	assert.Equal(t, "73.11", *enriched[0].OKVEDMain)
}

func TestRun_LookupFailureIsolatedPerRecord(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		financials: map[string]*fns.FinancialReport{
			"222": {Year: 2021, Revenue: 400_000_000},
		},
		activity: map[string]string{"222": "82.30"},
		errINNs:  map[string]bool{"111": true},
	}

	runner := NewRunner(client, noWait(), nil)
	enriched, err := runner.Run(context.Background(), "run-1", []model.CompanyRecord{
		{INN: "111", Name: "Сбой"},
		{INN: "222", Name: "Успех"},
	})

	require.NoError(t, err)
	require.Len(t, enriched, 2)

	// Failed lookups leave the record unenriched; the run still covers it.
	assert.Nil(t, enriched[0].Revenue)
	assert.Nil(t, enriched[0].RevenueYear)
	assert.Nil(t, enriched[0].OKVEDMain)

	require.NotNil(t, enriched[1].Revenue)
	assert.Equal(t, int64(400_000_000), *enriched[1].Revenue)
	assert.Equal(t, "82.30", *enriched[1].OKVEDMain)
}

func TestRun_NoDataLeavesFieldsAbsent(t *testing.T) {
	t.Parallel()

	client := &stubClient{} // every lookup returns no data
	runner := NewRunner(client, noWait(), nil)

	enriched, err := runner.Run(context.Background(), "run-1", []model.CompanyRecord{
		{INN: "111"},
	})

	require.NoError(t, err)
	assert.Nil(t, enriched[0].Revenue)
	assert.Nil(t, enriched[0].RevenueYear)
	assert.Nil(t, enriched[0].OKVEDMain)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&stubClient{}, noWait(), nil)
	_, err := runner.Run(ctx, "run-1", []model.CompanyRecord{{INN: "111"}})

	require.Error(t, err)
}

func TestCountEnriched(t *testing.T) {
	t.Parallel()

	revenue := int64(10)
	okved := "73.11"
	records := []model.CompanyRecord{
		{INN: "1", Revenue: &revenue},
		{INN: "2", OKVEDMain: &okved},
		{INN: "3"},
	}

	assert.Equal(t, 2, CountEnriched(records))
}

// Three raw rows: a duplicate pair (250M / 50M, tags BTL and PR) and one
// distinct low-revenue company. The final dataset keeps exactly the merged
// duplicate.
func TestEndToEnd_EnrichConsolidateFilter(t *testing.T) {
	t.Parallel()

	client := &stubClient{
		financials: map[string]*fns.FinancialReport{
			"111": {Year: 2022, Revenue: 250_000_000},
			"333": {Year: 2022, Revenue: 10_000_000},
		},
		activity: map[string]string{"111": "73.11"},
	}

	raw := []model.CompanyRecord{
		{INN: "111", Name: "Дубль", SegmentTag: "BTL"},
		{INN: "111", Name: "Дубль", SegmentTag: "PR"},
		{INN: "333", Name: "Маленькая", SegmentTag: "EVENT"},
	}

	runner := NewRunner(client, noWait(), nil)
	enriched, err := runner.Run(context.Background(), "run-1", raw)
	require.NoError(t, err)

	merged := consolidate.Consolidate(enriched)
	require.Len(t, merged, 2)

	kept := consolidate.Filter(merged, 200_000_000)
	require.Len(t, kept, 1)
	assert.Equal(t, "111", kept[0].INN)
	assert.Equal(t, int64(250_000_000), *kept[0].Revenue)
	assert.Equal(t, "BTL, PR", kept[0].SegmentTag)
}
