package fns

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancials_LatestYearScaled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bo", r.URL.Path)
		assert.Equal(t, "7701234567", r.URL.Query().Get("req"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"7701234567": {"2021": {"2110": 120000, "2400": 5000}, "2022": {"2110": 500000}}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	report, err := client.Financials(context.Background(), "7701234567")

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 2022, report.Year)
	assert.Equal(t, int64(500000000), report.Revenue)
}

func TestFinancials_MissingRevenueLine(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"7701234567": {"2022": {"2400": 5000}}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	report, err := client.Financials(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestFinancials_MissingINNKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"other": {}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	report, err := client.Financials(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestFinancials_NonObjectCompanyData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"7701234567": "нет данных"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	report, err := client.Financials(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestFinancials_EmptyYearMap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"7701234567": {}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	report, err := client.Financials(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestFinancials_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Financials(context.Background(), "7701234567")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFinancials_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.Financials(context.Background(), "7701234567")

	require.Error(t, err)
}

func TestPrimaryActivity_LegalEntity(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/egr", r.URL.Path)
		assert.Equal(t, "7701234567", r.URL.Query().Get("req"))

		w.Write([]byte(`{"items": [{"ЮЛ": {"ОснВидДеят": {"Код": "73.11", "Текст": "Деятельность рекламных агентств"}}}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	code, err := client.PrimaryActivity(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Equal(t, "73.11", code)
}

func TestPrimaryActivity_EntrepreneurFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"ИП": {"ОснВидДеят": {"Код": "82.30"}}}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	code, err := client.PrimaryActivity(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Equal(t, "82.30", code)
}

func TestPrimaryActivity_EmptyItems(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	code, err := client.PrimaryActivity(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestPrimaryActivity_NoActivityField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"ЮЛ": {"НаимЮЛПолн": "ООО Ромашка"}}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	code, err := client.PrimaryActivity(context.Background(), "7701234567")

	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestClient_RateLimitHonored(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"items": [{"ЮЛ": {"ОснВидДеят": {"Код": "73.11"}}}]}`))
	}))
	defer srv.Close()

	// Generous budget so the test stays wait-free; the point is that the
	// limiter path is taken on every request.
	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	for i := 0; i < 3; i++ {
		code, err := client.PrimaryActivity(context.Background(), "7701234567")
		require.NoError(t, err)
		assert.Equal(t, "73.11", code)
	}
	assert.Equal(t, 3, calls)
}

func TestClient_RateLimitCancelledContext(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0.001))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Financials(ctx, "7701234567")
	require.Error(t, err)
	// The limiter rejects before any request is sent.
	assert.Equal(t, 0, calls)
}
