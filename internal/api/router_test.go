package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/app"
	"github.com/jengzang/crime-dashboard-go/internal/config"
	"github.com/jengzang/crime-dashboard-go/internal/metrics"
	"github.com/jengzang/crime-dashboard-go/internal/middleware"
	"github.com/jengzang/crime-dashboard-go/internal/model/modeltest"
)

const sampleCSV = "Year,Province,Crime Detail,Number of Cases\n" +
	"2022,Kigali,Theft,50\n" +
	"2022,Kigali,Assault,30\n" +
	"2023,Kigali,Theft,70\n" +
	"2023,Eastern,Fraud,20\n"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type setup struct {
	withData  bool
	withModel bool
}

func newServer(t *testing.T, s setup) (http.Handler, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Server.GinMode = "test"
	cfg.RateLimit.Requests = 0
	cfg.Data.Path = filepath.Join(dir, "absent.csv")
	cfg.Model.Dir = filepath.Join(dir, "absent")
	cfg.Database.Path = filepath.Join(dir, "predictions.db")

	if s.withData {
		cfg.Data.Path = filepath.Join(dir, "crime_data.csv")
		require.NoError(t, os.WriteFile(cfg.Data.Path, []byte(sampleCSV), 0o644))
	}
	if s.withModel {
		cfg.Model.Dir = modeltest.Dir(t)
	}

	state := app.Build(cfg, zap.NewNop(), metrics.New(prometheus.NewRegistry()))
	t.Cleanup(func() { state.Close() })
	return SetupRouter(state), cfg
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status       string `json:"status"`
		DataLoaded   bool   `json:"data_loaded"`
		ModelLoaded  bool   `json:"model_loaded"`
		ModelVersion string `json:"model_version"`
	}
	env := decode(t, w, &body)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "success", env.Message)
	assert.Equal(t, "degraded", body.Status)
	assert.True(t, body.DataLoaded)
	assert.False(t, body.ModelLoaded)
	assert.Empty(t, body.ModelVersion)

	h, _ = newServer(t, setup{withData: true, withModel: true})
	w = do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.ModelLoaded)
	assert.NotEmpty(t, body.ModelVersion)
}

func TestModelMissing_PredictionUnavailableAnalyticsServed(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	w := do(t, h, http.MethodPost, "/api/v1/predictions", `{"province":"Kigali","year":2025}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "prediction model unavailable", env.Error)

	w = do(t, h, http.MethodGet, "/api/v1/predictions/options", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/stats/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDataMissing_AnalyticsUnavailable(t *testing.T) {
	h, _ := newServer(t, setup{withModel: true})

	for _, path := range []string{
		"/api/v1/stats/summary",
		"/api/v1/stats/group?by=year",
		"/api/v1/incidents",
		"/api/v1/incidents/export",
		"/api/v1/charts/trend.png",
	} {
		w := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}

	w := do(t, h, http.MethodPost, "/api/v1/predictions", `{"province":"Kigali","year":2025}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStats(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	var summary struct {
		TotalCases      int64  `json:"total_cases"`
		HighestProvince string `json:"highest_province"`
	}
	w := do(t, h, http.MethodGet, "/api/v1/stats/summary?province=Kigali", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &summary)
	assert.Equal(t, int64(150), summary.TotalCases)
	assert.Equal(t, "Kigali", summary.HighestProvince)

	var groups struct {
		Data []struct {
			Label string `json:"label"`
			Sum   int64  `json:"sum"`
		} `json:"data"`
		Count int `json:"count"`
	}
	w = do(t, h, http.MethodGet, "/api/v1/stats/group?by=year&province=Kigali", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &groups)
	require.Equal(t, 2, groups.Count)
	assert.Equal(t, "2022", groups.Data[0].Label)
	assert.Equal(t, int64(80), groups.Data[0].Sum)
	assert.Equal(t, int64(70), groups.Data[1].Sum)

	var highest struct {
		Label string `json:"label"`
		Sum   int64  `json:"sum"`
	}
	w = do(t, h, http.MethodGet, "/api/v1/stats/highest?by=province", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &highest)
	assert.Equal(t, "Kigali", highest.Label)
	assert.Equal(t, int64(150), highest.Sum)
}

func TestStats_Errors(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	tests := []struct {
		path string
		code int
	}{
		{"/api/v1/stats/group?by=weather", http.StatusBadRequest},
		{"/api/v1/stats/group?by=year,year", http.StatusBadRequest},
		{"/api/v1/stats/group?sort=random", http.StatusBadRequest},
		{"/api/v1/stats/top?n=ten", http.StatusBadRequest},
		{"/api/v1/stats/summary?year=last", http.StatusBadRequest},
		{"/api/v1/stats/highest?province=Atlantis", http.StatusNotFound},
		{"/api/v1/stats/highest?by=year,province", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestStats_RepeatedAndCommaFilters(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	var a, b struct {
		TotalCases int64 `json:"total_cases"`
	}
	decode(t, do(t, h, http.MethodGet, "/api/v1/stats/summary?crime=Theft&crime=Fraud", ""), &a)
	decode(t, do(t, h, http.MethodGet, "/api/v1/stats/summary?crime=Theft,Fraud", ""), &b)
	assert.Equal(t, int64(140), a.TotalCases)
	assert.Equal(t, a, b)
}

func TestIncidents(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	var page struct {
		Data []struct {
			Province string `json:"province"`
		} `json:"data"`
		Total    int `json:"total"`
		PageSize int `json:"pageSize"`
	}
	w := do(t, h, http.MethodGet, "/api/v1/incidents?year=2023&pageSize=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.PageSize)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Kigali", page.Data[0].Province)

	var opts struct {
		Years     []int    `json:"years"`
		Provinces []string `json:"provinces"`
	}
	w = do(t, h, http.MethodGet, "/api/v1/incidents/filters", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &opts)
	assert.Equal(t, []int{2022, 2023}, opts.Years)
	assert.Equal(t, []string{"Eastern", "Kigali"}, opts.Provinces)
}

func TestExport_CSV(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	w := do(t, h, http.MethodGet, "/api/v1/incidents/export?province=Kigali", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rwanda_crime_data_filtered.csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Year", "Province", "Crime Detail", "Number of Cases"}, records[0])
	assert.Equal(t, []string{"2022", "Kigali", "Theft", "50"}, records[1])
}

func TestExport_XLSX(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	w := do(t, h, http.MethodGet, "/api/v1/incidents/export?format=xlsx&year=2023", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "rwanda_crime_data_filtered.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Incidents")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExport_Errors(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/incidents/export?province=Atlantis", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/incidents/export?format=pdf", "").Code)
}

func TestCharts(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	for _, path := range []string{
		"/api/v1/charts/crime-types.png",
		"/api/v1/charts/trend.png",
		"/api/v1/charts/provinces.png",
	} {
		w := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), path)
	}

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/charts/trend.png?year=1999", "").Code)
}

func TestPredictions(t *testing.T) {
	h, cfg := newServer(t, setup{withData: true, withModel: true})

	var opts struct {
		Provinces   []string `json:"provinces"`
		DefaultYear int      `json:"default_year"`
	}
	w := do(t, h, http.MethodGet, "/api/v1/predictions/options", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &opts)
	assert.Equal(t, []string{"Eastern", "Kigali"}, opts.Provinces)
	assert.Equal(t, 2025, opts.DefaultYear)

	var p struct {
		ID       string `json:"id"`
		Category string `json:"predicted_category"`
	}
	w = do(t, h, http.MethodPost, "/api/v1/predictions", `{"province":"Kigali","year":2025}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &p)
	assert.Equal(t, "Theft", p.Category)
	assert.NotEmpty(t, p.ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/predictions", `{"province":"Kigali","year":2040}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/predictions", `{"year":2025}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/v1/predictions", `not json`).Code)

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/predictions/history", "").Code)

	token, err := middleware.IssueToken(cfg.Auth.JWTSecret, "analyst", time.Hour)
	require.NoError(t, err)

	var history struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	w = do(t, h, http.MethodGet, "/api/v1/predictions/history", "", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &history)
	assert.Equal(t, int64(1), history.Total)
	require.Len(t, history.Data, 1)
	assert.Equal(t, p.ID, history.Data[0].ID)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newServer(t, setup{withData: true})

	do(t, h, http.MethodGet, "/api/v1/stats/summary", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "crime_dashboard_dataset_rows 4")
	assert.Contains(t, w.Body.String(), "crime_dashboard_model_loaded 0")
}

func TestRateLimit(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Server.GinMode = "test"
	cfg.Data.Path = filepath.Join(dir, "crime_data.csv")
	require.NoError(t, os.WriteFile(cfg.Data.Path, []byte(sampleCSV), 0o644))
	cfg.Model.Dir = filepath.Join(dir, "absent")
	cfg.Database.Path = ""
	cfg.RateLimit.Requests = 1
	cfg.RateLimit.Window = time.Minute

	state := app.Build(cfg, zap.NewNop(), nil)
	h := SetupRouter(state)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/stats/summary", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/api/v1/stats/summary", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code, "health is not rate limited")
}
