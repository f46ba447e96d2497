package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"newsdesk/config"
	"newsdesk/database"
	"newsdesk/models"
	"newsdesk/news"
	"newsdesk/report"
	"newsdesk/tasks"
)

// recordingQueue captures submitted jobs instead of running them.
type recordingQueue struct {
	mu   sync.Mutex
	jobs []string
}

func (q *recordingQueue) Submit(job string, args tasks.Args) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

func (q *recordingQueue) submitted() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string{}, q.jobs...)
}

func setupRouter(t *testing.T) (*gin.Engine, *recordingQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := config.Default()
	cfg.UsersDBPath = filepath.Join(dir, "users.db")
	cfg.CreditRiskDBPath = filepath.Join(dir, "risk.db")
	cfg.ReportDir = filepath.Join(dir, "reports")
	cfg.NewsCacheFile = filepath.Join(dir, "news_cache.json")
	cfg.SessionSecret = "test-secret"

	if err := database.Init(cfg); err != nil {
		t.Fatal(err)
	}
	rec := models.CompanyRecord{
		Company:      "Acme_1",
		Industry:     "Technology",
		CreditRating: "BBB",
		PD:           0.02,
		CurrentRatio: 1.5,
		ROA:          0.08,
		Leverage:     1.2,
		LoanAmount:   1000000,
		HQState:      "CA",
	}
	if err := database.GetRiskDB().Create(&rec).Error; err != nil {
		t.Fatal(err)
	}

	// no API key: the fetcher stays offline and serves placeholders
	fetcher := news.NewFetcher("", cfg.NewsCacheFile, cfg.NewsCacheTTL, nil)
	store := database.CompanyStore{DB: database.GetRiskDB()}
	gen := report.NewGenerator(store, cfg.ReportDir, nil)
	q := &recordingQueue{}
	Init(cfg, fetcher, gen, q, nil)

	r := gin.New()
	r.Use(sessions.Sessions("newsdesk_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	r.LoadHTMLGlob(filepath.Join("..", "templates", "*"))

	r.POST("/register", Register)
	r.POST("/login", Login)
	r.GET("/dashboard", AuthRequired, Dashboard)

	api := r.Group("/api", AuthRequired)
	{
		api.GET("/industries", GetIndustries)
		api.POST("/industries", AddIndustry)
		api.DELETE("/industries/:name", DeleteIndustry)
		api.GET("/companies", GetCompanies)
		api.GET("/companies/stats", GetCompanyStats)
		api.GET("/companies/geo", GetGeoDistribution)
		api.GET("/companies/:name", GetCompany)
		api.POST("/reports/generate", GenerateReport)
		api.GET("/reports/download/:filename", DownloadReport)
		api.POST("/alerts", CreateAlert)
		api.GET("/alerts", GetAlerts)
		api.DELETE("/alerts/:id", DeleteAlert)
	}
	return r, q
}

// registerUser creates an account and returns the session cookie.
func registerUser(t *testing.T, r *gin.Engine) string {
	t.Helper()
	form := url.Values{
		"username":   {"analyst"},
		"password":   {"secret123"},
		"first_name": {"Pat"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("register returned %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("register set no session cookie")
	}
	return cookies[0].String()
}

func authedRequest(r *gin.Engine, cookie, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredBlocksAnonymousAPI(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous API request returned %d, want 401", w.Code)
	}
}

func TestCompaniesAPI(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r)

	w := authedRequest(r, cookie, http.MethodGet, "/api/companies", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list companies returned %d", w.Code)
	}
	var companies []models.CompanyRecord
	if err := json.Unmarshal(w.Body.Bytes(), &companies); err != nil {
		t.Fatal(err)
	}
	if len(companies) != 1 || companies[0].Company != "Acme_1" {
		t.Fatalf("unexpected companies: %+v", companies)
	}

	w = authedRequest(r, cookie, http.MethodGet, "/api/companies/Acme_1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get company returned %d", w.Code)
	}
	var detail struct {
		Derived struct {
			RiskLevel string `json:"risk_level"`
		} `json:"derived"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail.Derived.RiskLevel != "medium" {
		t.Errorf("risk_level = %q, want medium", detail.Derived.RiskLevel)
	}

	w = authedRequest(r, cookie, http.MethodGet, "/api/companies/Ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown company returned %d, want 404", w.Code)
	}
}

func TestGenerateAndDownloadReport(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r)

	body, _ := json.Marshal(map[string]any{
		"company":  "Acme_1",
		"sections": []string{"company_info", "risk_profile"},
		"format":   "html",
	})
	w := authedRequest(r, cookie, http.MethodPost, "/api/reports/generate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("generate returned %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Filename    string `json:"filename"`
		DownloadURL string `json:"download_url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(res.Filename, ".html") {
		t.Fatalf("unexpected filename %q", res.Filename)
	}

	w = authedRequest(r, cookie, http.MethodGet, res.DownloadURL, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download returned %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("Content-Type = %q", got)
	}

	// unknown company maps to 404
	body, _ = json.Marshal(map[string]any{
		"company":  "Ghost",
		"sections": []string{"company_info"},
	})
	w = authedRequest(r, cookie, http.MethodPost, "/api/reports/generate", body)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown company returned %d, want 404", w.Code)
	}

	// bad request maps to 400
	body, _ = json.Marshal(map[string]any{
		"company": "Acme_1",
		"format":  "docx",
	})
	w = authedRequest(r, cookie, http.MethodPost, "/api/reports/generate", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad format returned %d, want 400", w.Code)
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r)

	w := authedRequest(r, cookie, http.MethodGet, "/api/reports/download/..%2Fusers.db", nil)
	if w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
		t.Fatalf("traversal attempt returned %d", w.Code)
	}
}

func TestAlertLifecycle(t *testing.T) {
	r, q := setupRouter(t)
	cookie := registerUser(t, r)

	body, _ := json.Marshal(map[string]any{
		"company":          "Acme_1",
		"metric":           "pd",
		"condition":        "above",
		"threshold":        0.05,
		"notify_dashboard": true,
	})
	w := authedRequest(r, cookie, http.MethodPost, "/api/alerts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create alert returned %d: %s", w.Code, w.Body.String())
	}
	jobs := q.submitted()
	if len(jobs) != 1 || jobs[0] != tasks.JobCheckAlert {
		t.Fatalf("expected a queued check_alert job, got %v", jobs)
	}

	var alert models.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &alert); err != nil {
		t.Fatal(err)
	}

	w = authedRequest(r, cookie, http.MethodGet, "/api/alerts", nil)
	var alerts []models.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &alerts); err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}

	w = authedRequest(r, cookie, http.MethodDelete,
		"/api/alerts/"+jsonNumber(alert.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete alert returned %d", w.Code)
	}

	// invalid condition is rejected
	body, _ = json.Marshal(map[string]any{
		"company":   "Acme_1",
		"metric":    "pd",
		"condition": "near",
	})
	w = authedRequest(r, cookie, http.MethodPost, "/api/alerts", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad condition returned %d, want 400", w.Code)
	}
}

func TestIndustryManagement(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r)

	w := authedRequest(r, cookie, http.MethodGet, "/api/industries", nil)
	var industries []struct {
		Name    string `json:"name"`
		Default bool   `json:"default"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &industries); err != nil {
		t.Fatal(err)
	}
	if len(industries) != len(config.DefaultIndustries) {
		t.Fatalf("got %d industries, want %d defaults", len(industries), len(config.DefaultIndustries))
	}

	body, _ := json.Marshal(map[string]string{"name": "Shipping"})
	w = authedRequest(r, cookie, http.MethodPost, "/api/industries", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("add industry returned %d", w.Code)
	}

	w = authedRequest(r, cookie, http.MethodDelete, "/api/industries/Healthcare", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("deleting a default industry returned %d, want 403", w.Code)
	}

	w = authedRequest(r, cookie, http.MethodDelete, "/api/industries/Shipping", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete custom industry returned %d", w.Code)
	}
}

func TestCompanyStatsAndGeo(t *testing.T) {
	r, _ := setupRouter(t)
	cookie := registerUser(t, r)

	w := authedRequest(r, cookie, http.MethodGet, "/api/companies/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats returned %d", w.Code)
	}
	var stats struct {
		Total      int64 `json:"total"`
		MediumRisk int64 `json:"medium_risk"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Total != 1 || stats.MediumRisk != 1 {
		t.Errorf("stats = %+v", stats)
	}

	w = authedRequest(r, cookie, http.MethodGet, "/api/companies/geo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("geo returned %d", w.Code)
	}
	var states []struct {
		State string `json:"state"`
		Count int64  `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &states); err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 || states[0].State != "CA" {
		t.Errorf("geo = %+v", states)
	}
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
