package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vse-rental/storefront/internal/config"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/pkg/logger"
)

const testCSV = `id,category,imageUrl,videoUrl,name_ua,name_ru,name_en,description_ua,description_ru,description_en,price
spk-1,sound,https://img/spk.png,,Колонка,Колонка,Speaker,,,,100
prj-1,video,https://img/prj.png,,Проектор,Проектор,Projector,,,,50.50

mic-1,sound,,,Мікрофон,Микрофон,Microphone,,,,n/a
`

// upstream records what the sheet and mail endpoints received
type upstream struct {
	mu          sync.Mutex
	sheetStatus int
	sheetBody   string
	rows        []models.IngestionRecord
	emails      []models.EmailPayload
	rawRows     []string
	rawEmails   []string
}

func (u *upstream) snapshot() ([]models.IngestionRecord, []models.EmailPayload, []string, []string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rows, u.emails, u.rawRows, u.rawEmails
}

func (u *upstream) sheet(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	var rows []models.IngestionRecord
	_ = json.Unmarshal(raw, &rows)
	u.rows = append(u.rows, rows...)
	u.rawRows = append(u.rawRows, string(raw))

	if u.sheetStatus != 0 {
		w.WriteHeader(u.sheetStatus)
		_, _ = w.Write([]byte(u.sheetBody))
		return
	}
	_, _ = w.Write([]byte(`{"result":"success"}`))
}

func (u *upstream) mail(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	raw, _ := io.ReadAll(r.Body)
	var p models.EmailPayload
	_ = json.Unmarshal(raw, &p)
	u.emails = append(u.emails, p)
	u.rawEmails = append(u.rawEmails, string(raw))
	_, _ = w.Write([]byte(`{"message":"Email sent successfully"}`))
}

func newTestApp(t *testing.T, up *upstream) (*httptest.Server, *http.Client) {
	t.Helper()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "catalog.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0o600))

	sheetSrv := httptest.NewServer(http.HandlerFunc(up.sheet))
	t.Cleanup(sheetSrv.Close)
	mailSrv := httptest.NewServer(http.HandlerFunc(up.mail))
	t.Cleanup(mailSrv.Close)

	cfg := config.Default()
	cfg.Catalog.File = csvPath
	cfg.Ingestion.URL = sheetSrv.URL
	cfg.Mail.EndpointURL = mailSrv.URL

	a, err := newApp(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func do(t *testing.T, client *http.Client, method, url, body string) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestApp_OrderCheckout(t *testing.T) {
	up := &upstream{}
	srv, client := newTestApp(t, up)

	for _, id := range []string{"spk-1", "spk-1", "prj-1"} {
		status, _ := do(t, client, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"`+id+`","lang":"en"}`)
		require.Equal(t, http.StatusOK, status)
	}

	status, cart := do(t, client, http.MethodGet, srv.URL+"/api/cart", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "250.50", cart["total"])
	assert.EqualValues(t, 3, cart["totalQuantity"])

	status, body := do(t, client, http.MethodPost, srv.URL+"/api/checkout", `{"name":"Ivan","phone":"+380501112233"}`)
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "order", body["kind"])
	orderID, _ := body["orderId"].(string)
	assert.Len(t, orderID, 11)
	assert.True(t, strings.HasPrefix(orderID, "ORDER-#"))

	rows, emails, _, _ := up.snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, orderID, rows[0].OrderID)
	assert.Equal(t, "2 x Speaker, Projector", rows[0].ProductNames)
	assert.Equal(t, "200.00, 50.50", rows[0].Prices)
	assert.Equal(t, "https://img/spk.png", rows[0].Image)

	require.Len(t, emails, 1)
	assert.Equal(t, models.KindOrder, emails[0].Kind)
	assert.Equal(t, "2 x Speaker, Projector", emails[0].ProductName)
	assert.NotEmpty(t, emails[0].Time)

	status, cart = do(t, client, http.MethodGet, srv.URL+"/api/cart", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, cart["items"])
}

func TestApp_ContactCheckoutOmitsProductFields(t *testing.T) {
	up := &upstream{}
	srv, client := newTestApp(t, up)

	status, body := do(t, client, http.MethodPost, srv.URL+"/api/checkout", `{"name":"Olena","phone":"+380501112233"}`)
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "contact", body["kind"])

	_, _, rawRows, rawEmails := up.snapshot()
	require.Len(t, rawRows, 1)
	assert.Contains(t, rawRows[0], `"order_id"`)
	for _, key := range []string{"product_names", "prices", "image"} {
		assert.NotContains(t, rawRows[0], `"`+key+`"`)
	}

	require.Len(t, rawEmails, 1)
	assert.Contains(t, rawEmails[0], `"kind":"contact"`)
	for _, key := range []string{"productName", "price", "time", "image"} {
		assert.NotContains(t, rawEmails[0], `"`+key+`"`)
	}
}

func TestApp_IngestionFailureSkipsMail(t *testing.T) {
	up := &upstream{sheetStatus: http.StatusInternalServerError, sheetBody: `{"message":"Error","error":"sheet is locked"}`}
	srv, client := newTestApp(t, up)

	status, _ := do(t, client, http.MethodPost, srv.URL+"/api/cart/items", `{"productId":"spk-1"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, client, http.MethodPost, srv.URL+"/api/checkout", `{"name":"Ivan","phone":"12345"}`)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Failed to send request", body["message"])
	assert.Equal(t, "Error: sheet is locked", body["error"])
	_, emails, _, _ := up.snapshot()
	assert.Empty(t, emails)

	// the cart survives a failed checkout
	_, cart := do(t, client, http.MethodGet, srv.URL+"/api/cart", "")
	assert.Len(t, cart["items"], 1)
}

func TestApp_ValidationBlocksNetwork(t *testing.T) {
	up := &upstream{}
	srv, client := newTestApp(t, up)

	status, body := do(t, client, http.MethodPost, srv.URL+"/api/checkout", `{"name":"I","phone":"123"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])
	rows, emails, _, _ := up.snapshot()
	assert.Empty(t, rows)
	assert.Empty(t, emails)
}

func TestApp_CatalogEndpoints(t *testing.T) {
	srv, client := newTestApp(t, &upstream{})

	status, health := do(t, client, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", health["status"])
	assert.EqualValues(t, 3, health["catalog"].(map[string]any)["products"])

	status, product := do(t, client, http.MethodGet, srv.URL+"/api/products/mic-1?lang=ru", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Микрофон", product["name"])
	assert.Nil(t, product["price"])

	status, _ = do(t, client, http.MethodPost, srv.URL+"/api/catalog/reload", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/catalog/reload", nil)
	require.NoError(t, err)
	req.Header.Set("api_key", "apitest")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := do(t, client, http.MethodGet, srv.URL+"/api/send-email", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method not allowed", body["message"])
}
