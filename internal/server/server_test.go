package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hance08/tally/internal/catalog"
	"github.com/hance08/tally/internal/categorize"
	"github.com/hance08/tally/internal/config"
	"github.com/hance08/tally/internal/constants"
	"github.com/hance08/tally/internal/logger"
	"github.com/hance08/tally/internal/model"
	"github.com/hance08/tally/internal/service"
	"github.com/hance08/tally/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSuggester struct {
	reply string
}

func (s staticSuggester) Suggest(ctx context.Context, system, prompt string) (string, error) {
	return s.reply, nil
}

type testEnv struct {
	handler  http.Handler
	repo     *store.Store
	checking *model.Account
}

func setupTestServer(t *testing.T, configure ...func(*config.Config)) *testEnv {
	t.Helper()
	ctx := context.Background()

	repo, err := store.NewStore(filepath.Join(t.TempDir(), "tally.db"), os.DirFS("../.."), store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	svcNoSnapshot := service.NewService(service.Deps{Repo: repo})
	_, err = svcNoSnapshot.Account.Seed(ctx)
	require.NoError(t, err)

	snapshot, err := catalog.Load(ctx, catalog.NewStoreSource(repo))
	require.NoError(t, err)
	checking, ok := snapshot.ByName("Business Checking")
	require.True(t, ok)

	cfg := config.NewDefault()
	cfg.Server.Mode = gin.TestMode
	for _, fn := range configure {
		fn(cfg)
	}

	engine := categorize.NewEngine(
		staticSuggester{reply: `{"accountName":"Meals","category":"Meals","memo":"Coffee","confidence":92}`},
		categorize.NewCorpus(nil),
		categorize.Options{Timeout: time.Second},
		logger.NewDiscard(),
	)
	svc := service.NewService(service.Deps{
		Repo:    repo,
		Catalog: snapshot,
		Engine:  engine,
		Config:  cfg,
	})

	return &testEnv{
		handler:  NewServer(svc, cfg.Server, logger.NewDiscard()).Handler(),
		repo:     repo,
		checking: checking,
	}
}

func performRequest(h http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, csv string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if csv != "" {
		fw, err := w.CreateFormFile("file", "statement.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csv))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

const statement = `"01/15/2024","-42.50","*","","STARBUCKS STORE 123"
"01/16/2024","-8.00","*","","STARBUCKS STORE 456"
`

func TestHealthz(t *testing.T) {
	env := setupTestServer(t)

	rec := performRequest(env.handler, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestImportReviewPostFlow(t *testing.T) {
	env := setupTestServer(t)

	body, ct := multipartBody(t, map[string]string{
		"sourceAccountId": env.checking.ID,
		"sourceType":      constants.SourceBank,
		"sourceName":      "Wells Fargo",
	}, statement)
	rec := performRequest(env.handler, http.MethodPost, "/api/import-csv", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	imported := decode(t, rec)
	assert.Equal(t, true, imported["success"])
	assert.EqualValues(t, 2, imported["count"])
	assert.Equal(t, "wells-fargo", imported["format"])
	assert.Equal(t, false, imported["hasMore"])
	txns := imported["transactions"].([]any)
	require.Len(t, txns, 2)
	first := txns[0].(map[string]any)
	assert.Equal(t, "Meals", first["suggestedCategory"])
	assert.Equal(t, constants.StatusPending, first["status"])

	rec = performRequest(env.handler, http.MethodGet, "/api/bank-transactions?status=Pending", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["value"], 2)

	firstID := first["id"].(string)
	rec = performRequest(env.handler, http.MethodPost, "/api/bank-transactions/"+firstID+"/approve",
		jsonBody(t, map[string]any{"memo": "Client coffee"}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = performRequest(env.handler, http.MethodPost, "/api/bank-transactions/approve-confident", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	secondID := txns[1].(map[string]any)["id"].(string)
	rec = performRequest(env.handler, http.MethodPost, "/api/post-transactions",
		jsonBody(t, map[string]any{"transactionIds": []string{firstID, secondID}}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decode(t, rec)["count"])

	rec = performRequest(env.handler, http.MethodPost, "/api/post-transactions",
		jsonBody(t, map[string]any{"transactionIds": []string{firstID}}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])

	posted, err := env.repo.GetBankTransaction(context.Background(), firstID)
	require.NoError(t, err)
	require.NotNil(t, posted.JournalEntryID)
	entry, err := env.repo.GetJournalEntry(context.Background(), *posted.JournalEntryID)
	require.NoError(t, err)
	assert.Equal(t, "Client coffee", entry.Lines[0].Description)
}

func TestImportBadRequests(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name   string
		fields map[string]string
		csv    string
		want   string
	}{
		{"no file", map[string]string{"sourceType": constants.SourceBank}, "", "No file uploaded"},
		{"unknown account", map[string]string{"sourceType": constants.SourceBank, "sourceAccountId": "nope"}, statement, "Source account not found"},
		{"unsupported format", map[string]string{"sourceType": constants.SourceBank}, "foo,bar\nbaz,qux\n", "Unsupported CSV format"},
		{"bad offset", map[string]string{"sourceType": constants.SourceBank, "offset": "-1"}, statement, "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, tt.csv)
			rec := performRequest(env.handler, http.MethodPost, "/api/import-csv", body, ct)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			out := decode(t, rec)
			assert.Contains(t, out["error"], tt.want)
			assert.NotContains(t, out, "details")
		})
	}
}

func TestImportRejectsOversizedUpload(t *testing.T) {
	env := setupTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxUploadBytes = 1024
	})
	large := strings.Repeat(`"01/15/2024","-42.50","*","","STARBUCKS STORE 123"`+"\n", 4000)

	t.Run("declared length", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"sourceType": constants.SourceBank}, large)
		rec := performRequest(env.handler, http.MethodPost, "/api/import-csv", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "file too large (max 1024 bytes)", decode(t, rec)["error"])
	})

	t.Run("streamed body", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"sourceType": constants.SourceBank}, large)
		req := httptest.NewRequest(http.MethodPost, "/api/import-csv", io.NopCloser(body))
		req.ContentLength = -1
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("file over limit within body allowance", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"sourceType": constants.SourceBank}, large[:4096])
		rec := performRequest(env.handler, http.MethodPost, "/api/import-csv", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	bank, err := env.repo.ListBankTransactions(context.Background(), store.BankTransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, bank)
}

func TestPostRequiresIDs(t *testing.T) {
	env := setupTestServer(t)

	for _, body := range []*bytes.Buffer{nil, jsonBody(t, map[string]any{"transactionIds": []string{}})} {
		rec := performRequest(env.handler, http.MethodPost, "/api/post-transactions", body, "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No transaction IDs provided", decode(t, rec)["error"])
	}

	rec := performRequest(env.handler, http.MethodPost, "/api/post-transactions",
		bytes.NewBufferString("{not json"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostRuleViolationReturnsDetails(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	sourceID := env.checking.ID
	txn := &model.BankTransaction{
		SourceType:      constants.SourceBank,
		SourceAccountID: &sourceID,
		TransactionDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(-5),
		Description:     "UNCATEGORIZED THING",
		Status:          constants.StatusApproved,
	}
	require.NoError(t, env.repo.InsertBankTransaction(ctx, txn))

	rec := performRequest(env.handler, http.MethodPost, "/api/post-transactions",
		jsonBody(t, map[string]any{"transactionIds": []string{txn.ID}}), "application/json")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	out := decode(t, rec)
	assert.Equal(t, "Failed to post transactions", out["error"])
	assert.True(t, strings.Contains(out["details"].(string), txn.ID))
}

func TestReviewErrors(t *testing.T) {
	env := setupTestServer(t)

	rec := performRequest(env.handler, http.MethodPost, "/api/bank-transactions/missing/reject", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(env.handler, http.MethodGet, "/api/bank-transactions?status=Bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(env.handler, http.MethodPost, "/api/bank-transactions/approve-confident",
		jsonBody(t, map[string]any{"threshold": 150}), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetDB(t *testing.T) {
	env := setupTestServer(t)

	body, ct := multipartBody(t, map[string]string{"sourceType": constants.SourceBank}, statement)
	rec := performRequest(env.handler, http.MethodPost, "/api/import-csv", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(env.handler, http.MethodPost, "/api/reset-db", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Database reset successfully", out["message"])

	rec = performRequest(env.handler, http.MethodGet, "/api/bank-transactions", nil, "")
	assert.Empty(t, decode(t, rec)["value"])

	accounts, err := env.repo.GetAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, len(service.DefaultChart()))
}
