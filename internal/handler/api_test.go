package handler_test

import (
	"DocVault/config"
	"DocVault/internal/repo"
	"DocVault/internal/storage"
	"DocVault/router"
	"DocVault/utils"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupAPI wires a fresh database, a local blob store and the real router.
func setupAPI(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitConfig()
	config.AppConfig.MaxUploadBytes = 64 * 1024

	if err := repo.InitSqliteTest(filepath.Join(t.TempDir(), "docvault.db")); err != nil {
		t.Fatalf("init test db failed: %v", err)
	}
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("init storage failed: %v", err)
	}
	storage.Default = store

	return router.InitRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, r *gin.Engine, name, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{
		"name": name, "email": email, "password": password,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode signup response failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("signup should return a token")
	}
	return resp.Token
}

func uploadFile(t *testing.T, r *gin.Engine, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestSignupLoginFlow tests the auth endpoints end to end.
func TestSignupLoginFlow(t *testing.T) {
	r := setupAPI(t)

	token := signup(t, r, "Ann", "a@x.com", "pw123456")
	claims, err := utils.VerifyToken(token)
	if err != nil {
		t.Fatalf("signup token should verify: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Name != "Ann" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Duplicate email is a conflict, even though the first signup already
	// passed the same application-level checks.
	w := doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{
		"name": "Ann2", "email": "a@x.com", "password": "other",
	}, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup should 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "pw123456",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login should 200, got %d body %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("decode login response failed: %v", err)
	}
	if loginResp.User.Email != "a@x.com" {
		t.Fatalf("unexpected login user: %+v", loginResp.User)
	}
	claims, err = utils.VerifyToken(loginResp.Token)
	if err != nil || claims.Email != "a@x.com" {
		t.Fatalf("login token should carry the email, got %v / %+v", err, claims)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "wrong",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password should 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "a@x.com"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing fields should 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/signup", gin.H{"name": "x", "email": "y@x.com"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing signup fields should 400, got %d", w.Code)
	}
}

// TestDocumentLifecycle tests upload, list, download and delete for one user.
func TestDocumentLifecycle(t *testing.T) {
	r := setupAPI(t)
	token := signup(t, r, "Ann", "a@x.com", "pw123456")

	content := []byte("%PDF-")
	w := uploadFile(t, r, token, "report.pdf", content)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload should 201, got %d body %s", w.Code, w.Body.String())
	}
	var uploaded struct {
		ID       uint64 `json:"id"`
		Filename string `json:"filename"`
		Filesize int64  `json:"filesize"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response failed: %v", err)
	}
	if uploaded.Filename != "report.pdf" || uploaded.Filesize != 5 || uploaded.ID == 0 {
		t.Fatalf("unexpected upload response: %+v", uploaded)
	}

	w = doJSON(t, r, http.MethodGet, "/documents/?search=rep", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list should 200, got %d", w.Code)
	}
	var listed []struct {
		ID       uint64 `json:"id"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != uploaded.ID {
		t.Fatalf("search=rep should return the uploaded document, got %+v", listed)
	}

	w = doJSON(t, r, http.MethodGet, "/documents/?search=zzz", nil, token)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("non-matching search should return an empty array, got %s", w.Body.String())
	}

	path := "/documents/" + strconv.FormatUint(uploaded.ID, 10)
	w = doJSON(t, r, http.MethodGet, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("download should 200, got %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Fatal("downloaded bytes must match the uploaded content")
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "report.pdf") {
		t.Fatalf("attachment disposition should carry the display name, got %q", cd)
	}

	w = doJSON(t, r, http.MethodDelete, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete should 200, got %d body %s", w.Code, w.Body.String())
	}

	// The row is gone, so a repeat download is indistinguishable from a
	// document that never existed.
	w = doJSON(t, r, http.MethodGet, path, nil, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("download after delete should 403, got %d", w.Code)
	}
}

// TestUploadValidation tests upload rejections.
func TestUploadValidation(t *testing.T) {
	r := setupAPI(t)
	token := signup(t, r, "Ann", "a@x.com", "pw123456")

	w := uploadFile(t, r, "", "report.pdf", []byte("%PDF-"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token should 401, got %d", w.Code)
	}

	w = uploadFile(t, r, "bad.token.here", "report.pdf", []byte("%PDF-"))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should 401, got %d", w.Code)
	}

	w = uploadFile(t, r, token, "malware.exe", []byte("MZ"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("disallowed extension should 400, got %d", w.Code)
	}

	w = uploadFile(t, r, token, "report.pdf", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty file should 400, got %d", w.Code)
	}

	// No file part at all.
	w = doJSON(t, r, http.MethodPost, "/documents/upload", gin.H{}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file part should 400, got %d", w.Code)
	}

	// Body over the configured cap is refused during multipart parsing.
	big := bytes.Repeat([]byte("a"), int(config.AppConfig.MaxUploadBytes)+1)
	w = uploadFile(t, r, token, "big.pdf", big)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized upload should 400, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/documents/", nil, token)
	var listed []json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response failed: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("rejected uploads must not create catalog rows, got %d", len(listed))
	}
}

// TestCrossUserIsolation tests ownership enforcement over HTTP.
func TestCrossUserIsolation(t *testing.T) {
	r := setupAPI(t)
	tokenA := signup(t, r, "Ann", "a@x.com", "pw123456")
	tokenB := signup(t, r, "Bob", "b@x.com", "pw123456")

	w := uploadFile(t, r, tokenA, "report.pdf", []byte("%PDF-"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload should 201, got %d", w.Code)
	}
	var uploaded struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode upload response failed: %v", err)
	}
	path := "/documents/" + strconv.FormatUint(uploaded.ID, 10)

	w = doJSON(t, r, http.MethodGet, "/documents/", nil, tokenB)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("user B must not list user A's documents, got %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, path, nil, tokenB)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign download should 403, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, path, nil, tokenB)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign delete should 403, got %d", w.Code)
	}

	// A nonexistent id gets the same response as a foreign one.
	w = doJSON(t, r, http.MethodGet, "/documents/999999", nil, tokenB)
	if w.Code != http.StatusForbidden {
		t.Fatalf("nonexistent id should also 403, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, path, nil, tokenA)
	if w.Code != http.StatusOK {
		t.Fatalf("owner download should still work, got %d", w.Code)
	}
}

// TestListSorting tests the sort query parameter over HTTP.
func TestListSorting(t *testing.T) {
	r := setupAPI(t)
	token := signup(t, r, "Ann", "a@x.com", "pw123456")

	for name, size := range map[string]int{"small.pdf": 2, "large.pdf": 40, "medium.pdf": 10} {
		w := uploadFile(t, r, token, name, bytes.Repeat([]byte("x"), size))
		if w.Code != http.StatusCreated {
			t.Fatalf("upload %s should 201, got %d", name, w.Code)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/documents/?sort=size_desc", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("list should 200, got %d", w.Code)
	}
	var listed []struct {
		Filesize int64 `json:"filesize"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Filesize > listed[i-1].Filesize {
			t.Fatal("size_desc must be non-increasing by size")
		}
	}

	w = doJSON(t, r, http.MethodGet, "/documents/?sort=size_asc", nil, token)
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response failed: %v", err)
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].Filesize < listed[i-1].Filesize {
			t.Fatal("size_asc must be non-decreasing by size")
		}
	}

	// Unknown sort values are not an error.
	w = doJSON(t, r, http.MethodGet, "/documents/?sort=bogus", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("unknown sort should fall back, got %d", w.Code)
	}
}
