package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/storage"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return setupRouterWithStore(t, storage.NewMemoryStorage())
}

func setupRouterWithStore(t *testing.T, store storage.Store) *gin.Engine {
	t.Helper()
	publicDir := t.TempDir()
	viewsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "style.css"), []byte("body {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(viewsDir, "index.html"), []byte("<h1>Exercise tracker</h1>"), 0o644))

	app := NewApp(internal.NewNopLogger(), store,
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	)
	return NewRouter(app, RouterConfig{PublicDir: publicDir, ViewsDir: viewsDir})
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, r http.Handler, username string) internal.User {
	t.Helper()
	w := postForm(r, "/api/exercise/new-user", url.Values{"username": {username}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u internal.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	return u
}

func addExercise(t *testing.T, r http.Handler, form url.Values) internal.Exercise {
	t.Helper()
	w := postForm(r, "/api/exercise/add", form)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var e internal.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func fetchLog(t *testing.T, r http.Handler, query string) internal.Log {
	t.Helper()
	w := get(r, "/api/exercise/log?"+query)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var l internal.Log
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	return l
}

func TestNewUser(t *testing.T) {
	r := setupRouter(t)

	first := createUser(t, r, "alice")
	second := createUser(t, r, "alice")

	assert.Equal(t, "alice", first.Username)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestNewUser_JSONBodyAndRawShape(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(r, "/api/exercise/new-user", `{"username":"bob"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, "bob", raw["username"])
	assert.Contains(t, raw, "_id")
}

func TestNewUser_EmptyUsernameAccepted(t *testing.T) {
	r := setupRouter(t)

	u := createUser(t, r, "")
	assert.Equal(t, "", u.Username)
	assert.NotEmpty(t, u.ID)
}

func TestListUsers_InCreationOrder(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")
	b := createUser(t, r, "b")

	w := get(r, "/api/exercise/users")
	require.Equal(t, http.StatusOK, w.Code)

	var users []internal.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Equal(t, []internal.User{a, b}, users)
}

func TestListUsers_EmptyIsArray(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/api/exercise/users")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAddExercise_DefaultsToNow(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")

	e := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"run"}, "duration": {"30"}})

	assert.Equal(t, a.ID, e.UserID)
	assert.Equal(t, "run", e.Description)
	assert.Equal(t, 30.0, e.Duration)
	assert.Equal(t, "Tue Mar 05 2024 14:30:00 GMT+0000 (UTC)", e.Date)
}

func TestAddExercise_ExplicitDate(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")

	e := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"swim"}, "duration": {"12.5"}, "date": {"2020-01-01"}})

	assert.Equal(t, 12.5, e.Duration)
	assert.Equal(t, "Wed Jan 01 2020 00:00:00 GMT+0000 (UTC)", e.Date)
}

func TestAddExercise_JSONNumberDuration(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(r, "/api/exercise/add", `{"userId":"u1","description":"row","duration":45,"date":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"_id":"u1","description":"row","duration":45,"date":"Tue Mar 05 2024 14:30:00 GMT+0000 (UTC)"}`, w.Body.String())
}

func TestAddExercise_Validation(t *testing.T) {
	r := setupRouter(t)

	cases := []struct {
		name string
		form url.Values
		msg  string
	}{
		{"missing user", url.Values{"description": {"run"}, "duration": {"30"}}, "userId is required"},
		{"missing description", url.Values{"userId": {"u1"}, "duration": {"30"}}, "description is required"},
		{"bad duration", url.Values{"userId": {"u1"}, "description": {"run"}, "duration": {"abc"}}, `duration must be a number, got "abc"`},
		{"bad date", url.Values{"userId": {"u1"}, "description": {"run"}, "duration": {"30"}, "date": {"01/02/2020"}}, `date must be a date in yyyy-mm-dd format, got "01/02/2020"`},
		{"first error wins", url.Values{}, "userId is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(r, "/api/exercise/add", tc.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestAddExercise_UnknownUserStillStored(t *testing.T) {
	r := setupRouter(t)

	e := addExercise(t, r, url.Values{"userId": {"ghost"}, "description": {"run"}, "duration": {"1"}})
	assert.Equal(t, "ghost", e.UserID)
}

func TestLog_OnlyOwnersExercisesInOrder(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")
	b := createUser(t, r, "b")

	first := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"one"}, "duration": {"10"}})
	addExercise(t, r, url.Values{"userId": {b.ID}, "description": {"other"}, "duration": {"5"}})
	second := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"two"}, "duration": {"20"}})

	l := fetchLog(t, r, "userId="+a.ID)
	assert.Equal(t, a.ID, l.UserID)
	assert.Equal(t, "a", l.Username)
	assert.Equal(t, 2, l.Count)
	assert.Equal(t, []internal.Exercise{first, second}, l.Log)
}

func TestLog_LimitKeepsEarliest(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")
	first := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"one"}, "duration": {"10"}})
	addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"two"}, "duration": {"20"}})

	l := fetchLog(t, r, "userId="+a.ID+"&limit=1")
	assert.Equal(t, 1, l.Count)
	assert.Equal(t, []internal.Exercise{first}, l.Log)

	l = fetchLog(t, r, "userId="+a.ID+"&limit=0")
	assert.Equal(t, 0, l.Count)
	assert.Empty(t, l.Log)
}

func TestLog_DateRange(t *testing.T) {
	r := setupRouter(t)
	a := createUser(t, r, "a")
	for _, d := range []string{"2020-01-01", "2020-02-01", "2020-03-01"} {
		addExercise(t, r, url.Values{"userId": {a.ID}, "description": {d}, "duration": {"1"}, "date": {d}})
	}

	l := fetchLog(t, r, "userId="+a.ID+"&from=2020-02-01")
	require.Equal(t, 2, l.Count)
	assert.Equal(t, "2020-02-01", l.Log[0].Description)

	l = fetchLog(t, r, "userId="+a.ID+"&to=2020-02-01")
	require.Equal(t, 2, l.Count)
	assert.Equal(t, "2020-01-01", l.Log[0].Description)

	l = fetchLog(t, r, "userId="+a.ID+"&from=2020-01-15&to=2020-02-15")
	require.Equal(t, 1, l.Count)
	assert.Equal(t, "2020-02-01", l.Log[0].Description)
}

func TestLog_DateRangeInNumericNamedZone(t *testing.T) {
	app := NewApp(internal.NewNopLogger(), storage.NewMemoryStorage(),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.FixedZone("+0330", 12600)),
	)
	r := NewRouter(app, RouterConfig{})
	a := createUser(t, r, "a")
	e := addExercise(t, r, url.Values{"userId": {a.ID}, "description": {"run"}, "duration": {"30"}, "date": {"2020-01-01"}})
	assert.Equal(t, "Wed Jan 01 2020 03:30:00 GMT+0330 (+0330)", e.Date)

	l := fetchLog(t, r, "userId="+a.ID+"&from=2020-01-01&to=2020-01-01")
	assert.Equal(t, 1, l.Count)
	assert.Equal(t, []internal.Exercise{e}, l.Log)

	l = fetchLog(t, r, "userId="+a.ID+"&from=2020-01-02")
	assert.Equal(t, 0, l.Count)
}

func TestAddExercise_DurationCoercion(t *testing.T) {
	r := setupRouter(t)

	e := addExercise(t, r, url.Values{"userId": {"u1"}, "description": {"run"}, "duration": {" 30 "}})
	assert.Equal(t, 30.0, e.Duration)

	e = addExercise(t, r, url.Values{"userId": {"u1"}, "description": {"run"}, "duration": {"0x10"}})
	assert.Equal(t, 16.0, e.Duration)

	w := postJSON(r, "/api/exercise/add", `{"userId":"u1","description":"run","duration":1e3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"duration":1000`)
}

func TestLog_UnknownUser(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/api/exercise/log?userId=nobody")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown userId", w.Body.String())
}

func TestLog_BadQuery(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/api/exercise/log")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "userId is required", w.Body.String())

	w = get(r, "/api/exercise/log?userId=x&limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, `limit must be a non-negative integer, got "-1"`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	r := setupRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/exercise/unknown"},
		{http.MethodGet, "/api/exercise/add"},
		{http.MethodDelete, "/api/exercise/users"},
		{http.MethodGet, "/../etc/passwd"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Equal(t, "not found", w.Body.String(), tc.path)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	}
}

func TestStaticAndLanding(t *testing.T) {
	r := setupRouter(t)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Exercise tracker")

	w = get(r, "/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body {}", w.Body.String())

	for _, path := range []string{"/", "/style.css"} {
		req := httptest.NewRequest(http.MethodHead, path, nil)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Empty(t, w.Body.String(), path)
	}
}

func TestCORSAndRequestID(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/exercise/users", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = get(r, "/api/exercise/users")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

type brokenStore struct {
	storage.MemoryStorage
	panics bool
}

func (s *brokenStore) ListUsers(ctx context.Context) ([]internal.User, error) {
	if s.panics {
		panic("users table is gone")
	}
	return nil, errors.New("connection reset")
}

func TestStorageFailuresAre500(t *testing.T) {
	for _, panics := range []bool{false, true} {
		r := setupRouterWithStore(t, &brokenStore{panics: panics})

		w := get(r, "/api/exercise/users")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal Server Error", w.Body.String())
	}
}
