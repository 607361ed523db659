package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorHandler "bookapi-backend/internal/domains/author/handler"
	bookHandler "bookapi-backend/internal/domains/book/handler"
	"bookapi-backend/internal/config"
	"bookapi-backend/internal/domains/user"
	userService "bookapi-backend/internal/domains/user/service"
	infraCache "bookapi-backend/internal/infrastructure/cache"
	"bookapi-backend/pkg/cache"
	"bookapi-backend/pkg/container"
	"bookapi-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *memStore
	redis  *miniredis.Miniredis
	c      *container.Container

	adminToken string
	userToken  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	store := newMemStore()
	c := &container.Container{
		Config: &config.Config{
			App:        config.AppConfig{Version: "test", DefaultAPIVersion: "1.0"},
			JWT:        config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 5},
			Pagination: config.PaginationConfig{DefaultLimit: 3, MaxLimit: 50},
		},
		Cache:      cache.NewRedisTagCache(client, cache.Options{Prefix: "test", TTL: time.Hour}),
		AuthorRepo: memAuthors{store},
		BookRepo:   memBooks{store},
		UserRepo:   memUsers{store},
		HealthChecks: map[string]container.HealthChecker{
			"redis": &infraCache.RedisClient{Client: client},
		},
	}
	c.Wire()

	adminToken, err := c.JWTManager.GenerateAccessToken("1", "admin@bookapi.com", jwt.RoleAdmin)
	require.NoError(t, err)
	userToken, err := c.JWTManager.GenerateAccessToken("2", "user@bookapi.com", jwt.RoleUser)
	require.NoError(t, err)

	return &testAPI{
		t:          t,
		router:     SetupRouter(c),
		store:      store,
		redis:      mr,
		c:          c,
		adminToken: adminToken,
		userToken:  userToken,
	}
}

type request struct {
	method string
	path   string
	body   interface{}
	token  string
	accept string
}

func (a *testAPI) do(r request) *httptest.ResponseRecorder {
	a.t.Helper()

	var body bytes.Buffer
	if r.body != nil {
		require.NoError(a.t, json.NewEncoder(&body).Encode(r.body))
	}

	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) get(path string) *httptest.ResponseRecorder {
	return a.do(request{method: http.MethodGet, path: path})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type bookJSON struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	CoverText string  `json:"coverText"`
	Comment   *string `json:"comment"`
	Author    *struct {
		ID        int64  `json:"id"`
		LastName  string `json:"lastName"`
		FirstName string `json:"firstName"`
	} `json:"author"`
	Links map[string]struct {
		Href string `json:"href"`
	} `json:"_links"`
}

type authorJSON struct {
	ID        int64  `json:"id"`
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Books     []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"books"`
	Links map[string]struct {
		Href string `json:"href"`
	} `json:"_links"`
}

type violationJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorJSON struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func ptr[T any](v T) *T { return &v }

func bookIDs(books []bookJSON) []int64 {
	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func (a *testAPI) seedBooks(n int) {
	for i := 1; i <= n; i++ {
		a.store.addBook(fmt.Sprintf("Title %d", i), fmt.Sprintf("Cover text %d", i), ptr(fmt.Sprintf("Comment %d", i)), nil)
	}
}

// ========================================
// PAGINATION
// ========================================

func TestListBooks_Pagination(t *testing.T) {
	api := newTestAPI(t)
	api.seedBooks(5)

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "defaults", query: "", want: []int64{1, 2, 3}},
		{name: "second page", query: "?page=2&limit=2", want: []int64{3, 4}},
		{name: "partial last page", query: "?page=2", want: []int64{4, 5}},
		{name: "past the end", query: "?page=9&limit=3", want: []int64{}},
		{name: "limit capped", query: "?limit=500", want: []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.get("/api/books" + tt.query)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, bookIDs(decode[[]bookJSON](t, w)))
		})
	}
}

func TestListBooks_InvalidPagination(t *testing.T) {
	api := newTestAPI(t)

	w := api.get("/api/books?page=0&limit=abc")
	require.Equal(t, http.StatusBadRequest, w.Code)

	violations := decode[[]violationJSON](t, w)
	fields := []string{}
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"page", "limit"}, fields)

	books, _ := api.store.listCalls()
	assert.Zero(t, books)
}

// ========================================
// CACHE
// ========================================

func TestListBooks_ServedFromCacheUntilBookWrite(t *testing.T) {
	api := newTestAPI(t)
	api.seedBooks(2)

	require.Equal(t, http.StatusOK, api.get("/api/books").Code)
	require.Equal(t, http.StatusOK, api.get("/api/books").Code)
	books, _ := api.store.listCalls()
	assert.Equal(t, 1, books, "second read must be a cache hit")

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/books",
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "Fresh title", "coverText": "Fresh cover text"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list := decode[[]bookJSON](t, api.get("/api/books"))
	assert.Equal(t, []int64{1, 2, 3}, bookIDs(list))
	books, _ = api.store.listCalls()
	assert.Equal(t, 2, books)
}

func TestListBooks_InvalidatedByAuthorWrite(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Original", nil)
	api.store.addBook("Title 1", "Cover text 1", nil, &authorID)

	list := decode[[]bookJSON](t, api.get("/api/books"))
	require.NotNil(t, list[0].Author)
	assert.Equal(t, "Original", list[0].Author.LastName)

	w := api.do(request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/authors/%d", authorID),
		token:  api.adminToken,
		body:   map[string]interface{}{"lastName": "Renamed"},
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	list = decode[[]bookJSON](t, api.get("/api/books"))
	require.NotNil(t, list[0].Author)
	assert.Equal(t, "Renamed", list[0].Author.LastName)
}

func TestListAuthors_InvalidatedByBookWrite(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", ptr("Firstname 1"))

	list := decode[[]authorJSON](t, api.get("/api/authors"))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Books)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/books",
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "Title 1", "coverText": "Cover text 1", "idAuthor": authorID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list = decode[[]authorJSON](t, api.get("/api/authors"))
	require.Len(t, list[0].Books, 1)
	assert.Equal(t, "Title 1", list[0].Books[0].Title)
}

func TestCache_FailOpen(t *testing.T) {
	api := newTestAPI(t)
	api.seedBooks(1)
	api.redis.SetError("LOADING redis is loading")

	w := api.get("/api/books")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]bookJSON](t, w), 1)

	w = api.do(request{
		method: http.MethodDelete,
		path:   "/api/books/1",
		token:  api.adminToken,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ========================================
// BOOKS
// ========================================

func TestCreateBook(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", ptr("Firstname 1"))

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/books",
		token:  api.adminToken,
		body: map[string]interface{}{
			"title":     "Title 1",
			"coverText": "Cover text 1",
			"comment":   "Nice read",
			"idAuthor":  authorID,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "http://example.com/api/books/1", w.Header().Get("Location"))

	b := decode[bookJSON](t, w)
	assert.Equal(t, int64(1), b.ID)
	require.NotNil(t, b.Author)
	assert.Equal(t, authorID, b.Author.ID)
	assert.Equal(t, "Firstname 1", b.Author.FirstName)
	assert.Equal(t, ptr("Nice read"), b.Comment)
}

func TestCreateBook_UnknownAuthorLeavesBookWithoutAuthor(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/books",
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "Title 1", "coverText": "Cover text 1", "idAuthor": 999},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, decode[bookJSON](t, w).Author)
	assert.NotContains(t, w.Body.String(), `"author"`)
}

func TestCreateBook_Validation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/books",
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "abc"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	violations := decode[[]violationJSON](t, w)
	require.Len(t, violations, 2)
	assert.Equal(t, "coverText", violations[0].Field)
	assert.Equal(t, "title", violations[1].Field)
	assert.Contains(t, violations[1].Message, "between 5 and 50")

	books, _ := api.store.counts()
	assert.Zero(t, books)
}

func TestCreateBook_MalformedBody(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+api.adminToken)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decode[errorJSON](t, w).Error.Code)
}

func TestUpdateBook_KeepsIdentityAndComment(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", nil)
	bookID := api.store.addBook("Title 1", "Cover text 1", ptr("Keep me"), &authorID)

	w := api.do(request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/books/%d", bookID),
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "New title", "coverText": "New cover text"},
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Empty(t, w.Body.String())

	w = api.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/books/%d", bookID), accept: "application/json; version=2.0"})
	require.Equal(t, http.StatusOK, w.Code)

	b := decode[bookJSON](t, w)
	assert.Equal(t, bookID, b.ID)
	assert.Equal(t, "New title", b.Title)
	assert.Equal(t, ptr("Keep me"), b.Comment)
	assert.Nil(t, b.Author, "omitting idAuthor clears the author")

	books, _ := api.store.counts()
	assert.Equal(t, 1, books)
}

func TestUpdateBook_NotFoundAndInvalid(t *testing.T) {
	api := newTestAPI(t)
	bookID := api.store.addBook("Title 1", "Cover text 1", nil, nil)

	w := api.do(request{
		method: http.MethodPut,
		path:   "/api/books/42",
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "New title", "coverText": "New cover text"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(request{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/books/%d", bookID),
		token:  api.adminToken,
		body:   map[string]interface{}{"title": "", "coverText": "New cover text"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	b := decode[bookJSON](t, api.get(fmt.Sprintf("/api/books/%d", bookID)))
	assert.Equal(t, "Title 1", b.Title)
}

func TestDeleteBook(t *testing.T) {
	api := newTestAPI(t)
	bookID := api.store.addBook("Title 1", "Cover text 1", nil, nil)
	path := fmt.Sprintf("/api/books/%d", bookID)

	w := api.do(request{method: http.MethodDelete, path: path, token: api.adminToken})
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, api.get(path).Code)

	w = api.do(request{method: http.MethodDelete, path: path, token: api.adminToken})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBook_NotFound(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/books/999", "/api/books/abc", "/api/books/-1"} {
		w := api.get(path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "NOT_FOUND", decode[errorJSON](t, w).Error.Code)
	}
}

// ========================================
// VERSIONING
// ========================================

func TestGetBook_VersionNegotiation(t *testing.T) {
	api := newTestAPI(t)
	bookID := api.store.addBook("Title 1", "Cover text 1", ptr("Versioned comment"), nil)
	path := fmt.Sprintf("/api/books/%d", bookID)

	tests := []struct {
		name        string
		accept      string
		wantVersion string
		wantComment bool
	}{
		{name: "no accept header", accept: "", wantVersion: "1.0", wantComment: false},
		{name: "explicit 1.0", accept: "application/json; version=1.0", wantVersion: "1.0", wantComment: false},
		{name: "2.0 exposes comment", accept: "application/json; version=2.0", wantVersion: "2.0", wantComment: true},
		{name: "later version", accept: "application/json;version=2.1", wantVersion: "2.1", wantComment: true},
		{name: "no version parameter", accept: "application/json", wantVersion: "1.0", wantComment: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(request{method: http.MethodGet, path: path, accept: tt.accept})
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantVersion, w.Header().Get(bookHandler.HeaderAPIVersion))

			b := decode[bookJSON](t, w)
			if tt.wantComment {
				assert.Equal(t, ptr("Versioned comment"), b.Comment)
			} else {
				assert.Nil(t, b.Comment)
			}
		})
	}
}

// ========================================
// AUTHORS
// ========================================

func TestAuthorLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/authors",
		token:  api.adminToken,
		body:   map[string]interface{}{"lastName": "Lastname 1", "firstName": "Firstname 1"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[authorJSON](t, w)
	assert.NotNil(t, created.Books)
	path := fmt.Sprintf("/api/authors/%d", created.ID)
	assert.Equal(t, "http://example.com"+path, w.Header().Get("Location"))

	w = api.do(request{
		method: http.MethodPut,
		path:   path,
		token:  api.adminToken,
		body:   map[string]interface{}{"lastName": "Renamed 1"},
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	got := decode[authorJSON](t, api.get(path))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Renamed 1", got.LastName)
	assert.Empty(t, got.FirstName)

	w = api.do(request{method: http.MethodDelete, path: path, token: api.adminToken})
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, api.get(path).Code)
}

func TestCreateAuthor_Validation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/authors",
		token:  api.adminToken,
		body:   map[string]interface{}{"lastName": "Zola", "firstName": "Em"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	violations := decode[[]violationJSON](t, w)
	require.Len(t, violations, 2)
	assert.Equal(t, "firstName", violations[0].Field)
	assert.Equal(t, "lastName", violations[1].Field)
}

func TestDeleteAuthor_CascadesToBooks(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", nil)
	otherID := api.store.addAuthor("Lastname 2", nil)
	owned := api.store.addBook("Title 1", "Cover text 1", nil, &authorID)
	kept := api.store.addBook("Title 2", "Cover text 2", nil, &otherID)

	// Warm the book list so the cascade must go through invalidation.
	require.Len(t, decode[[]bookJSON](t, api.get("/api/books")), 2)

	w := api.do(request{method: http.MethodDelete, path: fmt.Sprintf("/api/authors/%d", authorID), token: api.adminToken})
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, api.get(fmt.Sprintf("/api/books/%d", owned)).Code)
	assert.Equal(t, http.StatusOK, api.get(fmt.Sprintf("/api/books/%d", kept)).Code)
	assert.Equal(t, []int64{kept}, bookIDs(decode[[]bookJSON](t, api.get("/api/books"))))
}

func TestGetAuthor_RendersBooks(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", ptr("Firstname 1"))
	api.store.addBook("Title 1", "Cover text 1", ptr("hidden"), &authorID)
	api.store.addBook("Title 2", "Cover text 2", nil, &authorID)

	w := api.get(fmt.Sprintf("/api/authors/%d", authorID))
	require.Equal(t, http.StatusOK, w.Code)

	a := decode[authorJSON](t, w)
	require.Len(t, a.Books, 2)
	assert.Equal(t, "Title 1", a.Books[0].Title)
	assert.NotContains(t, w.Body.String(), "hidden")
}

// ========================================
// AUTHORIZATION
// ========================================

func TestWrites_RequireAdmin(t *testing.T) {
	api := newTestAPI(t)
	authorID := api.store.addAuthor("Lastname 1", nil)
	bookID := api.store.addBook("Title 1", "Cover text 1", nil, nil)

	validBook := map[string]interface{}{"title": "Title 9", "coverText": "Cover text 9"}
	validAuthor := map[string]interface{}{"lastName": "Lastname 9"}

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		message string
	}{
		{"create book", http.MethodPost, "/api/books", validBook, bookHandler.ForbiddenCreate},
		{"update book", http.MethodPut, fmt.Sprintf("/api/books/%d", bookID), validBook, bookHandler.ForbiddenUpdate},
		{"delete book", http.MethodDelete, fmt.Sprintf("/api/books/%d", bookID), nil, bookHandler.ForbiddenDelete},
		{"create author", http.MethodPost, "/api/authors", validAuthor, authorHandler.ForbiddenCreate},
		{"update author", http.MethodPut, fmt.Sprintf("/api/authors/%d", authorID), validAuthor, authorHandler.ForbiddenUpdate},
		{"delete author", http.MethodDelete, fmt.Sprintf("/api/authors/%d", authorID), nil, authorHandler.ForbiddenDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(request{method: tt.method, path: tt.path, body: tt.body})
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = api.do(request{method: tt.method, path: tt.path, body: tt.body, token: "not-a-jwt"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = api.do(request{method: tt.method, path: tt.path, body: tt.body, token: api.userToken})
			require.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, tt.message, decode[errorJSON](t, w).Error.Message)
		})
	}

	books, authors := api.store.counts()
	assert.Equal(t, 1, books)
	assert.Equal(t, 1, authors)
	assert.Equal(t, "Title 1", decode[bookJSON](t, api.get(fmt.Sprintf("/api/books/%d", bookID))).Title)
}

// ========================================
// HYPERMEDIA
// ========================================

func TestLinks_DependOnRole(t *testing.T) {
	api := newTestAPI(t)
	bookID := api.store.addBook("Title 1", "Cover text 1", nil, nil)
	self := fmt.Sprintf("http://example.com/api/books/%d", bookID)

	anon := decode[[]bookJSON](t, api.get("/api/books"))
	require.Len(t, anon, 1)
	assert.Equal(t, self, anon[0].Links["self"].Href)
	assert.NotContains(t, anon[0].Links, "update")
	assert.NotContains(t, anon[0].Links, "delete")

	// Same cached page, rendered for an admin.
	admin := decode[[]bookJSON](t, api.do(request{method: http.MethodGet, path: "/api/books", token: api.adminToken}))
	assert.Equal(t, self, admin[0].Links["update"].Href)
	assert.Equal(t, self, admin[0].Links["delete"].Href)

	books, _ := api.store.listCalls()
	assert.Equal(t, 1, books)

	plain := decode[bookJSON](t, api.do(request{method: http.MethodGet, path: fmt.Sprintf("/api/books/%d", bookID), token: api.userToken}))
	assert.Len(t, plain.Links, 1)
}

func TestLinks_BaseURL(t *testing.T) {
	api := newTestAPI(t)
	api.c.Config.App.BaseURL = "https://books.example.org/"
	api.c.Wire()
	api.router = SetupRouter(api.c)
	authorID := api.store.addAuthor("Lastname 1", nil)

	a := decode[authorJSON](t, api.get(fmt.Sprintf("/api/authors/%d", authorID)))
	assert.Equal(t, fmt.Sprintf("https://books.example.org/api/authors/%d", authorID), a.Links["self"].Href)
}

// ========================================
// LOGIN
// ========================================

func TestLoginCheck(t *testing.T) {
	api := newTestAPI(t)
	hash, err := userService.HashPassword("password")
	require.NoError(t, err)
	_, err = memUsers{api.store}.Create(context.Background(), &user.User{Email: "admin@bookapi.com", PasswordHash: hash, Role: jwt.RoleAdmin})
	require.NoError(t, err)

	w := api.do(request{
		method: http.MethodPost,
		path:   "/api/login_check",
		body:   map[string]string{"username": "admin@bookapi.com", "password": "password"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, token)

	w = api.do(request{
		method: http.MethodPost,
		path:   "/api/authors",
		token:  token,
		body:   map[string]string{"lastName": "Lastname 1"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(request{
		method: http.MethodPost,
		path:   "/api/login_check",
		body:   map[string]string{"username": "admin@bookapi.com", "password": "wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[errorJSON](t, w).Error.Code)
}

// ========================================
// OPERATIONS
// ========================================

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := api.get("/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Services["redis"])

	api.redis.Close()
	health = decode[struct {
		Status   string            `json:"status"`
		Services map[string]string `json:"services"`
	}](t, api.get("/api/health"))
	assert.Equal(t, "degraded", health.Status)

	w = api.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookapi_http_requests_total")
}
