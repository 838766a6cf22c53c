package handlers_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/auth"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/dariovidovic/NWP-LV7/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupServer boots the real router against a fresh in-memory database and
// returns a running test server.
func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))

	var err error
	db.DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.DB.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMembership{}))

	require.NoError(t, auth.Init("test-signing-secret"))

	srv := httptest.NewServer(router.New("test-session-secret", "../../web/templates/*.html"))
	t.Cleanup(srv.Close)

	return srv
}

// newClient returns an HTTP client with its own cookie jar, i.e. one browser
// session.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)

	return resp, readBody(t, resp)
}

func postForm(t *testing.T, client *http.Client, url string, values url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := client.PostForm(url, values)
	require.NoError(t, err)

	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(body)
}

func registerUser(t *testing.T, client *http.Client, baseURL, first, last, email, password string) {
	t.Helper()

	resp, _ := postForm(t, client, baseURL+"/register", url.Values{
		"first_name":       {first},
		"last_name":        {last},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func loginUser(t *testing.T, client *http.Client, baseURL, email, password string) {
	t.Helper()

	resp, body := postForm(t, client, baseURL+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Welcome")
}

func createProject(t *testing.T, client *http.Client, baseURL, title, start, end string) *models.Project {
	t.Helper()

	resp, body := postForm(t, client, baseURL+"/projects/new", url.Values{
		"title":       {title},
		"description": {"test project"},
		"price":       {"1000"},
		"start_date":  {start},
		"end_date":    {end},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Project successfully added.")

	var project models.Project
	require.NoError(t, db.DB.Where("title = ?", title).First(&project).Error)

	return &project
}

func findUserByEmail(t *testing.T, email string) *models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.DB.Where("email = ?", strings.ToLower(email)).First(&user).Error)

	return &user
}
