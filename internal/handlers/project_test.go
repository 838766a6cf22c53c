package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLifecycle(t *testing.T) {
	srv := setupServer(t)
	client := newClient(t)

	registerUser(t, client, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	loginUser(t, client, srv.URL, "ana@example.com", "password1")

	project := createProject(t, client, srv.URL, "Project P", "2024-01-01", "2024-06-01")
	assert.False(t, project.Archived)

	t.Run("new project appears in myprojects", func(t *testing.T) {
		_, body := get(t, client, srv.URL+"/projects/myprojects")
		assert.Contains(t, body, "Project P")
		assert.Contains(t, body, "Ana Anic")
	})

	t.Run("detail view shows the project", func(t *testing.T) {
		_, body := get(t, client, srv.URL+fmt.Sprintf("/projects/%d", project.ID))
		assert.Contains(t, body, "Project P")
		assert.Contains(t, body, "2024-01-01")
	})

	t.Run("invalid date ordering surfaces the validation message", func(t *testing.T) {
		_, body := postForm(t, client, srv.URL+"/projects/new", url.Values{
			"title":       {"Backwards"},
			"description": {"bad dates"},
			"start_date":  {"2024-06-01"},
			"end_date":    {"2024-01-01"},
		})
		assert.Contains(t, body, "End date must be after start date")

		var count int64
		require.NoError(t, db.DB.Model(&models.Project{}).Where("title = ?", "Backwards").Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("archiving moves the project to the archive view", func(t *testing.T) {
		_, body := postForm(t, client, srv.URL+fmt.Sprintf("/projects/archive/%d", project.ID), url.Values{
			"_method": {"PUT"},
		})
		assert.Contains(t, body, "Project archived successfully.")
		assert.NotContains(t, body, "Project P")

		_, archiveBody := get(t, client, srv.URL+"/projects/archive")
		assert.Contains(t, archiveBody, "Project P")
	})

	t.Run("archiving twice still succeeds", func(t *testing.T) {
		_, body := postForm(t, client, srv.URL+fmt.Sprintf("/projects/archive/%d", project.ID), url.Values{
			"_method": {"PUT"},
		})
		assert.Contains(t, body, "Project archived successfully.")

		var reloaded models.Project
		require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
		assert.True(t, reloaded.Archived)
	})

	t.Run("archiving a missing project flashes not found", func(t *testing.T) {
		_, body := postForm(t, client, srv.URL+"/projects/archive/9999", url.Values{
			"_method": {"PUT"},
		})
		assert.Contains(t, body, "Project not found.")
	})
}

func TestProjectEdit(t *testing.T) {
	srv := setupServer(t)
	client := newClient(t)

	registerUser(t, client, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	loginUser(t, client, srv.URL, "ana@example.com", "password1")

	project := createProject(t, client, srv.URL, "Editable", "2024-01-01", "2024-06-01")

	editURL := srv.URL + fmt.Sprintf("/projects/%d/edit", project.ID)

	t.Run("full edit updates every field", func(t *testing.T) {
		_, body := postForm(t, client, editURL, url.Values{
			"_method":     {"PUT"},
			"title":       {"Renamed"},
			"description": {"new description"},
			"price":       {"2500"},
			"work_log":    {"kickoff done"},
			"start_date":  {"2024-01-01"},
			"end_date":    {"2024-09-01"},
		})
		assert.Contains(t, body, "Project successfully updated.")

		var reloaded models.Project
		require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
		assert.Equal(t, "Renamed", reloaded.Title)
		assert.Equal(t, 2500.0, reloaded.Price)
		assert.Equal(t, project.LeaderID, reloaded.LeaderID)
	})

	t.Run("JSON clients get the updated record back", func(t *testing.T) {
		form := url.Values{
			"title":       {"Renamed again"},
			"description": {"json description"},
			"price":       {"3000"},
			"start_date":  {"2024-01-01"},
			"end_date":    {"2024-10-01"},
		}

		req, err := http.NewRequest(http.MethodPut, editURL, strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Title    string  `json:"title"`
			Price    float64 `json:"price"`
			EndDate  string  `json:"end_date"`
			Archived bool    `json:"archived"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "Renamed again", result.Title)
		assert.Equal(t, 3000.0, result.Price)
		assert.Equal(t, "2024-10-01", result.EndDate)
		assert.False(t, result.Archived)
	})

	t.Run("edit form 404s for a missing project", func(t *testing.T) {
		resp, _ := get(t, client, srv.URL+"/projects/9999/edit")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestProjectDelete(t *testing.T) {
	srv := setupServer(t)
	client := newClient(t)

	registerUser(t, client, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	registerUser(t, newClient(t), srv.URL, "Ivo", "Ivic", "ivo@example.com", "password1")
	loginUser(t, client, srv.URL, "ana@example.com", "password1")

	project := createProject(t, client, srv.URL, "Doomed", "2024-01-01", "2024-06-01")

	ivo := findUserByEmail(t, "ivo@example.com")

	_, body := postForm(t, client, srv.URL+fmt.Sprintf("/projects/%d/add", project.ID), url.Values{
		"user_id": {fmt.Sprint(ivo.ID)},
	})
	require.Contains(t, body, "Member successfully added to the project.")

	_, body = postForm(t, client, srv.URL+fmt.Sprintf("/projects/%d", project.ID), url.Values{
		"_method": {"DELETE"},
	})
	assert.Contains(t, body, "Project successfully deleted.")
	assert.NotContains(t, body, "Doomed")

	var projectCount int64
	require.NoError(t, db.DB.Model(&models.Project{}).Where("id = ?", project.ID).Count(&projectCount).Error)
	assert.Zero(t, projectCount)

	// Membership rows are cleaned up with the project.
	var membershipCount int64
	require.NoError(t, db.DB.Model(&models.ProjectMembership{}).
		Where("project_id = ?", project.ID).Count(&membershipCount).Error)
	assert.Zero(t, membershipCount)
}

func TestAddMember(t *testing.T) {
	srv := setupServer(t)

	leader := newClient(t)
	registerUser(t, leader, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	registerUser(t, newClient(t), srv.URL, "Ivo", "Ivic", "ivo@example.com", "password1")
	loginUser(t, leader, srv.URL, "ana@example.com", "password1")

	project := createProject(t, leader, srv.URL, "Shared", "2024-01-01", "2024-06-01")
	ivo := findUserByEmail(t, "ivo@example.com")

	addURL := srv.URL + fmt.Sprintf("/projects/%d/add", project.ID)

	t.Run("candidate list excludes the requesting user", func(t *testing.T) {
		_, body := get(t, leader, addURL)
		assert.Contains(t, body, "Ivo Ivic")
		assert.NotContains(t, body, "Ana Anic")
	})

	t.Run("adding a member succeeds", func(t *testing.T) {
		_, body := postForm(t, leader, addURL, url.Values{
			"user_id": {fmt.Sprint(ivo.ID)},
		})
		assert.Contains(t, body, "Member successfully added to the project.")
	})

	t.Run("second add re-renders the form with a duplicate error", func(t *testing.T) {
		resp, body := postForm(t, leader, addURL, url.Values{
			"user_id": {fmt.Sprint(ivo.ID)},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "User is already added to the project.")
		assert.Contains(t, body, "Ivo Ivic")

		var count int64
		require.NoError(t, db.DB.Model(&models.ProjectMembership{}).
			Where("member_id = ? AND project_id = ?", ivo.ID, project.ID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing user id flashes an error on the project page", func(t *testing.T) {
		_, body := postForm(t, leader, addURL, url.Values{})
		assert.Contains(t, body, "User ID is missing.")
	})

	t.Run("member sees the project with the leader name resolved", func(t *testing.T) {
		member := newClient(t)
		loginUser(t, member, srv.URL, "ivo@example.com", "password1")

		_, body := get(t, member, srv.URL+"/projects/member")
		assert.Contains(t, body, "Shared")
		assert.Contains(t, body, "Leader: Ana Anic")
	})
}

func TestMemberWorkLogEdit(t *testing.T) {
	srv := setupServer(t)

	leader := newClient(t)
	registerUser(t, leader, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	registerUser(t, newClient(t), srv.URL, "Ivo", "Ivic", "ivo@example.com", "password1")
	loginUser(t, leader, srv.URL, "ana@example.com", "password1")

	project := createProject(t, leader, srv.URL, "Logged", "2024-01-01", "2024-06-01")
	ivo := findUserByEmail(t, "ivo@example.com")

	_, body := postForm(t, leader, srv.URL+fmt.Sprintf("/projects/%d/add", project.ID), url.Values{
		"user_id": {fmt.Sprint(ivo.ID)},
	})
	require.Contains(t, body, "Member successfully added to the project.")

	member := newClient(t)
	loginUser(t, member, srv.URL, "ivo@example.com", "password1")

	editURL := srv.URL + fmt.Sprintf("/projects/member/%d/edit", project.ID)

	t.Run("member can update the work log", func(t *testing.T) {
		_, body := postForm(t, member, editURL, url.Values{
			"_method":  {"PUT"},
			"work_log": {"tests written"},
		})
		assert.Contains(t, body, "Project successfully updated.")

		var reloaded models.Project
		require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
		assert.Equal(t, "tests written", reloaded.WorkLog)

		// Nothing else moved.
		assert.Equal(t, "Logged", reloaded.Title)
	})

	t.Run("missing work log value is a bad request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, editURL, strings.NewReader(""))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := member.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing project redirects with a flash", func(t *testing.T) {
		_, body := postForm(t, member, srv.URL+"/projects/member/9999/edit", url.Values{
			"_method":  {"PUT"},
			"work_log": {"orphan"},
		})
		assert.Contains(t, body, "Project not found.")
	})
}

func TestArchiveViewUnion(t *testing.T) {
	srv := setupServer(t)

	leader := newClient(t)
	registerUser(t, leader, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	registerUser(t, newClient(t), srv.URL, "Ivo", "Ivic", "ivo@example.com", "password1")
	loginUser(t, leader, srv.URL, "ana@example.com", "password1")

	led := createProject(t, leader, srv.URL, "Led archived", "2024-01-01", "2024-06-01")
	shared := createProject(t, leader, srv.URL, "Member archived", "2024-01-01", "2024-06-01")
	createProject(t, leader, srv.URL, "Still active", "2024-01-01", "2024-06-01")

	ivo := findUserByEmail(t, "ivo@example.com")

	_, body := postForm(t, leader, srv.URL+fmt.Sprintf("/projects/%d/add", shared.ID), url.Values{
		"user_id": {fmt.Sprint(ivo.ID)},
	})
	require.Contains(t, body, "Member successfully added to the project.")

	for _, id := range []uint{led.ID, shared.ID} {
		postForm(t, leader, srv.URL+fmt.Sprintf("/projects/archive/%d", id), url.Values{
			"_method": {"PUT"},
		})
	}

	t.Run("leader archive lists archived led projects only", func(t *testing.T) {
		_, body := get(t, leader, srv.URL+"/projects/archive")
		assert.Contains(t, body, "Led archived")
		assert.Contains(t, body, "Member archived")
		assert.NotContains(t, body, "Still active")
	})

	t.Run("member archive lists archived member projects with leader name", func(t *testing.T) {
		member := newClient(t)
		loginUser(t, member, srv.URL, "ivo@example.com", "password1")

		_, body := get(t, member, srv.URL+"/projects/archive")
		assert.Contains(t, body, "Member archived")
		assert.Contains(t, body, "Leader: Ana Anic")
		assert.NotContains(t, body, "Led archived")
	})

	t.Run("myprojects excludes archived projects", func(t *testing.T) {
		_, body := get(t, leader, srv.URL+"/projects/myprojects")
		assert.Contains(t, body, "Still active")
		assert.NotContains(t, body, "Led archived")
	})

	t.Run("member view excludes archived projects", func(t *testing.T) {
		member := newClient(t)
		loginUser(t, member, srv.URL, "ivo@example.com", "password1")

		_, body := get(t, member, srv.URL+"/projects/member")
		assert.NotContains(t, body, "Member archived")
	})
}

func TestUnknownLeaderFallback(t *testing.T) {
	srv := setupServer(t)

	leader := newClient(t)
	registerUser(t, leader, srv.URL, "Ana", "Anic", "ana@example.com", "password1")
	registerUser(t, newClient(t), srv.URL, "Ivo", "Ivic", "ivo@example.com", "password1")
	loginUser(t, leader, srv.URL, "ana@example.com", "password1")

	project := createProject(t, leader, srv.URL, "Dangling", "2024-01-01", "2024-06-01")
	ivo := findUserByEmail(t, "ivo@example.com")

	_, body := postForm(t, leader, srv.URL+fmt.Sprintf("/projects/%d/add", project.ID), url.Values{
		"user_id": {fmt.Sprint(ivo.ID)},
	})
	require.Contains(t, body, "Member successfully added to the project.")

	// Drop the leader record out from under the project.
	ana := findUserByEmail(t, "ana@example.com")
	require.NoError(t, db.DB.Unscoped().Delete(&models.User{}, ana.ID).Error)

	member := newClient(t)
	loginUser(t, member, srv.URL, "ivo@example.com", "password1")

	_, memberBody := get(t, member, srv.URL+"/projects/member")
	assert.Contains(t, memberBody, "Dangling")
	assert.Contains(t, memberBody, "Leader: Unknown")
}
