package integration

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// requireAPI skips the test when no API instance answers.
func requireAPI(t *testing.T) *Client {
	t.Helper()

	client := NewClient()
	if !client.Available() {
		t.Skip("API not reachable, skipping integration test")
	}
	return client
}

// createOpenDay provisions a fresh open day and returns its id. Cleanup
// removes it (registrations and comments cascade).
func createOpenDay(t *testing.T, client *Client, capacity int) int64 {
	t.Helper()

	campusID := anyCampusID(t, client)

	status, env, err := client.Post("/api/jpo", map[string]any{
		"name":         "JPO test " + time.Now().Format("20060102150405.000"),
		"date":         time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
		"max_capacity": capacity,
		"campus_id":    campusID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	var openDay struct {
		JpoID int64 `json:"jpo_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &openDay))

	t.Cleanup(func() {
		client.Delete("/api/jpo/" + itoa(openDay.JpoID))
	})

	return openDay.JpoID
}

// anyCampusID returns the first campus in the database.
func anyCampusID(t *testing.T, client *Client) int64 {
	t.Helper()

	status, env, err := client.Get("/api/campus")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var campuses []struct {
		CampusID int64 `json:"campus_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &campuses))
	require.NotEmpty(t, campuses, "seed the database before running integration tests")

	return campuses[0].CampusID
}

// anyUserIDs returns n distinct user ids.
func anyUserIDs(t *testing.T, client *Client, n int) []int64 {
	t.Helper()

	status, env, err := client.Get("/api/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var users []struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.GreaterOrEqual(t, len(users), n, "seed the database before running integration tests")

	ids := make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = users[i].UserID
	}
	return ids
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
