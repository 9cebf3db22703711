package integration

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	client := requireAPI(t)

	status, env, err := client.Get("/api/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestRegistrationLifecycle(t *testing.T) {
	client := requireAPI(t)

	jpoID := createOpenDay(t, client, 10)
	userIDs := anyUserIDs(t, client, 1)

	status, env, err := client.Post("/api/registrations", map[string]any{
		"user_id": userIDs[0],
		"jpo_id":  jpoID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	var reg struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, "registered", reg.Status)

	// Duplicate registration is refused.
	status, env, err = client.Post("/api/registrations", map[string]any{
		"user_id": userIDs[0],
		"jpo_id":  jpoID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "déjà inscrit")

	// Cancel, then reactivate.
	status, env, err = client.Put("/api/registrations/"+itoa(reg.ID),
		map[string]any{"status": "unregistered"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, "unregistered", reg.Status)

	status, env, err = client.Put("/api/registrations/"+itoa(reg.ID),
		map[string]any{"status": "registered"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, "registered", reg.Status)
}

func TestCapacityCeiling(t *testing.T) {
	client := requireAPI(t)

	jpoID := createOpenDay(t, client, 1)
	userIDs := anyUserIDs(t, client, 2)

	status, _, err := client.Post("/api/registrations", map[string]any{
		"user_id": userIDs[0],
		"jpo_id":  jpoID,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	status, env, err := client.Post("/api/registrations", map[string]any{
		"user_id": userIDs[1],
		"jpo_id":  jpoID,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "complète")
}

func TestConcurrentRegistrationsRespectCapacity(t *testing.T) {
	client := requireAPI(t)

	const capacity = 3
	const attempts = 12

	jpoID := createOpenDay(t, client, capacity)
	userIDs := anyUserIDs(t, client, attempts)

	var wg sync.WaitGroup
	statuses := make([]int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status, _, err := client.Post("/api/registrations", map[string]any{
				"user_id": userIDs[i],
				"jpo_id":  jpoID,
			})
			if err == nil {
				statuses[i] = status
			}
		}(i)
	}
	wg.Wait()

	created := 0
	for _, s := range statuses {
		if s == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, capacity, created)

	// The open day must report exactly `capacity` active registrations.
	status, env, err := client.Get("/api/jpo/" + itoa(jpoID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var openDay struct {
		RegisteredCount int `json:"registered_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &openDay))
	assert.Equal(t, capacity, openDay.RegisteredCount)
}

func TestRegistrationAgainstUnknownOpenDay(t *testing.T) {
	client := requireAPI(t)
	userIDs := anyUserIDs(t, client, 1)

	status, env, err := client.Post("/api/registrations", map[string]any{
		"user_id": userIDs[0],
		"jpo_id":  99999999,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "complète")
}

func TestOpenDayCrud(t *testing.T) {
	client := requireAPI(t)

	jpoID := createOpenDay(t, client, 25)

	status, env, err := client.Get("/api/jpo/" + itoa(jpoID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var openDay struct {
		Name        string `json:"name"`
		MaxCapacity int    `json:"max_capacity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &openDay))
	assert.Equal(t, 25, openDay.MaxCapacity)

	status, env, err = client.Put("/api/jpo/"+itoa(jpoID),
		map[string]any{"max_capacity": 40})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &openDay))
	assert.Equal(t, 40, openDay.MaxCapacity)
}

func TestStatsEndpoints(t *testing.T) {
	client := requireAPI(t)

	status, env, err := client.Get("/api/stats/registrations")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env, err = client.Get("/api/stats/jpo")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestCommentFlow(t *testing.T) {
	client := requireAPI(t)

	jpoID := createOpenDay(t, client, 10)
	userIDs := anyUserIDs(t, client, 1)

	status, env, err := client.Post("/api/comments", map[string]any{
		"user_id": userIDs[0],
		"jpo_id":  jpoID,
		"content": "Des informations sur l'accès PMR ?",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	var comment struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))

	status, env, err = client.Put("/api/comments/"+itoa(comment.ID),
		map[string]any{"moderator_reply": "Oui, l'accès est prévu."})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var updated struct {
		ModeratorReply *string `json:"moderator_reply"`
		ReplyDate      *string `json:"reply_date"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.NotNil(t, updated.ModeratorReply)
	assert.NotNil(t, updated.ReplyDate)

	status, env, err = client.Post("/api/comments/"+itoa(comment.ID)+"/reply",
		map[string]any{"moderator_reply": "Un ascenseur dessert tous les étages."})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.NotNil(t, updated.ModeratorReply)
	assert.Equal(t, "Un ascenseur dessert tous les étages.", *updated.ModeratorReply)

	status, _, err = client.Delete("/api/comments/" + itoa(comment.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestRoleLifecycle(t *testing.T) {
	client := requireAPI(t)

	name := "qa-" + itoa(time.Now().UnixNano())
	status, env, err := client.Post("/api/roles", map[string]any{"role_name": name})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, status)

	var role struct {
		RoleID int64 `json:"role_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &role))

	status, _, err = client.Post("/api/roles", map[string]any{"role_name": name})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env, err = client.Get("/api/roles/" + itoa(role.RoleID) + "/users")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)

	var members struct {
		RoleID int64 `json:"role_id"`
		Count  int   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &members))
	assert.Equal(t, role.RoleID, members.RoleID)
	assert.Zero(t, members.Count)

	status, _, err = client.Delete("/api/roles/" + itoa(role.RoleID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}
