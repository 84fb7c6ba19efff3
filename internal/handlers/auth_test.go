package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uscann/chemtrack/internal/services"
	"github.com/uscann/chemtrack/internal/testutil"
)

func TestLoginRoutes(t *testing.T) {
	env := newTestEnv(t)
	f := env.fixture

	resp := env.do(t, http.MethodPost, "/login", map[string]string{"email": "alice@example.edu", "password": testutil.Password})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var user services.UserLogin
	testutil.ParseJSON(t, resp, &user)
	assert.True(t, user.Success)
	assert.Equal(t, f.Alice.ID, user.UserID)
	require.Len(t, user.PIs, 1)
	assert.Len(t, user.PIs[0].Rooms, 2)

	id, err := env.deps.Tokens.Parse(user.Token)
	require.NoError(t, err)
	assert.Equal(t, services.RoleUser, id.Role)

	resp = env.do(t, http.MethodPost, "/pi-login", map[string]string{"email": "curie@example.edu", "password": testutil.Password})
	testutil.AssertStatus(t, resp, http.StatusOK)
	var pi services.PILogin
	testutil.ParseJSON(t, resp, &pi)
	assert.Equal(t, "Marie Curie", pi.PIName)
	assert.Len(t, pi.Rooms, 2)

	resp = env.do(t, http.MethodPost, "/login", map[string]string{"email": "alice@example.edu", "password": "wrong"})
	testutil.AssertStatus(t, resp, http.StatusUnauthorized)
	body := errorBody(t, resp)
	assert.Equal(t, "Invalid email or password", body.Message)
	assert.Equal(t, "authentication", body.Type)

	resp = env.do(t, http.MethodPost, "/pi-login", map[string]string{"email": "curie@example.edu"})
	testutil.AssertStatus(t, resp, http.StatusBadRequest)
}
