package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityClientGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_idp", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "user_1",
				"first_name": "Ada",
				"last_name": "Lovelace",
				"image_url": "https://img.example.com/ada.png",
				"primary_email_address_id": "idn_2",
				"email_addresses": [
					{"id": "idn_1", "email_address": "old@example.com"},
					{"id": "idn_2", "email_address": "ada@example.com"}
				]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL+"/v1/", "sk_idp")

	user, err := client.GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.PrimaryEmail())
	assert.Equal(t, "Ada Lovelace", user.FullName())

	_, err = client.GetUser(context.Background(), "user_missing")
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}
