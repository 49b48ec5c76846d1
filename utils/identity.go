package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrIdentityNotFound = errors.New("identity provider: user not found")

type IdentityUser struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	ImageURL              string `json:"image_url"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (u *IdentityUser) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func (u *IdentityUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IdentityClient looks up users in the hosted identity provider's backend API.
type IdentityClient struct {
	client *resty.Client
}

func NewIdentityClient(baseURL, secretKey string) *IdentityClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetAuthToken(secretKey).
		SetHeader("Accept", "application/json")
	return &IdentityClient{client: client}
}

func (c *IdentityClient) GetUser(ctx context.Context, userID string) (*IdentityUser, error) {
	var user IdentityUser
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(&user).
		Get("/users/{id}")
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, ErrIdentityNotFound
	case resp.IsError():
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return &user, nil
}
