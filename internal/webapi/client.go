// Package webapi is the typed client for the FilipPoints backend.
package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/filippoints/filippoints-cli/internal/httpclient"
	"github.com/filippoints/filippoints-cli/internal/person"
)

const (
	// DefaultPeoplePath is the people collection path appended to the endpoint
	DefaultPeoplePath = "/api/people/"

	// resultsField is the array field of a paginated envelope
	resultsField = "results"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/filippoints/filippoints-cli/internal/webapi Client

// Client fetches people from the backend
type Client interface {
	// GetPeople returns at most limit people in backend order
	GetPeople(ctx context.Context, limit int) ([]person.Person, error)
}

type httpAPIClient struct {
	httpClient httpclient.Client
	endpoint   string
	peoplePath string
}

// NewClient creates a backend client rooted at endpoint (scheme and host, optional base path).
func NewClient(httpClient httpclient.Client, endpoint, peoplePath string) (Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if peoplePath == "" {
		peoplePath = DefaultPeoplePath
	}
	return &httpAPIClient{
		httpClient: httpClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		peoplePath: "/" + strings.TrimPrefix(peoplePath, "/"),
	}, nil
}

func (c *httpAPIClient) peopleURL(limit int) string {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	return c.endpoint + c.peoplePath + "?" + query.Encode()
}

// GetPeople fetches the first page of people
func (c *httpAPIClient) GetPeople(ctx context.Context, limit int) ([]person.Person, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	body, err := c.httpClient.Get(ctx, c.peopleURL(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch people: %w", err)
	}

	people, err := decodePeople(body)
	if err != nil {
		return nil, err
	}
	if len(people) > limit {
		people = people[:limit]
	}
	return people, nil
}

// decodePeople accepts either a bare JSON array or a paginated envelope
// carrying the array under "results".
func decodePeople(body []byte) ([]person.Person, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to decode people: response is not valid JSON")
	}

	doc := gjson.ParseBytes(body)
	list := doc
	if !doc.IsArray() {
		list = doc.Get(resultsField)
		if !list.IsArray() {
			return nil, fmt.Errorf("failed to decode people: expected an array or an object with %q", resultsField)
		}
	}

	people := make([]person.Person, 0, len(list.Array()))
	if err := json.Unmarshal([]byte(list.Raw), &people); err != nil {
		return nil, fmt.Errorf("failed to decode people: %w", err)
	}
	return people, nil
}
