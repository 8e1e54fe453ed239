package webapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filippoints/filippoints-cli/internal/httpclient"
	"github.com/filippoints/filippoints-cli/internal/person"
)

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	hc := httpclient.NewDefaultClient(time.Second)

	_, err := NewClient(hc, "", "")
	require.Error(t, err)

	_, err = NewClient(hc, "not a url", "")
	require.Error(t, err)

	c, err := NewClient(hc, "http://www.filippoints.com/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://www.filippoints.com/api/people/?limit=5", c.(*httpAPIClient).peopleURL(5))

	c, err = NewClient(hc, "http://localhost:8000", "people")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/people?limit=3", c.(*httpAPIClient).peopleURL(3))
}

func TestDecodePeople(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected []person.Person
		wantErr  bool
	}{
		{
			name:     "bare array",
			body:     `[{"pk":1,"first_name":"Filip","last_name":"Novak","points":10}]`,
			expected: []person.Person{{PK: 1, FirstName: "Filip", LastName: "Novak", Points: 10}},
		},
		{
			name: "paginated envelope",
			body: `{"count":42,"next":"http://x/?limit=5&offset=5","previous":null,
				"results":[{"pk":4,"first_name":"Eva","last_name":"Kral","points":3},
				           {"pk":5,"first_name":"Petr","last_name":"Maly","points":1}]}`,
			expected: []person.Person{
				{PK: 4, FirstName: "Eva", LastName: "Kral", Points: 3},
				{PK: 5, FirstName: "Petr", LastName: "Maly", Points: 1},
			},
		},
		{name: "empty array", body: `[]`, expected: []person.Person{}},
		{name: "invalid json", body: `[{"pk":`, wantErr: true},
		{name: "object without results", body: `{"detail":"Not found."}`, wantErr: true},
		{name: "wrong element types", body: `[{"pk":"one"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			people, err := decodePeople([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, people)
		})
	}
}

func TestGetPeople_AgainstServer(t *testing.T) {
	t.Parallel()

	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		assert.Equal(t, DefaultPeoplePath, r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"pk":1,"first_name":"A","last_name":"One","points":1},
			{"pk":2,"first_name":"B","last_name":"Two","points":2},
			{"pk":3,"first_name":"C","last_name":"Three","points":3}]`))
	}))
	defer server.Close()

	c, err := NewClient(httpclient.NewDefaultClient(5*time.Second), server.URL, "")
	require.NoError(t, err)

	people, err := c.GetPeople(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "2", gotLimit)
	require.Len(t, people, 2, "client trims to the requested page size")
	assert.Equal(t, 2, people[1].PK)
}

func TestGetPeople_Errors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c, err := NewClient(httpclient.NewDefaultClient(5*time.Second), server.URL, "")
	require.NoError(t, err)

	_, err = c.GetPeople(context.Background(), 0)
	require.Error(t, err)

	_, err = c.GetPeople(context.Background(), 5)
	require.Error(t, err)
	var httpErr *httpclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}
