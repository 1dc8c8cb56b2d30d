package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mock *testutil.MockAPI) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.BaseURL()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "empty base url", mutate: func(c *Config) { c.BaseURL = "" }, errorMsg: "base url is required"},
		{name: "empty resource", mutate: func(c *Config) { c.Resource = "" }, errorMsg: "resource is required"},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }, errorMsg: "user-agent is required"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, errorMsg: "timeout must be >= 0 (got -1s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			c, err := New(cfg)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.errorMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.test/api/v2/"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api/v2", c.Config().BaseURL)
}

func TestFetchList(t *testing.T) {
	mock := testutil.NewMockAPI(45)
	defer mock.Close()
	c := newTestClient(t, mock)

	page, err := c.FetchList(context.Background(), 20, 40)
	require.NoError(t, err)

	assert.Equal(t, 45, page.Count)
	require.Len(t, page.Results, 5)
	assert.Equal(t, "mon-41", page.Results[0].Name)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, 1, mock.GetPathCount("/api/v2/pokemon?limit=20&offset=40"))
}

func TestFetchList_Defaults(t *testing.T) {
	mock := testutil.NewMockAPI(100)
	defer mock.Close()
	c := newTestClient(t, mock)

	page, err := c.FetchList(context.Background(), 0, -5)
	require.NoError(t, err)

	assert.Len(t, page.Results, DefaultLimit)
	require.NotNil(t, page.Next)
	assert.Equal(t, 1, mock.GetPathCount("/api/v2/pokemon?limit=20&offset=0"))
}

func TestFetchList_OutOfRangeReturnsEmptyPage(t *testing.T) {
	mock := testutil.NewMockAPI(1154)
	defer mock.Close()
	c := newTestClient(t, mock)

	page, err := c.FetchList(context.Background(), 20, 58*20)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 1154, page.Count)
}

func TestFetchList_Headers(t *testing.T) {
	mock := testutil.NewMockAPI(5)
	defer mock.Close()
	c := newTestClient(t, mock)

	_, err := c.FetchList(context.Background(), 5, 0)
	require.NoError(t, err)

	header := mock.GetLastRequestHeader()
	assert.Equal(t, DefaultUserAgent, header.Get("User-Agent"))
	assert.Equal(t, "application/json", header.Get("Accept"))
	assert.NotEmpty(t, header.Get("X-Request-ID"))
}

func TestFetchByID(t *testing.T) {
	mock := testutil.NewMockAPI(151)
	defer mock.Close()
	c := newTestClient(t, mock)

	detail, err := c.FetchByID(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, 25, detail.ID)
	assert.Equal(t, "mon-25", detail.Name)
	assert.Equal(t, 7, detail.Height)
	assert.Equal(t, 69, detail.Weight)
	assert.Equal(t, "grass", detail.PrimaryType())
	assert.Equal(t, []string{"grass", "poison"}, detail.TypeNames())
	assert.Len(t, detail.Stats, 6)
	assert.Len(t, detail.Abilities, 2)
}

func TestFetchByID_InvalidID(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	c := newTestClient(t, mock)

	for _, id := range []int{0, -1} {
		_, err := c.FetchByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidID)
	}
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestFetchByID_NotFound(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	c := newTestClient(t, mock)

	_, err := c.FetchByID(context.Background(), 11)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.StatusText)
	assert.Equal(t, ErrorClassClient, apiErr.ErrorClass)
	assert.Equal(t, OpDetailByID, apiErr.Op)
}

func TestFetchByName_LowerCases(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	c := newTestClient(t, mock)

	detail, err := c.FetchByName(context.Background(), "MON-4")
	require.NoError(t, err)

	assert.Equal(t, 4, detail.ID)
	assert.Equal(t, 1, mock.GetPathCount("/api/v2/pokemon/mon-4"))
}

func TestFetchByName_Empty(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = c.FetchByName(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFetchByID_ServerError(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	mock.SetResponse(testutil.Prefix+"/3", testutil.MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "boom"}`,
	})
	c := newTestClient(t, mock)

	_, err := c.FetchByID(context.Background(), 3)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorClassServer, apiErr.ErrorClass)
	assert.Equal(t, "Internal Server Error", apiErr.StatusText)
	assert.False(t, IsNotFound(err))
	assert.Equal(t, 1, mock.GetRequestCount(), "transport must not retry")
}

func TestFetchByID_MalformedDetail(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	mock.SetResponse(testutil.Prefix+"/3", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"id": 3, "name": "mon-3", "types": []}`,
	})
	c := newTestClient(t, mock)

	_, err := c.FetchByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrMalformedDetail)
}

func TestFetchByID_DecodeError(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	mock.SetResponse(testutil.Prefix+"/3", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `not json`,
	})
	c := newTestClient(t, mock)

	_, err := c.FetchByID(context.Background(), 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	assert.NotErrorIs(t, err, ErrNetworkFailure)
}

func TestFetch_TransportFailure(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	c := newTestClient(t, mock)
	mock.Close()

	_, err := c.FetchList(context.Background(), 10, 0)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorClassNetwork, apiErr.ErrorClass)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestFetch_ContextCancelled(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	mock.SetResponse(testutil.Prefix+"/1", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(testutil.DetailJSON(1)),
		Delay:      200 * time.Millisecond,
	})
	c := newTestClient(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.FetchByID(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestImageURLs(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, DefaultImageBase+"/25.png", c.ImageURL(25))
	assert.Equal(t, DefaultSpriteBase+"/25.png", c.SpriteURL(25))
}

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestSetHTTPClient(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	c := newTestClient(t, mock)

	var seen []string
	c.SetHTTPClient(&http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		seen = append(seen, req.URL.Path)
		return http.DefaultTransport.RoundTrip(req)
	})})

	d, err := c.FetchByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, d.ID)
	assert.Equal(t, []string{testutil.Prefix + "/7"}, seen)
}

func TestSetHTTPClient_TransportError(t *testing.T) {
	mock := testutil.NewMockAPI(10)
	defer mock.Close()
	c := newTestClient(t, mock)

	c.SetHTTPClient(&http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial refused")
	})})

	_, err := c.FetchList(context.Background(), 10, 0)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, ErrorClassNetwork, apiErr.ErrorClass)
	assert.Contains(t, err.Error(), "dial refused")
	assert.Equal(t, 0, mock.GetRequestCount())
}
