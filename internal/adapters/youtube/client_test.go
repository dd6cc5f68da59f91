package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "key", BaseURL: srv.URL})
}

func TestSearchVideos_Paginates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		assert.Equal(t, "video", r.URL.Query().Get("type"))

		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"etag":"e1","nextPageToken":"p2","items":[
				{"id":{"videoId":"v1"},"snippet":{"title":"One","channelId":"ch1","publishedAt":"2024-05-01T10:00:00Z"}},
				{"id":{},"snippet":{"title":"channel result"}}
			]}`)
			return
		}
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
		fmt.Fprint(w, `{"etag":"e2","items":[
			{"id":{"videoId":"v2"},"snippet":{"title":"Two","channelId":"ch2","publishedAt":"2024-05-01T11:00:00Z"}}
		]}`)
	})

	videos, err := c.SearchVideos(context.Background(), "crypto news", time.Now().Add(-48*time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "v1", videos[0].ID)
	assert.Equal(t, "ch2", videos[1].ChannelID)
}

func TestSearchVideos_StalledPagination(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"etag":"same","nextPageToken":"p","items":[{"id":{"videoId":"v"},"snippet":{}}]}`)
	})

	videos, err := c.SearchVideos(context.Background(), "q", time.Now(), 10)
	assert.ErrorContains(t, err, "pagination stalled")
	assert.Len(t, videos, 1)
}

func TestVideoComments_SkipsChannelOwner(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commentThreads", r.URL.Path)
		assert.Equal(t, "v1", r.URL.Query().Get("videoId"))
		fmt.Fprint(w, `{"items":[
			{"id":"c1","snippet":{"videoId":"v1","channelId":"owner","totalReplyCount":2,"topLevelComment":{"snippet":{
				"authorDisplayName":"alice","authorChannelId":{"value":"alice-ch"},"textOriginal":"BTC looks strong","likeCount":7,
				"publishedAt":"2024-05-01T12:00:00Z","updatedAt":"2024-05-01T12:05:00Z"}}}},
			{"id":"c2","snippet":{"videoId":"v1","channelId":"owner","topLevelComment":{"snippet":{
				"authorDisplayName":"owner","authorChannelId":{"value":"owner"},"textOriginal":"thanks for watching"}}}}
		]}`)
	})

	comments, err := c.VideoComments(context.Background(), "v1", 100)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	got := comments[0]
	assert.Equal(t, "c1", got.CommentID)
	assert.Equal(t, "BTC looks strong", got.Text)
	assert.Equal(t, 7, got.LikeCount)
	assert.Equal(t, 2, got.ReplyCount)
	assert.Equal(t, "alice-ch", got.AuthorChannelID)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), got.PublishedAt.UTC())
}

func TestVideoComments_CommentsDisabled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"errors":[{"reason":"commentsDisabled"}]}}`)
	})

	_, err := c.VideoComments(context.Background(), "v1", 100)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.SearchVideos(context.Background(), "q", time.Now(), 10)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}
