package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Crypto Wire</title>
	<item>
		<title>Bitcoin &amp; Ethereum rally</title>
		<link>https://example.com/rally</link>
		<description><![CDATA[<p>Markets are <b>up</b> today</p>]]></description>
		<pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Old news</title>
		<link>https://example.com/old</link>
		<pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>No date</title>
		<link>https://example.com/nodate</link>
	</item>
</channel>
</rss>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	r := NewReader([]string{srv.URL}, time.Second, 0)
	items, err := r.Fetch(context.Background(), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Crypto Wire", items[0].Feed)
	assert.Equal(t, "Bitcoin & Ethereum rally", items[0].Title)
	assert.Equal(t, "Markets are up today", items[0].Description)
	assert.Equal(t, "https://example.com/rally", items[0].Link)
}

func TestFetch_SkipsFailingFeed(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	r := NewReader([]string{bad.URL, good.URL}, time.Second, 0)
	items, err := r.Fetch(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetch_AllFeedsFail(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer bad.Close()

	r := NewReader([]string{bad.URL}, time.Second, 0)
	_, err := r.Fetch(context.Background(), time.Time{})
	assert.Error(t, err)
}
