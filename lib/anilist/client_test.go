package anilist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAniList answers GraphQL POSTs based on the query body.
func fakeAniList(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "testuser", req.Variables["username"])

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Query, "type: ANIME"):
			fmt.Fprint(w, `{"data":{"MediaListCollection":{"lists":[{"entries":[
				{"score":90,"progress":12,"repeat":1,"status":"COMPLETED",
				 "updatedAt":1717200000,
				 "completedAt":{"year":2024,"month":3},
				 "media":{"title":{"english":null,"romaji":"Frieren"},
				          "duration":24,"format":"TV","genres":["Adventure","Fantasy"],
				          "studios":{"nodes":[{"name":"Madhouse"}]},
				          "bannerImage":null,
				          "coverImage":{"large":"https://img.anilist.co/frieren.png"}}}
			]}]}}}`)
		case strings.Contains(req.Query, "type: MANGA"):
			fmt.Fprint(w, `{"data":{"MediaListCollection":{"lists":[{"entries":[
				{"score":0,"progress":100,"progressVolumes":11,"repeat":0,"status":"CURRENT",
				 "updatedAt":1717200000,
				 "completedAt":{"year":null,"month":null},
				 "media":{"title":{"english":"Berserk","romaji":"Beruseruku"},
				          "genres":["Action"],"countryOfOrigin":"JP",
				          "bannerImage":"https://img.anilist.co/banner.png",
				          "coverImage":{"large":"https://img.anilist.co/berserk.png"}}}
			]}]}}}`)
		case strings.Contains(req.Query, "favourites"):
			fmt.Fprint(w, `{"data":{"User":{"favourites":{
				"characters":{"nodes":[{"name":{"full":"Guts"},"image":{"large":"guts.png"}}]},
				"staff":{"nodes":[{"name":{"full":"Kentaro Miura"},"image":{"large":"miura.png"},
				                   "primaryOccupations":["Mangaka"]}]}}}}}`)
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestAnimeList(t *testing.T) {
	srv := fakeAniList(t)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	col, err := c.AnimeList(context.Background(), "testuser")
	require.NoError(t, err)

	require.Len(t, col.Lists, 1)
	require.Len(t, col.Lists[0].Entries, 1)
	e := col.Lists[0].Entries[0]
	assert.Equal(t, 90.0, e.Score)
	assert.Equal(t, "COMPLETED", e.Status)
	require.NotNil(t, e.CompletedAt)
	require.NotNil(t, e.CompletedAt.Year)
	assert.Equal(t, 2024, *e.CompletedAt.Year)
	assert.Nil(t, e.Media.Title.English)
	require.NotNil(t, e.Media.Title.Romaji)
	assert.Equal(t, "Frieren", *e.Media.Title.Romaji)
	require.Len(t, e.Media.Studios.Nodes, 1)
	assert.Equal(t, "Madhouse", e.Media.Studios.Nodes[0].Name)
}

func TestMangaList(t *testing.T) {
	srv := fakeAniList(t)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	col, err := c.MangaList(context.Background(), "testuser")
	require.NoError(t, err)

	require.Len(t, col.Lists, 1)
	e := col.Lists[0].Entries[0]
	assert.Equal(t, "CURRENT", e.Status)
	require.NotNil(t, e.ProgressVolumes)
	assert.Equal(t, 11, *e.ProgressVolumes)
	// A completedAt object with null fields is not a completion date.
	require.NotNil(t, e.CompletedAt)
	assert.Nil(t, e.CompletedAt.Year)
	require.NotNil(t, e.Media.CountryOfOrigin)
	assert.Equal(t, "JP", *e.Media.CountryOfOrigin)
}

func TestFavorites(t *testing.T) {
	srv := fakeAniList(t)
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	fav, err := c.Favorites(context.Background(), "testuser")
	require.NoError(t, err)

	require.Len(t, fav.Characters, 1)
	assert.Equal(t, "Guts", fav.Characters[0].Name.Full)
	require.Len(t, fav.Staff, 1)
	assert.Equal(t, []string{"Mangaka"}, fav.Staff[0].PrimaryOccupations)
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"errors":[{"message":"User not found"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.AnimeList(context.Background(), "testuser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch anime list")
}
