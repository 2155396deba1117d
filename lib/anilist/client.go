package anilist

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/machinebox/graphql"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public AniList GraphQL endpoint.
const DefaultEndpoint = "https://graphql.anilist.co"

const animeListQuery = `
query ($username: String) {
  MediaListCollection(userName: $username, type: ANIME) {
    lists {
      entries {
        score(format: POINT_100)
        progress
        repeat
        status
        updatedAt
        completedAt { year month }
        media {
          title { english romaji }
          duration
          format
          genres
          studios(isMain: true) { nodes { name } }
          bannerImage
          coverImage { large }
        }
      }
    }
  }
}
`

const mangaListQuery = `
query ($username: String) {
  MediaListCollection(userName: $username, type: MANGA) {
    lists {
      entries {
        score(format: POINT_100)
        progress
        progressVolumes
        repeat
        status
        updatedAt
        completedAt { year month }
        media {
          title { english romaji }
          genres
          countryOfOrigin
          bannerImage
          coverImage { large }
        }
      }
    }
  }
}
`

const favoritesQuery = `
query ($username: String) {
  User(name: $username) {
    favourites {
      characters(page: 1, perPage: 10) {
        nodes {
          name { full }
          image { large }
        }
      }
      staff(page: 1, perPage: 10) {
        nodes {
          name { full }
          image { large }
          primaryOccupations
        }
      }
    }
  }
}
`

// Client wraps the AniList GraphQL API. AniList enforces 90 requests per
// minute per IP, so every call goes through a shared rate limiter.
type Client struct {
	gql     *graphql.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates an AniList client for the given endpoint. Pass
// DefaultEndpoint outside of tests.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	return &Client{
		gql:     graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		limiter: rate.NewLimiter(rate.Every(time.Minute/90), 5),
		logger:  logger,
	}
}

func (c *Client) run(ctx context.Context, query, username string, resp interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req := graphql.NewRequest(query)
	req.Var("username", username)
	req.Header.Set("Accept", "application/json")

	if err := c.gql.Run(ctx, req, resp); err != nil {
		return fmt.Errorf("anilist query failed: %w", err)
	}
	return nil
}

// AnimeList fetches the user's full anime list collection.
func (c *Client) AnimeList(ctx context.Context, username string) (MediaListCollection, error) {
	var resp struct {
		MediaListCollection MediaListCollection `json:"MediaListCollection"`
	}
	if err := c.run(ctx, animeListQuery, username, &resp); err != nil {
		return MediaListCollection{}, fmt.Errorf("failed to fetch anime list: %w", err)
	}

	c.logger.Debug("Fetched anime list",
		slog.String("username", username),
		slog.Int("lists", len(resp.MediaListCollection.Lists)))

	return resp.MediaListCollection, nil
}

// MangaList fetches the user's full manga list collection.
func (c *Client) MangaList(ctx context.Context, username string) (MediaListCollection, error) {
	var resp struct {
		MediaListCollection MediaListCollection `json:"MediaListCollection"`
	}
	if err := c.run(ctx, mangaListQuery, username, &resp); err != nil {
		return MediaListCollection{}, fmt.Errorf("failed to fetch manga list: %w", err)
	}

	c.logger.Debug("Fetched manga list",
		slog.String("username", username),
		slog.Int("lists", len(resp.MediaListCollection.Lists)))

	return resp.MediaListCollection, nil
}

// Favorites fetches the user's favorite characters and staff.
func (c *Client) Favorites(ctx context.Context, username string) (Favorites, error) {
	var resp struct {
		User struct {
			Favourites struct {
				Characters struct {
					Nodes []FavoriteCharacter `json:"nodes"`
				} `json:"characters"`
				Staff struct {
					Nodes []FavoriteStaff `json:"nodes"`
				} `json:"staff"`
			} `json:"favourites"`
		} `json:"User"`
	}
	if err := c.run(ctx, favoritesQuery, username, &resp); err != nil {
		return Favorites{}, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	return Favorites{
		Characters: resp.User.Favourites.Characters.Nodes,
		Staff:      resp.User.Favourites.Staff.Nodes,
	}, nil
}
