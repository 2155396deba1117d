package rewind

import (
	"time"

	"github.com/icco/rewind/lib/anilist"
)

// defaultEpisodeMinutes is used when AniList has no duration for an anime.
// 24 minutes is the standard TV episode length.
const defaultEpisodeMinutes = 24

type mediaKind int

const (
	kindAnime mediaKind = iota
	kindManga
)

// resolvedEntry is the uniform view of a raw list entry after all optional
// fields have been defaulted. Every default lives here so the accumulator
// never touches a pointer.
type resolvedEntry struct {
	title           string
	score           float64
	progress        int
	progressVolumes int
	repeat          int
	duration        int // effective minutes per episode, anime only
	format          string
	country         string
	genres          []string
	studios         []string
	cover           string
	banner          string

	// completed-in-year view
	completed bool
	month     int

	// ongoing-in-year view
	ongoing bool
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

// resolveTitle prefers the English localization and falls back to romaji.
func resolveTitle(t anilist.MediaTitle) string {
	if t.English != nil && *t.English != "" {
		return *t.English
	}
	if t.Romaji != nil {
		return *t.Romaji
	}
	return ""
}

// resolveEntry normalizes one raw entry against the target year.
//
// The ongoing and completed checks are independent: a title rewatched to
// completion this year while still marked REPEATING shows up in both
// views. Ongoing uses the UTC calendar year of updatedAt; completed uses
// an exact match on completedAt.year.
func resolveEntry(e anilist.Entry, kind mediaKind, year int) resolvedEntry {
	r := resolvedEntry{
		title:           resolveTitle(e.Media.Title),
		score:           e.Score,
		progress:        intOrZero(e.Progress),
		progressVolumes: intOrZero(e.ProgressVolumes),
		repeat:          intOrZero(e.Repeat),
		genres:          e.Media.Genres,
		cover:           e.Media.CoverImage.Large,
		banner:          stringOr(e.Media.BannerImage, ""),
	}

	switch kind {
	case kindAnime:
		r.duration = intOrZero(e.Media.Duration)
		if r.duration == 0 {
			r.duration = defaultEpisodeMinutes
		}
		r.format = stringOr(e.Media.Format, "UNKNOWN")
		for _, s := range e.Media.Studios.Nodes {
			r.studios = append(r.studios, s.Name)
		}
	case kindManga:
		r.country = stringOr(e.Media.CountryOfOrigin, "JP")
	}

	if (e.Status == "CURRENT" || e.Status == "REPEATING") && e.UpdatedAt != nil {
		if time.Unix(*e.UpdatedAt, 0).UTC().Year() == year {
			r.ongoing = true
		}
	}

	if e.CompletedAt != nil && e.CompletedAt.Year != nil && *e.CompletedAt.Year == year {
		r.completed = true
		r.month = intOrZero(e.CompletedAt.Month)
	}

	return r
}
