// Package rewind reduces a user's full-year AniList history into a "year
// in review" report. BuildReport is a pure function of its inputs: it
// performs no I/O, keeps no state between builds, and produces the same
// report for the same input collections and target year.
package rewind

import "github.com/icco/rewind/lib/anilist"

// NameCount is one row of a frequency table, ordered by count descending.
// Ties keep first-seen order, so the output is deterministic for a fixed
// input ordering.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MediaSnapshot is a lightweight view of a completed title kept in the
// month buckets and surfaced in the bests and monthly overview.
type MediaSnapshot struct {
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	CoverImage  string  `json:"cover_image"`
	BannerImage string  `json:"banner_image,omitempty"`
	Format      string  `json:"format,omitempty"`
}

// OngoingEntry is a progress snapshot of a title still being watched or
// read during the target year.
type OngoingEntry struct {
	Title      string  `json:"title"`
	CoverImage string  `json:"cover_image"`
	Progress   int     `json:"progress"`
	Score      float64 `json:"score"`
}

type ActivitySummary struct {
	AnimeCompleted       int `json:"anime_completed"`
	MangaCompleted       int `json:"manga_completed"`
	TotalTitlesCompleted int `json:"total_titles_completed"`
}

// MonthOverview summarizes one calendar month with activity.
type MonthOverview struct {
	Month     int             `json:"month"`
	Activity  ActivitySummary `json:"activity_summary"`
	TopAnime  *MediaSnapshot  `json:"top_anime"`
	TopManga  *MediaSnapshot  `json:"top_manga"`
	TopGenres []string        `json:"top_genres"`
}

// Overall holds every finalized aggregate for the year. All scores are on
// the 100-point scale (see anilist.Entry).
type Overall struct {
	AnimeCompleted   int     `json:"anime_completed"`
	MangaCompleted   int     `json:"manga_completed"`
	EpisodesWatched  int     `json:"episodes_watched"`
	MinutesWatched   int     `json:"minutes_watched"`
	TotalDaysWatched float64 `json:"total_days_watched"`
	ChaptersRead     int     `json:"chapters_read"`
	VolumesRead      int     `json:"volumes_read"`
	Rewatches        int     `json:"rewatches"`
	Rereads          int     `json:"rereads"`

	AverageScore  float64 `json:"average_score"`
	AnimeAvgScore float64 `json:"anime_avg_score"`
	MangaAvgScore float64 `json:"manga_avg_score"`

	TopGenres  []NameCount `json:"top_genres"`
	TopStudios []NameCount `json:"top_studios"`
	Formats    []NameCount `json:"formats"`
	Countries  []NameCount `json:"countries"`

	ScoreDistribution map[int]int `json:"score_distribution"`

	BestAnime *MediaSnapshot  `json:"best_anime"`
	BestManga *MediaSnapshot  `json:"best_manga"`
	TopAnime  []MediaSnapshot `json:"top_anime_list"`
	TopManga  []MediaSnapshot `json:"top_manga_list"`

	CollageCovers  []string `json:"collage_covers"`
	ActivityCounts []int    `json:"activity_counts"`
}

type Persona struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Ongoing struct {
	Anime []OngoingEntry `json:"anime"`
	Manga []OngoingEntry `json:"manga"`
}

type Highlights struct {
	PeakMonth *MonthOverview `json:"peak_month"`
}

// Report is the finished year-in-review. It is composed only of
// primitives, slices, and maps so callers can serialize and persist it.
type Report struct {
	Year            int               `json:"year"`
	Persona         Persona           `json:"persona"`
	Overall         Overall           `json:"overall"`
	Ongoing         Ongoing           `json:"ongoing"`
	Highlights      Highlights        `json:"highlights"`
	Favorites       anilist.Favorites `json:"favorites"`
	MonthlyOverview []MonthOverview   `json:"monthly_overview"`
}
