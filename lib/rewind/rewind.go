package rewind

import (
	"math"
	"sort"

	"github.com/icco/rewind/lib/anilist"
)

// maxCollageCovers caps the deduplicated cover set used for the collage.
const maxCollageCovers = 50

// BuildReport folds the user's anime and manga collections into the final
// year-in-review report. Favorites are passed through unmodified.
func BuildReport(anime, manga anilist.MediaListCollection, favorites anilist.Favorites, year int) *Report {
	acc := newAccumulator(year)

	for _, lst := range anime.Lists {
		for _, e := range lst.Entries {
			acc.addAnime(e)
		}
	}
	for _, lst := range manga.Lists {
		for _, e := range lst.Entries {
			acc.addManga(e)
		}
	}

	return acc.finalize(favorites)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// mean returns the rounded average of the samples, 0 when there are none.
func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return round2(sum / float64(len(samples)))
}

// ratedScores extracts the rated (>0) scores from a snapshot list.
func ratedScores(items []MediaSnapshot) []float64 {
	var out []float64
	for _, it := range items {
		if it.Score > 0 {
			out = append(out, it.Score)
		}
	}
	return out
}

// topOf returns the highest-scoring snapshot, first-encountered on ties,
// nil when the list is empty.
func topOf(items []MediaSnapshot) *MediaSnapshot {
	var best *MediaSnapshot
	for i := range items {
		if best == nil || items[i].Score > best.Score {
			best = &items[i]
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

// topN returns up to n snapshots by score descending. The sort is stable,
// so ties keep encounter order.
func topN(items []MediaSnapshot, n int) []MediaSnapshot {
	sorted := make([]MediaSnapshot, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// scoreDistribution bins the samples into the fixed 10..100 histogram.
// Scores floor to the nearest ten; 100 folds into the 90 bin and scores
// under 10 land in the 10 bin, so the bins always sum to the sample count.
func scoreDistribution(samples []float64) map[int]int {
	dist := make(map[int]int, 10)
	for b := 10; b <= 100; b += 10 {
		dist[b] = 0
	}
	for _, s := range samples {
		bin := (int(s) / 10) * 10
		if bin >= 100 {
			bin = 90
		}
		if bin < 10 {
			bin = 10
		}
		dist[bin]++
	}
	return dist
}

func sortByProgress(entries []OngoingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Progress > entries[j].Progress
	})
}

// finalize converts the accumulator state into the immutable report.
func (a *accumulator) finalize(favorites anilist.Favorites) *Report {
	var (
		allAnime []MediaSnapshot
		allManga []MediaSnapshot

		overview       []MonthOverview
		activityCounts = make([]int, 12)

		covers     []string
		seenCovers = map[string]bool{}
	)

	addCover := func(url string) {
		if url == "" || seenCovers[url] || len(covers) >= maxCollageCovers {
			return
		}
		seenCovers[url] = true
		covers = append(covers, url)
	}

	// Walk months ascending so every derived ordering (overview, bests
	// tie-breaks, collage) is deterministic.
	for m := 1; m <= 12; m++ {
		b, ok := a.months[m]
		if !ok {
			continue
		}

		total := len(b.anime) + len(b.manga)
		activityCounts[m-1] = total

		overview = append(overview, MonthOverview{
			Month: m,
			Activity: ActivitySummary{
				AnimeCompleted:       len(b.anime),
				MangaCompleted:       len(b.manga),
				TotalTitlesCompleted: total,
			},
			TopAnime:  topOf(b.anime),
			TopManga:  topOf(b.manga),
			TopGenres: b.genres.topNames(3),
		})

		allAnime = append(allAnime, b.anime...)
		allManga = append(allManga, b.manga...)

		for _, s := range b.anime {
			addCover(s.CoverImage)
		}
		for _, s := range b.manga {
			addCover(s.CoverImage)
		}
	}

	var peak *MonthOverview
	for i := range overview {
		if peak == nil || overview[i].Activity.TotalTitlesCompleted > peak.Activity.TotalTitlesCompleted {
			peak = &overview[i]
		}
	}

	sortByProgress(a.ongoingAnime)
	sortByProgress(a.ongoingManga)

	overall := Overall{
		AnimeCompleted:   a.animeCompleted,
		MangaCompleted:   a.mangaCompleted,
		EpisodesWatched:  a.episodesWatched,
		MinutesWatched:   a.minutesWatched,
		TotalDaysWatched: round1(float64(a.minutesWatched) / 1440),
		ChaptersRead:     a.chaptersRead,
		VolumesRead:      a.volumesRead,
		Rewatches:        a.rewatches,
		Rereads:          a.rereads,

		AverageScore: mean(a.scores),
		// Category averages come from the month buckets, not the raw
		// sample list: an entry completed without a valid month counts
		// toward the combined average only.
		AnimeAvgScore: mean(ratedScores(allAnime)),
		MangaAvgScore: mean(ratedScores(allManga)),

		TopGenres:  a.genres.sorted(),
		TopStudios: a.studios.top(5),
		Formats:    a.formats.sorted(),
		Countries:  a.countries.sorted(),

		ScoreDistribution: scoreDistribution(a.scores),

		BestAnime: topOf(allAnime),
		BestManga: topOf(allManga),
		TopAnime:  topN(allAnime, 3),
		TopManga:  topN(allManga, 3),

		CollageCovers:  covers,
		ActivityCounts: activityCounts,
	}

	return &Report{
		Year:    a.year,
		Persona: ClassifyPersona(&overall),
		Overall: overall,
		Ongoing: Ongoing{
			Anime: a.ongoingAnime,
			Manga: a.ongoingManga,
		},
		Highlights:      Highlights{PeakMonth: peak},
		Favorites:       favorites,
		MonthlyOverview: overview,
	}
}
