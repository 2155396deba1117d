package rewind

import "github.com/icco/rewind/lib/anilist"

// monthBucket collects the completed titles and genre counts of one
// calendar month.
type monthBucket struct {
	anime  []MediaSnapshot
	manga  []MediaSnapshot
	genres *counter
}

// accumulator is the running state of one report build. It is created
// fresh per build and never shared, so no locking is needed.
type accumulator struct {
	year int

	animeCompleted  int
	mangaCompleted  int
	episodesWatched int
	minutesWatched  int
	chaptersRead    int
	volumesRead     int
	rewatches       int
	rereads         int

	scores    []float64
	genres    *counter
	studios   *counter
	formats   *counter
	countries *counter

	months map[int]*monthBucket

	ongoingAnime []OngoingEntry
	ongoingManga []OngoingEntry
}

func newAccumulator(year int) *accumulator {
	return &accumulator{
		year:      year,
		genres:    newCounter(),
		studios:   newCounter(),
		formats:   newCounter(),
		countries: newCounter(),
		months:    map[int]*monthBucket{},
	}
}

func (a *accumulator) bucket(month int) *monthBucket {
	b, ok := a.months[month]
	if !ok {
		b = &monthBucket{genres: newCounter()}
		a.months[month] = b
	}
	return b
}

// addShared applies the updates common to both media kinds: the score
// sample and the global plus per-month genre counts. An entry whose
// completion month is outside 1..12 still contributes to scalars and
// global genres but never enters a month bucket.
func (a *accumulator) addShared(r resolvedEntry) {
	if r.score > 0 {
		a.scores = append(a.scores, r.score)
	}
	for _, g := range r.genres {
		a.genres.add(g)
		if r.month >= 1 && r.month <= 12 {
			a.bucket(r.month).genres.add(g)
		}
	}
}

func (a *accumulator) addAnime(e anilist.Entry) {
	r := resolveEntry(e, kindAnime, a.year)

	if r.ongoing {
		a.ongoingAnime = append(a.ongoingAnime, OngoingEntry{
			Title:      r.title,
			CoverImage: r.cover,
			Progress:   r.progress,
			Score:      r.score,
		})
	}

	if !r.completed {
		return
	}

	a.animeCompleted++
	a.episodesWatched += r.progress
	a.minutesWatched += r.progress * r.duration
	a.rewatches += r.repeat
	a.formats.add(r.format)
	for _, s := range r.studios {
		a.studios.add(s)
	}

	a.addShared(r)

	if r.month >= 1 && r.month <= 12 {
		b := a.bucket(r.month)
		b.anime = append(b.anime, MediaSnapshot{
			Title:       r.title,
			Score:       r.score,
			CoverImage:  r.cover,
			BannerImage: r.banner,
			Format:      r.format,
		})
	}
}

func (a *accumulator) addManga(e anilist.Entry) {
	r := resolveEntry(e, kindManga, a.year)

	if r.ongoing {
		a.ongoingManga = append(a.ongoingManga, OngoingEntry{
			Title:      r.title,
			CoverImage: r.cover,
			Progress:   r.progress,
			Score:      r.score,
		})
	}

	if !r.completed {
		return
	}

	a.mangaCompleted++
	a.chaptersRead += r.progress
	a.volumesRead += r.progressVolumes
	a.rereads += r.repeat
	a.countries.add(r.country)

	a.addShared(r)

	if r.month >= 1 && r.month <= 12 {
		b := a.bucket(r.month)
		b.manga = append(b.manga, MediaSnapshot{
			Title:       r.title,
			Score:       r.score,
			CoverImage:  r.cover,
			BannerImage: r.banner,
		})
	}
}
