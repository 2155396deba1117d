package anilist

// FuzzyDate is AniList's partial date. Any component may be null.
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
}

type MediaTitle struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
}

type CoverImage struct {
	Large string `json:"large"`
}

type Studio struct {
	Name string `json:"name"`
}

type StudioConnection struct {
	Nodes []Studio `json:"nodes"`
}

// Media carries the metadata we request for a list entry. Anime-only
// fields (duration, studios) and manga-only fields (countryOfOrigin) are
// simply absent on the other kind.
type Media struct {
	Title           MediaTitle       `json:"title"`
	Duration        *int             `json:"duration"`
	Format          *string          `json:"format"`
	Genres          []string         `json:"genres"`
	CountryOfOrigin *string          `json:"countryOfOrigin"`
	CoverImage      CoverImage       `json:"coverImage"`
	BannerImage     *string          `json:"bannerImage"`
	Studios         StudioConnection `json:"studios"`
}

// Entry is one user-tracked title. Scores are requested in POINT_100
// format, so Score is always on a 0-100 scale regardless of the user's
// display preference; 0 means unrated.
type Entry struct {
	Score           float64    `json:"score"`
	Progress        *int       `json:"progress"`
	ProgressVolumes *int       `json:"progressVolumes"`
	Repeat          *int       `json:"repeat"`
	Status          string     `json:"status"`
	UpdatedAt       *int64     `json:"updatedAt"`
	CompletedAt     *FuzzyDate `json:"completedAt"`
	Media           Media      `json:"media"`
}

type ListGroup struct {
	Entries []Entry `json:"entries"`
}

// MediaListCollection is the grouped list AniList returns for a user and
// media type (one group per custom list plus the status lists).
type MediaListCollection struct {
	Lists []ListGroup `json:"lists"`
}

type FavoriteCharacter struct {
	Name struct {
		Full string `json:"full"`
	} `json:"name"`
	Image struct {
		Large string `json:"large"`
	} `json:"image"`
}

type FavoriteStaff struct {
	Name struct {
		Full string `json:"full"`
	} `json:"name"`
	Image struct {
		Large string `json:"large"`
	} `json:"image"`
	PrimaryOccupations []string `json:"primaryOccupations"`
}

// Favorites is passed through to the report unmodified.
type Favorites struct {
	Characters []FavoriteCharacter `json:"characters"`
	Staff      []FavoriteStaff     `json:"staff"`
}
