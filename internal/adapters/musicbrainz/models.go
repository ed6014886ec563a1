package musicbrainz

// searchResponse is the slice of the MusicBrainz recording search payload we
// actually consume.
type searchResponse struct {
	Recordings []recording `json:"recordings"`
}

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

type artistCredit struct {
	Name string `json:"name"`
}
