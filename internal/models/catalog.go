package models

// Representation is the canonical bookable unit: a scheduled, located
// instance of a show. Fetched read-only from the catalogue API.
type Representation struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Schedule string `json:"schedule"`
	Location string `json:"location"`
	Bookable bool   `json:"bookable"`
}

// Matches reports whether the representation carries exactly the given
// display attributes. Schedule and location are compared verbatim; there
// is no tolerance window or fuzzy matching.
func (r *Representation) Matches(schedule, location string) bool {
	return r.Schedule == schedule && r.Location == location
}

// Show is a production that representations are instances of
type Show struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Bookable    bool   `json:"bookable"`
}

// ArtistType is a discipline an artist performs in
type ArtistType struct {
	Type string `json:"type"`
}

// ArtistDetail is the full artist profile with types and shows
type ArtistDetail struct {
	ID        int          `json:"id"`
	Firstname string       `json:"firstname"`
	Lastname  string       `json:"lastname"`
	Types     []ArtistType `json:"types"`
	Shows     []Show       `json:"shows"`
}
