package domain

// Placeholder values used when the catalog omits a field.
const (
	UnknownValue      = "Unknown"
	UnknownGameName   = "Unknown Game"
	NoImage           = "No Image"
	NoDescription     = "No description available."
	ReleaseDateLayout = "2006-01-02"
)

// GuestUserID is the identity sentinel for visitors without an account.
const GuestUserID int64 = -1

// VideoGame is the normalized catalog record shown to users. It is built per
// request from the upstream payload and never persisted.
type VideoGame struct {
	ID                int64   `json:"gameId"`
	Name              string  `json:"gameName"`
	Genre             string  `json:"genre"`
	Platform          string  `json:"platform"`
	InvolvedCompanies string  `json:"involvedCompanies"`
	Rating            float64 `json:"rating"`
	ReviewCount       int     `json:"reviewCount"`
	MaturityRating    string  `json:"maturityRating"`
	Description       string  `json:"description"`
	ImageURL          string  `json:"imageUrl"`
	Developer         string  `json:"developer"`
	Publisher         string  `json:"publisher"`
	ReleaseDate       string  `json:"releaseDate"`
}
