package entity

import (
	"strings"
	"time"
	"unicode"
)

// Location is a geocoded point in GeoJSON order (longitude, latitude).
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress"`
	Street           string     `json:"street"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Zipcode          string     `json:"zipcode"`
	Country          string     `json:"country"`
}

func (l Location) Longitude() float64 { return l.Coordinates[0] }
func (l Location) Latitude() float64  { return l.Coordinates[1] }

// Bootcamp is the top-level listing. AverageCost and AverageRating are derived
// from the bootcamp's courses and reviews and are nil until one exists.
type Bootcamp struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Careers       []string  `json:"careers"`
	AverageRating *float64  `json:"averageRating"`
	AverageCost   *float64  `json:"averageCost"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGI      bool      `json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DefaultPhoto is stored until a photo is uploaded.
const DefaultPhoto = "no-photo.jpg"

// Careers a bootcamp may list.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
