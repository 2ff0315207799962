package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Request details blob
// ============================================================
//
// The public intake form packs the requester's contact data into a single
// line-prefixed text blob stored on the quote; the admin side parses it
// back out with the regular expressions below. Encoding and decoding must
// stay in lockstep, field order included, because the blob is persisted
// permanently by the job service.

// LatLng is a raw coordinate pair picked on the intake map.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RequestDetails is the structured form of the blob.
type RequestDetails struct {
	ClientName string
	Email      string
	Phone      string
	Location   string
	Coords     *LatLng
	Notes      string
}

const noCoordinatesMarker = "No coordinates provided"

var (
	clientRe = regexp.MustCompile(`Client: (.*)`)
	phoneRe  = regexp.MustCompile(`Phone: (.*)`)
	locRe    = regexp.MustCompile(`Location: (.*)`)
	coordsRe = regexp.MustCompile(`Coordinates: ([\d.-]+), ([\d.-]+)`)
	emailRe  = regexp.MustCompile(`^(.*) \((.*)\)$`)
)

// Encode renders the blob in the fixed line-prefixed format.
func (d RequestDetails) Encode() string {
	coords := noCoordinatesMarker
	if d.Coords != nil {
		coords = fmt.Sprintf("Coordinates: %s, %s",
			strconv.FormatFloat(d.Coords.Lat, 'f', -1, 64),
			strconv.FormatFloat(d.Coords.Lng, 'f', -1, 64))
	}
	return fmt.Sprintf("Client: %s (%s)\nPhone: %s\nLocation: %s\n%s\nNotes: %s",
		d.ClientName, d.Email, d.Phone, d.Location, coords, d.Notes)
}

// ParseRequestDetails extracts the structured fields from a blob. Missing
// lines yield zero values; parsing never fails.
func ParseRequestDetails(raw string) RequestDetails {
	var d RequestDetails

	if m := clientRe.FindStringSubmatch(raw); m != nil {
		d.ClientName = strings.TrimSpace(m[1])
		if em := emailRe.FindStringSubmatch(d.ClientName); em != nil {
			d.ClientName = em[1]
			d.Email = em[2]
		}
	}
	if m := phoneRe.FindStringSubmatch(raw); m != nil {
		d.Phone = strings.TrimSpace(m[1])
	}
	if m := locRe.FindStringSubmatch(raw); m != nil {
		d.Location = strings.TrimSpace(m[1])
	}
	if m := coordsRe.FindStringSubmatch(raw); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lng, errLng := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLng == nil {
			d.Coords = &LatLng{Lat: lat, Lng: lng}
		}
	}
	if _, after, found := strings.Cut(raw, "Notes: "); found {
		d.Notes = after
	}
	return d
}
