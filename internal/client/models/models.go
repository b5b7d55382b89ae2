// Package models defines the domain types shared by the Shelfie client:
// the user profile, token pair, collection items and pending segments.
package models

import (
	"encoding/json"
	"strings"
)

// UnknownGameName is used wherever an item or segment carries no name.
const UnknownGameName = "Unknown Game"

// NoGameID is the sentinel meaning "no external game reference".
const NoGameID = "-1"

// User is the locally cached profile. It is persisted as a single JSON
// document and must always be rewritten whole (read-modify-write).
type User struct {
	ID           int64  `json:"id,omitempty"`
	Email        string `json:"email"`
	GPUEndpoint  string `json:"gpu_endpoint"`
	Port         string `json:"port"`
	OpenAIAPIKey string `json:"openai_api_key"`
}

// TokenPair is an access/refresh token pair as returned by the auth server.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ID is a server-assigned identifier. The backend encodes ids as JSON
// numbers while the identification service uses strings, so both forms
// are accepted on the wire.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Item is one accepted entry of the user's collection. Image holds a
// data-URI and is populated by a separate fetch, not by the item listing.
type Item struct {
	ID        ID     `json:"id"`
	GameName  string `json:"game_name"`
	Image     string `json:"-"`
	CreatedAt string `json:"created_at"`
	GameID    string `json:"game_id"`
	Shelf     string `json:"shelf"`
	Case      string `json:"case"`
}

// ItemUpdate is a partial update for a collection item. Nil fields are
// omitted from the request body and left untouched by the server.
type ItemUpdate struct {
	GameName  *string `json:"game_name,omitempty"`
	ImageData *string `json:"image_data,omitempty"`
	Shelf     *string `json:"shelf,omitempty"`
	Case      *string `json:"case,omitempty"`
}

// Segment is a detected game-box region returned by the identification
// service, pending user acceptance into the collection.
type Segment struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Shelf string `json:"shelf,omitempty"`
	Case  string `json:"case,omitempty"`
}

// NormalizeGameID maps the various "no external link" spellings coming off
// the wire to the canonical NoGameID sentinel.
func NormalizeGameID(s string) string {
	switch s {
	case "", "null", "undefined":
		return NoGameID
	}
	return s
}

// StripDataURI reduces an image payload to its bare base64 body, removing a
// "data:image/...;base64," prefix when present.
func StripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}

// DataURI wraps bare base64 image bytes into the data-URI form used
// throughout the client. Empty input stays empty (missing image).
func DataURI(base64Body string) string {
	if base64Body == "" {
		return ""
	}
	if strings.HasPrefix(base64Body, "data:") {
		return base64Body
	}
	return "data:image/jpeg;base64," + base64Body
}
