// Package models defines client-side data models used by the askpdf CLI.
package models

// User is the session identity returned by the backend after an OAuth
// exchange. The client treats it as immutable: it is replaced wholesale on
// re-fetch and cleared to nil on logout.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}
