package model

import "time"

// ShareMode selects how a share is gated.
type ShareMode string

const (
	// ShareModePreview is open access with an advisory page limit.
	ShareModePreview ShareMode = "preview"
	// ShareModeBrowse requires a verification code before content is served.
	ShareModeBrowse ShareMode = "browse"
)

// Valid reports whether m is a known mode.
func (m ShareMode) Valid() bool {
	return m == ShareModePreview || m == ShareModeBrowse
}

// Share is a token-addressable grant of access to one Document.
//
// Optional fields are pointers; nil means "not supplied".
// VerificationCode is set only for browse shares. Verified only ever moves
// from false to true.
type Share struct {
	ID               string    `json:"id"`
	DocumentID       string    `json:"documentId"`
	Mode             ShareMode `json:"mode"`
	AllowedPages     *int      `json:"allowedPages"`
	RecipientName    *string   `json:"recipientName"`
	RecipientEmail   *string   `json:"recipientEmail"`
	Token            string    `json:"token"`
	VerificationCode *string   `json:"-"`
	Verified         bool      `json:"verified"`
	WatermarkText    *string   `json:"watermarkText"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RequiresVerification reports whether content access is still gated.
func (s *Share) RequiresVerification() bool {
	return s.Mode == ShareModeBrowse && !s.Verified
}
