package domain

import "time"

// AttemptState is the failed-passcode record of one client.
type AttemptState struct {
	Failed     int       `json:"failed"`
	LastFailed time.Time `json:"lastFailed"`
}

type PasscodeResult struct {
	Success   bool
	Error     string
	Remaining int
	// RetryAfter is set while the client is locked out.
	RetryAfter time.Duration
	Outcome    string // ok|invalid|wrong|locked|disabled
}
