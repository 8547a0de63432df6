package common

import "net/url"

// Identifiers are the user and session identifiers handed to the identify
// capability. Neither is validated.
type Identifiers struct {
	UserID    string `js:"userId"`
	SessionID string `js:"sessionId"`
}

// IdentifyFunc associates a user and session with the analytics tool.
type IdentifyFunc func(userID, sessionID string) error

func extractIdentifiers(params url.Values, cfg Config) Identifiers {
	return Identifiers{
		UserID:    params.Get(cfg.CUIDParam),
		SessionID: params.Get(cfg.CSIDParam),
	}
}
