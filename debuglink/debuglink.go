// Package debuglink generates the links that open a page in a debug session.
package debuglink

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode/utf16"

	"golang.org/x/net/idna"

	"github.com/neotools/neo-clarity/common"
)

const (
	// SessionIDMax is the longest session id a link may carry.
	SessionIDMax = 25

	// hashLength is how much of the encoded email hash a link keeps.
	hashLength = 24
)

// Errors returned while generating links.
var (
	ErrBaseURLNotSet  = errors.New("base URL not set")
	ErrInvalidBaseURL = errors.New("invalid base URL")
	ErrMissingEmail   = errors.New("user email is required")
	ErrMissingSession = errors.New("session id is required")
	ErrSessionTooLong = fmt.Errorf("session id exceeds %d characters", SessionIDMax)
)

// Request holds the user input of a link.
type Request struct {
	BaseURL   string
	Email     string
	SessionID string
}

// HashEmail returns the first 24 characters of the base64 encoded SHA-256
// digest of email. The email is hashed as given.
func HashEmail(email string) string {
	sum := sha256.Sum256([]byte(email))
	return base64.StdEncoding.EncodeToString(sum[:])[:hashLength]
}

// ValidateBaseURL checks that s is an absolute URL with a host.
func ValidateBaseURL(s string) error {
	_, err := parseBaseURL(s)
	return err
}

func parseBaseURL(s string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidBaseURL, s)
	}
	if host := u.Hostname(); net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidBaseURL, host, err)
		}
		if port := u.Port(); port != "" {
			u.Host = ascii + ":" + port
		} else {
			u.Host = ascii
		}
	}
	return u, nil
}

// Remaining returns how many more characters a session id may take.
// Characters are UTF-16 code units, as a browser input's value.length.
func Remaining(sessionID string) int {
	return SessionIDMax - len(utf16.Encode([]rune(sessionID)))
}

// RemainingLabel describes Remaining for display.
func RemainingLabel(sessionID string) string {
	n := Remaining(sessionID)
	if n == 1 {
		return fmt.Sprintf("%d character left", n)
	}
	return fmt.Sprintf("%d characters left", n)
}

// Generate builds the debug link for req using the parameter names of cfg.
// The email is trimmed and lowercased before hashing.
func Generate(req Request, cfg common.Config) (string, error) {
	base := strings.TrimSpace(req.BaseURL)
	if base == "" {
		return "", ErrBaseURLNotSet
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return "", ErrMissingEmail
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return "", ErrMissingSession
	}
	if Remaining(sessionID) < 0 {
		return "", ErrSessionTooLong
	}

	u, err := parseBaseURL(base)
	if err != nil {
		return "", err
	}

	q := []string{
		url.QueryEscape(cfg.DebugParam) + "=true",
		url.QueryEscape(cfg.CUIDParam) + "=" + encodeURIComponent(HashEmail(email)),
		url.QueryEscape(cfg.CSIDParam) + "=" + encodeURIComponent(sessionID),
	}
	if u.RawQuery != "" {
		q = append([]string{u.RawQuery}, q...)
	}
	u.RawQuery = strings.Join(q, "&")
	u.ForceQuery = false

	return u.String(), nil
}

// encodeURIComponent escapes s the way browsers do for query components,
// keeping spaces as %20 instead of '+'.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
