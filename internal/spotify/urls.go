package spotify

import (
	"fmt"
	"net/url"
	"strings"
)

// Host is the web player host all entity URLs live under.
const Host = "open.spotify.com"

// CanonicalURL is the parsed identity of a Spotify entity page.
// Immutable once constructed; derive one with Classify.
type CanonicalURL struct {
	Type    EntityType
	ID      string
	IsEmbed bool
}

// URL renders the regular web player URL for the entity.
func (c CanonicalURL) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", Host, c.Type, c.ID)
}

// EmbedURL renders the embed variant URL for the entity. The embed
// page is the preferred fetch target because it needs no authenticated
// session.
func (c CanonicalURL) EmbedURL() string {
	return fmt.Sprintf("https://%s/embed/%s/%s", Host, c.Type, c.ID)
}

// URI renders the spotify:<type>:<id> identifier form.
func (c CanonicalURL) URI() string {
	return fmt.Sprintf("spotify:%s:%s", c.Type, c.ID)
}

// Classify parses any supported Spotify identifier into a
// CanonicalURL.
//
// Accepted forms:
//   - web URL: https://open.spotify.com/<type>/<id>[?query]
//   - embed URL: https://open.spotify.com/embed/<type>/<id>
//   - URI: spotify:<type>:<id>
//
// Query strings, trailing slashes, and locale path segments such as
// "intl-de" are stripped before the type and ID are read.
//
// Returns a *URLError if:
//   - the host is not open.spotify.com
//   - the path has fewer than two meaningful segments
//   - the type segment is not a recognized entity type
//   - the ID segment is empty
func Classify(raw string) (CanonicalURL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CanonicalURL{}, &URLError{Input: raw, Reason: "empty input"}
	}

	if strings.HasPrefix(trimmed, "spotify:") {
		return classifyURI(trimmed)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return CanonicalURL{}, &URLError{Input: raw, Reason: fmt.Sprintf("not a URL: %v", err)}
	}
	if u.Host != Host {
		return CanonicalURL{}, &URLError{Input: raw, Reason: fmt.Sprintf("host %q is not %s", u.Host, Host)}
	}

	segments := splitPath(u.Path)

	isEmbed := false
	if len(segments) > 0 && segments[0] == "embed" {
		isEmbed = true
		segments = segments[1:]
	}

	if len(segments) < 2 {
		return CanonicalURL{}, &URLError{Input: raw, Reason: "path needs a type and an ID segment"}
	}

	entityType, err := ParseEntityType(segments[0])
	if err != nil {
		return CanonicalURL{}, &URLError{Input: raw, Reason: err.Error()}
	}

	id := segments[1]
	if id == "" {
		return CanonicalURL{}, &URLError{Input: raw, Reason: "empty entity ID"}
	}

	return CanonicalURL{Type: entityType, ID: id, IsEmbed: isEmbed}, nil
}

// classifyURI parses the spotify:<type>:<id> form.
func classifyURI(raw string) (CanonicalURL, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return CanonicalURL{}, &URLError{Input: raw, Reason: "URI needs exactly spotify:<type>:<id>"}
	}

	entityType, err := ParseEntityType(parts[1])
	if err != nil {
		return CanonicalURL{}, &URLError{Input: raw, Reason: err.Error()}
	}
	if parts[2] == "" {
		return CanonicalURL{}, &URLError{Input: raw, Reason: "empty entity ID"}
	}

	return CanonicalURL{Type: entityType, ID: parts[2]}, nil
}

// splitPath breaks a URL path into its meaningful segments, dropping
// empties from leading/trailing slashes and locale prefixes like
// "intl-pt" that the web player inserts before the entity type.
func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" || strings.HasPrefix(segment, "intl-") {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// Validate checks that raw parses cleanly and names an entity of the
// expected type. Extractors call this before any network access so a
// type-mismatched URL fails with zero I/O.
//
// Returns a *URLError if raw does not classify or classifies to a
// different entity type.
func Validate(raw string, expected EntityType) error {
	c, err := Classify(raw)
	if err != nil {
		return err
	}
	if c.Type != expected {
		return &URLError{
			Input:  raw,
			Reason: fmt.Sprintf("expected a %s URL, got %s", expected, c.Type),
		}
	}
	return nil
}

// ToEmbed rewrites any supported identifier to its embed URL form.
// Idempotent: an embed URL comes back unchanged apart from
// canonicalization.
func ToEmbed(raw string) (string, error) {
	c, err := Classify(raw)
	if err != nil {
		return "", err
	}
	return c.EmbedURL(), nil
}

// ToURI rewrites any supported identifier to its spotify:<type>:<id>
// form.
func ToURI(raw string) (string, error) {
	c, err := Classify(raw)
	if err != nil {
		return "", err
	}
	return c.URI(), nil
}

// ToURL rewrites any supported identifier to its regular web URL form.
// Round-trips losslessly with ToURI for the same (type, ID).
func ToURL(raw string) (string, error) {
	c, err := Classify(raw)
	if err != nil {
		return "", err
	}
	return c.URL(), nil
}
