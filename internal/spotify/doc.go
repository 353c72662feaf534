// Package spotify extracts structured metadata from Spotify web player
// pages without using the official API.
//
// The package handles three concerns:
//
//  1. Classifying and canonicalizing Spotify identifiers (web URLs,
//     embed URLs, spotify: URIs) into (entity type, entity ID) pairs
//  2. Locating and parsing the JSON payload embedded in a rendered page,
//     trying several page generations in a fixed order
//  3. Normalizing the extracted JSON into stable, null-safe records
//     for tracks, albums, artists, playlists, episodes, and shows
//
// # Extracting an Entity
//
// Each entity type has an extractor that runs the whole pipeline:
//
//	scraper := spotify.NewScraper(fetcher, logger)
//	track, err := scraper.Track(ctx, "https://open.spotify.com/track/6rqhFgbbKwnb9MLmUQDhG6")
//	if err != nil {
//	    log.Fatal(err) // transport failure only
//	}
//	if track.Failed() {
//	    fmt.Println("extraction failed:", track.Error)
//	} else {
//	    fmt.Printf("%s by %s\n", track.Name, track.ArtistNames())
//	}
//
// A non-nil error is returned only for transport failures. Every other
// failure mode (bad URL, entity not found, page format change) is
// folded into the record's ERROR field so batch callers can treat all
// results uniformly as data.
//
// # Page Formats
//
// Spotify serves at least two page-rendering generations concurrently.
// The extraction chain tries the __NEXT_DATA__ script tag first, then
// the legacy resource script tag, then the JSON-LD block, and reports
// which strategy produced the document. Fields inside the JSON appear
// under both snake_case and camelCase names depending on generation, so
// every field lookup consults an ordered alias list.
//
// All metadata is fetched from the public embed variant of a page,
// which requires no authenticated session.
package spotify
