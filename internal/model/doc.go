// Package model defines the normalized entity records produced by the
// scraper: Track, Album, Artist, Playlist, Episode and Show.
//
// # Shape guarantees
//
// Every record carries four identity fields that are always valid strings,
// possibly empty on partial failure: ID, Name, URI and Type. Consumers never
// need to nil-check these. Collection fields (Artists, Images, Tracks,
// TopTracks, Episodes) are always non-nil slices, even when the source JSON
// had null there. Optional scalar fields are omitted from JSON output when
// unknown; optional booleans and nested objects use pointers so that absence
// is distinguishable from false/zero.
//
// # Error records
//
// A failed extraction is represented as a record whose Error field is set.
// Such a record serializes to JSON as exactly five keys:
//
//	{"ERROR": "...", "id": "", "name": "", "uri": "", "type": "track"}
//
// so batch consumers can treat every result as data and partition on the
// presence of ERROR:
//
//	track, _ := scraper.Track(ctx, url)
//	if track.Failed() {
//	    log.Printf("skipping %s: %s", url, track.Error)
//	    return
//	}
//
// Use the ErrorTrack, ErrorAlbum, ... constructors to build error records.
//
// # Lifecycle
//
// Records are created fresh per extraction call, never cached and never
// mutated after construction; ownership is exclusively with the caller.
package model
