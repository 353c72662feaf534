package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/handiism/spotify-scraper/internal/browser"
	"github.com/handiism/spotify-scraper/internal/config"
	"github.com/handiism/spotify-scraper/internal/download"
	"github.com/handiism/spotify-scraper/internal/http"
	ioutils "github.com/handiism/spotify-scraper/internal/io"
	"github.com/handiism/spotify-scraper/internal/model"
	"github.com/handiism/spotify-scraper/internal/spotify"
)

// bareID matches inputs that are a naked entity ID rather than a URL
// or spotify: URI.
var bareID = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// failer is implemented by every record type.
type failer interface{ Failed() bool }

// unknownRecord mirrors the uniform error-record shape for inputs that
// could not even be classified.
type unknownRecord struct {
	Error string `json:"ERROR"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	URI   string `json:"uri"`
	Type  string `json:"type"`
}

func (u unknownRecord) Failed() bool { return true }

func main() {
	var (
		urlsFlag     = flag.String("url", "", "Spotify URL(s) to scrape (comma-separated or newline-separated)")
		typeFlag     = flag.String("type", "auto", "Entity type: auto, track, album, artist, playlist, episode, show")
		batchFlag    = flag.String("batch", "", "File with one URL or ID per line ('#' starts a comment)")
		formatFlag   = flag.String("format", "json", "Output format: json or yaml")
		outputFlag   = flag.String("output", "", "Write records to this file instead of stdout")
		prettyFlag   = flag.Bool("pretty", false, "Indent JSON output")
		downloadFlag = flag.Bool("download", false, "Download audio previews after scraping")
		playlistFlag = flag.Bool("playlist", false, "Create a playlist file when downloading collections")
		coversFlag   = flag.Bool("covers", false, "Save cover art next to downloaded previews")
		fetcherFlag  = flag.String("fetcher", "", "Fetcher backend: http or browser (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	inputs, err := collectInputs(*urlsFlag, *batchFlag, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("Spotify Scraper - Extract metadata from the Spotify web player")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  spotify-scraper -url <URL> [options]")
		fmt.Println("  spotify-scraper <URL> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: spotify-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *fetcherFlag != "" {
		settings.FetcherBackend = *fetcherFlag
	}
	if *verboseFlag {
		settings.LogLevel = "debug"
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *coversFlag {
		settings.SaveCovers = true
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	wantType := spotify.EntityType("")
	if *typeFlag != "auto" {
		wantType, err = spotify.ParseEntityType(*typeFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	log := settings.Logger()

	// Pick the fetcher backend
	var fetcher spotify.Fetcher
	switch settings.FetcherBackend {
	case config.BackendBrowser:
		b, err := browser.NewFetcher(settings.BrowserOptions())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting browser: %v\n", err)
			os.Exit(1)
		}
		defer b.Close()
		fetcher = b
	default:
		fetcher = http.NewClientWithOptions(settings.ClientOptions())
	}

	scraper := spotify.NewScraper(fetcher, log)

	// Scrape all inputs, preserving input order
	records := make([]any, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.MaxConcurrentDownloads)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			records[i] = scrape(gctx, scraper, input, wantType)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		os.Exit(130)
	}

	// Emit records
	out, err := encodeRecords(records, *formatFlag, *prettyFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
	if *outputFlag != "" {
		if err := ioutils.WriteFile(ctx, *outputFlag, out); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *outputFlag, err)
			os.Exit(1)
		}
	} else {
		os.Stdout.Write(out)
	}

	failures := 0
	for _, record := range records {
		if f, ok := record.(failer); ok && f.Failed() {
			failures++
		}
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d records failed\n", failures, len(records))
	}

	if *downloadFlag {
		if err := runDownloads(ctx, settings, scraper, records, *verboseFlag); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "Download cancelled.")
				os.Exit(130)
			}
			fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
			os.Exit(1)
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// collectInputs merges the -url flag, positional arguments and the
// batch file into one input list.
func collectInputs(urls, batchPath string, args []string) ([]string, error) {
	var inputs []string

	appendInput := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw != "" {
			inputs = append(inputs, raw)
		}
	}

	for _, part := range strings.FieldsFunc(urls, func(r rune) bool { return r == ',' || r == '\n' }) {
		appendInput(part)
	}
	for _, arg := range args {
		appendInput(arg)
	}

	if batchPath != "" {
		file, err := os.Open(batchPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			appendInput(line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return inputs, nil
}

// scrape resolves one input to a record. Transport failures and bad
// inputs still produce an ERROR record, so batch runs always emit one
// record per input.
func scrape(ctx context.Context, scraper *spotify.Scraper, input string, wantType spotify.EntityType) any {
	entityType := wantType
	isID := bareID.MatchString(input)

	if entityType == "" {
		if isID {
			return unknownRecord{Error: fmt.Sprintf("bare ID %q needs -type", input)}
		}
		c, err := spotify.Classify(input)
		if err != nil {
			return unknownRecord{Error: err.Error()}
		}
		entityType = c.Type
	}

	if isID {
		return scrapeByID(ctx, scraper, entityType, input)
	}
	return scrapeByURL(ctx, scraper, entityType, input)
}

func scrapeByID(ctx context.Context, scraper *spotify.Scraper, entityType spotify.EntityType, id string) any {
	switch entityType {
	case spotify.TypeTrack:
		record, _ := scraper.TrackByID(ctx, id)
		return record
	case spotify.TypeAlbum:
		record, _ := scraper.AlbumByID(ctx, id)
		return record
	case spotify.TypeArtist:
		record, _ := scraper.ArtistByID(ctx, id)
		return record
	case spotify.TypePlaylist:
		record, _ := scraper.PlaylistByID(ctx, id)
		return record
	case spotify.TypeEpisode:
		record, _ := scraper.EpisodeByID(ctx, id)
		return record
	case spotify.TypeShow:
		record, _ := scraper.ShowByID(ctx, id)
		return record
	}
	return unknownRecord{Error: fmt.Sprintf("unsupported entity type %q", entityType)}
}

func scrapeByURL(ctx context.Context, scraper *spotify.Scraper, entityType spotify.EntityType, url string) any {
	switch entityType {
	case spotify.TypeTrack:
		record, _ := scraper.Track(ctx, url)
		return record
	case spotify.TypeAlbum:
		record, _ := scraper.Album(ctx, url)
		return record
	case spotify.TypeArtist:
		record, _ := scraper.Artist(ctx, url)
		return record
	case spotify.TypePlaylist:
		record, _ := scraper.Playlist(ctx, url)
		return record
	case spotify.TypeEpisode:
		record, _ := scraper.Episode(ctx, url)
		return record
	case spotify.TypeShow:
		record, _ := scraper.Show(ctx, url)
		return record
	}
	return unknownRecord{Error: fmt.Sprintf("unsupported entity type %q", entityType)}
}

// encodeRecords serializes one record plain or several as a list.
func encodeRecords(records []any, format string, pretty bool) ([]byte, error) {
	var payload any = records
	if len(records) == 1 {
		payload = records[0]
	}

	switch format {
	case "json":
		if pretty {
			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		}
		out, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		// Round-trip through JSON so the records' marshaling rules
		// (error-record shape, omitted optionals) carry over.
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yaml.Marshal(generic)
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// runDownloads queues every successful record and downloads its previews.
func runDownloads(ctx context.Context, settings *config.Settings, scraper *spotify.Scraper, records []any, verbose bool) error {
	manager := download.NewManager(settings, scraper, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}

		prefix := "  "
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		}
		fmt.Fprintln(os.Stderr, prefix+event.Message)
	})

	queued := 0
	for _, record := range records {
		var err error
		switch r := record.(type) {
		case *model.Track:
			err = manager.AddTrack(ctx, r)
		case *model.Album:
			err = manager.AddAlbum(ctx, r)
		case *model.Playlist:
			err = manager.AddPlaylist(ctx, r)
		case *model.Artist:
			err = manager.AddArtist(ctx, r)
		case *model.Episode:
			err = manager.AddEpisode(ctx, r)
		case *model.Show:
			err = manager.AddShow(ctx, r)
		default:
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "! Not downloading: %v\n", err)
			continue
		}
		queued++
	}
	if queued == 0 {
		return fmt.Errorf("nothing downloadable")
	}

	if err := manager.StartDownloads(ctx); err != nil {
		return err
	}

	received, _, filesReceived, filesTotal := manager.GetProgress()
	fmt.Fprintf(os.Stderr, "Downloaded %d/%d files (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
	return nil
}
