// Package assets locates stock footage, photos and music for a topic.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/videoforge/videoforge/internal/cache"
	"github.com/videoforge/videoforge/internal/logging"
	"github.com/videoforge/videoforge/internal/metrics"
)

const (
	pexelsVideoSearchURL = "https://api.pexels.com/videos/search"
	pexelsPhotoSearchURL = "https://api.pexels.com/v1/search"
	// preferredVideoHeight picks the smallest rendition at or above this.
	preferredVideoHeight = 1080
)

// Fetcher downloads stock media from Pexels, with a Redis-backed search
// cache and a local-directory fallback. Every lookup degrades instead of
// failing: the worst case is an empty result.
type Fetcher struct {
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	cacheTTL   time.Duration
	localVideo string
	localMusic string
	log        *logging.Logger

	videoSearchURL string
	photoSearchURL string
}

// Options configures a Fetcher. Cache may be nil, in which case every
// search hits the API. LocalVideoDir and LocalMusicDir may be empty.
type Options struct {
	APIKey        string
	Cache         *cache.Cache
	CacheTTL      time.Duration
	LocalVideoDir string
	LocalMusicDir string
	HTTPClient    *http.Client
	Logger        *logging.Logger
}

// NewFetcher creates a stock media fetcher.
func NewFetcher(opts Options) *Fetcher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Fetcher{
		apiKey:         opts.APIKey,
		httpClient:     opts.HTTPClient,
		cache:          opts.Cache,
		cacheTTL:       opts.CacheTTL,
		localVideo:     opts.LocalVideoDir,
		localMusic:     opts.LocalMusicDir,
		log:            opts.Logger,
		videoSearchURL: pexelsVideoSearchURL,
		photoSearchURL: pexelsPhotoSearchURL,
	}
}

type pexelsVideoFile struct {
	Link     string `json:"link"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileType string `json:"file_type"`
}

type pexelsVideoResult struct {
	Videos []struct {
		ID         int               `json:"id"`
		Duration   int               `json:"duration"`
		VideoFiles []pexelsVideoFile `json:"video_files"`
	} `json:"videos"`
}

type pexelsPhotoResult struct {
	Photos []struct {
		ID  int `json:"id"`
		Src struct {
			Large2x string `json:"large2x"`
			Large   string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// FetchVideos finds up to count stock clips matching the keywords and
// downloads them into outDir. Results from the API and from the local
// directory are combined; API failures degrade to local files only.
func (f *Fetcher) FetchVideos(ctx context.Context, keywords []string, count int, outDir string) ([]string, error) {
	var paths []string

	urls, err := f.searchVideoURLs(ctx, keywords, count)
	if err != nil {
		f.log.WithError(err).Warn("stock video search failed, using local files only")
	}
	for i, u := range urls {
		if len(paths) >= count {
			break
		}
		dest := filepath.Join(outDir, fmt.Sprintf("stock_%02d.mp4", i))
		if err := f.download(ctx, u, dest); err != nil {
			f.log.WithError(err).Warnf("skipping stock clip that failed to download")
			continue
		}
		paths = append(paths, dest)
	}

	if len(paths) < count && f.localVideo != "" {
		local := listMediaFiles(f.localVideo, []string{".mp4", ".mov", ".mkv", ".webm"})
		for _, p := range local {
			if len(paths) >= count {
				break
			}
			paths = append(paths, p)
		}
	}

	return paths, nil
}

// FetchImages finds up to count stock photos matching the keywords.
func (f *Fetcher) FetchImages(ctx context.Context, keywords []string, count int, outDir string) ([]string, error) {
	if f.apiKey == "" {
		return nil, nil
	}

	query := strings.Join(keywords, " ")
	key := cache.AssetSearchKey("image", keywords)

	urls := f.cachedSearch(ctx, key)
	if urls == nil {
		var err error
		urls, err = f.searchPhotos(ctx, query, count)
		if err != nil {
			return nil, fmt.Errorf("photo search: %w", err)
		}
		f.storeSearch(ctx, key, urls)
	}

	var paths []string
	for i, u := range urls {
		if len(paths) >= count {
			break
		}
		dest := filepath.Join(outDir, fmt.Sprintf("still_%02d.jpg", i))
		if err := f.download(ctx, u, dest); err != nil {
			f.log.WithError(err).Warn("skipping stock photo that failed to download")
			continue
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// FetchMusic picks a background track from the local music directory.
// The mood parameter selects a subdirectory when one exists.
func (f *Fetcher) FetchMusic(_ context.Context, mood string, _ string) (string, error) {
	if f.localMusic == "" {
		return "", nil
	}

	dir := f.localMusic
	if mood != "" {
		moodDir := filepath.Join(f.localMusic, mood)
		if info, err := os.Stat(moodDir); err == nil && info.IsDir() {
			dir = moodDir
		}
	}

	tracks := listMediaFiles(dir, []string{".mp3", ".m4a", ".wav", ".ogg"})
	if len(tracks) == 0 {
		return "", nil
	}
	// Deterministic pick keeps repeated renders of a topic consistent.
	return tracks[0], nil
}

func (f *Fetcher) searchVideoURLs(ctx context.Context, keywords []string, count int) ([]string, error) {
	if f.apiKey == "" {
		return nil, nil
	}

	key := cache.AssetSearchKey("video", keywords)
	if urls := f.cachedSearch(ctx, key); urls != nil {
		metrics.RecordCacheAccess("asset_search", true)
		return urls, nil
	}
	metrics.RecordCacheAccess("asset_search", false)

	query := strings.Join(keywords, " ")
	reqURL := fmt.Sprintf("%s?query=%s&per_page=%d", f.videoSearchURL, url.QueryEscape(query), count)

	var result pexelsVideoResult
	if err := f.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	var urls []string
	for _, v := range result.Videos {
		if link := pickVideoFile(v.VideoFiles); link != "" {
			urls = append(urls, link)
		}
	}

	f.storeSearch(ctx, key, urls)
	return urls, nil
}

func (f *Fetcher) searchPhotos(ctx context.Context, query string, count int) ([]string, error) {
	reqURL := fmt.Sprintf("%s?query=%s&per_page=%d", f.photoSearchURL, url.QueryEscape(query), count)

	var result pexelsPhotoResult
	if err := f.getJSON(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	var urls []string
	for _, p := range result.Photos {
		if p.Src.Large2x != "" {
			urls = append(urls, p.Src.Large2x)
		} else if p.Src.Large != "" {
			urls = append(urls, p.Src.Large)
		}
	}
	return urls, nil
}

func (f *Fetcher) cachedSearch(ctx context.Context, key string) []string {
	if f.cache == nil {
		return nil
	}
	urls, err := f.cache.GetAssetSearch(ctx, key)
	if err != nil {
		f.log.WithError(err).Warn("asset search cache read failed")
		return nil
	}
	return urls
}

func (f *Fetcher) storeSearch(ctx context.Context, key string, urls []string) {
	if f.cache == nil || len(urls) == 0 {
		return
	}
	if err := f.cache.SetAssetSearch(ctx, key, urls, f.cacheTTL); err != nil {
		f.log.WithError(err).Warn("asset search cache write failed")
	}
}

func (f *Fetcher) getJSON(ctx context.Context, reqURL string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", f.apiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func (f *Fetcher) download(ctx context.Context, srcURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// pickVideoFile chooses the smallest mp4 rendition tall enough for the
// target, falling back to the largest available.
func pickVideoFile(files []pexelsVideoFile) string {
	var best, largest *pexelsVideoFile
	for i := range files {
		file := &files[i]
		if file.FileType != "video/mp4" || file.Link == "" {
			continue
		}
		if largest == nil || file.Height > largest.Height {
			largest = file
		}
		if file.Height >= preferredVideoHeight {
			if best == nil || file.Height < best.Height {
				best = file
			}
		}
	}
	if best != nil {
		return best.Link
	}
	if largest != nil {
		return largest.Link
	}
	return ""
}

// listMediaFiles returns files in dir with one of the given extensions,
// sorted by name.
func listMediaFiles(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	return paths
}
