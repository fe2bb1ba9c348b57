// PostgREST (Supabase record store) implementation of [RecordStore]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jlwilt7/lockedin-music/internal/models"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"golang.org/x/time/rate"
)

// defaultRecordRateLimit bounds record store requests per second.
const defaultRecordRateLimit = 10.0

// RecordsService queries the artists, albums, and tracks tables through the
// project's PostgREST endpoint. All requests share a [rate.Limiter].
type RecordsService struct {
	baseURL    string
	anonKey    string
	session    SessionProvider
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewRecordsService creates a RecordsService. A nil client defaults to
// [http.DefaultClient]; rateLimit <= 0 uses the package default.
func NewRecordsService(baseURL, anonKey string, session SessionProvider, client *http.Client, rateLimit float64) *RecordsService {
	if client == nil {
		client = http.DefaultClient
	}
	if rateLimit <= 0 {
		rateLimit = defaultRecordRateLimit
	}
	return &RecordsService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		session:    session,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
}

// FindArtist looks up an artist by (name, owner). Returns (nil, nil) when no
// match exists.
func (r *RecordsService) FindArtist(ctx context.Context, name, owner string) (*models.Artist, error) {
	params := url.Values{}
	params.Set("select", "id,name,user_id")
	params.Set("name", "eq."+name)
	params.Set("user_id", "eq."+owner)
	params.Set("limit", "1")

	var rows []models.Artist
	if err := r.get(ctx, "artists", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateArtist inserts a new artist record.
func (r *RecordsService) CreateArtist(ctx context.Context, artist models.Artist) (*models.Artist, error) {
	var rows []models.Artist
	if err := r.insert(ctx, "artists", artist, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert returned no artist row", shared.ErrRemoteRequest)
	}
	return &rows[0], nil
}

// FindAlbum looks up an album by (title, artistID, owner). Returns (nil, nil)
// when no match exists.
func (r *RecordsService) FindAlbum(ctx context.Context, title, artistID, owner string) (*models.Album, error) {
	params := url.Values{}
	params.Set("select", "id,title,artist_id,user_id,cover_url")
	params.Set("title", "eq."+title)
	params.Set("artist_id", "eq."+artistID)
	params.Set("user_id", "eq."+owner)
	params.Set("limit", "1")

	var rows []models.Album
	if err := r.get(ctx, "albums", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// CreateAlbum inserts a new album record. The cover URL is attached here only;
// existing albums are never updated with a later cover.
func (r *RecordsService) CreateAlbum(ctx context.Context, album models.Album) (*models.Album, error) {
	var rows []models.Album
	if err := r.insert(ctx, "albums", album, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert returned no album row", shared.ErrRemoteRequest)
	}
	return &rows[0], nil
}

// CreateTrack inserts a new track record.
func (r *RecordsService) CreateTrack(ctx context.Context, track models.Track) (*models.Track, error) {
	var rows []models.Track
	if err := r.insert(ctx, "tracks", track, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert returned no track row", shared.ErrRemoteRequest)
	}
	return &rows[0], nil
}

// joinedTrack is the PostgREST response shape when artist/album resources are
// embedded in a track select.
type joinedTrack struct {
	models.Track
	Artists *struct {
		Name string `json:"name"`
	} `json:"artists"`
	Albums *struct {
		Title    string `json:"title"`
		CoverURL string `json:"cover_url"`
	} `json:"albums"`
}

func (j joinedTrack) flatten() models.Track {
	track := j.Track
	if j.Artists != nil {
		track.ArtistName = j.Artists.Name
	}
	if j.Albums != nil {
		track.AlbumTitle = j.Albums.Title
		track.CoverURL = j.Albums.CoverURL
	}
	return track
}

// ListTracks returns the owner's tracks with artist and album display fields
// joined in, ordered by title.
func (r *RecordsService) ListTracks(ctx context.Context, owner string) ([]models.Track, error) {
	params := url.Values{}
	params.Set("select", "*,artists(name),albums(title,cover_url)")
	params.Set("user_id", "eq."+owner)
	params.Set("order", "title.asc")

	var rows []joinedTrack
	if err := r.get(ctx, "tracks", params, &rows); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, len(rows))
	for i, row := range rows {
		tracks[i] = row.flatten()
	}
	return tracks, nil
}

// ListAlbums returns the owner's albums ordered by title.
func (r *RecordsService) ListAlbums(ctx context.Context, owner string) ([]models.Album, error) {
	params := url.Values{}
	params.Set("select", "id,title,artist_id,user_id,cover_url")
	params.Set("user_id", "eq."+owner)
	params.Set("order", "title.asc")

	var rows []models.Album
	if err := r.get(ctx, "albums", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTrack retrieves one of the owner's tracks by id. Returns (nil, nil) when
// no match exists.
func (r *RecordsService) GetTrack(ctx context.Context, id, owner string) (*models.Track, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("id", "eq."+id)
	params.Set("user_id", "eq."+owner)
	params.Set("limit", "1")

	var rows []models.Track
	if err := r.get(ctx, "tracks", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// TracksByAlbum returns the owner's tracks belonging to the given album.
func (r *RecordsService) TracksByAlbum(ctx context.Context, albumID, owner string) ([]models.Track, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("album_id", "eq."+albumID)
	params.Set("user_id", "eq."+owner)

	var rows []models.Track
	if err := r.get(ctx, "tracks", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteTrack removes one of the owner's tracks by id.
func (r *RecordsService) DeleteTrack(ctx context.Context, id, owner string) error {
	params := url.Values{}
	params.Set("id", "eq."+id)
	params.Set("user_id", "eq."+owner)
	return r.delete(ctx, "tracks", params)
}

// DeleteTracksByAlbum removes all of the owner's tracks in the given album.
func (r *RecordsService) DeleteTracksByAlbum(ctx context.Context, albumID, owner string) error {
	params := url.Values{}
	params.Set("album_id", "eq."+albumID)
	params.Set("user_id", "eq."+owner)
	return r.delete(ctx, "tracks", params)
}

// DeleteAlbum removes one of the owner's albums by id.
func (r *RecordsService) DeleteAlbum(ctx context.Context, id, owner string) error {
	params := url.Values{}
	params.Set("id", "eq."+id)
	params.Set("user_id", "eq."+owner)
	return r.delete(ctx, "albums", params)
}

// get performs a PostgREST select and decodes the row array into result.
func (r *RecordsService) get(ctx context.Context, table string, params url.Values, result any) error {
	body, err := r.doRequest(ctx, http.MethodGet, table, params, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", table, err)
	}
	return nil
}

// insert performs a PostgREST insert, asking for the created representation
// back so generated ids reach the caller.
func (r *RecordsService) insert(ctx context.Context, table string, record any, result any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", table, err)
	}

	body, err := r.doRequest(ctx, http.MethodPost, table, nil, payload, "return=representation")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", table, err)
	}
	return nil
}

// delete performs a PostgREST delete for the rows matched by params.
func (r *RecordsService) delete(ctx context.Context, table string, params url.Values) error {
	_, err := r.doRequest(ctx, http.MethodDelete, table, params, nil, "")
	return err
}

// doRequest performs an authenticated PostgREST request, waiting on the rate
// limiter first.
func (r *RecordsService) doRequest(ctx context.Context, method, table string, params url.Values, payload []byte, prefer string) ([]byte, error) {
	token := r.session.AccessToken()
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteRequest, err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", r.baseURL, table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		} else {
			msg = fmt.Sprintf("status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: %s %s: %s", shared.ErrRemoteRequest, method, table, msg)
	}

	return body, nil
}
