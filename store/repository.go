// ABOUTME: Typed repository over the key-value store for playlists and settings
// ABOUTME: Songs, playlist metadata, theme mode and profile are stored as JSON values

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"playlist-editor/playlist"
)

// Storage keys
const (
	songsPrefix = "playlist-"
	metaPrefix  = "playlist-meta-"

	ThemeModeKey = "themeMode"
	ProfileKey   = "userProfile"
)

// ErrInvalidID is returned for playlist IDs that would collide with other keys
var ErrInvalidID = errors.New("invalid playlist id")

// Summary describes one stored playlist
type Summary struct {
	ID        string
	Meta      playlist.Meta
	SongCount int
}

// Repository reads and writes application data through a KV
type Repository struct {
	kv KV
}

// NewRepository wraps kv
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// SongsKey is the key holding the song list of playlist id
func SongsKey(id string) string { return songsPrefix + id }

// MetaKey is the key holding the metadata of playlist id
func MetaKey(id string) string { return metaPrefix + id }

// ValidateID rejects empty IDs and IDs whose songs key would overlap a metadata key
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" || strings.HasPrefix(SongsKey(id), metaPrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return nil
}

// LoadSongs returns the persisted songs of playlist id.
// ok is false when nothing has been stored yet.
func (r *Repository) LoadSongs(ctx context.Context, id string) (songs []playlist.Song, ok bool, err error) {
	if err := ValidateID(id); err != nil {
		return nil, false, err
	}

	ok, err = r.getJSON(ctx, SongsKey(id), &songs)

	return songs, ok, err
}

// SaveSongs persists the song list of playlist id
func (r *Repository) SaveSongs(ctx context.Context, id string, songs []playlist.Song) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	if songs == nil {
		songs = []playlist.Song{}
	}

	return r.setJSON(ctx, SongsKey(id), songs)
}

// LoadMeta returns the metadata of playlist id
func (r *Repository) LoadMeta(ctx context.Context, id string) (meta playlist.Meta, ok bool, err error) {
	if err := ValidateID(id); err != nil {
		return playlist.Meta{}, false, err
	}

	ok, err = r.getJSON(ctx, MetaKey(id), &meta)

	return meta, ok, err
}

// SaveMeta persists the metadata of playlist id
func (r *Repository) SaveMeta(ctx context.Context, id string, meta playlist.Meta) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	return r.setJSON(ctx, MetaKey(id), meta)
}

// LoadThemeMode returns the stored theme mode string
func (r *Repository) LoadThemeMode(ctx context.Context) (string, bool, error) {
	return r.kv.Get(ctx, ThemeModeKey)
}

// SaveThemeMode stores the theme mode string
func (r *Repository) SaveThemeMode(ctx context.Context, mode string) error {
	return r.kv.Set(ctx, ThemeModeKey, mode)
}

// LoadJSON decodes the value at key into v
func (r *Repository) LoadJSON(ctx context.Context, key string, v any) (bool, error) {
	return r.getJSON(ctx, key, v)
}

// SaveJSON stores v JSON-encoded at key
func (r *Repository) SaveJSON(ctx context.Context, key string, v any) error {
	return r.setJSON(ctx, key, v)
}

// List returns every playlist that has songs or metadata stored, sorted by ID
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	keys, err := r.kv.Keys(ctx, songsPrefix)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Summary)
	get := func(id string) *Summary {
		if s, ok := byID[id]; ok {
			return s
		}

		s := &Summary{ID: id}
		byID[id] = s

		return s
	}

	for _, key := range keys {
		if id, isMeta := strings.CutPrefix(key, metaPrefix); isMeta {
			meta, _, err := r.LoadMeta(ctx, id)
			if err != nil {
				return nil, err
			}

			get(id).Meta = meta

			continue
		}

		id := strings.TrimPrefix(key, songsPrefix)

		songs, _, err := r.LoadSongs(ctx, id)
		if err != nil {
			return nil, err
		}

		get(id).SongCount = len(songs)
	}

	summaries := make([]Summary, 0, len(byID))
	for _, s := range byID {
		summaries = append(summaries, *s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})

	return summaries, nil
}

func (r *Repository) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", key, err)
	}

	return true, nil
}

func (r *Repository) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	return r.kv.Set(ctx, key, string(data))
}
