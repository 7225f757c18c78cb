package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/samber/lo"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
	"github.com/mpapenbr/trackroll/pkg/storage"
)

// storage keys, compatible with data saved by the browser version
const (
	KeyPreferences = "uma_track_selector"
	KeyVisited     = "uma_has_visited"
	KeyMuted       = "uma_mute"
)

type (
	Option func(*Store)
	Store  struct {
		kv storage.Store
		l  *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{kv: kv, l: log.Default().Named("prefs")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save replaces the stored preferences. The standalone mute key is updated
// as well so that both stay consistent.
func (s *Store) Save(ctx context.Context, p *model.Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, KeyPreferences, string(data)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyMuted, strconv.FormatBool(p.Muted))
}

// Load returns the stored preferences. ok is false if nothing was stored or
// the stored data cannot be read; both cases count as first run. Single
// fields of the wrong type are skipped, the remaining ones still apply.
func (s *Store) Load(ctx context.Context) (p *model.Preferences, ok bool) {
	data, err := s.kv.Get(ctx, KeyPreferences)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.l.Warn("could not read preferences", log.ErrorField(err))
		}
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil || fields == nil {
		s.l.Warn("failed to load preferences", log.ErrorField(err))
		return nil, false
	}
	p = &model.Preferences{}
	decodeField(s, fields, "theme", &p.Theme)
	decodeField(s, fields, "terrain", &p.Terrain)
	decodeField(s, fields, "cat", &p.Cat)
	decodeField(s, fields, "dir", &p.Dir)
	decodeField(s, fields, "muted", &p.Muted)
	decodeField(s, fields, "unlocked", &p.Unlocked)
	if !decodeField(s, fields, "caps", &p.Caps) {
		var caps []int
		if decodeField(s, fields, "caps", &caps) {
			p.Caps = lo.Map(caps, func(c, _ int) string { return strconv.Itoa(c) })
		}
	}
	return p, true
}

// decodeField sets dst from fields[key]. A missing key leaves dst untouched,
// as does a value of the wrong type, which is logged and skipped.
// It reports whether dst was set.
func decodeField[T any](s *Store, fields map[string]json.RawMessage, key string, dst *T) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.l.Debug("skipping preference field", log.String("field", key), log.ErrorField(err))
		return false
	}
	*dst = v
	return true
}

// Muted returns the standalone mute flag. ok is false if it was never stored.
func (s *Store) Muted(ctx context.Context) (muted, ok bool) {
	return s.boolKey(ctx, KeyMuted)
}

// Visited reports whether MarkVisited was called before.
func (s *Store) Visited(ctx context.Context) bool {
	v, _ := s.boolKey(ctx, KeyVisited)
	return v
}

func (s *Store) MarkVisited(ctx context.Context) error {
	return s.kv.Set(ctx, KeyVisited, "true")
}

// Reset removes everything the store has written.
func (s *Store) Reset(ctx context.Context) error {
	return errors.Join(
		s.kv.Delete(ctx, KeyPreferences),
		s.kv.Delete(ctx, KeyVisited),
		s.kv.Delete(ctx, KeyMuted),
	)
}

func (s *Store) boolKey(ctx context.Context, key string) (value, ok bool) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.l.Warn("could not read key", log.String("key", key), log.ErrorField(err))
		}
		return false, false
	}
	return v == "true", true
}
