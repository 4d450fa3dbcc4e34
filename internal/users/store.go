package users

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"presence-analyzer/internal/platform/cache"
	"presence-analyzer/internal/platform/logging"
)

var ErrSourceUnavailable = errors.New("users source unavailable")

// Store: users XML を読み、TTL の間キャッシュする
type Store struct {
	path string
	memo *cache.Memo[[]User]
}

func NewStore(path string, ttl time.Duration, opts ...cache.Option) *Store {
	s := &Store{path: path}
	opts = append([]cache.Option{cache.WithErrorHook(func(err error) {
		logging.Warnf("users reload failed, serving previous list: %v", err)
	})}, opts...)
	s.memo = cache.NewMemo(ttl, s.load, opts...)
	return s
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	return s.memo.Get(ctx)
}

func (s *Store) load(ctx context.Context) ([]User, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	var doc intranetXML
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrSourceUnavailable, s.path, err)
	}
	return toUsers(doc), nil
}

// id が数値でない user は捨てる
func toUsers(doc intranetXML) []User {
	addr := doc.Server.address()
	out := make([]User, 0, len(doc.Users))
	for _, u := range doc.Users {
		id, err := strconv.Atoi(strings.TrimSpace(u.ID))
		if err != nil {
			logging.Debugf("skip user with id %q: %v", u.ID, err)
			continue
		}
		usr := User{UserID: id, Name: strings.TrimSpace(u.Name)}
		if a := strings.TrimSpace(u.Avatar); a != "" {
			usr.Avatar = addr + a
		}
		out = append(out, usr)
	}
	return out
}
