// Package datasync はデータ元（CSV / users XML）を URL から取り込み直す。
package datasync

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"presence-analyzer/internal/platform/logging"
)

// ID 生成（テストで差し替え可）
type IDGen interface{ New() (string, error) }

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Target: URL -> 保存先
type Target struct {
	Name string
	URL  string
	Dest string
}

type FileResult struct {
	Name  string `json:"name"`
	Dest  string `json:"dest"`
	Bytes int64  `json:"bytes"`
}

type Result struct {
	JobID      string       `json:"job_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Files      []FileResult `json:"files"`
}

var ErrNothingToSync = errors.New("no sync targets configured")

type Service struct {
	client  *http.Client
	targets []Target
	ids     IDGen
}

// URL が空の Target は無視する
func NewService(client *http.Client, targets ...Target) *Service {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	var ts []Target
	for _, t := range targets {
		if t.URL != "" && t.Dest != "" {
			ts = append(ts, t)
		}
	}
	return &Service{client: client, targets: ts, ids: ulidGen{}}
}

// Run: 全 Target をダウンロード。1 件でも失敗したらそこで止める（保存済みのものはそのまま）。
// キャッシュは触らない。新しい内容は TTL 切れ後の再読込で反映される。
func (s *Service) Run(ctx context.Context) (Result, error) {
	if len(s.targets) == 0 {
		return Result{}, ErrNothingToSync
	}
	id, err := s.ids.New()
	if err != nil {
		return Result{}, err
	}
	res := Result{JobID: id, StartedAt: time.Now().UTC(), Files: []FileResult{}}
	for _, t := range s.targets {
		n, err := s.download(ctx, t.URL, t.Dest)
		if err != nil {
			logging.Warnf("sync %s: %s failed: %v", id, t.Name, err)
			return res, fmt.Errorf("%s: %w", t.Name, err)
		}
		logging.Infof("sync %s: %s -> %s (%d bytes)", id, t.URL, t.Dest, n)
		res.Files = append(res.Files, FileResult{Name: t.Name, Dest: t.Dest, Bytes: n})
	}
	res.FinishedAt = time.Now().UTC()
	return res, nil
}

// download: 一時ファイルに書いてから rename（読み込み中のローダーに途中の内容を見せない）
func (s *Service) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, err
	}
	return n, nil
}
