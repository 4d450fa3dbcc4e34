// Package cache は単一スロットの TTL メモ化を提供する。
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Producer は値を生成する（ファイル読込など重い処理を想定）
type Producer[V any] func(ctx context.Context) (V, error)

// Memo: producer の結果を ttl の間だけ保持する。
// 判定→生成→保存を 1 つの mutex で囲むので、同一 Memo で producer が並行実行されることはない。
type Memo[V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	produce    Producer[V]
	clock      clockwork.Clock
	onError    func(err error)
	value      V
	computedAt time.Time
	has        bool
}

type Option func(*options)

type options struct {
	clock   clockwork.Clock
	onError func(err error)
}

// WithClock: テスト用に時計を差し替える
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithErrorHook: 古い値を返した時（再生成に失敗）に呼ばれる
func WithErrorHook(fn func(err error)) Option {
	return func(o *options) { o.onError = fn }
}

func NewMemo[V any](ttl time.Duration, produce Producer[V], opts ...Option) *Memo[V] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memo[V]{
		ttl:     ttl,
		produce: produce,
		clock:   o.clock,
		onError: o.onError,
	}
}

// Get: now < computedAt+ttl ならキャッシュを返す。それ以外は producer を 1 回だけ呼ぶ。
// producer には呼び出し元のキャンセルを伝えない（結果は他のリクエストとも共有するため）。
//
// producer が失敗した場合:
//   - 以前の値が無い → エラーをそのまま返す（何もキャッシュしない）
//   - 以前の値が有る → 古い値を返し、computedAt を進めて次の再試行を ttl 後にする
//   - context のエラー → 古い値を返すが computedAt は進めない（次の呼び出しで再試行）
func (m *Memo[V]) Get(ctx context.Context) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	if m.has && now.Before(m.computedAt.Add(m.ttl)) {
		return m.value, nil
	}

	v, err := m.produce(context.WithoutCancel(ctx))
	if err != nil {
		if !m.has {
			var zero V
			return zero, err
		}
		if isContextErr(err) {
			return m.value, nil
		}
		m.computedAt = now
		if m.onError != nil {
			m.onError(err)
		}
		return m.value, nil
	}

	m.value = v
	m.computedAt = now
	m.has = true
	return v, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
