package presence

import (
	"context"
	"time"

	"presence-analyzer/internal/platform/cache"
	"presence-analyzer/internal/platform/logging"
)

// DefaultTTL: 出勤データはめったに変わらないので 10 分
const DefaultTTL = 600 * time.Second

// RecordStore: Loader の結果を TTL の間キャッシュする
type RecordStore struct {
	memo *cache.Memo[Dataset]
}

func NewRecordStore(loader Loader, ttl time.Duration, opts ...cache.Option) *RecordStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	opts = append([]cache.Option{cache.WithErrorHook(func(err error) {
		logging.Warnf("reload failed, serving previous dataset: %v", err)
	})}, opts...)

	produce := func(ctx context.Context) (Dataset, error) {
		started := time.Now()
		data, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		logging.Infof("loaded presence data: users=%d records=%d in %s", len(data), data.Len(), time.Since(started))
		return data, nil
	}
	return &RecordStore{memo: cache.NewMemo(ttl, produce, opts...)}
}

// Get: 返した Dataset は読み取り専用として扱うこと
func (s *RecordStore) Get(ctx context.Context) (Dataset, error) {
	return s.memo.Get(ctx)
}

// User: 該当ユーザーがいなければ ok=false（エラーではない）
func (s *RecordStore) User(ctx context.Context, userID int) (map[Date]Entry, bool, error) {
	data, err := s.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	days, ok := data[userID]
	return days, ok, nil
}
