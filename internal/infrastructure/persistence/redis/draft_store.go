package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	wfmodel "mana-universe-api/internal/workflow/model"
	apperrors "mana-universe-api/pkg/errors"
	"mana-universe-api/pkg/metrics"
)

// DefaultDraftTTL 草稿默认保留时间
const DefaultDraftTTL = time.Hour

// DraftStore 以 JSON 形式暂存生成结果
type DraftStore struct {
	client *Client
	ttl    time.Duration
}

// NewDraftStore 创建草稿存储
func NewDraftStore(client *Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftStore{client: client, ttl: ttl}
}

// DraftKey 草稿键，按用户隔离
func DraftKey(userID, draftID string) string {
	return fmt.Sprintf("draft:%s:%s", userID, draftID)
}

// Put 保存草稿，未指定 ID 时生成
func (s *DraftStore) Put(ctx context.Context, draft *wfmodel.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.NewString()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(draft)
	if err != nil {
		metrics.DraftCacheTotal.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, DraftKey(draft.UserID, draft.ID), data, s.ttl); err != nil {
		metrics.DraftCacheTotal.WithLabelValues("put", "error").Inc()
		return apperrors.Wrap(err, apperrors.CodeCacheError, "failed to store draft")
	}
	metrics.DraftCacheTotal.WithLabelValues("put", "success").Inc()
	return nil
}

// Get 读取草稿，不存在或已过期返回 ErrDraftNotFound
func (s *DraftStore) Get(ctx context.Context, userID, draftID string) (*wfmodel.Draft, error) {
	raw, err := s.client.Get(ctx, DraftKey(userID, draftID))
	if err != nil {
		if IsNil(err) {
			metrics.DraftCacheTotal.WithLabelValues("get", "miss").Inc()
			return nil, apperrors.ErrDraftNotFound
		}
		metrics.DraftCacheTotal.WithLabelValues("get", "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "failed to load draft")
	}

	var draft wfmodel.Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		metrics.DraftCacheTotal.WithLabelValues("get", "error").Inc()
		return nil, apperrors.Wrap(err, apperrors.CodeCacheError, "stored draft is corrupt")
	}
	metrics.DraftCacheTotal.WithLabelValues("get", "hit").Inc()
	return &draft, nil
}

// Delete 删除草稿
func (s *DraftStore) Delete(ctx context.Context, userID, draftID string) error {
	return s.client.Del(ctx, DraftKey(userID, draftID))
}
