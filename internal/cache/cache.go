// Package cache provides the shared key-value cache consumed by the student
// data integration layer. Keys are built by explicit mapping functions from
// selector parameters, never by incidental hashing of argument tuples.
package cache

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key-value surface required by the integration layer. Values
// are opaque byte payloads written atomically: a reader either gets a fully
// populated prior entry or a miss, never a partial value.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// StudentDataPrefix is the namespace for cached student directory reads.
const StudentDataPrefix = "students:data:"

// StudentDataKey maps a requested id set to its cache key. A nil or empty id
// set addresses the full active population. Ids are normalized (sorted,
// deduplicated) so equivalent requests share an entry.
func StudentDataKey(ids []int64) string {
	if len(ids) == 0 {
		return StudentDataPrefix + "all"
	}

	normalized := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })

	parts := make([]string, len(normalized))
	for i, id := range normalized {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return StudentDataPrefix + "ids:" + strings.Join(parts, "-")
}
