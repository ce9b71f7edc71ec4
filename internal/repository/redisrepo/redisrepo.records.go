// FilePath: internal/repository/redisrepo/redisrepo.records.go
package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsatony/sensorscore/internal/errors"
	"github.com/itsatony/sensorscore/internal/models"
	"github.com/itsatony/sensorscore/internal/repository"
	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const DefaultKeyPrefix = "sensorscore"

// RecordRepo stores generation records as JSON values indexed by sorted sets.
//
// Keys:
//
//	<prefix>:seq            id sequence
//	<prefix>:record:<id>    record JSON
//	<prefix>:by_time        all ids scored by generation time (unix ms)
//	<prefix>:zone:<zone>    ids of one zone, same scoring
//
// Ids are zero-padded so that members sharing a score sort by id.
type RecordRepo struct {
	client *redis.Client
	prefix string
}

func NewRecordRepository(client *redis.Client, prefix string) *RecordRepo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	nuts.L.Infof("[RedisRecordRepo] Using key prefix %s", prefix)
	return &RecordRepo{client: client, prefix: prefix}
}

func (r *RecordRepo) seqKey() string             { return r.prefix + ":seq" }
func (r *RecordRepo) byTimeKey() string          { return r.prefix + ":by_time" }
func (r *RecordRepo) zoneKey(zone string) string { return r.prefix + ":zone:" + zone }
func (r *RecordRepo) recordKey(id string) string { return r.prefix + ":record:" + id }

func memberID(id int64) string { return fmt.Sprintf("%019d", id) }

func (r *RecordRepo) Create(ctx context.Context, record *models.GenerationRecord) error {
	if record == nil {
		return errors.NewValidationError("generation record is required", repository.ErrInvalidInput)
	}
	if record.GenerationTimestamp.IsZero() {
		record.GenerationTimestamp = time.Now().UTC()
	}

	id, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return errors.NewDatabaseError("failed to allocate generation record id", err)
	}
	record.ID = id

	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewInternalError("failed to encode generation record", err)
	}

	member := memberID(id)
	score := float64(record.GenerationTimestamp.UnixMilli())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(member), data, 0)
		pipe.ZAdd(ctx, r.byTimeKey(), redis.Z{Score: score, Member: member})
		pipe.ZAdd(ctx, r.zoneKey(record.Zone), redis.Z{Score: score, Member: member})
		return nil
	})
	if err != nil {
		return errors.NewDatabaseError("failed to create generation record", err)
	}
	return nil
}

func (r *RecordRepo) List(ctx context.Context, filters models.GenerationFilters) ([]*models.GenerationRecord, error) {
	filters = filters.Normalize()
	records := []*models.GenerationRecord{}

	index := r.byTimeKey()
	if filters.Zone != "" {
		index = r.zoneKey(filters.Zone)
	}

	ids, err := r.client.ZRevRange(ctx, index, 0, int64(filters.Limit-1)).Result()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list generation records", err)
	}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recordKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.NewDatabaseError("failed to load generation records", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a value
			continue
		}
		rec := &models.GenerationRecord{}
		if err := json.Unmarshal([]byte(raw), rec); err != nil {
			nuts.L.Warnf("[RedisRecordRepo] Skipping undecodable record %s: %v", ids[i], err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RecordRepo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.NewDatabaseError("failed to ping redis", err)
	}
	return nil
}

func (r *RecordRepo) Close() error {
	if err := r.client.Close(); err != nil {
		return errors.NewDatabaseError("failed to close redis", err)
	}
	return nil
}
