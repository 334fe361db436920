package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/cloud"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/config"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/database"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/repository"
)

// NewPersister builds the persistence backend selected by
// PERSISTENCE_BACKEND. db is the plant database, reused by the postgres
// backend. The returned close func releases anything opened here.
func NewPersister(ctx context.Context, backend string, db *sqlx.DB) (alerting.Persister, func(), error) {
	noop := func() {}
	switch backend {
	case config.BackendMemory:
		return alerting.NewMemoryPersister(), noop, nil
	case config.BackendPostgres:
		kv, err := repository.NewKVStore(ctx, db)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case config.BackendSQLite:
		local, err := database.ConnectSQLite(config.SQLitePath())
		if err != nil {
			return nil, noop, fmt.Errorf("open sqlite: %w", err)
		}
		kv, err := repository.NewKVStore(ctx, local)
		if err != nil {
			local.Close()
			return nil, noop, err
		}
		return kv, func() { local.Close() }, nil
	case config.BackendDynamoDB:
		kv, err := cloud.NewDynamoKV(ctx, config.AWSRegion(), config.DynamoDBTable())
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case config.BackendS3:
		kv, err := cloud.NewS3KV(ctx, config.AWSRegion(), config.S3Bucket())
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown persistence backend %q", backend)
}
