package chouse

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/logingood/cdp-cucm/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ClickhouseClient keeps an audit trail of interface description writes.
type ClickhouseClient struct {
	dbName         string
	tableName      string
	flushBatchSize int
	conn           driver.Conn
	queue          chan *models.UpdateRecord
	logger         *zap.Logger

	mu     sync.Mutex
	closed bool
}

func New(logger *zap.Logger, conn driver.Conn, queueSize int, dbName, tableName string, flushBatchSize int,
) *ClickhouseClient {
	return &ClickhouseClient{
		logger:         logger,
		conn:           conn,
		queue:          make(chan *models.UpdateRecord, queueSize),
		dbName:         dbName,
		tableName:      tableName,
		flushBatchSize: flushBatchSize,
	}
}

func (c *ClickhouseClient) Write(record *models.UpdateRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logger.Warn("audit queue closed, dropping record", zap.String("switch", record.Switch), zap.String("interface", record.Interface))
		return
	}
	c.logger.Debug("enqueue audit record", zap.String("switch", record.Switch), zap.String("interface", record.Interface))
	c.queue <- record
}

// Close stops accepting records, the queue goroutine flushes what is left.
func (c *ClickhouseClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.queue)
}

func (c *ClickhouseClient) StartQueue(ctx context.Context, errGroup *errgroup.Group) {
	errGroup.Go(func() error {
		records := []*models.UpdateRecord{}
		for j := range c.queue {
			records = append(records, j)
			if len(records) == c.flushBatchSize {
				c.logger.Info("insert time", zap.Int("records", len(records)))
				if err := c.insert(ctx, records); err != nil {
					c.logger.Error("error insert audit records", zap.Error(err))
				}
				records = nil
			}
		}

		if len(records) > 0 {
			if err := c.insert(context.WithoutCancel(ctx), records); err != nil {
				c.logger.Error("error insert audit records", zap.Error(err))
				return err
			}
		}
		return nil
	})
}

func (c *ClickhouseClient) insert(ctx context.Context, records []*models.UpdateRecord) error {
	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.dbName, c.tableName))
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := batch.Append(
			r.Time,
			r.Switch,
			r.DeviceName,
			r.Interface,
			r.Description,
			r.Applied,
			r.Error,
		); err != nil {
			return err
		}
	}
	if err := batch.Send(); err != nil {
		return err
	}
	c.logger.Info("sent successfully", zap.Int("records", len(records)))
	return nil
}

func (c *ClickhouseClient) InitDb(ctx context.Context) error {
	stm := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s.%s (
		time Int64,
		switch VARCHAR(255),
		device_name VARCHAR(255),
		interface VARCHAR(255),
		description VARCHAR(255),
		applied Bool,
		error String
	)
	ENGINE = MergeTree
	ORDER BY (switch, time)`,
		c.dbName, c.tableName)
	return c.conn.Exec(ctx, stm)
}
