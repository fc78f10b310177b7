package persistent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/tidwall/buntdb"
)

// Cache backend on an embedded buntdb file, shared by processes on the same host.
type BuntCache struct {
	DB *buntdb.DB
}

var _ elsewhere.CacheBackend = (*BuntCache)(nil)

func (c *BuntCache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := c.DB.View(func(tx *buntdb.Tx) error {
		var err error
		value, err = tx.Get(key)
		return err
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return "", elsewhere.ErrCacheMiss
		}
		return "", fmt.Errorf("buntdb view: %w", err)
	}
	return value, nil
}

func (c *BuntCache) Generation(ctx context.Context, key string) (int64, error) {
	var gen int64
	err := c.DB.View(func(tx *buntdb.Tx) error {
		var err error
		gen, err = buntGeneration(tx, key)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("buntdb view: %w", err)
	}
	return gen, nil
}

func (c *BuntCache) SetIfGeneration(ctx context.Context, key string, value string,
	ttl time.Duration, gen int64) (bool, error) {
	var options *buntdb.SetOptions
	if ttl > 0 {
		options = &buntdb.SetOptions{Expires: true, TTL: ttl}
	}
	stored := false
	err := c.DB.Update(func(tx *buntdb.Tx) error {
		current, err := buntGeneration(tx, key)
		if err != nil || current != gen {
			return err
		}
		if _, _, err := tx.Set(key, value, options); err != nil {
			return err
		}
		stored = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("buntdb update: %w", err)
	}
	return stored, nil
}

func (c *BuntCache) Invalidate(ctx context.Context, key string) error {
	err := c.DB.Update(func(tx *buntdb.Tx) error {
		if _, err := tx.Delete(key); err != nil && !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		gen, err := buntGeneration(tx, key)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(elsewhere.GenerationKey(key), strconv.FormatInt(gen+1, 10), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("buntdb update: %w", err)
	}
	return nil
}

func buntGeneration(tx *buntdb.Tx, key string) (int64, error) {
	value, err := tx.Get(elsewhere.GenerationKey(key))
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	gen, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse generation of %s: %w", key, err)
	}
	return gen, nil
}
