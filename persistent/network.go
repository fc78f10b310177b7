package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/buzkaaclicker/elsewhere"
	"github.com/uptrace/bun"
)

// Db model shared by social_network and instant_messenger tables.
type Network struct {
	bun.BaseModel `bun:"alias:network"`

	Id         int64  `bun:",pk,autoincrement"`
	Name       string `bun:",notnull"`
	Url        string `bun:",notnull"`
	Identifier string `bun:",notnull"`
	Icon       string `bun:",notnull"`
}

func (n Network) ToDomain(kind elsewhere.NetworkKind) elsewhere.Network {
	return elsewhere.Network{
		Id:         n.Id,
		Kind:       kind,
		Name:       n.Name,
		Url:        n.Url,
		Identifier: n.Identifier,
		Icon:       n.Icon,
	}
}

func networkFromDomain(n elsewhere.Network) *Network {
	return &Network{
		Id:         n.Id,
		Name:       n.Name,
		Url:        n.Url,
		Identifier: n.Identifier,
		Icon:       n.Icon,
	}
}

var networkTables = map[elsewhere.NetworkKind]string{
	elsewhere.NetworkKindSocial:           "social_network",
	elsewhere.NetworkKindInstantMessenger: "instant_messenger",
}

func networkTable(kind elsewhere.NetworkKind) (string, error) {
	table, ok := networkTables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", elsewhere.ErrInvalidNetworkKind, kind)
	}
	return table, nil
}

type NetworkStore struct {
	DB *bun.DB
	// Invalidated after every successful Save.
	Cache elsewhere.CacheInvalidator
}

var _ elsewhere.NetworkStore = (*NetworkStore)(nil)

func (s *NetworkStore) Networks(ctx context.Context, kind elsewhere.NetworkKind) ([]elsewhere.Network, error) {
	table, err := networkTable(kind)
	if err != nil {
		return nil, err
	}

	var networks []Network
	err = s.DB.NewSelect().
		Model(&networks).
		ModelTableExpr("? AS network", bun.Ident(table)).
		OrderExpr("network.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, storeError(err))
	}

	mapped := make([]elsewhere.Network, len(networks))
	for i, n := range networks {
		mapped[i] = n.ToDomain(kind)
	}
	return mapped, nil
}

func (s *NetworkStore) ByName(ctx context.Context, kind elsewhere.NetworkKind, name string) (elsewhere.Network, error) {
	table, err := networkTable(kind)
	if err != nil {
		return elsewhere.Network{}, err
	}

	network := new(Network)
	err = s.DB.NewSelect().
		Model(network).
		ModelTableExpr("? AS network", bun.Ident(table)).
		Where("network.name = ?", name).
		OrderExpr("network.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return elsewhere.Network{}, elsewhere.ErrNetworkNotFound
		}
		return elsewhere.Network{}, fmt.Errorf("select %s by name: %w", table, storeError(err))
	}
	return network.ToDomain(kind), nil
}

func (s *NetworkStore) CreateIfAbsent(ctx context.Context, network elsewhere.Network) (bool, error) {
	table, err := networkTable(network.Kind)
	if err != nil {
		return false, err
	}

	created := false
	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// name is not unique, serialize concurrent seeders instead
		_, err := tx.ExecContext(ctx, "LOCK TABLE ? IN SHARE ROW EXCLUSIVE MODE", bun.Ident(table))
		if err != nil {
			return fmt.Errorf("lock %s: %w", table, err)
		}

		exists, err := tx.NewSelect().
			Model((*Network)(nil)).
			ModelTableExpr("? AS network", bun.Ident(table)).
			Where("network.name = ?", network.Name).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("select existing: %w", err)
		}
		if exists {
			return nil
		}

		_, err = tx.NewInsert().
			Model(networkFromDomain(network)).
			ModelTableExpr("? AS network", bun.Ident(table)).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("create %s %q: %w", table, network.Name, storeError(err))
	}
	return created, nil
}

func (s *NetworkStore) Save(ctx context.Context, network elsewhere.Network) (elsewhere.Network, error) {
	table, err := networkTable(network.Kind)
	if err != nil {
		return elsewhere.Network{}, err
	}

	model := networkFromDomain(network)
	if model.Id == 0 {
		_, err = s.DB.NewInsert().
			Model(model).
			ModelTableExpr("? AS network", bun.Ident(table)).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return elsewhere.Network{}, fmt.Errorf("insert %s: %w", table, storeError(err))
		}
	} else {
		res, err := s.DB.NewUpdate().
			Model(model).
			ModelTableExpr("? AS network", bun.Ident(table)).
			WherePK().
			Exec(ctx)
		if err != nil {
			return elsewhere.Network{}, fmt.Errorf("update %s: %w", table, storeError(err))
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return elsewhere.Network{}, elsewhere.ErrNetworkNotFound
		}
	}

	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, network.Kind); err != nil {
			return model.ToDomain(network.Kind), fmt.Errorf("invalidate network cache: %w", err)
		}
	}
	return model.ToDomain(network.Kind), nil
}
