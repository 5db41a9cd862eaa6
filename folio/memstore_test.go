// Copyright 2023-2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package folio_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

// memStore is an in-memory folio.Store used to exercise the service logic
// without a database. Atomic runs its function against the same store; the
// core's validation errors all occur before any mutation, so rollback is not
// modeled.
type memStore struct {
	assets     []*folio.Asset
	portfolios []*folio.Portfolio
	prices     []*folio.Price
	weights    []*folio.Weight
	holdings   []*folio.Holding
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) AssetByID(_ context.Context, id uuid.UUID) (*folio.Asset, error) {
	for _, a := range m.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("asset %s: %w", id, folio.ErrNotFound)
}

func (m *memStore) AssetByName(_ context.Context, name string) (*folio.Asset, error) {
	for _, a := range m.assets {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("asset %s: %w", name, folio.ErrNotFound)
}

func (m *memStore) CreateAsset(ctx context.Context, name string) (*folio.Asset, error) {
	if _, err := m.AssetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("asset %s: %w", name, folio.ErrDuplicate)
	}
	asset := &folio.Asset{ID: uuid.New(), Name: name}
	m.assets = append(m.assets, asset)
	return asset, nil
}

func (m *memStore) PortfolioByID(_ context.Context, id uuid.UUID) (*folio.Portfolio, error) {
	for _, p := range m.portfolios {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("portfolio %s: %w", id, folio.ErrNotFound)
}

func (m *memStore) PortfolioByName(_ context.Context, name string) (*folio.Portfolio, error) {
	for _, p := range m.portfolios {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("portfolio %s: %w", name, folio.ErrNotFound)
}

func (m *memStore) Portfolios(_ context.Context, limit, offset int) ([]*folio.Portfolio, int, error) {
	sorted := make([]*folio.Portfolio, len(m.portfolios))
	copy(sorted, m.portfolios)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	if offset >= len(sorted) {
		return []*folio.Portfolio{}, len(m.portfolios), nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[offset:end], len(m.portfolios), nil
}

func (m *memStore) CreatePortfolio(ctx context.Context, name string, initialValue *decimal.Decimal) (*folio.Portfolio, error) {
	if _, err := m.PortfolioByName(ctx, name); err == nil {
		return nil, fmt.Errorf("portfolio %s: %w", name, folio.ErrDuplicate)
	}
	portfolio := &folio.Portfolio{ID: uuid.New(), Name: name, InitialValue: initialValue}
	m.portfolios = append(m.portfolios, portfolio)
	return portfolio, nil
}

func (m *memStore) SetPortfolioInitialValue(ctx context.Context, id uuid.UUID, initialValue decimal.Decimal) (*folio.Portfolio, error) {
	portfolio, err := m.PortfolioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	portfolio.InitialValue = &initialValue
	return portfolio, nil
}

func (m *memStore) PriceOn(_ context.Context, assetID uuid.UUID, date time.Time) (*folio.Price, error) {
	date = folio.NormalizeDate(date)
	for _, p := range m.prices {
		if p.AssetID == assetID && p.Date.Equal(date) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("price %s@%s: %w", assetID, date.Format("2006-01-02"), folio.ErrNotFound)
}

func (m *memStore) LatestPrice(_ context.Context, assetID uuid.UUID) (*folio.Price, error) {
	var latest *folio.Price
	for _, p := range m.prices {
		if p.AssetID != assetID {
			continue
		}
		if latest == nil || p.Date.After(latest.Date) {
			latest = p
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("price %s: %w", assetID, folio.ErrNotFound)
	}
	return latest, nil
}

func (m *memStore) PricesInRange(_ context.Context, assetIDs []uuid.UUID, start, end time.Time) ([]*folio.Price, error) {
	start = folio.NormalizeDate(start)
	end = folio.NormalizeDate(end)
	wanted := make(map[uuid.UUID]bool, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = true
	}

	prices := make([]*folio.Price, 0)
	for _, p := range m.prices {
		if !wanted[p.AssetID] || p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })
	return prices, nil
}

func (m *memStore) CreatePrice(ctx context.Context, assetID uuid.UUID, date time.Time, value decimal.Decimal) (*folio.Price, error) {
	date = folio.NormalizeDate(date)
	if _, err := m.PriceOn(ctx, assetID, date); err == nil {
		return nil, fmt.Errorf("price %s@%s: %w", assetID, date.Format("2006-01-02"), folio.ErrDuplicate)
	}
	price := &folio.Price{ID: uuid.New(), AssetID: assetID, Date: date, Price: value}
	m.prices = append(m.prices, price)
	return price, nil
}

func (m *memStore) WeightsOn(_ context.Context, portfolioID uuid.UUID, date time.Time) ([]*folio.Weight, error) {
	date = folio.NormalizeDate(date)
	weights := make([]*folio.Weight, 0)
	for _, w := range m.weights {
		if w.PortfolioID == portfolioID && w.Date.Equal(date) {
			weights = append(weights, w)
		}
	}
	return weights, nil
}

func (m *memStore) LatestWeights(_ context.Context, portfolioID uuid.UUID) ([]*folio.Weight, error) {
	weights := make([]*folio.Weight, 0)
	for _, w := range m.weights {
		if w.PortfolioID == portfolioID {
			weights = append(weights, w)
		}
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].Date.After(weights[j].Date) })
	return weights, nil
}

func (m *memStore) CreateWeight(_ context.Context, portfolioID, assetID uuid.UUID, date time.Time, value decimal.Decimal) (*folio.Weight, error) {
	date = folio.NormalizeDate(date)
	for _, w := range m.weights {
		if w.PortfolioID == portfolioID && w.AssetID == assetID && w.Date.Equal(date) {
			return nil, fmt.Errorf("weight: %w", folio.ErrDuplicate)
		}
	}
	weight := &folio.Weight{ID: uuid.New(), PortfolioID: portfolioID, AssetID: assetID, Date: date, Weight: value}
	m.weights = append(m.weights, weight)
	return weight, nil
}

func (m *memStore) HoldingsOn(_ context.Context, portfolioID uuid.UUID, date time.Time) ([]*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	holdings := make([]*folio.Holding, 0)
	for _, h := range m.holdings {
		if h.PortfolioID == portfolioID && h.Date.Equal(date) && h.Quantity.IsPositive() {
			holdings = append(holdings, h)
		}
	}
	return holdings, nil
}

func (m *memStore) Holdings(_ context.Context, portfolioID uuid.UUID) ([]*folio.Holding, error) {
	holdings := make([]*folio.Holding, 0)
	for _, h := range m.holdings {
		if h.PortfolioID == portfolioID {
			holdings = append(holdings, h)
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Date.Before(holdings[j].Date) })
	return holdings, nil
}

func (m *memStore) EarliestHolding(ctx context.Context, portfolioID uuid.UUID) (*folio.Holding, error) {
	holdings, err := m.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("holding for portfolio %s: %w", portfolioID, folio.ErrNotFound)
	}
	return holdings[0], nil
}

func (m *memStore) LatestHoldingAtOrBefore(_ context.Context, portfolioID, assetID uuid.UUID, date time.Time) (*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	var latest *folio.Holding
	for _, h := range m.holdings {
		if h.PortfolioID != portfolioID || h.AssetID != assetID || h.Date.After(date) {
			continue
		}
		if latest == nil || h.Date.After(latest.Date) {
			latest = h
		}
	}
	return latest, nil
}

func (m *memStore) CreateHolding(_ context.Context, portfolioID, assetID uuid.UUID, date time.Time, quantity decimal.Decimal) (*folio.Holding, error) {
	date = folio.NormalizeDate(date)
	for _, h := range m.holdings {
		if h.PortfolioID == portfolioID && h.AssetID == assetID && h.Date.Equal(date) {
			return nil, fmt.Errorf("holding: %w", folio.ErrDuplicate)
		}
	}
	holding := &folio.Holding{ID: uuid.New(), PortfolioID: portfolioID, AssetID: assetID, Date: date, Quantity: quantity}
	m.holdings = append(m.holdings, holding)
	return holding, nil
}

func (m *memStore) UpdateHoldingQuantity(_ context.Context, holdingID uuid.UUID, quantity decimal.Decimal) (*folio.Holding, error) {
	for _, h := range m.holdings {
		if h.ID == holdingID {
			h.Quantity = quantity
			return h, nil
		}
	}
	return nil, fmt.Errorf("holding %s: %w", holdingID, folio.ErrNotFound)
}

func (m *memStore) Atomic(_ context.Context, fn func(folio.Store) error) error {
	return fn(m)
}
