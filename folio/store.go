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

package folio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence contract the core operates against. Lookup
// methods return an error wrapping ErrNotFound when the entity is absent,
// except LatestHoldingAtOrBefore which returns (nil, nil) -- absence there is
// a normal outcome for a first buy. Create methods return an error wrapping
// ErrDuplicate on a uniqueness violation.
type Store interface {
	AssetByID(ctx context.Context, id uuid.UUID) (*Asset, error)
	AssetByName(ctx context.Context, name string) (*Asset, error)
	CreateAsset(ctx context.Context, name string) (*Asset, error)

	PortfolioByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)
	PortfolioByName(ctx context.Context, name string) (*Portfolio, error)
	Portfolios(ctx context.Context, limit, offset int) ([]*Portfolio, int, error)
	CreatePortfolio(ctx context.Context, name string, initialValue *decimal.Decimal) (*Portfolio, error)
	SetPortfolioInitialValue(ctx context.Context, id uuid.UUID, initialValue decimal.Decimal) (*Portfolio, error)

	PriceOn(ctx context.Context, assetID uuid.UUID, date time.Time) (*Price, error)
	LatestPrice(ctx context.Context, assetID uuid.UUID) (*Price, error)
	PricesInRange(ctx context.Context, assetIDs []uuid.UUID, start, end time.Time) ([]*Price, error)
	CreatePrice(ctx context.Context, assetID uuid.UUID, date time.Time, price decimal.Decimal) (*Price, error)

	WeightsOn(ctx context.Context, portfolioID uuid.UUID, date time.Time) ([]*Weight, error)
	LatestWeights(ctx context.Context, portfolioID uuid.UUID) ([]*Weight, error)
	CreateWeight(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time, weight decimal.Decimal) (*Weight, error)

	// HoldingsOn returns holdings dated exactly at date with quantity > 0.
	HoldingsOn(ctx context.Context, portfolioID uuid.UUID, date time.Time) ([]*Holding, error)
	Holdings(ctx context.Context, portfolioID uuid.UUID) ([]*Holding, error)
	EarliestHolding(ctx context.Context, portfolioID uuid.UUID) (*Holding, error)
	LatestHoldingAtOrBefore(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time) (*Holding, error)
	CreateHolding(ctx context.Context, portfolioID, assetID uuid.UUID, date time.Time, quantity decimal.Decimal) (*Holding, error)
	UpdateHoldingQuantity(ctx context.Context, holdingID uuid.UUID, quantity decimal.Decimal) (*Holding, error)

	// Atomic runs fn against a store whose operations are part of a single
	// serializable transaction; fn returning an error rolls everything back.
	Atomic(ctx context.Context, fn func(Store) error) error
}
