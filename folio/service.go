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

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service implements the valuation and rebalancing engine on top of a Store
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// PortfolioAssets values the portfolio's current holdings at each asset's
// most recent price. Assets with no price at all are left out of the report.
func (s *Service) PortfolioAssets(ctx context.Context, portfolioID uuid.UUID) ([]*AssetPosition, error) {
	subLog := log.With().Str("PortfolioID", portfolioID.String()).Logger()

	portfolio, err := s.store.PortfolioByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.store.Holdings(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		subLog.Warn().Msg("portfolio has no holdings")
		return []*AssetPosition{}, nil
	}

	positions := make([]*AssetPosition, 0, len(holdings))
	for _, holding := range holdings {
		price, err := s.store.LatestPrice(ctx, holding.AssetID)
		if err != nil {
			subLog.Debug().Str("AssetID", holding.AssetID.String()).Msg("no price for asset; skipping")
			continue
		}
		asset, err := s.store.AssetByID(ctx, holding.AssetID)
		if err != nil {
			return nil, err
		}
		positions = append(positions, &AssetPosition{
			AssetID:   asset.ID,
			AssetName: asset.Name,
			Quantity:  holding.Quantity,
			Price:     price.Price,
			Value:     holding.Quantity.Mul(price.Price),
			Date:      price.Date,
		})
	}

	return positions, nil
}
