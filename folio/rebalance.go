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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RebalanceRequest describes a sell of one asset and a buy of another, both
// priced at StartDate, followed by a metrics computation over
// [StartDate, EndDate].
type RebalanceRequest struct {
	PortfolioID uuid.UUID
	SellAssetID uuid.UUID
	BuyAssetID  uuid.UUID
	SellAmount  decimal.Decimal
	BuyAmount   decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
}

// Rebalance executes the sell, then the buy, then computes metrics. The two
// transactions commit independently: when the buy fails the sell stays
// applied and the whole call errors, so callers must re-query holdings to
// learn the resulting state.
func (s *Service) Rebalance(ctx context.Context, req *RebalanceRequest) (*RebalanceResult, error) {
	subLog := log.With().
		Str("PortfolioID", req.PortfolioID.String()).
		Str("SellAssetID", req.SellAssetID.String()).
		Str("BuyAssetID", req.BuyAssetID.String()).Logger()

	if !req.SellAmount.IsPositive() || !req.BuyAmount.IsPositive() {
		return nil, fmt.Errorf("rebalance amounts must be positive: %w", ErrValidation)
	}

	if _, err := s.store.AssetByID(ctx, req.SellAssetID); err != nil {
		return nil, err
	}
	if _, err := s.store.AssetByID(ctx, req.BuyAssetID); err != nil {
		return nil, err
	}

	// cash amounts go straight through; the executors own the amount/price
	// conversion
	sellResult, err := s.ExecuteSell(ctx, req.PortfolioID, req.SellAssetID, req.SellAmount, req.StartDate)
	if err != nil {
		return nil, err
	}

	buyResult, err := s.ExecuteBuy(ctx, req.PortfolioID, req.BuyAssetID, req.BuyAmount, req.StartDate)
	if err != nil {
		subLog.Error().Err(err).Msg("buy failed after sell was applied; holdings are partially rebalanced")
		return nil, err
	}

	metrics, err := s.Metrics(ctx, req.PortfolioID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	subLog.Info().Int("NumMetrics", len(metrics)).Msg("rebalance completed")
	return &RebalanceResult{
		SellTransaction: sellResult,
		BuyTransaction:  buyResult,
		Metrics:         metrics,
	}, nil
}
