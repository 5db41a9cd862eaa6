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

package handler

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/folio-vault/folio-api/folio"
)

type transactionParams struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

type rebalanceParams struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	SellAmount  decimal.Decimal `json:"sell_amount"`
	BuyAmount   decimal.Decimal `json:"buy_amount"`
	SellAssetID string          `json:"sell_asset_id"`
	BuyAssetID  string          `json:"buy_asset_id"`
}

// date defaults to today when the request omits it
func (p *transactionParams) date() (time.Time, error) {
	if p.Date == "" {
		return folio.NormalizeDate(time.Now()), nil
	}
	return time.Parse("2006-01-02", p.Date)
}

// BuyAsset purchases a cash amount of an asset for a portfolio
func (h *Handler) BuyAsset(c *fiber.Ctx) error {
	return h.executeTransaction(c, false)
}

// SellAsset sells a cash amount of an asset from a portfolio
func (h *Handler) SellAsset(c *fiber.Ctx) error {
	return h.executeTransaction(c, true)
}

func (h *Handler) executeTransaction(c *fiber.Ctx, sell bool) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	assetID, err := parseID(c, "assetID")
	if err != nil {
		return err
	}

	params := transactionParams{}
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("bad transaction request")
		return fiber.ErrBadRequest
	}
	date, err := params.date()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "date must be formatted YYYY-MM-DD")
	}

	var result *folio.TransactionResult
	if sell {
		result, err = h.svc.ExecuteSell(c.Context(), portfolioID, assetID, params.Amount, date)
	} else {
		result, err = h.svc.ExecuteBuy(c.Context(), portfolioID, assetID, params.Amount, date)
	}
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(result)
}

// RebalancePortfolio sells one asset, buys another, and returns the
// resulting metrics series. The two transactions commit independently; an
// error response may mean the sell applied without the buy.
func (h *Handler) RebalancePortfolio(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	params := rebalanceParams{}
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("bad rebalance request")
		return fiber.ErrBadRequest
	}

	sellAssetID, err := uuid.Parse(params.SellAssetID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "sell_asset_id is not a valid id")
	}
	buyAssetID, err := uuid.Parse(params.BuyAssetID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "buy_asset_id is not a valid id")
	}

	startDate, err := time.Parse("2006-01-02", params.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "start_date must be formatted YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", params.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be formatted YYYY-MM-DD")
	}

	result, err := h.svc.Rebalance(c.Context(), &folio.RebalanceRequest{
		PortfolioID: portfolioID,
		SellAssetID: sellAssetID,
		BuyAssetID:  buyAssetID,
		SellAmount:  params.SellAmount,
		BuyAmount:   params.BuyAmount,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(result)
}
