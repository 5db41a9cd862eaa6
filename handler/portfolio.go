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
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type createPortfolioParams struct {
	Name         string           `json:"name"`
	InitialValue *decimal.Decimal `json:"initial_value"`
}

// ListPortfolios returns one page of portfolios
func (h *Handler) ListPortfolios(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)

	portfolios, count, err := h.store.Portfolios(c.Context(), limit, offset)
	if err != nil {
		log.Error().Stack().Err(err).Msg("list portfolios failed")
		return statusError(c, err)
	}

	return c.JSON(paginatedResponse{Limit: limit, Offset: offset, Count: count, Results: portfolios})
}

// CreatePortfolio creates a new named portfolio
func (h *Handler) CreatePortfolio(c *fiber.Ctx) error {
	params := createPortfolioParams{}
	if err := json.Unmarshal(c.Body(), &params); err != nil {
		log.Warn().Err(err).Msg("bad create portfolio request")
		return fiber.ErrBadRequest
	}

	portfolio, err := h.store.CreatePortfolio(c.Context(), params.Name, params.InitialValue)
	if err != nil {
		log.Warn().Err(err).Str("Name", params.Name).Msg("create portfolio failed")
		return statusError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(portfolio)
}

// GetPortfolio returns a single portfolio by id
func (h *Handler) GetPortfolio(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	portfolio, err := h.store.PortfolioByID(c.Context(), portfolioID)
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(portfolio)
}

// GetPortfolioHoldings returns all holdings of a portfolio, earliest first
func (h *Handler) GetPortfolioHoldings(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	if _, err := h.store.PortfolioByID(c.Context(), portfolioID); err != nil {
		return statusError(c, err)
	}

	holdings, err := h.store.Holdings(c.Context(), portfolioID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("list holdings failed")
		return statusError(c, err)
	}

	return c.JSON(paginatedResponse{Limit: limit, Offset: offset, Count: len(holdings), Results: paginate(holdings, limit, offset)})
}

// GetPortfolioWeights returns the portfolio's target weights, newest date
// first
func (h *Handler) GetPortfolioWeights(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	if _, err := h.store.PortfolioByID(c.Context(), portfolioID); err != nil {
		return statusError(c, err)
	}

	weights, err := h.store.LatestWeights(c.Context(), portfolioID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("list weights failed")
		return statusError(c, err)
	}

	return c.JSON(paginatedResponse{Limit: limit, Offset: offset, Count: len(weights), Results: paginate(weights, limit, offset)})
}

// GetPortfolioAssets reports the portfolio's composition valued at each
// asset's most recent price
func (h *Handler) GetPortfolioAssets(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	positions, err := h.svc.PortfolioAssets(c.Context(), portfolioID)
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(paginatedResponse{Limit: limit, Offset: offset, Count: len(positions), Results: paginate(positions, limit, offset)})
}
