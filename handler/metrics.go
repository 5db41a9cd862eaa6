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
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/folio-vault/folio-api/viz"
)

// GetPortfolioMetrics returns the valuation time series over
// [start_date, end_date], paginated
func (h *Handler) GetPortfolioMetrics(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}
	limit, offset := parsePagination(c)

	metrics, err := h.svc.Metrics(c.Context(), portfolioID, startDate, endDate)
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(paginatedResponse{Limit: limit, Offset: offset, Count: len(metrics), Results: paginate(metrics, limit, offset)})
}

// GetPortfolioMetricsChart renders the metrics series as a PNG
func (h *Handler) GetPortfolioMetricsChart(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	portfolio, err := h.store.PortfolioByID(c.Context(), portfolioID)
	if err != nil {
		return statusError(c, err)
	}

	metrics, err := h.svc.Metrics(c.Context(), portfolioID, startDate, endDate)
	if err != nil {
		return statusError(c, err)
	}

	png, err := viz.RenderMetricsChart(portfolio.Name, metrics)
	if err != nil {
		log.Error().Stack().Err(err).Msg("chart render failed")
		return statusError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// GetPortfolioPerformance returns summary statistics for the valuation
// series over [start_date, end_date]
func (h *Handler) GetPortfolioPerformance(c *fiber.Ctx) error {
	portfolioID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	startDate, err := parseDateQuery(c, "start_date")
	if err != nil {
		return err
	}
	endDate, err := parseDateQuery(c, "end_date")
	if err != nil {
		return err
	}

	summary, err := h.svc.Performance(c.Context(), portfolioID, startDate, endDate)
	if err != nil {
		return statusError(c, err)
	}

	return c.JSON(summary)
}
