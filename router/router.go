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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/folio-vault/folio-api/handler"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, h *handler.Handler) {
	api := app.Group("/v1")
	api.Get("/", h.Ping)

	// Portfolio
	portfolio := api.Group("/portfolios")
	portfolio.Get("/", h.ListPortfolios)
	portfolio.Post("/", h.CreatePortfolio)
	portfolio.Get("/:id", h.GetPortfolio)
	portfolio.Get("/:id/holdings", h.GetPortfolioHoldings)
	portfolio.Get("/:id/weights", h.GetPortfolioWeights)
	portfolio.Get("/:id/assets", h.GetPortfolioAssets)
	portfolio.Get("/:id/metrics", h.GetPortfolioMetrics)
	portfolio.Get("/:id/metrics/chart", h.GetPortfolioMetricsChart)
	portfolio.Get("/:id/performance", h.GetPortfolioPerformance)
	portfolio.Post("/:id/assets/:assetID/buy", h.BuyAsset)
	portfolio.Post("/:id/assets/:assetID/sell", h.SellAsset)
	portfolio.Post("/:id/rebalance", h.RebalancePortfolio)
}
