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
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/folio-vault/folio-api/folio"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler serves the portfolio API from a folio.Service and its Store
type Handler struct {
	svc   *folio.Service
	store folio.Store
}

func New(svc *folio.Service, store folio.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2024-03-19T08:09:10.115924-05:00"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// paginatedResponse is the envelope for every list endpoint
type paginatedResponse struct {
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Count   int         `json:"count"`
	Results interface{} `json:"results"`
}

func (h *Handler) Ping(c *fiber.Ctx) error {
	now, err := time.Now().MarshalText()
	if err != nil {
		return c.JSON(PingResponse{Status: "error", Message: err.Error()})
	}
	return c.JSON(PingResponse{Status: "success", Message: "API is alive", Time: string(now)})
}

// statusError maps the folio error taxonomy onto HTTP status codes:
// not-found is 404, validation and duplicate failures are 400.
func statusError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, folio.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: err.Error()})
	case errors.Is(err, folio.ErrValidation), errors.Is(err, folio.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	default:
		return fiber.ErrInternalServerError
	}
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.ErrBadRequest
	}
	return id, nil
}

// parsePagination reads limit/offset query params with the standard bounds
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseDateQuery parses a YYYY-MM-DD query parameter; required dates with no
// value or a bad format produce a 400.
func parseDateQuery(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" query parameter is required")
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" must be formatted YYYY-MM-DD")
	}
	return date, nil
}

// paginate slices an already-computed result list the way the store
// paginates queries.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
