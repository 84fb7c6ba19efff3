// common.go
//
// Laboratory chemical inventory tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of chemtrack.
// chemtrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// chemtrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with chemtrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/uscann/chemtrack/internal/types"
	"github.com/uscann/chemtrack/internal/utils"
)

// ErrorHandler renders every error returned by a handler as the standard
// error body. Internal causes are logged and never sent to the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Message, fe.Code, "http")
		}

		ce := types.AsCustomError(err)
		if ce.Code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("type", ce.Type),
				zap.Error(ce.Err),
			)
		}
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
}

// NotFound is the fallback for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

// bindJSON decodes the request body, reporting malformed input as a
// validation error.
func bindJSON(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return types.BadRequest("request body is required")
	}
	if err := c.BodyParser(out); err != nil {
		return types.BadRequest("invalid request body").WithErr(err)
	}
	return nil
}

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, types.BadRequest("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter, zero when absent.
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.BadRequest("invalid %s %q", name, raw)
	}
	return uint(id), nil
}
