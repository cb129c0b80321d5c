package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const maxPageLimit = 200

// historyPage reads ?limit= and ?offset= for the archive listings.
// Garbage falls back to the defaults; oversized limits are capped.
func historyPage(c *fiber.Ctx, defLimit int) (limit, offset int) {
	limit = queryInt(c, "limit", defLimit)
	if limit <= 0 {
		limit = defLimit
	}
	limit = min(limit, maxPageLimit)
	offset = max(queryInt(c, "offset", 0), 0)
	return limit, offset
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}
