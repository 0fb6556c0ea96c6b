package health

import (
	"context"
	"strconv"
	"time"

	"bluecarbon-backend/internal/ledger"
	"bluecarbon-backend/internal/middleware"
	"bluecarbon-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	Rdb            *redis.Client
	DB             *gorm.DB
	Ledger         *ledger.Ledger
	HealthAdminKey string
}

// GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()
	out := fiber.Map{"status": "ok", "time": time.Now()}

	if h.DB != nil {
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			out["status"] = "degraded"
			out["database"] = "down"
		} else {
			out["database"] = "up"
		}
	}
	if h.Rdb != nil {
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			out["status"] = "degraded"
			out["redis"] = "down"
		} else {
			out["redis"] = "up"
			out["requests"] = h.counters(ctx)
		}
	}
	if h.Ledger != nil {
		paused, err := h.Ledger.Paused()
		if err == nil {
			out["ledger_paused"] = paused
		}
		supply, err := h.Ledger.TotalSupply()
		if err == nil {
			out["total_supply"] = supply
		}
	}
	return c.JSON(out)
}

// GET /health/reset — clears the request counters; requires the admin key.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey == "" || c.Query("key") != h.HealthAdminKey {
		return response.Unauthorized(c, "Unauthorized")
	}
	if h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx,
			middleware.KeyReqTotal, middleware.KeyReqErrors,
			middleware.KeyResTime, middleware.KeyResCount,
			middleware.KeyLastReq,
		)
		h.Rdb.Set(ctx, middleware.KeyStartTime, time.Now().Format(time.RFC3339), 0)
	}
	return response.Success(c, "Health counters reset", nil, nil)
}

func (h *Handlers) counters(ctx context.Context) fiber.Map {
	total, _ := h.Rdb.Get(ctx, middleware.KeyReqTotal).Result()
	errs, _ := h.Rdb.Get(ctx, middleware.KeyReqErrors).Result()
	resTime, _ := h.Rdb.Get(ctx, middleware.KeyResTime).Result()
	resCount, _ := h.Rdb.Get(ctx, middleware.KeyResCount).Result()

	avg := 0.0
	if t, err := strconv.ParseFloat(resTime, 64); err == nil {
		if n, err := strconv.ParseFloat(resCount, 64); err == nil && n > 0 {
			avg = t / n
		}
	}
	return fiber.Map{
		"total":       atoiOrZero(total),
		"errors":      atoiOrZero(errs),
		"avg_time_ms": avg,
	}
}

func atoiOrZero(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
