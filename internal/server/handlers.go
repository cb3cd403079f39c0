package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-sniper-engine/internal/fees"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/flags"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/router"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/sniper"
	"github.com/aman-zulfiqar/solana-sniper-engine/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Engine  *sniper.Engine         // Trade execution engine
	Cache   storage.ExecutionCache // Redis-backed execution telemetry cache
	Flags   *flags.Store           // Redis-backed feature flags store
	DevMode bool                   // Enable detailed error responses in development
	Logger  *logrus.Logger         // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health reports service status, including the kill switch state
func (h *Handlers) Health(c echo.Context) error {
	resp := HealthResponse{OK: true}
	if h.Engine != nil {
		resp.SniperEnabled = h.Engine.Enabled(c.Request().Context())
		resp.Wallet = h.Engine.WalletAddress()
	}
	return c.JSON(http.StatusOK, resp)
}

// Quote prices a trade across the aggregator and direct venues without
// executing anything
func (h *Handlers) Quote(c echo.Context) error {
	if h.Engine == nil {
		return h.err(c, http.StatusBadRequest, "engine is not configured", nil)
	}

	inputMint := strings.TrimSpace(c.QueryParam("inputMint"))
	outputMint := strings.TrimSpace(c.QueryParam("outputMint"))
	amountStr := strings.TrimSpace(c.QueryParam("amount"))

	if inputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "required"})
	}
	if outputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "required"})
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil || amount == 0 {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64 > 0"})
	}

	var slippageBps uint16
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid slippageBps", map[string]any{"slippageBps": "must be uint16"})
		}
		slippageBps = uint16(n)
	}

	allowMultiHop := false
	if v := strings.TrimSpace(c.QueryParam("allowMultiHop")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid allowMultiHop", map[string]any{"allowMultiHop": "must be boolean"})
		}
		allowMultiHop = b
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	out, err := h.Engine.Quote(ctx, &sniper.SnipeParams{
		InputMint:     inputMint,
		OutputMint:    outputMint,
		AmountIn:      amount,
		SlippageBps:   slippageBps,
		AllowMultiHop: allowMultiHop,
	})
	if err != nil {
		if errors.Is(err, router.ErrNoQuote) {
			return h.err(c, http.StatusBadGateway, "no route for requested pair", map[string]any{"err": err.Error()})
		}
		return h.err(c, http.StatusBadRequest, "quote failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, out)
}

// Fee samples congestion and returns the priority fee for the requested
// urgency (low, medium, high; default high)
func (h *Handlers) Fee(c echo.Context) error {
	if h.Engine == nil {
		return h.err(c, http.StatusBadRequest, "engine is not configured", nil)
	}

	urgency := fees.UrgencyHigh
	switch strings.ToLower(strings.TrimSpace(c.QueryParam("urgency"))) {
	case "", "high":
	case "medium":
		urgency = fees.UrgencyMedium
	case "low":
		urgency = fees.UrgencyLow
	default:
		return h.err(c, http.StatusBadRequest, "invalid urgency", map[string]any{"urgency": "must be low, medium or high"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fee, sample := h.Engine.EstimateFee(ctx, urgency)

	return c.JSON(http.StatusOK, FeeResponse{
		Urgency:     urgency.String(),
		PriorityFee: fee,
		Congestion:  sample.Level.String(),
		AverageFee:  sample.AverageFee,
		P95:         sample.P95,
		P99:         sample.P99,
		Degraded:    sample.Degraded,
	})
}

// Execute runs one trade end-to-end through the engine. Policy rejections
// map to distinct HTTP statuses so callers can branch without parsing
// messages.
func (h *Handlers) Execute(c echo.Context) error {
	if h.Engine == nil {
		return h.err(c, http.StatusBadRequest, "engine is not configured", nil)
	}

	var req ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	result, err := h.Engine.Execute(c.Request().Context(), &sniper.SnipeParams{
		InputMint:     req.InputMint,
		OutputMint:    req.OutputMint,
		AmountIn:      req.AmountIn,
		NotionalUSD:   req.NotionalUSD,
		SlippageBps:   req.SlippageBps,
		AllowMultiHop: req.AllowMultiHop,
	})
	if err != nil {
		switch {
		case errors.Is(err, sniper.ErrSniperDisabled):
			return h.err(c, http.StatusForbidden, "sniper execution is disabled", nil)
		case errors.Is(err, sniper.ErrPriceImpactTooHigh):
			return h.err(c, http.StatusUnprocessableEntity, "price impact exceeds slippage limit", map[string]any{"err": err.Error()})
		case errors.Is(err, sniper.ErrAllProvidersFailed):
			// The per-provider result set is the useful diagnostic here
			return c.JSON(http.StatusBadGateway, result)
		case errors.Is(err, router.ErrNoQuote):
			return h.err(c, http.StatusBadGateway, "no route for requested pair", map[string]any{"err": err.Error()})
		default:
			return h.err(c, http.StatusBadRequest, "execution failed", map[string]any{"err": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, result)
}

// RecentExecutions returns the most recent execution events with optional
// limit parameter (default: 100, range: 1-100)
func (h *Handlers) RecentExecutions(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "telemetry cache is not configured", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentExecutions(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get executions", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsUpsert creates or updates a feature flag with the given key and value
func (h *Handlers) FlagsUpsert(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}

	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsUpdate updates an existing feature flag with the given key
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}

	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsGet retrieves a feature flag by its key
// Returns 404 if flag doesn't exist
func (h *Handlers) FlagsGet(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}

	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsList returns all feature flags in the system
func (h *Handlers) FlagsList(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsDelete removes a feature flag by its key
// Returns 204 No Content on successful deletion
func (h *Handlers) FlagsDelete(c echo.Context) error {
	if h.Flags == nil {
		return h.err(c, http.StatusBadRequest, "flags are not configured", nil)
	}

	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
