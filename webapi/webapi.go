// Package webapi provides the HTTP API for quickcurrency.
// It is organized into sub-packages:
// - convert: conversion, parse and quote endpoints
// - settings: preference endpoints
// - system: health, metrics and cache maintenance
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/app"
	"github.com/amirasaad/quickcurrency/webapi/common"
	convertweb "github.com/amirasaad/quickcurrency/webapi/convert"
	settingsweb "github.com/amirasaad/quickcurrency/webapi/settings"
	systemweb "github.com/amirasaad/quickcurrency/webapi/system"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		AppName:     "quickcurrency",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	maxRequests, window := 100, time.Minute
	if rl := a.Config.RateLimit; rl != nil {
		maxRequests, window = rl.MaxRequests, rl.Window
	}

	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("QuickCurrency API is running")
	})

	convertweb.Routes(fiberApp, a.ConversionService)
	settingsweb.Routes(fiberApp, a.Settings)
	systemweb.Routes(fiberApp, a.ConversionService, a.Deps.Metrics)
	return fiberApp
}
