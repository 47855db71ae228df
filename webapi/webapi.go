// Package webapi provides the HTTP API of the currency converter:
// - convert: conversion and provider health endpoints
// - common: response envelopes and error mapping
package webapi

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/amirasaad/fxconvert/webapi/common"
	"github.com/amirasaad/fxconvert/webapi/convert"
)

// Options configures SetupApp.
type Options struct {
	Engine    convert.Converter
	Providers []provider.ExchangeRate
	RateLimit *config.RateLimit
	Logger    *slog.Logger
	// AccessLog receives one line per request; nil disables access logging.
	AccessLog io.Writer
}

// SetupApp Initialize Fiber with custom configuration
func SetupApp(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	fiberApp := fiber.New(fiber.Config{
		AppName: "fxconvert",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := common.ErrorToStatusCode(err)
			if status >= fiber.StatusInternalServerError {
				log.Error("Unhandled request error", "path", c.Path(), "error", err)
			}
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ErrorResponseJSON(c, fe.Code, fe.Message, nil)
			}
			return common.ProblemDetailsJSON(c, common.ErrorTitle(err), err, status)
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())
	if opts.AccessLog != nil {
		fiberApp.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			Output: opts.AccessLog,
		}))
	}

	rl := opts.RateLimit
	if rl == nil {
		rl = &config.RateLimit{MaxRequests: 100, Window: time.Minute}
	}
	// Uses X-Forwarded-For header when behind a proxy, then X-Real-IP, then the peer address.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        rl.MaxRequests,
		Expiration: rl.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("fxconvert API is running! 🚀")
	})

	convert.Routes(fiberApp, opts.Engine, opts.Providers, log)
	return fiberApp
}
