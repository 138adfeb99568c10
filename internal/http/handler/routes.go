package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pdfshare/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Documents    service.DocumentService
	Shares       service.ShareService
	Access       service.AccessService
	Verification service.VerificationService
	// BaseURL prefixes the share links returned on creation.
	BaseURL string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// The document and share listing routes are operator endpoints and carry no authentication of their own.
func RegisterRoutes(app *fiber.App, db Pinger, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/documents", UploadDocument(svc.Documents))
	app.Get("/documents", ListDocuments(svc.Documents))
	app.Get("/documents/:id", GetDocument(svc.Documents))

	app.Post("/shares", CreateShare(svc.Shares, svc.BaseURL))
	app.Get("/shares", ListShares(svc.Shares))
	app.Get("/shares/:token", ShareEntry(svc.Access))
	app.Post("/shares/:token/verify", VerifyShare(svc.Verification))
	app.Get("/shares/:token/meta", ShareMeta(svc.Access))
	app.Get("/shares/:token/file", ShareFile(svc.Access))
}

// Metrics serves the Prometheus exposition format for g.
func Metrics(g prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
