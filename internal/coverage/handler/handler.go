// Package handler provides HTTP handlers for the coverage widget.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"usittel_backend/internal/coverage/domain"
	"usittel_backend/internal/coverage/mapview"
	"usittel_backend/internal/coverage/service"
	"usittel_backend/internal/coverage/transport"
	"usittel_backend/internal/geocode"
	"usittel_backend/platform/apperr"
	"usittel_backend/platform/httpkit"
	"usittel_backend/platform/logger"
	"usittel_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader lets a client pin its own session id.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the issued session id between checks.
	SessionCookie = "coverage_session"

	maxSessionIDLength = 64
	demandLimit        = 20
)

// Checker is the coverage service as seen by the HTTP layer.
type Checker interface {
	Check(ctx context.Context, sessionID, raw string) service.Outcome
	Stats() (service.TableStats, error)
	Layout() mapview.Layout
}

// CacheStatsReader reports geocode cache usage.
type CacheStatsReader interface {
	Stats() geocode.CacheStats
}

// DemandReader reports the most requested streets outside current coverage.
type DemandReader interface {
	TopDemand(limit int) []transport.DemandEntry
}

// Handler handles coverage HTTP requests.
type Handler struct {
	svc    Checker
	cache  CacheStatsReader
	demand DemandReader
	val    *validator.Validator
	log    *logger.Logger
}

// New creates a coverage handler. cache and demand may be nil.
func New(svc Checker, cache CacheStatsReader, demand DemandReader, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, cache: cache, demand: demand, val: val, log: log}
}

// Check handles POST /api/v1/coverage/check.
func (h *Handler) Check(c *gin.Context) {
	var req transport.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("request body must be JSON with an address field"))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid request").WithDetails(validator.FieldErrors(err)))
		return
	}

	sessionID := h.session(c)
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sessionID)

	out := h.svc.Check(ctx, sessionID, req.Address)

	status := http.StatusOK
	if err := out.Err(); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status = appErr.HTTPStatus()
		}
	}
	httpkit.JSON(c, status, toCheckResponse(out))
}

// Zones handles GET /api/v1/coverage/zones.
func (h *Handler) Zones(c *gin.Context) {
	layout := h.svc.Layout()
	httpkit.OK(c, transport.ZonesResponse{
		View:     layout.ResetView(),
		Overlays: layout.FeatureCollection(),
	})
}

// Stats handles GET /api/v1/admin/coverage/stats.
func (h *Handler) Stats(c *gin.Context) {
	if id, ok := httpkit.GetIdentity(c); ok {
		h.log.WithContext(c.Request.Context()).Debug("coverage stats requested", "userId", id.UserID)
	}

	tables, err := h.svc.Stats()
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("coverage stats unavailable", "error", err)
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "coverage tables unavailable", err))
		return
	}

	resp := transport.StatsResponse{
		Current: toTableStats(tables.Current),
		Planned: toTableStats(tables.Planned),
		Demand:  []transport.DemandEntry{},
	}
	if h.cache != nil {
		resp.Cache = h.cache.Stats()
	}
	if h.demand != nil {
		if top := h.demand.TopDemand(demandLimit); top != nil {
			resp.Demand = top
		}
	}
	httpkit.OK(c, resp)
}

// session returns the caller's session id: the header when present, then
// the cookie, otherwise a fresh uuid that is set as a cookie.
func (h *Handler) session(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" && len(id) <= maxSessionIDLength {
		return id
	}
	if raw, err := c.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", c.Request.TLS != nil, true)
	return id
}

func toCheckResponse(out service.Outcome) transport.CheckResponse {
	resp := transport.CheckResponse{
		Verdict: string(out.Verdict),
		Reason:  string(out.Reason),
		Message: out.Message,
		Map:     out.View,
	}
	if out.Address != nil {
		resp.Address = toAddress(*out.Address)
	}
	if out.Contact != nil {
		resp.Contact = &transport.Contact{WhatsAppURL: out.Contact.WhatsAppURL, Email: out.Contact.Email}
	}
	return resp
}

func toAddress(a domain.ParsedAddress) *transport.Address {
	return &transport.Address{Street: a.Street, Number: a.Number, Label: a.Label()}
}

func toTableStats(s domain.TableStats) transport.TableStats {
	return transport.TableStats{Streets: s.Streets, Ranges: s.Ranges, Tokens: s.Tokens, Dropped: s.Dropped}
}
