package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string     `json:"status"`
	Database    string     `json:"database"`
	Cache       string     `json:"cache"`
	ObjectStore string     `json:"objectStore"`
	Upstream    string     `json:"upstream"`
	CheckedAt   *time.Time `json:"upstreamCheckedAt,omitempty"`
	Environment string     `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Database:    h.ping(ctx, "database", h.database),
		Cache:       h.ping(ctx, "cache", h.cache),
		ObjectStore: h.ping(ctx, "object store", h.objects),
		Upstream:    "unknown",
		Environment: h.cfg.Environment,
	}

	if h.probe != nil {
		if st, ok := h.probe.Status(); ok {
			resp.Upstream = "ok"
			if !st.Healthy {
				resp.Upstream = "error"
			}
			checked := st.CheckedAt
			resp.CheckedAt = &checked
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) ping(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msgf("%s ping failed", name)
		return "error"
	}
	return "ok"
}
