package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/ordering"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// LiveHandler streams ordered snapshots of a collection over a websocket.
type LiveHandler struct {
	service  ports.CollectionService
	upgrader websocket.Upgrader
}

type liveMessage struct {
	Type      string          `json:"type"`
	Records   []domain.Record `json:"records"`
	NextOrder int             `json:"next_order"`
}

func NewLiveHandler(service ports.CollectionService, frontendURL string) *LiveHandler {
	allowed := ""
	if u, err := url.Parse(frontendURL); err == nil && u.Host != "" {
		allowed = u.Host
	}
	return &LiveHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host || (allowed != "" && u.Host == allowed)
			},
		},
	}
}

func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	contentType := chi.URLParam(r, "type")
	if _, err := h.service.ContentType(contentType); err != nil {
		respondError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	defer conn.Close()
	logger := hlog.FromRequest(r)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	snapshots, err := h.service.Subscribe(ctx, contentType)
	if err != nil {
		logger.Error().Err(err).Str("type", contentType).Msg("live subscription failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"),
			time.Now().Add(writeWait))
		return
	}

	// Reads only serve to notice the client going away and to see pongs.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case records, ok := <-snapshots:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			msg := liveMessage{Type: contentType, Records: records, NextOrder: ordering.NextOrder(records)}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Str("type", contentType).Msg("live client gone")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
