package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/Suraj-070/worduel/internal/client"
	"github.com/Suraj-070/worduel/internal/hub"
	wire "github.com/Suraj-070/worduel/internal/types"
	"github.com/Suraj-070/worduel/pkg/types"
)

const (
	writeTimeout = 3 * time.Second
	pingInterval = 15 * time.Second
	readLimit    = 4096
)

type Options struct {
	// OriginPatterns are host patterns allowed in addition to same-origin.
	OriginPatterns []string
	Logger         *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")
		conn.SetReadLimit(readLimit)

		c := client.New("", 0)
		if !h.Send(hub.Connect{Client: c}) {
			conn.Close(websocket.StatusTryAgainLater, "server shutting down")
			return
		}
		defer h.Send(hub.DisconnectClient{ClientID: c.ID})
		log.Debug("connection opened", zap.String("client", c.ID), zap.String("remote", r.RemoteAddr))

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine
		go func() {
			defer cancel()
			ping := time.NewTicker(pingInterval)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					return

				case msg := <-c.Outbox():
					payload, err := wire.Encode(msg)
					if err != nil {
						log.Error("encode push", zap.String("event", msg.Event), zap.Error(err))
						continue
					}
					wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
					err = conn.Write(wctx, websocket.MessageText, payload)
					wcancel()
					if err != nil {
						return
					}

				case <-ping.C:
					pctx, pcancel := context.WithTimeout(ctx, writeTimeout)
					err := conn.Ping(pctx)
					pcancel()
					if err != nil {
						log.Debug("ping failed", zap.String("client", c.ID), zap.Error(err))
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					if !errors.Is(err, context.Canceled) {
						log.Debug("connection read ended", zap.String("client", c.ID), zap.Error(err))
					}
				}
				return
			}

			req, err := wire.Decode(data)
			if err != nil {
				c.Send(types.EvtError, types.ErrorMessage{Message: err.Error()})
				continue
			}
			h.Send(hub.FromClient{ClientID: c.ID, Req: req})
		}
	}
}
