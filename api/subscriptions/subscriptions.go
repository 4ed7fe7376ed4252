// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/accrual/api/utils"
	"github.com/vechain/accrual/engine"
	"github.com/vechain/accrual/log"
	"github.com/vechain/accrual/metrics"
	"github.com/vechain/accrual/thor"
)

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Commits buffered per connection.
	bufferSize = 64
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

type Subscriptions struct {
	engine   *engine.Engine
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(e *engine.Engine, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		engine: e,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// addressFilter keeps events of the contract given by the addr query parameter.
func addressFilter(req *http.Request) (func(*Event) bool, error) {
	raw := req.URL.Query().Get("addr")
	if raw == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(raw)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "addr"))
	}
	return func(ev *Event) bool { return ev.Address == *addr }, nil
}

func (s *Subscriptions) handleSubscribeCommits(w http.ResponseWriter, req *http.Request) error {
	filter, err := addressFilter(req)
	if err != nil {
		return err
	}

	// subscribe before the handshake completes, so that no commit after it is missed
	commits := make(chan *engine.Commit, bufferSize)
	sub := s.engine.SubscribeCommits(commits)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "commits"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "commits"})

	err = s.pipe(conn, sub, commits, filter)
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err != nil {
		logger.Debug("error in websocket", "err", err)
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	conn.Close()
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, sub event.Subscription, commits <-chan *engine.Commit, filter func(*Event) bool) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err, ok := <-sub.Err():
			if !ok {
				return nil
			}
			return err
		case c := <-commits:
			msg := convertCommit(c, filter)
			if len(c.Events) > 0 && len(msg.Events) == 0 {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends every open subscription and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/commits").
		Methods(http.MethodGet).
		Name("WS /subscriptions/commits").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeCommits))
}
