package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"SimTuning/internal/constants"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// sendProtoMessage marshals payload and sends it as a binary WebSocket frame
func sendProtoMessage(conn *websocket.Conn, payload proto.Message) error {
	data, err := proto.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

func snapshotStruct(tbl constants.Table) (*structpb.Struct, error) {
	m := make(map[string]any, len(constants.Names()))
	for name, v := range tbl.Map() {
		m[name] = v
	}
	return structpb.NewStruct(m)
}

func sendSnapshot(conn *websocket.Conn, tbl constants.Table, format string) error {
	if format == "proto" {
		st, err := snapshotStruct(tbl)
		if err != nil {
			return err
		}
		return sendProtoMessage(conn, st)
	}
	return conn.WriteJSON(tbl.Map())
}

// serveWS pushes one snapshot of the table, then holds the connection
// until the client goes away. The table never changes after startup.
func serveWS(consts constants.Reader, hub *Hub, logger *zap.Logger, w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if !hub.add(conn) {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	defer hub.remove(conn)

	tbl, err := consts.Get()
	if err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	if err := sendSnapshot(conn, tbl, format); err != nil {
		logger.Warn("websocket snapshot failed", zap.Error(err))
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
