package signal

import "github.com/jstorm/huddle/internal/protocol"

func (ctl *Controller) handlePing(conn *wsSignalConn) {
	ctl.sendJSON(conn, protocol.Pong{Type: protocol.EvtPong})
}
