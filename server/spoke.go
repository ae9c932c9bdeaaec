// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/Fesbaz/ProceduralLandmassGeneration/world"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"net/url"
	"time"
)

type (
	SpokeOptions struct {
		URL url.URL
	}

	// Spoke is the remote end of a SocketClient. It moves a viewer and reads
	// back the terrain streamed to it, for probing and testing a server.
	Spoke struct {
		options SpokeOptions
		conn    *websocket.Conn
	}

	// SpokeMessage is an outbound as received by a Spoke, with Data left undecoded.
	SpokeMessage struct {
		Type string              `json:"type"`
		Data jsoniter.RawMessage `json:"data"`
	}
)

func DialSpoke(options SpokeOptions) (*Spoke, error) {
	conn, _, err := websocket.DefaultDialer.Dial(options.URL.String(), nil)
	if err != nil {
		return nil, err
	}
	return &Spoke{options: options, conn: conn}, nil
}

// SendViewer moves the spoke's viewer.
func (s *Spoke) SendViewer(pos world.Vec2f) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	w, err := s.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	// Wrap with messageJSON to marshal type
	if err = json.NewEncoder(w).Encode(messageJSON{Data: Viewer{pos}, Type: "viewer"}); err != nil {
		return err
	}
	return w.Close()
}

// Receive blocks until the next message or timeout.
func (s *Spoke) Receive(timeout time.Duration) (SpokeMessage, error) {
	var message SpokeMessage

	_ = s.conn.SetReadDeadline(time.Now().Add(timeout))
	_, r, err := s.conn.NextReader()
	if err != nil {
		return message, err
	}

	err = json.NewDecoder(r).Decode(&message)
	return message, err
}

func (s *Spoke) Close() error {
	err := s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err == nil {
		time.Sleep(time.Second / 4)
	}
	return s.conn.Close()
}
