package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
)

const defaultSubject = "boarding.reservations.status"

// NatsNotifier publica eventos de reserva en un tópico NATS.
// La publicación es fire-and-forget; el caller decide si loguea el error.
type NatsNotifier struct {
	conn    *nats.Conn
	subject string
}

// ConnectNats conecta al broker. subject vacío usa el default.
func ConnectNats(url, subject string) (*NatsNotifier, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("nats url required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	s := strings.TrimSpace(subject)
	if s == "" {
		s = defaultSubject
	}

	return &NatsNotifier{conn: conn, subject: s}, nil
}

func (n *NatsNotifier) ReservationStatusChanged(_ context.Context, ev ReservationEvent) error {
	if n == nil || n.conn == nil {
		return errors.New("nats notifier not connected")
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.conn.Publish(n.subject, b)
}

func (n *NatsNotifier) Close() {
	if n != nil && n.conn != nil {
		n.conn.Close()
	}
}
