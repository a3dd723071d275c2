package publish

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 32

// Broker fans each published Message out to every subscriber.  A subscriber
// that isn't keeping up misses messages rather than stalling the publisher.
type Broker struct {
	lock   sync.Mutex
	subs   map[chan Message]string
	latest map[string]Message
	closed bool
}

func NewBroker() *Broker {
	return &Broker{
		subs:   map[chan Message]string{},
		latest: map[string]Message{},
	}
}

// Subscribe returns a channel of messages; name is used in log output.  The
// channel is closed by Unsubscribe or Close.
func (b *Broker) Subscribe(name string) chan Message {
	c := make(chan Message, subscriberBuffer)
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		close(c)
		return c
	}
	b.subs[c] = name
	return c
}

func (b *Broker) Unsubscribe(c chan Message) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, ok := b.subs[c]; ok {
		delete(b.subs, c)
		close(c)
	}
}

func (b *Broker) Publish(msgs ...Message) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return
	}
	for _, m := range msgs {
		b.latest[m.Topic] = m
		for c, name := range b.subs {
			select {
			case c <- m:
			default:
				log.WithFields(log.Fields{
					"subscriber": name,
					"topic":      m.Topic,
				}).Debug("Subscriber full, dropping message")
			}
		}
	}
}

// Latest returns the most recent message published on topic.
func (b *Broker) Latest(topic string) (Message, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	m, ok := b.latest[topic]
	return m, ok
}

func (b *Broker) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for c := range b.subs {
		close(c)
	}
	b.subs = nil
}

// CloseWhenDone closes the broker once ctx is cancelled.
func (b *Broker) CloseWhenDone(ctx context.Context) {
	<-ctx.Done()
	b.Close()
}
