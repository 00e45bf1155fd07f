package app

import (
	"github.com/alexanderramin/horae/internal/alarm"
	"github.com/alexanderramin/horae/internal/repository"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/jmhodges/clock"
)

// Option replaces one of the ports Open would otherwise build from config.
type Option func(*options)

type options struct {
	clk      clock.Clock
	store    repository.KV
	player   alarm.Player
	notifier alarm.Notifier
	channels *service.Channels
}

// WithClock drives every timer, scheduler and alarm from clk.
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clk = clk }
}

// WithStore skips driver selection and uses kv as the backing store.
func WithStore(kv repository.KV) Option {
	return func(o *options) { o.store = kv }
}

func WithPlayer(p alarm.Player) Option {
	return func(o *options) { o.player = p }
}

func WithNotifier(n alarm.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithChannels replaces the WhatsApp and Telegram transports.
func WithChannels(ch service.Channels) Option {
	return func(o *options) { o.channels = &ch }
}
