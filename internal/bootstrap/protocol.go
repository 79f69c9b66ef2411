// Package bootstrap implements the client bootstrap protocol that connects
// initialized Elm apps with the page's init callback.
package bootstrap

import (
	"sync"

	"go.trai.ch/elmstronaut/internal/core/domain"
)

// Callback receives every initialized app together with its module name.
type Callback func(name domain.ModuleName, app domain.App)

// Entry is an app waiting for the callback.
type Entry struct {
	Module domain.ModuleName
	App    domain.App
}

// Protocol is the one-shot callback slot and the queue in front of it.
//
// Apps registered before a callback is installed are queued and handed to the
// callback, in registration order, as soon as it is set. The callback may be
// installed only once.
type Protocol struct {
	mu       sync.Mutex
	callback Callback
	queue    []Entry
	flushing bool
}

// New creates an empty protocol.
func New() *Protocol {
	return &Protocol{}
}

var (
	globalOnce sync.Once
	global     *Protocol
)

// Global returns the page wide protocol, creating it on first use.
func Global() *Protocol {
	globalOnce.Do(func() {
		global = New()
	})
	return global
}

// Set installs the callback and flushes the queue through it.
//
// Values that are not callbacks are ignored. Installing a second callback
// fails with domain.ErrCallbackAlreadyDefined and keeps the first one. A panic
// of the callback leaves it installed.
func (p *Protocol) Set(v any) error {
	var cb Callback
	switch fn := v.(type) {
	case Callback:
		cb = fn
	case func(domain.ModuleName, domain.App):
		cb = fn
	}
	if cb == nil {
		return nil
	}

	p.mu.Lock()
	if p.callback != nil {
		p.mu.Unlock()
		return domain.ErrCallbackAlreadyDefined
	}
	p.callback = cb
	p.flushing = true
	p.mu.Unlock()

	p.flush(cb)
	return nil
}

// Get returns the installed callback, or nil.
func (p *Protocol) Get() Callback {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callback
}

// Register hands an initialized app to the callback, or queues it until one is set.
// Apps queued earlier are delivered first.
func (p *Protocol) Register(name domain.ModuleName, app domain.App) {
	p.mu.Lock()
	p.queue = append(p.queue, Entry{Module: name, App: app})
	if p.callback == nil || p.flushing {
		p.mu.Unlock()
		return
	}
	cb := p.callback
	p.flushing = true
	p.mu.Unlock()

	p.flush(cb)
}

// flush delivers queued entries one by one until the queue is empty.
// The caller sets flushing and releases mu. A panicking callback consumes only
// its own entry; the panic is passed on and the next Register resumes delivery.
func (p *Protocol) flush(cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			p.mu.Lock()
			p.flushing = false
			p.mu.Unlock()
			panic(r)
		}
	}()

	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.flushing = false
			p.mu.Unlock()
			return
		}
		e := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		cb(e.Module, e.App)
	}
}

// Pending returns the number of queued apps.
func (p *Protocol) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
