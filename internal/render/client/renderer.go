// Package client implements the client side initializer of Elm components.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/a-h/templ"
	"go.trai.ch/elmstronaut/internal/bootstrap"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/core/ports"
	"go.trai.ch/zerr"
)

// errorStyle is applied to the block shown when a module fails to initialize.
const errorStyle = "border-left: 1px solid red; padding-left: 24px"

// RenderFunc initializes one component into the mount it was created for.
type RenderFunc func(component any, props map[string]any, slots map[string]string, meta any)

type config struct {
	protocol *bootstrap.Protocol
	logger   ports.Logger
}

// Option configures a Renderer.
type Option func(*config)

// WithProtocol registers initialized apps with p instead of the global protocol.
func WithProtocol(p *bootstrap.Protocol) Option {
	return func(c *config) { c.protocol = p }
}

// WithLogger logs every render call at debug level.
func WithLogger(l ports.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Renderer returns the render function for mount.
//
// References that are not compiled modules are ignored. A module is
// initialized with props as flags and its app is registered with the
// bootstrap protocol. Failures of the module or of the init callback, returned
// or panicked, are shown inside the mount and never propagate.
func Renderer(mount domain.Node, opts ...Option) RenderFunc {
	cfg := config{protocol: bootstrap.Global()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(component any, props map[string]any, slots map[string]string, meta any) {
		ref := domain.Classify(component)
		if cfg.logger != nil {
			cfg.logger.Debug(fmt.Sprintf("client render: kind=%s props=%d slots=%d meta=%v",
				ref.Kind, len(props), len(slots), meta))
		}
		if ref.Kind != domain.RefCompiledModule {
			return
		}

		if err := mountModule(ref.Module, mount, props, cfg.protocol); err != nil {
			mount.AppendChild(ErrorBlock(ref.Module.Name(), err))
		}
	}
}

// panicError carries a recovered panic and the stack it was raised on.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprint(e.value)
}

// mountModule initializes m and hands its app to the protocol. Panics raised by
// the module or by the init callback are returned as errors.
func mountModule(m domain.CompiledModule, mount domain.Node, flags map[string]any, protocol *bootstrap.Protocol) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()
	app, err := m.Init(mount, flags)
	if err != nil {
		return err
	}
	protocol.Register(m.Name(), app)
	return nil
}

// ErrorBlock renders the block shown in place of a module that failed to initialize.
func ErrorBlock(name domain.ModuleName, err error) string {
	text := fmt.Sprintf("Module \"%s\" cannot be initialized.\n\n%s", name, detail(err))

	var sb strings.Builder
	_ = errorPre(text).Render(context.Background(), &sb)
	return sb.String()
}

// detail prefers a stack trace when the error carries one.
func detail(err error) string {
	var p *panicError
	if errors.As(err, &p) {
		return fmt.Sprintf("%v\n\n%s", p.value, strings.TrimSpace(string(p.stack)))
	}
	if z, ok := err.(*zerr.Error); ok && z.StackTrace() != "" {
		return fmt.Sprintf("%+v", z)
	}
	return err.Error()
}

func errorPre(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<pre style="%s">%s</pre>`, errorStyle, templ.EscapeString(text))
		return err
	})
}
