package client_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/elmstronaut/internal/bootstrap"
	"go.trai.ch/elmstronaut/internal/core/domain"
	"go.trai.ch/elmstronaut/internal/render/client"
	"go.trai.ch/zerr"
)

type element struct {
	children []string
}

func (e *element) AppendChild(markup string) {
	e.children = append(e.children, markup)
}

type counterApp struct {
	node  domain.Node
	flags map[string]any
}

type module struct {
	name domain.ModuleName
	init func(node domain.Node, flags map[string]any) (domain.App, error)
}

func (m module) Name() domain.ModuleName { return m.name }

func (m module) Init(node domain.Node, flags map[string]any) (domain.App, error) {
	return m.init(node, flags)
}

func counter() module {
	return module{name: "Counter", init: func(node domain.Node, flags map[string]any) (domain.App, error) {
		return &counterApp{node: node, flags: flags}, nil
	}}
}

func TestRenderer_InitializesAndRegisters(t *testing.T) {
	mount := &element{}
	protocol := bootstrap.New()
	render := client.Renderer(mount, client.WithProtocol(protocol))

	props := map[string]any{"count": 3}
	render(counter(), props, nil, nil)

	require.Equal(t, 1, protocol.Pending())

	var gotName domain.ModuleName
	var gotApp domain.App
	require.NoError(t, protocol.Set(func(name domain.ModuleName, app domain.App) {
		gotName, gotApp = name, app
	}))

	assert.Equal(t, domain.ModuleName("Counter"), gotName)
	app, ok := gotApp.(*counterApp)
	require.True(t, ok)
	assert.Same(t, mount, app.node)
	assert.Equal(t, props, app.flags)
	assert.Empty(t, mount.children)
}

func TestRenderer_IgnoresForeignComponents(t *testing.T) {
	mount := &element{}
	protocol := bootstrap.New()
	render := client.Renderer(mount, client.WithProtocol(protocol))

	for _, component := range []any{nil, "/src/elm/Counter.elm", 42, struct{ Name string }{Name: "Counter"}} {
		render(component, nil, nil, nil)
	}

	assert.Equal(t, 0, protocol.Pending())
	assert.Empty(t, mount.children)
}

func TestRenderer_InitErrorIsShownInMount(t *testing.T) {
	mount := &element{}
	protocol := bootstrap.New()
	render := client.Renderer(mount, client.WithProtocol(protocol))

	broken := module{name: "Counter", init: func(domain.Node, map[string]any) (domain.App, error) {
		return nil, errors.New(`flags.count: expected <Int> but got "ten" & nothing else`)
	}}
	assert.NotPanics(t, func() { render(broken, nil, nil, nil) })

	require.Len(t, mount.children, 1)
	assert.Equal(t, 0, protocol.Pending())

	g := goldie.New(t)
	g.Assert(t, "error_block", []byte(mount.children[0]))
}

func TestRenderer_InitPanicIsShownWithStack(t *testing.T) {
	mount := &element{}
	render := client.Renderer(mount, client.WithProtocol(bootstrap.New()))

	panicking := module{name: "Greeting.Hello", init: func(domain.Node, map[string]any) (domain.App, error) {
		panic("Ports are not defined")
	}}
	assert.NotPanics(t, func() { render(panicking, nil, nil, nil) })

	require.Len(t, mount.children, 1)
	block := mount.children[0]
	assert.True(t, strings.HasPrefix(block,
		`<pre style="border-left: 1px solid red; padding-left: 24px">Module &#34;Greeting.Hello&#34; cannot be initialized.`+"\n\nPorts are not defined\n\n"))
	assert.Contains(t, block, "goroutine ")
	assert.True(t, strings.HasSuffix(block, "</pre>"))
}

func TestErrorBlock_PrintsStackOfStackedErrors(t *testing.T) {
	err := zerr.WithStack(errors.New("decoder failed"))

	block := client.ErrorBlock("Counter", err)
	assert.Contains(t, block, "decoder failed\n")
	assert.Contains(t, block, "TestErrorBlock_PrintsStackOfStackedErrors")
}

func TestErrorBlock_PlainError(t *testing.T) {
	block := client.ErrorBlock("Counter", errors.New("boom"))
	assert.Equal(t, `<pre style="border-left: 1px solid red; padding-left: 24px">Module &#34;Counter&#34; cannot be initialized.`+"\n\nboom</pre>", block)
}

func TestRenderer_CallbackPanicIsShownInMount(t *testing.T) {
	protocol := bootstrap.New()
	var delivered []domain.ModuleName
	require.NoError(t, protocol.Set(func(name domain.ModuleName, _ domain.App) {
		if name == "Counter" {
			panic("onElmInit failed")
		}
		delivered = append(delivered, name)
	}))

	broken := &element{}
	assert.NotPanics(t, func() { client.Renderer(broken, client.WithProtocol(protocol))(counter(), nil, nil, nil) })
	require.Len(t, broken.children, 1)
	assert.Contains(t, broken.children[0], "Module &#34;Counter&#34; cannot be initialized.\n\nonElmInit failed\n\n")

	hello := module{name: "Greeting.Hello", init: func(node domain.Node, flags map[string]any) (domain.App, error) {
		return &counterApp{node: node, flags: flags}, nil
	}}
	healthy := &element{}
	client.Renderer(healthy, client.WithProtocol(protocol))(hello, nil, nil, nil)

	assert.Empty(t, healthy.children)
	assert.Equal(t, []domain.ModuleName{"Greeting.Hello"}, delivered)
}
