package mte

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/mte/pkg/vdom"
)

const tracerName = "mte"

// Engine renders templates into a Document. An Engine is not safe for
// concurrent use; callers serialize renders and mutations of the data they
// rendered.
type Engine struct {
	doc      vdom.Document
	strict   bool
	logger   *slog.Logger
	hooks    Hooks
	tracer   trace.Tracer
	registry *Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithDocument sets the render target. Default: a new vdom.Tree.
func WithDocument(doc vdom.Document) Option {
	return func(e *Engine) {
		e.doc = doc
	}
}

// WithStrict selects the strict error policy: misconfigured bindings and
// unresolvable contexts fail instead of rendering the absent value.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks sets the activity hooks.
func WithHooks(hooks Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTracer sets the tracer used for render spans.
// Default: otel.Tracer("mte") from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// WithRegistry sets the registry TemplateRefs resolve against.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.doc == nil {
		e.doc = vdom.NewTree()
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "mte")
	}
	if e.hooks == nil {
		e.hooks = NopHooks{}
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

// Document returns the render target.
func (e *Engine) Document() vdom.Document { return e.doc }

// Strict reports whether the strict error policy is active.
func (e *Engine) Strict() bool { return e.strict }

// Registry returns the template registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Render creates the output for t against data. The returned View stays
// synchronized with data until it is disposed.
func (e *Engine) Render(ctx context.Context, t ElementCreator, data any) (*View, error) {
	name := creatorName(t)
	_, span := e.tracer.Start(ctx, "mte.Render",
		trace.WithAttributes(
			attribute.String("mte.template", name),
			attribute.Bool("mte.strict", e.strict),
		),
	)
	defer span.End()

	start := time.Now()
	root := newScope(e, nil, nil, data)
	el, err := t.CreateElement(root)
	elapsed := time.Since(start)
	e.hooks.RenderDone(name, elapsed, err)

	if err != nil {
		root.Dispose()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("render failed", "template", name, "error", err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	e.logger.Debug("rendered", "template", name, "duration", elapsed)
	return &View{root: root, scope: el}, nil
}

func creatorName(t ElementCreator) string {
	switch c := t.(type) {
	case *Template:
		return c.tag
	case *TemplateRef:
		return c.name
	default:
		return "custom"
	}
}

// View is a live rendered template.
type View struct {
	root  *Scope
	scope *Scope
}

// Node returns the root output node.
func (v *View) Node() vdom.Node { return v.scope.Node() }

// Scope returns the root element's scope.
func (v *View) Scope() *Scope { return v.scope }

// Context returns the data the view was rendered against.
func (v *View) Context() any { return v.root.Context() }

// SetContext replaces the data wholesale. Every expression re-evaluates
// against the new data and subscriptions move to it.
func (v *View) SetContext(data any) error {
	if v.root.disposed {
		return nil
	}
	return v.root.setContext(data)
}

// Dispose releases every subscription and destroys the output.
func (v *View) Dispose() {
	if v.root.disposed {
		return
	}
	v.root.Dispose()
	v.scope.Node().Destroy()
}
