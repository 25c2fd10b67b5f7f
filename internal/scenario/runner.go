package scenario

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vango-dev/mte/internal/errors"
	"github.com/vango-dev/mte/pkg/mte"
	"github.com/vango-dev/mte/pkg/observable"
	"github.com/vango-dev/mte/pkg/render"
	"github.com/vango-dev/mte/pkg/vdom"
)

// Runner is a live render of a scenario.
type Runner struct {
	scenario *Scenario
	tree     *vdom.Tree
	engine   *mte.Engine
	view     *mte.View
	data     any
	logger   *slog.Logger
}

// NewRunner builds the scenario's templates and data and renders them.
// opts are applied after the scenario's own engine options.
func NewRunner(ctx context.Context, s *Scenario, opts ...mte.Option) (*Runner, error) {
	tpl, reg, err := s.Build()
	if err != nil {
		return nil, err
	}
	data, err := s.NewData()
	if err != nil {
		return nil, errors.New("E201").WithDetail("Invalid data").Wrap(err)
	}

	tree := vdom.NewTree()
	base := []mte.Option{
		mte.WithDocument(tree),
		mte.WithRegistry(reg),
		mte.WithStrict(s.Strict),
	}
	engine := mte.New(append(base, opts...)...)

	view, err := engine.Render(ctx, tpl, data)
	if err != nil {
		return nil, err
	}

	return &Runner{
		scenario: s,
		tree:     tree,
		engine:   engine,
		view:     view,
		data:     data,
		logger:   slog.Default().With("component", "scenario", "scenario", s.Name),
	}, nil
}

// Scenario returns the scenario being run.
func (r *Runner) Scenario() *Scenario { return r.scenario }

// Tree returns the document the view renders into.
func (r *Runner) Tree() *vdom.Tree { return r.tree }

// Engine returns the engine.
func (r *Runner) Engine() *mte.Engine { return r.engine }

// View returns the live view.
func (r *Runner) View() *mte.View { return r.view }

// Data returns the current root data.
func (r *Runner) Data() any { return r.data }

// HTML renders the current output.
func (r *Runner) HTML() string {
	return render.HTML(r.view.Node().(*vdom.VNode))
}

// Close disposes the view.
func (r *Runner) Close() {
	r.view.Dispose()
}

// Apply performs one step against the live data. Engine errors raised by
// the resulting updates are returned unchanged.
func (r *Runner) Apply(step Step) error {
	r.logger.Debug("apply step", "step", step.String())

	if step.Op == OpReplace {
		data, err := Convert(&step.Value)
		if err != nil {
			return r.stepError(step, "invalid value", err)
		}
		r.data = data
		return r.view.SetContext(data)
	}

	switch step.Op {
	case OpSet:
		parent, name, err := r.parent(step)
		if err != nil {
			return err
		}
		value, err := Convert(&step.Value)
		if err != nil {
			return r.stepError(step, "invalid value", err)
		}
		return parent.Set(name, value)

	case OpAdd, OpRemove:
		target, err := r.resolve(step, step.Path)
		if err != nil {
			return err
		}
		seq, ok := target.(*observable.Sequence)
		if !ok {
			return r.targetError(step, "sequence")
		}
		if step.Op == OpAdd {
			value, err := Convert(&step.Value)
			if err != nil {
				return r.stepError(step, "invalid value", err)
			}
			return seq.Add(value)
		}
		return r.remove(step, seq)

	case OpPut, OpClear:
		target, err := r.resolve(step, step.Path)
		if err != nil {
			return err
		}
		m, ok := target.(*observable.Map)
		if !ok {
			return r.targetError(step, "map")
		}
		if step.Op == OpClear {
			return m.Clear(step.Key)
		}
		value, err := Convert(&step.Value)
		if err != nil {
			return r.stepError(step, "invalid value", err)
		}
		return m.Set(step.Key, value)
	}
	return r.stepError(step, "unknown op "+step.Op, nil)
}

// remove deletes by index (identity of the item there) or by scalar value.
func (r *Runner) remove(step Step, seq *observable.Sequence) error {
	if step.Index != nil {
		item, ok := seq.At(*step.Index)
		if !ok {
			return r.stepError(step, "index "+strconv.Itoa(*step.Index)+" out of range", nil)
		}
		return seq.Remove(item)
	}
	value, err := Convert(&step.Value)
	if err != nil {
		return r.stepError(step, "invalid value", err)
	}
	return seq.Remove(value)
}

// parent resolves all but the last path segment to an observable object.
func (r *Runner) parent(step Step) (*observable.Object, string, error) {
	segments := strings.Split(step.Path, ".")
	name := segments[len(segments)-1]
	target, err := r.resolve(step, strings.Join(segments[:len(segments)-1], "."))
	if err != nil {
		return nil, "", err
	}
	obj, ok := target.(*observable.Object)
	if !ok {
		return nil, "", r.targetError(step, "object")
	}
	return obj, name, nil
}

// resolve walks a dotted path from the root data. The empty path is the
// root.
func (r *Runner) resolve(step Step, path string) (any, error) {
	current := r.data
	if path == "" {
		return current, nil
	}
	for _, seg := range strings.Split(path, ".") {
		var (
			next any
			ok   bool
		)
		switch c := current.(type) {
		case *observable.Object:
			ok = c.Has(seg)
			next = c.Get(seg)
		case *observable.Map:
			next, ok = c.Get(seg)
		case *observable.Sequence:
			if i, err := strconv.Atoi(seg); err == nil {
				next, ok = c.At(i)
			}
		}
		if !ok {
			return nil, locate(errors.New("E205"), r.scenario.file, step.line, step.column).
				WithDetail("No " + seg + " in path " + path)
		}
		current = next
	}
	return current, nil
}

func (r *Runner) targetError(step Step, want string) error {
	return locate(errors.New("E205"), r.scenario.file, step.line, step.column).
		WithDetail(step.Op + " needs " + step.Path + " to be an observable " + want)
}

func (r *Runner) stepError(step Step, detail string, err error) error {
	e := locate(errors.New("E202"), r.scenario.file, step.line, step.column).WithDetail(detail)
	if err != nil {
		e.Wrap(err)
	}
	return e
}
