package outcome

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// WorkflowID represents a unique identifier for a workflow run.
type WorkflowID struct {
	UUID uuid.UUID
}

// NewWorkflowID creates a random WorkflowID.
func NewWorkflowID() WorkflowID {
	return WorkflowID{UUID: uuid.New()}
}

// String returns the string representation of the WorkflowID.
func (w WorkflowID) String() string {
	return w.UUID.String()
}

// StepOutputs exposes the outputs of completed steps to their dependents,
// keyed by step name.
type StepOutputs struct {
	tree *btree.Map[string, any]
}

// Lookup retrieves the output of a completed step by name.
func (so *StepOutputs) Lookup(name string) (any, bool) {
	if so == nil || so.tree == nil {
		return nil, false
	}
	return so.tree.Get(name)
}

// LookupOutput retrieves the output of a completed step with a type
// assertion. It returns the zero value and false when the step has not run
// or its output has a different type.
func LookupOutput[R any](so *StepOutputs, name string) (R, bool) {
	var zero R
	value, found := so.Lookup(name)
	if !found {
		return zero, false
	}
	typed, ok := value.(R)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Step is one unit of a workflow: a do function producing an output, an
// optional compensation undoing it, and the names of the steps it depends on.
type Step struct {
	Name      string
	DependsOn []string

	// Do performs the step. Outputs of completed dependencies are available
	// through the StepOutputs lookup.
	Do func(ctx context.Context, outputs *StepOutputs) (any, error)

	// Compensate, when non-nil, is registered on the saga after Do succeeds
	// and runs during rollback if a later step fails.
	Compensate Compensation
}

// StepRecord tracks the execution of a single step.
type StepRecord struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Workflow runs a set of named, possibly dependent steps as one Outcome
// chain inside an Operation Scope backed by a Saga. Steps execute strictly
// sequentially in topological order of their declared dependencies; when a
// step fails, the compensations registered by the completed steps run in
// reverse order.
//
// A Workflow is owned by a single logical caller and is not safe for
// concurrent use.
type Workflow struct {
	name  string
	id    WorkflowID
	steps []Step
	names map[string]int

	store ReportStore
	sink  Sink

	saga  *Saga
	trace []StepRecord
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithReportStore persists the saga's audit report after every run.
func WithReportStore(store ReportStore) WorkflowOption {
	return func(w *Workflow) { w.store = store }
}

// WithSink logs the workflow conclusion to the given sink.
func WithSink(sink Sink) WorkflowOption {
	return func(w *Workflow) { w.sink = sink }
}

// NewWorkflow creates an empty workflow.
func NewWorkflow(name string, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		name:  name,
		id:    NewWorkflowID(),
		names: make(map[string]int),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the workflow's identifier.
func (w *Workflow) ID() WorkflowID {
	return w.id
}

// Name returns the workflow's name.
func (w *Workflow) Name() string {
	return w.name
}

// AddStep registers a step. Step names must be unique within the workflow.
func (w *Workflow) AddStep(step Step) error {
	if step.Name == "" {
		return fmt.Errorf("step name must not be empty")
	}
	if step.Do == nil {
		return fmt.Errorf("step %q has no do function", step.Name)
	}
	if _, exists := w.names[step.Name]; exists {
		return fmt.Errorf("step with name %q already exists", step.Name)
	}
	for _, dep := range step.DependsOn {
		if dep == step.Name {
			return fmt.Errorf("step %q depends on itself", step.Name)
		}
	}
	w.names[step.Name] = len(w.steps)
	w.steps = append(w.steps, step)
	return nil
}

// Saga returns the compensation stack of the most recent run.
func (w *Workflow) Saga() *Saga {
	return w.saga
}

// Trace returns the step execution trace of the most recent run.
func (w *Workflow) Trace() []StepRecord {
	return append([]StepRecord(nil), w.trace...)
}

// Run executes the workflow. The final Outcome is the scope's conclusion:
// success commits the saga (discarding its compensations), failure rolls it
// back, executing the registered compensations last-first. The step outputs
// are the success value.
func (w *Workflow) Run(ctx context.Context) Outcome[*StepOutputs] {
	w.trace = nil
	w.saga = NewSaga()

	order, err := w.executionOrder()
	if err != nil {
		return Failure[*StepOutputs](WrapFault(err)).
			WithMessage(fmt.Sprintf("workflow %s could not be ordered", w.name))
	}

	outputs := &StepOutputs{tree: btree.NewMap[string, any](8)}
	saga := w.saga
	scope := NewScope(Success(outputs), func(context.Context) (*Saga, error) {
		return saga, nil
	})

	for _, idx := range order {
		step := w.steps[idx]
		scope = BindScope(ctx, scope, func(ctx context.Context, outs *StepOutputs, sg *Saga) Outcome[*StepOutputs] {
			return w.runStep(ctx, step, outs, sg)
		})
	}

	final := scope.End(ctx)
	final = final.Log(w.sink, "workflow_concluded", "workflow %s (%s) concluded", w.name, w.id)

	if w.store != nil {
		report := saga.Report()
		report.Name = w.name
		if saveErr := w.store.Save(ctx, report.SagaID, report); saveErr != nil {
			final = final.WithMessage("failed to persist saga report: " + saveErr.Error())
		}
	}

	return final
}

// runStep executes one step inside the chain, recording its trace entry,
// storing its output, and registering its compensation.
func (w *Workflow) runStep(ctx context.Context, step Step, outs *StepOutputs, sg *Saga) Outcome[*StepOutputs] {
	record := StepRecord{Name: step.Name, StartTime: time.Now()}

	out, err := step.Do(ctx, outs)
	record.EndTime = time.Now()
	record.Err = err
	w.trace = append(w.trace, record)

	if err != nil {
		return Failure[*StepOutputs](WrapFault(err)).
			WithMessage(fmt.Sprintf("step %s failed", step.Name))
	}

	outs.tree.Set(step.Name, out)
	if step.Compensate != nil {
		sg.RegisterCompensation(step.Name, step.Compensate)
	}
	return Success(outs).WithMessage(fmt.Sprintf("step %s completed", step.Name))
}

// executionOrder returns step indices in dependency order using a stabilized
// topological sort for deterministic results.
func (w *Workflow) executionOrder() ([]int, error) {
	g := simple.NewDirectedGraph()
	for i := range w.steps {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, step := range w.steps {
		for _, dep := range step.DependsOn {
			depIdx, ok := w.names[dep]
			if !ok {
				return nil, fmt.Errorf("step %q depends on unknown step %q", step.Name, dep)
			}
			g.SetEdge(g.NewEdge(simple.Node(int64(depIdx)), simple.Node(int64(i))))
		}
	}

	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		// Sort by node ID for deterministic tie-breaking
		sort.Slice(nodes, func(i, j int) bool {
			return nodes[i].ID() < nodes[j].ID()
		})
	})
	if err != nil {
		return nil, fmt.Errorf("topological sort failed (cycle detected?): %w", err)
	}

	order := make([]int, len(sorted))
	for i, node := range sorted {
		order[i] = int(node.ID())
	}
	return order, nil
}
