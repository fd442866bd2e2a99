// Package odatamock is an in-memory stand-in for the OData transport used by
// tests and the demo binary. It implements the Model, EntityContext and
// Operation contracts with real draft semantics (Edit produces a draft
// sibling, Activation replaces it with an active one), ordered batch-group
// queues and scriptable failures, and keeps a journal of every transport
// interaction so tests can assert call order.
package odatamock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	draftflow "github.com/ArmandoTL8/draftflow"
)

// StatusError is a transport failure carrying an HTTP status.
type StatusError struct {
	Status int
	Reason string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("odatamock: http %d: %s", e.Status, e.Reason)
}

// HTTPStatus implements draftflow.HTTPStatusCarrier.
func (e *StatusError) HTTPStatus() int {
	return e.Status
}

// JournalEntry records one transport interaction.
type JournalEntry struct {
	Kind   string // queue | submit | execute | request | canonical | delete | reset | sideeffects
	Group  string
	Action string
	Path   string
}

// Entity is one row in the mock store.
type Entity struct {
	Path        string
	Properties  map[string]any
	SiblingPath string
	ListBound   bool
	Pending     bool
}

type outcome struct {
	entity draftflow.EntityContext
	err    error
}

type queuedRequest struct {
	op   *operation
	opts draftflow.ExecuteOptions
	ch   chan outcome
}

// Service is the in-memory OData draft service. It implements
// draftflow.Model, draftflow.AnnotationLookup and draftflow.SideEffectsService.
type Service struct {
	mu                  sync.Mutex
	entities            map[string]*Entity
	annotations         map[string]any
	actionKinds         map[string]draftflow.DraftOperation
	actionFailures      map[string][]error
	canonicalResults    map[string]string
	canonicalFailures   map[string]error
	canonicalRequests   []string
	sideEffectsByAction map[string]*draftflow.ActionSideEffects
	sideEffectRequests  [][]string
	sideEffectFailure   error
	queues              map[string][]*queuedRequest
	journal             []JournalEntry
	draftSeq            int
}

// NewService creates an empty mock service.
func NewService() *Service {
	return &Service{
		entities:            make(map[string]*Entity),
		annotations:         make(map[string]any),
		actionKinds:         make(map[string]draftflow.DraftOperation),
		actionFailures:      make(map[string][]error),
		canonicalResults:    make(map[string]string),
		canonicalFailures:   make(map[string]error),
		sideEffectsByAction: make(map[string]*draftflow.ActionSideEffects),
		queues:              make(map[string][]*queuedRequest),
	}
}

// ============================================================================
// Setup
// ============================================================================

// AddEntity stores an entity at path and returns it for further tweaking.
func (s *Service) AddEntity(path string, props map[string]any) *Entity {
	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	entity := &Entity{Path: path, Properties: copied}
	s.mu.Lock()
	s.entities[path] = entity
	s.mu.Unlock()
	return entity
}

// Entity returns the stored entity at path.
func (s *Service) Entity(path string) (*Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entity, ok := s.entities[path]
	return entity, ok
}

// DefineDraftRoot annotates entitySet with the given draft operations.
func (s *Service) DefineDraftRoot(entitySet string, actions map[draftflow.DraftOperation]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for op, name := range actions {
		s.annotations[entitySet+draftflow.DraftRootTerm+"/"+string(op)] = name
		s.actionKinds[name] = op
	}
}

// UndefineOperation removes one draft operation from entitySet.
func (s *Service) UndefineOperation(entitySet string, op draftflow.DraftOperation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.annotations, entitySet+draftflow.DraftRootTerm+"/"+string(op))
}

// DefineReturnType annotates the return type of one draft operation.
func (s *Service) DefineReturnType(entitySet string, op draftflow.DraftOperation, typeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations[entitySet+draftflow.DraftRootTerm+"/"+string(op)+"/$ReturnType"] = typeName
}

// DefineMessagesPath annotates the Messages property of entitySet.
func (s *Service) DefineMessagesPath(entitySet, property string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations[entitySet+"/"+draftflow.MessagesTerm+"/$Path"] = property
}

// FailNextAction scripts a failure for the next execution of actionName.
// Repeated calls queue further failures.
func (s *Service) FailNextAction(actionName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionFailures[actionName] = append(s.actionFailures[actionName], err)
}

// SetCanonicalPath scripts the canonical path resolved for bindPath.
func (s *Service) SetCanonicalPath(bindPath, canonical string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canonicalResults[bindPath] = canonical
}

// FailCanonicalPath scripts a failure for canonical resolution of bindPath.
func (s *Service) FailCanonicalPath(bindPath string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canonicalFailures[bindPath] = err
}

// SetActionSideEffects scripts the side effects annotated for actionName.
func (s *Service) SetActionSideEffects(actionName string, effects *draftflow.ActionSideEffects) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideEffectsByAction[actionName] = effects
}

// FailSideEffects makes every RequestSideEffects call fail with err.
func (s *Service) FailSideEffects(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideEffectFailure = err
}

// ============================================================================
// Introspection
// ============================================================================

// Journal returns a copy of the recorded transport interactions.
func (s *Service) Journal() []JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JournalEntry, len(s.journal))
	copy(out, s.journal)
	return out
}

// CanonicalRequests returns the bound paths canonical resolution was asked
// for, in request order.
func (s *Service) CanonicalRequests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.canonicalRequests))
	copy(out, s.canonicalRequests)
	return out
}

// SideEffectRequests returns the path lists passed to RequestSideEffects.
func (s *Service) SideEffectRequests() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.sideEffectRequests))
	copy(out, s.sideEffectRequests)
	return out
}

func (s *Service) journalAppend(entry JournalEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
}

// ============================================================================
// draftflow.AnnotationLookup
// ============================================================================

// MetaPath strips the key predicate off the first path segment, which covers
// the entity-set shapes the tests use.
func (s *Service) MetaPath(contextPath string) string {
	if idx := strings.Index(contextPath, "("); idx >= 0 {
		return contextPath[:idx]
	}
	return contextPath
}

// Object reads the annotation value at path.
func (s *Service) Object(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotations[path]
}

// ============================================================================
// draftflow.SideEffectsService
// ============================================================================

func (s *Service) RequestSideEffects(ctx context.Context, paths []string, entity draftflow.EntityContext, group string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sideEffectRequests = append(s.sideEffectRequests, append([]string(nil), paths...))
	s.journal = append(s.journal, JournalEntry{Kind: "sideeffects", Group: group, Path: entity.Path()})
	return s.sideEffectFailure
}

func (s *Service) ActionSideEffects(actionName string, entity draftflow.EntityContext) (*draftflow.ActionSideEffects, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	effects, ok := s.sideEffectsByAction[actionName]
	return effects, ok
}

// ============================================================================
// draftflow.Model
// ============================================================================

func (s *Service) BindOperation(actionName string, entity draftflow.EntityContext, opts *draftflow.OperationOptions) (draftflow.Operation, error) {
	s.mu.Lock()
	kind, ok := s.actionKinds[actionName]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("odatamock: unknown action %s", actionName)
	}
	return &operation{
		svc:        s,
		name:       actionName,
		kind:       kind,
		entityPath: entity.Path(),
		opts:       opts,
		params:     make(map[string]any),
	}, nil
}

func (s *Service) BindContext(path string) draftflow.EntityContext {
	return &entityContext{svc: s, path: path}
}

// SubmitBatch flushes the queued requests of group in queue order, resolving
// each pending operation.
func (s *Service) SubmitBatch(ctx context.Context, group string) error {
	s.mu.Lock()
	queue := s.queues[group]
	s.queues[group] = nil
	s.journal = append(s.journal, JournalEntry{Kind: "submit", Group: group})
	s.mu.Unlock()

	for _, req := range queue {
		entity, err := s.run(ctx, req.op, req.opts)
		req.ch <- outcome{entity: entity, err: err}
	}
	return nil
}

// ============================================================================
// Execution semantics
// ============================================================================

func (s *Service) popFailure(actionName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	failures := s.actionFailures[actionName]
	if len(failures) == 0 {
		return nil
	}
	err := failures[0]
	s.actionFailures[actionName] = failures[1:]
	return err
}

func (s *Service) run(ctx context.Context, o *operation, opts draftflow.ExecuteOptions) (draftflow.EntityContext, error) {
	if err := s.popFailure(o.name); err != nil {
		var statusErr *StatusError
		resubmitted := false
		if errors.As(err, &statusErr) && statusErr.Status == 412 && opts.OnStrictHandlingFailed != nil {
			failure := draftflow.StrictHandlingFailure{Messages: []string{statusErr.Reason}}
			resubmitted = opts.OnStrictHandlingFailed(ctx, failure)
		}
		if !resubmitted {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entity, ok := s.entities[o.entityPath]
	if !ok {
		return nil, &StatusError{Status: 404, Reason: "entity not found: " + o.entityPath}
	}
	switch o.kind {
	case draftflow.OperationEdit:
		return s.runEdit(entity), nil
	case draftflow.OperationPreparation:
		return &entityContext{svc: s, path: entity.Path}, nil
	case draftflow.OperationActivation:
		return s.runActivation(entity), nil
	case draftflow.OperationDiscard:
		return s.runDiscard(entity), nil
	default:
		return nil, fmt.Errorf("odatamock: unsupported operation kind %s", o.kind)
	}
}

// runEdit creates the draft sibling of an active entity. Caller holds s.mu.
func (s *Service) runEdit(active *Entity) draftflow.EntityContext {
	s.draftSeq++
	draftPath := active.SiblingPath
	if draftPath == "" {
		draftPath = siblingPathOf(active.Path, false)
	}
	props := make(map[string]any, len(active.Properties)+1)
	for k, v := range active.Properties {
		props[k] = v
	}
	props[draftflow.PropertyIsActiveEntity] = false
	props[draftflow.PropertyHasActiveEntity] = true
	props[draftflow.PropertyDraftAdministrativeData] = map[string]any{
		"DraftUUID":          uuid.NewString(),
		"DraftIsCreatedByMe": true,
	}
	draft := &Entity{Path: draftPath, Properties: props, SiblingPath: active.Path}
	s.entities[draftPath] = draft
	active.SiblingPath = draftPath
	return &entityContext{svc: s, path: draftPath}
}

// runActivation replaces a draft with its active sibling. Caller holds s.mu.
func (s *Service) runActivation(draft *Entity) draftflow.EntityContext {
	activePath := draft.SiblingPath
	if activePath == "" {
		activePath = siblingPathOf(draft.Path, true)
	}
	props := make(map[string]any, len(draft.Properties))
	for k, v := range draft.Properties {
		props[k] = v
	}
	props[draftflow.PropertyIsActiveEntity] = true
	props[draftflow.PropertyHasActiveEntity] = false
	delete(props, draftflow.PropertyDraftAdministrativeData)
	s.entities[activePath] = &Entity{Path: activePath, Properties: props}
	delete(s.entities, draft.Path)
	return &entityContext{svc: s, path: activePath}
}

// runDiscard removes a draft. Caller holds s.mu.
func (s *Service) runDiscard(draft *Entity) draftflow.EntityContext {
	delete(s.entities, draft.Path)
	if draft.SiblingPath != "" {
		if active, ok := s.entities[draft.SiblingPath]; ok {
			active.SiblingPath = ""
			return &entityContext{svc: s, path: active.Path}
		}
	}
	return &entityContext{svc: s, path: draft.Path}
}

// siblingPathOf flips the IsActiveEntity key predicate of path.
func siblingPathOf(path string, active bool) string {
	from, to := "IsActiveEntity=true", "IsActiveEntity=false"
	if active {
		from, to = to, from
	}
	if strings.Contains(path, from) {
		return strings.Replace(path, from, to, 1)
	}
	if active {
		return strings.TrimSuffix(path, "-draft")
	}
	return path + "-draft"
}

// ============================================================================
// draftflow.EntityContext
// ============================================================================

type entityContext struct {
	svc  *Service
	path string
}

func (c *entityContext) Path() string {
	return c.path
}

func (c *entityContext) Model() draftflow.Model {
	return c.svc
}

func (c *entityContext) Property(name string) (any, bool) {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	entity, ok := c.svc.entities[c.path]
	if !ok {
		return nil, false
	}
	value, ok := entity.Properties[name]
	return value, ok
}

func (c *entityContext) RequestProperty(ctx context.Context, name string) (any, error) {
	c.svc.journalAppend(JournalEntry{Kind: "request", Action: name, Path: c.path})
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	entity, ok := c.svc.entities[c.path]
	if !ok {
		return nil, &StatusError{Status: 404, Reason: "entity not found: " + c.path}
	}
	return entity.Properties[name], nil
}

func (c *entityContext) RequestObject(ctx context.Context) (map[string]any, error) {
	c.svc.journalAppend(JournalEntry{Kind: "request", Path: c.path})
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	entity, ok := c.svc.entities[c.path]
	if !ok {
		return nil, &StatusError{Status: 404, Reason: "entity not found: " + c.path}
	}
	out := make(map[string]any, len(entity.Properties))
	for k, v := range entity.Properties {
		out[k] = v
	}
	return out, nil
}

func (c *entityContext) RequestCanonicalPath(ctx context.Context) (string, error) {
	c.svc.mu.Lock()
	c.svc.canonicalRequests = append(c.svc.canonicalRequests, c.path)
	c.svc.journal = append(c.svc.journal, JournalEntry{Kind: "canonical", Path: c.path})
	err := c.svc.canonicalFailures[c.path]
	canonical, ok := c.svc.canonicalResults[c.path]
	c.svc.mu.Unlock()

	if err != nil {
		return "", err
	}
	if !ok {
		return "", &StatusError{Status: 404, Reason: "no canonical path configured for " + c.path}
	}
	return canonical, nil
}

func (c *entityContext) IsListBound() bool {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	entity, ok := c.svc.entities[c.path]
	return ok && entity.ListBound
}

func (c *entityContext) HasPendingChanges() bool {
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	entity, ok := c.svc.entities[c.path]
	return ok && entity.Pending
}

func (c *entityContext) ResetChanges(ctx context.Context) error {
	c.svc.journalAppend(JournalEntry{Kind: "reset", Path: c.path})
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	if entity, ok := c.svc.entities[c.path]; ok {
		entity.Pending = false
	}
	return nil
}

func (c *entityContext) Delete(ctx context.Context, group string) error {
	c.svc.journalAppend(JournalEntry{Kind: "delete", Group: group, Path: c.path})
	c.svc.mu.Lock()
	defer c.svc.mu.Unlock()
	if _, ok := c.svc.entities[c.path]; !ok {
		return &StatusError{Status: 404, Reason: "entity not found: " + c.path}
	}
	delete(c.svc.entities, c.path)
	return nil
}

// ============================================================================
// draftflow.Operation
// ============================================================================

type operation struct {
	svc        *Service
	name       string
	kind       draftflow.DraftOperation
	entityPath string
	opts       *draftflow.OperationOptions
	mu         sync.Mutex
	params     map[string]any
}

func (o *operation) Name() string {
	return o.name
}

func (o *operation) SetParameter(name string, value any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.params[name] = value
}

// Parameter returns a parameter previously set on the operation.
func (o *operation) Parameter(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	value, ok := o.params[name]
	return value, ok
}

func (o *operation) Queue(opts draftflow.ExecuteOptions) draftflow.PendingOperation {
	pending := &pendingOperation{ch: make(chan outcome, 1)}
	o.svc.mu.Lock()
	o.svc.queues[opts.BatchGroup] = append(o.svc.queues[opts.BatchGroup], &queuedRequest{op: o, opts: opts, ch: pending.ch})
	o.svc.journal = append(o.svc.journal, JournalEntry{Kind: "queue", Group: opts.BatchGroup, Action: o.name, Path: o.entityPath})
	o.svc.mu.Unlock()
	return pending
}

func (o *operation) Execute(ctx context.Context, opts draftflow.ExecuteOptions) (draftflow.EntityContext, error) {
	if opts.BatchGroup == "" {
		o.svc.journalAppend(JournalEntry{Kind: "execute", Action: o.name, Path: o.entityPath})
		return o.svc.run(ctx, o, opts)
	}
	pending := o.Queue(opts)
	if err := o.svc.SubmitBatch(ctx, opts.BatchGroup); err != nil {
		return nil, err
	}
	return pending.Wait(ctx)
}

type pendingOperation struct {
	ch chan outcome
}

func (p *pendingOperation) Wait(ctx context.Context) (draftflow.EntityContext, error) {
	select {
	case out := <-p.ch:
		return out.entity, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
