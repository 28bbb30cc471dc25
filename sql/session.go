// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

const (
	// JoinReorderingEnabledSessionVar enables cross join elimination.
	JoinReorderingEnabledSessionVar = "join_reordering_enabled"
	// JoinDistributionTypeSessionVar overrides the join distribution.
	JoinDistributionTypeSessionVar = "join_distribution_type"
)

const (
	// ConnectionIDLogField is the log field holding the session id.
	ConnectionIDLogField = "connectionID"
	// QueryIDLogField is the log field holding the query id.
	QueryIDLogField = "queryID"
)

// Session holds the session data the optimizer reads.
type Session interface {
	// ID returns the unique ID of the session.
	ID() uint32
	// JoinReorderingEnabled returns whether cross join elimination runs.
	JoinReorderingEnabled() bool
	// JoinDistributionType returns the session join distribution setting.
	JoinDistributionType() JoinDistributionType
	// SetSessionVariable sets the given system variable to the value given
	// for this session.
	SetSessionVariable(ctx *Context, name string, value interface{}) error
	// GetSessionVariable returns this session's value of the system variable
	// with the given name.
	GetSessionVariable(ctx *Context, name string) (interface{}, error)
	// GetAllSessionVariables returns a copy of all session variable values.
	GetAllSessionVariables() map[string]interface{}
	// GetLogger returns the logger for this session.
	GetLogger() *logrus.Entry
	// SetLogger sets the logger to use for this session.
	SetLogger(*logrus.Entry)
}

// BaseSession is the basic session type.
type BaseSession struct {
	id           uint32
	mu           sync.RWMutex
	reordering   bool
	distribution JoinDistributionType
	logger       *logrus.Entry
}

var _ Session = (*BaseSession)(nil)

var autoSessionIDs uint32

// NewSession creates a session whose variables start from the given config.
func NewSession(cfg FeaturesConfig) *BaseSession {
	distribution := cfg.JoinDistributionType
	if distribution == "" {
		distribution = JoinDistributionPartitioned
	}
	return &BaseSession{
		id:           atomic.AddUint32(&autoSessionIDs, 1),
		reordering:   cfg.JoinReorderingEnabled,
		distribution: distribution,
	}
}

// NewBaseSession creates a new session with the default config.
func NewBaseSession() Session {
	return NewSession(DefaultFeaturesConfig())
}

// ID implements the Session interface.
func (s *BaseSession) ID() uint32 { return s.id }

// JoinReorderingEnabled implements the Session interface.
func (s *BaseSession) JoinReorderingEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reordering
}

// JoinDistributionType implements the Session interface.
func (s *BaseSession) JoinDistributionType() JoinDistributionType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distribution
}

// SetSessionVariable implements the Session interface. Values are coerced
// leniently, so "true", 1 and true all enable a boolean variable.
func (s *BaseSession) SetSessionVariable(ctx *Context, name string, value interface{}) error {
	switch name {
	case JoinReorderingEnabledSessionVar:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return ErrInvalidSessionVariableValue.New(name, value)
		}
		s.mu.Lock()
		s.reordering = b
		s.mu.Unlock()
	case JoinDistributionTypeSessionVar:
		str, err := cast.ToStringE(value)
		if err != nil {
			return ErrInvalidSessionVariableValue.New(name, value)
		}
		t, err := ParseJoinDistributionType(str)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.distribution = t
		s.mu.Unlock()
	default:
		return ErrUnknownSessionVariable.New(name)
	}
	return nil
}

// GetSessionVariable implements the Session interface.
func (s *BaseSession) GetSessionVariable(ctx *Context, name string) (interface{}, error) {
	switch name {
	case JoinReorderingEnabledSessionVar:
		return s.JoinReorderingEnabled(), nil
	case JoinDistributionTypeSessionVar:
		return string(s.JoinDistributionType()), nil
	default:
		return nil, ErrUnknownSessionVariable.New(name)
	}
}

// GetAllSessionVariables implements the Session interface.
func (s *BaseSession) GetAllSessionVariables() map[string]interface{} {
	return map[string]interface{}{
		JoinReorderingEnabledSessionVar: s.JoinReorderingEnabled(),
		JoinDistributionTypeSessionVar:  string(s.JoinDistributionType()),
	}
}

// GetLogger implements the Session interface.
func (s *BaseSession) GetLogger() *logrus.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logger == nil {
		s.logger = logrus.StandardLogger().WithField(ConnectionIDLogField, s.id)
	}
	return s.logger
}

// SetLogger implements the Session interface.
func (s *BaseSession) SetLogger(logger *logrus.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Context of the query compilation.
type Context struct {
	context.Context
	Session
	queryID uuid.UUID
	ids     *NodeIDAllocator
	tracer  opentracing.Tracer
}

// ContextOption is a function to configure the context.
type ContextOption func(*Context)

// WithSession adds the given session to the context.
func WithSession(s Session) ContextOption {
	return func(ctx *Context) {
		ctx.Session = s
	}
}

// WithTracer adds the given tracer to the context.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithNodeIDAllocator sets the allocator new plan nodes take their ids from.
func WithNodeIDAllocator(a *NodeIDAllocator) ContextOption {
	return func(ctx *Context) {
		ctx.ids = a
	}
}

// WithQueryID sets the id of the query being compiled.
func WithQueryID(id uuid.UUID) ContextOption {
	return func(ctx *Context) {
		ctx.queryID = id
	}
}

// NewContext creates a new query context. Options can be passed to configure
// the context. If some aspect of the context is not configured, the default
// value will be used.
// By default, the context will have an empty base session, a noop tracer, a
// fresh node id allocator and a random query id.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		Session: NewBaseSession(),
		queryID: uuid.New(),
		ids:     NewNodeIDAllocator(),
		tracer:  opentracing.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewEmptyContext returns a default context with default values.
func NewEmptyContext() *Context { return NewContext(context.TODO()) }

// QueryID returns the id of the query being compiled.
func (c *Context) QueryID() uuid.UUID { return c.queryID }

// NodeIDAllocator returns the allocator of this compilation.
func (c *Context) NodeIDAllocator() *NodeIDAllocator { return c.ids }

// NextNodeID returns a fresh plan node id.
func (c *Context) NextNodeID() NodeID { return c.ids.NextID() }

// Logger returns the session logger tagged with the query id.
func (c *Context) Logger() *logrus.Entry {
	return c.Session.GetLogger().WithField(QueryIDLogField, c.queryID.String())
}

// Span creates a new tracing span with the given context.
// It will return the span and a new context that should be passed to all
// children of this span.
func (c *Context) Span(
	opName string,
	opts ...opentracing.StartSpanOption,
) (opentracing.Span, *Context) {
	parentSpan := opentracing.SpanFromContext(c.Context)
	if parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)
	ctx := opentracing.ContextWithSpan(c.Context, span)

	return span, c.WithContext(ctx)
}

// WithContext returns a new context with the given underlying context.
func (c *Context) WithContext(ctx context.Context) *Context {
	nc := *c
	nc.Context = ctx
	return &nc
}

// WithNodeIDsAfter returns a copy of the context with its own allocator,
// whose ids start after the given one.
func (c *Context) WithNodeIDsAfter(last NodeID) *Context {
	nc := *c
	nc.ids = NewNodeIDAllocatorFrom(last)
	return &nc
}

// NewErrgroup returns an errgroup bound to this context and the context its
// goroutines should use.
func (c *Context) NewErrgroup() (*errgroup.Group, *Context) {
	eg, egCtx := errgroup.WithContext(c.Context)
	return eg, c.WithContext(egCtx)
}
