// Copyright © 2018 One Concern

package storage

import (
	"context"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
)

// Instrument an object store with tracing spans and debug logs
func Instrument(tr opentracing.Tracer, l *zap.Logger, store ObjectStore) ObjectStore {
	if tr == nil {
		tr = opentracing.NoopTracer{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &instrumentedStore{
		tr:    tr,
		store: store,
		l:     l.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store ObjectStore
	tr    opentracing.Tracer
	l     *zap.Logger
}

func (i *instrumentedStore) opName(name string) string {
	return strings.Join([]string{"storage", i.String(), name}, ".")
}

func (i *instrumentedStore) spanFromContext(ctx context.Context, name string) opentracing.Span {
	parent := opentracing.SpanFromContext(ctx)
	var span opentracing.Span
	if parent != nil {
		span = i.tr.StartSpan(name, opentracing.ChildOf(parent.Context()))
	} else {
		span = i.tr.StartSpan(name)
	}
	return span
}

func finish(span opentracing.Span, err error) {
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("error", err.Error())
	}
	span.Finish()
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) Init(ctx context.Context) (err error) {
	span := i.spanFromContext(ctx, i.opName("Init"))
	defer func() { finish(span, err) }()
	i.l.Debug("storage init")

	return i.store.Init(opentracing.ContextWithSpan(ctx, span))
}

func (i *instrumentedStore) Check(ctx context.Context) (ok bool, err error) {
	span := i.spanFromContext(ctx, i.opName("Check"))
	defer func() { finish(span, err) }()
	i.l.Debug("storage check")

	return i.store.Check(opentracing.ContextWithSpan(ctx, span))
}

func (i *instrumentedStore) Resolve(ctx context.Context, key string) (id string, found bool, err error) {
	span := i.spanFromContext(ctx, i.opName("Resolve"))
	span.SetTag("key", key)
	defer func() { finish(span, err) }()
	i.l.Debug("storage resolve", zap.String("key", key))

	return i.store.Resolve(opentracing.ContextWithSpan(ctx, span), key)
}

func (i *instrumentedStore) ReadObject(ctx context.Context, id string) (data []byte, err error) {
	span := i.spanFromContext(ctx, i.opName("ReadObject"))
	span.SetTag("id", id)
	defer func() { finish(span, err) }()
	i.l.Debug("storage read", zap.String("id", id))

	return i.store.ReadObject(opentracing.ContextWithSpan(ctx, span), id)
}

func (i *instrumentedStore) WriteObject(ctx context.Context, data []byte) (id string, err error) {
	span := i.spanFromContext(ctx, i.opName("WriteObject"))
	span.SetTag("size", len(data))
	defer func() { finish(span, err) }()
	i.l.Debug("storage write", zap.Int("size", len(data)))

	return i.store.WriteObject(opentracing.ContextWithSpan(ctx, span), data)
}

func (i *instrumentedStore) SetPointer(ctx context.Context, key, id string) (err error) {
	span := i.spanFromContext(ctx, i.opName("SetPointer"))
	span.SetTag("key", key)
	defer func() { finish(span, err) }()
	i.l.Debug("storage set pointer", zap.String("key", key), zap.String("id", id))

	return i.store.SetPointer(opentracing.ContextWithSpan(ctx, span), key, id)
}

func (i *instrumentedStore) DeletePointer(ctx context.Context, key string) (deleted bool, err error) {
	span := i.spanFromContext(ctx, i.opName("DeletePointer"))
	span.SetTag("key", key)
	defer func() { finish(span, err) }()
	i.l.Debug("storage delete pointer", zap.String("key", key))

	return i.store.DeletePointer(opentracing.ContextWithSpan(ctx, span), key)
}

func (i *instrumentedStore) ListPointers(ctx context.Context) (keys []string, err error) {
	span := i.spanFromContext(ctx, i.opName("ListPointers"))
	defer func() { finish(span, err) }()
	i.l.Debug("storage list pointers")

	return i.store.ListPointers(opentracing.ContextWithSpan(ctx, span))
}
