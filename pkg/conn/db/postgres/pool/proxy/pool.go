package proxy

import (
	"context"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
)

type Callback func()

type event struct {
	mu     sync.RWMutex
	before []Callback
	after  []Callback
	chain  *event
}

func (e *event) Before(cb ...Callback) *event {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.before = append(e.before, cb...)
	return e
}

func (e *event) After(cb ...Callback) *event {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.after = append(e.after, cb...)
	return e
}

func (e *event) Invoke(f func()) {
	e.invokeBefore()
	defer e.invokeAfter()
	f()
}

func (e *event) callbacks(after bool) []Callback {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if after {
		return append([]Callback{}, e.after...)
	}
	return append([]Callback{}, e.before...)
}

func (e *event) invokeBefore() {
	if e == nil {
		return
	}
	for _, cb := range e.callbacks(false) {
		cb()
	}
	e.chain.invokeBefore()
}

func (e *event) invokeAfter() {
	if e == nil {
		return
	}
	e.chain.invokeAfter()
	for _, cb := range e.callbacks(true) {
		cb()
	}
}

type SQLEvents struct {
	Query    *event
	Commit   *event
	Rollback *event
	ExitTx   *event
}

func (sq *SQLEvents) Events() *SQLEvents {
	return sq
}

func NewPgxEvents() *SQLEvents {
	exitTx := new(event)
	return &SQLEvents{
		Query:    new(event),
		Commit:   &event{chain: exitTx},
		Rollback: &event{chain: exitTx},
		ExitTx:   exitTx,
	}
}

type sqlEventHost interface {
	Events() *SQLEvents
}

func WrapTx(tx kpool.Tx, ev sqlEventHost) *Tx {
	if tx == nil {
		return nil
	}
	return &Tx{Base: tx, events: ev.Events()}
}

func WrapConn(conn kpool.Conn, ev sqlEventHost) *Conn {
	if conn == nil {
		return nil
	}
	return &Conn{Base: conn, events: ev.Events()}
}

// Pool wraps a smartbiz Pool and fires callbacks around the SQL it sends.
//
// # Events
//
// - Query: Exec, Query or QueryRow
//
// - Commit, Rollback: the methods of Tx with the same names
//
// - ExitTx: fired on both of Commit and Rollback.
//
// Callbacks registered with Before run before the event, and with After run after it.
// For the end of a transaction, the order is:
// before Commit (or Rollback), before ExitTx, after ExitTx, after Commit (or Rollback).
//
// Conns and Txs derived from a Pool share its callbacks.
// Tests use this to pause one transaction while another one is in flight.
type Pool struct {
	Base   kpool.Pool
	events *SQLEvents
}

func Wrap(p kpool.Pool) *Pool {
	return &Pool{Base: p, events: NewPgxEvents()}
}

func (p *Pool) Events() *SQLEvents {
	return p.events
}

var _ kpool.Pool = &Pool{}

func (p *Pool) Acquire(ctx context.Context) (kpool.Conn, error) {
	conn, err := p.Base.Acquire(ctx)
	if w := WrapConn(conn, p); w != nil {
		return w, err
	}
	return nil, err
}
func (p *Pool) Begin(ctx context.Context) (kpool.Tx, error) {
	tx, err := p.Base.Begin(ctx)
	if w := WrapTx(tx, p); w != nil {
		return w, err
	}
	return nil, err
}
func (p *Pool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (kpool.Tx, error) {
	tx, err := p.Base.BeginTx(ctx, txOptions)
	if w := WrapTx(tx, p); w != nil {
		return w, err
	}
	return nil, err
}
func (p *Pool) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	p.events.Query.Invoke(func() {
		ctag, err = p.Base.Exec(ctx, sql, arguments...)
	})
	return
}
func (p *Pool) Query(ctx context.Context, sql string, args ...interface{}) (r pgx.Rows, err error) {
	p.events.Query.Invoke(func() {
		r, err = p.Base.Query(ctx, sql, args...)
	})
	return
}
func (p *Pool) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	p.events.Query.Invoke(func() {
		r = p.Base.QueryRow(ctx, sql, args...)
	})
	return
}
func (p *Pool) Ping(ctx context.Context) error {
	return p.Base.Ping(ctx)
}
func (p *Pool) Close() {
	p.Base.Close()
}

type Tx struct {
	Base   kpool.Tx
	events *SQLEvents
}

func (tx *Tx) Events() *SQLEvents {
	return tx.events
}

var _ kpool.Tx = &Tx{}

func (tx *Tx) Begin(ctx context.Context) (kpool.Tx, error) {
	nested, err := tx.Base.Begin(ctx)
	if w := WrapTx(nested, tx); w != nil {
		return w, err
	}
	return nil, err
}
func (tx *Tx) Commit(ctx context.Context) (err error) {
	tx.events.Commit.Invoke(func() {
		err = tx.Base.Commit(ctx)
	})
	return
}
func (tx *Tx) Rollback(ctx context.Context) (err error) {
	tx.events.Rollback.Invoke(func() {
		err = tx.Base.Rollback(ctx)
	})
	return
}
func (tx *Tx) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	tx.events.Query.Invoke(func() {
		ctag, err = tx.Base.Exec(ctx, sql, arguments...)
	})
	return
}
func (tx *Tx) Query(ctx context.Context, sql string, args ...interface{}) (r pgx.Rows, err error) {
	tx.events.Query.Invoke(func() {
		r, err = tx.Base.Query(ctx, sql, args...)
	})
	return
}
func (tx *Tx) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	tx.events.Query.Invoke(func() {
		r = tx.Base.QueryRow(ctx, sql, args...)
	})
	return
}

type Conn struct {
	Base   kpool.Conn
	events *SQLEvents
}

func (c *Conn) Events() *SQLEvents {
	return c.events
}

var _ kpool.Conn = &Conn{}

func (c *Conn) Begin(ctx context.Context) (kpool.Tx, error) {
	tx, err := c.Base.Begin(ctx)
	if w := WrapTx(tx, c); w != nil {
		return w, err
	}
	return nil, err
}
func (c *Conn) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (kpool.Tx, error) {
	tx, err := c.Base.BeginTx(ctx, txOptions)
	if w := WrapTx(tx, c); w != nil {
		return w, err
	}
	return nil, err
}
func (c *Conn) Release() {
	c.Base.Release()
}
func (c *Conn) Exec(ctx context.Context, sql string, arguments ...interface{}) (ctag pgconn.CommandTag, err error) {
	c.events.Query.Invoke(func() {
		ctag, err = c.Base.Exec(ctx, sql, arguments...)
	})
	return
}
func (c *Conn) Query(ctx context.Context, sql string, args ...interface{}) (rs pgx.Rows, err error) {
	c.events.Query.Invoke(func() {
		rs, err = c.Base.Query(ctx, sql, args...)
	})
	return
}
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...interface{}) (r pgx.Row) {
	c.events.Query.Invoke(func() {
		r = c.Base.QueryRow(ctx, sql, args...)
	})
	return
}
func (c *Conn) Ping(ctx context.Context) error {
	return c.Base.Ping(ctx)
}
