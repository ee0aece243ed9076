package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrReadWriteInsideReadOnly は読み取り専用トランザクションの内側で書き込みを始めようとした場合のエラーです。
var ErrReadWriteInsideReadOnly = errors.New("postgres: read-write transaction requested inside read-only transaction")

// txBeginner は pgxpool.Pool と pgxmock が満たすトランザクション開始インターフェースです。
type txBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// snapshotOptions は報告構造の走査や報酬と社員の組み立てに使う読み取り専用の設定です。
// REPEATABLE READ なので、走査の途中で他の登録がコミットされても件数は変わりません。
var snapshotOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// writeOptions は社員登録や報酬登録に使う設定です。
var writeOptions = pgx.TxOptions{AccessMode: pgx.ReadWrite}

// activeTx はコンテキストに格納する実行中のトランザクションです。
type activeTx struct {
	tx       pgx.Tx
	readOnly bool
}

type activeTxKey struct{}

// TransactionManager はサービス層のユースケース単位でトランザクションを張ります。
type TransactionManager struct {
	pool txBeginner
}

// NewTransactionManager は TransactionManager を生成します。pool が nil なら nil を返し、各サービスは素の実行に戻ります。
func NewTransactionManager(pool txBeginner) *TransactionManager {
	if pool == nil {
		return nil
	}
	return &TransactionManager{pool: pool}
}

// WithinReadOnly は fn 内の読み取りを一つのスナップショットに揃えます。
// 既に外側のトランザクションがあれば、読み書きかどうかに関わらずそれを使います。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, snapshotOptions, fn)
}

// WithinReadWrite は fn の書き込みをまとめてコミットします。
// 報酬登録で新しい社員を作る場合、社員行と報酬行はどちらか片方だけ残ることがありません。
// コミットが終わるまで戻らないので、nil が返った時点で登録は後続の GET から参照できます。
// ハンドラはこの戻りを待ってから 201 を返します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, writeOptions, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	readOnly := opts.AccessMode == pgx.ReadOnly
	if outer, ok := activeFromContext(ctx); ok {
		if outer.readOnly && !readOnly {
			return ErrReadWriteInsideReadOnly
		}
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(contextWithTx(ctx, tx, readOnly)); err != nil {
		return rollback(ctx, tx, err)
	}
	return commit(ctx, tx)
}

// rollback は fn が失敗したトランザクションを破棄し、fn のエラーを優先して返します。
func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Join(cause, fmt.Errorf("postgres: rollback: %w", err))
	}
	return cause
}

// commit はトランザクションを確定します。失敗時は接続をプールへ戻す前にロールバックを試みます。
func commit(ctx context.Context, tx pgx.Tx) error {
	err := tx.Commit(ctx)
	if err == nil {
		return nil
	}

	commitErr := fmt.Errorf("postgres: commit: %w", err)
	if errors.Is(err, pgx.ErrTxClosed) {
		return commitErr
	}
	if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		return errors.Join(commitErr, fmt.Errorf("postgres: rollback after commit failure: %w", rbErr))
	}
	return commitErr
}

func contextWithTx(ctx context.Context, tx pgx.Tx, readOnly bool) context.Context {
	return context.WithValue(ctx, activeTxKey{}, activeTx{tx: tx, readOnly: readOnly})
}

func activeFromContext(ctx context.Context) (activeTx, bool) {
	if ctx == nil {
		return activeTx{}, false
	}
	active, ok := ctx.Value(activeTxKey{}).(activeTx)
	return active, ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	active, ok := activeFromContext(ctx)
	return active.tx, ok
}

// QueryerFromContext はユースケースが張ったトランザクションがあればそれを返し、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer はリポジトリが使う pgx.Tx と pgxpool.Pool の共通部分です。
// CopyFrom は直属の部下をまとめて登録する際に使います。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}
