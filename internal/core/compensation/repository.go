package compensation

import "context"

// Repository は報酬レコードの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, compensation *Compensation) (*Compensation, error)
	// FindLatestByEmployeeID は発効日が最も新しいレコードを返します。
	// 同日の場合は作成日時の新しいものが優先されます。
	FindLatestByEmployeeID(ctx context.Context, employeeID string) (*Compensation, error)
	// ListByEmployeeID は社員の報酬履歴を発効日の降順で返します。
	ListByEmployeeID(ctx context.Context, employeeID string) ([]*Compensation, error)
}
