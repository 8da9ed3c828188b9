// Package sheets defines the outbound port for mirroring committed
// transactions into a spreadsheet.
package sheets

import (
	"context"

	"finbot/internal/core"
)

// TransactionWriter appends one transaction row and returns a reference to
// the written row.
type TransactionWriter interface {
	Append(ctx context.Context, userID string, side core.Side, tx core.Transaction) (rowRef string, err error)
}
