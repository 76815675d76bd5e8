package contract

import (
	"dao_voting/contract/dao"

	"github.com/google/uuid"
)

// newTxID tags a receipt so logs and responses can be lined up.
func newTxID() string {
	return uuid.NewString()
}

// receiptOf snapshots the committed event lines.
func receiptOf(ix *instruction) dao.Receipt {
	return dao.Receipt{TxID: ix.txID, Logs: append([]string(nil), ix.logs...)}
}
