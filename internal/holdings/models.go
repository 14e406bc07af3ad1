package holdings

import (
	"github.com/tokenized/settlement/pkg/bitcoin"
	"github.com/tokenized/settlement/pkg/protocol"
)

// Holding is the balance of one asset held by one address.
type Holding struct {
	Address   bitcoin.RawAddress `json:"address"`
	Balance   protocol.Amount    `json:"balance"`
	CreatedAt int64              `json:"created_at"` // nanoseconds since epoch
	UpdatedAt int64              `json:"updated_at"`
}

// entry is a balance change applied within an Execute call.
type entry struct {
	asset  protocol.AssetCode
	from   *bitcoin.RawAddress // nil for issuance
	to     bitcoin.RawAddress
	amount protocol.Amount
}

// journal records the balance changes made by one Execute call so they can be reversed.
type journal struct {
	entries []entry
}
