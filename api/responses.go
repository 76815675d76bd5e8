package api

import (
	"dao_voting/sdk"

	"github.com/CosmWasm/tinyjson/jwriter"
)

type balanceResponse struct {
	Owner   sdk.Address
	Balance uint64
}

func (b *balanceResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"owner":`)
	out.String(b.Owner.String())
	out.RawString(`,"balance":`)
	out.Uint64(b.Balance)
	out.RawByte('}')
}

type healthResponse struct {
	Program sdk.Address
	Reward  uint64
}

func (h *healthResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"status":"ok","program":`)
	out.String(h.Program.String())
	out.RawString(`,"reward_amount":`)
	out.Uint64(h.Reward)
	out.RawByte('}')
}
