package dao

import (
	"dao_voting/sdk"

	"github.com/CosmWasm/tinyjson/jwriter"
)

// Hand written tinyjson marshalers. Field names are snake_case and addresses
// go out in base58.

func writeAddress(out *jwriter.Writer, key string, a sdk.Address) {
	out.RawString(key)
	out.String(a.String())
}

func writeUint(out *jwriter.Writer, key string, v uint64) {
	out.RawString(key)
	out.Uint64(v)
}

func writeBool(out *jwriter.Writer, key string, v bool) {
	out.RawString(key)
	out.Bool(v)
}

// writeReceipt opens the object with the shared tx_id and logs fields.
func writeReceipt(out *jwriter.Writer, r *Receipt) {
	out.RawString(`{"tx_id":`)
	out.String(r.TxID)
	out.RawString(`,"logs":[`)
	for i, l := range r.Logs {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(l)
	}
	out.RawByte(']')
}

func (r Registry) writeFields(out *jwriter.Writer) {
	writeUint(out, `,"bump":`, uint64(r.Bump))
	writeUint(out, `,"proposal_count":`, r.ProposalCount)
	writeAddress(out, `,"authority":`, r.Authority)
	writeAddress(out, `,"mint":`, r.Mint)
	writeAddress(out, `,"vault":`, r.Vault)
}

func (p Proposal) writeFields(out *jwriter.Writer) {
	writeUint(out, `,"id":`, p.ID)
	writeAddress(out, `,"creator":`, p.Creator)
	out.RawString(`,"description":`)
	out.String(p.Description)
	writeUint(out, `,"votes_for":`, p.VotesFor)
	writeUint(out, `,"votes_against":`, p.VotesAgainst)
	writeBool(out, `,"active":`, p.Active)
	out.RawString(`,"state":`)
	out.String(p.State().String())
	writeUint(out, `,"bump":`, uint64(p.Bump))
}

func (b Ballot) writeFields(out *jwriter.Writer) {
	writeAddress(out, `,"proposal":`, b.Proposal)
	writeAddress(out, `,"voter":`, b.Voter)
	writeBool(out, `,"vote_for":`, b.VoteFor)
	writeUint(out, `,"reward":`, b.Reward)
	writeUint(out, `,"bump":`, uint64(b.Bump))
}

func (v *RegistryInfo) MarshalTinyJSON(out *jwriter.Writer) {
	writeAddress(out, `{"address":`, v.Address)
	v.Registry.writeFields(out)
	writeUint(out, `,"vault_balance":`, v.VaultBalance)
	out.RawByte('}')
}

func (v *ProposalInfo) MarshalTinyJSON(out *jwriter.Writer) {
	writeAddress(out, `{"address":`, v.Address)
	v.Proposal.writeFields(out)
	out.RawByte('}')
}

func (v *BallotInfo) MarshalTinyJSON(out *jwriter.Writer) {
	writeAddress(out, `{"address":`, v.Address)
	v.Ballot.writeFields(out)
	out.RawByte('}')
}

// ProposalList is a slice wrapper so lists marshal through tinyjson too.
type ProposalList []ProposalInfo

func (l ProposalList) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"proposals":[`)
	for i := range l {
		if i > 0 {
			out.RawByte(',')
		}
		l[i].MarshalTinyJSON(out)
	}
	out.RawString(`]}`)
}

func (r *InitReceipt) MarshalTinyJSON(out *jwriter.Writer) {
	writeReceipt(out, &r.Receipt)
	writeAddress(out, `,"registry":`, r.Registry)
	writeAddress(out, `,"authority":`, r.Authority)
	writeAddress(out, `,"mint":`, r.Mint)
	writeAddress(out, `,"vault":`, r.Vault)
	writeUint(out, `,"bump":`, uint64(r.Bump))
	out.RawByte('}')
}

func (r *ProposalReceipt) MarshalTinyJSON(out *jwriter.Writer) {
	writeReceipt(out, &r.Receipt)
	writeAddress(out, `,"proposal":`, r.Proposal)
	writeUint(out, `,"id":`, r.ID)
	writeAddress(out, `,"creator":`, r.Creator)
	out.RawString(`,"description":`)
	out.String(r.Description)
	out.RawByte('}')
}

func (r *VoteReceipt) MarshalTinyJSON(out *jwriter.Writer) {
	writeReceipt(out, &r.Receipt)
	writeAddress(out, `,"proposal":`, r.Proposal)
	writeUint(out, `,"proposal_id":`, r.ProposalID)
	writeAddress(out, `,"voter":`, r.Voter)
	writeAddress(out, `,"ballot":`, r.Ballot)
	writeAddress(out, `,"voter_account":`, r.VoterAccount)
	writeBool(out, `,"vote_for":`, r.VoteFor)
	writeUint(out, `,"reward":`, r.Reward)
	writeUint(out, `,"votes_for":`, r.VotesFor)
	writeUint(out, `,"votes_against":`, r.VotesAgainst)
	out.RawByte('}')
}

func (r *CloseReceipt) MarshalTinyJSON(out *jwriter.Writer) {
	writeReceipt(out, &r.Receipt)
	writeAddress(out, `,"proposal":`, r.Proposal)
	writeUint(out, `,"proposal_id":`, r.ProposalID)
	writeUint(out, `,"votes_for":`, r.VotesFor)
	writeUint(out, `,"votes_against":`, r.VotesAgainst)
	out.RawByte('}')
}

func (r *FundReceipt) MarshalTinyJSON(out *jwriter.Writer) {
	writeReceipt(out, &r.Receipt)
	writeAddress(out, `,"funder":`, r.Funder)
	writeAddress(out, `,"vault":`, r.Vault)
	writeUint(out, `,"amount":`, r.Amount)
	writeUint(out, `,"vault_balance":`, r.VaultBalance)
	out.RawByte('}')
}
