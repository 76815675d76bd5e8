package store

import (
	"dao_voting/sdk"

	"github.com/pkg/errors"
)

// EncodeRecord packs owner|space|data for key/value backends.
func EncodeRecord(rec *sdk.Record) []byte {
	w := sdk.NewWriter()
	w.WriteAddress(rec.Owner)
	w.WriteUint32(rec.Space)
	w.WriteRaw(rec.Data)
	return w.Bytes()
}

// DecodeRecord is the inverse of EncodeRecord.
func DecodeRecord(raw []byte) (*sdk.Record, error) {
	r := sdk.NewReader(raw)
	owner, err := r.ReadAddress()
	if err != nil {
		return nil, errors.Wrap(err, "record owner")
	}
	space, err := r.ReadUint32()
	if err != nil {
		return nil, errors.Wrap(err, "record space")
	}
	data, err := r.ReadRaw(len(raw) - sdk.AddressLength - 4)
	if err != nil {
		return nil, errors.Wrap(err, "record data")
	}
	return &sdk.Record{Owner: owner, Space: space, Data: data}, nil
}
