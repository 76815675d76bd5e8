package sdk

import (
	"os"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/cometbft/cometbft/crypto/ed25519"
	"github.com/decred/base58"
	"github.com/pkg/errors"
)

// ErrBadSignature is what transports return when a payload was not signed by the claimed key.
var ErrBadSignature = errors.New("signature verification failed")

// Keypair is an ed25519 identity. The address is the public key.
type Keypair struct {
	priv ed25519.PrivKey
}

// GenerateKeypair creates a fresh random identity.
func GenerateKeypair() *Keypair {
	return &Keypair{priv: ed25519.GenPrivKey()}
}

// KeypairFromSecret rebuilds a keypair from a 32 byte seed, handy for fixtures.
func KeypairFromSecret(secret []byte) *Keypair {
	return &Keypair{priv: ed25519.GenPrivKeyFromSecret(secret)}
}

// Address returns the public key as an Address.
func (k *Keypair) Address() Address {
	var a Address
	copy(a[:], k.priv.PubKey().Bytes())
	return a
}

// Signer wraps the keypair address as a verified signer for in-process calls.
func (k *Keypair) Signer() Signer {
	return NewSigner(k.Address())
}

// Sign signs msg with the private key.
func (k *Keypair) Sign(msg []byte) ([]byte, error) {
	return k.priv.Sign(msg)
}

// VerifySignature checks that sig over msg was produced by the key behind addr.
func VerifySignature(addr Address, msg, sig []byte) error {
	pub := ed25519.PubKey(addr.Bytes())
	if !pub.VerifySignature(msg, sig) {
		return ErrBadSignature
	}
	return nil
}

// keyFile is the on-disk layout: {"address":"<base58>","secret":"<base58>"}.
type keyFile struct {
	Address string
	Secret  string
}

func (f *keyFile) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"address":`)
	out.String(f.Address)
	out.RawString(`,"secret":`)
	out.String(f.Secret)
	out.RawByte('}')
}

func (f *keyFile) UnmarshalTinyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		switch key {
		case "address":
			f.Address = in.String()
		case "secret":
			f.Secret = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// Save writes the keypair to path with owner-only permissions.
func (k *Keypair) Save(path string) error {
	data, err := tinyjson.Marshal(&keyFile{
		Address: k.Address().String(),
		Secret:  base58.Encode(k.priv),
	})
	if err != nil {
		return errors.Wrap(err, "encode key file")
	}
	return errors.Wrap(os.WriteFile(path, data, 0600), "write key file")
}

// LoadKeypair reads a file written by Save and checks the stored address still matches.
func LoadKeypair(path string) (*Keypair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	var f keyFile
	if err := tinyjson.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decode key file")
	}
	secret := base58.Decode(f.Secret)
	if len(secret) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("key file %s: bad secret length %d", path, len(secret))
	}
	k := &Keypair{priv: ed25519.PrivKey(secret)}
	if f.Address != "" && f.Address != k.Address().String() {
		return nil, errors.Errorf("key file %s: address does not match secret", path)
	}
	return k, nil
}
