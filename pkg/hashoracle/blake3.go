package hashoracle

import "github.com/zeebo/blake3"

// Blake3 is the default fast-hash backend.
type Blake3 struct{}

func (Blake3) Hash(parts ...[]byte) [32]byte {
	h := blake3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (b Blake3) HashWithSalt(salt []byte, parts ...[]byte) [32]byte {
	all := make([][]byte, 0, len(parts)+1)
	all = append(all, salt)
	all = append(all, parts...)
	return b.Hash(all...)
}
