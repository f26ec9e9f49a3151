package hashoracle

import "golang.org/x/crypto/sha3"

// SHA3 is the wide-digest fallback backend: SHA3-512, truncated to the
// leading 32 bytes.
type SHA3 struct{}

func (SHA3) Hash(parts ...[]byte) [32]byte {
	h := sha3.New512()
	for _, p := range parts {
		h.Write(p)
	}
	sum := h.Sum(nil)
	var out [32]byte
	copy(out[:], sum[:32])
	return out
}

func (s SHA3) HashWithSalt(salt []byte, parts ...[]byte) [32]byte {
	all := make([][]byte, 0, len(parts)+1)
	all = append(all, salt)
	all = append(all, parts...)
	return s.Hash(all...)
}
