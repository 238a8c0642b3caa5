// Package hashing implements a self-contained SHA-256 (FIPS 180-4) over
// byte slices, plus the domain-separated Merkle leaf and node hashing
// primitives built on top of it.
//
// CONSTITUTIONAL RULE: SHA-256 only. This is a direct translation of the
// FIPS 180-4 specification, section 6.2.2, and deliberately avoids
// crypto/sha256 or any other platform primitive so that behaviour is
// bit-identical on every platform, compiler, and optimization level.
package hashing

// Digest is a SHA-256 output: exactly 32 bytes.
type Digest [32]byte

// Bytes returns d's contents as a plain slice.
func (d Digest) Bytes() []byte { return d[:] }

// LeafPrefix is the domain separation byte prepended to Merkle leaf hashes.
const LeafPrefix byte = 0x00

// NodePrefix is the domain separation byte prepended to Merkle node hashes.
const NodePrefix byte = 0x01

// FIPS 180-4 §4.2.2 — SHA-256 initial hash values (fractional parts of the
// square roots of the first 8 primes).
var h0 = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// FIPS 180-4 §4.2.2 — SHA-256 round constants (fractional parts of the
// cube roots of the first 64 primes).
var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5,
	0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3,
	0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc,
	0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7,
	0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13,
	0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3,
	0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5,
	0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208,
	0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func rotr(x uint32, n uint32) uint32 { return (x >> n) | (x << (32 - n)) }

func ch(x, y, z uint32) uint32  { return (x & y) ^ (^x & z) }
func maj(x, y, z uint32) uint32 { return (x & y) ^ (x & z) ^ (y & z) }

func bigSigma0(x uint32) uint32 { return rotr(x, 2) ^ rotr(x, 13) ^ rotr(x, 22) }
func bigSigma1(x uint32) uint32 { return rotr(x, 6) ^ rotr(x, 11) ^ rotr(x, 25) }
func smallSigma0(x uint32) uint32 { return rotr(x, 7) ^ rotr(x, 18) ^ (x >> 3) }
func smallSigma1(x uint32) uint32 { return rotr(x, 17) ^ rotr(x, 19) ^ (x >> 10) }

// compress processes one 512-bit (64-byte) message block, mutating state
// in place per FIPS 180-4 §6.2.2 steps 1-4.
func compress(state *[8]uint32, block *[64]byte) {
	var w [64]uint32
	for t := 0; t < 16; t++ {
		w[t] = uint32(block[t*4])<<24 | uint32(block[t*4+1])<<16 |
			uint32(block[t*4+2])<<8 | uint32(block[t*4+3])
	}
	for t := 16; t < 64; t++ {
		w[t] = smallSigma1(w[t-2]) + w[t-7] + smallSigma0(w[t-15]) + w[t-16]
	}

	a, b, c, d, e, f, g, hh := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for t := 0; t < 64; t++ {
		t1 := hh + bigSigma1(e) + ch(e, f, g) + k[t] + w[t]
		t2 := bigSigma0(a) + maj(a, b, c)
		hh = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += hh
}

// Sum256 computes SHA-256 over input. It implements FIPS 180-4 §5.1.1
// (padding) and §6.2.2 (hash computation): the padded message is fed
// through compress one 64-byte block at a time.
func Sum256(input []byte) Digest {
	state := h0

	bitLen := uint64(len(input)) * 8

	// Padding: append 0x80, then zero bytes until length ≡ 56 mod 64,
	// then the original bit length as a big-endian uint64.
	padded := make([]byte, 0, len(input)+72)
	padded = append(padded, input...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0x00)
	}
	var lenBytes [8]byte
	for i := 0; i < 8; i++ {
		lenBytes[7-i] = byte(bitLen >> (8 * i))
	}
	padded = append(padded, lenBytes[:]...)

	var block [64]byte
	for off := 0; off < len(padded); off += 64 {
		copy(block[:], padded[off:off+64])
		compress(&state, &block)
	}

	var digest Digest
	for i, word := range state {
		digest[i*4] = byte(word >> 24)
		digest[i*4+1] = byte(word >> 16)
		digest[i*4+2] = byte(word >> 8)
		digest[i*4+3] = byte(word)
	}
	return digest
}

// HashLeaf computes SHA256(0x00 || leafBytes), the Merkle leaf digest.
func HashLeaf(leafBytes []byte) Digest {
	buf := make([]byte, 0, 1+len(leafBytes))
	buf = append(buf, LeafPrefix)
	buf = append(buf, leafBytes...)
	return Sum256(buf)
}

// HashNode computes SHA256(0x01 || left || right), the Merkle internal
// node digest.
func HashNode(left, right Digest) Digest {
	buf := make([]byte, 0, 1+32+32)
	buf = append(buf, NodePrefix)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return Sum256(buf)
}

// EmptyTreeRoot returns hash_leaf(∅), which by construction equals
// SHA256(0x00). This identity is frozen and relied on by insertion
// witnesses.
func EmptyTreeRoot() Digest {
	return HashLeaf(nil)
}
