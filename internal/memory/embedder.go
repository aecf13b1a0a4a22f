package memory

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder turns text into a fixed-dimension vector. Implementations must be
// deterministic: the same text always yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HashEmbedder is a feature-hashing embedder: tokens are hashed into a
// fixed-size bag-of-words vector which is then L2-normalized. It needs no
// model files or network access, which keeps the embedded backend fully
// self-contained; similarity degrades gracefully to lexical overlap.
type HashEmbedder struct {
	size int
}

// NewHashEmbedder creates an embedder with the given dimension.
func NewHashEmbedder(size int) *HashEmbedder {
	if size <= 0 {
		size = 256
	}
	return &HashEmbedder{size: size}
}

// Embed hashes the text's tokens into the vector. Empty text yields a zero
// vector.
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.size)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return vec, nil
	}

	for _, t := range tokens {
		h := fnv.New32a()
		h.Write([]byte(t))
		sum := h.Sum32()
		idx := int(sum % uint32(e.size))
		// Use one hash bit as the sign to spread mass around zero.
		if sum&0x80000000 != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// Size returns the embedding dimension.
func (e *HashEmbedder) Size() int { return e.size }

var _ Embedder = (*HashEmbedder)(nil)
