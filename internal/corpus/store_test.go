package corpus

import "testing"

func TestCosineSimilarityIdentical(t *testing.T) {
	v := []float32{1, 0, 0}
	if got := cosineSimilarity(v, v); got < 0.999 || got > 1.001 {
		t.Fatalf("expected ~1.0 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := cosineSimilarity(a, b); got != 0 {
		t.Fatalf("expected 0 for orthogonal vectors, got %f", got)
	}
}

func TestCosineSimilarityMismatchedLength(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Fatalf("expected 0 for mismatched lengths, got %f", got)
	}
}

func TestDecodeEmbeddingRoundTrip(t *testing.T) {
	raw := []byte{0, 0, 128, 63} // little-endian float32(1.0)
	got := decodeEmbedding(raw)
	if len(got) != 1 || got[0] != 1.0 {
		t.Fatalf("expected [1.0], got %v", got)
	}
}
