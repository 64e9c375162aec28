package jpeg

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// canonicalCode is the (code, length) pair the standard canonical
// Huffman assignment gives a value, computed independently of
// HuffmanTree.Build so the test isn't just checking the code against
// itself.
type canonicalCode struct {
	code   uint32
	length int
}

func canonicalCodes(counts [16]uint8, values []uint8) map[uint8]canonicalCode {
	codes := make(map[uint8]canonicalCode, len(values))
	code := uint32(0)
	vi := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < int(counts[length-1]); i++ {
			codes[values[vi]] = canonicalCode{code: code, length: length}
			code++
			vi++
		}
		code <<= 1
	}
	return codes
}

func TestHuffmanTreeWalksEveryLeafToItsCanonicalCode(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name   string
		counts [16]uint8
		values []uint8
	}{
		{
			name:   "two one-bit codes",
			counts: [16]uint8{2},
			values: []uint8{5, 9},
		},
		{
			name:   "mixed depth",
			counts: [16]uint8{0, 2, 2},
			values: []uint8{0, 1, 2, 3},
		},
		{
			name:   "typical DC-ish shape",
			counts: [16]uint8{0, 1, 5, 1, 1, 1, 1, 1, 1},
			values: []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			tree := NewHuffmanTree()
			err := tree.Build(tc.counts, tc.values)
			c.Assert(err, qt.IsNil)

			want := canonicalCodes(tc.counts, tc.values)
			c.Assert(len(want), qt.Equals, len(tc.values))

			for value, cc := range want {
				var got uint8
				var done bool
				for i := cc.length - 1; i >= 0; i-- {
					bit := uint8((cc.code >> uint(i)) & 1)
					v, d, err := tree.Step(bit)
					c.Assert(err, qt.IsNil)
					got, done = v, d
					if i > 0 {
						c.Assert(done, qt.IsFalse)
					}
				}
				c.Assert(done, qt.IsTrue)
				c.Assert(got, qt.Equals, value)
				c.Assert(tree.cur, qt.Equals, int32(0))
			}
		})
	}
}

func TestHuffmanTreeBuildRejectsOverfullTable(t *testing.T) {
	tree := NewHuffmanTree()
	// Three codes of length 1 cannot exist (only two slots: "0", "1").
	counts := [16]uint8{3}
	values := []uint8{1, 2, 3}
	err := tree.Build(counts, values)
	if err == nil {
		t.Fatal("expected an error building an overfull table")
	}
	de, ok := AsDecodeError(err)
	if !ok || de.Kind != BadTable {
		t.Fatalf("expected BadTable, got %v", err)
	}
}

func TestHuffmanTreeBuildRejectsInsufficientValues(t *testing.T) {
	tree := NewHuffmanTree()
	counts := [16]uint8{2}
	values := []uint8{1} // declares 2 codes but only provides 1 value
	err := tree.Build(counts, values)
	if err == nil {
		t.Fatal("expected an error building a table with too few values")
	}
}

func TestHuffmanTreeStepRejectsUndefinedCode(t *testing.T) {
	tree := NewHuffmanTree()
	if err := tree.Build([16]uint8{1}, []uint8{7}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Only "0" is defined; walking "1" must fail.
	_, _, err := tree.Step(1)
	if err == nil {
		t.Fatal("expected an error walking an undefined edge")
	}
	de, ok := AsDecodeError(err)
	if !ok || de.Kind != BadEntropy {
		t.Fatalf("expected BadEntropy, got %v", err)
	}
}
