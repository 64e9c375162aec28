package jpeg

// channel describes one color component as declared in SOF0: its
// sampling factors, table indices, and running DC predictor. JPEG
// component ids are arbitrary 8-bit tags; the decoder resolves SOS
// references through a tag -> dense index map (Decoder.channelByID) rather
// than indexing an array by the raw tag.
type channel struct {
	id           uint8
	h, v         int // horizontal / vertical sampling factor, 1..4
	qTableIndex  int
	dcTableIndex int
	acTableIndex int
	dcPredictor  int32
}
