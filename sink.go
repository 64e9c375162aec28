package jpeg

// ImageSink is the external collaborator that receives the decoded
// image. It is a simple width x height pixel grid with a comment field
// and a pixel setter; the decoder never reads it back.
type ImageSink interface {
	// SetSize is called once, from SOF0.
	SetSize(width, height int)
	// SetComment is called once per COM segment, in encounter order.
	SetComment(comment []byte)
	// SetPixel is called once per in-bounds output pixel.
	SetPixel(y, x int, rgb [3]uint8)
}
