package compressors

// NoCompressionCompressor implements the Compressor interface without
// performing compression. Both directions return the input slice itself.
type NoCompressionCompressor struct{}

var _ Compressor = (*NoCompressionCompressor)(nil)

func (c *NoCompressionCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c *NoCompressionCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

func (c *NoCompressionCompressor) Type() Type {
	return None
}
