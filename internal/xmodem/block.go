package xmodem

// Protocol control bytes.
const (
	SOH byte = 0x01
	EOT byte = 0x04
	ACK byte = 0x06
	NAK byte = 0x15
	CAN byte = 0x18

	// Pad fills the tail of a short final block.
	Pad byte = 0x1A
)

// BlockSize is the payload length of every block.
const BlockSize = 128

// frameSize is SOH + seq + ^seq + payload + checksum.
const frameSize = BlockSize + 4

// Block is one padded payload with its sequence number.
type Block struct {
	Seq  byte
	Data [BlockSize]byte
}

// NewBlock copies up to BlockSize bytes of payload into a block and pads
// the remainder with Pad.
func NewBlock(seq byte, payload []byte) Block {
	b := Block{Seq: seq}
	n := copy(b.Data[:], payload)
	for i := n; i < BlockSize; i++ {
		b.Data[i] = Pad
	}
	return b
}

// Checksum returns the low eight bits of the sum of data.
func Checksum(data []byte) byte {
	var sum byte
	for _, c := range data {
		sum += c
	}
	return sum
}

// Checksum returns the checksum of the padded payload.
func (b *Block) Checksum() byte {
	return Checksum(b.Data[:])
}

// Frame returns the wire form of the block.
func (b *Block) Frame() []byte {
	frame := make([]byte, 0, frameSize)
	frame = append(frame, SOH, b.Seq, ^b.Seq)
	frame = append(frame, b.Data[:]...)
	return append(frame, b.Checksum())
}
