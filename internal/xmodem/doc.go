// Package xmodem implements the sending side of the 128-byte checksum
// block-transfer protocol.
//
// A transfer waits for the receiver's initial NAK, then sends each block as
//
//	SOH seq ^seq payload[128] checksum
//
// where seq starts at 1 and wraps modulo 256, a short final block is padded
// with SUB (0x1A) and the checksum is the low eight bits of the sum of the
// 128 payload bytes. ACK advances to the next block, NAK repeats the current
// one and anything else aborts. EOT ends the transfer.
//
// Only checksum mode is supported; there is no CRC or 1K variant.
package xmodem
