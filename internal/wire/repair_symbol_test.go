package wire

import (
	"bytes"

	"github.com/quic-go/fecwindow/internal/protocol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Symbol IDs", func() {
	It("writes 8 bytes big-endian", func() {
		b := AppendSymbolID(nil, 0x0102030405060708)
		Expect(b).To(Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
		id, l, err := ParseSymbolID(append(b, 0xff))
		Expect(err).ToNot(HaveOccurred())
		Expect(l).To(Equal(8))
		Expect(id).To(Equal(protocol.SymbolID(0x0102030405060708)))
	})

	It("errors on short buffers", func() {
		_, l, err := ParseSymbolID([]byte{1, 2, 3, 4, 5, 6, 7})
		Expect(err).To(MatchError(ErrBufferTooSmall))
		Expect(l).To(BeZero())
	})
})

var _ = Describe("RLC repair symbols", func() {
	It("writes the layout", func() {
		rs := &RLCRepairSymbol{Pivot: 3, Count: 2, Seed: 0xdeadbeef, Payload: []byte{0xa, 0xb}}
		b := rs.Append(nil)
		Expect(b).To(Equal([]byte{
			0, 0, 0, 0, 0, 0, 0, 3,
			0, 0, 0, 0, 0, 0, 0, 2,
			0xde, 0xad, 0xbe, 0xef,
			0xa, 0xb,
		}))
		Expect(rs.Length()).To(Equal(len(b)))
		Expect(rs.Last()).To(Equal(protocol.SymbolID(4)))
	})

	It("parses what it writes and copies the payload", func() {
		rs := &RLCRepairSymbol{Pivot: 1 << 40, Count: 7, Seed: 42, Payload: bytes.Repeat([]byte{0x5a}, 16)}
		b := rs.Append([]byte{0xff})
		parsed, l, err := ParseRLCRepairSymbol(append(b[1:], 1, 2, 3), 16)
		Expect(err).ToNot(HaveOccurred())
		Expect(l).To(Equal(protocol.RLCRepairHeaderLen + 16))
		Expect(parsed).To(Equal(rs))
		b[len(b)-1] = 0
		Expect(parsed.Payload[15]).To(Equal(byte(0x5a)))
	})

	It("errors on short buffers", func() {
		rs := &RLCRepairSymbol{Pivot: 1, Count: 1, Payload: make([]byte, 16)}
		b := rs.Append(nil)
		_, l, err := ParseRLCRepairSymbol(b[:len(b)-1], 16)
		Expect(err).To(MatchError(ErrBufferTooSmall))
		Expect(l).To(BeZero())
	})
})

var _ = Describe("VLC repair symbols", func() {
	It("writes the layout", func() {
		rs := &VLCRepairSymbol{Pivot: 3, Count: 2, SequenceNumber: 9, Payload: []byte{0xa}}
		b := rs.Append(nil)
		Expect(b).To(Equal([]byte{
			0, 0, 0, 0, 0, 0, 0, 3,
			0, 0, 0, 2,
			0, 0, 0, 0, 0, 0, 0, 9,
			0xa,
		}))
		Expect(rs.Length()).To(Equal(len(b)))
	})

	It("parses what it writes", func() {
		rs := &VLCRepairSymbol{Pivot: 100, Count: 255, SequenceNumber: 1 << 33, Payload: bytes.Repeat([]byte{1}, 32)}
		parsed, l, err := ParseVLCRepairSymbol(rs.Append(nil), 32)
		Expect(err).ToNot(HaveOccurred())
		Expect(l).To(Equal(protocol.VLCRepairHeaderLen + 32))
		Expect(parsed).To(Equal(rs))
		Expect(parsed.Last()).To(Equal(protocol.SymbolID(354)))
	})

	It("errors on short buffers", func() {
		_, _, err := ParseVLCRepairSymbol(make([]byte, 19), 0)
		Expect(err).To(MatchError(ErrBufferTooSmall))
	})

	It("has the same length as RLC repair symbols", func() {
		Expect(RepairSymbolLen(protocol.VLCFECScheme, 100)).To(Equal(RepairSymbolLen(protocol.RLCFECScheme, 100)))
		Expect(RepairSymbolLen(protocol.FECDisabled, 100)).To(BeZero())
	})
})
