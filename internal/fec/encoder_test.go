package fec

import (
	"bytes"
	"time"

	"github.com/quic-go/fecwindow/internal/fecerr"
	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/fecwindow/internal/wire"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Encoder", func() {
	const symbolSize = 16

	payload := func(b byte) []byte { return bytes.Repeat([]byte{b}, symbolSize) }

	for _, s := range []protocol.FECSchemeID{protocol.RLCFECScheme, protocol.VLCFECScheme} {
		scheme := s

		Context(scheme.String(), func() {
			var (
				enc Encoder
				now time.Time
			)

			BeforeEach(func() {
				now = time.Unix(1000, 0)
				var err error
				enc, err = NewEncoder(scheme, Params{
					SymbolSize:    symbolSize,
					MaxWindowSize: 4,
					Seed:          1,
					Now:           func() time.Time { return now },
				})
				Expect(err).ToNot(HaveOccurred())
				Expect(enc.Scheme()).To(Equal(scheme))
			})

			It("assigns consecutive ids", func() {
				for i := 0; i < 3; i++ {
					id, err := enc.ProtectData(payload(byte(i)))
					Expect(err).ToNot(HaveOccurred())
					Expect(id).To(Equal(protocol.SymbolID(i)))
				}
				next, err := enc.NextMetadata()
				Expect(err).ToNot(HaveOccurred())
				Expect(next).To(Equal(protocol.SymbolID(3)))
				Expect(enc.WindowSize()).To(Equal(3))
				first, ok := enc.FirstMetadata()
				Expect(ok).To(BeTrue())
				Expect(first).To(BeZero())
				last, ok := enc.LastMetadata()
				Expect(ok).To(BeTrue())
				Expect(last).To(Equal(protocol.SymbolID(2)))
			})

			It("copies payloads", func() {
				p := payload(1)
				_, err := enc.ProtectData(p)
				Expect(err).ToNot(HaveOccurred())
				p[0] = 42
				rs, err := enc.GenerateRepairSymbol()
				Expect(err).ToNot(HaveOccurred())
				// the protected payload is uniform, so is its multiple
				constant := rs[len(rs)-symbolSize:]
				Expect(constant[0]).To(Equal(constant[1]))
			})

			It("rejects payloads of the wrong size", func() {
				_, err := enc.ProtectData([]byte{1, 2, 3})
				Expect(err).To(MatchError(fecerr.ErrInternal))
				Expect(enc.WindowSize()).To(BeZero())
			})

			It("rejects symbols when the window is full", func() {
				for i := 0; i < 4; i++ {
					_, err := enc.ProtectData(payload(byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				_, err := enc.ProtectData(payload(4))
				Expect(err).To(MatchError(fecerr.ErrInternal))
				enc.RemoveUpTo(1)
				id, err := enc.ProtectData(payload(4))
				Expect(err).ToNot(HaveOccurred())
				Expect(id).To(Equal(protocol.SymbolID(4)))
			})

			It("has nothing to generate when the window is empty", func() {
				Expect(enc.CanGenerateRepairSymbol()).To(BeFalse())
				_, err := enc.GenerateRepairSymbol()
				Expect(err).To(MatchError(fecerr.ErrNoSymbolToGenerate))
				_, err = enc.GenerateRepairSymbolUpTo(10)
				Expect(err).To(MatchError(fecerr.ErrNoSymbolToGenerate))
				_, ok := enc.FirstMetadata()
				Expect(ok).To(BeFalse())
			})

			It("generates repair symbols over a sub-range", func() {
				for i := 0; i < 4; i++ {
					_, err := enc.ProtectData(payload(byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				enc.RemoveUpTo(1)
				rs, err := enc.GenerateRepairSymbolUpTo(2)
				Expect(err).ToNot(HaveOccurred())
				Expect(rs).To(HaveLen(enc.NextRepairSymbolSize()))
				Expect(rs[:8]).To(Equal(wire.AppendSymbolID(nil, 1)))
				if scheme == protocol.RLCFECScheme {
					parsed, _, err := wire.ParseRLCRepairSymbol(rs, symbolSize)
					Expect(err).ToNot(HaveOccurred())
					Expect(parsed.Count).To(Equal(uint64(2)))
				} else {
					parsed, _, err := wire.ParseVLCRepairSymbol(rs, symbolSize)
					Expect(err).ToNot(HaveOccurred())
					Expect(parsed.Count).To(Equal(uint32(2)))
				}
				// ids beyond the last protected one are clamped
				rs, err = enc.GenerateRepairSymbolUpTo(100)
				Expect(err).ToNot(HaveOccurred())
				Expect(rs).To(HaveLen(enc.NextRepairSymbolSize()))
				// ids below the window have nothing to protect
				_, err = enc.GenerateRepairSymbolUpTo(0)
				Expect(err).To(MatchError(fecerr.ErrNoSymbolToGenerate))
			})

			It("generates different repair symbols for the same window", func() {
				for i := 0; i < 3; i++ {
					_, err := enc.ProtectData(payload(byte(i + 1)))
					Expect(err).ToNot(HaveOccurred())
				}
				rs1, err := enc.GenerateRepairSymbol()
				Expect(err).ToNot(HaveOccurred())
				rs2, err := enc.GenerateRepairSymbol()
				Expect(err).ToNot(HaveOccurred())
				Expect(rs1).ToNot(Equal(rs2))
			})

			It("removes symbols monotonically", func() {
				for i := 0; i < 4; i++ {
					_, err := enc.ProtectData(payload(byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				enc.RemoveUpTo(2)
				Expect(enc.WindowSize()).To(Equal(2))
				enc.RemoveUpTo(2)
				Expect(enc.WindowSize()).To(Equal(2))
				enc.RemoveUpTo(1)
				Expect(enc.WindowSize()).To(Equal(2))
				first, _ := enc.FirstMetadata()
				Expect(first).To(Equal(protocol.SymbolID(2)))
				// can't remove symbols that were never protected
				enc.RemoveUpTo(100)
				Expect(enc.WindowSize()).To(BeZero())
				Expect(enc.CanGenerateRepairSymbol()).To(BeFalse())
				next, _ := enc.NextMetadata()
				Expect(next).To(Equal(protocol.SymbolID(4)))
			})

			It("remembers when symbols were protected", func() {
				_, err := enc.ProtectData(payload(0))
				Expect(err).ToNot(HaveOccurred())
				now = now.Add(time.Second)
				_, err = enc.ProtectData(payload(1))
				Expect(err).ToNot(HaveOccurred())
				t, ok := enc.ProtectedAt(1)
				Expect(ok).To(BeTrue())
				Expect(t).To(Equal(time.Unix(1001, 0)))
				_, ok = enc.ProtectedAt(2)
				Expect(ok).To(BeFalse())
				enc.RemoveUpTo(1)
				_, ok = enc.ProtectedAt(0)
				Expect(ok).To(BeFalse())
			})

			It("tracks acknowledgments", func() {
				for i := 0; i < 4; i++ {
					_, err := enc.ProtectData(payload(byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				_, ok := enc.LargestContiguouslyAcked()
				Expect(ok).To(BeFalse())
				enc.ReceivedSymbol(1)
				_, ok = enc.LargestContiguouslyAcked()
				Expect(ok).To(BeFalse())
				Expect(enc.ReceivedSymbolMetadata(wire.AppendSymbolID(nil, 0))).To(Succeed())
				largest, ok := enc.LargestContiguouslyAcked()
				Expect(ok).To(BeTrue())
				Expect(largest).To(Equal(protocol.SymbolID(1)))
				enc.HandleSymbolAck(&wire.SymbolAckFrame{AckRanges: []wire.AckRange{{Smallest: 3, Largest: 10}, {Smallest: 0, Largest: 1}}})
				largest, _ = enc.LargestContiguouslyAcked()
				Expect(largest).To(Equal(protocol.SymbolID(1)))
				enc.HandleSymbolAck(&wire.SymbolAckFrame{AckRanges: []wire.AckRange{{Smallest: 2, Largest: 2}}})
				largest, _ = enc.LargestContiguouslyAcked()
				Expect(largest).To(Equal(protocol.SymbolID(3)))
				// acknowledging doesn't free anything
				Expect(enc.WindowSize()).To(Equal(4))
			})

			It("rejects short metadata", func() {
				Expect(enc.ReceivedSymbolMetadata([]byte{0, 0, 0})).To(MatchError(fecerr.ErrBadMetadata))
			})

			It("starts at the configured id", func() {
				e, err := NewEncoder(scheme, Params{SymbolSize: symbolSize, MaxWindowSize: 4, FirstSymbolID: 1000})
				Expect(err).ToNot(HaveOccurred())
				id, err := e.ProtectData(payload(0))
				Expect(err).ToNot(HaveOccurred())
				Expect(id).To(Equal(protocol.SymbolID(1000)))
				_, ok := e.LargestContiguouslyAcked()
				Expect(ok).To(BeFalse())
			})
		})
	}

	It("generates the same RLC seeds for the same configuration", func() {
		newEnc := func(seed uint64) Encoder {
			e, err := NewEncoder(protocol.RLCFECScheme, Params{SymbolSize: symbolSize, MaxWindowSize: 4, Seed: seed})
			Expect(err).ToNot(HaveOccurred())
			_, err = e.ProtectData(payload(1))
			Expect(err).ToNot(HaveOccurred())
			return e
		}
		e1, e2, e3 := newEnc(5), newEnc(5), newEnc(6)
		rs1, err := e1.GenerateRepairSymbol()
		Expect(err).ToNot(HaveOccurred())
		rs2, err := e2.GenerateRepairSymbol()
		Expect(err).ToNot(HaveOccurred())
		rs3, err := e3.GenerateRepairSymbol()
		Expect(err).ToNot(HaveOccurred())
		Expect(rs1).To(Equal(rs2))
		Expect(rs1).ToNot(Equal(rs3))
	})

	It("uses consecutive VLC sequence numbers", func() {
		e, err := NewEncoder(protocol.VLCFECScheme, Params{SymbolSize: symbolSize, MaxWindowSize: 4})
		Expect(err).ToNot(HaveOccurred())
		_, err = e.ProtectData(payload(1))
		Expect(err).ToNot(HaveOccurred())
		for i := uint64(0); i < 3; i++ {
			b, err := e.GenerateRepairSymbol()
			Expect(err).ToNot(HaveOccurred())
			rs, _, err := wire.ParseVLCRepairSymbol(b, symbolSize)
			Expect(err).ToNot(HaveOccurred())
			Expect(rs.SequenceNumber).To(Equal(i))
		}
	})
})

var _ = Describe("Scheme dispatch", func() {
	It("refuses to create encoders and decoders without a scheme", func() {
		_, err := NewEncoder(protocol.FECDisabled, Params{SymbolSize: 1, MaxWindowSize: 1})
		Expect(err).To(MatchError(fecerr.ErrUnimplementedEncoder))
		_, err = NewDecoder(protocol.FECDisabled, Params{SymbolSize: 1, MaxWindowSize: 1})
		Expect(err).To(MatchError(fecerr.ErrUnimplementedDecoder))
		_, err = NewDecoder(42, Params{SymbolSize: 1, MaxWindowSize: 1})
		Expect(err).To(MatchError(fecerr.ErrUnimplementedDecoder))
	})

	It("validates the parameters", func() {
		_, err := NewEncoder(protocol.RLCFECScheme, Params{SymbolSize: 0, MaxWindowSize: 1})
		Expect(err).To(MatchError(ContainSubstring("invalid symbol size")))
		_, err = NewDecoder(protocol.RLCFECScheme, Params{SymbolSize: 1, MaxWindowSize: 0})
		Expect(err).To(MatchError(ContainSubstring("invalid window size")))
		_, err = NewDecoder(protocol.VLCFECScheme, Params{SymbolSize: 1, MaxWindowSize: 256})
		Expect(err).To(MatchError(fecerr.ErrInternal))
		_, err = NewDecoder(protocol.RLCFECScheme, Params{SymbolSize: 1, MaxWindowSize: 256})
		Expect(err).ToNot(HaveOccurred())
		_, err = NewEncoder(protocol.VLCFECScheme, Params{SymbolSize: 1, MaxWindowSize: 8, Polynomial: 0x11b})
		Expect(err).To(MatchError(ContainSubstring("not primitive")))
	})
})
