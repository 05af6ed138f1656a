package fecwindow

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quic-go/fecwindow/logging"
)

var _ = Describe("Decoder", func() {
	const symbolSize = 16

	It("rejects unknown schemes", func() {
		_, err := NewDecoder(0, &Config{SymbolSize: symbolSize})
		Expect(err).To(MatchError(ErrUnimplementedDecoder))
	})

	It("rejects invalid configs", func() {
		_, err := NewDecoder(FECSchemeVLC, &Config{SymbolSize: 0})
		Expect(err).To(MatchError(ErrInternal))
	})

	for _, scheme := range []FECSchemeID{FECSchemeRLC, FECSchemeVLC} {
		scheme := scheme

		Context(scheme.String(), func() {
			var (
				enc *Encoder
				dec *Decoder
			)

			newPair := func(windowSize int) {
				var err error
				enc, err = NewEncoder(scheme, &Config{SymbolSize: symbolSize, MaxWindowSize: windowSize, Seed: 7})
				Expect(err).ToNot(HaveOccurred())
				dec, err = NewDecoder(scheme, &Config{SymbolSize: symbolSize, MaxWindowSize: windowSize})
				Expect(err).ToNot(HaveOccurred())
				Expect(dec.Scheme()).To(Equal(scheme))
				Expect(dec.SymbolSize()).To(Equal(symbolSize))
			}

			BeforeEach(func() { newPair(4) })

			It("returns received source symbols", func() {
				p := payload(symbolSize, 42)
				id, err := enc.ProtectData(p)
				Expect(err).ToNot(HaveOccurred())
				symbols, err := dec.ReceiveSourceSymbol(id, p)
				Expect(err).ToNot(HaveOccurred())
				Expect(symbols).To(Equal([]SourceSymbol{{ID: id, Payload: p}}))
			})

			It("receives serialized source symbols", func() {
				p := payload(symbolSize, 1)
				symbols, err := dec.ReceiveSerializedSourceSymbol(AppendSymbolID(nil, 3), p)
				Expect(err).ToNot(HaveOccurred())
				Expect(symbols).To(HaveLen(1))
				Expect(symbols[0].ID).To(BeEquivalentTo(3))
				_, err = dec.ReceiveSerializedSourceSymbol([]byte{1, 2}, p)
				Expect(err).To(MatchError(ErrBadMetadata))
			})

			It("rejects duplicate source symbols", func() {
				p := payload(symbolSize, 1)
				_, err := dec.ReceiveSourceSymbol(0, p)
				Expect(err).ToNot(HaveOccurred())
				_, err = dec.ReceiveSourceSymbol(0, p)
				Expect(err).To(MatchError(ErrUnusedSourceSymbol))
				v, ok := dec.LargestContiguouslyReceived()
				Expect(ok).To(BeTrue())
				Expect(v).To(BeZero())
			})

			It("rejects source symbols of the wrong size", func() {
				_, err := dec.ReceiveSourceSymbol(0, make([]byte, symbolSize+1))
				Expect(err).To(MatchError(ErrInternal))
				_, _, ok := dec.Bounds()
				Expect(ok).To(BeFalse())
			})

			It("recovers two lost symbols from two repair symbols", func() {
				payloads := make([][]byte, 4)
				for i := range payloads {
					payloads[i] = payload(symbolSize, byte(0x10*i))
					_, err := enc.ProtectData(payloads[i])
					Expect(err).ToNot(HaveOccurred())
				}
				_, err := dec.ReceiveSourceSymbol(1, payloads[1])
				Expect(err).ToNot(HaveOccurred())
				_, err = dec.ReceiveSourceSymbol(3, payloads[3])
				Expect(err).ToNot(HaveOccurred())

				rs, err := enc.GenerateRepairSymbolUpTo(3)
				Expect(err).ToNot(HaveOccurred())
				n, recovered, err := dec.ReceiveRepairSymbol(rs)
				Expect(err).ToNot(HaveOccurred())
				Expect(n).To(Equal(len(rs)))
				Expect(recovered).To(BeEmpty())
				missing, ok := dec.MissingDegrees()
				Expect(ok).To(BeTrue())
				Expect(missing).To(BeEquivalentTo(1))
				_, ok = dec.LargestContiguouslyReceived()
				Expect(ok).To(BeFalse())

				recovered = receiveRepair(enc, dec, 2)
				Expect(recovered).To(ConsistOf(
					SourceSymbol{ID: 0, Payload: payloads[0]},
					SourceSymbol{ID: 2, Payload: payloads[2]},
				))
				largest, ok := dec.LargestContiguouslyReceived()
				Expect(ok).To(BeTrue())
				Expect(largest).To(BeEquivalentTo(3))
				missing, _ = dec.MissingDegrees()
				Expect(missing).To(BeZero())
			})

			It("rejects redundant repair symbols", func() {
				for i := 0; i < 2; i++ {
					p := payload(symbolSize, byte(i))
					_, err := enc.ProtectData(p)
					Expect(err).ToNot(HaveOccurred())
					_, err = dec.ReceiveSourceSymbol(SymbolID(i), p)
					Expect(err).ToNot(HaveOccurred())
				}
				rs, err := enc.GenerateRepairSymbol()
				Expect(err).ToNot(HaveOccurred())
				n, _, err := dec.ReceiveRepairSymbol(rs)
				Expect(err).To(MatchError(ErrUnusedRepairSymbol))
				Expect(n).To(Equal(len(rs)))
			})

			It("doesn't consume short repair symbols", func() {
				_, err := enc.ProtectData(payload(symbolSize, 0))
				Expect(err).ToNot(HaveOccurred())
				rs, err := enc.GenerateRepairSymbol()
				Expect(err).ToNot(HaveOccurred())
				n, read, err := dec.ReadRepairSymbol(append(rs, 0xff))
				Expect(err).ToNot(HaveOccurred())
				Expect(n).To(Equal(len(rs)))
				Expect(read).To(Equal(rs))
				n, read, err = dec.ReadRepairSymbol(rs[:len(rs)-1])
				Expect(err).To(MatchError(ErrBufferTooSmall))
				Expect(n).To(BeZero())
				Expect(read).To(BeNil())
				n, _, err = dec.ReceiveRepairSymbol(rs[:len(rs)-1])
				Expect(err).To(MatchError(ErrBufferTooSmall))
				Expect(n).To(BeZero())
				_, _, ok := dec.Bounds()
				Expect(ok).To(BeFalse())
			})

			It("reads source symbol metadata", func() {
				n, id, err := dec.ReadSourceSymbolMetadata(AppendSymbolID(nil, 0x0102030405060708))
				Expect(err).ToNot(HaveOccurred())
				Expect(n).To(Equal(SymbolIDLen))
				Expect(id).To(BeEquivalentTo(0x0102030405060708))
				_, _, err = dec.ReadSourceSymbolMetadata(make([]byte, 7))
				Expect(err).To(MatchError(ErrBufferTooSmall))
			})

			It("removes symbols monotonically", func() {
				for i := 0; i < 4; i++ {
					_, err := dec.ReceiveSourceSymbol(SymbolID(i), payload(symbolSize, byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				Expect(dec.RemoveUpTo(2)).To(BeEquivalentTo(2))
				Expect(dec.RemoveUpTo(2)).To(BeEquivalentTo(2))
				Expect(dec.RemoveUpTo(1)).To(BeEquivalentTo(2))
				lo, hi, ok := dec.Bounds()
				Expect(ok).To(BeTrue())
				Expect(lo).To(BeEquivalentTo(2))
				Expect(hi).To(BeEquivalentTo(3))
				_, err := dec.ReceiveSourceSymbol(1, payload(symbolSize, 1))
				Expect(err).To(MatchError(ErrUnusedSourceSymbol))
			})

			It("acknowledges known symbols", func() {
				Expect(dec.SymbolAck()).To(BeNil())
				for _, id := range []SymbolID{0, 1, 3} {
					_, err := dec.ReceiveSourceSymbol(id, payload(symbolSize, byte(id)))
					Expect(err).ToNot(HaveOccurred())
				}
				f := dec.SymbolAck()
				Expect(f).ToNot(BeNil())
				Expect(f.AckRanges).To(Equal([]AckRange{{Smallest: 3, Largest: 3}, {Smallest: 0, Largest: 1}}))
			})

			It("starts the window at the configured first id", func() {
				config := &Config{SymbolSize: symbolSize, MaxWindowSize: 4, FirstSymbolID: 100, Seed: 7}
				var err error
				enc, err = NewEncoder(scheme, config)
				Expect(err).ToNot(HaveOccurred())
				dec, err = NewDecoder(scheme, config.Clone())
				Expect(err).ToNot(HaveOccurred())
				_, _, ok := dec.Bounds()
				Expect(ok).To(BeFalse())

				for i := 0; i < 4; i++ {
					_, err := enc.ProtectData(payload(symbolSize, byte(i)))
					Expect(err).ToNot(HaveOccurred())
				}
				for _, id := range []SymbolID{100, 101} {
					_, err := dec.ReceiveSourceSymbol(id, payload(symbolSize, byte(id-100)))
					Expect(err).ToNot(HaveOccurred())
				}
				lo, hi, ok := dec.Bounds()
				Expect(ok).To(BeTrue())
				Expect(lo).To(BeEquivalentTo(100))
				Expect(hi).To(BeEquivalentTo(101))
				largest, ok := dec.LargestContiguouslyReceived()
				Expect(ok).To(BeTrue())
				Expect(largest).To(BeEquivalentTo(101))
				missing, ok := dec.MissingDegrees()
				Expect(ok).To(BeTrue())
				Expect(missing).To(BeZero())
				_, err = dec.ReceiveSourceSymbol(99, payload(symbolSize, 0))
				Expect(err).To(MatchError(ErrUnusedSourceSymbol))

				_, err = dec.ReceiveSourceSymbol(103, payload(symbolSize, 3))
				Expect(err).ToNot(HaveOccurred())
				recovered := receiveRepair(enc, dec, 1)
				Expect(recovered).To(Equal([]SourceSymbol{{ID: 102, Payload: payload(symbolSize, 2)}}))
				largest, ok = dec.LargestContiguouslyReceived()
				Expect(ok).To(BeTrue())
				Expect(largest).To(BeEquivalentTo(103))
			})

			It("refuses to encode acknowledgements of ids beyond the varint range", func() {
				_, err := dec.ReceiveSourceSymbol(1<<62, payload(symbolSize, 1))
				Expect(err).ToNot(HaveOccurred())
				f := dec.SymbolAck()
				Expect(f).ToNot(BeNil())
				Expect(f.LargestAcked()).To(BeEquivalentTo(uint64(1 << 62)))
				_, err = f.Append(nil)
				Expect(err).To(MatchError(ContainSubstring("symbol id exceeds")))
			})

			It("recovers random erasures", func() {
				newPair(32)
				r := rand.New(rand.NewPCG(uint64(scheme), 42))
				payloads := make(map[SymbolID][]byte)
				var lost []SymbolID
				for i := 0; i < 32; i++ {
					p := make([]byte, symbolSize)
					for j := range p {
						p[j] = byte(r.Uint32())
					}
					id, err := enc.ProtectData(p)
					Expect(err).ToNot(HaveOccurred())
					payloads[id] = p
					if r.IntN(4) == 0 {
						lost = append(lost, id)
						continue
					}
					_, err = dec.ReceiveSourceSymbol(id, p)
					Expect(err).ToNot(HaveOccurred())
				}
				if len(lost) == 0 {
					Skip("no symbol lost")
				}
				recovered := receiveRepair(enc, dec, len(lost))
				Expect(recovered).To(HaveLen(len(lost)))
				for _, s := range recovered {
					Expect(s.Payload).To(Equal(payloads[s.ID]))
				}
			})
		})
	}

	Context("VLC", func() {
		It("decodes a stream that doesn't start at zero", func() {
			enc, err := NewEncoder(FECSchemeVLC, &Config{SymbolSize: symbolSize, FirstSymbolID: 1 << 40})
			Expect(err).ToNot(HaveOccurred())
			dec, err := NewDecoder(FECSchemeVLC, &Config{SymbolSize: symbolSize})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.SetFirstSymbolID(1 << 40)).To(Succeed())

			var payloads [][]byte
			for i := 0; i < 3; i++ {
				p := payload(symbolSize, byte(i))
				payloads = append(payloads, p)
				_, err := enc.ProtectData(p)
				Expect(err).ToNot(HaveOccurred())
			}
			_, err = dec.ReceiveSourceSymbol(1<<40, payloads[0])
			Expect(err).ToNot(HaveOccurred())
			rs, err := enc.GenerateRepairSymbol()
			Expect(err).ToNot(HaveOccurred())
			_, _, err = dec.ReceiveRepairSymbol(rs)
			Expect(err).ToNot(HaveOccurred())
			_, err = dec.ReceiveSourceSymbol(1<<40+2, payloads[2])
			Expect(err).ToNot(HaveOccurred())
			largest, ok := dec.LargestContiguouslyReceived()
			Expect(ok).To(BeTrue())
			Expect(largest).To(BeEquivalentTo(1<<40 + 2))
		})

		It("drops expired repair symbols", func() {
			now := time.Unix(1000, 0)
			dec, err := NewDecoder(FECSchemeVLC, &Config{
				SymbolSize: symbolSize,
				Now:        func() time.Time { return now },
			})
			Expect(err).ToNot(HaveOccurred())
			enc, err := NewEncoder(FECSchemeVLC, &Config{SymbolSize: symbolSize})
			Expect(err).ToNot(HaveOccurred())
			for i := 0; i < 2; i++ {
				_, err := enc.ProtectData(payload(symbolSize, byte(i)))
				Expect(err).ToNot(HaveOccurred())
			}
			rs, err := enc.GenerateRepairSymbol()
			Expect(err).ToNot(HaveOccurred())
			_, _, err = dec.ReceiveRepairSymbol(rs)
			Expect(err).ToNot(HaveOccurred())
			missing, _ := dec.MissingDegrees()
			Expect(missing).To(BeEquivalentTo(1))

			bound, err := dec.RemoveUpToWithExpiry(0, now.Add(time.Second))
			Expect(err).ToNot(HaveOccurred())
			Expect(bound).To(BeZero())
			missing, _ = dec.MissingDegrees()
			Expect(missing).To(BeEquivalentTo(2))
		})
	})

	Context("RLC", func() {
		It("doesn't support VLC-only operations", func() {
			dec, err := NewDecoder(FECSchemeRLC, &Config{SymbolSize: symbolSize})
			Expect(err).ToNot(HaveOccurred())
			Expect(dec.SetFirstSymbolID(1)).To(MatchError(ErrUnimplementedDecoder))
			_, err = dec.RemoveUpToWithExpiry(1, time.Now())
			Expect(err).To(MatchError(ErrUnimplementedDecoder))
		})
	})

	Context("tracing", func() {
		var (
			dec       *Decoder
			enc       *Encoder
			received  []SymbolID
			repairs   []int
			recovered []SymbolID
			dropped   []logging.SymbolKind
			logs      *bytes.Buffer
		)

		BeforeEach(func() {
			received, repairs, recovered, dropped = nil, nil, nil, nil
			logs = &bytes.Buffer{}
			var err error
			enc, err = NewEncoder(FECSchemeVLC, &Config{SymbolSize: symbolSize})
			Expect(err).ToNot(HaveOccurred())
			dec, err = NewDecoder(FECSchemeVLC, &Config{
				SymbolSize: symbolSize,
				Logger:     slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
				Tracer: func(role logging.Role, _ FECSchemeID) *logging.CodecTracer {
					Expect(role).To(Equal(logging.RoleDecoder))
					return &logging.CodecTracer{
						ReceivedSourceSymbol: func(id SymbolID) { received = append(received, id) },
						ReceivedRepairSymbol: func(l int) { repairs = append(repairs, l) },
						RecoveredSymbol:      func(id SymbolID) { recovered = append(recovered, id) },
						DroppedSymbol: func(kind logging.SymbolKind, code logging.ErrorCode) {
							Expect(code.Category()).To(Equal(CategoryNoOp))
							dropped = append(dropped, kind)
						},
					}
				},
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("traces received and recovered symbols", func() {
			for i := 0; i < 3; i++ {
				_, err := enc.ProtectData(payload(symbolSize, byte(i)))
				Expect(err).ToNot(HaveOccurred())
			}
			rs, err := enc.GenerateRepairSymbol()
			Expect(err).ToNot(HaveOccurred())
			_, _, err = dec.ReceiveRepairSymbol(rs)
			Expect(err).ToNot(HaveOccurred())
			_, err = dec.ReceiveSourceSymbol(0, payload(symbolSize, 0))
			Expect(err).ToNot(HaveOccurred())
			_, err = dec.ReceiveSourceSymbol(2, payload(symbolSize, 2))
			Expect(err).ToNot(HaveOccurred())
			_, err = dec.ReceiveSourceSymbol(2, payload(symbolSize, 2))
			Expect(err).To(MatchError(ErrUnusedSourceSymbol))

			Expect(received).To(Equal([]SymbolID{0, 2}))
			Expect(repairs).To(Equal([]int{len(rs)}))
			Expect(recovered).To(Equal([]SymbolID{1}))
			Expect(dropped).To(Equal([]logging.SymbolKind{logging.SymbolKindSource}))
			Expect(logs.String()).To(ContainSubstring("level=DEBUG"))
			Expect(logs.String()).To(ContainSubstring("receive_source_symbol failed"))
		})
	})
})
