package wire

import (
	"io"

	"github.com/quic-go/fecwindow/internal/protocol"
	"github.com/quic-go/quic-go/quicvarint"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frame parsing", func() {
	const symbolSize = 4

	var parser *FrameParser

	BeforeEach(func() {
		parser = NewFrameParser(protocol.VLCFECScheme, symbolSize)
	})

	It("parses consecutive frames", func() {
		var frames []Frame
		frames = append(frames,
			&WindowFrame{FirstID: 1000, Size: 64},
			&SourceSymbolFrame{ID: 1000, Payload: []byte{1, 2, 3, 4}},
			&RepairFrame{Data: (&VLCRepairSymbol{Pivot: 1000, Count: 1, SequenceNumber: 1, Payload: []byte{1, 2, 3, 4}}).Append(nil)},
		)
		var b []byte
		for _, f := range frames {
			var err error
			b, err = f.Append(b)
			Expect(err).ToNot(HaveOccurred())
		}
		for _, f := range frames {
			l, frame, err := parser.ParseNext(b)
			Expect(err).ToNot(HaveOccurred())
			Expect(l).To(Equal(f.Length()))
			Expect(frame).To(Equal(f))
			b = b[l:]
		}
		_, _, err := parser.ParseNext(b)
		Expect(err).To(Equal(io.EOF))
	})

	It("errors on truncated source symbols", func() {
		b, err := (&SourceSymbolFrame{ID: 1, Payload: []byte{1, 2, 3, 4}}).Append(nil)
		Expect(err).ToNot(HaveOccurred())
		_, _, err = parser.ParseNext(b[:len(b)-1])
		Expect(err).To(MatchError(io.EOF))
	})

	It("errors on truncated repair symbols", func() {
		b, err := (&RepairFrame{Data: make([]byte, 23)}).Append(nil)
		Expect(err).ToNot(HaveOccurred())
		_, _, err = parser.ParseNext(b)
		Expect(err).To(MatchError(io.EOF))
	})

	It("rejects repair frames on streams without FEC", func() {
		parser = NewFrameParser(protocol.FECDisabled, symbolSize)
		b, err := (&RepairFrame{Data: make([]byte, 24)}).Append(nil)
		Expect(err).ToNot(HaveOccurred())
		_, _, err = parser.ParseNext(b)
		Expect(err).To(MatchError(ContainSubstring("without FEC")))
	})

	It("rejects unknown frames", func() {
		_, _, err := parser.ParseNext(quicvarint.Append(nil, 0x42))
		Expect(err).To(MatchError(ErrUnknownFrameType))
	})
})
