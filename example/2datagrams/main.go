package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/quic-go/fecwindow"
	"github.com/quic-go/fecwindow/internal/wire"
)

const symbolSize = 1000

// We start a server decoding the datagrams it receives, then send two source
// symbols and a repair symbol to it. The first source symbol is "lost" and
// recovered from the repair symbol.
func main() {
	addr := flag.String("addr", "localhost:4242", "server address")
	scheme := flag.String("scheme", "rlc", "FEC scheme (rlc or vlc)")
	flag.Parse()

	fecScheme := fecwindow.FECSchemeRLC
	if *scheme == "vlc" {
		fecScheme = fecwindow.FECSchemeVLC
	}
	conn, err := net.ListenPacket("udp", *addr)
	if err != nil {
		slog.Error("listen failed", "err", err)
		os.Exit(1)
	}
	done := make(chan error, 1)
	go func() { done <- server(conn, fecScheme) }()

	if err := clientMain(conn.LocalAddr().String(), fecScheme); err != nil {
		slog.Error("client failed", "err", err)
		os.Exit(1)
	}
	if err := <-done; err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// server decodes datagrams until it knows both source symbols.
func server(conn net.PacketConn, scheme fecwindow.FECSchemeID) error {
	defer conn.Close()
	dec, err := fecwindow.NewDecoder(scheme, &fecwindow.Config{SymbolSize: symbolSize})
	if err != nil {
		return err
	}
	defer dec.Close()
	parser := wire.NewFrameParser(scheme, symbolSize)

	buf := make([]byte, 2*symbolSize)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		data := buf[:n]
		for len(data) > 0 {
			l, f, err := parser.ParseNext(data)
			if err != nil {
				return err
			}
			data = data[l:]
			var symbols []fecwindow.SourceSymbol
			switch frame := f.(type) {
			case *wire.SourceSymbolFrame:
				symbols, err = dec.ReceiveSourceSymbol(frame.ID, frame.Payload)
			case *wire.RepairFrame:
				_, symbols, err = dec.ReceiveRepairSymbol(frame.Data)
			}
			if err != nil {
				return err
			}
			for _, s := range symbols {
				fmt.Printf("Server: Got symbol %d: %s...\n", s.ID, s.Payload[:10])
			}
		}
		if largest, ok := dec.LargestContiguouslyReceived(); ok && largest == 1 {
			return nil
		}
	}
}

func clientMain(addr string, scheme fecwindow.FECSchemeID) error {
	enc, err := fecwindow.NewEncoder(scheme, &fecwindow.Config{SymbolSize: symbolSize})
	if err != nil {
		return err
	}
	defer enc.Close()
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	A := bytes.Repeat([]byte("A"), symbolSize)
	B := bytes.Repeat([]byte("B"), symbolSize)

	if _, err := enc.ProtectData(A); err != nil {
		return err
	}
	// A is lost
	id, err := enc.ProtectData(B)
	if err != nil {
		return err
	}
	if err := send(conn, &wire.SourceSymbolFrame{ID: id, Payload: B}); err != nil {
		return err
	}
	rs, err := enc.GenerateRepairSymbol()
	if err != nil {
		return err
	}
	return send(conn, &wire.RepairFrame{Data: rs})
}

func send(conn net.Conn, f wire.Frame) error {
	b, err := f.Append(make([]byte, 0, f.Length()))
	if err != nil {
		return err
	}
	_, err = conn.Write(b)
	return err
}
