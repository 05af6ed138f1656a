package logging

// NewMultiplexedCodecTracer creates a codec tracer that multiplexes events to multiple tracers.
func NewMultiplexedCodecTracer(tracers ...*CodecTracer) *CodecTracer {
	if len(tracers) == 0 {
		return nil
	}
	if len(tracers) == 1 {
		return tracers[0]
	}
	return &CodecTracer{
		ProtectedSymbol: func(id SymbolID) {
			for _, t := range tracers {
				if t.ProtectedSymbol != nil {
					t.ProtectedSymbol(id)
				}
			}
		},
		GeneratedRepairSymbol: func(pivot SymbolID, length int) {
			for _, t := range tracers {
				if t.GeneratedRepairSymbol != nil {
					t.GeneratedRepairSymbol(pivot, length)
				}
			}
		},
		AcknowledgedUpTo: func(id SymbolID) {
			for _, t := range tracers {
				if t.AcknowledgedUpTo != nil {
					t.AcknowledgedUpTo(id)
				}
			}
		},
		ReceivedSourceSymbol: func(id SymbolID) {
			for _, t := range tracers {
				if t.ReceivedSourceSymbol != nil {
					t.ReceivedSourceSymbol(id)
				}
			}
		},
		ReceivedRepairSymbol: func(length int) {
			for _, t := range tracers {
				if t.ReceivedRepairSymbol != nil {
					t.ReceivedRepairSymbol(length)
				}
			}
		},
		RecoveredSymbol: func(id SymbolID) {
			for _, t := range tracers {
				if t.RecoveredSymbol != nil {
					t.RecoveredSymbol(id)
				}
			}
		},
		DroppedSymbol: func(kind SymbolKind, code ErrorCode) {
			for _, t := range tracers {
				if t.DroppedSymbol != nil {
					t.DroppedSymbol(kind, code)
				}
			}
		},
		RemovedUpTo: func(bound SymbolID) {
			for _, t := range tracers {
				if t.RemovedUpTo != nil {
					t.RemovedUpTo(bound)
				}
			}
		},
		Error: func(op string, err error) {
			for _, t := range tracers {
				if t.Error != nil {
					t.Error(op, err)
				}
			}
		},
		Close: func() {
			for _, t := range tracers {
				if t.Close != nil {
					t.Close()
				}
			}
		},
	}
}
