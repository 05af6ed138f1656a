package protocol

// A SymbolID identifies a source symbol within one stream.
// IDs are assigned by the encoder and increase by one per protected symbol.
type SymbolID uint64

// FECSchemeID selects the coding scheme of an encoder or decoder.
type FECSchemeID byte

const FECDisabled FECSchemeID = 0

// RLCFECScheme is the random linear coding scheme.
// Coefficients are regenerated from a 32 bit seed carried by every repair symbol.
const RLCFECScheme FECSchemeID = 1

// VLCFECScheme is the Vandermonde linear coding scheme.
// Coefficients are a pure function of the equation bounds and a sequence number.
const VLCFECScheme FECSchemeID = 2

func (f FECSchemeID) String() string {
	switch f {
	case FECDisabled:
		return "disabled"
	case RLCFECScheme:
		return "RLC"
	case VLCFECScheme:
		return "VLC"
	default:
		return "unknown"
	}
}

const (
	// SymbolIDLen is the length of a serialized SymbolID.
	SymbolIDLen = 8
	// RLCRepairHeaderLen is the length of pivot (8), count (8) and seed (4).
	RLCRepairHeaderLen = 8 + 8 + 4
	// VLCRepairHeaderLen is the length of pivot (8), count (4) and sequence number (8).
	VLCRepairHeaderLen = 8 + 4 + 8
)

const (
	// DefaultMaxWindowSize is the window capacity used when none is configured.
	DefaultMaxWindowSize = 64
	// MaxVLCWindowSize bounds the VLC window: every id in a window needs a
	// distinct non-zero evaluation point in GF(2^8).
	MaxVLCWindowSize = 255
	// MaxSymbolAckFrameSize is the maximum size of an encoded SYMBOL_ACK frame.
	MaxSymbolAckFrameSize = 1000
)
