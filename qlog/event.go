package qlog

import (
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quic-go/fecwindow/logging"
)

func milliseconds(dur time.Duration) float64 { return float64(dur.Nanoseconds()) / 1e6 }

type eventDetails interface {
	Name() string
	gojay.MarshalerJSONObject
}

type event struct {
	RelativeTime time.Duration
	eventDetails
}

var _ gojay.MarshalerJSONObject = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Float64Key("time", milliseconds(e.RelativeTime))
	enc.StringKey("name", "fec:"+e.Name())
	enc.ObjectKey("data", e.eventDetails)
}

type eventSymbolProtected struct {
	ID logging.SymbolID
}

func (e eventSymbolProtected) Name() string { return "symbol_protected" }
func (e eventSymbolProtected) IsNil() bool  { return false }

func (e eventSymbolProtected) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("id", uint64(e.ID))
}

type eventRepairSymbolGenerated struct {
	Pivot  logging.SymbolID
	Length int
}

func (e eventRepairSymbolGenerated) Name() string { return "repair_symbol_generated" }
func (e eventRepairSymbolGenerated) IsNil() bool  { return false }

func (e eventRepairSymbolGenerated) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("pivot", uint64(e.Pivot))
	enc.IntKey("length", e.Length)
}

type eventAcknowledged struct {
	UpTo logging.SymbolID
}

func (e eventAcknowledged) Name() string { return "symbols_acknowledged" }
func (e eventAcknowledged) IsNil() bool  { return false }

func (e eventAcknowledged) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("largest_contiguous", uint64(e.UpTo))
}

type eventSourceSymbolReceived struct {
	ID logging.SymbolID
}

func (e eventSourceSymbolReceived) Name() string { return "source_symbol_received" }
func (e eventSourceSymbolReceived) IsNil() bool  { return false }

func (e eventSourceSymbolReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("id", uint64(e.ID))
}

type eventRepairSymbolReceived struct {
	Length int
}

func (e eventRepairSymbolReceived) Name() string { return "repair_symbol_received" }
func (e eventRepairSymbolReceived) IsNil() bool  { return false }

func (e eventRepairSymbolReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.IntKey("length", e.Length)
}

type eventSymbolRecovered struct {
	ID logging.SymbolID
}

func (e eventSymbolRecovered) Name() string { return "symbol_recovered" }
func (e eventSymbolRecovered) IsNil() bool  { return false }

func (e eventSymbolRecovered) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("id", uint64(e.ID))
}

type eventSymbolDropped struct {
	Kind logging.SymbolKind
	Code logging.ErrorCode
}

func (e eventSymbolDropped) Name() string { return "symbol_dropped" }
func (e eventSymbolDropped) IsNil() bool  { return false }

func (e eventSymbolDropped) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("symbol_type", e.Kind.String())
	enc.StringKey("trigger", e.Code.String())
}

type eventRemoved struct {
	Bound logging.SymbolID
}

func (e eventRemoved) Name() string { return "window_updated" }
func (e eventRemoved) IsNil() bool  { return false }

func (e eventRemoved) MarshalJSONObject(enc *gojay.Encoder) {
	enc.Uint64Key("lower_bound", uint64(e.Bound))
}

type eventError struct {
	Op  string
	Err error
}

func (e eventError) Name() string { return "error" }
func (e eventError) IsNil() bool  { return false }

func (e eventError) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("operation", e.Op)
	enc.StringKey("message", e.Err.Error())
}
