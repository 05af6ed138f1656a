package qlog

import (
	"time"

	"github.com/francoispqt/gojay"

	"github.com/quic-go/fecwindow/logging"
)

const (
	qlogFormat      = "JSON-SEQ"
	qlogVersion     = "0.3"
	recordSeparator = 0x1e
)

type topLevel struct {
	trace trace
}

func (topLevel) IsNil() bool { return false }
func (l topLevel) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("qlog_format", qlogFormat)
	enc.StringKey("qlog_version", qlogVersion)
	enc.StringKey("title", "fecwindow qlog")
	enc.ObjectKey("trace", l.trace)
}

type vantagePoint struct {
	Name string
	Type logging.Role
}

func (p vantagePoint) IsNil() bool { return false }
func (p vantagePoint) MarshalJSONObject(enc *gojay.Encoder) {
	if len(p.Name) > 0 {
		enc.StringKey("name", p.Name)
	}
	enc.StringKey("type", p.Type.String())
}

type commonFields struct {
	Scheme        logging.FECSchemeID
	ReferenceTime time.Time
}

func (f commonFields) IsNil() bool { return false }
func (f commonFields) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("scheme", f.Scheme.String())
	enc.Float64Key("reference_time", float64(f.ReferenceTime.UnixNano())/1e6)
	enc.StringKey("time_format", "relative")
}

type trace struct {
	VantagePoint vantagePoint
	CommonFields commonFields
}

func (trace) IsNil() bool { return false }
func (t trace) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ObjectKey("vantage_point", t.VantagePoint)
	enc.ObjectKey("common_fields", t.CommonFields)
}
