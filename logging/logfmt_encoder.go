package logging

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var logfmtPool = buffer.NewPool()

// logfmtEncoder implements zapcore.Encoder for logfmt output:
//
//	ts=15:04:05 lvl=info caller=runner.go:42 msg="source traversed" source=s3 documents=12
//
// Values containing spaces, quotes, '=' or control characters are quoted
// with Go escape syntax. Structs and maps flatten into dot-notation keys.
type logfmtEncoder struct {
	cfg       zapcore.EncoderConfig
	namespace string
	ctx       *buffer.Buffer
}

// NewLogfmtEncoder creates a new logfmt encoder.
func NewLogfmtEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &logfmtEncoder{cfg: cfg, ctx: logfmtPool.Get()}
}

func (e *logfmtEncoder) Clone() zapcore.Encoder {
	clone := &logfmtEncoder{cfg: e.cfg, namespace: e.namespace, ctx: logfmtPool.Get()}
	clone.ctx.Write(e.ctx.Bytes())
	return clone
}

func (e *logfmtEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := logfmtPool.Get()

	if e.cfg.TimeKey != "" {
		writePair(line, e.cfg.TimeKey, ent.Time.Format("15:04:05"))
	}
	if e.cfg.LevelKey != "" {
		writePair(line, e.cfg.LevelKey, strings.ToLower(ent.Level.String()))
	}
	if e.cfg.CallerKey != "" && ent.Caller.Defined {
		writePair(line, e.cfg.CallerKey, ent.Caller.TrimmedPath())
	}
	if e.cfg.MessageKey != "" {
		writePair(line, e.cfg.MessageKey, ent.Message)
	}

	// Context fields accumulated via With plus the per-entry fields.
	tail := e.Clone().(*logfmtEncoder)
	for i := range fields {
		fields[i].AddTo(tail)
	}
	if tail.ctx.Len() > 0 {
		line.AppendByte(' ')
		line.Write(tail.ctx.Bytes())
	}
	tail.ctx.Free()

	if e.cfg.StacktraceKey != "" && ent.Stack != "" {
		writePair(line, e.cfg.StacktraceKey, ent.Stack)
	}

	if e.cfg.LineEnding != "" {
		line.AppendString(e.cfg.LineEnding)
	} else {
		line.AppendString(zapcore.DefaultLineEnding)
	}
	return line, nil
}

// writePair appends "key=value" to buf, space-separated from what precedes it.
func writePair(buf *buffer.Buffer, key, value string) {
	if buf.Len() > 0 {
		buf.AppendByte(' ')
	}
	buf.AppendString(key)
	buf.AppendByte('=')
	buf.AppendString(quoteValue(value))
}

func quoteValue(s string) string {
	if !strings.ContainsAny(s, " \t\n\r\"=") {
		return s
	}
	return strconv.Quote(s)
}

// key applies the open namespace, if any.
func (e *logfmtEncoder) key(k string) string {
	if e.namespace == "" {
		return k
	}
	return e.namespace + "." + k
}

func (e *logfmtEncoder) add(key, value string) {
	writePair(e.ctx, e.key(key), value)
}

func (e *logfmtEncoder) AddString(key, val string) { e.add(key, val) }

func (e *logfmtEncoder) AddBool(key string, val bool) { e.add(key, strconv.FormatBool(val)) }

func (e *logfmtEncoder) AddInt(key string, val int)     { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt64(key string, val int64) { e.add(key, strconv.FormatInt(val, 10)) }
func (e *logfmtEncoder) AddInt32(key string, val int32) { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt16(key string, val int16) { e.AddInt64(key, int64(val)) }
func (e *logfmtEncoder) AddInt8(key string, val int8)   { e.AddInt64(key, int64(val)) }

func (e *logfmtEncoder) AddUint(key string, val uint) { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint64(key string, val uint64) {
	e.add(key, strconv.FormatUint(val, 10))
}
func (e *logfmtEncoder) AddUint32(key string, val uint32)   { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint16(key string, val uint16)   { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUint8(key string, val uint8)     { e.AddUint64(key, uint64(val)) }
func (e *logfmtEncoder) AddUintptr(key string, val uintptr) { e.AddUint64(key, uint64(val)) }

func (e *logfmtEncoder) AddFloat64(key string, val float64) {
	e.add(key, strconv.FormatFloat(val, 'g', -1, 64))
}
func (e *logfmtEncoder) AddFloat32(key string, val float32) {
	e.add(key, strconv.FormatFloat(float64(val), 'g', -1, 32))
}

func (e *logfmtEncoder) AddComplex128(key string, val complex128) { e.add(key, fmt.Sprint(val)) }
func (e *logfmtEncoder) AddComplex64(key string, val complex64)   { e.add(key, fmt.Sprint(val)) }

func (e *logfmtEncoder) AddDuration(key string, val time.Duration) { e.add(key, val.String()) }
func (e *logfmtEncoder) AddTime(key string, val time.Time) {
	e.add(key, val.Format(time.RFC3339))
}

func (e *logfmtEncoder) AddBinary(key string, val []byte) {
	e.add(key, fmt.Sprintf("%x", val))
}
func (e *logfmtEncoder) AddByteString(key string, val []byte) { e.add(key, string(val)) }

func (e *logfmtEncoder) AddArray(key string, arr zapcore.ArrayMarshaler) error {
	e.add(key, fmt.Sprint(arr))
	return nil
}

func (e *logfmtEncoder) AddObject(key string, obj zapcore.ObjectMarshaler) error {
	e.add(key, fmt.Sprint(obj))
	return nil
}

// AddReflected flattens structs and maps into dot-notation keys, so a
// config struct logs as config.Input.Dir=data rather than a Go value dump.
func (e *logfmtEncoder) AddReflected(key string, val any) error {
	e.addReflected(e.key(key), reflect.ValueOf(val))
	return nil
}

func (e *logfmtEncoder) addReflected(key string, v reflect.Value) {
	if !v.IsValid() {
		writePair(e.ctx, key, "<nil>")
		return
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			writePair(e.ctx, key, "<nil>")
			return
		}
		e.addReflected(key, v.Elem())
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			e.addReflected(key+"."+f.Name, v.Field(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			e.addReflected(key+"."+fmt.Sprint(iter.Key().Interface()), iter.Value())
		}
	default:
		writePair(e.ctx, key, fmt.Sprint(v.Interface()))
	}
}

func (e *logfmtEncoder) OpenNamespace(key string) {
	if e.namespace == "" {
		e.namespace = key
		return
	}
	e.namespace += "." + key
}

var _ zapcore.Encoder = (*logfmtEncoder)(nil)
