package projectlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimestampFormat = time.RFC3339

	FieldKeyMsg   = "msg"
	FieldKeyLevel = "level"
	FieldKeyTime  = "time"
	FieldKeyFunc  = "func"
	FieldKeyFile  = "file"
	FieldModule   = "module"
)

// LogPrefixName tags every line with the emitting service.
const LogPrefixName = "rag-model"

// logLine is the fixed field order of one JSON log line.
type logLine struct {
	Level    interface{} `json:"level,omitempty"`
	Module   interface{} `json:"module,omitempty"`
	Time     interface{} `json:"time,omitempty"`
	File     interface{} `json:"file,omitempty"`
	Function interface{} `json:"func,omitempty"`
	Msg      interface{} `json:"msg,omitempty"`
	Fields   Fields      `json:"fields,omitempty"`
}

type Fields map[string]interface{}

// JSONFormatter renders entries as single-line JSON with a module tag.
type JSONFormatter struct {
	// TimestampFormat sets the format used for marshaling timestamps.
	TimestampFormat string

	// DisableTimestamp allows disabling automatic timestamps in output.
	DisableTimestamp bool

	// PrettyPrint will indent all json logs.
	PrettyPrint bool
}

func (f *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := &logLine{
		Level:  entry.Level.String(),
		Module: LogPrefixName,
		Msg:    entry.Message,
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}
	if !f.DisableTimestamp {
		line.Time = entry.Time.Format(timestampFormat)
	}

	if entry.HasCaller() {
		line.Function = entry.Caller.Function
		line.File = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
	}

	if len(entry.Data) > 0 {
		line.Fields = make(Fields, len(entry.Data))
		for k, v := range entry.Data {
			switch v := v.(type) {
			case error:
				// errors are ignored by encoding/json otherwise
				line.Fields[k] = v.Error()
			default:
				line.Fields[k] = v
			}
		}
	}

	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	encoder := json.NewEncoder(b)
	if f.PrettyPrint {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(line); err != nil {
		return nil, fmt.Errorf("failed to marshal log entry to JSON: %v", err)
	}
	return b.Bytes(), nil
}
