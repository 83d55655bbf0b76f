package klogging

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// SimpleFormatter implements the logrus.Formatter interface.
// Output: "<time> <LEVEL> event=<event> msg=<msg> k1=v1 k2=v2", keys sorted.
type SimpleFormatter struct {
}

func NewSimpleFormatter() logrus.Formatter {
	return &SimpleFormatter{}
}

func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(entry.Time.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(entry.Level.String()))
	sb.WriteString(" ")
	if event, ok := entry.Data["event"]; ok {
		sb.WriteString("event=")
		sb.WriteString(fmt.Sprintf("%v", event))
		sb.WriteString(" ")
	}
	sb.WriteString("msg=")
	sb.WriteString(AddingAdditionalQuotes(entry.Message))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == "event" || k == "time" || k == "level" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(formatValue(entry.Data[k]))
	}
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

func formatValue(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return AddingAdditionalQuotes(s.String())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return AddingAdditionalQuotes(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	default:
		return AddingAdditionalQuotes(fmt.Sprintf("%v", v))
	}
}

func AddingAdditionalQuotes(v string) string {
	v = strings.ReplaceAll(v, "\n", "")
	if v == "" || strings.Contains(v, " ") {
		return "'" + strings.ReplaceAll(v, "'", "\\'") + "'"
	}
	return v
}
