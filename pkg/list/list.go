package list

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const tagName = "header"

// Output formats understood by Format.
const (
	JSON  = "json"
	YAML  = "yaml"
	Table = "table"
)

// Valid reports whether format is a known output format.
func Valid(format string) bool {
	switch format {
	case JSON, YAML, Table:
		return true
	default:
		return false
	}
}

// Format renders entry in the given format. Table output needs a slice of
// structs; rows is used for it when entry itself is not tabular.
func Format(format string, entry interface{}, rows interface{}) (string, error) {
	switch format {
	case YAML:
		return FormatYAML(entry)
	case Table:
		if rows == nil {
			rows = entry
		}
		return FormatTable(rows, "")
	default:
		return FormatJSON(entry)
	}
}

func FormatJSON(entry interface{}) (string, error) {
	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "cannot format as JSON")
	}

	return string(out), nil
}

func FormatYAML(entry interface{}) (string, error) {
	out, err := yaml.Marshal(entry)
	if err != nil {
		return "", errors.Wrap(err, "cannot format as YAML")
	}

	return strings.TrimSuffix(string(out), "\n"), nil
}

func FormatTable(entries interface{}, caption string) (string, error) {
	if !isStructSlice(entries) {
		return "", errors.Errorf("cannot format %T as table", entries)
	}

	var builder strings.Builder
	table := tablewriter.NewWriter(&builder)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.SetHeader(getHeaderNames(entries))
	table.AppendBulk(getRows(entries))
	if caption != "" {
		table.SetCaption(true, caption)
	}
	table.Render()

	return strings.TrimSuffix(builder.String(), "\n"), nil
}

func isStructSlice(i interface{}) bool {
	t := reflect.TypeOf(i)
	return t != nil && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Struct
}

func getHeaderNames(i interface{}) []string {
	t := reflect.TypeOf(i).Elem()

	var tags []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)

		if tag != "" {
			tags = append(tags, tag)
		} else {
			tags = append(tags, field.Name)
		}
	}

	return tags
}

func getRows(e interface{}) [][]string {
	t := reflect.ValueOf(e)

	var rows [][]string
	for i := 0; i < t.Len(); i++ {
		row := t.Index(i)

		var rowString []string
		for idx := 0; idx < row.NumField(); idx++ {
			val := row.Field(idx)
			rowString = append(rowString, toString(val))
		}

		rows = append(rows, rowString)
	}

	return rows
}

func toString(val reflect.Value) string {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(val.Int(), 10)
	case reflect.Bool:
		return strconv.FormatBool(val.Bool())
	case reflect.Slice:
		var elems []string
		for i := 0; i < val.Len(); i++ {
			elems = append(elems, toString(val.Index(i)))
		}

		return strings.Join(elems, ", ")
	default:
		return val.String()
	}
}
