package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// Scanner converts pgx.Rows into values of T.
//
// # example
//
//	type Counter struct {
//		Id    string `sql:"id"`
//		Views int
//	}
//
//	counters, err := scanner.New[Counter]().QueryAll(
//		ctx, conn, `select "id", "views" from "quick_add_requests"`,
//	)
//
// # mapping rule
//
// When T is a struct, each column is stored into
//
//  1. the field tagged `sql:"column_name"`, or
//  2. the field whose name is the CamelCase form of the column
//     ("business_name" -> "BusinessName"; "id" -> "Id" or "ID").
//
// Columns without a matching field are an error.
//
// When T is a primitive, time.Time or []byte, rows should have exactly one column.
type Scanner[T any] interface {
	// scan all rows and close them.
	ScanAll(pgx.Rows) ([]T, error)

	// send query and scan all rows of the result.
	QueryAll(context.Context, Queryer, string, ...interface{}) ([]T, error)
}

func New[T any]() Scanner[T] {
	typ := reflect.TypeOf(*new(T))

	if typ.Kind() != reflect.Struct || typ == reflect.TypeOf(time.Time{}) {
		return singleColumnScanner[T]{}
	}

	byTag := map[string]int{}
	byName := map[string]int{}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup("sql"); ok {
			byTag[tag] = i
			continue
		}
		byName[f.Name] = i
	}
	return structScanner[T]{byTag: byTag, byName: byName}
}

// "quick_add_id" -> "QuickAddId"
func camel(column string) string {
	b := &strings.Builder{}
	for _, word := range strings.Split(column, "_") {
		if word == "" {
			continue
		}
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

type structScanner[T any] struct {
	byTag  map[string]int
	byName map[string]int
}

func (s structScanner[T]) fieldIndex(column string) (int, bool) {
	if i, ok := s.byTag[column]; ok {
		return i, true
	}
	c := camel(column)
	if i, ok := s.byName[c]; ok {
		return i, true
	}
	// "Id" also matches "ID"
	if strings.HasSuffix(c, "Id") {
		if i, ok := s.byName[strings.TrimSuffix(c, "Id")+"ID"]; ok {
			return i, true
		}
	}
	return -1, false
}

func (s structScanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	columns := rows.FieldDescriptions()
	indexes := make([]int, len(columns))
	for nth, fd := range columns {
		i, ok := s.fieldIndex(string(fd.Name))
		if !ok {
			return nil, fmt.Errorf(
				`field for column "%s" (%s) is not found in type %T`,
				fd.Name, pgOID2String(fd.DataTypeOID), *new(T),
			)
		}
		indexes[nth] = i
	}

	ret := []T{}
	for rows.Next() {
		elem := new(T)
		v := reflect.ValueOf(elem).Elem()
		dest := make([]interface{}, len(indexes))
		for nth, i := range indexes {
			dest[nth] = v.Field(i).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		ret = append(ret, *elem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s structScanner[T]) QueryAll(ctx context.Context, conn Queryer, q string, params ...interface{}) ([]T, error) {
	rows, err := conn.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

type singleColumnScanner[T any] struct{}

func (singleColumnScanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	if columns := rows.FieldDescriptions(); len(columns) != 1 {
		return nil, fmt.Errorf("%d columns for %T, want 1", len(columns), *new(T))
	}

	ret := []T{}
	for rows.Next() {
		var elem T
		if err := rows.Scan(&elem); err != nil {
			return nil, err
		}
		ret = append(ret, elem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s singleColumnScanner[T]) QueryAll(ctx context.Context, conn Queryer, q string, params ...interface{}) ([]T, error) {
	rows, err := conn.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

func pgOID2String(oid uint32) string {
	switch oid {
	case pgtype.BoolOID:
		return "bool"
	case pgtype.ByteaOID:
		return "bytea"
	case pgtype.Int2OID:
		return "int2"
	case pgtype.Int4OID:
		return "int4"
	case pgtype.Int8OID:
		return "int8"
	case pgtype.TextOID:
		return "text"
	case pgtype.VarcharOID:
		return "varchar"
	case pgtype.JSONOID:
		return "json"
	case pgtype.JSONBOID:
		return "jsonb"
	case pgtype.InetOID:
		return "inet"
	case pgtype.UUIDOID:
		return "uuid"
	case pgtype.TimestampOID:
		return "timestamp"
	case pgtype.TimestamptzOID:
		return "timestamptz"
	case pgtype.Float8OID:
		return "float8"
	case pgtype.NumericOID:
		return "numeric"
	}
	return fmt.Sprintf("oid:%d", oid)
}
