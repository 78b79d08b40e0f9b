package scanner

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

type Queryer interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

// Scanner reads pgx.Rows into structs.
//
// # example
//
//	type row struct {
//		Id   string
//		Name string
//		Icon pgtype.Text `sql:"icon_url"`
//	}
//
//	rows, err := scanner.New[row]().QueryAll(
//		ctx, conn, `select "id"::text, "name", "icon_url" from "test_executors"`,
//	)
//
// # mapping rule
//
// A column is mapped into
//
//  1. the field tagged `sql:"column_name"`,
//  2. or, the field named as same as the column,
//  3. or, the field named in CamelCase version of the column ("created_at" -> "CreatedAt").
//
// Columns without field are errors.
type Scanner[T any] interface {
	// ScanAll scans all rows and closes them.
	ScanAll(pgx.Rows) ([]T, error)

	// QueryAll sends query and scans all rows of the response.
	QueryAll(context.Context, Queryer, string, ...interface{}) ([]T, error)
}

type scanner[T any] struct {
	byTag  map[string]string
	byName map[string]string
}

// New creates Scanner for T. T should be a struct.
func New[T any]() Scanner[T] {
	t := reflect.TypeOf(*new(T))
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("scanner: %s is not a struct", t))
	}

	byTag := map[string]string{}
	byName := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		byName[f.Name] = f.Name
		if tag, ok := f.Tag.Lookup("sql"); ok {
			byTag[tag] = f.Name
		}
	}
	return &scanner[T]{byTag: byTag, byName: byName}
}

func camel(s string) string {
	b := &strings.Builder{}
	for _, ss := range strings.Split(s, "_") {
		if len(ss) == 0 {
			b.WriteString("_")
			continue
		}
		b.WriteString(strings.ToUpper(ss[0:1]))
		b.WriteString(ss[1:])
	}
	return b.String()
}

func (s *scanner[T]) fieldFor(column string) (string, bool) {
	if f, ok := s.byTag[column]; ok {
		return f, true
	}
	if f, ok := s.byName[column]; ok {
		return f, true
	}
	if f, ok := s.byName[camel(column)]; ok {
		return f, true
	}
	return "", false
}

func (s *scanner[T]) ScanAll(rows pgx.Rows) ([]T, error) {
	defer rows.Close()

	columns := rows.FieldDescriptions()
	fields := make([]string, 0, len(columns))
	for _, fd := range columns {
		f, ok := s.fieldFor(string(fd.Name))
		if !ok {
			return nil, fmt.Errorf(
				`field for column "%s" (%s) is not found in type "%T"`,
				fd.Name, oidName(fd.DataTypeOID), *new(T),
			)
		}
		fields = append(fields, f)
	}

	ret := []T{}
	for rows.Next() {
		elem := new(T)
		v := reflect.ValueOf(elem).Elem()

		dest := make([]interface{}, len(fields))
		for nth, f := range fields {
			dest[nth] = v.FieldByName(f).Addr().Interface()
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

func (s *scanner[T]) QueryAll(ctx context.Context, conn Queryer, q string, params ...interface{}) ([]T, error) {
	rows, err := conn.Query(ctx, q, params...)
	if err != nil {
		return nil, err
	}
	return s.ScanAll(rows)
}

func oidName(oid uint32) string {
	switch oid {
	case pgtype.BoolOID:
		return "bool"
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
	case pgtype.TextArrayOID:
		return "text[]"
	case pgtype.VarcharArrayOID:
		return "varchar[]"
	case pgtype.TimestamptzOID:
		return "timestamptz"
	case pgtype.TimestampOID:
		return "timestamp"
	case pgtype.UUIDOID:
		return "uuid"
	case pgtype.UUIDArrayOID:
		return "uuid[]"
	case pgtype.JSONBOID:
		return "jsonb"
	}
	return fmt.Sprintf("oid(%d)", oid)
}
