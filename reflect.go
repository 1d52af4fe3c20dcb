// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/creachadair/mds/mapset"
	"golang.org/x/exp/slices"
)

var nullType = reflect.TypeFor[Null]()

// Classify reports the shape of values of type t, as used by For. The rules
// are applied in order:
//
//   - Null has shape null.
//   - A bool has shape boolean.
//   - An integer or floating-point type has shape number.
//   - A string type has shape string.
//   - An array type [N]T has shape tuple. If T is a pointer type, nil
//     elements at the end of the array are omitted.
//   - A slice type has shape sequence.
//   - A map type whose key is a string type has shape map.
//   - A pointer type has shape optional; a nil pointer is absent.
//   - A struct type has shape record.
//
// Classify reports an error for any other type.
func Classify(t reflect.Type) (Shape, error) {
	switch k := t.Kind(); {
	case t == nullType:
		return ShapeNull, nil
	case k == reflect.Bool:
		return ShapeBoolean, nil
	case k >= reflect.Int && k <= reflect.Uintptr, k == reflect.Float32, k == reflect.Float64:
		return ShapeNumber, nil
	case k == reflect.String:
		return ShapeString, nil
	case k == reflect.Array:
		return ShapeTuple, nil
	case k == reflect.Slice:
		return ShapeSequence, nil
	case k == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return ShapeInvalid, fmt.Errorf("map key type %v is not a string", t.Key())
		}
		return ShapeMap, nil
	case k == reflect.Pointer:
		return ShapeOptional, nil
	case k == reflect.Struct:
		return ShapeRecord, nil
	}
	return ShapeInvalid, fmt.Errorf("type %v has no JSON shape", t)
}

// For returns a codec for values of type T, derived from the structure of T
// according to the rules of Classify.
//
// The fields of a struct type are its exported fields. The key of each field
// is the name given by its "json" struct tag, or the name of the field if it
// has no tag. A field with the tag "-" is skipped. A field of pointer type is
// optional; all other fields are required. Recursive types are supported
// through pointers, slices, and maps.
//
// Codecs are cached, and safe for concurrent use by multiple goroutines.
func For[T any]() (Codec[T], error) {
	rc, err := reflectFor(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	if _, ok := rc.(*rPointer); ok {
		return reflectOptCodec[T]{reflectCodec[T]{rc}}, nil
	}
	return reflectCodec[T]{rc}, nil
}

// MustFor is as For, but panics if T has no JSON shape.
func MustFor[T any]() Codec[T] {
	c, err := For[T]()
	if err != nil {
		panic(err)
	}
	return c
}

type reflectCodec[T any] struct{ rc rcodec }

func (c reflectCodec[T]) Shape() Shape { return c.rc.shape() }

func (c reflectCodec[T]) decode(m mode, cur Cursor) (T, Cursor, error) {
	var out T
	next, err := c.rc.decode(m, cur, reflect.ValueOf(&out).Elem())
	if err != nil {
		var zero T
		return zero, cur, err
	}
	return out, next, nil
}

func (c reflectCodec[T]) encode(e *encoder, v T) { c.rc.encode(e, reflect.ValueOf(&v).Elem()) }

type reflectOptCodec[T any] struct{ reflectCodec[T] }

func (c reflectOptCodec[T]) absent(v T) bool { return reflect.ValueOf(&v).Elem().IsNil() }

// An rcodec decodes and encodes values of a fixed reflect.Type, in place.
type rcodec interface {
	shape() Shape
	decode(m mode, c Cursor, v reflect.Value) (Cursor, error)
	encode(e *encoder, v reflect.Value)
}

var rcache struct {
	sync.Mutex
	m map[reflect.Type]rcodec
}

// reflectFor returns a cached rcodec for t, constructing it if necessary.
// Codecs are added to the cache only if construction succeeds.
func reflectFor(t reflect.Type) (rcodec, error) {
	rcache.Lock()
	defer rcache.Unlock()
	if rcache.m == nil {
		rcache.m = make(map[reflect.Type]rcodec)
	}
	b := make(builder)
	rc, err := b.build(t)
	if err != nil {
		return nil, err
	}
	maps.Copy(rcache.m, b)
	return rc, nil
}

// A builder holds the codecs constructed by one call to reflectFor.
// The caller must hold the lock on rcache.
type builder map[reflect.Type]rcodec

// build constructs an rcodec for t. A codec under construction is
// represented by an rLater, so that recursive references to t find it.
func (b builder) build(t reflect.Type) (rcodec, error) {
	if rc, ok := rcache.m[t]; ok {
		return rc, nil
	} else if rc, ok := b[t]; ok {
		return rc, nil
	}
	shape, err := Classify(t)
	if err != nil {
		return nil, err
	}
	later := &rLater{s: shape}
	b[t] = later

	rc, err := b.buildShape(t, shape)
	if err != nil {
		return nil, err
	}
	later.rc = rc
	b[t] = rc
	return rc, nil
}

func (b builder) buildShape(t reflect.Type, shape Shape) (rcodec, error) {
	switch shape {
	case ShapeNull:
		return rNull{}, nil
	case ShapeBoolean:
		return rBool{}, nil
	case ShapeNumber:
		return rNumber{kind: numKind(t)}, nil
	case ShapeString:
		return rString{}, nil
	case ShapeTuple:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("array %v: %w", t, err)
		}
		return &rArray{n: t.Len(), elem: elem}, nil
	case ShapeSequence:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("slice %v: %w", t, err)
		}
		return &rSlice{elem: elem}, nil
	case ShapeMap:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("map %v: %w", t, err)
		}
		return &rMap{keyType: t.Key(), elem: elem}, nil
	case ShapeOptional:
		elem, err := b.build(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("pointer %v: %w", t, err)
		}
		return &rPointer{elemType: t.Elem(), elem: elem}, nil
	case ShapeRecord:
		return b.buildStruct(t)
	}
	panic("unhandled shape " + shape.String())
}

func (b builder) buildStruct(t reflect.Type) (rcodec, error) {
	rs := &rStruct{index: make(map[string]int)}
	names := mapset.New[string]()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tname, _, _ := strings.Cut(tag, ",")
			if tname == "-" {
				continue
			} else if tname != "" {
				name = tname
			}
		}
		if names.Has(name) {
			return nil, fmt.Errorf("struct %v: duplicate field name %q", t, name)
		}
		names.Add(name)

		fc, err := b.build(f.Type)
		if err != nil {
			return nil, fmt.Errorf("struct %v field %s: %w", t, f.Name, err)
		}
		rs.index[name] = len(rs.fields)
		rs.fields = append(rs.fields, rField{
			name:     name,
			pos:      i,
			optional: f.Type.Kind() == reflect.Pointer,
			codec:    fc,
		})
	}
	return rs, nil
}

// rLater is a placeholder for a codec whose construction is in progress.
// Its rc field is set before the cache lock is released.
type rLater struct {
	s  Shape
	rc rcodec
}

func (r *rLater) shape() Shape { return r.s }

func (r *rLater) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	return r.rc.decode(m, c, v)
}

func (r *rLater) encode(e *encoder, v reflect.Value) { r.rc.encode(e, v) }

type rNull struct{}

func (rNull) shape() Shape { return ShapeNull }

func (rNull) decode(m mode, c Cursor, _ reflect.Value) (Cursor, error) {
	return literal(m, c, "null")
}

func (rNull) encode(e *encoder, _ reflect.Value) { e.writeString("null") }

type rBool struct{}

func (rBool) shape() Shape { return ShapeBoolean }

func (rBool) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	b, next, err := boolCodec{}.decode(m, c)
	if err != nil {
		return c, err
	}
	v.SetBool(b)
	return next, nil
}

func (rBool) encode(e *encoder, v reflect.Value) { boolCodec{}.encode(e, v.Bool()) }

type rNumber struct{ kind numericKind }

func (rNumber) shape() Shape { return ShapeNumber }

func (r rNumber) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	z, next, err := r.kind.scan(m, c)
	if err != nil {
		return c, err
	}
	switch {
	case r.kind.float:
		v.SetFloat(z.f)
	case r.kind.signed:
		v.SetInt(z.i)
	default:
		v.SetUint(z.u)
	}
	return next, nil
}

func (r rNumber) encode(e *encoder, v reflect.Value) {
	switch {
	case r.kind.float:
		e.number(r.kind, numValue{f: v.Float()})
	case r.kind.signed:
		e.number(r.kind, numValue{i: v.Int()})
	default:
		e.number(r.kind, numValue{u: v.Uint()})
	}
}

type rString struct{}

func (rString) shape() Shape { return ShapeString }

func (rString) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	s, next, err := scanString(m, c)
	if err != nil {
		return c, err
	}
	v.SetString(s)
	return next, nil
}

func (rString) encode(e *encoder, v reflect.Value) { e.quote(v.String()) }

type rArray struct {
	n    int
	elem rcodec
}

func (*rArray) shape() Shape { return ShapeTuple }

func (r *rArray) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	n := 0
	end, err := walkArray(m, c, func(m mode, i int, c Cursor) (Cursor, error) {
		if i >= r.n {
			return c, m.arityf(skipSpace(c), "too many elements, want %d", r.n)
		}
		n++
		return r.elem.decode(m, c, v.Index(i))
	})
	if err != nil {
		return c, err
	} else if n < r.required() {
		return c, m.arityf(end, "got %d elements, want %d", n, r.n)
	}
	for i := n; i < r.n; i++ {
		v.Index(i).SetZero()
	}
	return end.advance(1), nil
}

func (r *rArray) encode(e *encoder, v reflect.Value) {
	n := r.n
	for n > r.required() && rAbsent(r.elem, v.Index(n-1)) {
		n--
	}
	arr := e.open('[', ']')
	for i := range n {
		arr.next()
		r.elem.encode(e, v.Index(i))
	}
	arr.done()
}

// required returns the minimum number of elements present in the encoding
// of an array. Elements of pointer type may be missing from the end.
func (r *rArray) required() int {
	if r.elem.shape() == ShapeOptional {
		return 0
	}
	return r.n
}

type rSlice struct{ elem rcodec }

func (*rSlice) shape() Shape { return ShapeSequence }

func (r *rSlice) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	out := reflect.Zero(v.Type())
	end, err := walkArray(m, c, func(m mode, _ int, c Cursor) (Cursor, error) {
		elt := reflect.New(v.Type().Elem()).Elem()
		next, err := r.elem.decode(m, c, elt)
		if err == nil {
			out = reflect.Append(out, elt)
		}
		return next, err
	})
	if err != nil {
		return c, err
	}
	v.Set(out)
	return end.advance(1), nil
}

func (r *rSlice) encode(e *encoder, v reflect.Value) {
	arr := e.open('[', ']')
	for i := range v.Len() {
		if elt := v.Index(i); !rAbsent(r.elem, elt) {
			arr.next()
			r.elem.encode(e, elt)
		}
	}
	arr.done()
}

type rMap struct {
	keyType reflect.Type
	elem    rcodec
}

func (*rMap) shape() Shape { return ShapeMap }

func (r *rMap) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	out := reflect.MakeMap(v.Type())
	end, err := walkObject(m, c, func(m mode, key string, _, c Cursor) (Cursor, error) {
		elt := reflect.New(v.Type().Elem()).Elem()
		next, err := r.elem.decode(m, c, elt)
		if err != nil {
			return next, err
		}
		if k := reflect.ValueOf(key).Convert(r.keyType); !out.MapIndex(k).IsValid() {
			out.SetMapIndex(k, elt)
		}
		return next, nil
	})
	if err != nil {
		return c, err
	}
	v.Set(out)
	return end.advance(1), nil
}

func (r *rMap) encode(e *encoder, v reflect.Value) {
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})
	obj := e.open('{', '}')
	for _, key := range keys {
		if elt := v.MapIndex(key); !rAbsent(r.elem, elt) {
			obj.key(key.String())
			r.elem.encode(e, elt)
		}
	}
	obj.done()
}

type rPointer struct {
	elemType reflect.Type
	elem     rcodec
}

func (*rPointer) shape() Shape { return ShapeOptional }

func (r *rPointer) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	p := reflect.New(r.elemType)
	next, err := r.elem.decode(m, c, p.Elem())
	if err != nil {
		return c, err
	}
	v.Set(p)
	return next, nil
}

func (r *rPointer) encode(e *encoder, v reflect.Value) {
	if v.IsNil() {
		e.failf("cannot encode an absent value")
		return
	}
	r.elem.encode(e, v.Elem())
}

// rAbsent reports whether v is an absent value of rc.
func rAbsent(rc rcodec, v reflect.Value) bool {
	return rc.shape() == ShapeOptional && v.IsNil()
}

type rField struct {
	name     string
	pos      int // index of the field in the struct
	optional bool
	codec    rcodec
}

type rStruct struct {
	fields []rField
	index  map[string]int
}

func (*rStruct) shape() Shape { return ShapeRecord }

func (r *rStruct) decode(m mode, c Cursor, v reflect.Value) (Cursor, error) {
	seen := make([]bool, len(r.fields))
	end, err := walkObject(m, c, func(m mode, key string, at, c Cursor) (Cursor, error) {
		i, ok := r.index[key]
		if !ok {
			return c, m.fieldf(at, "unknown field %q", key)
		} else if seen[i] {
			return c, m.fieldf(at, "duplicate field %q", key)
		}
		seen[i] = true
		return r.fields[i].codec.decode(m, c, v.Field(r.fields[i].pos))
	})
	if err != nil {
		return c, err
	}
	for i, f := range r.fields {
		if !seen[i] && !f.optional {
			return c, m.fieldf(end, "missing required field %q", f.name)
		}
	}
	return end.advance(1), nil
}

func (r *rStruct) encode(e *encoder, v reflect.Value) {
	obj := e.open('{', '}')
	for _, f := range r.fields {
		if fv := v.Field(f.pos); !rAbsent(f.codec, fv) {
			obj.key(f.name)
			f.codec.encode(e, fv)
		}
	}
	obj.done()
}
