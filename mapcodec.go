// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import "golang.org/x/exp/slices"

// Map returns a codec for a JSON object with arbitrary string keys, whose
// values all have the shape of elem. If a key occurs more than once, the
// first value wins. Keys are encoded in sorted order, and absent values are
// omitted from the encoding.
func Map[K ~string, V any](elem Codec[V]) Codec[map[K]V] { return mapCodec[K, V]{elem: elem} }

type mapCodec[K ~string, V any] struct{ elem Codec[V] }

func (mapCodec[K, V]) Shape() Shape { return ShapeMap }

func (mc mapCodec[K, V]) decode(m mode, c Cursor) (map[K]V, Cursor, error) {
	out := make(map[K]V)
	end, err := walkObject(m, c, func(m mode, key string, _, c Cursor) (Cursor, error) {
		v, next, err := mc.elem.decode(m, c)
		if _, dup := out[K(key)]; err == nil && !dup {
			out[K(key)] = v
		}
		return next, err
	})
	if err != nil {
		return nil, c, err
	}
	return out, end.advance(1), nil
}

func (mc mapCodec[K, V]) encode(e *encoder, v map[K]V) {
	keys := make([]K, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	obj := e.open('{', '}')
	for _, key := range keys {
		if elt := v[key]; !isAbsent(mc.elem, elt) {
			obj.key(string(key))
			mc.elem.encode(e, elt)
		}
	}
	obj.done()
}
