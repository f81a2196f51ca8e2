// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must
// implement. See MakePart.
//
type Updater interface {
	Update(c *Circuit)
}

// field is a pin or bus field of an Updater struct.
type field struct {
	index int
	pin   string
	input bool
	bits  int // 0 for a single pin
}

func (f *field) names() []string {
	if f.bits == 0 {
		return []string{f.pin}
	}
	ns := make([]string, f.bits)
	for i := range ns {
		ns[i] = BusPinName(f.pin, i)
	}
	return ns
}

func pinFields(typ reflect.Type) ([]field, error) {
	var fs []field
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		fd := field{index: i, pin: strings.ToLower(f.Name)}
		dir, name, _ := strings.Cut(tag, ",")
		if name != "" {
			fd.pin = name
		}
		switch dir {
		case "in":
			fd.input = true
		case "out":
		default:
			return nil, errors.Errorf("unsupported tag %q for field %s in %s", tag, f.Name, typ.Name())
		}
		switch ft := f.Type; {
		case ft.Kind() == reflect.Int:
		case ft.Kind() == reflect.Array && ft.Elem().Kind() == reflect.Int && ft.Len() > 0:
			fd.bits = ft.Len()
		default:
			return nil, errors.Errorf("unsupported type %s for field %s in %s", ft, f.Name, typ.Name())
		}
		fs = append(fs, fd)
	}
	return fs, nil
}

// MakePart wraps an Updater into a custom part. Every mount creates a new
// zero value of t's type, with pin numbers set, so that the remaining fields
// can hold the part's state.
//
// Pins are int fields, buses arrays of int, identified by a field tag: `hw:"in"`
// or `hw:"out"`. By default, the pin name is the field name in lowercase. A
// specific name can be forced by adding it in the tag: `hw:"in,pin_name"`.
//
// MakePart panics if t is not a struct or pointer to struct, or on malformed
// tags.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		panic(errors.Errorf("unsupported type %s for %s", typ.Kind(), typ.Name()))
	}
	fs, err := pinFields(typ)
	if err != nil {
		panic(err)
	}

	sp := &PartSpec{Name: typ.Name()}
	for i := range fs {
		if fs[i].input {
			sp.Inputs = append(sp.Inputs, fs[i].names()...)
		} else {
			sp.Outputs = append(sp.Outputs, fs[i].names()...)
		}
	}
	sp.Mount = func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		for i := range fs {
			fv := e.Field(fs[i].index)
			if fs[i].bits == 0 {
				fv.SetInt(int64(s.Pin(fs[i].pin)))
				continue
			}
			for b := 0; b < fs[i].bits; b++ {
				fv.Index(b).SetInt(int64(s.Pin(BusPinName(fs[i].pin, b))))
			}
		}
		return []Component{v.Interface().(Updater).Update}
	}
	return sp
}
