package lifecycle

import (
	"reflect"
	"testing"
)

type hooked struct {
	inits, destroys int
}

func (h *hooked) Init()    { h.inits++ }
func (h *hooked) Destroy() { h.destroys++ }

func TestConstructDestruct(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(hooked{})).Elem()

	Construct(slot)
	Destruct(slot)

	h := slot.Interface().(hooked)
	if h.inits != 1 || h.destroys != 1 {
		t.Errorf("got inits=%d destroys=%d, want 1/1", h.inits, h.destroys)
	}
}

func TestNoHooks(t *testing.T) {
	slot := reflect.New(reflect.TypeOf(0)).Elem()
	Construct(slot)
	Destruct(slot)
	Construct(reflect.Value{})
}
