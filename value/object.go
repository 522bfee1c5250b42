package value

import "fmt"

// ObjType discriminates the heap object variants. Go has no direct
// equivalent of clox's struct-header-first-field inheritance trick for
// casting an Obj* up and down to ObjString*/ObjFunction*, so that pattern
// becomes an interface (HeapObj) implemented by each concrete variant; the
// Type tag lets callers do the one type-switch/assertion they need
// instead of an unsafe pointer cast.
type ObjType byte

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
)

// HeapObj is any value allocated on the object heap. Every variant embeds
// objHeader, which threads it onto the VM's intrusive free-at-shutdown
// list via next/setNext.
type HeapObj interface {
	Type() ObjType
	String() string
	next() HeapObj
	setNext(HeapObj)
}

// objHeader is the common header every heap object embeds, standing in
// for clox's `struct Obj` first-field-of-every-variant layout.
type objHeader struct {
	nextObj HeapObj
}

func (h *objHeader) next() HeapObj     { return h.nextObj }
func (h *objHeader) setNext(o HeapObj) { h.nextObj = o }

// ObjString is an immutable, interned string. Two ObjStrings with equal
// contents are always the same pointer (see the table package), which is
// what lets Value equality treat Obj comparison as pointer comparison.
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Type() ObjType  { return ObjTypeString }
func (s *ObjString) String() string { return s.Chars }

// ObjFunction is a compiled unit of code: its arity, its chunk of
// bytecode, and its name (nil for the implicit top-level script
// function).
type ObjFunction struct {
	objHeader
	Arity int
	Chunk Chunk
	Name  *ObjString
}

func (f *ObjFunction) Type() ObjType { return ObjTypeFunction }

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

// Heap is the intrusive, singly-linked list of every object allocated
// during a VM's lifetime, rooted at the VM and walked once at shutdown.
// There is no per-object reclamation; FreeAll drops the whole list at
// once and lets the Go garbage collector reclaim the backing memory,
// which is the host-language-appropriate reading of clox's
// reallocate(ptr, size, 0)-per-node free_objects() loop.
type Heap struct {
	objects HeapObj
}

func (h *Heap) track(o HeapObj) {
	o.setNext(h.objects)
	h.objects = o
}

// NewString allocates an (uninterned) string object on the heap. Callers
// that need interning semantics go through the intern table first (see
// table.Table.FindString) and only call NewString on a genuine miss.
func (h *Heap) NewString(chars string) *ObjString {
	s := &ObjString{Chars: chars, Hash: HashString(chars)}
	h.track(s)
	return s
}

// NewFunction allocates a fresh, empty function object.
func (h *Heap) NewFunction() *ObjFunction {
	f := &ObjFunction{}
	h.track(f)
	return f
}

// FreeAll releases every object this heap has allocated. Mirrors clox's
// free_objects(): a single bulk pass at shutdown, no incremental GC.
func (h *Heap) FreeAll() {
	h.objects = nil
}

// HashString computes the FNV-1a 32-bit hash used to key interned
// strings, bytewise over the string's contents.
func HashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}
