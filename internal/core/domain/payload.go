// internal/core/domain/payload.go
package domain

import (
	"bytes"
	"encoding/json"
)

// Field es un par nombre/valor de un payload. Un campo contiene o bien un
// único string (Value) o bien una lista (Values, IsList=true).
type Field struct {
	Name   string
	Value  string
	Values []string
	IsList bool
}

// Payload es el resultado exitoso de un lookup: campos en orden de inserción.
type Payload struct {
	fields []Field
	index  map[string]int
}

// NewPayload crea un payload vacío.
func NewPayload() *Payload {
	return &Payload{index: make(map[string]int)}
}

// Set asigna un valor escalar. Si el campo ya existe se reemplaza en su sitio.
func (p *Payload) Set(name, value string) *Payload {
	p.put(Field{Name: name, Value: value})
	return p
}

// SetList asigna una lista. Una lista nil se guarda vacía, nunca ausente.
func (p *Payload) SetList(name string, values []string) *Payload {
	p.put(Field{Name: name, Values: append([]string{}, values...), IsList: true})
	return p
}

// SetDefault asigna value, o fallback si value está vacío.
func (p *Payload) SetDefault(name, value, fallback string) *Payload {
	if value == "" {
		value = fallback
	}
	return p.Set(name, value)
}

func (p *Payload) put(f Field) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[f.Name]; ok {
		p.fields[i] = f
		return
	}
	p.index[f.Name] = len(p.fields)
	p.fields = append(p.fields, f)
}

// Get retorna el campo con ese nombre.
func (p *Payload) Get(name string) (Field, bool) {
	if p == nil {
		return Field{}, false
	}
	i, ok := p.index[name]
	if !ok {
		return Field{}, false
	}
	return copyField(p.fields[i]), true
}

// Value retorna el valor escalar de un campo, o "" si no existe o es lista.
func (p *Payload) Value(name string) string {
	f, ok := p.Get(name)
	if !ok || f.IsList {
		return ""
	}
	return f.Value
}

// Values retorna la lista de un campo, o nil si no existe o es escalar.
func (p *Payload) Values(name string) []string {
	f, ok := p.Get(name)
	if !ok || !f.IsList {
		return nil
	}
	return f.Values
}

// Fields retorna una copia de los campos en orden.
func (p *Payload) Fields() []Field {
	if p == nil {
		return nil
	}
	out := make([]Field, len(p.fields))
	for i, f := range p.fields {
		out[i] = copyField(f)
	}
	return out
}

// Len retorna el número de campos.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// Clone retorna una copia profunda del payload.
func (p *Payload) Clone() *Payload {
	c := NewPayload()
	if p == nil {
		return c
	}
	for _, f := range p.fields {
		c.put(copyField(f))
	}
	return c
}

func copyField(f Field) Field {
	if f.IsList {
		f.Values = append([]string{}, f.Values...)
	}
	return f
}

// MarshalJSON serializa el payload como un objeto JSON que respeta el orden
// de los campos.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		var val []byte
		if f.IsList {
			val, err = json.Marshal(f.Values)
		} else {
			val, err = json.Marshal(f.Value)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
