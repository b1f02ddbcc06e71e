// Package standard defines the fixed catalog schema every book record is
// normalized against. The field set is closed: consumers may rely on every
// key being present in a record's content map.
package standard

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var rawSchema []byte

type Field struct {
	Key      string `yaml:"key"`
	Width    int    `yaml:"width"`
	LongText bool   `yaml:"longtext"`
}

type schemaFile struct {
	Fields []Field `yaml:"fields"`
}

var (
	loadOnce sync.Once
	fields   []Field
	byKey    map[string]Field
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		var sf schemaFile
		if err := yaml.Unmarshal(rawSchema, &sf); err != nil {
			loadErr = fmt.Errorf("parse standard schema: %w", err)
			return
		}
		if len(sf.Fields) == 0 {
			loadErr = fmt.Errorf("standard schema is empty")
			return
		}
		byKey = make(map[string]Field, len(sf.Fields))
		for _, f := range sf.Fields {
			if _, dup := byKey[f.Key]; dup {
				loadErr = fmt.Errorf("duplicate standard field %q", f.Key)
				return
			}
			byKey[f.Key] = f
		}
		fields = sf.Fields
	})
}

// Fields returns the schema fields in canonical column order.
func Fields() []Field {
	load()
	if loadErr != nil {
		panic(loadErr)
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Keys returns the schema keys in canonical column order.
func Keys() []string {
	fs := Fields()
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.Key
	}
	return keys
}

// IsKey reports whether k is part of the standard schema.
func IsKey(k string) bool {
	load()
	if loadErr != nil {
		panic(loadErr)
	}
	_, ok := byKey[k]
	return ok
}

// IsLongText reports whether k is one of the long-form text fields.
func IsLongText(k string) bool {
	load()
	if loadErr != nil {
		panic(loadErr)
	}
	return byKey[k].LongText
}

// Normalize returns a content map carrying every schema key. Unknown keys in
// the input are dropped; missing keys default to the empty string.
func Normalize(content map[string]string) map[string]string {
	out := make(map[string]string, len(Fields()))
	for _, f := range Fields() {
		out[f.Key] = content[f.Key]
	}
	return out
}
