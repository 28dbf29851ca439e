package constants

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// luaTimeout bounds how long a Lua data file may run.
var luaTimeout = 2 * time.Second

var errTrailingData = errors.New("unexpected data after document")

// LoadFile decodes a flat name-to-value document. The format follows the
// extension: .json, .yaml/.yml, .msgpack/.mpk, or .lua (a script returning
// a table). A missing file yields an error wrapping fs.ErrNotExist.
func LoadFile(path string) (Raw, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read constants %q: %w", cleanPath, err)
	}
	raw, err := Decode(filepath.Ext(cleanPath), data)
	if err != nil {
		return nil, fmt.Errorf("parse constants %q: %w", cleanPath, err)
	}
	return raw, nil
}

// Decode parses data in the format named by ext (with or without the dot).
func Decode(ext string, data []byte) (Raw, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json":
		return decodeJSON(data)
	case "yaml", "yml":
		return decodeYAML(data)
	case "msgpack", "mpk":
		return decodeMsgpack(data)
	case "lua":
		return decodeLua(data)
	}
	return nil, fmt.Errorf("unsupported format %q", ext)
}

func decodeJSON(data []byte) (Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	raw := Raw{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errTrailingData
	}
	return raw, nil
}

// decodeYAML accepts exactly one document; an empty file is an empty source.
func decodeYAML(data []byte) (Raw, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return Raw{}, nil
		}
		return nil, err
	}
	var next yaml.Node
	if err := dec.Decode(&next); err != io.EOF {
		return nil, errTrailingData
	}
	return Raw(m), nil
}

func decodeMsgpack(data []byte) (Raw, error) {
	r := bytes.NewReader(data)
	var m map[string]any
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, errTrailingData
	}
	return Raw(m), nil
}

// decodeLua runs the script with no standard libraries opened and reads
// the table it returns. The script must finish within luaTimeout.
func decodeLua(data []byte) (Raw, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), luaTimeout)
	defer cancel()
	L.SetContext(ctx)

	if err := L.DoString(string(data)); err != nil {
		return nil, err
	}
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("script returned %s, want table", L.Get(-1).Type())
	}
	raw := Raw{}
	var bad error
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			if bad == nil {
				bad = fmt.Errorf("non-string key %s", k.String())
			}
			return
		}
		switch val := v.(type) {
		case lua.LNumber:
			raw[string(key)] = float64(val)
		case lua.LString:
			raw[string(key)] = string(val)
		default:
			raw[string(key)] = v
		}
	})
	if bad != nil {
		return nil, bad
	}
	return raw, nil
}
